package contracts

// Export is an asynchronous evidence-pack job.
type Export struct {
	ExportID   string       `json:"export_id"`
	OrgID      string       `json:"org_id"`
	Status     string       `json:"status"` // "pending", "running", "ready", "failed"
	Filter     *AuditFilter `json:"filter,omitempty"`
	CreatedAt  int64        `json:"created_at"`
	FinishedAt int64        `json:"finished_at,omitempty"`
}

// CreateExportRequest is the body of POST /v1/exports.
type CreateExportRequest struct {
	Filter AuditFilter `json:"filter"`
}

// ExportCreated wraps the job returned by POST /v1/exports.
type ExportCreated struct {
	Export Export `json:"export"`
}

// ExportList is the response shape of GET /v1/exports.
type ExportList struct {
	Exports []Export `json:"exports"`
}

// ExportStatus is the response shape of GET /v1/exports/{id}.
type ExportStatus struct {
	Export      Export `json:"export"`
	DownloadURL string `json:"download_url,omitempty"`
}
