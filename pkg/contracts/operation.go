package contracts

// OpVersion is the wire version stamped into every operation record.
const OpVersion = "1.0"

// OperationRecord is the typed view of an Elydora Operation Record (EOR) —
// the signed envelope describing one agent action. The wire form submitted
// to the platform is the RFC 8785 canonical serialization of this record;
// struct order here is irrelevant to hashing and signing.
//
//nolint:govet // fieldalignment: struct layout mirrors the envelope fields
type OperationRecord struct {
	OpVersion      string         `json:"op_version"`
	OperationID    string         `json:"operation_id"`
	OrgID          string         `json:"org_id"`
	AgentID        string         `json:"agent_id"`
	IssuedAt       int64          `json:"issued_at"`
	TTLMillis      int64          `json:"ttl_ms"`
	Nonce          string         `json:"nonce"`
	OperationType  string         `json:"operation_type"`
	Subject        map[string]any `json:"subject"`
	Action         map[string]any `json:"action"`
	Payload        any            `json:"payload"`
	PayloadHash    string         `json:"payload_hash"`
	PrevChainHash  string         `json:"prev_chain_hash"`
	AgentPubkeyKID string         `json:"agent_pubkey_kid"`
	Signature      string         `json:"signature,omitempty"`
}

// Receipt is the server-issued acknowledgement (EAR) for an accepted
// operation. The chain hash it carries is the server-verified value; the SDK
// never recomputes or overrides it.
type Receipt struct {
	ReceiptID        string `json:"receipt_id"`
	OperationID      string `json:"operation_id"`
	SeqNo            int64  `json:"seq_no"`
	ChainHash        string `json:"chain_hash"`
	ServerReceivedAt int64  `json:"server_received_at"`
	QueueMessageID   string `json:"queue_message_id"`
	ReceiptHash      string `json:"receipt_hash"`
	ElydoraKID       string `json:"elydora_kid"`
	ElydoraSignature string `json:"elydora_signature"`
	ReceiptVersion   string `json:"receipt_version"`
}

// OperationWithReceipt is the response shape of GET /v1/operations/{id}.
type OperationWithReceipt struct {
	Operation OperationRecord `json:"operation"`
	Receipt   *Receipt        `json:"receipt,omitempty"`
}

// VerifyOperationResponse reports the server-side re-verification of a
// stored operation.
type VerifyOperationResponse struct {
	OperationID    string `json:"operation_id"`
	SignatureValid bool   `json:"signature_valid"`
	PayloadValid   bool   `json:"payload_valid"`
	ChainValid     bool   `json:"chain_valid"`
	EpochID        string `json:"epoch_id,omitempty"`
	Verdict        string `json:"verdict"`
}

// SubmitResponse wraps the receipt returned by POST /v1/operations.
type SubmitResponse struct {
	Receipt Receipt `json:"receipt"`
}
