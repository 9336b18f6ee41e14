// Package store keeps a local read-only mirror of submitted operations and
// their receipts, the SDK's lite-mode journal. Nothing is ever replayed from
// it; it backs `elydora history` and offline inspection.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// ErrNotFound is returned when a journal lookup misses.
var ErrNotFound = errors.New("journal: operation not found")

// Journal implements the local operation mirror using database/sql. It works
// against SQLite and anything else speaking standard placeholders.
type Journal struct {
	db *sql.DB
}

// Entry is one journaled operation with its receipt fields flattened.
type Entry struct {
	OperationID   string
	AgentID       string
	OperationType string
	IssuedAt      int64
	ChainHash     string
	Canonical     string // wire form of the signed record
	ReceiptID     string
	SeqNo         int64
	ReceivedAt    int64
}

// Open opens (or creates) a journal database at path and initializes its
// schema. Use ":memory:" for throwaway journals.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One connection: journal writes are serial, and a second connection to
	// a :memory: database would see an empty schema.
	db.SetMaxOpenConns(1)
	j := NewJournal(db)
	if err := j.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// NewJournal wraps an existing database handle without initializing it.
func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	operation_id TEXT PRIMARY KEY,
	agent_id TEXT NOT NULL,
	operation_type TEXT NOT NULL,
	issued_at INTEGER NOT NULL,
	chain_hash TEXT NOT NULL,
	canonical TEXT NOT NULL,
	receipt_id TEXT NOT NULL DEFAULT '',
	seq_no INTEGER NOT NULL DEFAULT 0,
	received_at INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_operations_issued_at ON operations (issued_at);
`

// Init creates the journal schema.
func (j *Journal) Init(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init journal schema: %w", err)
	}
	return nil
}

// Record mirrors one submitted operation. The receipt may be nil when the
// caller journals a build that was never acknowledged.
func (j *Journal) Record(ctx context.Context, record *contracts.OperationRecord, chainHash string, canonical []byte, receipt *contracts.Receipt) error {
	entry := Entry{
		OperationID:   record.OperationID,
		AgentID:       record.AgentID,
		OperationType: record.OperationType,
		IssuedAt:      record.IssuedAt,
		ChainHash:     chainHash,
		Canonical:     string(canonical),
	}
	if receipt != nil {
		entry.ReceiptID = receipt.ReceiptID
		entry.SeqNo = receipt.SeqNo
		entry.ReceivedAt = receipt.ServerReceivedAt
	}
	query := `
		INSERT INTO operations
			(operation_id, agent_id, operation_type, issued_at, chain_hash, canonical, receipt_id, seq_no, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := j.db.ExecContext(ctx, query,
		entry.OperationID, entry.AgentID, entry.OperationType, entry.IssuedAt,
		entry.ChainHash, entry.Canonical, entry.ReceiptID, entry.SeqNo, entry.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

// Get fetches one journaled operation by id.
func (j *Journal) Get(ctx context.Context, operationID string) (*Entry, error) {
	query := `
		SELECT operation_id, agent_id, operation_type, issued_at, chain_hash, canonical, receipt_id, seq_no, received_at
		FROM operations WHERE operation_id = $1
	`
	row := j.db.QueryRowContext(ctx, query, operationID)
	var e Entry
	err := row.Scan(&e.OperationID, &e.AgentID, &e.OperationType, &e.IssuedAt,
		&e.ChainHash, &e.Canonical, &e.ReceiptID, &e.SeqNo, &e.ReceivedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("journal select: %w", err)
	}
	return &e, nil
}

// List returns the most recent operations, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT operation_id, agent_id, operation_type, issued_at, chain_hash, canonical, receipt_id, seq_no, received_at
		FROM operations ORDER BY issued_at DESC, operation_id DESC LIMIT $1
	`
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("journal list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.OperationID, &e.AgentID, &e.OperationType, &e.IssuedAt,
			&e.ChainHash, &e.Canonical, &e.ReceiptID, &e.SeqNo, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal rows: %w", err)
	}
	return out, nil
}

// Count returns the number of journaled operations.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("journal count: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
