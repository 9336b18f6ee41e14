package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

func testRecord(opID string, issuedAt int64) *contracts.OperationRecord {
	return &contracts.OperationRecord{
		OpVersion:     contracts.OpVersion,
		OperationID:   opID,
		OrgID:         "o",
		AgentID:       "agent-1",
		IssuedAt:      issuedAt,
		OperationType: "file.edit",
	}
}

func TestJournalRoundTrip(t *testing.T) {
	ctx := context.Background()
	journal, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = journal.Close() }()

	receipt := &contracts.Receipt{
		ReceiptID:        "r-1",
		OperationID:      "op-1",
		SeqNo:            1,
		ServerReceivedAt: 1_700_000_001_000,
	}
	require.NoError(t, journal.Record(ctx, testRecord("op-1", 1_700_000_000_000), "ch-1", []byte(`{"op":"one"}`), receipt))
	require.NoError(t, journal.Record(ctx, testRecord("op-2", 1_700_000_002_000), "ch-2", []byte(`{"op":"two"}`), nil))

	entry, err := journal.Get(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", entry.AgentID)
	assert.Equal(t, "ch-1", entry.ChainHash)
	assert.Equal(t, `{"op":"one"}`, entry.Canonical)
	assert.Equal(t, "r-1", entry.ReceiptID)
	assert.Equal(t, int64(1), entry.SeqNo)

	entries, err := journal.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "op-2", entries[0].OperationID, "newest first")
	assert.Equal(t, "op-1", entries[1].OperationID)
	assert.Empty(t, entries[0].ReceiptID, "unacknowledged build journals without receipt")

	count, err := journal.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestJournalGetMiss(t *testing.T) {
	ctx := context.Background()
	journal, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = journal.Close() }()

	_, err = journal.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJournalDuplicateOperationID(t *testing.T) {
	ctx := context.Background()
	journal, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = journal.Close() }()

	require.NoError(t, journal.Record(ctx, testRecord("op-1", 1), "ch", []byte(`{}`), nil))
	err = journal.Record(ctx, testRecord("op-1", 2), "ch2", []byte(`{}`), nil)
	assert.Error(t, err, "operation_id is the primary key")
}

func TestJournalInsertFailureSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO operations").WillReturnError(errors.New("disk full"))

	journal := NewJournal(db)
	err = journal.Record(context.Background(), testRecord("op-1", 1), "ch", []byte(`{}`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalListLimitDefault(t *testing.T) {
	ctx := context.Background()
	journal, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = journal.Close() }()

	entries, err := journal.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
