package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTxOptions_ReadCommitted(t *testing.T) {
	opts := DefaultTxOptions()
	// The prefix advisory lock only orders numbering when the scan after it
	// takes its own snapshot.
	assert.Equal(t, pgx.ReadCommitted, opts.IsolationLevel)
	assert.Equal(t, pgx.ReadWrite, opts.AccessMode)
	assert.Positive(t, opts.StatementTimeout)
}

func TestSnapshotTxOptions(t *testing.T) {
	opts := SnapshotTxOptions()
	assert.Equal(t, pgx.RepeatableRead, opts.IsolationLevel)
	assert.Equal(t, pgx.ReadOnly, opts.AccessMode)
}

func TestGetTx_OutsideTransaction(t *testing.T) {
	m := &TxManager{}
	assert.Nil(t, m.GetTx(context.Background()))
}
