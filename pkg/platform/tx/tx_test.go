package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEmptyContext(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)
}

func TestWithNilTxLeavesContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithTx(ctx, nil))
}

func TestQuerierFromFallsBackToDB(t *testing.T) {
	db := &sql.DB{}
	assert.Same(t, db, QuerierFrom(context.Background(), db))

	sqlTx := &sql.Tx{}
	assert.Same(t, sqlTx, QuerierFrom(WithTx(context.Background(), sqlTx), db))
}

func TestRunJoinsExistingTransaction(t *testing.T) {
	sqlTx := &sql.Tx{}
	ctx := WithTx(context.Background(), sqlTx)

	called := false
	// db is nil: joining must not try to begin a new transaction.
	err := Run(ctx, nil, func(inner context.Context) error {
		called = true
		got, ok := From(inner)
		assert.True(t, ok)
		assert.Same(t, sqlTx, got)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}
