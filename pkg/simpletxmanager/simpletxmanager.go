// Package simpletxmanager is the txmanager variant for a bare *sql.DB,
// used when metrics are disabled and the dbmetrics wrapper is not in play.
package simpletxmanager

import (
	"context"
	"database/sql"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

type sqlBeginner struct {
	db *sql.DB
}

func (b *sqlBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx, err := b.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &dbmetrics.SqlTxWrapper{Tx: tx}, nil
}

// NewTransactionManager creates a transaction manager over a plain *sql.DB.
func NewTransactionManager(db *sql.DB) *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(&sqlBeginner{db: db})
}
