package ports

import (
	"context"
	"time"

	"vantage/contexts/finance-core/balance-service/domain/entities"
)

type BalanceRepository interface {
	// GetBalance returns a zero-valued balance for unknown influencers;
	// rows materialize on first ledger entry.
	GetBalance(ctx context.Context, influencerID string) (entities.Balance, error)

	// ApplyEntry atomically records the ledger entry and applies its
	// mutation to the balance row. A duplicate idempotency key applies
	// nothing and returns false.
	ApplyEntry(ctx context.Context, entry entities.LedgerEntry) (bool, error)

	ListEntries(ctx context.Context, influencerID string, limit int) ([]entities.LedgerEntry, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
