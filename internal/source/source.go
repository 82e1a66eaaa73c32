package source

import (
	"context"
	"time"

	"GrowthSentinel/internal/model"
)

// EventSource supplies raw dated records (signups, account creations) for
// growth sampling. Implementations must fail with *UnavailableError on
// infrastructure failure rather than returning an empty result: empty is a
// legitimate answer, unreachable is not.
type EventSource interface {
	FetchEvents(ctx context.Context, entityID string, start, end time.Time) ([]model.Event, error)
	Name() string
}

// TransactionSource supplies raw payment records for revenue derivation.
type TransactionSource interface {
	FetchTransactions(ctx context.Context, entityID string, start, end time.Time) ([]model.Transaction, error)
	Name() string
}
