package pricing

import (
	"context"
	"time"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// Decision is one priced query as persisted for audit.
type Decision struct {
	ID             string
	Query          string
	Kind           types.QueryKind
	Recommendation *types.Recommendation
	Cached         bool
	CreatedAt      time.Time
}

// DecisionStore is the interface for persisting decisions.
type DecisionStore interface {
	StoreDecision(ctx context.Context, d *Decision) error
	Close() error
}
