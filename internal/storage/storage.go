package storage

import (
	"context"

	"github.com/1di210299/pricing-intelligence-system/internal/pricing"
)

// Storage is the interface for persisting pricing decisions.
type Storage interface {
	// StoreDecision stores one priced query.
	StoreDecision(ctx context.Context, d *pricing.Decision) error

	// Close closes the storage connection.
	Close() error
}
