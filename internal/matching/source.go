package matching

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// Source loads internal sales records. Records are read once at startup; the
// engine never goes back to the source during request processing.
type Source interface {
	LoadAll(ctx context.Context) ([]types.InternalRecord, error)
}

// NewSource selects a backend from the configured path. Connection strings
// select Postgres, anything else is treated as a CSV file path.
func NewSource(path string, logger *zap.Logger) (Source, error) {
	if strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://") {
		return NewPostgresSource(path, logger)
	}
	return NewCSVSource(path, logger), nil
}
