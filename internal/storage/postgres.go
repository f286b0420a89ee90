package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/pricing"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreDecision stores a pricing decision in PostgreSQL. Market and
// internal columns are NULL when the corresponding signal was absent.
func (p *PostgresStorage) StoreDecision(ctx context.Context, d *pricing.Decision) error {
	rec := d.Recommendation

	var (
		marketMedian sql.NullFloat64
		marketSample sql.NullInt64
	)
	if m := rec.MarketData; m != nil {
		marketMedian = sql.NullFloat64{Float64: m.MedianPrice, Valid: true}
		marketSample = sql.NullInt64{Int64: int64(m.SampleSize), Valid: true}
	}

	var (
		internalPrice sql.NullFloat64
		matchedCount  sql.NullInt64
	)
	if i := rec.InternalData; i != nil {
		internalPrice = sql.NullFloat64{Float64: i.InternalPrice, Valid: true}
		matchedCount = sql.NullInt64{Int64: int64(i.MatchedCount), Valid: true}
	}

	query := `
		INSERT INTO pricing_decisions (
			id, query, kind, recommended_price, weighting, confidence,
			prediction_method, rationale, warnings, market_median,
			market_sample_size, internal_price, matched_count, cached,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		d.ID,
		d.Query,
		string(d.Kind),
		rec.RecommendedPrice,
		rec.Weighting,
		rec.ConfidenceScore,
		string(rec.PredictionMethod),
		rec.Rationale,
		pq.Array(rec.Warnings),
		marketMedian,
		marketSample,
		internalPrice,
		matchedCount,
		d.Cached,
		d.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}

	p.logger.Debug("decision-stored",
		zap.String("decision-id", d.ID),
		zap.String("query", d.Query),
		zap.String("method", string(rec.PredictionMethod)))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
