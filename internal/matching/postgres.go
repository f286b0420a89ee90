package matching

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// PostgresSource loads internal sales records from the sales_data table.
type PostgresSource struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresSource connects to the database behind the given connection
// string and verifies it is reachable.
func NewPostgresSource(connStr string, logger *zap.Logger) (*PostgresSource, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("postgres-source-connected")

	return &PostgresSource{
		db:     db,
		logger: logger,
	}, nil
}

// LoadAll reads the full sales_data table. The table follows the upstream
// schema and carries no UPC column; UPC matching is only available for CSV
// sources that include one.
func (p *PostgresSource) LoadAll(ctx context.Context) ([]types.InternalRecord, error) {
	query := `
		SELECT
			item_id, department, category, subcategory, brand,
			production_date, sold_date, days_to_sell,
			production_price, sold_price
		FROM sales_data
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sales_data: %w", err)
	}
	defer rows.Close()

	var records []types.InternalRecord
	for rows.Next() {
		var (
			record     types.InternalRecord
			soldDate   sql.NullTime
			daysToSell sql.NullFloat64
			soldPrice  sql.NullFloat64
		)

		err = rows.Scan(
			&record.ItemID,
			&record.Department,
			&record.Category,
			&record.Subcategory,
			&record.Brand,
			&record.ProductionDate,
			&soldDate,
			&daysToSell,
			&record.ProductionPrice,
			&soldPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sales_data row: %w", err)
		}

		if soldDate.Valid {
			t := soldDate.Time
			record.SoldDate = &t
		}
		if daysToSell.Valid {
			v := daysToSell.Float64
			record.DaysToSell = &v
		}
		if soldPrice.Valid {
			v := soldPrice.Float64
			record.SoldPrice = &v
		}

		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales_data rows: %w", err)
	}

	p.logger.Info("internal-data-loaded",
		zap.String("source", "postgres"),
		zap.Int("records", len(records)))

	return records, nil
}

// Close closes the database connection.
func (p *PostgresSource) Close() error {
	return p.db.Close()
}
