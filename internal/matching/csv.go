package matching

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// requiredColumns must all be present in the CSV header. upc, sold_date,
// days_to_sell and sold_price are optional.
var requiredColumns = []string{
	"item_id", "department", "category", "subcategory", "brand",
	"production_date", "production_price",
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

// CSVSource loads internal sales records from a CSV file. Column order is
// taken from the header row, so exports with extra or reshuffled columns
// still load.
type CSVSource struct {
	path   string
	logger *zap.Logger
}

// NewCSVSource creates a CSV-backed record source.
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger,
	}
}

// LoadAll reads every record in the file. Rows that cannot be parsed are
// skipped and counted; a missing required column fails the whole load.
func (c *CSVSource) LoadAll(_ context.Context) ([]types.InternalRecord, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open internal data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("internal data file %s: missing column %q", c.path, name)
		}
	}

	var records []types.InternalRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		record, err := parseRow(row, columns)
		if err != nil {
			skipped++
			c.logger.Debug("internal-record-skipped",
				zap.String("item-id", field(row, columns, "item_id")),
				zap.String("reason", err.Error()))
			continue
		}
		records = append(records, record)
	}

	c.logger.Info("internal-data-loaded",
		zap.String("path", c.path),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped))

	return records, nil
}

func parseRow(row []string, columns map[string]int) (types.InternalRecord, error) {
	record := types.InternalRecord{
		ItemID:      field(row, columns, "item_id"),
		UPC:         field(row, columns, "upc"),
		Department:  field(row, columns, "department"),
		Category:    field(row, columns, "category"),
		Subcategory: field(row, columns, "subcategory"),
		Brand:       field(row, columns, "brand"),
	}
	if record.ItemID == "" {
		return record, fmt.Errorf("empty item_id")
	}

	produced, err := parseDate(field(row, columns, "production_date"))
	if err != nil {
		return record, fmt.Errorf("production_date: %w", err)
	}
	if produced == nil {
		return record, fmt.Errorf("empty production_date")
	}
	record.ProductionDate = *produced

	record.ProductionPrice, err = strconv.ParseFloat(field(row, columns, "production_price"), 64)
	if err != nil {
		return record, fmt.Errorf("production_price: %w", err)
	}

	record.SoldDate, err = parseDate(field(row, columns, "sold_date"))
	if err != nil {
		return record, fmt.Errorf("sold_date: %w", err)
	}
	record.DaysToSell, err = parseOptionalFloat(field(row, columns, "days_to_sell"))
	if err != nil {
		return record, fmt.Errorf("days_to_sell: %w", err)
	}
	record.SoldPrice, err = parseOptionalFloat(field(row, columns, "sold_price"))
	if err != nil {
		return record, fmt.Errorf("sold_price: %w", err)
	}

	return record, nil
}

// field returns the named column of the row, or "" when the column is absent
// from the header or the row is short.
func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", s)
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
