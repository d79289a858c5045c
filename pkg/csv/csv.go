package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yurifrl/receiptr/pkg/models"
)

// Header is the column order of Create.
var Header = []string{"id", "source", "vendor", "transaction_date", "amount", "category"}

// Create renders results as CSV. Unset dates and categories become empty
// cells.
func Create(results []models.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, r := range results {
		record := []string{
			r.ID(),
			r.Source,
			r.Vendor,
			r.DateString(),
			fmt.Sprintf("%.2f", r.Amount),
			r.CategoryString(),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("error writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
