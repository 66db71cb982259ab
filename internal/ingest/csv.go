package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVColumns names the header columns a ledger export must carry.
type CSVColumns struct {
	Date     string
	Category string
	Amount   string
}

// DefaultCSVColumns matches the common accounting-system export layout.
var DefaultCSVColumns = CSVColumns{Date: "Date", Category: "Category", Amount: "Amount"}

// CSVSource reads raw ledger rows from a CSV export with a header row.
type CSVSource struct {
	Path    string
	Columns CSVColumns
}

// NewCSVSource creates a CSVSource. Zero-valued column names fall back to
// the defaults.
func NewCSVSource(path string, cols CSVColumns) *CSVSource {
	if cols.Date == "" {
		cols.Date = DefaultCSVColumns.Date
	}
	if cols.Category == "" {
		cols.Category = DefaultCSVColumns.Category
	}
	if cols.Amount == "" {
		cols.Amount = DefaultCSVColumns.Amount
	}
	return &CSVSource{Path: path, Columns: cols}
}

func (s *CSVSource) Name() string { return "csv:" + s.Path }

// Rows reads the whole file. A missing file, an empty file, or a header
// without the required columns is an error; malformed data rows are not
// judged here and pass through for the Normalizer to reject.
func (s *CSVSource) Rows() ([]RawRow, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged exports happen; validate per row instead
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger export: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("ledger export %s is empty", s.Path)
	}

	idx, err := s.columnIndex(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := RawRow{}
		if idx.date < len(rec) {
			row.Date = rec[idx.date]
		}
		if idx.category < len(rec) {
			row.Category = rec[idx.category]
		}
		if idx.amount < len(rec) {
			row.Amount = rec[idx.amount]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type columnIndex struct {
	date, category, amount int
}

func (s *CSVSource) columnIndex(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, category: -1, amount: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case strings.ToLower(s.Columns.Date):
			idx.date = i
		case strings.ToLower(s.Columns.Category):
			idx.category = i
		case strings.ToLower(s.Columns.Amount):
			idx.amount = i
		}
	}
	if idx.date < 0 || idx.category < 0 || idx.amount < 0 {
		return idx, fmt.Errorf("ledger export %s: header missing required columns %q, %q, %q",
			s.Path, s.Columns.Date, s.Columns.Category, s.Columns.Amount)
	}
	return idx, nil
}
