package ingest

// RawRow is one ledger row as produced by a source adapter, before any
// validation. Fields are kept as strings; the Normalizer owns parsing.
type RawRow struct {
	Date     string
	Category string
	Amount   string
}

// RowSource defines the interface for ledger input adapters. Rows returns
// the full export; the pipeline materializes all input before aggregating.
type RowSource interface {
	Rows() ([]RawRow, error)
	Name() string
}

// MockSource returns fixed rows for development and testing.
type MockSource struct {
	Data []RawRow
	Err  error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Rows() ([]RawRow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}
