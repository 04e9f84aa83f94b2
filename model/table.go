package model

import "github.com/pkg/errors"

// Row maps a column name to the cell value for that column. Every row of a
// StructuredTable carries exactly the table's column set.
type Row map[string]string

// StructuredTable is the shaped output of the table builder: a unique,
// ordered column list and rows keyed by those columns.
type StructuredTable struct {
	Page    int
	Index   int // 1-based position among the page's kept tables
	Title   string
	Columns []string
	Rows    []Row
	// Source records which locator strategy produced the candidate.
	Source string
	// Score is filled in by the layout scorer after filtering.
	Score float64
}

// NewStructuredTable validates the column/row invariants: columns must be
// unique and non-empty, and each row must carry exactly the declared columns.
func NewStructuredTable(page int, title string, columns []string, rows []Row) (*StructuredTable, error) {
	if len(columns) == 0 {
		return nil, errors.New("table has no columns")
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col == "" {
			return nil, errors.New("table has an empty column name")
		}
		if seen[col] {
			return nil, errors.Errorf("duplicate column name %q", col)
		}
		seen[col] = true
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				return nil, errors.Errorf("row %d missing column %q", i, col)
			}
		}
	}
	return &StructuredTable{
		Page:    page,
		Title:   title,
		Columns: columns,
		Rows:    rows,
	}, nil
}

// Grid returns the table as a rectangular cell grid in column order,
// excluding the header row.
func (t *StructuredTable) Grid() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = row[col]
		}
		out[i] = cells
	}
	return out
}

// Cell returns the value at row i, column j, in column order.
func (t *StructuredTable) Cell(i, j int) string {
	return t.Rows[i][t.Columns[j]]
}
