package series

import (
	"math"

	"github.com/matzehuels/bargroup/pkg/errors"
)

// Table is a dense, row-major in-memory [Series].
//
// The zero value is an empty table ready to use. A Table is not safe for
// concurrent mutation.
type Table struct {
	rows, cols int
	values     []float64 // row-major: values[row*cols+col]
	rowLabels  []string
	colLabels  []string
}

// NewTable builds a table from values indexed as values[row][col].
// Every row must have the same length and every value must be finite.
func NewTable(values [][]float64) (*Table, error) {
	t := &Table{rows: len(values)}
	if t.rows == 0 {
		return t, nil
	}
	t.cols = len(values[0])
	t.values = make([]float64, 0, t.rows*t.cols)
	for r, row := range values {
		if len(row) != t.cols {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d has %d values, want %d", r, len(row), t.cols)
		}
		for c, v := range row {
			if err := checkFinite(r, c, v); err != nil {
				return nil, err
			}
		}
		t.values = append(t.values, row...)
	}
	if t.cols == 0 {
		// Rows without columns carry no cells.
		t.values = nil
	}
	return t, nil
}

// NewEmptyTable returns a table with no rows and no columns.
func NewEmptyTable() *Table { return &Table{} }

// Rows returns the number of rows (bars per group).
func (t *Table) Rows() int { return t.rows }

// Columns returns the number of columns (groups).
func (t *Table) Columns() int { return t.cols }

// TotalItems returns Rows()*Columns().
func (t *Table) TotalItems() int { return t.rows * t.cols }

// ValueAt returns the value at (row, col). Out-of-range cells read as 0.
func (t *Table) ValueAt(row, col int) float64 {
	if !t.inRange(row, col) {
		return 0
	}
	return t.values[row*t.cols+col]
}

// Max returns the largest value in the table, or 0 when it is empty.
func (t *Table) Max() float64 {
	if len(t.values) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, v := range t.values {
		m = math.Max(m, v)
	}
	return m
}

// Min returns the smallest value in the table, or 0 when it is empty.
func (t *Table) Min() float64 {
	if len(t.values) == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, v := range t.values {
		m = math.Min(m, v)
	}
	return m
}

// Set overwrites the value at (row, col).
func (t *Table) Set(row, col int, v float64) error {
	if !t.inRange(row, col) {
		return errors.New(errors.ErrCodeInvalidInput, "cell (%d, %d) outside %dx%d table", row, col, t.rows, t.cols)
	}
	if err := checkFinite(row, col, v); err != nil {
		return err
	}
	t.values[row*t.cols+col] = v
	return nil
}

// Reshape changes the table dimensions. Cells present in both the old and the
// new shape keep their values; new cells are zero. Labels are truncated or
// padded with empty strings to match.
func (t *Table) Reshape(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative table shape %dx%d", rows, cols)
	}
	values := make([]float64, rows*cols)
	for r := range min(rows, t.rows) {
		for c := range min(cols, t.cols) {
			values[r*cols+c] = t.values[r*t.cols+c]
		}
	}
	t.rows, t.cols, t.values = rows, cols, values
	if t.rowLabels != nil {
		t.rowLabels = resizeLabels(t.rowLabels, rows)
	}
	if t.colLabels != nil {
		t.colLabels = resizeLabels(t.colLabels, cols)
	}
	return nil
}

// SetLabels attaches display labels to rows and columns. A nil slice clears
// the corresponding labels.
func (t *Table) SetLabels(rowLabels, colLabels []string) error {
	if rowLabels != nil && len(rowLabels) != t.rows {
		return errors.New(errors.ErrCodeInvalidInput, "got %d row labels for %d rows", len(rowLabels), t.rows)
	}
	if colLabels != nil && len(colLabels) != t.cols {
		return errors.New(errors.ErrCodeInvalidInput, "got %d column labels for %d columns", len(colLabels), t.cols)
	}
	t.rowLabels, t.colLabels = rowLabels, colLabels
	return nil
}

// RowLabel returns the label of row i, or "" if none was set.
func (t *Table) RowLabel(i int) string { return labelAt(t.rowLabels, i) }

// ColumnLabel returns the label of column i, or "" if none was set.
func (t *Table) ColumnLabel(i int) string { return labelAt(t.colLabels, i) }

// Values returns a copy of the contents indexed as [row][col].
func (t *Table) Values() [][]float64 {
	out := make([][]float64, t.rows)
	for r := range out {
		out[r] = append([]float64(nil), t.values[r*t.cols:(r+1)*t.cols]...)
	}
	return out
}

func (t *Table) inRange(row, col int) bool {
	return row >= 0 && row < t.rows && col >= 0 && col < t.cols
}

func checkFinite(row, col int, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "cell (%d, %d) is not finite: %v", row, col, v)
	}
	return nil
}

func labelAt(labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return ""
	}
	return labels[i]
}

func resizeLabels(labels []string, n int) []string {
	out := make([]string, n)
	copy(out, labels)
	return out
}

var _ Series = (*Table)(nil)
