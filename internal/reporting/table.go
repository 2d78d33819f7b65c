package reporting

import "strings"

// Table is the pipe-delimited result format printed by the shell.
type Table struct {
	Header []string
	Rows   [][]string
}

func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// Append adds one row. Cells are written as given; callers format numbers.
func (t *Table) Append(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

func (t *Table) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Header, "|"))
	for _, row := range t.Rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, "|"))
	}
	return b.String()
}
