// Package table models the render target: a table with a fixed header and a
// body whose rows are replaced wholesale on every render.
package table

import (
	"sync"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
)

// DefaultID is the element id of the rendered leaderboard table.
const DefaultID = "tbl"

// Row is the cell text of one rendered record.
type Row []string

// Body holds the rendered rows. It is safe for concurrent use; writers replace
// the full row set so readers never observe a partial render.
type Body struct {
	mu   sync.RWMutex
	rows []Row
}

// NewBody returns an empty body.
func NewBody() *Body {
	return &Body{}
}

// Clear removes all rows.
func (b *Body) Clear() {
	b.mu.Lock()
	b.rows = nil
	b.mu.Unlock()
}

// Append adds rows after the existing ones.
func (b *Body) Append(rows ...Row) {
	if len(rows) == 0 {
		return
	}
	b.mu.Lock()
	for _, row := range rows {
		b.rows = append(b.rows, append(Row(nil), row...))
	}
	b.mu.Unlock()
}

// Replace swaps the full row set in one step.
func (b *Body) Replace(rows []Row) {
	next := make([]Row, 0, len(rows))
	for _, row := range rows {
		next = append(next, append(Row(nil), row...))
	}
	b.mu.Lock()
	b.rows = next
	b.mu.Unlock()
}

// Rows returns a copy of the current rows.
func (b *Body) Rows() []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Row, 0, len(b.rows))
	for _, row := range b.rows {
		out = append(out, append(Row(nil), row...))
	}
	return out
}

// Len returns the number of rows.
func (b *Body) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rows)
}

// Table is a header plus body.
type Table struct {
	ID      string
	Columns []string
	Body    *Body
}

// New returns a leaderboard table with the default id, the rank/score
// columns, and an empty body.
func New() Table {
	return Table{
		ID:      DefaultID,
		Columns: append([]string(nil), leaderboard.Columns...),
		Body:    NewBody(),
	}
}

// Snapshot returns a detached copy of the table suitable for renderers.
func (t Table) Snapshot() Table {
	body := NewBody()
	if t.Body != nil {
		body.Replace(t.Body.Rows())
	}
	return Table{
		ID:      t.ID,
		Columns: append([]string(nil), t.Columns...),
		Body:    body,
	}
}

// Populate projects list onto body: existing rows are removed, then one row
// per record is appended in order with the rank and score cells.
func Populate(body *Body, list leaderboard.RecordList) error {
	if body == nil {
		return leaderboard.ErrMissingTarget
	}
	rows := make([]Row, 0, len(list))
	for _, record := range list {
		rows = append(rows, Row(record.Cells()))
	}
	body.Replace(rows)
	return nil
}

// FromRecords builds a fresh table holding list.
func FromRecords(list leaderboard.RecordList) Table {
	t := New()
	_ = Populate(t.Body, list)
	return t
}
