package records

import (
	"sort"

	"shipnotify/internal/types"
)

// Record is one table row with schema resolution already applied: every
// Field the table's schema names is present, blank cells included.
type Record map[Field]Value

// Get returns the cell for the given field. Fields outside the table's
// schema return a blank Value.
func (r Record) Get(f Field) Value {
	return r[f]
}

// Table is an ordered, read-only collection of records. Scan order is
// source-file order; no uniqueness is assumed on any key.
type Table struct {
	name string
	rows []Record
}

// NewTable builds a table from pre-resolved records. The loader is the
// normal constructor; tests build small tables directly.
func NewTable(name string, rows []Record) *Table {
	return &Table{name: name, rows: rows}
}

// Name returns the table's name as used in error details.
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Find returns the first row whose field equals value, by scan order.
// Returns a record_not_found AppError when nothing matches.
func (t *Table) Find(f Field, v Value) (Record, error) {
	for _, row := range t.rows {
		if row.Get(f).Equal(v) {
			return row, nil
		}
	}
	return nil, types.NewRecordNotFound(t.name, string(f), v.String())
}

// FindAllBy returns every row whose field equals value, in table order.
// An empty result is not an error; callers that require at least one row
// enforce that themselves.
func (t *Table) FindAllBy(f Field, v Value) []Record {
	var out []Record
	for _, row := range t.rows {
		if row.Get(f).Equal(v) {
			out = append(out, row)
		}
	}
	return out
}

// DistinctSorted returns the distinct values of a field in ascending
// order (numeric values first, then strings). The orchestrator walks
// slip IDs in exactly this order.
func (t *Table) DistinctSorted(f Field) []Value {
	seen := make(map[Value]struct{}, len(t.rows))
	var out []Value
	for _, row := range t.rows {
		v := row.Get(f)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Store bundles the three loaded tables. It is read-only for the
// duration of a run, so no locking is needed anywhere downstream.
type Store struct {
	Contacts  *Table
	Shipments *Table
	Slips     *Table
}
