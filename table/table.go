// SPDX-License-Identifier: MIT

package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kkernick/MG-GA/domain"
)

// Spec describes one column of a table before construction.
type Spec struct {
	// Name of the column, as it appears in the input header.
	Name string

	// Kind of the cell values. Integer columns gain range generalization.
	Kind Kind

	// Weight scales the column's contribution to distortion scores.
	// Zero is normalized to 1 during construction.
	Weight float64

	// Sensitivity classifies the column's role during anonymization.
	Sensitivity Sensitivity

	// Hierarchy is the optional generalization tree for the column's
	// values. Cells generalize along the path from value to root.
	Hierarchy *domain.Domain
}

// Column is one constructed column: its spec plus cells and the derived
// generalization metadata (distinct values, candidate ranges, full span).
type Column struct {
	Spec

	cells  []string
	unique []string
	ranges []Range
	span   Range
}

// Cells returns the column's cell slice. Callers must not mutate it.
func (c *Column) Cells() []string { return c.cells }

// UniqueCount is the number of distinct values the column held originally.
func (c *Column) UniqueCount() int { return len(c.unique) }

// Ranges returns the candidate generalization ranges of an integer column,
// ordered by (Min, Max). The maximal span is deliberately absent: it is
// equivalent to suppression and suppression is always a candidate.
func (c *Column) Ranges() []Range { return c.ranges }

// Span is the inclusive interval covering every original value of an
// integer column. For string columns it is the zero Range.
func (c *Column) Span() Range { return c.span }

// Table is a column-major table of string cells. The zero value is not
// usable; construct with New or Load.
type Table struct {
	cols  []*Column
	rows  int
	quasi []int
}

// New builds a table from column specs and row-major cell data. Every row
// must have exactly one field per spec. Integer column cells must parse as
// an integer, a "[min-max]" range, or the suppression marker.
//
// Construction derives, per column, the distinct original values and, for
// integer columns, the candidate range set: one range per pair of distinct
// values, plus any range already present in the data, minus the maximal
// span.
func New(specs []Spec, rows [][]string) (*Table, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrShape)
	}
	cols := make([]*Column, len(specs))
	for i, s := range specs {
		if s.Weight == 0 {
			s.Weight = 1
		}
		cols[i] = &Column{Spec: s, cells: make([]string, 0, len(rows))}
	}
	for r, row := range rows {
		if len(row) != len(specs) {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d",
				ErrShape, r, len(row), len(specs))
		}
		for c, v := range row {
			cols[c].cells = append(cols[c].cells, v)
		}
	}
	t := &Table{cols: cols, rows: len(rows)}
	for ci, col := range cols {
		if err := col.index(); err != nil {
			return nil, fmt.Errorf("column %q: %w", cols[ci].Name, err)
		}
		if col.Sensitivity == Quasi {
			t.quasi = append(t.quasi, ci)
		}
	}
	return t, nil
}

// index derives the column's distinct values, and for integer columns the
// candidate range set and full span.
func (c *Column) index() error {
	seen := make(map[string]struct{}, len(c.cells))
	for _, v := range c.cells {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		c.unique = append(c.unique, v)
	}
	if c.Kind != Integer {
		return nil
	}

	var (
		values []int
		extra  []Range
		vset   = make(map[int]struct{})
	)
	for r, v := range c.cells {
		switch {
		case v == Suppressed:
		case IsRange(v):
			rg, err := ParseRange(v)
			if err != nil {
				return fmt.Errorf("row %d: %w", r, err)
			}
			extra = append(extra, rg)
			if _, ok := vset[rg.Min]; !ok {
				vset[rg.Min] = struct{}{}
				values = append(values, rg.Min)
			}
			if _, ok := vset[rg.Max]; !ok {
				vset[rg.Max] = struct{}{}
				values = append(values, rg.Max)
			}
		default:
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: row %d value %q", ErrBadInteger, r, v)
			}
			if _, ok := vset[n]; !ok {
				vset[n] = struct{}{}
				values = append(values, n)
			}
		}
	}
	if len(values) == 0 {
		return nil
	}
	sort.Ints(values)
	c.span = NewRange(values[0], values[len(values)-1])

	rset := make(map[Range]struct{})
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			rset[NewRange(values[i], values[j])] = struct{}{}
		}
	}
	for _, rg := range extra {
		rset[rg] = struct{}{}
	}
	// The full span generalizes nothing suppression doesn't.
	delete(rset, c.span)
	c.ranges = make([]Range, 0, len(rset))
	for rg := range rset {
		c.ranges = append(c.ranges, NewRange(rg.Min, rg.Max))
	}
	sort.Slice(c.ranges, func(i, j int) bool {
		if c.ranges[i].Min != c.ranges[j].Min {
			return c.ranges[i].Min < c.ranges[j].Min
		}
		return c.ranges[i].Max < c.ranges[j].Max
	})
	return nil
}

// Rows is the number of rows.
func (t *Table) Rows() int { return t.rows }

// Cols is the number of columns.
func (t *Table) Cols() int { return len(t.cols) }

// Col returns the c-th column.
func (t *Table) Col(c int) *Column { return t.cols[c] }

// Quasi returns the indices of quasi-identifying columns, in column order.
// Callers must not mutate the slice.
func (t *Table) Quasi() []int { return t.quasi }

// Cell returns the value at row r, column c.
func (t *Table) Cell(r, c int) string { return t.cols[c].cells[r] }

// SetCell replaces the value at row r, column c. Only quasi-identifying
// cells may be mutated; anything else returns ErrNotQuasi.
func (t *Table) SetCell(r, c int, v string) error {
	col := t.cols[c]
	if col.Sensitivity != Quasi {
		return fmt.Errorf("%w: column %q", ErrNotQuasi, col.Name)
	}
	col.cells[r] = v
	return nil
}

// Row copies row r into dst, growing it as needed, and returns the slice.
func (t *Table) Row(dst []string, r int) []string {
	dst = dst[:0]
	for _, col := range t.cols {
		dst = append(dst, col.cells[r])
	}
	return dst
}

// Clone deep-copies the cell data. Derived metadata (distinct values,
// candidate ranges, hierarchies) is immutable after construction and is
// shared between the clone and the receiver.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cc := &Column{Spec: c.Spec, unique: c.unique, ranges: c.ranges, span: c.span}
		cc.cells = append(make([]string, 0, len(c.cells)), c.cells...)
		cols[i] = cc
	}
	return &Table{cols: cols, rows: t.rows, quasi: t.quasi}
}

// CopyFrom overwrites the receiver's cells with src's. Both tables must
// share a shape, which holds for any pair of clones of one original.
func (t *Table) CopyFrom(src *Table) {
	for i, c := range t.cols {
		copy(c.cells, src.cols[i].cells)
	}
}

// Equal reports whether both tables hold identical cells in an identical
// shape.
func (t *Table) Equal(o *Table) bool {
	if o == nil || t.rows != o.rows || len(t.cols) != len(o.cols) {
		return false
	}
	for i, c := range t.cols {
		oc := o.cols[i]
		for r, v := range c.cells {
			if v != oc.cells[r] {
				return false
			}
		}
	}
	return true
}

// Render formats the table as aligned text with a header rule.
func (t *Table) Render() string {
	widths := make([]int, len(t.cols))
	for i, c := range t.cols {
		widths[i] = len(c.Name)
		for _, v := range c.cells {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}
	var b strings.Builder
	writeRow := func(get func(c int) string) {
		for i := range t.cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			v := get(i)
			b.WriteString(v)
			b.WriteString(strings.Repeat(" ", widths[i]-len(v)))
		}
		b.WriteByte('\n')
	}
	writeRow(func(c int) string { return t.cols[c].Name })
	for i := range t.cols {
		if i > 0 {
			b.WriteString("-#-")
		}
		b.WriteString(strings.Repeat("#", widths[i]))
	}
	b.WriteByte('\n')
	for r := 0; r < t.rows; r++ {
		writeRow(func(c int) string { return t.cols[c].cells[r] })
	}
	return b.String()
}
