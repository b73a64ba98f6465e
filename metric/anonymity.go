package metric

import (
	"fmt"
	"strconv"

	"github.com/kkernick/MG-GA/table"
)

// MatchRow returns the indexes of every original row the working table's
// row r could stand for, considering columns 0 through c inclusive. Results
// are memoized on the row's leading c+1 values.
//
// A working cell matches an original cell when they are equal, when the
// working cell is suppressed, when the column is not quasi-identifying,
// when either value generalizes the other in the column's hierarchy, or
// when the working cell is a range containing the original integer.
func (e *Engine) MatchRow(w *table.Table, r, c int) ([]int, error) {
	e.rowBuf = w.Row(e.rowBuf, r)
	if e.caching && e.matches.Contains(e.rowBuf, c+1) {
		m, _ := e.matches.Lookup(e.rowBuf, c+1)
		return m, nil
	}

	var matches []int
	for cand := 0; cand < e.original.Rows(); cand++ {
		match := true
		for x := 0; x <= c; x++ {
			mod := e.rowBuf[x]
			orig := e.original.Cell(cand, x)
			if mod == orig || mod == table.Suppressed {
				continue
			}
			col := e.original.Col(x)
			if col.Sensitivity != table.Quasi {
				continue
			}
			if !col.Hierarchy.Empty() {
				if pathContains(col.Hierarchy.Find(mod), orig) ||
					pathContains(col.Hierarchy.Find(orig), mod) {
					continue
				}
			} else if col.Kind == table.Integer && table.IsRange(mod) {
				rg, err := table.ParseRange(mod)
				if err != nil {
					return nil, fmt.Errorf("row %d column %q: %w: %q",
						r, col.Name, ErrInvalidMutation, mod)
				}
				if n, err := strconv.Atoi(orig); err == nil && rg.Contains(n) {
					continue
				}
			}
			match = false

			break
		}
		if match {
			matches = append(matches, cand)
		}
	}

	if e.caching {
		if err := e.matches.Insert(e.rowBuf, c+1, matches); err != nil {
			return nil, fmt.Errorf("match cache: %w", err)
		}
	}
	return matches, nil
}

func pathContains(path []string, v string) bool {
	for _, p := range path {
		if p == v {
			return true
		}
	}
	return false
}

// matchSets collects every row's match set over columns 0..c. When k > 0
// collection short-circuits as soon as a row matches fewer than k originals,
// returning a nil slice.
func (e *Engine) matchSets(w *table.Table, k, c int) ([][]int, error) {
	matches := make([][]int, 0, w.Rows())
	for r := 0; r < w.Rows(); r++ {
		m, err := e.MatchRow(w, r, c)
		if err != nil {
			return nil, err
		}
		if k > 0 && len(m) < k {
			e.trims++
			return nil, nil
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// kTree enumerates every injective assignment of rows to original indexes,
// recording in ks[i] each original index row i takes in some complete
// assignment.
func kTree(matches [][]int, stack []int, taken map[int]bool, ks []map[int]struct{}) {
	x := len(stack)
	if x == len(matches) {
		for i, opt := range stack {
			ks[i][opt] = struct{}{}
		}
		return
	}
	for _, opt := range matches[x] {
		if taken[opt] {
			continue
		}
		taken[opt] = true
		kTree(matches, append(stack, opt), taken, ks)
		taken[opt] = false
	}
}

// assignments runs the injective enumeration over the match sets.
func assignments(matches [][]int) []map[int]struct{} {
	ks := make([]map[int]struct{}, len(matches))
	for i := range ks {
		ks[i] = make(map[int]struct{})
	}
	kTree(matches, make([]int, 0, len(matches)), make(map[int]bool, len(matches)), ks)
	return ks
}

// KAnonymity reports whether the working table is k-anonymous over columns
// 0 through c inclusive. Each row must take at least k distinct original
// indexes across the valid assignments; a column-bounded check lets an
// exhaustive search discard a partial mutation early, since a row uniquely
// identifiable from a column prefix stays identifiable in every completion.
func (e *Engine) KAnonymity(w *table.Table, k, c int) (bool, error) {
	matches, err := e.matchSets(w, k, c)
	if err != nil || matches == nil {
		return false, err
	}
	for _, options := range assignments(matches) {
		if len(options) < k {
			return false, nil
		}
	}
	return true, nil
}

// AverageKAnonymity returns the mean per-row k over columns 0 through c
// inclusive: the average number of distinct original indexes each row takes
// across the valid assignments. Zero means no valid assignment exists.
func (e *Engine) AverageKAnonymity(w *table.Table, c int) (float64, error) {
	matches, err := e.matchSets(w, 0, c)
	if err != nil {
		return 0, err
	}
	var score float64
	for _, options := range assignments(matches) {
		score += float64(len(options))
	}
	return score / float64(len(matches)), nil
}
