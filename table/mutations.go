// SPDX-License-Identifier: MIT

package table

import (
	"math/rand"
	"strconv"
)

// Mutations enumerates the legal replacement values for the cell at row r,
// column c. Non-quasi cells have no mutations and return nil.
//
// For an already suppressed cell the only candidate is the marker itself:
// suppression is terminal. Otherwise the set is suppression, followed by the
// value's hierarchy path (the value itself first, then each ancestor) or the
// verbatim value when the column has no hierarchy, followed for integer
// columns by every candidate range containing the value. Integer cells were
// validated by New, so enumeration cannot fail.
//
// When rng is non-nil the candidates are returned in shuffled order.
func (t *Table) Mutations(r, c int, rng *rand.Rand) []string {
	col := t.cols[c]
	if col.Sensitivity != Quasi {
		return nil
	}
	v := col.cells[r]
	if v == Suppressed {
		return []string{Suppressed}
	}

	out := []string{Suppressed}
	if path := col.Hierarchy.Find(v); len(path) > 0 {
		out = append(out, path...)
	} else {
		out = append(out, v)
	}
	if col.Kind == Integer {
		if IsRange(v) {
			if rg, err := ParseRange(v); err == nil {
				for _, cand := range col.ranges {
					if cand != rg && cand.ContainsRange(rg) {
						out = append(out, cand.String())
					}
				}
			}
		} else if n, err := strconv.Atoi(v); err == nil {
			for _, cand := range col.ranges {
				if cand.Contains(n) {
					out = append(out, cand.String())
				}
			}
		}
	}
	if rng != nil {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

// Random returns a clone with every quasi cell replaced by one of its
// mutations chosen uniformly at random.
func (t *Table) Random(rng *rand.Rand) *Table {
	out := t.Clone()
	for _, c := range t.quasi {
		for r := 0; r < t.rows; r++ {
			m := t.Mutations(r, c, nil)
			out.cols[c].cells[r] = m[rng.Intn(len(m))]
		}
	}
	return out
}

// Distinct is the size of the full mutation space: the product over every
// quasi cell of its mutation count. Saturates at the maximum uint64 on
// overflow.
func (t *Table) Distinct() uint64 {
	total := uint64(1)
	for _, c := range t.quasi {
		for r := 0; r < t.rows; r++ {
			n := uint64(len(t.Mutations(r, c, nil)))
			if n == 0 {
				continue
			}
			if total > ^uint64(0)/n {
				return ^uint64(0)
			}
			total *= n
		}
	}
	return total
}
