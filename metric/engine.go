package metric

import (
	"fmt"
	"math"

	"github.com/kkernick/MG-GA/memo"
	"github.com/kkernick/MG-GA/table"
)

// CacheStats summarizes cache effectiveness after a run.
type CacheStats struct {
	// ScoreHits and ScoreRate cover the per-row score cache.
	ScoreHits uint64
	ScoreRate float64

	// MatchHits and MatchRate cover the per-row match-set cache.
	MatchHits uint64
	MatchRate float64

	// Trims counts anonymity evaluations rejected before assignment
	// enumeration because some row matched fewer than k originals.
	Trims uint64
}

// Engine scores working tables against one original. An Engine is bound to
// its original: cached match sets and row scores are keyed on working-row
// values only, so evaluating a working table derived from a different
// original would silently poison the caches.
//
// Not safe for concurrent use.
type Engine struct {
	original *table.Table
	metric   Metric
	caching  bool

	scores  *memo.Tree[float64]
	matches *memo.Tree[[]int]
	trims   uint64

	rowBuf []string
}

// NewEngine builds a scoring engine over the original table.
func NewEngine(original *table.Table, m Metric, caching bool) *Engine {
	return &Engine{
		original: original,
		metric:   m,
		caching:  caching,
		scores:   memo.NewTree[float64](),
		matches:  memo.NewTree[[]int](),
	}
}

// Metric returns the engine's information-loss measure.
func (e *Engine) Metric() Metric { return e.metric }

// Original returns the table the engine scores against.
func (e *Engine) Original() *table.Table { return e.original }

// round1e9 stabilizes accumulated float scores so equal tables compare
// equal regardless of summation order.
func round1e9(x float64) float64 {
	if math.IsInf(x, 0) {
		return x
	}
	return math.Round(x*1e9) / 1e9
}

// Score computes the working table's information loss. Scoring stops early
// once the accumulated loss exceeds best, returning the partial sum; a
// caller needing the exact score passes math.Inf(1).
func (e *Engine) Score(w *table.Table, best float64) (float64, error) {
	var score float64
	for r := 0; r < w.Rows(); r++ {
		e.rowBuf = w.Row(e.rowBuf, r)

		var rowScore float64
		if e.caching && e.scores.Contains(e.rowBuf, len(e.rowBuf)) {
			rowScore, _ = e.scores.Lookup(e.rowBuf, len(e.rowBuf))
		} else {
			var err error
			if rowScore, err = e.rowScore(r); err != nil {
				return 0, err
			}
			if e.caching {
				if err := e.scores.Insert(e.rowBuf, len(e.rowBuf), rowScore); err != nil {
					return 0, fmt.Errorf("score cache: %w", err)
				}
			}
		}

		score += rowScore
		if score > best {
			return round1e9(score), nil
		}
	}
	return round1e9(score), nil
}

// rowScore computes one row's loss from the values staged in rowBuf.
func (e *Engine) rowScore(r int) (float64, error) {
	var score float64
	for c, mod := range e.rowBuf {
		col := e.original.Col(c)
		original := e.original.Cell(r, c)
		if mod == original {
			continue
		}
		if e.metric == MinimalDistortion {
			score += col.Weight

			continue
		}

		var cell float64
		switch {
		case mod == table.Suppressed:
			cell = 1
		case !col.Hierarchy.Empty() && len(col.Hierarchy.Find(mod)) > 0:
			cell = float64(col.Hierarchy.Breadth(mod)) / float64(col.UniqueCount())
		case col.Kind == table.Integer && table.IsRange(mod):
			rg, err := table.ParseRange(mod)
			if err != nil {
				return 0, fmt.Errorf("row %d column %q: %w: %q",
					r, col.Name, ErrInvalidMutation, mod)
			}
			span := col.Span()
			if span.Max == span.Min {
				cell = 1
			} else {
				cell = float64(rg.Max-rg.Min) / float64(span.Max-span.Min)
			}
		default:
			return 0, fmt.Errorf("row %d column %q: %w: %q",
				r, col.Name, ErrInvalidMutation, mod)
		}
		score += cell * col.Weight
	}
	return score, nil
}

// Stats reports cache effectiveness so far.
func (e *Engine) Stats() CacheStats {
	return CacheStats{
		ScoreHits: e.scores.Hits(),
		ScoreRate: e.scores.HitRate(),
		MatchHits: e.matches.Hits(),
		MatchRate: e.matches.HitRate(),
		Trims:     e.trims,
	}
}
