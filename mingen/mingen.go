package mingen

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kkernick/MG-GA/metric"
	"github.com/kkernick/MG-GA/table"
)

// Search holds all state of one branch-and-bound run. A dedicated engine
// struct keeps dependencies explicit and hot-path state predictable.
//
// The search mutates a single working clone in place and reverts each
// mutation on backtrack. Recursing on fresh table copies would be simpler,
// but the copies dominate runtime long before the search space does.
type Search struct {
	original *table.Table
	working  *table.Table
	engine   *metric.Engine
	opts     Options
	rng      *rand.Rand

	distinct uint64
	best     float64
	tables   []*table.Table
	capped   bool

	// Time budget, checked sparsely.
	useDeadline bool
	deadline    time.Time
	steps       int

	// Progress state, readable from another goroutine.
	states atomic.Uint64
	mu     sync.Mutex
	view   *table.Table
	shown  float64
}

// New validates the configuration and prepares a search over original.
func New(original *table.Table, opts Options) (*Search, error) {
	if original == nil {
		return nil, ErrNilTable
	}
	if original.Rows() == 0 {
		return nil, ErrNoRows
	}
	if opts.K < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadK, opts.K)
	}
	return &Search{
		original: original,
		working:  original.Clone(),
		engine:   metric.NewEngine(original, opts.Metric, !opts.DisableCache),
		opts:     opts,
		rng:      rngFromSeed(opts.Seed),
		distinct: original.Distinct(),
		best:     math.Inf(1),
		shown:    math.Inf(1),
	}, nil
}

// Snapshot returns the current progress. Safe to call from another
// goroutine while Run is active.
func (s *Search) Snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Progress{States: s.states.Load(), Distinct: s.distinct, Best: s.shown}
	if s.view != nil {
		p.Table = s.view.Clone()
	}
	return p
}

// Run executes the search to completion and returns the result.
func (s *Search) Run() (*Result, error) {
	start := time.Now()
	if s.opts.TimeLimit > 0 {
		s.useDeadline = true
		s.deadline = start.Add(s.opts.TimeLimit)
	}

	// Nothing to do when the input already meets the threshold.
	ok, err := s.engine.KAnonymity(s.working, s.opts.K, s.working.Cols()-1)
	if err != nil {
		return nil, err
	}
	if ok {
		return &Result{
			Tables:           []*table.Table{s.original.Clone()},
			AlreadyAnonymous: true,
			Stats:            s.stats(start),
		}, nil
	}

	if _, err := s.walk(0, 0); err != nil {
		return nil, err
	}

	return &Result{
		Tables:     s.tables,
		Score:      s.best,
		Suboptimal: s.capped,
		Stats:      s.stats(start),
	}, nil
}

func (s *Search) stats(start time.Time) Stats {
	return Stats{
		States:   s.states.Load(),
		Distinct: s.distinct,
		Duration: time.Since(start),
		Cache:    s.engine.Stats(),
	}
}

// bump counts one visited state and reports whether the search must stop.
func (s *Search) bump() bool {
	n := s.states.Add(1)
	if s.opts.MaxStates != Unbounded && n >= s.opts.MaxStates {
		s.capped = true
		return true
	}
	s.steps++
	if s.useDeadline && (s.steps&4095) == 0 && time.Now().After(s.deadline) {
		s.capped = true
		return true
	}
	return false
}

// walk recurses over the mutation space in column-major order: every
// mutation of the cell at (row, col), then deeper rows of the column, then
// the next column. It reports stop=true when the state cap or deadline
// ended the search.
func (s *Search) walk(row, col int) (stop bool, err error) {
	if col == s.working.Cols() {
		return false, s.record()
	}
	column := s.working.Col(col)
	if column.Sensitivity != table.Quasi {
		return s.walk(row, col+1)
	}

	// Capped runs shuffle so repeated samples differ.
	var rng *rand.Rand
	if s.opts.MaxStates != Unbounded {
		rng = s.rng
	}

	last := s.working.Rows() - 1
	prev := s.working.Cell(row, col)
	for _, mut := range s.working.Mutations(row, col, rng) {
		if s.bump() {
			return true, nil
		}
		if err = s.working.SetCell(row, col, mut); err != nil {
			return false, err
		}

		if row < last {
			stop, err = s.walk(row+1, col)
		} else {
			// Column fully staged: gate on score then anonymity. Any
			// further change only adds loss, and a row identifiable
			// from this prefix stays identifiable, so failing either
			// prunes the subtree. Score first, it is the cheaper test.
			var sc float64
			if sc, err = s.engine.Score(s.working, s.best); err == nil && sc <= s.best {
				var ok bool
				if ok, err = s.engine.KAnonymity(s.working, s.opts.K, col); err == nil && ok {
					if col == s.working.Cols()-1 {
						err = s.record()
					} else {
						stop, err = s.walk(0, col+1)
					}
				}
			}
		}
		if stop || err != nil {
			return stop, err
		}
		if err = s.working.SetCell(row, col, prev); err != nil {
			return false, err
		}
	}
	return false, nil
}

// record scores a complete candidate and folds it into the tied-best set.
func (s *Search) record() error {
	s.states.Add(1)
	sc, err := s.engine.Score(s.working, s.best)
	if err != nil {
		return err
	}
	if sc < s.best || math.IsInf(s.best, 1) {
		s.best = sc
		s.tables = s.tables[:0]
		s.publish(sc)
	}
	if sc == s.best {
		s.tables = append(s.tables, s.working.Clone())
	}
	return nil
}

// publish stages the current working table for Snapshot readers.
func (s *Search) publish(sc float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.working.Clone()
	s.shown = sc
}
