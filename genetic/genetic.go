package genetic

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/kkernick/MG-GA/metric"
	"github.com/kkernick/MG-GA/table"
)

// instance pairs a candidate table with its fitness.
type instance struct {
	fitness float64
	tbl     *table.Table
}

// Optimizer holds all state of one run.
type Optimizer struct {
	original *table.Table
	engine   *metric.Engine
	opts     Options
	rng      *rand.Rand

	cells  float64
	retain int
	rate   int

	// generation is kept sorted by descending fitness.
	generation []instance

	// Progress state, readable from another goroutine.
	states atomic.Uint64
	iter   atomic.Uint64
	mu     sync.Mutex
	view   *table.Table
	shown  float64
}

// New validates the configuration and prepares an optimizer over original.
func New(original *table.Table, opts Options) (*Optimizer, error) {
	if original == nil {
		return nil, ErrNilTable
	}
	if original.Rows() == 0 {
		return nil, ErrNoRows
	}
	if opts.K < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadK, opts.K)
	}
	if opts.Population < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBadPopulation, opts.Population)
	}
	if opts.Cutoff <= 0 || opts.Cutoff > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrBadCutoff, opts.Cutoff)
	}
	if opts.Generations < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadGenerations, opts.Generations)
	}

	retain := int(float64(opts.Population) * opts.Cutoff)
	if retain < 1 {
		retain = 1
	}
	return &Optimizer{
		original: original,
		engine:   metric.NewEngine(original, opts.Metric, !opts.DisableCache),
		opts:     opts,
		rng:      rngFromSeed(opts.Seed),
		cells:    float64(original.Cols() * original.Rows()),
		retain:   retain,
		rate:     opts.MutationRate,
		shown:    math.Inf(-1),
	}, nil
}

// Snapshot returns the current progress. Safe to call from another
// goroutine while Run is active.
func (o *Optimizer) Snapshot() Progress {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := Progress{
		Generation:  o.iter.Load(),
		Generations: o.opts.Generations,
		Best:        o.shown,
	}
	if o.view != nil {
		p.Table = o.view.Clone()
	}
	return p
}

// Run executes the optimizer to completion and returns the result.
func (o *Optimizer) Run() (*Result, error) {
	last := o.original.Cols() - 1

	ok, err := o.engine.KAnonymity(o.original, o.opts.K, last)
	if err != nil {
		return nil, err
	}
	if ok {
		return &Result{
			Tables:           []*table.Table{o.original.Clone()},
			Anonymous:        true,
			AlreadyAnonymous: true,
			Stats:            o.stats(),
		}, nil
	}

	if err := o.seed(); err != nil {
		return nil, err
	}

	// The rate doubles every tenth of the run.
	tenth := o.opts.Generations / 10
	if tenth < 1 {
		tenth = 1
	}
	for iter := 0; iter < o.opts.Generations; iter++ {
		o.iter.Store(uint64(iter))
		if (iter+1)%tenth == 0 {
			o.rate *= 2
			o.publish(o.generation[0])
		}
		if err := o.step(); err != nil {
			return nil, err
		}
	}
	o.publish(o.generation[0])

	res := &Result{Fitness: o.generation[0].fitness, Stats: o.stats()}
	for _, in := range o.generation {
		if in.fitness != res.Fitness {
			break
		}
		res.Tables = append(res.Tables, in.tbl)
	}

	best := res.Tables[0]
	if res.Score, err = o.engine.Score(best, math.Inf(1)); err != nil {
		return nil, err
	}
	if res.Anonymous, err = o.engine.KAnonymity(best, o.opts.K, last); err != nil {
		return nil, err
	}
	return res, nil
}

func (o *Optimizer) stats() Stats {
	return Stats{
		States:   o.states.Load(),
		Distinct: o.original.Distinct(),
		Cache:    o.engine.Stats(),
	}
}

// seed fills the first generation with fully random mutations of the
// original.
func (o *Optimizer) seed() error {
	o.generation = make([]instance, 0, o.opts.Population)
	for x := 0; x < o.opts.Population; x++ {
		tbl := o.original.Random(o.rng)
		f, err := o.fitness(tbl)
		if err != nil {
			return err
		}
		o.generation = append(o.generation, instance{fitness: f, tbl: tbl})
	}
	o.rank(o.generation)
	return nil
}

// rank sorts a generation by descending fitness, stable so ties keep their
// insertion order.
func (o *Optimizer) rank(gen []instance) {
	sort.SliceStable(gen, func(i, j int) bool { return gen[i].fitness > gen[j].fitness })
}

// step breeds one generation: the elite survive unchanged, and each elite
// produces enough offspring to restore the population size. Offspring
// accumulate on a working copy of their parent, so a parent's later
// children inherit the recombinations of its earlier ones.
func (o *Optimizer) step() error {
	offspring := (o.opts.Population - o.retain) / o.retain
	leftover := o.opts.Population - o.retain - offspring*o.retain

	children := make([]instance, 0, o.opts.Population)
	for x := 0; x < o.retain; x++ {
		parent := o.generation[x]
		children = append(children, parent)
		o.states.Add(1)

		brood := offspring
		if x < leftover {
			brood++
		}
		cur := parent.tbl.Clone()
		for y := 0; y < brood; y++ {
			o.states.Add(1)

			// A partner from the elite, possibly the parent itself.
			partner := o.generation[o.rng.Intn(o.retain)]
			if err := o.combine(cur, partner.tbl); err != nil {
				return err
			}
			f, err := o.fitness(cur)
			if err != nil {
				return err
			}
			children = append(children, instance{fitness: f, tbl: cur.Clone()})
		}
	}
	o.rank(children)
	o.generation = children
	return nil
}

// combine recombines partner into dst cell by cell. Per quasi cell, one
// roll out of 101+rate decides: above 100 mutates to a random member of the
// original cell's mutation set, below 50 inherits the partner's cell, and
// the rest keeps dst's.
func (o *Optimizer) combine(dst, partner *table.Table) error {
	for _, c := range o.original.Quasi() {
		for r := 0; r < o.original.Rows(); r++ {
			switch roll := o.rng.Intn(101 + o.rate); {
			case roll > 100:
				muts := o.original.Mutations(r, c, o.rng)
				if err := dst.SetCell(r, c, muts[0]); err != nil {
					return err
				}
			case roll < 50:
				if err := dst.SetCell(r, c, partner.Cell(r, c)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// fitness scores a candidate. A k-anonymous table scores the threshold
// times the cell count over its information loss; the cell factor keeps
// every feasible table above the infeasible range, whose scores are the
// mean per-row anonymity over the threshold. Capping the numerator at k
// keeps the optimizer from chasing anonymity beyond what was asked and
// suppressing everything to get it.
func (o *Optimizer) fitness(t *table.Table) (float64, error) {
	last := t.Cols() - 1
	ok, err := o.engine.KAnonymity(t, o.opts.K, last)
	if err != nil {
		return 0, err
	}
	if ok {
		sc, err := o.engine.Score(t, math.Inf(1))
		if err != nil {
			return 0, err
		}
		if sc == 0 {
			sc = 1
		}
		return float64(o.opts.K) * o.cells / sc, nil
	}

	avg, err := o.engine.AverageKAnonymity(t, last)
	if err != nil {
		return 0, err
	}
	return avg / float64(o.opts.K), nil
}

// publish stages the given instance for Snapshot readers.
func (o *Optimizer) publish(in instance) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.view = in.tbl.Clone()
	o.shown = in.fitness
}
