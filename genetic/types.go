// Package genetic implements a genetic optimizer for table anonymization,
// trading the exhaustive guarantee of package mingen for tractability on
// tables whose mutation spaces are out of brute-force reach.
//
// Each generation keeps its fittest members and refills the population with
// their recombined offspring. Fitness is two-staged: a table that is not yet
// k-anonymous scores its mean per-row anonymity over the threshold, pulling
// the population toward feasibility; a k-anonymous table scores the
// threshold times the cell count over its information loss, so feasible
// tables always outrank infeasible ones and lower loss wins among them.
//
// Recombination works cell by cell over quasi columns: roughly half the
// cells come from each parent, with occasional mutations drawn from the
// original cell's mutation set. The mutation rate doubles every tenth of
// the run, degrading the final generations into a near-stochastic search
// that can jump out of local maximums; elitism keeps the damage bounded,
// since a ruinous mutation simply fails to place.
//
// The optimizer cannot promise a k-anonymous result. The best table is
// re-verified after the run and the outcome is reported in Result.
package genetic

import (
	"errors"

	"github.com/kkernick/MG-GA/metric"
	"github.com/kkernick/MG-GA/table"
)

// Sentinel errors returned by the genetic package. Match with errors.Is.
var (
	// ErrNilTable indicates a nil input table.
	ErrNilTable = errors.New("genetic: nil input table")

	// ErrNoRows indicates an input table without data rows.
	ErrNoRows = errors.New("genetic: table has no rows")

	// ErrBadK indicates a k below 1.
	ErrBadK = errors.New("genetic: k must be at least 1")

	// ErrBadPopulation indicates a population below 2.
	ErrBadPopulation = errors.New("genetic: population must be at least 2")

	// ErrBadCutoff indicates an elite fraction outside (0, 1].
	ErrBadCutoff = errors.New("genetic: cutoff must be in (0, 1]")

	// ErrBadGenerations indicates a generation count below 1.
	ErrBadGenerations = errors.New("genetic: generations must be at least 1")
)

// Options configures an Optimizer. Start from DefaultOptions.
type Options struct {
	// K is the anonymity threshold.
	K int

	// Metric selects the information-loss measure.
	Metric metric.Metric

	// Generations is the number of breeding rounds.
	Generations int

	// Population is the number of tables per generation.
	Population int

	// MutationRate is the base mutation chance per cell, out of roughly
	// one hundred. It doubles every tenth of the run.
	MutationRate int

	// Cutoff is the elite fraction of each generation retained as
	// parents.
	Cutoff float64

	// Seed drives all randomness. Zero selects a fixed default seed;
	// runs are deterministic either way.
	Seed int64

	// DisableCache turns off score and match memoization.
	DisableCache bool
}

// DefaultOptions returns the baseline configuration: k=2, minimal
// distortion, 1000 generations of 100 tables, base mutation rate 10,
// top tenth retained.
func DefaultOptions() Options {
	return Options{
		K:            2,
		Metric:       metric.MinimalDistortion,
		Generations:  1000,
		Population:   100,
		MutationRate: 10,
		Cutoff:       0.10,
	}
}

// Stats describes a finished run.
type Stats struct {
	// States is the number of tables evaluated across all generations.
	States uint64

	// Distinct is the size of the full mutation space, saturating at the
	// maximum uint64.
	Distinct uint64

	// Cache reports memoization effectiveness.
	Cache metric.CacheStats
}

// Result is the outcome of a run.
type Result struct {
	// Tables holds every table tied at the best fitness of the final
	// generation.
	Tables []*table.Table

	// Score is the information loss of the best table.
	Score float64

	// Fitness is the best table's fitness.
	Fitness float64

	// Anonymous reports whether the best table verified k-anonymous. A
	// false value calls for more generations or a larger population.
	Anonymous bool

	// AlreadyAnonymous reports that the input met the threshold
	// untouched; no evolution was run.
	AlreadyAnonymous bool

	// Stats describes the run.
	Stats Stats
}

// Progress is a point-in-time snapshot for progress reporting.
type Progress struct {
	// Generation is the current breeding round.
	Generation uint64

	// Generations is the configured total.
	Generations int

	// Best is the best fitness seen at the last publication point.
	Best float64

	// Table is a clone of the table holding that fitness, nil before the
	// first publication.
	Table *table.Table
}
