// Package mingen implements an exhaustive minimal-generalization search with
// branch-and-bound pruning.
//
// The search enumerates the full mutation space of the working table in
// column-major order: all mutations of a column's cells, row by row, before
// the next column. Once a column's last row has been mutated, the partial
// table is gated: its score must not exceed the best complete score found so
// far, and the rows must already be k-anonymous over the mutated column
// prefix. Both information-loss metrics only grow as more cells change, and
// a row uniquely identifiable from a prefix stays identifiable in every
// completion, so failing either gate discards the whole subtree soundly.
//
// Unless already anonymous, the search returns every table tied at the best
// score. A state cap or a soft time budget turns the search into a sampled
// one; results are then flagged as possibly suboptimal and candidate
// mutations are visited in shuffled order so repeated capped runs do not
// revisit the same corner of the space.
package mingen

import (
	"errors"
	"time"

	"github.com/kkernick/MG-GA/metric"
	"github.com/kkernick/MG-GA/table"
)

// Unbounded disables the state cap.
const Unbounded = ^uint64(0)

// Sentinel errors returned by the mingen package. Match with errors.Is.
var (
	// ErrNilTable indicates a nil input table.
	ErrNilTable = errors.New("mingen: nil input table")

	// ErrBadK indicates a k below 1.
	ErrBadK = errors.New("mingen: k must be at least 1")

	// ErrNoRows indicates an input table without data rows.
	ErrNoRows = errors.New("mingen: table has no rows")
)

// Options configures a Search. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// K is the anonymity threshold each row must meet.
	K int

	// Metric selects the information-loss measure.
	Metric metric.Metric

	// MaxStates caps the number of states visited. Unbounded searches
	// exhaustively; anything lower yields a sampled, possibly suboptimal
	// result.
	MaxStates uint64

	// TimeLimit is a soft deadline for the search. Zero means no limit.
	// Checked sparsely, so runs may overshoot slightly.
	TimeLimit time.Duration

	// Seed drives mutation shuffling during capped searches. Zero selects
	// a fixed default seed; runs are deterministic either way.
	Seed int64

	// DisableCache turns off score and match memoization. Useful only to
	// measure how much the caches help.
	DisableCache bool
}

// DefaultOptions returns the baseline configuration: k=2, minimal
// distortion, exhaustive search.
func DefaultOptions() Options {
	return Options{K: 2, Metric: metric.MinimalDistortion, MaxStates: Unbounded}
}

// Stats describes a finished search.
type Stats struct {
	// States is the number of search states actually visited.
	States uint64

	// Distinct is the size of the full mutation space, saturating at the
	// maximum uint64.
	Distinct uint64

	// Duration is the wall time of the search.
	Duration time.Duration

	// Cache reports memoization effectiveness.
	Cache metric.CacheStats
}

// Result is the outcome of a search.
type Result struct {
	// Tables holds every table tied at the best score. When the input was
	// already anonymous it holds a single clone of the input.
	Tables []*table.Table

	// Score is the best information loss found.
	Score float64

	// AlreadyAnonymous reports that the input met the threshold untouched.
	AlreadyAnonymous bool

	// Suboptimal reports that the state cap or time budget cut the search
	// short, so a better table may exist.
	Suboptimal bool

	// Stats describes the run.
	Stats Stats
}

// Progress is a point-in-time snapshot for progress reporting.
type Progress struct {
	// States visited so far.
	States uint64

	// Distinct is the full mutation-space size.
	Distinct uint64

	// Best is the best score so far; +Inf before the first hit.
	Best float64

	// Table is a clone of the current best table, nil before the first
	// hit.
	Table *table.Table
}
