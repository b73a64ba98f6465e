// Package metric scores generalized tables and evaluates k-anonymity
// against the immutable original.
//
// Two information-loss metrics are provided. MinimalDistortion charges one
// weighted unit per changed cell. Certainty charges a fraction of a unit
// proportional to how much a generalization widens the set of values the
// cell could stand for: a full unit for suppression, the hierarchy breadth
// over the column's distinct-value count for a hierarchy step, and the
// range width over the column's full span for a numeric range.
//
// Anonymity is evaluated by assignment, not by naive per-row match counts.
// A row's match set is every original row its generalized form could stand
// for; the evaluator enumerates the injective assignments of rows to
// originals and requires every row to take at least k distinct values
// across them. Counting matches alone overstates anonymity: with one
// suppressed man among three unchanged people, elimination pins the
// suppressed row down even though it matches everyone.
//
// Per-row scores and match sets are memoized in prefix-tree caches keyed on
// the row's working values, so results are independent of cache state.
package metric

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the metric package. Match with errors.Is.
var (
	// ErrUnknownMetric indicates a metric token other than "md" or "c".
	ErrUnknownMetric = errors.New("metric: unrecognized metric")

	// ErrInvalidMutation indicates a working cell that is neither the
	// original value, the suppression marker, a hierarchy member, nor a
	// numeric range. The working table was not produced by legal
	// mutation.
	ErrInvalidMutation = errors.New("metric: cell is not a legal mutation")
)

// Metric selects the information-loss measure.
type Metric int

const (
	// MinimalDistortion counts weighted changed cells.
	MinimalDistortion Metric = iota

	// Certainty weighs each change by the fraction of the column's value
	// space the generalized cell spans.
	Certainty
)

// ParseMetric resolves a metric token: "md" for MinimalDistortion, "c" for
// Certainty.
func ParseMetric(tok string) (Metric, error) {
	switch tok {
	case "md":
		return MinimalDistortion, nil
	case "c":
		return Certainty, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, tok)
	}
}

// String returns the metric's flag token.
func (m Metric) String() string {
	if m == Certainty {
		return "c"
	}
	return "md"
}
