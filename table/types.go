// SPDX-License-Identifier: MIT

// Package table provides the tabular data model for k-anonymization:
// typed, weighted columns with sensitivity classes, derived numeric ranges,
// and the cell mutation space the search strategies enumerate.
//
// A Table is column-major: an ordered list of columns, each holding one cell
// per row. Two tables with identical shape participate in every search: the
// immutable original and a working copy mutated in place. Mutation is only
// ever legal on quasi-identifying cells; SetCell enforces the invariant.
//
// The mutation space of a cell (Mutations) is the set of legal replacement
// values: outright suppression, the value's ancestors in its column's
// generalization hierarchy (or the verbatim value when there is none), and,
// for integer columns, every precomputed range containing the value.
//
// Errors (sentinel):
//
//	ErrUnknownKind        unrecognized column type token.
//	ErrUnknownSensitivity unrecognized sensitivity token.
//	ErrBadRange           malformed "[min-max]" range string.
//	ErrBadInteger         an integer column's cell does not parse.
//	ErrBadWeight          a weight token does not parse as a float.
//	ErrNotQuasi           attempted mutation of a non-quasi cell.
//	ErrShape              ragged rows or empty construction input.
package table

import (
	"errors"
	"fmt"
)

// Suppressed is the wildcard marker replacing a fully suppressed cell.
// It matches every value during anonymity evaluation.
const Suppressed = "*"

// Sentinel errors returned by the table package. Match with errors.Is.
var (
	// ErrUnknownKind indicates a column type token other than "s" or "i".
	ErrUnknownKind = errors.New("table: unrecognized column type")

	// ErrUnknownSensitivity indicates a sensitivity token other than
	// "i", "q" or "s".
	ErrUnknownSensitivity = errors.New("table: unrecognized sensitivity")

	// ErrBadRange indicates a range string not of the form "[min-max]"
	// with two valid integer bounds.
	ErrBadRange = errors.New("table: malformed range string")

	// ErrBadInteger indicates a cell of an integer column that parses
	// neither as an integer nor as a range.
	ErrBadInteger = errors.New("table: integer column cell does not parse")

	// ErrBadWeight indicates a column weight token that does not parse.
	ErrBadWeight = errors.New("table: malformed column weight")

	// ErrNotQuasi indicates an attempt to mutate a cell of a column that
	// is not quasi-identifying. Sensitive and ignored columns are never
	// altered by any search.
	ErrNotQuasi = errors.New("table: cell is not quasi-identifying")

	// ErrShape indicates construction input with no columns, or a row
	// whose field count does not match the header.
	ErrShape = errors.New("table: inconsistent table shape")
)

// Kind is the data type of a column.
type Kind int

const (
	// String cells compare and generalize textually.
	String Kind = iota

	// Integer cells additionally generalize into numeric ranges.
	Integer
)

// ParseKind resolves a type token: "s" for String, "i" for Integer.
func ParseKind(tok string) (Kind, error) {
	switch tok {
	case "s":
		return String, nil
	case "i":
		return Integer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tok)
	}
}

// Sensitivity classifies how a column participates in anonymization.
type Sensitivity int

const (
	// Ignored columns are excluded from matching and never mutated.
	Ignored Sensitivity = iota

	// Quasi columns identify in combination; they are the only columns a
	// search may generalize or suppress.
	Quasi

	// Sensitive columns carry the protected attribute; never mutated.
	Sensitive
)

// ParseSensitivity resolves a sensitivity token: "i" Ignored, "q" Quasi,
// "s" Sensitive.
func ParseSensitivity(tok string) (Sensitivity, error) {
	switch tok {
	case "i":
		return Ignored, nil
	case "q":
		return Quasi, nil
	case "s":
		return Sensitive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSensitivity, tok)
	}
}
