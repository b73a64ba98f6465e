// Package domain models generalization hierarchies for categorical values.
//
// A Domain is a tree whose root carries the column name and whose interior
// nodes are progressively more specific categories; leaves are the concrete
// values observed in a table. Generalizing a cell replaces its value with one
// of the value's ancestors, trading precision for anonymity:
//
//	Job
//	├── Blue Collar
//	│   ├── Mechanic
//	│   └── Plumber
//	└── White Collar
//	    ├── Engineer
//	    └── Doctor
//
// Find("Mechanic") yields [Mechanic, Blue Collar]: the value itself plus its
// ancestors, nearest first. The root is deliberately excluded — it is so
// general that outright suppression conveys the same (lack of) information.
//
// Node names must be unique within a single Domain; when they are not, the
// first match in child order wins (documented limitation, not an error).
//
// Domains are built either programmatically via Add, or from the text format
// read by Parse/ParseFile:
//
//	Job/Blue Collar: Mechanic, Plumber
//	Job/White Collar: Engineer, Doctor
//
// Each line names a path from a root (the column name) and the children to
// create under it. Intermediate nodes are created on demand; several roots
// may coexist in one file.
//
// Errors (sentinel):
//
//	– ErrBadLine if a definition line lacks the "path: values" separator.
package domain

import "errors"

// ErrBadLine indicates a hierarchy definition line without a "path: values"
// colon separator.
var ErrBadLine = errors.New("domain: definition line is missing ':' separator")
