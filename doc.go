// Package mgga anonymizes tabular data to a k-anonymity threshold by
// generalizing and suppressing quasi-identifying cells.
//
// Everything is organized under six subpackages and one command:
//
//	table/    the column-major data model: typed, weighted columns,
//	          derived numeric ranges, and the per-cell mutation space
//	domain/   generalization hierarchies and their definition syntax
//	memo/     the prefix-tree caches behind score and match memoization
//	metric/   information-loss scoring and assignment-based anonymity
//	mingen/   exhaustive minimal generalization with branch-and-bound
//	genetic/  a genetic optimizer for tables out of exhaustive reach
//	cmd/mgga/ the command line front end
//
// Start with mingen when the mutation space is small enough to cover; its
// result is provably optimal. Reach for genetic when it is not; its result
// is merely good, and is re-verified after the run so a miss is never
// silent.
package mgga
