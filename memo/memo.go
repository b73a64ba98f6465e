// SPDX-License-Identifier: MIT

// Package memo implements a prefix-tree cache keyed on sequences of cell
// values. Both search strategies memoize per-row scores and per-row match
// sets against the working row's values; a prefix length lets the same key
// sequence address caches that only depend on its leading columns.
//
// Occupancy is tracked explicitly per node, so any value, including the zero
// value of T, can be cached. Inserting a different call's result under an
// occupied key is a collision and reports ErrCollision; with deterministic
// keys it indicates a caching bug, not recoverable state.
package memo

import "errors"

// Sentinel errors returned by the memo package. Match with errors.Is.
var (
	// ErrCollision indicates an Insert over a key that already holds a
	// value.
	ErrCollision = errors.New("memo: key already occupied")

	// ErrNotFound indicates a Lookup of a key that holds no value.
	ErrNotFound = errors.New("memo: key not present")
)

type node[T any] struct {
	value    T
	set      bool
	children map[string]*node[T]
}

// Tree is a prefix-tree cache from key sequences to values of type T.
// It counts lookup hits and misses for cache-effectiveness reporting.
// Not safe for concurrent use.
type Tree[T any] struct {
	root   node[T]
	hits   uint64
	misses uint64
}

// NewTree returns an empty cache.
func NewTree[T any]() *Tree[T] {
	return &Tree[T]{}
}

// walk descends along the first n elements of keys, optionally creating
// missing nodes. Returns nil when a node is absent and grow is false.
func (t *Tree[T]) walk(keys []string, n int, grow bool) *node[T] {
	if n > len(keys) {
		n = len(keys)
	}
	cur := &t.root
	for _, k := range keys[:n] {
		next, ok := cur.children[k]
		if !ok {
			if !grow {
				return nil
			}
			if cur.children == nil {
				cur.children = make(map[string]*node[T])
			}
			next = &node[T]{}
			cur.children[k] = next
		}
		cur = next
	}
	return cur
}

// Insert stores v under the first n elements of keys. Storing over an
// occupied key returns ErrCollision and leaves the cached value intact.
func (t *Tree[T]) Insert(keys []string, n int, v T) error {
	cur := t.walk(keys, n, true)
	if cur.set {
		return ErrCollision
	}
	cur.value = v
	cur.set = true
	return nil
}

// Contains reports whether the first n elements of keys hold a value, and
// counts the probe as a hit or a miss.
func (t *Tree[T]) Contains(keys []string, n int) bool {
	cur := t.walk(keys, n, false)
	if cur == nil || !cur.set {
		t.misses++
		return false
	}
	t.hits++
	return true
}

// Lookup returns the value stored under the first n elements of keys, or
// ErrNotFound. Lookup does not touch the hit and miss counters; pair it
// with Contains.
func (t *Tree[T]) Lookup(keys []string, n int) (T, error) {
	cur := t.walk(keys, n, false)
	if cur == nil || !cur.set {
		var zero T
		return zero, ErrNotFound
	}
	return cur.value, nil
}

// Hits is the number of successful Contains probes so far.
func (t *Tree[T]) Hits() uint64 { return t.hits }

// Misses is the number of failed Contains probes so far.
func (t *Tree[T]) Misses() uint64 { return t.misses }

// HitRate is hits over total probes, or 0 before any probe.
func (t *Tree[T]) HitRate() float64 {
	total := t.hits + t.misses
	if total == 0 {
		return 0
	}
	return float64(t.hits) / float64(total)
}
