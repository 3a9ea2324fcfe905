package pagination

import (
	"fmt"
	"sync"
	"time"
)

// ResultSet is an append-only collection safe for concurrent writers.
// Order between appends is not preserved across pages.
type ResultSet[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewResultSet creates an empty result set with room for capacity items.
func NewResultSet[T any](capacity int) *ResultSet[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &ResultSet[T]{items: make([]T, 0, capacity)}
}

// Append adds items to the set.
func (rs *ResultSet[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	rs.mu.Lock()
	rs.items = append(rs.items, items...)
	rs.mu.Unlock()
}

// Len returns the number of items collected so far.
func (rs *ResultSet[T]) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.items)
}

// Items returns a snapshot copy of the collected items.
func (rs *ResultSet[T]) Items() []T {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]T, len(rs.items))
	copy(out, rs.items)
	return out
}

// Result is what a successful run reports to its caller.
type Result[T any] struct {
	Items         *ResultSet[T]
	ExpectedCount int
	TotalPages    int
	Duration      time.Duration
}

// Complete reports whether the number of collected items matches the
// totalItems announced by the server.
func (r *Result[T]) Complete() bool {
	return r.Items.Len() == r.ExpectedCount
}

// Summary returns the human-readable end-of-run line.
func (r *Result[T]) Summary() string {
	return fmt.Sprintf("Fetched %d items, expected %d", r.Items.Len(), r.ExpectedCount)
}
