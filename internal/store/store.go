package store

import (
	"context"
	"errors"
	"sync"
)

// Local pre-flight rejections. None of these reach the network.
var (
	// ErrPageOutOfRange means the requested page is outside [0, totalPages).
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrTerminalStatus means the resource is in the cancelled family and
	// accepts no further transitions.
	ErrTerminalStatus = errors.New("status is terminal")
	// ErrStatusUnchanged means the requested status equals the current one.
	ErrStatusUnchanged = errors.New("status unchanged")
	// ErrStale means a fetch was superseded by a newer one and its response
	// was discarded.
	ErrStale = errors.New("fetch superseded")
	// ErrNotFound means the resource is not in the current page.
	ErrNotFound = errors.New("resource not in current page")
)

// Page is one page of a collection, as the backend confirmed it.
type Page[T any] struct {
	Items         []T
	CurrentPage   int
	TotalPages    int
	TotalElements int
}

// FetchFunc loads one page of a collection for a filter set.
type FetchFunc[T, Q any] func(ctx context.Context, query Q, page, size int) (Page[T], error)

// Store holds the paginated view of one remote collection: the filter set,
// the page cursor, and the last confirmed page. Fetches are tagged with a
// monotonically increasing epoch; a response whose epoch is stale by the time
// it resolves is discarded, so the visible page always matches the most
// recently requested query.
type Store[T, Q any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T, Q]
	size    int
	query   Q
	pageNum int
	current Page[T]
	loaded  bool
	loading bool
	lastErr error
	epoch   uint64
}

// New builds a Store over a fetch function with a fixed page size.
func New[T, Q any](fetch FetchFunc[T, Q], size int) *Store[T, Q] {
	return &Store[T, Q]{fetch: fetch, size: size}
}

// SetQuery replaces the filter/sort set and resets the page cursor to 0.
// In-flight fetches for the old query are superseded.
func (s *Store[T, Q]) SetQuery(query Q) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.pageNum = 0
	s.epoch++
}

// Query returns the current filter/sort set.
func (s *Store[T, Q]) Query() Q {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetPage moves the page cursor. A page outside [0, totalPages) is rejected
// locally with ErrPageOutOfRange and triggers no fetch; before the first load
// only page 0 is accepted.
func (s *Store[T, Q]) SetPage(page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 0 {
		return ErrPageOutOfRange
	}
	if s.loaded {
		if page >= s.current.TotalPages {
			return ErrPageOutOfRange
		}
	} else if page != 0 {
		return ErrPageOutOfRange
	}

	s.pageNum = page
	s.epoch++
	return nil
}

// Refresh fetches the page for the current query and cursor. When a newer
// SetQuery/SetPage/Refresh supersedes this call before its response lands,
// the response is dropped and ErrStale returned; the caller simply ignores
// it, because a fresher Refresh is already in flight.
func (s *Store[T, Q]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	query, page, size := s.query, s.pageNum, s.size
	s.loading = true
	s.mu.Unlock()

	result, err := s.fetch(ctx, query, page, size)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return ErrStale
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		return err
	}

	s.current = result
	s.pageNum = result.CurrentPage
	s.loaded = true
	s.lastErr = nil
	return nil
}

// Items returns a copy of the current page's items.
func (s *Store[T, Q]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.current.Items) == 0 {
		return nil
	}
	dup := make([]T, len(s.current.Items))
	copy(dup, s.current.Items)
	return dup
}

// PageInfo returns the current cursor, total pages and total elements.
func (s *Store[T, Q]) PageInfo() (current, totalPages, totalElements int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageNum, s.current.TotalPages, s.current.TotalElements
}

// Loading reports whether a fetch is in flight.
func (s *Store[T, Q]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent fetch error, nil after a success.
func (s *Store[T, Q]) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ApplyPatch rewrites the first item matching the predicate with the given
// transformation. This is the single optimistic-update path: callers pass a
// patch built from the server's response body, never from the requested
// values, so local state cannot diverge from server truth.
func (s *Store[T, Q]) ApplyPatch(match func(T) bool, patch func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.current.Items {
		if match(item) {
			s.current.Items[i] = patch(item)
			return true
		}
	}
	return false
}

// Find returns the first item matching the predicate in the current page.
func (s *Store[T, Q]) Find(match func(T) bool) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.current.Items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
