// Package refcache caches the slow-changing lookup collections (authors,
// categories, genres, pickup points, status enumerations) for the lifetime of
// an authenticated session.
package refcache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/matonneli/bookstore-admin/internal/api"
)

// Placeholders returned by projections for unknown ids. Deterministic, never
// an error: reference gaps must not break list rendering.
const (
	unknownAuthor = "Unknown Author"
	unknownPoint  = "Unknown Point"
	unknownStatus = "Unknown Status"
	noCategories  = "No Categories"
	noGenres      = "No Genres"
)

// Cache holds the reference set. Ready flips to true only after one full
// successful load; a failed load fails closed and is never retried
// implicitly — callers decide when to call Load again.
type Cache struct {
	mu      sync.RWMutex
	backend api.Backend
	data    api.ReferenceData
	ready   bool
}

// New builds an empty, not-ready Cache.
func New(backend api.Backend) *Cache {
	return &Cache{backend: backend}
}

// Load fetches all lookup collections in one call and replaces the cached
// set wholesale.
func (c *Cache) Load(ctx context.Context) error {
	data, err := c.backend.FetchReferences(ctx)
	if err != nil {
		return fmt.Errorf("load references: %w", err)
	}

	c.mu.Lock()
	c.data = *data
	c.ready = true
	c.mu.Unlock()
	return nil
}

// Ready reports whether a full load has succeeded this session.
func (c *Cache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Snapshot returns a copy of the current reference set.
func (c *Cache) Snapshot() api.ReferenceData {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := c.data
	snap.Authors = cloneAuthors(c.data.Authors)
	return snap
}

// AddAuthor appends a server-confirmed author to the cached collection.
// Called only after the create succeeded; the result matches what a full
// reload would return.
func (c *Cache) AddAuthor(author api.Author) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Authors = append(cloneAuthors(c.data.Authors), author)
}

// UpdateAuthor replaces the cached entry with the matching id. Entries with
// other ids are left untouched; an unknown id is a no-op.
func (c *Cache) UpdateAuthor(author api.Author) {
	c.mu.Lock()
	defer c.mu.Unlock()

	authors := cloneAuthors(c.data.Authors)
	for i, existing := range authors {
		if existing.AuthorID == author.AuthorID {
			authors[i] = author
		}
	}
	c.data.Authors = authors
}

// AuthorName resolves an author id to a display name.
func (c *Cache) AuthorName(id int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, author := range c.data.Authors {
		if author.AuthorID == id {
			return author.FullName
		}
	}
	return unknownAuthor
}

// CategoryNames resolves category ids to a comma-joined display string.
// Unknown ids are skipped.
func (c *Cache) CategoryNames(ids []int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, cat := range c.data.AllCategories {
			if cat.CategoryID == id {
				names = append(names, cat.Name)
				break
			}
		}
	}
	if len(names) == 0 {
		return noCategories
	}
	return strings.Join(names, ", ")
}

// GenreNames resolves genre ids to a comma-joined display string.
func (c *Cache) GenreNames(ids []int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, genre := range c.data.AllGenres {
			if genre.GenreID == id {
				names = append(names, genre.Name)
				break
			}
		}
	}
	if len(names) == 0 {
		return noGenres
	}
	return strings.Join(names, ", ")
}

// PickupAddress resolves a pickup point id to its address.
func (c *Cache) PickupAddress(id int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, point := range c.data.PickUpPoints {
		if point.PickupPointID == id {
			return point.Address
		}
	}
	return unknownPoint
}

// FormatStatus prettifies a status constant for display:
// READY_FOR_PICKUP becomes "Ready for pickup".
func FormatStatus(status string) string {
	if status == "" {
		return unknownStatus
	}
	lowered := strings.ReplaceAll(strings.ToLower(status), "_", " ")
	return strings.ToUpper(lowered[:1]) + lowered[1:]
}

func cloneAuthors(authors []api.Author) []api.Author {
	if len(authors) == 0 {
		return nil
	}
	dup := make([]api.Author, len(authors))
	copy(dup, authors)
	return dup
}
