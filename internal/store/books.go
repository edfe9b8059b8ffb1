package store

import (
	"context"

	"github.com/matonneli/bookstore-admin/internal/api"
)

// BookFilters is the filter/sort surface of the book catalog screen.
type BookFilters struct {
	SearchQuery string
	SortBy      string
	SortOrder   string
}

// DefaultBookFilters matches the backend's list defaults.
func DefaultBookFilters() BookFilters {
	return BookFilters{SortBy: "updated_at", SortOrder: "desc"}
}

// Books is the paginated book catalog store.
type Books struct {
	*Store[api.Book, BookFilters]
	backend api.Backend
}

// NewBooks builds a Books store over the backend.
func NewBooks(backend api.Backend, pageSize int) *Books {
	fetch := func(ctx context.Context, filters BookFilters, page, size int) (Page[api.Book], error) {
		result, err := backend.FetchBooks(ctx, api.BookQuery{
			SearchQuery: filters.SearchQuery,
			SortBy:      filters.SortBy,
			SortOrder:   filters.SortOrder,
			Page:        page,
			Size:        size,
		})
		if err != nil {
			return Page[api.Book]{}, err
		}
		return Page[api.Book]{
			Items:         result.Books,
			CurrentPage:   result.CurrentPage,
			TotalPages:    result.TotalPages,
			TotalElements: result.TotalElements,
		}, nil
	}
	b := &Books{Store: New(fetch, pageSize), backend: backend}
	b.SetQuery(DefaultBookFilters())
	return b
}

// SetSearch changes the search text. Page resets to 0.
func (b *Books) SetSearch(query string) {
	filters := b.Query()
	filters.SearchQuery = query
	b.SetQuery(filters)
}

// SetSort changes the sort column and direction. Page resets to 0.
func (b *Books) SetSort(sortBy, sortOrder string) {
	filters := b.Query()
	filters.SortBy = sortBy
	filters.SortOrder = sortOrder
	b.SetQuery(filters)
}

// Update sends a book edit and patches the local row from the server's
// response. Failures leave local state untouched.
func (b *Books) Update(ctx context.Context, id int, payload api.BookUpdate) (*api.Book, error) {
	updated, err := b.backend.UpdateBook(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	b.ApplyPatch(
		func(book api.Book) bool { return book.BookID == id },
		func(api.Book) api.Book { return *updated },
	)
	return updated, nil
}

// Create adds a book. The current page is not patched: the new book's place
// depends on server-side sorting, so callers refresh instead.
func (b *Books) Create(ctx context.Context, payload api.BookUpdate) (*api.Book, error) {
	return b.backend.CreateBook(ctx, payload)
}

// FetchForEdit loads the full editable view of one book.
func (b *Books) FetchForEdit(ctx context.Context, id int) (*api.Book, error) {
	return b.backend.FetchBookForEdit(ctx, id)
}
