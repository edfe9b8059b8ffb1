package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type testFilters struct {
	Search string
}

type testItem struct {
	ID   int
	Name string
}

// pageOf builds a server-confirmed page of n sequential items.
func pageOf(page, totalPages, totalElements int, items ...testItem) Page[testItem] {
	return Page[testItem]{
		Items:         items,
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalElements: totalElements,
	}
}

func TestSetPageRejectsOutOfRangeLocally(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context, q testFilters, page, size int) (Page[testItem], error) {
		calls.Add(1)
		return pageOf(page, 3, 25, testItem{ID: page}), nil
	}
	s := New(fetch, 10)

	// Before the first load only page 0 is addressable.
	if err := s.SetPage(1); !errors.Is(err, ErrPageOutOfRange) {
		t.Fatalf("SetPage(1) before load = %v, want ErrPageOutOfRange", err)
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := s.SetPage(2); err != nil {
		t.Fatalf("SetPage(2) = %v", err)
	}
	if err := s.SetPage(3); !errors.Is(err, ErrPageOutOfRange) {
		t.Fatalf("SetPage(3) of 3 pages = %v, want ErrPageOutOfRange", err)
	}
	if err := s.SetPage(-1); !errors.Is(err, ErrPageOutOfRange) {
		t.Fatalf("SetPage(-1) = %v, want ErrPageOutOfRange", err)
	}

	// The rejections themselves triggered no fetches.
	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
}

func TestRefreshAdoptsServerPage(t *testing.T) {
	fetch := func(ctx context.Context, q testFilters, page, size int) (Page[testItem], error) {
		// Server clamps any request to its last page.
		return pageOf(1, 2, 12, testItem{ID: 11}), nil
	}
	s := New(fetch, 10)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	current, totalPages, totalElements := s.PageInfo()
	if current != 1 || totalPages != 2 || totalElements != 12 {
		t.Fatalf("PageInfo = %d/%d/%d, want 1/2/12", current, totalPages, totalElements)
	}
}

func TestSetQueryResetsCursor(t *testing.T) {
	fetch := func(ctx context.Context, q testFilters, page, size int) (Page[testItem], error) {
		return pageOf(page, 5, 50, testItem{ID: page}), nil
	}
	s := New(fetch, 10)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := s.SetPage(3); err != nil {
		t.Fatalf("SetPage: %v", err)
	}

	s.SetQuery(testFilters{Search: "banks"})
	if current, _, _ := s.PageInfo(); current != 0 {
		t.Fatalf("cursor after SetQuery = %d, want 0", current)
	}
	if got := s.Query().Search; got != "banks" {
		t.Fatalf("Query().Search = %q", got)
	}
}

func TestSupersededRefreshIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, q testFilters, page, size int) (Page[testItem], error) {
		if q.Search == "slow" {
			<-release
			return pageOf(0, 1, 1, testItem{ID: 1, Name: "stale"}), nil
		}
		return pageOf(0, 1, 1, testItem{ID: 2, Name: "fresh"}), nil
	}
	s := New(fetch, 10)

	s.SetQuery(testFilters{Search: "slow"})
	staleDone := make(chan error, 1)
	go func() { staleDone <- s.Refresh(context.Background()) }()

	// A newer query lands while the first fetch is blocked.
	s.SetQuery(testFilters{Search: "fresh"})
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("fresh Refresh: %v", err)
	}

	close(release)
	if err := <-staleDone; !errors.Is(err, ErrStale) {
		t.Fatalf("superseded Refresh = %v, want ErrStale", err)
	}

	items := s.Items()
	if len(items) != 1 || items[0].Name != "fresh" {
		t.Fatalf("visible items = %+v, want the fresh response", items)
	}
}

func TestRefreshErrorIsStickyUntilSuccess(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	fetch := func(ctx context.Context, q testFilters, page, size int) (Page[testItem], error) {
		if fail.Load() {
			return Page[testItem]{}, errors.New("backend down")
		}
		return pageOf(0, 1, 1, testItem{ID: 1}), nil
	}
	s := New(fetch, 10)

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh succeeded against failing fetch")
	}
	if s.LastError() == nil {
		t.Fatal("LastError nil after failed refresh")
	}

	fail.Store(false)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if s.LastError() != nil {
		t.Fatalf("LastError = %v after success, want nil", s.LastError())
	}
}

func TestApplyPatchRewritesSingleItem(t *testing.T) {
	fetch := func(ctx context.Context, q testFilters, page, size int) (Page[testItem], error) {
		return pageOf(0, 1, 2, testItem{ID: 1, Name: "a"}, testItem{ID: 2, Name: "b"}), nil
	}
	s := New(fetch, 10)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	ok := s.ApplyPatch(
		func(it testItem) bool { return it.ID == 2 },
		func(it testItem) testItem { it.Name = "patched"; return it },
	)
	if !ok {
		t.Fatal("ApplyPatch found no match")
	}

	items := s.Items()
	if items[0].Name != "a" || items[1].Name != "patched" {
		t.Fatalf("items after patch = %+v", items)
	}

	if s.ApplyPatch(func(it testItem) bool { return it.ID == 99 }, func(it testItem) testItem { return it }) {
		t.Fatal("ApplyPatch matched a missing item")
	}
}

func TestItemsReturnsACopy(t *testing.T) {
	fetch := func(ctx context.Context, q testFilters, page, size int) (Page[testItem], error) {
		return pageOf(0, 1, 1, testItem{ID: 1, Name: "a"}), nil
	}
	s := New(fetch, 10)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	items := s.Items()
	items[0].Name = "mutated"
	if got := s.Items()[0].Name; got != "a" {
		t.Fatalf("caller mutation leaked into store: %q", got)
	}
}
