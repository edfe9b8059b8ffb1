package store

import (
	"context"
	"sync"

	"github.com/matonneli/bookstore-admin/internal/api"
)

// Workers is the staff-management store. The workers list is small and
// unpaginated; mutations patch the local list from the server's response
// instead of refetching.
type Workers struct {
	mu      sync.Mutex
	backend api.Backend
	list    []api.Worker
	loaded  bool
	lastErr error
}

// NewWorkers builds a Workers store over the backend.
func NewWorkers(backend api.Backend) *Workers {
	return &Workers{backend: backend}
}

// Refresh replaces the list with the backend's current view.
func (w *Workers) Refresh(ctx context.Context) error {
	list, err := w.backend.FetchWorkers(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.lastErr = err
		return err
	}
	w.list = list
	w.loaded = true
	w.lastErr = nil
	return nil
}

// List returns a copy of the current staff list.
func (w *Workers) List() []api.Worker {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.list) == 0 {
		return nil
	}
	dup := make([]api.Worker, len(w.list))
	copy(dup, w.list)
	return dup
}

// Loaded reports whether the list has been fetched this session.
func (w *Workers) Loaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// Create adds a staff account and appends the server-confirmed entry.
func (w *Workers) Create(ctx context.Context, payload api.WorkerCreate) (*api.Worker, error) {
	created, err := w.backend.CreateWorker(ctx, payload)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.list = append(w.list, *created)
	w.mu.Unlock()
	return created, nil
}

// Update edits a staff account and replaces the matching local entry with
// the server-confirmed one.
func (w *Workers) Update(ctx context.Context, adminID int, payload api.WorkerUpdate) (*api.Worker, error) {
	updated, err := w.backend.UpdateWorker(ctx, adminID, payload)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	for i, worker := range w.list {
		if worker.AdminID == adminID {
			w.list[i] = *updated
		}
	}
	w.mu.Unlock()
	return updated, nil
}

// Delete removes a staff account and drops it from the local list.
func (w *Workers) Delete(ctx context.Context, adminID int) error {
	if err := w.backend.DeleteWorker(ctx, adminID); err != nil {
		return err
	}

	w.mu.Lock()
	kept := w.list[:0]
	for _, worker := range w.list {
		if worker.AdminID != adminID {
			kept = append(kept, worker)
		}
	}
	w.list = kept
	w.mu.Unlock()
	return nil
}
