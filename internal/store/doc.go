// Package store holds the client-side view of the backend's admin
// collections: a generic paginated store plus Books, Orders and Workers
// instances.
//
// # Pagination and superseding
//
// Each store tracks one filter set and one page cursor. Changing any filter
// or sort field resets the cursor to 0; requesting a page outside
// [0, totalPages) is rejected locally without a network call. Fetches carry a
// request epoch: when a newer query or fetch supersedes an in-flight one, the
// stale response is discarded on arrival, so the visible page always matches
// the most recently requested query even when responses complete out of
// order.
//
// # Optimistic patches
//
// Mutations never patch local state from the values the user requested. The
// server's response body is the source of truth: ApplyPatch rewrites the
// matching row with server-confirmed fields, and a failed or rejected call
// leaves local state byte-for-byte unchanged. Terminal (cancelled-family) and
// no-op status transitions are rejected before any network traffic.
//
// # Detail cache
//
// Order details are fetched lazily on first expansion and cached. Any
// mutation touching an order's items invalidates that order's cached detail.
package store
