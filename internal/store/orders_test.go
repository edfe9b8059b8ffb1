package store

import (
	"context"
	"errors"
	"testing"

	"github.com/matonneli/bookstore-admin/internal/api"
)

// orderBackend serves a fixed order page and records status mutations. Only
// the order endpoints are reached from these tests.
type orderBackend struct {
	api.Backend

	page          api.OrderPage
	detail        *api.OrderDetail
	updated       *api.OrderSummary
	statusCalls   int
	itemCalls     int
	detailFetches int
}

func (b *orderBackend) FetchOrders(ctx context.Context, query api.OrderQuery) (*api.OrderPage, error) {
	return &b.page, nil
}

func (b *orderBackend) FetchOrderDetail(ctx context.Context, orderID int) (*api.OrderDetail, error) {
	b.detailFetches++
	return b.detail, nil
}

func (b *orderBackend) UpdateOrderStatus(ctx context.Context, orderID int, status string) (*api.OrderSummary, error) {
	b.statusCalls++
	return b.updated, nil
}

func (b *orderBackend) UpdateOrderItemStatus(ctx context.Context, orderItemID int, status string) error {
	b.itemCalls++
	return nil
}

func testOrderBackend() *orderBackend {
	return &orderBackend{
		page: api.OrderPage{
			Content: []api.OrderSummary{
				{OrderID: 1, Email: "a@example.com", Status: api.OrderPaid},
				{OrderID: 2, Email: "b@example.com", Status: "CANCELLED_BY_USER_PAID"},
			},
			Number:        0,
			TotalPages:    1,
			TotalElements: 2,
		},
		detail: &api.OrderDetail{
			OrderID: 1,
			Status:  api.OrderPaid,
			Items: []api.OrderItem{
				{OrderItemID: 10, ItemStatus: api.ItemPending},
			},
		},
		updated: &api.OrderSummary{
			OrderID: 1,
			Status:  api.OrderReadyForPickup,
			PaidAt:  "2026-08-30T10:00:00Z",
		},
	}
}

func loadedOrders(t *testing.T, backend *orderBackend) *Orders {
	t.Helper()
	orders := NewOrders(backend, 20)
	if err := orders.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return orders
}

func TestUpdateStatusPatchesFromServerResponse(t *testing.T) {
	backend := testOrderBackend()
	orders := loadedOrders(t, backend)

	if err := orders.UpdateStatus(context.Background(), 1, api.OrderReadyForPickup); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	row, ok := orders.Find(func(o api.OrderSummary) bool { return o.OrderID == 1 })
	if !ok {
		t.Fatal("order 1 missing after update")
	}
	// The row reflects the server's confirmed resource, including the side
	// effect timestamp the client never requested.
	if row.Status != api.OrderReadyForPickup || row.PaidAt != "2026-08-30T10:00:00Z" {
		t.Fatalf("patched row = %+v", row)
	}
}

func TestUpdateStatusTerminalGuard(t *testing.T) {
	backend := testOrderBackend()
	orders := loadedOrders(t, backend)

	err := orders.UpdateStatus(context.Background(), 2, api.OrderPaid)
	if !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("UpdateStatus on cancelled order = %v, want ErrTerminalStatus", err)
	}
	if backend.statusCalls != 0 {
		t.Fatalf("terminal guard hit the network, calls = %d", backend.statusCalls)
	}
}

func TestUpdateStatusNoOpGuard(t *testing.T) {
	backend := testOrderBackend()
	orders := loadedOrders(t, backend)

	err := orders.UpdateStatus(context.Background(), 1, api.OrderPaid)
	if !errors.Is(err, ErrStatusUnchanged) {
		t.Fatalf("same-status update = %v, want ErrStatusUnchanged", err)
	}
	if backend.statusCalls != 0 {
		t.Fatalf("no-op guard hit the network, calls = %d", backend.statusCalls)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	orders := loadedOrders(t, testOrderBackend())
	if err := orders.UpdateStatus(context.Background(), 99, api.OrderPaid); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown order = %v, want ErrNotFound", err)
	}
}

func TestDetailIsCachedUntilInvalidated(t *testing.T) {
	backend := testOrderBackend()
	orders := loadedOrders(t, backend)

	if _, err := orders.Detail(context.Background(), 1); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if _, err := orders.Detail(context.Background(), 1); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if backend.detailFetches != 1 {
		t.Fatalf("detail fetches = %d, want 1 (cached)", backend.detailFetches)
	}

	orders.InvalidateDetail(1)
	if _, err := orders.Detail(context.Background(), 1); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if backend.detailFetches != 2 {
		t.Fatalf("detail fetches after invalidation = %d, want 2", backend.detailFetches)
	}
}

func TestStatusUpdateInvalidatesDetail(t *testing.T) {
	backend := testOrderBackend()
	orders := loadedOrders(t, backend)

	if _, err := orders.Detail(context.Background(), 1); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if err := orders.UpdateStatus(context.Background(), 1, api.OrderReadyForPickup); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := orders.Detail(context.Background(), 1); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if backend.detailFetches != 2 {
		t.Fatalf("detail fetches = %d, want refetch after status change", backend.detailFetches)
	}
}

func TestUpdateItemStatusGuards(t *testing.T) {
	backend := testOrderBackend()
	orders := loadedOrders(t, backend)

	// Terminal parent blocks item transitions.
	if err := orders.UpdateItemStatus(context.Background(), 2, 10, api.ItemDelivered); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("item update under terminal parent = %v, want ErrTerminalStatus", err)
	}

	// Same item status from the cached detail is a local no-op.
	if _, err := orders.Detail(context.Background(), 1); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if err := orders.UpdateItemStatus(context.Background(), 1, 10, api.ItemPending); !errors.Is(err, ErrStatusUnchanged) {
		t.Fatalf("same item status = %v, want ErrStatusUnchanged", err)
	}
	if backend.itemCalls != 0 {
		t.Fatalf("guards hit the network, calls = %d", backend.itemCalls)
	}

	if err := orders.UpdateItemStatus(context.Background(), 1, 10, api.ItemDelivered); err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	if backend.itemCalls != 1 {
		t.Fatalf("item calls = %d, want 1", backend.itemCalls)
	}
}
