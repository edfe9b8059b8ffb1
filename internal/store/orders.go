package store

import (
	"context"
	"sync"

	"github.com/matonneli/bookstore-admin/internal/api"
)

// OrderFilters is the filter surface of the order management screen.
type OrderFilters struct {
	OrderID       int
	Email         string
	Status        string
	PickupPointID int
	SortDirection string
}

// DefaultOrderFilters matches the backend's list defaults.
func DefaultOrderFilters() OrderFilters {
	return OrderFilters{SortDirection: "desc"}
}

// Orders is the paginated order store plus a lazy per-order detail cache.
type Orders struct {
	*Store[api.OrderSummary, OrderFilters]
	backend api.Backend

	detailMu sync.Mutex
	details  map[int]*api.OrderDetail
}

// NewOrders builds an Orders store over the backend.
func NewOrders(backend api.Backend, pageSize int) *Orders {
	fetch := func(ctx context.Context, filters OrderFilters, page, size int) (Page[api.OrderSummary], error) {
		result, err := backend.FetchOrders(ctx, api.OrderQuery{
			OrderID:       filters.OrderID,
			Email:         filters.Email,
			Status:        filters.Status,
			PickupPointID: filters.PickupPointID,
			SortDirection: filters.SortDirection,
			Page:          page,
			Size:          size,
		})
		if err != nil {
			return Page[api.OrderSummary]{}, err
		}
		return Page[api.OrderSummary]{
			Items:         result.Content,
			CurrentPage:   result.Number,
			TotalPages:    result.TotalPages,
			TotalElements: result.TotalElements,
		}, nil
	}
	o := &Orders{
		Store:   New(fetch, pageSize),
		backend: backend,
		details: make(map[int]*api.OrderDetail),
	}
	o.SetQuery(DefaultOrderFilters())
	return o
}

// Detail returns the item-level view of an order, fetching it on first
// expansion and serving the cached copy afterwards.
func (o *Orders) Detail(ctx context.Context, orderID int) (*api.OrderDetail, error) {
	o.detailMu.Lock()
	if detail, ok := o.details[orderID]; ok {
		o.detailMu.Unlock()
		return detail, nil
	}
	o.detailMu.Unlock()

	detail, err := o.backend.FetchOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.detailMu.Lock()
	o.details[orderID] = detail
	o.detailMu.Unlock()
	return detail, nil
}

// InvalidateDetail drops the cached detail so the next expansion refetches.
func (o *Orders) InvalidateDetail(orderID int) {
	o.detailMu.Lock()
	delete(o.details, orderID)
	o.detailMu.Unlock()
}

// UpdateStatus transitions an order. Terminal and no-op transitions are
// rejected locally with zero network calls; on success the local row is
// patched from the server-confirmed resource and the detail cache for the
// order is invalidated.
func (o *Orders) UpdateStatus(ctx context.Context, orderID int, newStatus string) error {
	current, ok := o.Find(func(order api.OrderSummary) bool { return order.OrderID == orderID })
	if !ok {
		return ErrNotFound
	}
	if api.IsTerminalStatus(current.Status) {
		return ErrTerminalStatus
	}
	if current.Status == newStatus {
		return ErrStatusUnchanged
	}

	updated, err := o.backend.UpdateOrderStatus(ctx, orderID, newStatus)
	if err != nil {
		return err
	}

	o.ApplyPatch(
		func(order api.OrderSummary) bool { return order.OrderID == orderID },
		func(order api.OrderSummary) api.OrderSummary {
			order.Status = updated.Status
			if updated.PaidAt != "" {
				order.PaidAt = updated.PaidAt
			}
			if updated.DeliveredAt != "" {
				order.DeliveredAt = updated.DeliveredAt
			}
			return order
		},
	)
	o.InvalidateDetail(orderID)
	return nil
}

// UpdateItemStatus transitions a single order item. Guards mirror
// UpdateStatus: terminal parents and no-op transitions never hit the network.
func (o *Orders) UpdateItemStatus(ctx context.Context, orderID, orderItemID int, newStatus string) error {
	if order, ok := o.Find(func(order api.OrderSummary) bool { return order.OrderID == orderID }); ok {
		if api.IsTerminalStatus(order.Status) {
			return ErrTerminalStatus
		}
	}

	o.detailMu.Lock()
	if detail, ok := o.details[orderID]; ok {
		for _, item := range detail.Items {
			if item.OrderItemID == orderItemID && item.ItemStatus == newStatus {
				o.detailMu.Unlock()
				return ErrStatusUnchanged
			}
		}
	}
	o.detailMu.Unlock()

	if err := o.backend.UpdateOrderItemStatus(ctx, orderItemID, newStatus); err != nil {
		return err
	}
	o.InvalidateDetail(orderID)
	return nil
}
