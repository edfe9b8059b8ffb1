package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matonneli/bookstore-admin/internal/api"
	"github.com/matonneli/bookstore-admin/internal/refcache"
	"github.com/matonneli/bookstore-admin/internal/store"
)

var orderStatusChoices = []string{
	api.OrderCreated,
	api.OrderPaid,
	api.OrderReadyForPickup,
	api.OrderReadyForPickupUnpaid,
	api.OrderDelivered,
	api.OrderReturned,
	api.OrderCancelled,
}

var itemStatusChoices = []string{
	api.ItemPending,
	api.ItemDelivered,
	api.ItemRented,
	api.ItemOverdue,
	api.ItemCancelled,
}

// Status filter cycle: empty means all orders.
var orderFilterStatuses = append([]string{""}, orderStatusChoices...)

type ordersState struct {
	selected int

	detailOpen   bool
	detail       *api.OrderDetail
	itemSelected int

	statusMode     bool
	itemStatusMode bool

	filterMode   bool
	emailFilter  textinput.Model
	statusFilter int
}

func newOrdersState() ordersState {
	email := textinput.New()
	email.Placeholder = "customer email"
	email.CharLimit = 128
	return ordersState{emailFilter: email}
}

func (m Model) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.orderView.filterMode:
		return m.handleOrderFilterKey(msg)
	case m.orderView.statusMode:
		return m.handleOrderStatusKey(msg)
	case m.orderView.itemStatusMode:
		return m.handleItemStatusKey(msg)
	case m.orderView.detailOpen:
		return m.handleOrderDetailKey(msg)
	}

	if next, cmd, handled := m.handleGlobalKey(msg); handled {
		return next, cmd
	}

	items := m.orders.Items()
	switch msg.String() {
	case "j", "down":
		if m.orderView.selected < len(items)-1 {
			m.orderView.selected++
		}
		return m, nil

	case "k", "up":
		if m.orderView.selected > 0 {
			m.orderView.selected--
		}
		return m, nil

	case "left", "h":
		return m.changeOrderPage(-1)

	case "right", "l":
		return m.changeOrderPage(1)

	case "f":
		m.orderView.filterMode = true
		m.orderView.emailFilter.Focus()
		return m, nil

	case "r":
		m.clock.Touch("refresh orders")
		m.busy = true
		return m, m.refreshOrdersCmd()

	case "u":
		if m.orderView.selected < len(items) {
			m.orderView.statusMode = true
		}
		return m, nil

	case "enter":
		if m.orderView.selected >= len(items) {
			return m, nil
		}
		m.clock.Touch("open order detail")
		return m, m.loadOrderDetailCmd(items[m.orderView.selected].OrderID)
	}
	return m, nil
}

func (m Model) handleOrderFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.orderView.filterMode = false
		m.orderView.emailFilter.Blur()
		return m, nil

	case "tab":
		m.orderView.statusFilter = (m.orderView.statusFilter + 1) % len(orderFilterStatuses)
		return m, nil

	case "enter":
		m.orderView.filterMode = false
		m.orderView.emailFilter.Blur()
		filters := store.DefaultOrderFilters()
		filters.Email = strings.TrimSpace(m.orderView.emailFilter.Value())
		filters.Status = orderFilterStatuses[m.orderView.statusFilter]
		m.orders.SetQuery(filters)
		m.orderView.selected = 0
		m.clock.Touch("filter orders")
		m.busy = true
		return m, m.refreshOrdersCmd()
	}

	var cmd tea.Cmd
	m.orderView.emailFilter, cmd = m.orderView.emailFilter.Update(msg)
	return m, cmd
}

func (m Model) handleOrderStatusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.orderView.statusMode = false
		return m, nil
	}

	idx, err := strconv.Atoi(msg.String())
	if err != nil || idx < 1 || idx > len(orderStatusChoices) {
		return m, nil
	}

	items := m.orders.Items()
	if m.orderView.selected >= len(items) {
		m.orderView.statusMode = false
		return m, nil
	}

	m.orderView.statusMode = false
	m.busy = true
	m.errMsg = ""
	m.clock.Touch("update order status")
	return m, m.updateOrderStatusCmd(items[m.orderView.selected].OrderID, orderStatusChoices[idx-1])
}

func (m Model) handleItemStatusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.orderView.itemStatusMode = false
		return m, nil
	}

	idx, err := strconv.Atoi(msg.String())
	if err != nil || idx < 1 || idx > len(itemStatusChoices) {
		return m, nil
	}

	detail := m.orderView.detail
	if detail == nil || m.orderView.itemSelected >= len(detail.Items) {
		m.orderView.itemStatusMode = false
		return m, nil
	}

	m.orderView.itemStatusMode = false
	m.busy = true
	m.errMsg = ""
	m.clock.Touch("update item status")
	item := detail.Items[m.orderView.itemSelected]
	return m, m.updateItemStatusCmd(detail.OrderID, item.OrderItemID, itemStatusChoices[idx-1])
}

func (m Model) handleOrderDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	detail := m.orderView.detail
	switch msg.String() {
	case "esc", "q":
		m.orderView.detailOpen = false
		m.orderView.detail = nil
		return m, nil

	case "j", "down":
		if detail != nil && m.orderView.itemSelected < len(detail.Items)-1 {
			m.orderView.itemSelected++
		}
		return m, nil

	case "k", "up":
		if m.orderView.itemSelected > 0 {
			m.orderView.itemSelected--
		}
		return m, nil

	case "u":
		if detail != nil && len(detail.Items) > 0 {
			m.orderView.itemStatusMode = true
		}
		return m, nil
	}
	return m, nil
}

func (m Model) changeOrderPage(delta int) (tea.Model, tea.Cmd) {
	current, _, _ := m.orders.PageInfo()
	if err := m.orders.SetPage(current + delta); err != nil {
		return m, nil
	}
	m.orderView.selected = 0
	m.clock.Touch("page orders")
	m.busy = true
	return m, m.refreshOrdersCmd()
}

func (m Model) handleOrderDetail(msg orderDetailMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.handleAPIError(msg.err)
	}
	m.orderView.detailOpen = true
	m.orderView.detail = msg.detail
	m.orderView.itemSelected = 0
	return m, nil
}

func (m Model) handleStatusMutated(msg statusMutatedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		return m.handleAPIError(msg.err)
	}
	m.infoMsg = "status updated"
	if m.orderView.detailOpen && m.orderView.detail != nil {
		// Re-fetch so the detail view reflects the change.
		return m, m.loadOrderDetailCmd(m.orderView.detail.OrderID)
	}
	return m, nil
}

// Rendering

func (m Model) renderOrders() string {
	if m.orderView.detailOpen {
		return m.renderOrderDetail()
	}

	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Orders"))
	if f := m.orders.Query(); f.Email != "" || f.Status != "" {
		b.WriteString(m.styles.MutedText.Render("  filtered"))
	}
	b.WriteString("\n")

	if m.orderView.filterMode {
		b.WriteString(m.styles.Text.Render("email: "))
		b.WriteString(m.orderView.emailFilter.View())
		status := orderFilterStatuses[m.orderView.statusFilter]
		if status == "" {
			status = "all"
		} else {
			status = refcache.FormatStatus(status)
		}
		b.WriteString(m.styles.MutedText.Render("  status (tab): " + status))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	items := m.orders.Items()
	if len(items) == 0 {
		b.WriteString(m.styles.MutedText.Render("no orders match"))
	}
	for i, o := range items {
		line := fmt.Sprintf("#%-6d  %-28s  %-24s  %8.2f  %s",
			o.OrderID,
			truncate(o.Email, 28),
			refcache.FormatStatus(o.Status),
			o.TotalPrice,
			orDash(o.PickUpPoint))
		if i == m.orderView.selected {
			line = m.styles.Selected.Render(line)
		} else if api.IsTerminalStatus(o.Status) {
			line = m.styles.MutedText.Render(line)
		} else {
			line = m.styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.orderView.statusMode {
		b.WriteString("\n")
		b.WriteString(m.renderStatusLegend(orderStatusChoices))
	}

	current, totalPages, totalElements := m.orders.PageInfo()
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render(
		fmt.Sprintf("page %d of %d · %d orders", current+1, max(totalPages, 1), totalElements)))
	if m.busy {
		b.WriteString(m.styles.MutedText.Render("  loading..."))
	}
	return b.String()
}

func (m Model) renderOrderDetail() string {
	detail := m.orderView.detail
	if detail == nil {
		return m.styles.MutedText.Render("loading order...")
	}

	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render(fmt.Sprintf("Order #%d", detail.OrderID)))
	b.WriteString("  ")
	b.WriteString(m.styles.Text.Render(refcache.FormatStatus(detail.Status)))
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render(
		fmt.Sprintf("created %s · paid %s · total %.2f",
			orDash(detail.CreatedAt), orDash(detail.PaidAt), detail.TotalPrice)))
	b.WriteString("\n")
	if pp := detail.PickUpPoint; pp != nil {
		b.WriteString(m.styles.MutedText.Render("pickup: " + pp.Name + ", " + pp.Address))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range detail.Items {
		line := fmt.Sprintf("%-40s  %-10s  %s",
			truncate(item.BookTitle, 40),
			item.Type,
			refcache.FormatStatus(item.ItemStatus))
		if item.Type == "RENTAL" && item.RentalEndAt != "" {
			line += "  until " + item.RentalEndAt
		}
		if i == m.orderView.itemSelected {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.orderView.itemStatusMode {
		b.WriteString("\n")
		b.WriteString(m.renderStatusLegend(itemStatusChoices))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render("u change item status · esc back"))
	return b.String()
}

func (m Model) renderStatusLegend(choices []string) string {
	parts := make([]string, 0, len(choices))
	for i, s := range choices {
		parts = append(parts, fmt.Sprintf("%d %s", i+1, refcache.FormatStatus(s)))
	}
	return m.styles.Banner.Render("set status: " + strings.Join(parts, " · ") + " · esc cancel")
}

// Commands

func (m Model) loadOrderDetailCmd(orderID int) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.orders.Detail(m.ctx, orderID)
		return orderDetailMsg{orderID: orderID, detail: detail, err: err}
	}
}

func (m Model) updateOrderStatusCmd(orderID int, status string) tea.Cmd {
	return func() tea.Msg {
		return statusMutatedMsg{err: m.orders.UpdateStatus(m.ctx, orderID, status)}
	}
}

func (m Model) updateItemStatusCmd(orderID, orderItemID int, status string) tea.Cmd {
	return func() tea.Msg {
		return statusMutatedMsg{err: m.orders.UpdateItemStatus(m.ctx, orderID, orderItemID, status)}
	}
}
