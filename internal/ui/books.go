package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matonneli/bookstore-admin/internal/api"
)

// Sortable book columns, cycled with the sort key.
var bookSortFields = []string{"updated_at", "title", "purchase_price", "stock_quantity"}

const (
	bookFieldTitle = iota
	bookFieldAuthor
	bookFieldPubDate
	bookFieldPurchasePrice
	bookFieldRentalPrice
	bookFieldDiscount
	bookFieldStock
	bookFieldCount
)

type booksState struct {
	search    textinput.Model
	searching bool
	searchSeq int
	selected  int
	sortIdx   int
	descend   bool

	editOpen bool
	editBase *api.Book
	inputs   [bookFieldCount]textinput.Model
	focus    int
}

func newBooksState() booksState {
	search := textinput.New()
	search.Placeholder = "title or author"
	search.CharLimit = 128

	var inputs [bookFieldCount]textinput.Model
	labels := [bookFieldCount]string{
		"title", "author id", "publication date (YYYY-MM-DD)",
		"purchase price", "rental price", "discount %", "stock",
	}
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 128
		inputs[i] = in
	}

	return booksState{
		search:  search,
		sortIdx: 0,
		descend: true,
		inputs:  inputs,
	}
}

func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.bookView.editOpen {
		return m.handleBookEditKey(msg)
	}
	if m.bookView.searching {
		return m.handleBookSearchKey(msg)
	}

	if next, cmd, handled := m.handleGlobalKey(msg); handled {
		return next, cmd
	}

	items := m.books.Items()
	switch msg.String() {
	case "/":
		m.bookView.searching = true
		m.bookView.search.Focus()
		return m, nil

	case "j", "down":
		if m.bookView.selected < len(items)-1 {
			m.bookView.selected++
		}
		return m, nil

	case "k", "up":
		if m.bookView.selected > 0 {
			m.bookView.selected--
		}
		return m, nil

	case "left", "h":
		return m.changeBookPage(-1)

	case "right", "l":
		return m.changeBookPage(1)

	case "s":
		m.bookView.sortIdx = (m.bookView.sortIdx + 1) % len(bookSortFields)
		return m.applyBookSort()

	case "S":
		m.bookView.descend = !m.bookView.descend
		return m.applyBookSort()

	case "r":
		m.clock.Touch("refresh books")
		m.busy = true
		return m, m.refreshBooksCmd()

	case "n":
		m.clock.Touch("open book editor")
		return m.openBookForm(nil), nil

	case "e", "enter":
		if m.bookView.selected >= len(items) {
			return m, nil
		}
		m.clock.Touch("open book editor")
		return m, m.loadBookEditCmd(items[m.bookView.selected].BookID)
	}
	return m, nil
}

func (m Model) openBookForm(book *api.Book) Model {
	m.bookView.editOpen = true
	m.bookView.editBase = book
	m.errMsg = ""
	for i := range m.bookView.inputs {
		m.bookView.inputs[i].SetValue("")
	}
	if book != nil {
		m.bookView.inputs[bookFieldTitle].SetValue(book.Title)
		m.bookView.inputs[bookFieldAuthor].SetValue(strconv.Itoa(book.AuthorID))
		m.bookView.inputs[bookFieldPubDate].SetValue(book.PublicationDate)
		m.bookView.inputs[bookFieldPurchasePrice].SetValue(formatFloat(book.PurchasePrice))
		m.bookView.inputs[bookFieldRentalPrice].SetValue(formatFloat(book.RentalPrice))
		m.bookView.inputs[bookFieldDiscount].SetValue(formatFloat(book.DiscountPercent))
		m.bookView.inputs[bookFieldStock].SetValue(strconv.Itoa(book.StockQuantity))
	}
	return m.focusBookField(bookFieldTitle)
}

func (m Model) handleBookSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.bookView.searching = false
		m.bookView.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.bookView.search, cmd = m.bookView.search.Update(msg)

	// Debounce: only the latest pending edit commits a fetch.
	m.bookView.searchSeq++
	return m, tea.Batch(cmd, m.searchDebounceCmd(m.bookView.searchSeq))
}

func (m Model) searchDebounceCmd(seq int) tea.Cmd {
	return tea.Tick(m.cfg.SearchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func (m Model) handleSearchDebounce(msg searchDebounceMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.bookView.searchSeq {
		return m, nil
	}
	m.books.SetSearch(strings.TrimSpace(m.bookView.search.Value()))
	m.bookView.selected = 0
	m.clock.Touch("search books")
	m.busy = true
	return m, m.refreshBooksCmd()
}

func (m Model) changeBookPage(delta int) (tea.Model, tea.Cmd) {
	current, _, _ := m.books.PageInfo()
	if err := m.books.SetPage(current + delta); err != nil {
		return m, nil
	}
	m.bookView.selected = 0
	m.clock.Touch("page books")
	m.busy = true
	return m, m.refreshBooksCmd()
}

func (m Model) applyBookSort() (tea.Model, tea.Cmd) {
	order := "asc"
	if m.bookView.descend {
		order = "desc"
	}
	m.books.SetSort(bookSortFields[m.bookView.sortIdx], order)
	m.bookView.selected = 0
	m.clock.Touch("sort books")
	m.busy = true
	return m, m.refreshBooksCmd()
}

// Book editing

func (m Model) handleBookEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.bookView.editOpen = false
		return m, nil

	case "tab", "down":
		return m.focusBookField(m.bookView.focus + 1), nil

	case "shift+tab", "up":
		return m.focusBookField(m.bookView.focus - 1), nil

	case "enter":
		return m.submitBookEdit()
	}

	var cmd tea.Cmd
	m.bookView.inputs[m.bookView.focus], cmd = m.bookView.inputs[m.bookView.focus].Update(msg)
	return m, cmd
}

func (m Model) focusBookField(idx int) Model {
	if idx < 0 {
		idx = bookFieldCount - 1
	}
	idx %= bookFieldCount
	for i := range m.bookView.inputs {
		if i == idx {
			m.bookView.inputs[i].Focus()
		} else {
			m.bookView.inputs[i].Blur()
		}
	}
	m.bookView.focus = idx
	return m
}

func (m Model) submitBookEdit() (tea.Model, tea.Cmd) {
	base := m.bookView.editBase

	payload := api.BookUpdate{
		Title:           strings.TrimSpace(m.bookView.inputs[bookFieldTitle].Value()),
		PublicationDate: strings.TrimSpace(m.bookView.inputs[bookFieldPubDate].Value()),
	}
	if base != nil {
		// Fields the form does not expose carry over unchanged.
		payload.Description = base.Description
		payload.Status = base.Status
		payload.CategoryIDs = base.CategoryIDs
		payload.GenreIDs = base.GenreIDs
		payload.ImageURLs = base.ImageURLs
	}

	var parseErr error
	payload.AuthorID, parseErr = parseCount(m.bookView.inputs[bookFieldAuthor].Value())
	if parseErr != nil {
		m.errMsg = "author id must be a number"
		return m, nil
	}
	payload.PurchasePrice, parseErr = parsePrice(m.bookView.inputs[bookFieldPurchasePrice].Value(), parseErr)
	payload.RentalPrice, parseErr = parsePrice(m.bookView.inputs[bookFieldRentalPrice].Value(), parseErr)
	payload.DiscountPercent, parseErr = parsePrice(m.bookView.inputs[bookFieldDiscount].Value(), parseErr)
	if parseErr == nil {
		payload.StockQuantity, parseErr = parseCount(m.bookView.inputs[bookFieldStock].Value())
	}
	if parseErr != nil {
		m.errMsg = "numeric fields must be valid numbers"
		return m, nil
	}

	if err := validateForm(payload); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.busy = true
	m.errMsg = ""
	m.clock.Touch("save book")
	if base == nil {
		return m, m.createBookCmd(payload)
	}
	return m, m.saveBookCmd(base.BookID, payload)
}

func parsePrice(raw string, prev error) (float64, error) {
	if prev != nil {
		return 0, prev
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseCount(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func (m Model) handleBookSaved(msg bookSavedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		return m.handleAPIError(msg.err)
	}
	m.bookView.editOpen = false
	m.infoMsg = "book saved"
	if msg.created {
		// Creation bypasses the optimistic patch path; re-fetch the page.
		m.busy = true
		return m, m.refreshBooksCmd()
	}
	return m, nil
}

// Rendering

func (m Model) renderBooks() string {
	if m.bookView.editOpen {
		return m.renderBookEdit()
	}

	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Books"))
	order := "↑"
	if m.bookView.descend {
		order = "↓"
	}
	b.WriteString(m.styles.MutedText.Render(
		"  sort " + bookSortFields[m.bookView.sortIdx] + " " + order))
	if m.bookView.searching || m.bookView.search.Value() != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Text.Render("search: "))
		b.WriteString(m.bookView.search.View())
	}
	b.WriteString("\n\n")

	items := m.books.Items()
	if len(items) == 0 {
		b.WriteString(m.styles.MutedText.Render("no books match"))
	}
	for i, book := range items {
		line := fmt.Sprintf("%-40s  %-24s  %8.2f  x%d",
			truncate(book.Title, 40),
			truncate(m.refs.AuthorName(book.AuthorID), 24),
			book.PurchasePrice,
			book.StockQuantity)
		if i == m.bookView.selected {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	current, totalPages, totalElements := m.books.PageInfo()
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render(
		fmt.Sprintf("page %d of %d · %d books", current+1, max(totalPages, 1), totalElements)))
	if m.busy {
		b.WriteString(m.styles.MutedText.Render("  loading..."))
	}
	return b.String()
}

func (m Model) renderBookEdit() string {
	var b strings.Builder
	title := "Edit book"
	if m.bookView.editBase != nil {
		title += " #" + strconv.Itoa(m.bookView.editBase.BookID)
	}
	b.WriteString(m.styles.AccentText.Render(title))
	b.WriteString("\n\n")
	for i := range m.bookView.inputs {
		b.WriteString(m.bookView.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render("enter save · esc cancel · tab next field"))
	return m.styles.Box.Render(b.String())
}

// Commands

func (m Model) loadBookEditCmd(bookID int) tea.Cmd {
	return func() tea.Msg {
		book, err := m.books.FetchForEdit(m.ctx, bookID)
		return bookEditLoadedMsg{book: book, err: err}
	}
}

func (m Model) saveBookCmd(bookID int, payload api.BookUpdate) tea.Cmd {
	return func() tea.Msg {
		_, err := m.books.Update(m.ctx, bookID, payload)
		return bookSavedMsg{err: err}
	}
}

func (m Model) createBookCmd(payload api.BookUpdate) tea.Cmd {
	return func() tea.Msg {
		_, err := m.books.Create(m.ctx, payload)
		return bookSavedMsg{created: true, err: err}
	}
}
