package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matonneli/bookstore-admin/internal/api"
	"github.com/matonneli/bookstore-admin/internal/config"
	"github.com/matonneli/bookstore-admin/internal/refcache"
	"github.com/matonneli/bookstore-admin/internal/session"
	"github.com/matonneli/bookstore-admin/internal/store"
)

// View represents the current active screen.
type View int

const (
	ViewLogin View = iota
	ViewTwoFactor
	ViewDashboard
	ViewBooks
	ViewOrders
	ViewWorkers
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Backend api.Backend
	Gate    *session.Gate
	Clock   *session.Clock
	Warning *session.Warning
	Watcher *session.ExpiryWatcher
	Refs    *refcache.Cache
	Books   *store.Books
	Orders  *store.Orders
	Workers *store.Workers
	Config  config.Config
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	backend api.Backend
	gate    *session.Gate
	clock   *session.Clock
	warning *session.Warning
	watcher *session.ExpiryWatcher
	refs    *refcache.Cache
	books   *store.Books
	orders  *store.Orders
	workers *store.Workers
	cfg     config.Config

	view   View
	width  int
	height int
	ready  bool
	styles Styles

	errMsg  string
	infoMsg string
	busy    bool

	remaining time.Duration
	warnLevel session.WarnLevel

	login      loginState
	bookView   booksState
	orderView  ordersState
	staff      workersState
	authorForm authorFormState
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{
		ctx:        ctx,
		backend:    opts.Backend,
		gate:       opts.Gate,
		clock:      opts.Clock,
		warning:    opts.Warning,
		watcher:    opts.Watcher,
		refs:       opts.Refs,
		books:      opts.Books,
		orders:     opts.Orders,
		workers:    opts.Workers,
		cfg:        opts.Config,
		view:       ViewLogin,
		styles:     DefaultTheme().Styles(),
		login:      newLoginState(),
		bookView:   newBooksState(),
		orderView:  newOrdersState(),
		staff:      newWorkersState(),
		authorForm: newAuthorFormState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		sessionTickCmd(),
		m.checkAuthCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case sessionTickMsg:
		return m.handleSessionTick()

	case ForcedLogoutMsg:
		return m.toLoginAfterLogout("session expired, please sign in again")

	case authCheckedMsg:
		return m.handleAuthChecked(msg)

	case loginMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = remoteMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.view = ViewTwoFactor
		m.login.code.Focus()
		return m, nil

	case verifyMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = remoteMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		return m, m.checkAuthCmd()

	case refsLoadedMsg:
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		return m, nil

	case searchDebounceMsg:
		return m.handleSearchDebounce(msg)

	case booksRefreshedMsg:
		m.busy = false
		if msg.err != nil && !errors.Is(msg.err, store.ErrStale) {
			return m.handleAPIError(msg.err)
		}
		return m, nil

	case ordersRefreshedMsg:
		m.busy = false
		if msg.err != nil && !errors.Is(msg.err, store.ErrStale) {
			return m.handleAPIError(msg.err)
		}
		return m, nil

	case workersRefreshedMsg:
		m.busy = false
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		return m, nil

	case orderDetailMsg:
		return m.handleOrderDetail(msg)

	case statusMutatedMsg:
		return m.handleStatusMutated(msg)

	case workerSavedMsg:
		return m.handleWorkerSaved(msg)

	case bookSavedMsg:
		return m.handleBookSaved(msg)

	case bookEditLoadedMsg:
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		return m.openBookForm(msg.book), nil

	case authorSavedMsg:
		return m.handleAuthorSaved(msg)

	case loggedOutMsg:
		return m.toLoginAfterLogout("signed out")
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if banner := m.renderWarningBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.view {
	case ViewLogin:
		return m.renderLogin()
	case ViewTwoFactor:
		return m.renderTwoFactor()
	case ViewDashboard:
		return m.renderDashboard()
	case ViewBooks:
		return m.renderBooks()
	case ViewOrders:
		return m.renderOrders()
	case ViewWorkers:
		return m.renderWorkers()
	default:
		return ""
	}
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("bookadm")
	if !m.gate.Authenticated() {
		return title
	}

	parts := []string{title}
	if profile := m.gate.Profile(); profile != nil {
		parts = append(parts, m.styles.Text.Render(profile.FullName+" ("+string(profile.Role)+")"))
	}
	parts = append(parts, m.styles.MutedText.Render("idle in "+formatRemaining(m.remaining)))
	return strings.Join(parts, "  ·  ")
}

func (m Model) renderWarningBanner() string {
	switch m.warnLevel {
	case WarnLevelImminent:
		return m.styles.Banner.Render(
			"Session expires in " + formatRemaining(m.remaining) + " — press E to extend, X to dismiss")
	case WarnLevelCoarse:
		return m.styles.MutedText.Render(
			"Session expires in " + formatRemaining(m.remaining) + " unless you keep working")
	default:
		return ""
	}
}

func (m Model) renderFooter() string {
	var keys string
	switch m.view {
	case ViewLogin, ViewTwoFactor:
		keys = "enter submit · tab next field · ctrl+c quit"
	case ViewBooks:
		keys = "d dash · o orders · w staff · / search · s sort · S order · ←/→ page · j/k move · e edit · L logout"
	case ViewOrders:
		keys = "d dash · b books · w staff · enter detail · u status · f filter · ←/→ page · j/k move · L logout"
	case ViewWorkers:
		keys = "d dash · b books · o orders · n new · e edit · D delete · j/k move · L logout"
	default:
		keys = "b books · o orders · w staff · L logout · ctrl+c quit"
	}
	footer := m.styles.MutedText.Render(keys)
	if m.errMsg != "" {
		footer += "\n" + m.styles.Danger.Render(m.errMsg)
	}
	if m.infoMsg != "" {
		footer += "\n" + m.styles.Success.Render(m.infoMsg)
	}
	return footer
}

// Aliases so the render layer does not reach into the session package's
// constants directly.
const (
	WarnLevelNone     = session.WarnNone
	WarnLevelCoarse   = session.WarnCoarse
	WarnLevelImminent = session.WarnImminent
)

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewTwoFactor:
		return m.handleTwoFactorKey(msg)
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	case ViewBooks:
		return m.handleBooksKey(msg)
	case ViewOrders:
		return m.handleOrdersKey(msg)
	case ViewWorkers:
		return m.handleWorkersKey(msg)
	}
	return m, nil
}

// handleGlobalKey covers the navigation shared by authenticated views.
// Returns handled=false when the key is view-specific.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "d":
		m.view = ViewDashboard
		m.clock.Touch("navigate dashboard")
		return m, nil, true
	case "b":
		m.view = ViewBooks
		m.clock.Touch("navigate books")
		m.busy = true
		return m, tea.Batch(m.checkAuthCmd(), m.refreshBooksCmd()), true
	case "o":
		m.view = ViewOrders
		m.clock.Touch("navigate orders")
		m.busy = true
		return m, tea.Batch(m.checkAuthCmd(), m.refreshOrdersCmd()), true
	case "w":
		m.view = ViewWorkers
		m.clock.Touch("navigate staff")
		m.busy = true
		return m, tea.Batch(m.checkAuthCmd(), m.refreshWorkersCmd()), true
	case "L":
		return m, m.logoutCmd(), true
	case "E":
		// Extend: re-validate with the backend, then touch.
		return m, m.extendSessionCmd(), true
	case "X":
		m.warning.Dismiss(m.clock.Remaining())
		m.warnLevel = m.warning.Evaluate(m.clock.Remaining())
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) handleSessionTick() (tea.Model, tea.Cmd) {
	m.remaining = m.clock.Remaining()
	if m.gate.Authenticated() {
		m.warnLevel = m.warning.Evaluate(m.remaining)
	} else {
		m.warnLevel = WarnLevelNone
	}
	return m, sessionTickCmd()
}

func (m Model) handleAuthChecked(msg authCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m.toLoginAfterLogout("")
		}
		m.errMsg = remoteMessage(msg.err)
	}

	switch m.gate.Status() {
	case session.StatusAuthenticated:
		m.watcher.Rearm()
		if m.view == ViewLogin || m.view == ViewTwoFactor {
			m.view = ViewDashboard
			m.clock.Touch("login")
			m.clock.MarkLogin()
		}
		if !m.refs.Ready() {
			return m, m.loadRefsCmd()
		}
	case session.StatusAnonymous:
		if m.view != ViewLogin && m.view != ViewTwoFactor {
			return m.toLoginAfterLogout("")
		}
	}
	return m, nil
}

func (m Model) handleAPIError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, api.ErrUnauthorized) {
		return m, m.logoutCmd()
	}
	m.errMsg = remoteMessage(err)
	return m, nil
}

func (m Model) toLoginAfterLogout(info string) (tea.Model, tea.Cmd) {
	m.view = ViewLogin
	m.errMsg = ""
	m.infoMsg = info
	m.warnLevel = WarnLevelNone
	m.login = newLoginState()
	m.login.username.Focus()
	return m, nil
}

// remoteMessage surfaces a server business-rule message verbatim and keeps
// transport noise generic.
func remoteMessage(err error) string {
	if re, ok := api.AsRemote(err); ok {
		return re.Error()
	}
	if errors.Is(err, store.ErrTerminalStatus) {
		return "order is cancelled; no further changes are allowed"
	}
	if errors.Is(err, store.ErrStatusUnchanged) {
		return "status is already set"
	}
	if errors.Is(err, store.ErrPageOutOfRange) {
		return ""
	}
	return "request failed, please retry"
}

// Messages

type sessionTickMsg time.Time

// ForcedLogoutMsg is posted from the expiry watcher when the idle limit is
// reached. The session layer has already cleaned up by the time it arrives.
type ForcedLogoutMsg struct{}

type authCheckedMsg struct{ err error }
type loginMsg struct{ err error }
type verifyMsg struct{ err error }
type refsLoadedMsg struct{ err error }
type searchDebounceMsg struct{ seq int }
type booksRefreshedMsg struct{ err error }
type ordersRefreshedMsg struct{ err error }
type workersRefreshedMsg struct{ err error }
type loggedOutMsg struct{}

type orderDetailMsg struct {
	orderID int
	detail  *api.OrderDetail
	err     error
}

type statusMutatedMsg struct{ err error }
type workerSavedMsg struct{ err error }
type bookSavedMsg struct {
	created bool
	err     error
}

type bookEditLoadedMsg struct {
	book *api.Book
	err  error
}

type authorSavedMsg struct {
	author  *api.Author
	updated bool
	err     error
}

// Commands

func sessionTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return sessionTickMsg(t)
	})
}

func (m Model) checkAuthCmd() tea.Cmd {
	return func() tea.Msg {
		return authCheckedMsg{err: m.gate.CheckStatus(m.ctx)}
	}
}

func (m Model) loadRefsCmd() tea.Cmd {
	return func() tea.Msg {
		return refsLoadedMsg{err: m.refs.Load(m.ctx)}
	}
}

func (m Model) refreshBooksCmd() tea.Cmd {
	return func() tea.Msg {
		return booksRefreshedMsg{err: m.books.Refresh(m.ctx)}
	}
}

func (m Model) refreshOrdersCmd() tea.Cmd {
	return func() tea.Msg {
		return ordersRefreshedMsg{err: m.orders.Refresh(m.ctx)}
	}
}

func (m Model) refreshWorkersCmd() tea.Cmd {
	return func() tea.Msg {
		return workersRefreshedMsg{err: m.workers.Refresh(m.ctx)}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.gate.Logout(m.ctx)
		return loggedOutMsg{}
	}
}

func (m Model) extendSessionCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.gate.CheckStatus(m.ctx)
		if err == nil && m.gate.Authenticated() {
			m.clock.Touch("extend session")
		}
		return authCheckedMsg{err: err}
	}
}

// Run builds the program and blocks until exit. Callers that need the
// program handle before starting (to post watcher events) use NewProgram.
func Run(opts Options) error {
	p := NewProgram(opts)
	_, err := p.Run()
	return err
}

// NewProgram builds the Bubble Tea program without starting it.
func NewProgram(opts Options) *tea.Program {
	return tea.NewProgram(New(opts), tea.WithAltScreen())
}
