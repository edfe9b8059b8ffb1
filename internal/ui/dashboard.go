package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matonneli/bookstore-admin/internal/api"
)

type authorFormState struct {
	open  bool
	id    textinput.Model
	name  textinput.Model
	focus int
}

func newAuthorFormState() authorFormState {
	id := textinput.New()
	id.Placeholder = "author id (empty to create)"
	id.CharLimit = 16

	name := textinput.New()
	name.Placeholder = "full name"
	name.CharLimit = 128

	return authorFormState{id: id, name: name}
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authorForm.open {
		return m.handleAuthorFormKey(msg)
	}

	if next, cmd, handled := m.handleGlobalKey(msg); handled {
		return next, cmd
	}

	switch msg.String() {
	case "a":
		m.clock.Touch("open author form")
		m.authorForm.open = true
		m.authorForm.id.SetValue("")
		m.authorForm.name.SetValue("")
		m.authorForm.focus = 0
		m.authorForm.id.Focus()
		m.authorForm.name.Blur()
		return m, nil

	case "R":
		m.clock.Touch("reload references")
		return m, m.loadRefsCmd()
	}
	return m, nil
}

func (m Model) handleAuthorFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.authorForm.open = false
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.authorForm.focus = 1 - m.authorForm.focus
		if m.authorForm.focus == 0 {
			m.authorForm.id.Focus()
			m.authorForm.name.Blur()
		} else {
			m.authorForm.id.Blur()
			m.authorForm.name.Focus()
		}
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.authorForm.name.Value())
		if name == "" {
			m.errMsg = "author name is required"
			return m, nil
		}
		rawID := strings.TrimSpace(m.authorForm.id.Value())
		var id int
		if rawID != "" {
			var err error
			id, err = strconv.Atoi(rawID)
			if err != nil || id <= 0 {
				m.errMsg = "author id must be a positive number"
				return m, nil
			}
		}
		m.busy = true
		m.errMsg = ""
		m.clock.Touch("save author")
		return m, m.saveAuthorCmd(id, name)
	}

	var cmd tea.Cmd
	if m.authorForm.focus == 0 {
		m.authorForm.id, cmd = m.authorForm.id.Update(msg)
	} else {
		m.authorForm.name, cmd = m.authorForm.name.Update(msg)
	}
	return m, cmd
}

func (m Model) handleAuthorSaved(msg authorSavedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		return m.handleAPIError(msg.err)
	}
	if msg.author != nil {
		if msg.updated {
			m.refs.UpdateAuthor(*msg.author)
		} else {
			m.refs.AddAuthor(*msg.author)
		}
	}
	m.authorForm.open = false
	m.infoMsg = "author saved"
	return m, nil
}

func (m Model) renderDashboard() string {
	if m.authorForm.open {
		return m.renderAuthorForm()
	}

	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Dashboard"))
	b.WriteString("\n\n")

	if profile := m.gate.Profile(); profile != nil {
		b.WriteString(m.styles.Text.Render("Signed in as " + profile.FullName))
		b.WriteString(m.styles.MutedText.Render("  (" + string(profile.Role) + ")"))
		b.WriteString("\n")
		if pp := profile.PickUpPoint; pp != nil {
			b.WriteString(m.styles.MutedText.Render("Pickup point: " + pp.Name + ", " + pp.Address))
			b.WriteString("\n")
		}
	}

	if !m.clock.LoginTime().IsZero() {
		b.WriteString(m.styles.MutedText.Render(
			"Session started " + m.clock.LoginTime().Format("15:04:05")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.refs.Ready() {
		refs := m.refs.Snapshot()
		b.WriteString(m.styles.Text.Render(fmt.Sprintf(
			"%d authors · %d categories · %d genres · %d pickup points",
			len(refs.Authors), len(refs.AllCategories), len(refs.AllGenres), len(refs.PickUpPoints))))
	} else {
		b.WriteString(m.styles.Warning.Render("reference data unavailable — press R to retry"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.MutedText.Render("a manage authors · R reload references"))
	return b.String()
}

func (m Model) renderAuthorForm() string {
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Author"))
	b.WriteString("\n\n")
	b.WriteString(m.authorForm.id.View())
	b.WriteString("\n")
	b.WriteString(m.authorForm.name.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.MutedText.Render("enter save · esc cancel"))
	return m.styles.Box.Render(b.String())
}

func (m Model) saveAuthorCmd(id int, fullName string) tea.Cmd {
	return func() tea.Msg {
		var (
			author *api.Author
			err    error
		)
		if id == 0 {
			author, err = m.backend.CreateAuthor(m.ctx, fullName)
			return authorSavedMsg{author: author, err: err}
		}
		author, err = m.backend.UpdateAuthor(m.ctx, id, fullName)
		return authorSavedMsg{author: author, updated: true, err: err}
	}
}
