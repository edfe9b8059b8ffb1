package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginState struct {
	username textinput.Model
	password textinput.Model
	code     textinput.Model
	focus    int
}

func newLoginState() loginState {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.CharLimit = 6

	return loginState{
		username: username,
		password: password,
		code:     code,
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.login.focus = 1 - m.login.focus
		if m.login.focus == 0 {
			m.login.username.Focus()
			m.login.password.Blur()
		} else {
			m.login.username.Blur()
			m.login.password.Focus()
		}
		return m, nil

	case "enter":
		username := strings.TrimSpace(m.login.username.Value())
		password := m.login.password.Value()
		if username == "" || password == "" {
			m.errMsg = "username and password are required"
			return m, nil
		}
		m.busy = true
		m.errMsg = ""
		return m, m.loginCmd(username, password)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.username, cmd = m.login.username.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (m Model) handleTwoFactorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.toLoginAfterLogout("")

	case "enter":
		code := strings.TrimSpace(m.login.code.Value())
		if code == "" {
			m.errMsg = "enter the verification code"
			return m, nil
		}
		m.busy = true
		m.errMsg = ""
		return m, m.verifyCmd(code)
	}

	var cmd tea.Cmd
	m.login.code, cmd = m.login.code.Update(msg)
	return m, cmd
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.login.username.View())
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	if m.busy {
		b.WriteString("\n\n")
		b.WriteString(m.styles.MutedText.Render("signing in..."))
	}
	return m.styles.Box.Render(b.String())
}

func (m Model) renderTwoFactor() string {
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Two-factor verification"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Text.Render("A code was sent to your email."))
	b.WriteString("\n\n")
	b.WriteString(m.login.code.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.MutedText.Render("esc back to sign-in"))
	return m.styles.Box.Render(b.String())
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginMsg{err: m.gate.BeginLogin(m.ctx, username, password)}
	}
}

func (m Model) verifyCmd(code string) tea.Cmd {
	return func() tea.Msg {
		return verifyMsg{err: m.gate.VerifyCode(m.ctx, code)}
	}
}
