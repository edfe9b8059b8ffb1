package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matonneli/bookstore-admin/internal/api"
)

const (
	workerFieldUsername = iota
	workerFieldPassword
	workerFieldFullName
	workerFieldEmail
	workerFieldPickupPoint
	workerFieldCount
)

type workersState struct {
	selected int

	formOpen bool
	editID   int // 0 means create
	inputs   [workerFieldCount]textinput.Model
	focus    int

	confirmDelete bool
}

func newWorkersState() workersState {
	var inputs [workerFieldCount]textinput.Model
	labels := [workerFieldCount]string{"username", "password", "full name", "email", "pickup point id"}
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 128
		inputs[i] = in
	}
	inputs[workerFieldPassword].EchoMode = textinput.EchoPassword
	inputs[workerFieldPassword].EchoCharacter = '*'
	return workersState{inputs: inputs}
}

func (m Model) handleWorkersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.staff.formOpen {
		return m.handleWorkerFormKey(msg)
	}

	list := m.workers.List()

	if m.staff.confirmDelete {
		switch msg.String() {
		case "y":
			m.staff.confirmDelete = false
			if m.staff.selected < len(list) {
				m.busy = true
				m.clock.Touch("delete staff account")
				return m, m.deleteWorkerCmd(list[m.staff.selected].AdminID)
			}
			return m, nil
		default:
			m.staff.confirmDelete = false
			return m, nil
		}
	}

	if next, cmd, handled := m.handleGlobalKey(msg); handled {
		return next, cmd
	}

	switch msg.String() {
	case "j", "down":
		if m.staff.selected < len(list)-1 {
			m.staff.selected++
		}
		return m, nil

	case "k", "up":
		if m.staff.selected > 0 {
			m.staff.selected--
		}
		return m, nil

	case "r":
		m.clock.Touch("refresh staff")
		m.busy = true
		return m, m.refreshWorkersCmd()

	case "n":
		m.clock.Touch("open staff form")
		return m.openWorkerForm(nil), nil

	case "e", "enter":
		if m.staff.selected >= len(list) {
			return m, nil
		}
		m.clock.Touch("open staff form")
		worker := list[m.staff.selected]
		return m.openWorkerForm(&worker), nil

	case "D":
		if m.staff.selected < len(list) {
			m.staff.confirmDelete = true
		}
		return m, nil
	}
	return m, nil
}

func (m Model) openWorkerForm(worker *api.Worker) Model {
	m.staff.formOpen = true
	m.errMsg = ""
	for i := range m.staff.inputs {
		m.staff.inputs[i].SetValue("")
	}
	if worker == nil {
		m.staff.editID = 0
	} else {
		m.staff.editID = worker.AdminID
		m.staff.inputs[workerFieldUsername].SetValue(worker.Username)
		m.staff.inputs[workerFieldFullName].SetValue(worker.FullName)
		m.staff.inputs[workerFieldEmail].SetValue(worker.Email)
		m.staff.inputs[workerFieldPickupPoint].SetValue(strconv.Itoa(worker.PickupPointID))
	}
	return m.focusWorkerField(workerFieldUsername)
}

func (m Model) handleWorkerFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.staff.formOpen = false
		return m, nil

	case "tab", "down":
		return m.focusWorkerField(m.staff.focus + 1), nil

	case "shift+tab", "up":
		return m.focusWorkerField(m.staff.focus - 1), nil

	case "enter":
		return m.submitWorkerForm()
	}

	var cmd tea.Cmd
	m.staff.inputs[m.staff.focus], cmd = m.staff.inputs[m.staff.focus].Update(msg)
	return m, cmd
}

func (m Model) focusWorkerField(idx int) Model {
	if idx < 0 {
		idx = workerFieldCount - 1
	}
	idx %= workerFieldCount
	for i := range m.staff.inputs {
		if i == idx {
			m.staff.inputs[i].Focus()
		} else {
			m.staff.inputs[i].Blur()
		}
	}
	m.staff.focus = idx
	return m
}

func (m Model) submitWorkerForm() (tea.Model, tea.Cmd) {
	pickupID, err := strconv.Atoi(strings.TrimSpace(m.staff.inputs[workerFieldPickupPoint].Value()))
	if err != nil {
		m.errMsg = "pickup point id must be a number"
		return m, nil
	}

	username := strings.TrimSpace(m.staff.inputs[workerFieldUsername].Value())
	password := m.staff.inputs[workerFieldPassword].Value()
	fullName := strings.TrimSpace(m.staff.inputs[workerFieldFullName].Value())
	email := strings.TrimSpace(m.staff.inputs[workerFieldEmail].Value())

	if m.staff.editID == 0 {
		payload := api.WorkerCreate{
			Username:      username,
			Password:      password,
			FullName:      fullName,
			Email:         email,
			PickupPointID: pickupID,
		}
		if err := validateForm(payload); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.busy = true
		m.errMsg = ""
		m.clock.Touch("create staff account")
		return m, m.createWorkerCmd(payload)
	}

	payload := api.WorkerUpdate{
		Username:      username,
		FullName:      fullName,
		Email:         email,
		PickupPointID: pickupID,
		Password:      password,
	}
	if err := validateForm(payload); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.busy = true
	m.errMsg = ""
	m.clock.Touch("update staff account")
	return m, m.updateWorkerCmd(m.staff.editID, payload)
}

func (m Model) handleWorkerSaved(msg workerSavedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		return m.handleAPIError(msg.err)
	}
	m.staff.formOpen = false
	m.infoMsg = "staff account saved"
	return m, nil
}

// Rendering

func (m Model) renderWorkers() string {
	if m.staff.formOpen {
		return m.renderWorkerForm()
	}

	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Staff"))
	b.WriteString("\n\n")

	list := m.workers.List()
	if len(list) == 0 {
		b.WriteString(m.styles.MutedText.Render("no staff accounts"))
	}
	for i, w := range list {
		line := fmt.Sprintf("%-20s  %-28s  %-28s  %s",
			truncate(w.Username, 20),
			truncate(w.FullName, 28),
			truncate(w.Email, 28),
			truncate(m.refs.PickupAddress(w.PickupPointID), 32))
		if i == m.staff.selected {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.staff.confirmDelete && m.staff.selected < len(list) {
		b.WriteString("\n")
		b.WriteString(m.styles.Banner.Render(
			"delete " + list[m.staff.selected].Username + "? press y to confirm"))
	}
	if m.busy {
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render("loading..."))
	}
	return b.String()
}

func (m Model) renderWorkerForm() string {
	var b strings.Builder
	title := "New staff account"
	if m.staff.editID != 0 {
		title = "Edit staff account #" + strconv.Itoa(m.staff.editID)
	}
	b.WriteString(m.styles.AccentText.Render(title))
	b.WriteString("\n\n")
	for i := range m.staff.inputs {
		b.WriteString(m.staff.inputs[i].View())
		b.WriteString("\n")
	}
	if m.staff.editID != 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render("leave password empty to keep the current one"))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render("enter save · esc cancel · tab next field"))
	return m.styles.Box.Render(b.String())
}

// Commands

func (m Model) createWorkerCmd(payload api.WorkerCreate) tea.Cmd {
	return func() tea.Msg {
		_, err := m.workers.Create(m.ctx, payload)
		return workerSavedMsg{err: err}
	}
}

func (m Model) updateWorkerCmd(adminID int, payload api.WorkerUpdate) tea.Cmd {
	return func() tea.Msg {
		_, err := m.workers.Update(m.ctx, adminID, payload)
		return workerSavedMsg{err: err}
	}
}

func (m Model) deleteWorkerCmd(adminID int) tea.Cmd {
	return func() tea.Msg {
		return workerSavedMsg{err: m.workers.Delete(m.ctx, adminID)}
	}
}
