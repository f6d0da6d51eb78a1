// Package tui is a terminal form for the repurpose client: email, password
// and text fields, a notification line and a scrollable output region.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Checker-Finance/repurpose-client/internal/repurpose"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AFFF"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).
			Padding(1, 0)
	outputStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666"))
)

type field int

const (
	fieldEmail field = iota
	fieldPassword
	fieldText
	fieldCount
)

var fieldLabels = [fieldCount]string{"Email:", "Password:", "Text:"}

// resultMsg carries what one service call notified and displayed.
type resultMsg struct {
	notices []string
	output  string
	shown   bool
	err     error
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	svc    *repurpose.Service
	inputs [fieldCount]textinput.Model
	focus  field
	output viewport.Model

	notice    string
	noticeErr bool
	busy      bool
	width     int
}

// New creates the form with the email field focused.
func New(ctx context.Context, svc *repurpose.Service) Model {
	var inputs [fieldCount]textinput.Model

	inputs[fieldEmail] = textinput.New()
	inputs[fieldEmail].Placeholder = "you@example.com"
	inputs[fieldEmail].Width = 40

	inputs[fieldPassword] = textinput.New()
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].Width = 40

	inputs[fieldText] = textinput.New()
	inputs[fieldText].Placeholder = "text to repurpose"
	inputs[fieldText].Width = 60

	inputs[fieldEmail].Focus()

	return Model{
		ctx:    ctx,
		svc:    svc,
		inputs: inputs,
		output: viewport.New(80, 12),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.output.Width = max(msg.Width-4, 20)
		m.output.Height = max(msg.Height-18, 5)
		return m, nil

	case resultMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.notice, m.noticeErr = "Error: "+msg.err.Error(), true
		case len(msg.notices) > 0:
			m.notice, m.noticeErr = strings.Join(msg.notices, " | "), false
		}
		if msg.shown {
			m.output.SetContent(msg.output)
			m.output.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case key.Matches(msg, keys.Prev):
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case key.Matches(msg, keys.Login):
			return m.start(m.login())
		case key.Matches(msg, keys.Repurpose):
			return m.start(m.repurpose())
		case key.Matches(msg, keys.Submit):
			if m.focus == fieldText {
				return m.start(m.repurpose())
			}
			return m.start(m.login())
		case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// start marks the form busy and runs cmd, ignoring the request while another
// call is in flight.
func (m Model) start(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.notice, m.noticeErr = "", false
	return m, cmd
}

func (m *Model) setFocus(f field) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = f
	return m.inputs[f].Focus()
}

func (m Model) login() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	email := m.inputs[fieldEmail].Value()
	password := m.inputs[fieldPassword].Value()
	return func() tea.Msg {
		rec := &repurpose.Recorder{}
		_, err := svc.WithUI(rec, rec).Authenticate(ctx, email, password)
		return collect(rec, err)
	}
}

func (m Model) repurpose() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	text := m.inputs[fieldText].Value()
	return func() tea.Msg {
		rec := &repurpose.Recorder{}
		_, err := svc.WithUI(rec, rec).Repurpose(ctx, text)
		return collect(rec, err)
	}
}

func collect(rec *repurpose.Recorder, err error) resultMsg {
	out, shown := rec.Output()
	return resultMsg{notices: rec.Notices(), output: out, shown: shown, err: err}
}

// View renders the form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Repurpose"))
	sb.WriteString("\n")
	for i := range m.inputs {
		sb.WriteString(labelStyle.Render(fieldLabels[i]))
		sb.WriteString("\n")
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n\n")
	}

	switch {
	case m.busy:
		sb.WriteString("Working...")
	case m.noticeErr:
		sb.WriteString(errorStyle.Render(m.notice))
	case m.notice != "":
		sb.WriteString(noticeStyle.Render(m.notice))
	}
	sb.WriteString("\n")

	sb.WriteString(outputStyle.Render(m.output.View()))
	sb.WriteString("\n")
	sb.WriteString(accentStyle.Render("enter") + " submit  " +
		accentStyle.Render("tab") + " next  " +
		accentStyle.Render("ctrl+l") + " login  " +
		accentStyle.Render("ctrl+r") + " repurpose  " +
		accentStyle.Render("esc") + " quit")
	return sb.String()
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, svc *repurpose.Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
