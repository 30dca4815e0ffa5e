// internal/tui/tui.go
// Package tui provides the interactive chat interface for valet.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmcfarlane/valet/internal/agent"
	"github.com/tmcfarlane/valet/internal/appconfig"
	"github.com/tmcfarlane/valet/internal/logging"
)

var (
	headerStyle    = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
)

// answerMsg carries the agent's reply for one user turn.
type answerMsg string

// answerErr is sent when the agent could not produce a reply.
type answerErr struct{ error }

// tickMsg drives the elapsed-time readout while a request is in flight.
type tickMsg time.Time

// chatModel is the Bubble Tea model for the chat session.
type chatModel struct {
	ctx              context.Context
	config           *appconfig.Config
	agent            *agent.Agent
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	transcript       []string
	isLoading        bool
	err              error
	width, height    int
	requestStartTime time.Time
}

func initialModel(ctx context.Context, cfg *appconfig.Config, a *agent.Agent) *chatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Send a message..."
	ta.Focus()
	ta.Prompt = "Ask Anything: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(100, 5)

	return &chatModel{
		ctx:      ctx,
		config:   cfg,
		agent:    a,
		spinner:  s,
		textArea: ta,
		viewport: vp,
	}
}

// askCmd creates a Bubble Tea command that sends one user turn to the agent.
func askCmd(ctx context.Context, a *agent.Agent, input string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.Chat(ctx, input)
		if err != nil {
			return answerErr{error: err}
		}
		return answerMsg(answer)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner animation.
func (m *chatModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the chat model.
func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.isLoading {
				return m, nil
			}
			input := strings.TrimSpace(m.textArea.Value())
			if input == "" {
				return m, nil
			}
			if lowered := strings.ToLower(input); lowered == "exit" || lowered == "quit" {
				return m, tea.Quit
			}

			m.transcript = append(m.transcript, userStyle.Render("You: ")+input)
			m.textArea.Reset()
			m.isLoading = true
			m.err = nil
			m.requestStartTime = time.Now()
			m.refreshViewport()
			logging.LogEvent("chat turn submitted (%d chars)", len(input))

			return m, tea.Batch(m.spinner.Tick, askCmd(m.ctx, m.agent, input), tickCmd())
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 2
		footerHeight := 4
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.refreshViewport()

	case answerMsg:
		m.isLoading = false
		m.transcript = append(m.transcript, assistantStyle.Render("Valet: ")+string(msg))
		m.textArea.Focus()
		m.refreshViewport()
		return m, nil

	case answerErr:
		m.isLoading = false
		m.err = msg.error
		m.textArea.Focus()
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.textArea, cmd = m.textArea.Update(msg)
	cmds = append(cmds, cmd)

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *chatModel) refreshViewport() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}

// View renders the chat interface.
func (m *chatModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := headerStyle.Render(fmt.Sprintf("valet | Model: %s", m.config.Model))

	var footer string
	switch {
	case m.err != nil:
		footer = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.isLoading:
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		footer = fmt.Sprintf("  %s Thinking... %ss", m.spinner.View(), timer)
	default:
		footer = m.textArea.View()
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n  (enter to send, \"exit\" or esc to leave)", header, m.viewport.View(), footer)
}

// Run starts the interactive chat session and blocks until the user exits.
func Run(ctx context.Context, cfg *appconfig.Config, a *agent.Agent) error {
	p := tea.NewProgram(initialModel(ctx, cfg, a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface: %w", err)
	}
	return nil
}
