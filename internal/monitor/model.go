package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// entryKind classifies a scrollback line
type entryKind int

const (
	entryFrame entryKind = iota
	entryNotice
	entrySent
	entryError
)

// entry is one line of the monitor scrollback
type entry struct {
	kind     entryKind
	sequence uint64
	text     string
	at       time.Time
	gap      bool
}

// Messages for async operations
type envelopeMsg struct {
	sequence uint64
	data     string
	notice   string
}

type streamClosedMsg struct {
	err error
}

// monitorKeyMap defines key bindings for the monitor screen
type monitorKeyMap struct {
	Send   key.Binding
	Clear  key.Binding
	Pause  key.Binding
	Quit   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k monitorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Clear, k.Pause, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k monitorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Clear, k.Pause, k.Quit},
		{k.Submit, k.Cancel},
	}
}

func newMonitorKeyMap() monitorKeyMap {
	return monitorKeyMap{
		Send: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "send frame"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model is the bubbletea model for the live bridge monitor
type Model struct {
	client *Client

	entries    []entry
	lastSeq    uint64
	gaps       int
	frameCount int
	paused     bool
	connected  bool
	streamErr  error

	inputActive bool
	input       textinput.Model
	inputErr    error

	spinner spinner.Model
	help    help.Model
	keys    monitorKeyMap

	width  int
	height int
}

// NewModel creates a monitor model for an established client connection
func NewModel(client *Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	ti := textinput.New()
	ti.Placeholder = "1a3#deadbeef"
	ti.Prompt = InputPromptStyle.Render("send> ")
	ti.CharLimit = 32

	return Model{
		client:    client,
		connected: true,
		spinner:   sp,
		input:     ti,
		help:      help.New(),
		keys:      newMonitorKeyMap(),
		width:     MinTerminalWidth,
	}
}

// Init starts the spinner and the envelope reader
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEnvelope(m.client))
}

// waitForEnvelope reads the next envelope off the websocket as a tea.Cmd
func waitForEnvelope(client *Client) tea.Cmd {
	return func() tea.Msg {
		env, err := client.ReadEnvelope()
		if err != nil {
			return streamClosedMsg{err: err}
		}
		return envelopeMsg{
			sequence: env.Sequence,
			data:     env.Data,
			notice:   env.Notice,
		}
	}
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.inputActive {
			return m.updateInput(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.entries = nil
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		case key.Matches(msg, m.keys.Send):
			if m.connected {
				m.inputActive = true
				m.inputErr = nil
				m.input.SetValue("")
				return m, m.input.Focus()
			}
		}
		return m, nil

	case envelopeMsg:
		m = m.recordEnvelope(msg)
		return m, waitForEnvelope(m.client)

	case streamClosedMsg:
		m.connected = false
		m.streamErr = msg.err
		m.appendEntry(entry{
			kind: entryError,
			text: fmt.Sprintf("stream closed: %v", msg.err),
			at:   time.Now(),
		})
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateInput handles key presses while the send input is focused
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.inputActive = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.inputActive = false
			m.input.Blur()
			return m, nil
		}
		if err := m.client.SendFrame(text); err != nil {
			m.inputErr = err
			return m, nil
		}
		m.appendEntry(entry{kind: entrySent, text: text, at: time.Now()})
		m.inputActive = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// recordEnvelope folds an incoming envelope into the model state
func (m Model) recordEnvelope(msg envelopeMsg) Model {
	gap := m.lastSeq != 0 && msg.sequence != m.lastSeq+1
	if gap {
		m.gaps++
	}
	m.lastSeq = msg.sequence

	if m.paused {
		return m
	}

	switch {
	case msg.data != "":
		m.frameCount++
		m.appendEntry(entry{
			kind:     entryFrame,
			sequence: msg.sequence,
			text:     msg.data,
			at:       time.Now(),
			gap:      gap,
		})
	case msg.notice != "" && msg.notice != "heartbeat":
		m.appendEntry(entry{
			kind:     entryNotice,
			sequence: msg.sequence,
			text:     msg.notice,
			at:       time.Now(),
			gap:      gap,
		})
	}
	return m
}

func (m *Model) appendEntry(e entry) {
	m.entries = append(m.entries, e)
	if len(m.entries) > MaxLogEntries {
		m.entries = m.entries[len(m.entries)-MaxLogEntries:]
	}
}

// View renders the monitor screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderLog())
	b.WriteString("\n")

	if m.inputActive {
		b.WriteString(m.input.View())
		if m.inputErr != nil {
			b.WriteString("  ")
			b.WriteString(GapStyle.Render(m.inputErr.Error()))
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderHeader() string {
	status := StatusConnectedStyle.Render("● connected")
	if !m.connected {
		status = StatusErrorStyle.Render("✗ disconnected")
	} else if m.paused {
		status = NoticeStyle.Render("● paused")
	}

	title := TitleStyle.Render("CAN BRIDGE MONITOR")
	stats := HelpStyle.Render(fmt.Sprintf("%s  frames: %d  gaps: %d", m.client.URL(), m.frameCount, m.gaps))
	line := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", status, "  ", stats)

	width := m.width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	return HeaderBorderStyle(width).Render(line)
}

func (m Model) renderLog() string {
	visible := m.visibleLines()
	start := 0
	if len(m.entries) > visible {
		start = len(m.entries) - visible
	}

	var b strings.Builder
	for _, e := range m.entries[start:] {
		b.WriteString(renderEntry(e))
		b.WriteString("\n")
	}
	if len(m.entries) == 0 {
		b.WriteString(HelpStyle.Render("  waiting for traffic "))
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
	}
	return b.String()
}

// visibleLines returns how many scrollback lines fit between header and footer
func (m Model) visibleLines() int {
	reserved := 6
	if m.inputActive {
		reserved++
	}
	if m.height <= reserved {
		return 10
	}
	return m.height - reserved
}

func renderEntry(e entry) string {
	ts := TimeStyle.Render(e.at.Format("15:04:05.000"))

	seq := ""
	if e.sequence > 0 {
		seq = fmt.Sprintf("#%d", e.sequence)
	}
	seqCol := SeqStyle.Render(seq)
	if e.gap {
		seqCol = GapStyle.Render(fmt.Sprintf("%8s", seq+"!"))
	}

	var text string
	switch e.kind {
	case entryFrame:
		text = FrameStyle.Render(e.text)
	case entryNotice:
		text = NoticeStyle.Render(e.text)
	case entrySent:
		text = SentStyle.Render("→ " + e.text)
	case entryError:
		text = GapStyle.Render(e.text)
	}

	return fmt.Sprintf("%s %s  %s", ts, seqCol, text)
}

// Run connects to the bridge at serviceURL and drives the monitor TUI until
// the user quits.
func Run(serviceURL string) error {
	client, err := Dial(serviceURL)
	if err != nil {
		return err
	}
	defer client.Close()

	program := tea.NewProgram(NewModel(client), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
