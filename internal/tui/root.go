package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/shortbar/shortbar/internal/session"
	"github.com/shortbar/shortbar/internal/shortcut"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeLogin   ViewMode = iota // Token entry (no credential yet)
	ViewModeStories                 // Story list
)

// tokenSettingsURL is where users create API tokens
const tokenSettingsURL = "https://app.shortcut.com/settings/account/api-tokens"

// Messages
type refreshedMsg struct{}

type tokenResultMsg struct {
	ok bool
}

type tickMsg time.Time

type flashClearMsg struct{}

// Model is the root Bubble Tea model
type Model struct {
	engine       *session.Engine
	refreshEvery time.Duration

	keys KeyMap
	mode ViewMode
	snap session.Snapshot

	tokenInput textinput.Model
	spin       spinner.Model
	connecting bool

	cursor int
	width  int
	height int
	flash  string
	help   bool
}

// NewRootModel creates the root model around a session engine
func NewRootModel(engine *session.Engine, refreshEvery time.Duration) Model {
	input := textinput.New()
	input.Placeholder = "API Token"
	input.EchoMode = textinput.EchoPassword
	input.CharLimit = 128
	input.Width = 48

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(ColorBlue)

	mode := ViewModeLogin
	if engine.Authenticated() {
		mode = ViewModeStories
	} else {
		input.Focus()
	}

	return Model{
		engine:       engine,
		refreshEvery: refreshEvery,
		keys:         DefaultKeyMap(),
		mode:         mode,
		snap:         engine.Snapshot(),
		tokenInput:   input,
		spin:         spin,
	}
}

func (m Model) Init() tea.Cmd {
	if m.mode == ViewModeStories {
		return tea.Batch(m.refreshCmd(), m.tickCmd(), m.spin.Tick)
	}
	return textinput.Blink
}

// refreshCmd runs one refresh cycle off the UI loop. The engine coalesces
// overlapping calls, so firing this while a cycle is in flight is safe.
func (m Model) refreshCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		engine.Refresh(context.Background())
		return refreshedMsg{}
	}
}

func (m Model) saveTokenCmd(secret string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return tokenResultMsg{ok: engine.SaveToken(context.Background(), secret)}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func flashCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return flashClearMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.snap.Loading && !m.connecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		if m.mode == ViewModeStories {
			return m, tea.Batch(m.refreshCmd(), m.spin.Tick, m.tickCmd())
		}
		return m, m.tickCmd()

	case refreshedMsg:
		m.snap = m.engine.Snapshot()
		m.clampCursor()
		return m, nil

	case tokenResultMsg:
		m.connecting = false
		m.snap = m.engine.Snapshot()
		if msg.ok {
			m.mode = ViewModeStories
			m.clampCursor()
			return m, m.tickCmd()
		}
		return m, textinput.Blink

	case flashClearMsg:
		m.flash = ""
		return m, nil

	case tea.KeyMsg:
		if m.mode == ViewModeLogin {
			return m.updateLogin(msg)
		}
		return m.updateStories(msg)
	}

	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		secret := strings.TrimSpace(m.tokenInput.Value())
		if secret == "" || m.connecting {
			return m, nil
		}
		m.connecting = true
		// Clear the token from the input after submitting
		m.tokenInput.SetValue("")
		return m, tea.Batch(m.saveTokenCmd(secret), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.tokenInput, cmd = m.tokenInput.Update(msg)
	return m, cmd
}

func (m Model) updateStories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help = !m.help
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.snap.Stories)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.Home):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, keys.End):
		if n := len(m.snap.Stories); n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)

	case key.Matches(msg, keys.Open):
		if story, ok := m.selectedStory(); ok {
			_ = browser.OpenURL(story.AppURL)
		}
		return m, nil

	case key.Matches(msg, keys.CopyBranch):
		if story, ok := m.selectedStory(); ok {
			if clipboard.WriteAll(branchName(m.snap.MentionName(), story)) == nil {
				m.flash = "Copied branch name"
				return m, flashCmd()
			}
		}
		return m, nil

	case key.Matches(msg, keys.CopyCheckout):
		if story, ok := m.selectedStory(); ok {
			if clipboard.WriteAll(checkoutCommand(m.snap.MentionName(), story)) == nil {
				m.flash = "Copied checkout command"
				return m, flashCmd()
			}
		}
		return m, nil

	case key.Matches(msg, keys.CopyLink):
		if story, ok := m.selectedStory(); ok {
			if clipboard.WriteAll(story.AppURL) == nil {
				m.flash = "Copied story link"
				return m, flashCmd()
			}
		}
		return m, nil

	case key.Matches(msg, keys.Logout):
		m.engine.Logout()
		m.snap = m.engine.Snapshot()
		m.mode = ViewModeLogin
		m.cursor = 0
		m.tokenInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m *Model) clampCursor() {
	if n := len(m.snap.Stories); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m Model) selectedStory() (shortcut.Story, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Stories) {
		return shortcut.Story{}, false
	}
	return m.snap.Stories[m.cursor], true
}

func (m Model) View() string {
	if m.mode == ViewModeLogin {
		return m.loginView()
	}
	return m.storiesView()
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Connect to Shortcut"))
	b.WriteString("\n\n")
	b.WriteString(m.tokenInput.View())
	b.WriteString("\n\n")

	if m.connecting {
		b.WriteString(m.spin.View() + " Validating token...")
		b.WriteString("\n")
	} else if m.snap.Err != "" {
		b.WriteString(ErrorStyle.Render(m.snap.Err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HintStyle.Render("Get a token at " + tokenSettingsURL))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("enter connect · esc quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) storiesView() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.snap.Loading && len(m.snap.Stories) == 0:
		b.WriteString("\n" + m.spin.View() + " Loading stories...\n")
	case m.snap.Err != "":
		b.WriteString("\n" + ErrorStyle.Render(m.snap.Err) + "\n")
		b.WriteString(HintStyle.Render("press r to retry") + "\n")
	case len(m.snap.Stories) == 0:
		b.WriteString("\n" + FlashStyle.Render("✓ No active stories") + "\n")
	default:
		for i, story := range m.snap.Stories {
			b.WriteString(m.renderStory(i, story))
		}
	}

	if m.help {
		b.WriteString("\n" + m.helpView())
	}
	b.WriteString("\n" + m.renderFooter())
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("My Stories")
	if mention := m.snap.MentionName(); mention != "" {
		title += " " + MentionStyle.Render("@"+mention)
	}
	if m.snap.Loading {
		title += "  " + m.spin.View()
	}
	return title
}

func (m Model) renderStory(index int, story shortcut.Story) string {
	var b strings.Builder

	meta := fmt.Sprintf("#%d", story.ID)
	if team, ok := m.snap.TeamFor(story); ok {
		meta += " · " + team.Name
	}
	if wf, ok := m.snap.WorkflowFor(story); ok {
		meta += " · " + wf.Name
	}
	b.WriteString(storyTypeGlyph(story.Type()) + " " + MetaStyle.Render(meta))
	b.WriteString("\n")

	if epic, ok := m.snap.EpicFor(story); ok {
		b.WriteString(EpicStyle.Render(epic.Name))
		b.WriteString("\n")
	}

	line := NameStyle.Render(story.Name)
	if state, ok := m.snap.StateFor(story); ok {
		line = stateBadgeStyle(state.Type).Render("["+state.Name+"]") + " " + line
	}
	if story.Blocked {
		line += " " + BlockedStyle.Render("⛔ blocked")
	}
	b.WriteString(line)

	row := b.String()
	if index == m.cursor {
		return SelectedRowStyle.Render(row) + "\n"
	}
	return RowStyle.Render(row) + "\n"
}

func (m Model) renderFooter() string {
	count := fmt.Sprintf("%d stories", len(m.snap.Stories))
	if m.flash != "" {
		return FooterStyle.Render(count) + "  " + FlashStyle.Render(m.flash)
	}
	return FooterStyle.Render(count + "  ·  r refresh · ? help · q quit")
}

func (m Model) helpView() string {
	bindings := []struct{ keys, desc string }{
		{"↑/k ↓/j", "navigate"},
		{"enter/o", "open in browser"},
		{"b", "copy branch name"},
		{"c", "copy checkout command"},
		{"y", "copy story link"},
		{"r", "refresh"},
		{"L", "logout"},
		{"q", "quit"},
	}
	var b strings.Builder
	for _, bind := range bindings {
		b.WriteString(fmt.Sprintf("%-10s %s\n", bind.keys, bind.desc))
	}
	return HintStyle.Render(b.String())
}
