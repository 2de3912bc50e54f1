package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dicelab/cli"
	"github.com/nathoo/dicelab/engine"
	"github.com/nathoo/dicelab/engine/parser"
	"github.com/nathoo/dicelab/engine/state"
)

// historyLimit is how many commands Up/Down can recall.
const historyLimit = 100

// line is one unstyled transcript line. Styling and wrapping happen at
// render time so a resize can redo them.
type line struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for a dicelab session.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs

	viewport viewport.Model
	input    textinput.Model
	history  *History

	transcript []line

	width, height int
	ready         bool
	trace         bool
	quitting      bool
	lastCmd       string
	saveDir       string
}

// transcriptMsg delivers lines produced outside of a key press.
type transcriptMsg struct {
	lines []line
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.CharLimit = 256
	ti.ShowSuggestions = true
	ti.SetSuggestions(suggestions(defs))
	ti.Focus()

	home, _ := os.UserHomeDir()
	return Model{
		engine:  eng,
		defs:    defs,
		input:   ti,
		history: NewHistory(historyLimit),
		saveDir: filepath.Join(home, ".dicelab", "saves"),
	}
}

// Run starts the Bubble Tea program. An empty saveDir keeps the default.
func Run(eng *engine.Engine, defs *state.Defs, saveDir string) error {
	m := New(eng, defs)
	if saveDir != "" {
		m.saveDir = saveDir
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// suggestions lists completions for the input line: every verb, verbs
// followed by each die ID where they take a die, and the meta-commands.
func suggestions(defs *state.Defs) []string {
	out := append([]string(nil), parser.Verbs...)
	seen := map[string]bool{}
	for _, id := range defs.Game.Dice {
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, verb := range []string{"weights", "weigh", "roll"} {
			out = append(out, verb+" "+id)
		}
	}
	out = append(out, "results narrow", "/save", "/load", "/help", "/state", "/trace", "/quit")
	return out
}

// Init shows the banner and the dice list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.banner())
}

func (m Model) banner() tea.Cmd {
	return func() tea.Msg {
		g := m.defs.Game
		lines := []line{
			{text: fmt.Sprintf("%s v%s by %s", g.Title, g.Version, g.Author), kind: kindHeading},
			{},
		}
		if g.Intro != "" {
			lines = append(lines, line{text: g.Intro}, line{})
		}
		lines = append(lines, classified(m.engine.Step("dice").Output)...)
		lines = append(lines, line{
			text: fmt.Sprintf("Seed %d. Tab completes commands, /help lists them.", m.engine.State.Seed),
			kind: kindMeta,
		})
		return transcriptMsg{lines: lines}
	}
}

// Update handles key presses, resizes, and transcript messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case transcriptMsg:
		m.write(msg.lines...)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+l":
			m.transcript = nil
			m.refreshViewport()
			return m, nil
		case "enter":
			return m.submit()
		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.recall(prev)
			}
			return m, nil
		case "down":
			next, _ := m.history.Next()
			m.recall(next)
			return m, nil
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-2, 1) // status bar and input line

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.refreshViewport()
}

func (m *Model) recall(cmd string) {
	m.input.SetValue(cmd)
	m.input.CursorEnd()
}

// submit runs the input line: a repeat request, a meta-command, or a
// session command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}
	m.history.Push(input)
	m.history.ResetCursor()

	if isRepeat(input) {
		if m.lastCmd == "" {
			m.write(line{text: "> " + input, kind: kindInput}, line{text: "Nothing to repeat.", kind: kindMeta}, line{})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	echo := line{text: "> " + input, kind: kindInput}

	if strings.HasPrefix(input, "/") {
		out, quit := m.handleMeta(input)
		m.write(echo)
		for _, text := range out {
			m.write(line{text: text, kind: kindMeta})
		}
		m.write(line{})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.engine.Step(input)
	out := result.Output
	if m.trace {
		out = append(out, cli.TraceLines(result)...)
	}
	m.write(echo)
	m.write(classified(out)...)
	m.write(line{})
	return m, nil
}

func classified(texts []string) []line {
	lines := make([]line, len(texts))
	for i, t := range texts {
		lines[i] = line{text: t, kind: classifyLine(t)}
	}
	return lines
}

// write appends to the transcript and scrolls to the bottom.
func (m *Model) write(lines ...line) {
	m.transcript = append(m.transcript, lines...)
	m.refreshViewport()
}

// refreshViewport styles every transcript line at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)

	rendered := make([]string, len(m.transcript))
	for i, l := range m.transcript {
		switch {
		case l.text == "":
		case l.kind == kindTable:
			// Tables keep their column alignment; the viewport clips them.
			rendered[i] = l.text
		default:
			rendered[i] = renderLine(wordWrap(l.text, width), l.kind)
		}
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap breaks text at spaces so no line is wider than width cells.
// A single word wider than width is left whole.
func wordWrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}

	var b strings.Builder
	used := 0
	for i, word := range strings.Fields(text) {
		w := lipgloss.Width(word)
		switch {
		case i == 0:
		case used+1+w > width:
			b.WriteByte('\n')
			used = 0
		default:
			b.WriteByte(' ')
			used++
		}
		b.WriteString(word)
		used += w
	}
	return b.String()
}

// View stacks the transcript, the status bar, and the input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.renderStatusBar(), m.input.View())
}

// handleMeta runs a "/" command and returns its output and whether to quit.
func (m *Model) handleMeta(input string) ([]string, bool) {
	fields := strings.Fields(input)
	var arg string
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		msg, err := cli.SaveSession(m.engine, m.defs, m.saveDir, arg)
		if err != nil {
			return []string{fmt.Sprintf("Save failed: %v", err)}, false
		}
		return []string{msg}, false
	case "/load":
		msg, err := cli.LoadSession(m.engine, m.defs, m.saveDir, arg)
		if err != nil {
			return []string{fmt.Sprintf("Load failed: %v", err)}, false
		}
		// Recall follows the restored session, not the one it replaced.
		m.history.Replace(m.engine.State.CommandLog)
		m.lastCmd = ""
		return []string{msg}, false
	case "/help":
		return append(cli.HelpLines(), "",
			"Keys: Tab completes, Up/Down recall commands, PgUp/PgDn scroll, Ctrl+L clears"), false
	case "/state":
		return cli.StateLines(m.engine.State), false
	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", fields[0])}, false
	}
}

// viewportKeyMap scrolls by page only; Up/Down belong to history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
