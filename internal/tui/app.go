// internal/tui/app.go
//
// Terminal front end for a Genesis build. It follows The Elm Architecture
// that bubbletea provides:
//
// 1. Model: the application state
// 2. Update: a function that updates state based on messages
// 3. View: a function that renders state to a string
//
// The orchestrator runs inside this program loop: a recurring tick message
// drives one dispatch cycle at a time, and the prompts the cycle produces
// are appended to the transcript. Human answers entered in the input box go
// back through PushResponse and are drained by the next cycle.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/genesisforge/genesis/internal/orchestrator"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateIdeaEntry appState = iota // Asking for the app idea
	stateBuilding                  // Dispatch cycles running
	stateFinished                  // Terminal project status reached
)

const cycleInterval = 400 * time.Millisecond

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	criticalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	optionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	humanStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("105"))
	finishedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true)
	transcriptSize = 500
)

type cycleTickMsg time.Time

func cycleTick() tea.Cmd {
	return tea.Tick(cycleInterval, func(t time.Time) tea.Msg {
		return cycleTickMsg(t)
	})
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithContext sets the context dispatch cycles run under.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// WithMaxCycles bounds how many dispatch cycles the program will run.
func WithMaxCycles(n int) AppOption {
	return func(a *App) {
		if n > 0 {
			a.maxCycles = n
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL the state.
type App struct {
	state appState
	orch  *orchestrator.Orchestrator
	ctx   context.Context

	input      textinput.Model
	transcript viewport.Model
	lines      []string
	pending    *orchestrator.HumanPrompt

	cycles    int
	maxCycles int
	width     int
	height    int
	ready     bool
}

// NewApp creates the build console around an orchestrator.
func NewApp(orch *orchestrator.Orchestrator, opts ...AppOption) *App {
	input := textinput.New()
	input.Placeholder = "Describe the app you want to build"
	input.CharLimit = 2000
	input.Focus()

	app := &App{
		state:     stateIdeaEntry,
		orch:      orch,
		ctx:       context.Background(),
		input:     input,
		maxCycles: 1000,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.appendLine(infoStyle.Render("Welcome to Genesis. Enter your app idea to begin."))
	return app
}

// Run starts the bubbletea program and blocks until it exits.
func Run(orch *orchestrator.Orchestrator, opts ...AppOption) error {
	program := tea.NewProgram(NewApp(orch, opts...), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			return a.handleSubmit()
		}
		if a.state == stateFinished && msg.String() == "q" {
			return a, tea.Quit
		}

	case cycleTickMsg:
		return a.handleCycle()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return a, nil
	}
	a.input.Reset()
	switch a.state {
	case stateIdeaEntry:
		a.appendLine(humanStyle.Render("you: ") + text)
		a.orch.Start(a.ctx, text)
		a.state = stateBuilding
		a.input.Placeholder = "Waiting for the team..."
		return a, cycleTick()
	case stateBuilding:
		a.appendLine(humanStyle.Render("you: ") + text)
		contextID := ""
		if a.pending != nil {
			contextID = a.pending.ContextID
		}
		a.orch.PushResponse(text, contextID)
		a.pending = nil
		a.input.Placeholder = "Waiting for the team..."
		return a, nil
	default:
		return a, tea.Quit
	}
}

func (a *App) handleCycle() (tea.Model, tea.Cmd) {
	if a.state != stateBuilding {
		return a, nil
	}
	// Nothing can progress while an answer is outstanding; keep ticking
	// without spending a cycle.
	if a.pending != nil {
		return a, cycleTick()
	}
	a.orch.RunCycle(a.ctx)
	a.cycles++
	for _, prompt := range a.orch.TakePrompts() {
		a.appendPrompt(prompt)
	}
	if a.orch.Done() {
		a.state = stateFinished
		a.appendLine(finishedStyle.Render(fmt.Sprintf("Build finished: %s. Press q to exit.", a.orch.State().Status())))
		return a, nil
	}
	if a.cycles >= a.maxCycles {
		a.state = stateFinished
		a.appendLine(criticalStyle.Render("Cycle limit reached. Press q to exit."))
		return a, nil
	}
	return a, cycleTick()
}

// appendPrompt renders one orchestrator prompt into the transcript and, for
// prompt types that expect an answer, arms the input box.
func (a *App) appendPrompt(prompt orchestrator.HumanPrompt) {
	style := infoStyle
	switch prompt.Type {
	case "QUESTION", "INSTRUCTION":
		style = questionStyle
	case "CRITICAL_ISSUE", "ERROR":
		style = criticalStyle
	}
	a.appendLine(style.Render(prompt.Type+": ") + prompt.Content)
	if len(prompt.Options) > 0 {
		a.appendLine(optionStyle.Render("options: " + strings.Join(prompt.Options, " / ")))
	}
	if expectsAnswer(prompt.Type) {
		copied := prompt
		a.pending = &copied
		a.input.Placeholder = answerPlaceholder(prompt)
	}
}

func expectsAnswer(promptType string) bool {
	switch promptType {
	case "QUESTION", "CRITICAL_ISSUE", "INSTRUCTION":
		return true
	}
	return false
}

func answerPlaceholder(prompt orchestrator.HumanPrompt) string {
	if len(prompt.Options) > 0 {
		return "Answer (" + strings.Join(prompt.Options, "/") + ")"
	}
	return "Type your answer"
}

func (a *App) appendLine(line string) {
	a.lines = append(a.lines, line)
	if len(a.lines) > transcriptSize {
		a.lines = a.lines[len(a.lines)-transcriptSize:]
	}
	if a.ready {
		a.transcript.SetContent(strings.Join(a.lines, "\n"))
		a.transcript.GotoBottom()
	}
}

func (a *App) resize() {
	headerHeight := 2
	footerHeight := 3
	vpHeight := a.height - headerHeight - footerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !a.ready {
		a.transcript = viewport.New(a.width, vpHeight)
		a.ready = true
	} else {
		a.transcript.Width = a.width
		a.transcript.Height = vpHeight
	}
	a.input.Width = a.width - 4
	a.transcript.SetContent(strings.Join(a.lines, "\n"))
	a.transcript.GotoBottom()
}

func (a *App) View() string {
	if !a.ready {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ GENESIS BUILD CONSOLE"))
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	b.WriteString("\n")
	b.WriteString(a.transcript.View())
	b.WriteString("\n")
	b.WriteString(a.input.View())
	return b.String()
}

func (a *App) statusLine() string {
	st := a.orch.State()
	return statusStyle.Render(fmt.Sprintf("status: %s · phase: %s · cycle %d", st.Status(), st.Phase(), a.cycles))
}
