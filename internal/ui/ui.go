package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haylium/moodlist/internal/models"
	"github.com/haylium/moodlist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PromptView ViewState = iota
	GeneratingView
	CurateView
	ConfirmView
	CreatingView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.Engine
	width        int
	height       int
	promptInput  textinput.Model
	generation   *models.Generation
	curateIndex  int
	decisions    []bool
	acceptedList list.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.CreateResult
	err          error
	help         help.Model
	keys         keyMap
}

// songItem wraps a candidate song to implement [list.Item].
type songItem struct {
	song string
}

var _ list.Item = songItem{}

func (i songItem) FilterValue() string { return i.song }
func (i songItem) Title() string       { return i.song }
func (i songItem) Description() string { return "" }

type generationCompleteMsg struct {
	gen *models.Generation
	err error
}

type progressUpdateMsg tasks.ProgressUpdate

type createCompleteMsg struct {
	result *tasks.CreateResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Engine) *Model {
	input := textinput.New()
	input.Placeholder = "rainy sunday morning with coffee"
	input.CharLimit = 280
	input.Width = 60
	input.Focus()

	return &Model{
		ctx:         ctx,
		view:        PromptView,
		engine:      engine,
		promptInput: input,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init starts the prompt input cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The accepted list only exists once curation finished.
		if m.view == ConfirmView {
			m.acceptedList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PromptView:
			return m.handlePromptKeys(msg)
		case CurateView:
			return m.handleCurateKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		default:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}
		return m, nil

	case generationCompleteMsg:
		if m.progressChan != nil {
			m.progressChan = nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.generation = msg.gen
		m.curateIndex = 0
		m.decisions = make([]bool, 0, len(msg.gen.Candidates))
		m.view = CurateView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case createCompleteMsg:
		m.progressChan = nil
		if msg.err != nil && (msg.result == nil || msg.result.Playlist == nil) {
			// Nothing was created; reopen the confirm view with the
			// accepted songs intact so the user can retry or rework
			// the selection.
			m.err = msg.err
			m.result = nil
			m.view = ConfirmView
			return m, nil
		}
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	if m.view == PromptView {
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		return m, cmd
	}

	if m.view == ConfirmView {
		var cmd tea.Cmd
		m.acceptedList, cmd = m.acceptedList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PromptView:
		return m.renderPrompt()
	case GeneratingView:
		return m.renderGenerating()
	case CurateView:
		return m.renderCurate()
	case ConfirmView:
		return m.renderConfirm()
	case CreatingView:
		return m.renderCreating()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.promptInput.Value() == "" {
			return m, nil
		}
		m.view = GeneratingView
		return m, m.startGeneration()
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m *Model) handleCurateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "y":
		return m.decide(true)
	case "n":
		return m.decide(false)
	case "u":
		if len(m.decisions) > 0 {
			m.decisions = m.decisions[:len(m.decisions)-1]
			m.curateIndex--
		}
		return m, nil
	case "esc":
		m.view = PromptView
		m.generation = nil
		m.decisions = nil
		m.curateIndex = 0
		return m, nil
	}
	return m, nil
}

func (m *Model) decide(accept bool) (tea.Model, tea.Cmd) {
	m.decisions = append(m.decisions, accept)
	m.curateIndex++

	if m.curateIndex < len(m.generation.Candidates) {
		return m, nil
	}

	items := make([]list.Item, 0, len(m.decisions))
	for i, song := range m.generation.Candidates {
		if m.decisions[i] {
			items = append(items, songItem{song: song})
		}
	}

	m.acceptedList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.acceptedList.Title = "Accepted Songs"
	m.acceptedList.SetShowStatusBar(false)
	m.acceptedList.SetFilteringEnabled(false)
	m.acceptedList.SetSize(m.width-4, m.height-10)
	m.view = ConfirmView
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		// reopen curation on the last candidate
		m.err = nil
		m.decisions = m.decisions[:len(m.decisions)-1]
		m.curateIndex--
		m.view = CurateView
		return m, nil
	case "y", "enter":
		if len(m.accepted()) == 0 {
			return m, nil
		}
		m.err = nil
		m.view = CreatingView
		return m, m.startCreate()
	}

	var cmd tea.Cmd
	m.acceptedList, cmd = m.acceptedList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PromptView
		m.promptInput.SetValue("")
		m.promptInput.Focus()
		m.generation = nil
		m.decisions = nil
		m.curateIndex = 0
		m.result = nil
		m.err = nil
		return m, textinput.Blink
	}
	return m, nil
}

// accepted returns the candidates the user said yes to, in order.
func (m *Model) accepted() []string {
	var songs []string
	for i, song := range m.generation.Candidates {
		if i < len(m.decisions) && m.decisions[i] {
			songs = append(songs, song)
		}
	}
	return songs
}

func (m *Model) startGeneration() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	prompt := m.promptInput.Value()
	progress := m.progressChan

	done := make(chan generationCompleteMsg, 1)
	go func() {
		gen, err := m.engine.Generate(m.ctx, prompt, progress)
		done <- generationCompleteMsg{gen: gen, err: err}
		close(progress)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) startCreate() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	selected := m.accepted()
	progress := m.progressChan

	done := make(chan createCompleteMsg, 1)
	go func() {
		result, err := m.engine.Create(m.ctx, m.generation, selected, progress)
		done <- createCompleteMsg{result: result, err: err}
		close(progress)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}

		update, ok := <-progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPrompt() string {
	title := styles.title.Render("What's the mood?")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.promptInput.View(), helpView)
}

func (m *Model) renderGenerating() string {
	title := styles.title.Render("Generating")
	return fmt.Sprintf("%s\n\n%s", title, m.progress.Message)
}

func (m *Model) renderCurate() string {
	song := m.generation.Candidates[m.curateIndex]
	title := styles.title.Render(fmt.Sprintf("Mood: %s", m.generation.Mood))
	candidate := fmt.Sprintf("\n%s\n\n%d of %d · accepted %d",
		styles.ok.Render(song),
		m.curateIndex+1,
		len(m.generation.Candidates),
		len(m.accepted()),
	)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.undo, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", title, candidate, helpView)
}

func (m *Model) renderConfirm() string {
	accepted := m.accepted()
	if len(accepted) == 0 {
		warning := styles.warn.Render("No songs accepted. A playlist needs at least one song.")
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		return fmt.Sprintf("%s\n\n%s", warning, helpView)
	}

	title := styles.title.Render(fmt.Sprintf("Create %q with %d songs?", m.generation.Title, len(accepted)))
	if m.err != nil {
		title = styles.err.Render(fmt.Sprintf("Creation failed: %v", m.err)) + "\n" + title
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.acceptedList.View(), helpView)
}

func (m *Model) renderCreating() string {
	title := styles.title.Render("Creating Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.PhaseExpandSongs:
		phase = "Expanding your picks..."
	case tasks.PhaseResolveTracks:
		phase = fmt.Sprintf("Resolving tracks (%d/%d)", m.progress.Current, m.progress.Total)
	case tasks.PhaseCreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case tasks.PhaseAttachTracks:
		phase = "Adding tracks..."
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("Failed: %v", m.err))
		if m.result != nil && m.result.Playlist != nil && m.result.Playlist.URL != "" {
			body += fmt.Sprintf("\n\nPlaylist was created: %s", m.result.Playlist.URL)
		}
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}

	if m.result == nil || m.result.Playlist == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf(
		"\nName: %s\nTracks: %d of %d requested\nURL: %s",
		m.result.Playlist.Name,
		len(m.result.Resolved),
		m.result.Requested,
		m.result.Playlist.URL,
	)

	var dropped string
	if len(m.result.Dropped) > 0 {
		dropped = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("No match for %d songs:", len(m.result.Dropped))))
		for _, song := range m.result.Dropped {
			dropped += fmt.Sprintf("\n  • %s", song)
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, dropped, helpView)
}
