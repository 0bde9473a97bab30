package tui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/loopgen/internal/config"
	"github.com/Danondso/loopgen/internal/preview"
)

// Looper plays one file on repeat.
type Looper interface {
	Play(path string) error
	Stop()
	Current() string
}

// Prober reads a WAV header without playing it.
type Prober func(path string) (preview.Info, error)

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StateError
)

// Messages sent through the Bubble Tea update loop.

type PlayStartedMsg struct {
	Path string
}

type PlayErrorMsg struct {
	Err error
}

type errorTimeoutMsg struct{}

// TrackStatus reports whether a track's file exists and how long it is.
type TrackStatus struct {
	Present  bool
	Duration time.Duration
}

// StatusCheckMsg carries the result of probing every track file.
type StatusCheckMsg struct {
	Statuses []TrackStatus
}

type statusCheckTickMsg struct{}

// DebugEntry is a structured debug log entry.
type DebugEntry struct {
	Time     string // e.g. "11:27:53"
	Category string // e.g. "synth", "preview"
	Message  string
}

// DebugLogMsg carries a structured debug log entry into the TUI.
type DebugLogMsg struct {
	Entry DebugEntry
}

const maxDebugLines = 50

// Model is the Bubble Tea model for the loop preview.
type Model struct {
	State         State
	Cursor        int
	Playing       string // path of the looping file, "" when stopped
	LastError     string
	Config        *config.Config
	ConfigPath    string // where theme changes are saved; "" disables saving
	Player        Looper
	Probe         Prober
	Logger        *log.Logger
	DebugMode     bool
	DebugEntries  []DebugEntry
	Statuses      []TrackStatus
	ThemeName     string
	statusChecked bool
}

// NewModel creates a new TUI model.
func NewModel(cfg *config.Config, player Looper, probe Prober, logger *log.Logger, debug bool) Model {
	theme := LoadTheme(cfg.Theme)
	applyTheme(theme)
	return Model{
		State:     StateStopped,
		Config:    cfg,
		Player:    player,
		Probe:     probe,
		Logger:    logger,
		DebugMode: debug,
		ThemeName: theme.Name,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.statusCheckCmd()
}

// Update handles messages and transitions state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case PlayStartedMsg:
		m.State = StatePlaying
		m.Playing = msg.Path
		m.LastError = ""

	case PlayErrorMsg:
		m.State = StateError
		m.Playing = ""
		m.LastError = msg.Err.Error()
		return m, scheduleErrorTimeout()

	case errorTimeoutMsg:
		if m.State == StateError {
			m.State = StateStopped
			m.LastError = ""
		}

	case StatusCheckMsg:
		m.Statuses = msg.Statuses
		m.statusChecked = true
		return m, scheduleStatusRecheck()

	case statusCheckTickMsg:
		return m, m.statusCheckCmd()

	case DebugLogMsg:
		m.DebugEntries = append(m.DebugEntries, msg.Entry)
		if len(m.DebugEntries) > maxDebugLines {
			m.DebugEntries = m.DebugEntries[len(m.DebugEntries)-maxDebugLines:]
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.Player != nil {
			m.Player.Stop()
		}
		return m, tea.Quit

	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}

	case "down", "j":
		if m.Cursor < len(m.Config.Tracks)-1 {
			m.Cursor++
		}

	case "enter", " ":
		if len(m.Config.Tracks) == 0 {
			return m, nil
		}
		path := m.Config.TrackPath(m.Config.Tracks[m.Cursor])
		if m.State == StatePlaying && m.Playing == path {
			m.stop()
			return m, nil
		}
		return m, m.playCmd(path)

	case "s":
		m.stop()

	case "t":
		theme := NextTheme(m.ThemeName)
		applyTheme(theme)
		m.ThemeName = theme.Name
		m.Config.Theme = themeKey(theme)
		if m.ConfigPath != "" {
			if err := config.Save(m.ConfigPath, m.Config); err != nil {
				m.Logger.Printf("theme: save config: %v", err)
			}
		}
		m.Logger.Printf("theme: switched to %s", theme.Name)
	}
	return m, nil
}

func (m *Model) stop() {
	if m.Player != nil {
		m.Player.Stop()
	}
	m.State = StateStopped
	m.Playing = ""
}

// themeKey returns the lookup key for a theme.
func themeKey(t Theme) string {
	for _, name := range themeOrder {
		if themes[name].Name == t.Name {
			return name
		}
	}
	return t.Name
}

func (m Model) playCmd(path string) tea.Cmd {
	player := m.Player
	logger := m.Logger
	return func() tea.Msg {
		if player == nil {
			return nil
		}
		logger.Printf("preview: play %s", path)
		if err := player.Play(path); err != nil {
			logger.Printf("preview: play error: %v", err)
			return PlayErrorMsg{Err: err}
		}
		return PlayStartedMsg{Path: path}
	}
}

func scheduleErrorTimeout() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return errorTimeoutMsg{}
	})
}

const statusRecheckInterval = 5 * time.Second

func (m Model) statusCheckCmd() tea.Cmd {
	cfg := m.Config
	probe := m.Probe
	return func() tea.Msg {
		statuses := make([]TrackStatus, len(cfg.Tracks))
		if probe == nil {
			return StatusCheckMsg{Statuses: statuses}
		}
		for i, t := range cfg.Tracks {
			info, err := probe(cfg.TrackPath(t))
			if err != nil {
				continue
			}
			statuses[i] = TrackStatus{Present: true, Duration: info.Duration()}
		}
		return StatusCheckMsg{Statuses: statuses}
	}
}

func scheduleStatusRecheck() tea.Cmd {
	return tea.Tick(statusRecheckInterval, func(time.Time) tea.Msg {
		return statusCheckTickMsg{}
	})
}
