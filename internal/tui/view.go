package tui

import (
	"fmt"
	"strings"

	"github.com/Danondso/loopgen/internal/config"
)

// panelWidth is the total outer width of the main panel.
// borderStyle has: border (1+1) = 2, padding (2+2) = 4, total chrome = 6.
const panelWidth = 80
const panelWidthForStyle = panelWidth - 2 // passed to borderStyle.Width()
const panelContentWidth = panelWidth - 6  // actual usable text area

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	titleText := "  LOOPGEN  "
	barTotal := panelContentWidth - len(titleText)
	barLeft := barTotal / 2
	barRight := barTotal - barLeft
	title := strings.Repeat("▓", barLeft) + titleText + strings.Repeat("▓", barRight)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Status:  "))
	b.WriteString(m.renderBadge())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Tracks:"))
	b.WriteString("\n")
	for i, t := range m.Config.Tracks {
		b.WriteString(m.renderTrack(i, t))
		b.WriteString("\n")
	}
	if len(m.Config.Tracks) == 0 {
		b.WriteString(bodyStyle.Render("(no tracks configured)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("↑/↓ select  enter play/stop  s stop  t theme (" + m.ThemeName + ")"))
	b.WriteString("\n")
	b.WriteString(quitStyle.Render("Press q to quit"))

	if m.DebugMode || len(m.DebugEntries) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.renderDebugPanel())
	}

	return borderStyle.Width(panelWidthForStyle).Render(b.String())
}

func (m Model) renderTrack(i int, t config.Track) string {
	cursor := "  "
	if i == m.Cursor {
		cursor = cursorStyle.Render("› ")
	}

	status := quitStyle.Render("…")
	if m.statusChecked && i < len(m.Statuses) {
		if m.Statuses[i].Present {
			status = statusOkStyle.Render("✓")
		} else {
			status = statusBadStyle.Render("✗")
		}
	}

	name := fmt.Sprintf("%-20s", t.File)
	line := cursor + status + " " + bodyStyle.Render(name) + " " + accentStyle.Render(describe(t))
	if m.State == StatePlaying && m.Playing == m.Config.TrackPath(t) {
		line += playingBadge.Render("  ♪")
	}
	return line
}

// describe summarizes what a track contains, e.g. "200Hz | 206Hz".
func describe(t config.Track) string {
	if t.Kind == config.KindBinaural {
		return fmt.Sprintf("%gHz | %gHz  (%gHz beat)", t.BaseHz, t.RightHz(), t.BeatHz)
	}
	return fmt.Sprintf("%gHz tone", t.BaseHz)
}

func (m Model) renderStatusBar() string {
	cfg := m.Config
	present := 0
	for _, s := range m.Statuses {
		if s.Present {
			present++
		}
	}
	files := "..."
	if m.statusChecked {
		files = fmt.Sprintf("%d/%d", present, len(cfg.Tracks))
	}
	return quitStyle.Render(fmt.Sprintf("Dir: %s  Files: %s  Format: %dHz, %gs loops", cfg.OutputDir, files, cfg.SampleRate, cfg.DurationSec))
}

func (m Model) renderBadge() string {
	switch m.State {
	case StatePlaying:
		name := m.Playing
		if i := strings.LastIndexAny(name, `/\`); i >= 0 {
			name = name[i+1:]
		}
		return playingBadge.Render("● Looping " + name)
	case StateError:
		errText := m.LastError
		if len(errText) > 50 {
			errText = errText[:50] + "..."
		}
		return errorBadge.Render(fmt.Sprintf("● Error: %s", errText))
	default:
		return stoppedBadge.Render("● Stopped")
	}
}

const debugPanelMaxLines = 5

// Debug table column widths. Row content must fit within panelContentWidth.
const (
	colTimeWidth     = 15
	colCategoryWidth = 10
	colSepWidth      = 3 // " │ "
	colMsgWidth      = panelContentWidth - colTimeWidth - colCategoryWidth - colSepWidth*2
)

func (m Model) renderDebugPanel() string {
	sep := debugSepStyle.Render(" │ ")
	rule := debugRuleStyle.Render(strings.Repeat("─", panelContentWidth))

	var db strings.Builder

	db.WriteString(debugTitleStyle.Render("Debug"))
	db.WriteString("\n")
	db.WriteString(rule)
	db.WriteString("\n")

	db.WriteString(
		debugHeaderStyle.Width(colTimeWidth).Render("TIME") +
			sep +
			debugHeaderStyle.Width(colCategoryWidth).Render("TYPE") +
			sep +
			debugHeaderStyle.Width(colMsgWidth).Render("MESSAGE"))
	db.WriteString("\n")
	db.WriteString(rule)

	entries := m.DebugEntries
	if len(entries) > debugPanelMaxLines {
		entries = entries[len(entries)-debugPanelMaxLines:]
	}
	for _, entry := range entries {
		timeStr := entry.Time
		if len(timeStr) > colTimeWidth {
			timeStr = timeStr[:colTimeWidth]
		}

		cat := entry.Category
		if len(cat) > colCategoryWidth {
			cat = cat[:colCategoryWidth]
		}

		msg := entry.Message
		if len(msg) > colMsgWidth {
			msg = msg[:colMsgWidth-3] + "..."
		}

		db.WriteString("\n")
		db.WriteString(
			debugTimeStyle.Width(colTimeWidth).Render(timeStr) +
				sep +
				debugCategoryStyle.Width(colCategoryWidth).Render(cat) +
				sep +
				debugMsgStyle.Width(colMsgWidth).Render(msg))
	}

	return db.String()
}
