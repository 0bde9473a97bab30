package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogWriter is an io.Writer that sends each written line as a DebugLogMsg
// to a Bubble Tea program. Use it as the output for a log.Logger.
type LogWriter struct {
	program *tea.Program
}

// NewLogWriter creates a LogWriter that sends debug lines to the given program.
func NewLogWriter(p *tea.Program) *LogWriter {
	return &LogWriter{program: p}
}

// Write implements io.Writer. The send runs in a goroutine so logging from
// inside a Bubble Tea command cannot deadlock the program.
func (w *LogWriter) Write(b []byte) (int, error) {
	line := strings.TrimRight(string(b), "\n")
	go w.program.Send(DebugLogMsg{Entry: parseLine(line)})
	return len(b), nil
}

// parseLine extracts time, category, and message from a log line of the form
// "[DEBUG] HH:MM:SS.micros category: message".
func parseLine(line string) DebugEntry {
	entry := DebugEntry{Category: "debug", Message: line}

	msg := strings.TrimPrefix(line, "[DEBUG] ")

	if len(msg) >= 8 && msg[2] == ':' && msg[5] == ':' {
		if spaceIdx := strings.IndexByte(msg, ' '); spaceIdx > 0 {
			entry.Time = msg[:spaceIdx]
			msg = msg[spaceIdx+1:]
		}
	}

	entry.Category, entry.Message = splitCategory(msg)
	return entry
}

// splitCategory peels a leading "category:" tag off msg. Unknown tags are
// left in the message.
func splitCategory(msg string) (category, message string) {
	tag, rest, ok := strings.Cut(msg, ": ")
	if !ok {
		return "debug", msg
	}
	switch strings.ToLower(tag) {
	case "synth", "preview", "theme", "config":
		return strings.ToLower(tag), rest
	default:
		return "debug", msg
	}
}
