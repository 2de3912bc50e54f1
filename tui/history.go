// Package tui provides a Bubble Tea terminal UI for interactive dice sessions.
package tui

import "strings"

// History is the recall list behind the Up/Down keys. Commands are stored
// in their canonical spacing, so "play  10" and "play 10" are one entry.
type History struct {
	cmds  []string
	limit int
	pos   int // len(cmds) while editing fresh input
}

// NewHistory creates a history that keeps at most limit commands.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records a submitted command. Blank input, repeat requests
// ("again", "g") and a repeat of the newest entry are not recorded.
func (h *History) Push(cmd string) {
	cmd = strings.Join(strings.Fields(cmd), " ")
	if cmd == "" || isRepeat(cmd) {
		return
	}
	if n := len(h.cmds); n > 0 && h.cmds[n-1] == cmd {
		h.pos = len(h.cmds)
		return
	}
	h.cmds = append(h.cmds, cmd)
	if over := len(h.cmds) - h.limit; over > 0 {
		h.cmds = append(h.cmds[:0], h.cmds[over:]...)
	}
	h.pos = len(h.cmds)
}

// Replace rebuilds the history from a session's command log, oldest
// first. Used after /load so recall matches the restored session.
func (h *History) Replace(log []string) {
	h.cmds = h.cmds[:0]
	for _, cmd := range log {
		h.Push(cmd)
	}
	h.pos = len(h.cmds)
}

// Prev steps to the next older command; it stays on the oldest one.
// It reports false when there is nothing to recall.
func (h *History) Prev() (string, bool) {
	if len(h.cmds) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.cmds[h.pos], true
}

// Next steps to the next newer command. Stepping past the newest returns
// to fresh input and reports false.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.cmds) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.cmds) {
		return "", false
	}
	return h.cmds[h.pos], true
}

// ResetCursor returns to fresh input.
func (h *History) ResetCursor() {
	h.pos = len(h.cmds)
}

// Len returns the number of recorded commands.
func (h *History) Len() int {
	return len(h.cmds)
}

func isRepeat(cmd string) bool {
	lower := strings.ToLower(cmd)
	return lower == "again" || lower == "g"
}
