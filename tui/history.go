// Package tui provides a Bubble Tea terminal UI for the RuneCore rules
// engine.
package tui

// History is a fixed-capacity circular buffer of submitted commands with
// cursor-based navigation. Once full, the oldest entry is overwritten.
type History struct {
	buf    []string
	head   int // index of the next write
	count  int // entries currently stored
	cursor int // -1 = not navigating, otherwise offset from oldest entry
}

// NewHistory creates a history buffer with the given capacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		buf:    make([]string, capacity),
		cursor: -1,
	}
}

// at returns the entry at logical offset i, where 0 is the oldest.
func (h *History) at(i int) string {
	start := h.head - h.count
	if start < 0 {
		start += len(h.buf)
	}
	return h.buf[(start+i)%len(h.buf)]
}

// Push adds a command. Consecutive duplicates are skipped.
func (h *History) Push(cmd string) {
	if h.count > 0 && h.at(h.count-1) == cmd {
		return
	}
	h.buf[h.head] = cmd
	h.head = (h.head + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Prev returns the previous (older) entry. Returns ("", false) if the
// history is empty.
func (h *History) Prev() (string, bool) {
	if h.count == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = h.count - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next returns the next (newer) entry. Returns ("", false) when past the
// most recent entry (back to fresh input).
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.count {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor resets the navigation cursor to the "not navigating" state.
func (h *History) ResetCursor() {
	h.cursor = -1
}
