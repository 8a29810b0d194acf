package lib

// History holds the expressions accepted by one REPL session and a cursor
// used for Up/Down recall. The cursor sits one past the last entry until the
// user starts navigating.
type History struct {
	entries []string
	cursor  int
}

func NewHistory(entries []string) *History {
	h := &History{entries: append([]string{}, entries...)}
	h.cursor = len(h.entries)
	return h
}

// Add records an accepted input and moves the cursor back to the end. Empty
// input and "exit" are not recorded.
func (h *History) Add(input string) bool {
	if input == "" || input == "exit" {
		return false
	}
	h.entries = append(h.entries, input)
	h.cursor = len(h.entries)
	return true
}

// Prev moves the cursor back one entry and returns it.
func (h *History) Prev() (string, bool) {
	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next moves the cursor forward one entry and returns it. It never moves past
// the last entry.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries)-1 {
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

func (h *History) Entries() []string {
	return append([]string{}, h.entries...)
}

func (h *History) Len() int {
	return len(h.entries)
}
