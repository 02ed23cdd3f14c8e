package router

// Entry is a single history record.
type Entry struct {
	Path  string
	State any
}

// History is the navigation history the router pushes to and replaces in.
// It mirrors the browser history model: a list of entries and a cursor.
type History interface {
	// Push drops every entry after the cursor, appends e, and moves the
	// cursor onto it.
	Push(e Entry)
	// Replace overwrites the entry at the cursor. On an empty history it
	// behaves like Push.
	Replace(e Entry)
	// Back moves the cursor one entry back and returns the new current entry.
	Back() (Entry, bool)
	// Forward moves the cursor one entry forward and returns the new current
	// entry.
	Forward() (Entry, bool)
	// Current returns the entry at the cursor.
	Current() (Entry, bool)
	// Len returns the number of entries.
	Len() int
}

// MemoryHistory is an in-process History. The zero value is an empty history
// ready to use.
type MemoryHistory struct {
	entries []Entry
	cursor  int
}

// NewMemoryHistory creates an empty history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: make([]Entry, 0, 16)}
}

// Push implements History.
func (h *MemoryHistory) Push(e Entry) {
	if len(h.entries) > 0 {
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, e)
	h.cursor = len(h.entries) - 1
}

// Replace implements History.
func (h *MemoryHistory) Replace(e Entry) {
	if len(h.entries) == 0 {
		h.Push(e)
		return
	}
	h.entries[h.cursor] = e
}

// Back implements History.
func (h *MemoryHistory) Back() (Entry, bool) {
	if h.cursor == 0 || len(h.entries) == 0 {
		return Entry{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Forward implements History.
func (h *MemoryHistory) Forward() (Entry, bool) {
	if h.cursor >= len(h.entries)-1 {
		return Entry{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current implements History.
func (h *MemoryHistory) Current() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[h.cursor], true
}

// Len implements History.
func (h *MemoryHistory) Len() int {
	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *MemoryHistory) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
