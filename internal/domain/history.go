package domain

// DefaultHistoryLimit is the number of entries kept by a History.
const DefaultHistoryLimit = 10

// HistoryEntry is one completed calculation. Immutable once created.
type HistoryEntry struct {
	Expression string
	Result     Result
}

// History is a bounded log of calculations, most recent first.
// When full, adding an entry evicts the oldest one.
type History struct {
	limit   int
	entries []HistoryEntry
}

// NewHistory creates a History holding at most limit entries.
// A non-positive limit uses DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		limit:   limit,
		entries: make([]HistoryEntry, 0, limit),
	}
}

// Add inserts e at the front.
func (h *History) Add(e HistoryEntry) {
	if len(h.entries) < h.limit {
		h.entries = append(h.entries, HistoryEntry{})
	}
	copy(h.entries[1:], h.entries[:len(h.entries)-1])
	h.entries[0] = e
}

// Entries returns a copy of the entries, most recent first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Limit returns the maximum number of entries.
func (h *History) Limit() int {
	return h.limit
}

// Front returns the most recent entry and false if the history is empty.
func (h *History) Front() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[0], true
}
