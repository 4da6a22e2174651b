package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger is an append-only per-account operation log. Entries are
// stored in recording order; nothing is ever rewritten or removed.
type Ledger struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

// creates an empty audit ledger
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string][]Entry)}
}

// Record appends an entry to the account's log, creating the log on
// first write. A missing ID or timestamp is filled in.
func (l *Ledger) Record(iban string, entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[iban] = append(l.entries[iban], entry)
}

// Query returns the entries with start <= timestamp <= end, inclusive
// on both ends, in recording order. An unknown account yields an empty
// slice, never an error.
func (l *Ledger) Query(iban string, start, end time.Time) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0)
	for _, e := range l.entries[iban] {
		if e.Timestamp.Before(start) || e.Timestamp.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// QueryAll returns the full log for the account in recording order.
func (l *Ledger) QueryAll(iban string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries[iban]))
	copy(out, l.entries[iban])
	return out
}
