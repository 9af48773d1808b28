package dispatch

import "github.com/phxteam/phoenixbot/internal/state"

// Entry binds one exact trigger signature to a handler. Name labels the
// handler in logs.
type Entry struct {
	Trigger string
	Name    string
	Handler Handler
}

// Table is the per-state route table. Entries keep insertion order and
// the first trigger match wins, so entries added earlier shadow later
// ones with the same trigger.
type Table struct {
	entries map[state.State][]Entry
}

func NewTable() *Table {
	return &Table{entries: make(map[state.State][]Entry)}
}

// Add appends an entry to the state's route list.
func (t *Table) Add(st state.State, trigger, name string, h Handler) {
	t.entries[st] = append(t.entries[st], Entry{Trigger: trigger, Name: name, Handler: h})
}

// Lookup finds the first entry whose trigger equals key. Matching is by
// exact equality only.
func (t *Table) Lookup(st state.State, key string) (Entry, bool) {
	if key == "" {
		return Entry{}, false
	}
	for _, e := range t.entries[st] {
		if e.Trigger == key {
			return e, true
		}
	}
	return Entry{}, false
}
