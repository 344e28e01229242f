package options

import (
	"sort"
	"strings"
	"sync"
)

// HookDefaultOptions is the filter applied to the default record before it
// seeds the option store.
const HookDefaultOptions = "default_options"

// DefaultPriority is used by AddFilter callers that have no ordering needs.
const DefaultPriority = 10

// FilterFunc receives the current record and returns the record passed to the
// next filter.
type FilterFunc func(Record) Record

type filter struct {
	priority int
	order    int
	fn       FilterFunc
}

// Hooks is a named filter table. Filters for a name run by ascending priority;
// ties fall back to registration order. The zero value is ready to use.
type Hooks struct {
	mu      sync.RWMutex
	filters map[string][]filter
	seq     int
}

// NewHooks constructs an empty filter table.
func NewHooks() *Hooks {
	return &Hooks{filters: make(map[string][]filter)}
}

// AddFilter registers fn under name. Empty names and nil functions are
// ignored.
func (h *Hooks) AddFilter(name string, priority int, fn FilterFunc) {
	if h == nil || fn == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.filters == nil {
		h.filters = make(map[string][]filter)
	}
	h.filters[name] = append(h.filters[name], filter{
		priority: priority,
		order:    h.seq,
		fn:       fn,
	})
	h.seq++
}

// HasFilters reports whether any filter is registered under name.
func (h *Hooks) HasFilters(name string) bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.filters[strings.TrimSpace(name)]) > 0
}

// RemoveAll drops every filter registered under name.
func (h *Hooks) RemoveAll(name string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.filters, strings.TrimSpace(name))
}

// Apply runs the filters registered under name over rec.
func (h *Hooks) Apply(name string, rec Record) Record {
	if h == nil {
		return rec
	}

	h.mu.RLock()
	chain := make([]filter, len(h.filters[strings.TrimSpace(name)]))
	copy(chain, h.filters[strings.TrimSpace(name)])
	h.mu.RUnlock()

	sort.SliceStable(chain, func(i, j int) bool {
		if chain[i].priority != chain[j].priority {
			return chain[i].priority < chain[j].priority
		}
		return chain[i].order < chain[j].order
	})

	for _, f := range chain {
		rec = f.fn(rec)
	}
	return rec
}
