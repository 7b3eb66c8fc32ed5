// Package index holds the process-wide findings index and fans out change
// notifications to subscribers.
package index

import (
	"sync"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/armon/go-radix"
)

// EventKind identifies what changed in the index
type EventKind int

const (
	// EventUpdated means the entry for Event.FileID was replaced or removed
	EventUpdated EventKind = iota
	// EventCleared means every entry was removed
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventUpdated:
		return "updated"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event describes one mutation. Findings is empty when the file's entry was
// removed or when the whole index was cleared.
type Event struct {
	Kind     EventKind
	FileID   string
	Findings []models.Finding
}

// Handler is invoked synchronously after each mutation. Handlers may read the
// index but must not mutate it.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Index maps file identifiers to their findings
type Index struct {
	// writeMu serializes mutation together with dispatch
	writeMu sync.Mutex
	// mu guards entries and subscribers for readers
	mu          sync.RWMutex
	entries     *radix.Tree
	subscribers []subscription
	nextID      uint64
	closed      bool
}

// New creates an empty index
func New() *Index {
	return &Index{entries: radix.New()}
}

// SetFindings replaces the entry for fileID. An empty findings slice removes
// the entry. Exactly one notification is sent per call.
func (idx *Index) SetFindings(fileID string, findings []models.Finding) {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	stored := models.CloneFindings(findings)

	idx.mu.Lock()
	if len(stored) == 0 {
		idx.entries.Delete(fileID)
	} else {
		idx.entries.Insert(fileID, stored)
	}
	handlers := idx.handlersLocked()
	idx.mu.Unlock()

	idx.dispatch(handlers, Event{Kind: EventUpdated, FileID: fileID, Findings: models.CloneFindings(stored)})
}

// Clear removes every entry and sends a single cleared notification
func (idx *Index) Clear() {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	idx.mu.Lock()
	idx.entries = radix.New()
	handlers := idx.handlersLocked()
	idx.mu.Unlock()

	idx.dispatch(handlers, Event{Kind: EventCleared})
}

// Subscribe registers handler and returns a function that removes it
func (idx *Index) Subscribe(handler Handler) (unsubscribe func()) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return func() {}
	}

	idx.nextID++
	id := idx.nextID
	idx.subscribers = append(idx.subscribers, subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { idx.unsubscribe(id) })
	}
}

func (idx *Index) unsubscribe(id uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, sub := range idx.subscribers {
		if sub.id == id {
			idx.subscribers = append(idx.subscribers[:i:i], idx.subscribers[i+1:]...)
			return
		}
	}
}

// Get returns the findings stored for fileID
func (idx *Index) Get(fileID string) ([]models.Finding, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	v, ok := idx.entries.Get(fileID)
	if !ok {
		return nil, false
	}
	return models.CloneFindings(v.([]models.Finding)), true
}

// Snapshot returns every entry ordered by file identifier
func (idx *Index) Snapshot() []models.FileFindings {
	return idx.Under("")
}

// Under returns the entries whose file identifier starts with prefix
func (idx *Index) Under(prefix string) []models.FileFindings {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []models.FileFindings
	idx.entries.WalkPrefix(prefix, func(key string, v interface{}) bool {
		out = append(out, models.FileFindings{
			FileID:   key,
			Findings: models.CloneFindings(v.([]models.Finding)),
		})
		return false
	})
	return out
}

// Len returns the number of files with findings
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.entries.Len()
}

// Total returns the number of findings across all files
func (idx *Index) Total() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	total := 0
	idx.entries.Walk(func(_ string, v interface{}) bool {
		total += len(v.([]models.Finding))
		return false
	})
	return total
}

// Close drops every subscriber and clears the index without notifying.
// Later mutations still work but reach no one.
func (idx *Index) Close() {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.subscribers = nil
	idx.entries = radix.New()
	idx.closed = true
}

func (idx *Index) handlersLocked() []Handler {
	handlers := make([]Handler, len(idx.subscribers))
	for i, sub := range idx.subscribers {
		handlers[i] = sub.handler
	}
	return handlers
}

func (idx *Index) dispatch(handlers []Handler, event Event) {
	for _, h := range handlers {
		h(event)
	}
}
