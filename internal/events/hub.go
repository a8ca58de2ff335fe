package events

import (
	"log"
	"sync"
	"time"
)

// Change kinds.
const (
	KindInsert = "INSERT"
	KindUpdate = "UPDATE"
	KindDelete = "DELETE"
)

// AllTables subscribes a handler to every table.
const AllTables = "*"

// Change tells subscribers that a row of Table changed. It is a hint to
// re-fetch, not a delta.
type Change struct {
	Table string    `json:"table"`
	Kind  string    `json:"kind"`
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
}

type Handler func(Change)

// Hub fans out changes to subscribers. Delivery is asynchronous and
// unordered.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]Handler)}
}

// Subscribe registers h for changes on table and returns its unsubscribe func.
func (h *Hub) Subscribe(table string, handler Handler) func() {
	if table == "" {
		table = AllTables
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[table] == nil {
		h.subs[table] = make(map[int]Handler)
	}
	h.subs[table][id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[table], id)
			if len(h.subs[table]) == 0 {
				delete(h.subs, table)
			}
		})
	}
}

// Publish notifies subscribers of c.Table and of AllTables.
func (h *Hub) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.subs[c.Table])+len(h.subs[AllTables]))
	for _, fn := range h.subs[c.Table] {
		handlers = append(handlers, fn)
	}
	for _, fn := range h.subs[AllTables] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		go func(fn Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[EVENTS] handler panic table=%s: %v", c.Table, r)
				}
			}()
			fn(c)
		}(fn)
	}
}

// SubscriberCount is used by health output and tests.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.subs {
		n += len(m)
	}
	return n
}
