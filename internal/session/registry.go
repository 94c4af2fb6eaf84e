package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxClients = 10000
	DefaultIdleTTL    = 24 * time.Hour
)

type registryEntry struct {
	clientID string
	mgr      *Manager
	lastSeen time.Time
}

// Registry keeps one Manager per client id. Only ids it issued itself are
// honoured. Clients idle for longer than idleTTL are dropped, and past
// maxClients the least recently seen client is dropped first. Stored rows are
// never touched by eviction.
type Registry struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front is most recently seen
	maxClients int
	idleTTL    time.Duration
	now        func() time.Time
	onEvict    func(clientID string)
}

func NewRegistry() *Registry {
	return NewRegistryWithLimits(DefaultMaxClients, DefaultIdleTTL)
}

// NewRegistryWithLimits creates a registry holding at most maxClients managers.
// A non-positive value falls back to the default.
func NewRegistryWithLimits(maxClients int, idleTTL time.Duration) *Registry {
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxClients: maxClients,
		idleTTL:    idleTTL,
		now:        time.Now,
	}
}

// OnEvict registers fn to run for every dropped client id, outside the registry lock.
func (r *Registry) OnEvict(fn func(clientID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = fn
}

// Get returns the Manager for clientID. An empty or unknown id gets a fresh
// id and Manager; the returned id is the one to hand back to the client.
func (r *Registry) Get(clientID string) (string, *Manager) {
	r.mu.Lock()
	now := r.now()
	evicted := r.pruneIdle(now)

	if el, ok := r.entries[clientID]; ok && clientID != "" {
		e := el.Value.(*registryEntry)
		e.lastSeen = now
		r.order.MoveToFront(el)
		onEvict := r.onEvict
		r.mu.Unlock()
		notify(onEvict, evicted)
		return e.clientID, e.mgr
	}

	e := &registryEntry{clientID: uuid.NewString(), mgr: NewManager(), lastSeen: now}
	r.entries[e.clientID] = r.order.PushFront(e)
	for r.order.Len() > r.maxClients {
		evicted = append(evicted, r.remove(r.order.Back()))
	}
	onEvict := r.onEvict
	r.mu.Unlock()

	notify(onEvict, evicted)
	return e.clientID, e.mgr
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// pruneIdle drops clients not seen within idleTTL. Caller holds r.mu.
func (r *Registry) pruneIdle(now time.Time) []string {
	var evicted []string
	for el := r.order.Back(); el != nil; el = r.order.Back() {
		if now.Sub(el.Value.(*registryEntry).lastSeen) <= r.idleTTL {
			break
		}
		evicted = append(evicted, r.remove(el))
	}
	return evicted
}

func (r *Registry) remove(el *list.Element) string {
	e := r.order.Remove(el).(*registryEntry)
	delete(r.entries, e.clientID)
	return e.clientID
}

func notify(fn func(string), ids []string) {
	if fn == nil {
		return
	}
	for _, id := range ids {
		fn(id)
	}
}
