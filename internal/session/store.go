package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrLocked   = errors.New("session is busy")
)

// Store persists sessions between requests. Implementations hand out a fresh
// copy on every Load so concurrent requests never share a *Session.
//
// Lock serializes work on one session id: a request holds it from Load to
// Save, so each action sees the previous one's result. It blocks until the
// lock is free or ctx is done, in which case ErrLocked is returned.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (unlock func(), err error)
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// idLock is a one-slot semaphore; refs counts holders and waiters so the
// entry can be dropped once nobody needs it.
type idLock struct {
	sem  chan struct{}
	refs int
}

// MemoryStore keeps sessions in process memory with a sliding TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time

	locksMu sync.Mutex
	locks   map[string]*idLock
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		locks:   make(map[string]*idLock),
	}
}

func (m *MemoryStore) Lock(ctx context.Context, id string) (func(), error) {
	m.locksMu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &idLock{sem: make(chan struct{}, 1)}
		m.locks[id] = l
	}
	l.refs++
	m.locksMu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(id, l)
		return nil, ErrLocked
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			m.release(id, l)
		})
	}, nil
}

func (m *MemoryStore) release(id string, l *idLock) {
	m.locksMu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, id)
	}
	m.locksMu.Unlock()
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok || m.now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return decode(entry.data)
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[s.ID] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until done is closed.
func (m *MemoryStore) StartSweeper(interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-done:
				return
			}
		}
	}()
}

func decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.History == nil {
		s.History = []ChatTurn{}
	}
	if s.Cart == nil {
		s.Cart = make(map[string]CartItem)
	}
	return &s, nil
}
