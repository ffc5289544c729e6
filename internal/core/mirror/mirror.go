// Package mirror keeps an in-process copy of the remote users collection and
// keeps it current from the store's change notifications.
package mirror

import (
	"sync"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

// Mirror is an ordered set of user records keyed by ID. It never holds two
// records with the same ID. Records handed out are copies.
type Mirror struct {
	mu    sync.RWMutex
	users []*domain.User
	index map[string]int
	// expected holds the version of writes this process issued and has not
	// yet seen echoed back.
	expected map[string]int64
}

// New returns an empty Mirror.
func New() *Mirror {
	return &Mirror{
		index:    make(map[string]int),
		expected: make(map[string]int64),
	}
}

// Load replaces the contents with users. Later duplicates of an ID are dropped.
func (m *Mirror) Load(users []*domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make([]*domain.User, 0, len(users))
	m.index = make(map[string]int, len(users))
	for _, u := range users {
		if u == nil || u.ID == "" {
			continue
		}
		if _, dup := m.index[u.ID]; dup {
			continue
		}
		m.index[u.ID] = len(m.users)
		m.users = append(m.users, clone(u))
	}
}

// Clear empties the mirror.
func (m *Mirror) Clear() {
	m.Load(nil)
}

// Apply folds one change notification into the mirror and reports whether
// the contents changed. Inserts of a known ID, updates and deletes of an
// unknown ID, and updates older than the held or expected version are no-ops.
func (m *Mirror) Apply(ch domain.Change) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ch.Kind {
	case domain.ChangeInsert:
		if ch.User == nil {
			return false
		}
		if _, ok := m.index[ch.ID]; ok {
			return false
		}
		u := clone(ch.User)
		u.ID = ch.ID
		m.index[ch.ID] = len(m.users)
		m.users = append(m.users, u)
		return true

	case domain.ChangeUpdate:
		if ch.User == nil {
			return false
		}
		i, ok := m.index[ch.ID]
		if !ok {
			return false
		}
		if ch.User.Version < m.users[i].Version {
			return false
		}
		if want, ok := m.expected[ch.ID]; ok {
			if ch.User.Version < want {
				return false
			}
			delete(m.expected, ch.ID)
		}
		u := clone(ch.User)
		u.ID = ch.ID
		m.users[i] = u
		return true

	case domain.ChangeDelete:
		i, ok := m.index[ch.ID]
		if !ok {
			return false
		}
		m.users = append(m.users[:i], m.users[i+1:]...)
		delete(m.index, ch.ID)
		delete(m.expected, ch.ID)
		for j := i; j < len(m.users); j++ {
			m.index[m.users[j].ID] = j
		}
		return true
	}
	return false
}

// Expect records that a write carrying version is in flight for id, so that
// notifications describing an older state of the record are discarded.
func (m *Mirror) Expect(id string, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.expected[id]; !ok || version > cur {
		m.expected[id] = version
	}
}

// Forget drops a pending expectation, used when the write failed.
func (m *Mirror) Forget(id string, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expected[id] == version {
		delete(m.expected, id)
	}
}

// Get returns a copy of the record with the given id.
func (m *Mirror) Get(id string) (*domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return clone(m.users[i]), true
}

// HasEmail reports whether any record carries exactly email.
func (m *Mirror) HasEmail(email string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return true
		}
	}
	return false
}

// Len returns the number of records.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// Snapshot returns copies of all records in mirror order.
func (m *Mirror) Snapshot() []*domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.User, len(m.users))
	for i, u := range m.users {
		out[i] = clone(u)
	}
	return out
}

func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}
