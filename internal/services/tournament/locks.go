package tournament

import (
	"sync"

	"github.com/mcoot/acs-tournaments/internal/model"
)

// lockMap hands out one mutex per tournament. Entries are dropped when the
// last holder releases them.
type lockMap struct {
	mu    sync.Mutex
	locks map[model.TournamentID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockMap() *lockMap {
	return &lockMap{locks: make(map[model.TournamentID]*lockEntry)}
}

// lock blocks until the tournament's mutex is held and returns its release func
func (m *lockMap) lock(id model.TournamentID) func() {
	m.mu.Lock()
	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		m.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// size returns the number of live entries
func (m *lockMap) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
