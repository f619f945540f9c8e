package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbazin/marks/internal/list"
	"github.com/kbazin/marks/internal/logger"
)

// Manager hands out one list controller per user, created lazily on first
// use and loaded once from the store. Subsequent requests of the same user
// share the controller, which holds the session state every list operation
// acts on.
type Manager struct {
	mu       sync.Mutex
	store    list.Store
	log      logger.Logger
	sessions map[string]*list.Controller
}

func NewManager(store list.Store, log logger.Logger) *Manager {
	return &Manager{
		store:    store,
		log:      log,
		sessions: make(map[string]*list.Controller),
	}
}

// Session returns the controller for owner, loading it from the store the
// first time.
func (m *Manager) Session(ctx context.Context, owner string) (*list.Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctl, ok := m.sessions[owner]; ok {
		return ctl, nil
	}

	ctl := list.NewController(m.store, owner, m.log)
	if err := ctl.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to start session for %s: %w", owner, err)
	}
	m.sessions[owner] = ctl

	m.log.Info("session started",
		logger.String("owner", owner),
		logger.Int("bookmarks", ctl.Len()))
	return ctl, nil
}

// Drop ends a user's session; the next request starts a fresh one from the
// store. Display-only state like manual order does not survive it.
func (m *Manager) Drop(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, owner)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
