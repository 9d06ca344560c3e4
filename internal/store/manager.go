package store

import (
	"context"
	"sync"
	"time"

	"gradglow/internal/common"
	"gradglow/internal/domain/application"
	"gradglow/internal/domain/listing"
	"gradglow/internal/domain/session"
)

const loadTimeout = 10 * time.Second

// Manager owns one Store per signed-in user. It subscribes to the auth
// service's session-change fanout: a new session builds and loads a store, a
// sign-out clears and drops it.
type Manager struct {
	listings     listing.Repository
	applications application.Repository
	logger       Logger

	mu     sync.Mutex
	stores map[common.UUID]*Store
}

func NewManager(listings listing.Repository, applications application.Repository, logger Logger) *Manager {
	return &Manager{
		listings:     listings,
		applications: applications,
		logger:       logger,
		stores:       make(map[common.UUID]*Store),
	}
}

// OnSessionChange satisfies the auth service's SessionListener shape.
func (m *Manager) OnSessionChange(userID common.UUID, s session.Session) {
	if _, anon := s.(session.Anonymous); anon {
		m.mu.Lock()
		st := m.stores[userID]
		delete(m.stores, userID)
		m.mu.Unlock()
		if st != nil {
			st.clear()
		}
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	st := New(s, m.listings, m.applications, m.logger)
	st.Load(ctx)
	m.mu.Lock()
	m.stores[userID] = st
	m.mu.Unlock()
}

// GetOrCreate returns the user's store, building and loading one when the
// session outlived the process that created it.
func (m *Manager) GetOrCreate(ctx context.Context, s session.Session) *Store {
	userID := session.UserID(s)
	m.mu.Lock()
	if st, ok := m.stores[userID]; ok {
		m.mu.Unlock()
		return st
	}
	m.mu.Unlock()

	st := New(s, m.listings, m.applications, m.logger)
	st.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.stores[userID]; ok {
		return existing
	}
	m.stores[userID] = st
	return st
}
