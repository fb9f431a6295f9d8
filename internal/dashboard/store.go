package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/pkg/metrics"
	"github.com/google/uuid"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps sessions in memory. A session idle for longer than the ttl is gone.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (st *Store) Create() *Session {
	s := NewSession(uuid.NewString())

	st.mu.Lock()
	st.sessions[s.ID] = &entry{session: s, lastSeen: st.now()}
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.SetActiveSessions(n)
	st.logger.Debug("session created", "session_id", s.ID)
	return s
}

// Get returns a live session and marks it as seen.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, internal.ErrSessionNotFound
	}
	now := st.now()
	if st.expired(e, now) {
		delete(st.sessions, id)
		return nil, internal.ErrSessionNotFound
	}
	e.lastSeen = now
	return e.session, nil
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops expired sessions and returns how many it removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	now := st.now()
	removed := 0
	for id, e := range st.sessions {
		if st.expired(e, now) {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.SetActiveSessions(n)
	return removed
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}

func (st *Store) expired(e *entry, now time.Time) bool {
	return st.ttl > 0 && now.Sub(e.lastSeen) > st.ttl
}
