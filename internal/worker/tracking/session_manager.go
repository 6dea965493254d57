// Package tracking runs the server-side ETA refresh loop of every member
// who is sharing a live location.
package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/worker"
)

// RefreshFunc recomputes one member's snapshot. ErrInvalidState or
// ErrNotFound end the session.
type RefreshFunc func(ctx context.Context, tripID, memberID uuid.UUID) error

// Metrics tracks running sessions.
type Metrics interface {
	SessionStarted()
	SessionStopped()
}

type sessionKey struct {
	trip   uuid.UUID
	member uuid.UUID
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// SessionManager keeps at most one refresh loop per (trip, member).
type SessionManager struct {
	*worker.BaseWorker
	refresh  RefreshFunc
	interval time.Duration
	metrics  Metrics

	mu       sync.Mutex
	base     context.Context
	shutdown context.CancelFunc
	sessions map[sessionKey]*session
}

func NewSessionManager(refresh RefreshFunc, interval time.Duration, metrics Metrics, logger *zap.Logger) *SessionManager {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	base, cancel := context.WithCancel(context.Background())
	return &SessionManager{
		BaseWorker: worker.NewBaseWorker("live-sessions", "", logger),
		refresh:    refresh,
		interval:   interval,
		metrics:    metrics,
		base:       base,
		shutdown:   cancel,
		sessions:   make(map[sessionKey]*session),
	}
}

// Start blocks until the manager is stopped, then ends every session.
func (m *SessionManager) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-m.StopChan():
	}
	m.Shutdown()
	return nil
}

// StartSession is a no-op when the member already has a running loop.
func (m *SessionManager) StartSession(tripID, memberID uuid.UUID) {
	key := sessionKey{trip: tripID, member: memberID}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[key]; ok || m.base.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(m.base)
	s := &session{cancel: cancel, done: make(chan struct{})}
	m.sessions[key] = s
	go m.run(ctx, key, s)
}

// StopSession ends one loop and waits for it to exit.
func (m *SessionManager) StopSession(tripID, memberID uuid.UUID) {
	key := sessionKey{trip: tripID, member: memberID}

	m.mu.Lock()
	s := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	if s != nil {
		s.cancel()
		<-s.done
	}
}

// StopTrip ends every loop of the trip and waits for them.
func (m *SessionManager) StopTrip(tripID uuid.UUID) {
	m.mu.Lock()
	var stopping []*session
	for key, s := range m.sessions {
		if key.trip == tripID {
			stopping = append(stopping, s)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, s := range stopping {
		s.cancel()
	}
	for _, s := range stopping {
		<-s.done
	}
}

// Shutdown ends every loop. No session can be started afterwards.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	m.shutdown()
	stopping := make([]*session, 0, len(m.sessions))
	for key, s := range m.sessions {
		stopping = append(stopping, s)
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	for _, s := range stopping {
		<-s.done
	}
	if len(stopping) > 0 {
		m.Logger().Info("Live sessions stopped", zap.Int("count", len(stopping)))
	}
}

// Active reports the number of running loops.
func (m *SessionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) run(ctx context.Context, key sessionKey, s *session) {
	logger := m.Logger().With(
		zap.String("trip_id", key.trip.String()),
		zap.String("member_id", key.member.String()),
	)
	if m.metrics != nil {
		m.metrics.SessionStarted()
	}
	defer func() {
		m.mu.Lock()
		if m.sessions[key] == s {
			delete(m.sessions, key)
		}
		m.mu.Unlock()
		if m.metrics != nil {
			m.metrics.SessionStopped()
		}
		close(s.done)
	}()

	logger.Debug("Live session started")
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Live session stopped")
			return
		case <-ticker.C:
			err := m.refresh(ctx, key.trip, key.member)
			switch {
			case err == nil:
			case errors.Is(err, errors.ErrInvalidState), errors.Is(err, errors.ErrNotFound):
				logger.Debug("Live session finished", zap.Error(err))
				return
			case ctx.Err() != nil:
				return
			default:
				logger.Warn("Live snapshot refresh failed", zap.Error(err))
			}
		}
	}
}
