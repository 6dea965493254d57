package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout bounds Stop when the caller passes no deadline.
const DefaultShutdownTimeout = 30 * time.Second

// Manager runs registered workers and stops them together.
type Manager struct {
	workers []Worker
	logger  *zap.Logger
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

// Start launches every worker in its own goroutine and returns immediately.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("workers already started")
	}
	m.started = true
	workers := append([]Worker(nil), m.workers...)
	m.mu.Unlock()

	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))
	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
			}
		}(w)
	}
	return nil
}

// Stop signals every worker and waits for them until ctx expires.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	workers := append([]Worker(nil), m.workers...)
	m.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultShutdownTimeout)
		defer cancel()
	}

	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))
	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped")
		return nil
	case <-ctx.Done():
		m.logger.Warn("Workers shutdown timed out")
		return fmt.Errorf("workers shutdown: %w", ctx.Err())
	}
}
