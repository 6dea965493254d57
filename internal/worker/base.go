package worker

import (
	"sync"

	"go.uber.org/zap"
)

// BaseWorker carries the stop signal and identity shared by all workers.
type BaseWorker struct {
	name          string
	consumerGroup string
	logger        *zap.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:          name,
		consumerGroup: consumerGroup,
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Stop closes the stop channel once. Later calls are no-ops.
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.stopped = true
	return nil
}

func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// ConsumerGroup is empty for workers that do not read a stream.
func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}
