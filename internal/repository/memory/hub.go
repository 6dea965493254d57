package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

const (
	subscriberBuffer = 32

	// changeSendTimeout bounds how long a change event waits for a full
	// subscriber before that subscriber is disconnected.
	changeSendTimeout = 500 * time.Millisecond
)

// hub fans out values per trip. A lossy hub skips a full subscriber. A
// lossless hub waits up to sendTimeout and then disconnects it, so the
// subscriber sees a closed channel instead of a gap.
type hub[T any] struct {
	mu          sync.Mutex
	next        int
	subs        map[uuid.UUID]map[int]chan T
	lossless    bool
	sendTimeout time.Duration
	onEvict     func()
}

func newHub[T any]() *hub[T] {
	return &hub[T]{subs: make(map[uuid.UUID]map[int]chan T)}
}

func (h *hub[T]) publish(tripID uuid.UUID, v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for id, ch := range h.subs[tripID] {
		select {
		case ch <- v:
			continue
		default:
		}
		if !h.lossless {
			continue
		}

		if timer == nil {
			timer = time.NewTimer(h.sendTimeout)
		}
		select {
		case ch <- v:
		case <-timer.C:
			h.remove(tripID, id)
			if h.onEvict != nil {
				h.onEvict()
			}
		}
	}
}

// remove closes a subscriber. The caller holds h.mu.
func (h *hub[T]) remove(tripID uuid.UUID, id int) {
	ch, ok := h.subs[tripID][id]
	if !ok {
		return
	}
	delete(h.subs[tripID], id)
	if len(h.subs[tripID]) == 0 {
		delete(h.subs, tripID)
	}
	close(ch)
}

func (h *hub[T]) subscribe(ctx context.Context, tripID uuid.UUID) (<-chan T, func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	ch := make(chan T, subscriberBuffer)
	if h.subs[tripID] == nil {
		h.subs[tripID] = make(map[int]chan T)
	}
	h.subs[tripID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			h.remove(tripID, id)
			h.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel
}

type changePublisher struct {
	hub *hub[domain.ChangeEvent]
}

// NewChangePublisher returns an in-process ChangePublisher. metrics may be
// nil.
func NewChangePublisher(metrics repository.ChangeDropMetrics) repository.ChangePublisher {
	h := newHub[domain.ChangeEvent]()
	h.lossless = true
	h.sendTimeout = changeSendTimeout
	if metrics != nil {
		h.onEvict = metrics.ChangeDropped
	}
	return &changePublisher{hub: h}
}

func (p *changePublisher) PublishChange(_ context.Context, event domain.ChangeEvent) error {
	p.hub.publish(event.TripID, event)
	return nil
}

func (p *changePublisher) SubscribeChanges(ctx context.Context, tripID uuid.UUID) (<-chan domain.ChangeEvent, func(), error) {
	ch, cancel := p.hub.subscribe(ctx, tripID)
	return ch, cancel, nil
}

type positionBroadcaster struct {
	hub *hub[domain.PositionBroadcast]
}

// NewPositionBroadcaster returns an in-process PositionBroadcaster. Positions
// are superseded by the next sample, so full subscribers are skipped.
func NewPositionBroadcaster() repository.PositionBroadcaster {
	return &positionBroadcaster{hub: newHub[domain.PositionBroadcast]()}
}

func (b *positionBroadcaster) BroadcastPosition(_ context.Context, msg domain.PositionBroadcast) error {
	b.hub.publish(msg.TripID, msg)
	return nil
}

func (b *positionBroadcaster) SubscribePositions(ctx context.Context, tripID uuid.UUID) (<-chan domain.PositionBroadcast, func(), error) {
	ch, cancel := b.hub.subscribe(ctx, tripID)
	return ch, cancel, nil
}
