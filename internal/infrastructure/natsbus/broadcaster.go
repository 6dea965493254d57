package natsbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
)

// Metrics is the hook the broadcaster reports to.
type Metrics interface {
	BroadcastInc(err error)
	SetConnected(connected bool)
}

// Broadcaster publishes live positions on core NATS subjects. Delivery is
// best effort: no persistence and no acks.
type Broadcaster struct {
	nc      *nats.Conn
	metrics Metrics
	logger  *zap.Logger
}

func Connect(url string, m Metrics, logger *zap.Logger) (*Broadcaster, error) {
	setConnected := func(v bool) {
		if m != nil {
			m.SetConnected(v)
		}
	}

	nc, err := nats.Connect(url,
		nats.Name("split-the-distance"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			setConnected(false)
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			setConnected(true)
			logger.Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			setConnected(false)
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	setConnected(true)
	logger.Info("NATS connected", zap.String("url", url))

	return NewBroadcaster(nc, m, logger), nil
}

// NewBroadcaster wraps an established connection.
func NewBroadcaster(nc *nats.Conn, m Metrics, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{nc: nc, metrics: m, logger: logger}
}

func (b *Broadcaster) Close() {
	if b.nc != nil {
		_ = b.nc.Drain()
		b.nc.Close()
	}
}

func (b *Broadcaster) BroadcastPosition(_ context.Context, msg domain.PositionBroadcast) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}

	err = b.nc.Publish(domain.PositionSubject(msg.TripID), data)
	if b.metrics != nil {
		b.metrics.BroadcastInc(err)
	}
	if err != nil {
		return fmt.Errorf("failed to publish position: %w", err)
	}
	return nil
}

// SubscribePositions uses a bounded pending buffer; when a slow consumer
// overflows it, NATS drops the oldest positions, which only ever matter as
// "latest known".
func (b *Broadcaster) SubscribePositions(ctx context.Context, tripID uuid.UUID) (<-chan domain.PositionBroadcast, func(), error) {
	raw := make(chan *nats.Msg, 64)
	sub, err := b.nc.ChanSubscribe(domain.PositionSubject(tripID), raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe to positions: %w", err)
	}

	out := make(chan domain.PositionBroadcast, 16)
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(out)
		defer func() { _ = sub.Unsubscribe() }()

		for {
			select {
			case <-ctx.Done():
				return
			case m := <-raw:
				var pos domain.PositionBroadcast
				if err := json.Unmarshal(m.Data, &pos); err != nil {
					b.logger.Debug("Skipping malformed position", zap.Error(err))
					continue
				}
				select {
				case out <- pos:
				default:
				}
			}
		}
	}()

	return out, cancel, nil
}
