package distance_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/worker/distance"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, ids ...string) error {
	args := m.Called(ctx, stream, group, ids)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockRefresher is a mock of Refresher
type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) RefreshLocationDistances(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID) error {
	args := m.Called(ctx, tripID, locationID)
	return args.Error(0)
}

type resultCounter map[string]int

func (c resultCounter) WorkerResult(result string) { c[result]++ }

func eventMessage(t *testing.T, id string, e domain.ChangeEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(e)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func TestWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	stream := &MockStreamRepository{}
	refresher := &MockRefresher{}
	results := resultCounter{}
	w := distance.NewWorker(stream, refresher, results, "test-group", 1, zap.NewNop())

	tripA, tripB := uuid.New(), uuid.New()
	locA, locB := uuid.New(), uuid.New()

	messages := []domain.StreamMessage{
		eventMessage(t, "1-0", domain.ChangeEvent{TripID: tripA, Kind: domain.EntityLocation, EntityID: locA, Action: domain.ActionCreated}),
		eventMessage(t, "2-0", domain.ChangeEvent{TripID: tripA, Kind: domain.EntityMember, EntityID: uuid.New(), Action: domain.ActionOriginUpdated}),
		eventMessage(t, "3-0", domain.ChangeEvent{TripID: tripA, Kind: domain.EntityMember, EntityID: uuid.New(), Action: domain.ActionOriginUpdated}),
		eventMessage(t, "4-0", domain.ChangeEvent{TripID: tripB, Kind: domain.EntityLocation, EntityID: locB, Action: domain.ActionCreated}),
		eventMessage(t, "5-0", domain.ChangeEvent{TripID: tripB, Kind: domain.EntityMessage, EntityID: uuid.New(), Action: domain.ActionCreated}),
		{ID: "6-0", Data: "{not json"},
	}

	stream.On("ConsumeBatch", ctx, domain.StreamTripEvents, "test-group", mock.Anything, mock.Anything).Return(messages, nil).Once()
	stream.On("AckMessages", ctx, domain.StreamTripEvents, "test-group", []string{"1-0", "2-0", "3-0", "4-0", "5-0", "6-0"}).Return(nil).Once()

	refresher.On("RefreshLocationDistances", ctx, tripA, (*uuid.UUID)(nil)).Return(nil).Once()
	refresher.On("RefreshLocationDistances", ctx, tripB, &locB).Return(nil).Once()

	n, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	stream.AssertExpectations(t)
	refresher.AssertExpectations(t)
	assert.Equal(t, 2, results["refreshed"])
	assert.Equal(t, 1, results["invalid"])
	// the chat event and tripA's single location covered by the whole-trip refresh
	assert.Equal(t, 2, results["skipped"])
}

func TestWorker_ProcessBatch_RetriesThenAcks(t *testing.T) {
	ctx := context.Background()
	stream := &MockStreamRepository{}
	refresher := &MockRefresher{}
	results := resultCounter{}
	w := distance.NewWorker(stream, refresher, results, "test-group", 2, zap.NewNop())

	trip := uuid.New()
	msg := eventMessage(t, "7-0", domain.ChangeEvent{TripID: trip, Kind: domain.EntityMember, Action: domain.ActionOriginUpdated})

	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.StreamMessage{msg}, nil).Once()
	stream.On("AckMessages", mock.Anything, domain.StreamTripEvents, "test-group", []string{"7-0"}).Return(nil).Once()
	refresher.On("RefreshLocationDistances", mock.Anything, trip, (*uuid.UUID)(nil)).Return(fmt.Errorf("routing down")).Twice()

	_, err := w.ProcessBatch(ctx)
	require.NoError(t, err)

	refresher.AssertNumberOfCalls(t, "RefreshLocationDistances", 2)
	stream.AssertExpectations(t)
	assert.Equal(t, 1, results["failed"])
}

func TestWorker_ProcessBatch_Empty(t *testing.T) {
	stream := &MockStreamRepository{}
	w := distance.NewWorker(stream, &MockRefresher{}, nil, "test-group", 1, zap.NewNop())

	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

	n, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	stream.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorker_StartStop(t *testing.T) {
	stream := &MockStreamRepository{}
	w := distance.NewWorker(stream, &MockRefresher{}, nil, "test-group", 1, zap.NewNop())
	assert.Equal(t, "location-distances", w.Name())

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamTripEvents, "test-group").Return(nil)
	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		After(5*time.Millisecond).Return(nil, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_Start_ConsumerGroupError(t *testing.T) {
	stream := &MockStreamRepository{}
	w := distance.NewWorker(stream, &MockRefresher{}, nil, "test-group", 1, zap.NewNop())

	stream.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(fmt.Errorf("redis down"))

	err := w.Start(context.Background())
	assert.Error(t, err)
}
