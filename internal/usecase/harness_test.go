package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/idgen"
	"github.com/split-the-distance/internal/repository/memory"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

// recordingPublisher keeps every change event in publish order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (p *recordingPublisher) PublishChange(_ context.Context, e domain.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) SubscribeChanges(context.Context, uuid.UUID) (<-chan domain.ChangeEvent, func(), error) {
	return make(chan domain.ChangeEvent), func() {}, nil
}

func (p *recordingPublisher) count(kind domain.EntityKind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []domain.PositionBroadcast
	err      error
}

func (b *recordingBroadcaster) BroadcastPosition(_ context.Context, msg domain.PositionBroadcast) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, msg)
	return nil
}

func (b *recordingBroadcaster) SubscribePositions(context.Context, uuid.UUID) (<-chan domain.PositionBroadcast, func(), error) {
	return make(chan domain.PositionBroadcast), func() {}, nil
}

type sessionCall struct {
	op       string
	tripID   uuid.UUID
	memberID uuid.UUID
}

// fakeSessions records session registry calls.
type fakeSessions struct {
	mu    sync.Mutex
	calls []sessionCall
}

func (s *fakeSessions) StartSession(tripID, memberID uuid.UUID) { s.record("start", tripID, memberID) }
func (s *fakeSessions) StopSession(tripID, memberID uuid.UUID)  { s.record("stop", tripID, memberID) }
func (s *fakeSessions) StopTrip(tripID uuid.UUID)               { s.record("stop_trip", tripID, uuid.Nil) }

func (s *fakeSessions) record(op string, tripID, memberID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sessionCall{op: op, tripID: tripID, memberID: memberID})
}

func (s *fakeSessions) ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.op
	}
	return out
}

type harness struct {
	store       usecase.TripStore
	events      *recordingPublisher
	routing     *MockRouting
	geocoding   *MockGeocoding
	sessions    *fakeSessions
	broadcaster *recordingBroadcaster

	trips     *usecase.TripUseCase
	members   *usecase.MemberUseCase
	dates     *usecase.DateUseCase
	locations *usecase.LocationUseCase
	itinerary *usecase.ItineraryUseCase
	chat      *usecase.ChatUseCase
	tracking  *usecase.TrackingUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()

	s := memory.NewStore()
	store := usecase.TripStore{
		Trips:     memory.NewTripRepository(s),
		Members:   memory.NewMemberRepository(s),
		Dates:     memory.NewDateRepository(s),
		Locations: memory.NewLocationRepository(s),
		Itinerary: memory.NewItineraryRepository(s),
		Messages:  memory.NewMessageRepository(s),
		Live:      memory.NewLiveStatusRepository(s),
	}

	seq, err := idgen.NewSequencer(1)
	require.NoError(t, err)

	h := &harness{
		store:       store,
		events:      &recordingPublisher{},
		routing:     &MockRouting{},
		geocoding:   &MockGeocoding{},
		sessions:    &fakeSessions{},
		broadcaster: &recordingBroadcaster{},
	}

	notifier := usecase.NewNotifier(h.events, nil, nil, logger)
	retry := usecase.RetryPolicy{}
	midpoint := usecase.NewMidpointUseCase(h.routing, h.geocoding, config.MidpointConfig{}, retry, nil, logger)

	h.chat = usecase.NewChatUseCase(store, notifier, seq, logger)
	h.trips = usecase.NewTripUseCase(store, notifier, h.chat, h.sessions, logger)
	h.locations = usecase.NewLocationUseCase(store, notifier, h.chat, midpoint, h.routing, h.geocoding, retry, true, logger)
	h.members = usecase.NewMemberUseCase(store, notifier, h.chat, usecase.NewLogInviteSender(logger), nil, logger)
	h.dates = usecase.NewDateUseCase(store, notifier, h.chat, logger)
	h.itinerary = usecase.NewItineraryUseCase(store, notifier, logger)
	h.tracking = usecase.NewTrackingUseCase(store, notifier, h.chat, h.routing, h.broadcaster, h.sessions, nil, 2*time.Minute, logger)
	return h
}

func newActor(name string) domain.Actor {
	return domain.Actor{UserID: uuid.New(), Email: name + "@example.com", DisplayName: name}
}

// tripWithGuest creates a trip owned by host with guest invited and joined.
func (h *harness) tripWithGuest(t *testing.T, host, guest domain.Actor) (*domain.Trip, *domain.Member) {
	t.Helper()
	ctx := context.Background()

	created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Weekend"})
	require.NoError(t, err)
	trip := created.Trip

	_, err = h.members.AddGuest(ctx, host, trip.ID, dto.GuestInput{Email: guest.Email, DisplayName: guest.DisplayName})
	require.NoError(t, err)
	_, err = h.members.SendInvites(ctx, host, trip.ID)
	require.NoError(t, err)

	m, err := h.members.JoinTrip(ctx, guest, trip.InviteCode)
	require.NoError(t, err)
	return trip, m
}

func (h *harness) memberOf(t *testing.T, tripID uuid.UUID, actor domain.Actor) *domain.Member {
	t.Helper()
	m, err := h.store.Members.GetByTripAndUser(context.Background(), tripID, actor.UserID)
	require.NoError(t, err)
	return m
}
