package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/usecase"
)

func TestTrackingUseCase_RequiresActiveTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	_, err := h.tracking.StartSharing(ctx, guest, trip.ID)
	assert.True(t, errors.Is(err, errors.ErrInvalidState))

	_, err = h.tracking.UpdateLivePosition(ctx, guest, trip.ID, domain.Position{Lat: 40, Lng: -74})
	assert.True(t, errors.Is(err, errors.ErrInvalidState))
	assert.Empty(t, h.sessions.ops())
}

func TestTrackingUseCase_PositionUpdate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip := startedTrip(t, h, host, guest)

	h.routing.On("Route", mock.Anything, mock.Anything, mock.Anything, domain.TravelModeDriving).
		Return(&domain.RouteSet{Routes: []domain.Route{{DurationSeconds: 5400, DistanceMeters: 120000}}}, nil)

	t.Run("needs sharing on", func(t *testing.T) {
		_, err := h.tracking.UpdateLivePosition(ctx, guest, trip.ID, domain.Position{Lat: 40.7, Lng: -74})
		assert.True(t, errors.Is(err, errors.ErrInvalidState))
	})

	t.Run("computes eta and broadcasts", func(t *testing.T) {
		started, err := h.tracking.StartSharing(ctx, guest, trip.ID)
		require.NoError(t, err)
		assert.True(t, started.SharingLocation)
		assert.Equal(t, []string{"start"}, h.sessions.ops())

		status, err := h.tracking.UpdateLivePosition(ctx, guest, trip.ID, domain.Position{Lat: 40.7, Lng: -74})
		require.NoError(t, err)
		require.NotNil(t, status.ETASeconds)
		assert.Equal(t, 5400.0, *status.ETASeconds)
		require.NotNil(t, status.ETAText)
		assert.Equal(t, "1 h 30 min", *status.ETAText)

		require.Len(t, h.broadcaster.messages, 1)
		msg := h.broadcaster.messages[0]
		assert.Equal(t, 40.7, msg.Lat)
		assert.Equal(t, status.MemberID, msg.MemberID)
	})

	t.Run("broadcast failure does not fail the update", func(t *testing.T) {
		h.broadcaster.err = fmt.Errorf("nats down")
		defer func() { h.broadcaster.err = nil }()

		status, err := h.tracking.UpdateLivePosition(ctx, guest, trip.ID, domain.Position{Lat: 40.6, Lng: -74.1})
		require.NoError(t, err)
		assert.Equal(t, 40.6, *status.Lat)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		_, err := h.tracking.UpdateLivePosition(ctx, guest, trip.ID, domain.Position{Lat: 0, Lng: 200})
		assert.True(t, errors.Is(err, errors.ErrInvalidCoordinates))
	})

	t.Run("server refresh keeps the eta fresh", func(t *testing.T) {
		m := h.memberOf(t, trip.ID, guest)
		require.NoError(t, h.tracking.RefreshSnapshot(ctx, trip.ID, m.ID))

		hostMember := h.memberOf(t, trip.ID, host)
		err := h.tracking.RefreshSnapshot(ctx, trip.ID, hostMember.ID)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestTrackingUseCase_MarkArrived(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip := startedTrip(t, h, host, guest)

	h.routing.On("Route", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.RouteSet{Routes: []domain.Route{{DurationSeconds: 30, DistanceMeters: 200}}}, nil)

	_, err := h.tracking.StartSharing(ctx, guest, trip.ID)
	require.NoError(t, err)
	_, err = h.tracking.StartSharing(ctx, host, trip.ID)
	require.NoError(t, err)
	status, err := h.tracking.UpdateLivePosition(ctx, guest, trip.ID, domain.Position{Lat: 40.001, Lng: -75})
	require.NoError(t, err)
	assert.Equal(t, "< 1 min", *status.ETAText)

	arrived, err := h.tracking.MarkArrived(ctx, guest, trip.ID)
	require.NoError(t, err)
	assert.True(t, arrived.Arrived)
	assert.False(t, arrived.SharingLocation)
	assert.Equal(t, 0.0, *arrived.ETASeconds)
	assert.Equal(t, []string{"start", "start", "stop"}, h.sessions.ops())

	last := h.broadcaster.messages[len(h.broadcaster.messages)-1]
	assert.True(t, last.Arrived)

	_, err = h.tracking.StartSharing(ctx, guest, trip.ID)
	assert.True(t, errors.Is(err, errors.ErrInvalidState))

	m := h.memberOf(t, trip.ID, guest)
	err = h.tracking.RefreshSnapshot(ctx, trip.ID, m.ID)
	assert.True(t, errors.Is(err, errors.ErrInvalidState))

	statuses, err := h.tracking.ListLiveStatuses(ctx, host, trip.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		if s.MemberID == m.ID {
			assert.True(t, s.Arrived)
		} else {
			assert.True(t, s.SharingLocation, "other members keep sharing")
		}
	}

	messages, err := h.chat.ListTripMessages(ctx, host, trip.ID, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "guest has arrived", messages[0].Body)
	assert.Equal(t, domain.MessageTypeSystem, messages[0].Type)
}

func TestTrackingUseCase_ListLiveStatuses_Stale(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip := startedTrip(t, h, host, guest)
	m := h.memberOf(t, trip.ID, guest)

	lat, lng := 40.5, -74.5
	old := time.Now().UTC().Add(-10 * time.Minute)
	require.NoError(t, h.store.Live.Upsert(ctx, &domain.LiveStatus{
		TripID:          trip.ID,
		MemberID:        m.ID,
		SharingLocation: true,
		Lat:             &lat,
		Lng:             &lng,
		PositionAt:      &old,
		UpdatedAt:       old,
	}))

	statuses, err := h.tracking.ListLiveStatuses(ctx, host, trip.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Stale)

	stopped, err := h.tracking.StopSharing(ctx, guest, trip.ID)
	require.NoError(t, err)
	assert.False(t, stopped.SharingLocation)

	statuses, err = h.tracking.ListLiveStatuses(ctx, host, trip.ID)
	require.NoError(t, err)
	assert.False(t, statuses[0].Stale)
}

func TestTrackingUseCase_RefreshKeepsPositionAge(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip := startedTrip(t, h, host, guest)
	m := h.memberOf(t, trip.ID, guest)

	h.routing.On("Route", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.RouteSet{Routes: []domain.Route{{DurationSeconds: 600, DistanceMeters: 9000}}}, nil)

	_, err := h.tracking.StartSharing(ctx, guest, trip.ID)
	require.NoError(t, err)

	// the phone went quiet ten minutes ago
	lat, lng := 40.2, -74.4
	old := time.Now().UTC().Add(-10 * time.Minute)
	require.NoError(t, h.store.Live.Upsert(ctx, &domain.LiveStatus{
		TripID:          trip.ID,
		MemberID:        m.ID,
		SharingLocation: true,
		Lat:             &lat,
		Lng:             &lng,
		PositionAt:      &old,
		UpdatedAt:       old,
	}))

	require.NoError(t, h.tracking.RefreshSnapshot(ctx, trip.ID, m.ID))

	statuses, err := h.tracking.ListLiveStatuses(ctx, host, trip.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	got := statuses[0]
	assert.True(t, got.Stale, "a server refresh is not a new position")
	require.NotNil(t, got.ETASeconds)
	assert.Equal(t, 600.0, *got.ETASeconds)
	assert.True(t, got.PositionAt.Equal(old))

	require.NotEmpty(t, h.broadcaster.messages)
	last := h.broadcaster.messages[len(h.broadcaster.messages)-1]
	require.NotNil(t, last.PositionAt)
	assert.True(t, last.PositionAt.Equal(old))
}

func TestTrackingUseCase_RefreshYieldsToNewerPosition(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip := startedTrip(t, h, host, guest)
	m := h.memberOf(t, trip.ID, guest)

	route := func(eta float64) *domain.RouteSet {
		return &domain.RouteSet{Routes: []domain.Route{{DurationSeconds: eta, DistanceMeters: eta * 10}}}
	}
	entered, release := make(chan struct{}), make(chan struct{})
	h.routing.On("Route", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(route(5400), nil).Once()
	h.routing.On("Route", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(route(9999), nil).Once()
	h.routing.On("Route", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(route(600), nil)

	_, err := h.tracking.StartSharing(ctx, guest, trip.ID)
	require.NoError(t, err)
	_, err = h.tracking.UpdateLivePosition(ctx, guest, trip.ID, domain.Position{Lat: 40, Lng: -74})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- h.tracking.RefreshSnapshot(ctx, trip.ID, m.ID) }()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("refresh never reached routing")
	}
	_, err = h.tracking.UpdateLivePosition(ctx, guest, trip.ID, domain.Position{Lat: 41.5, Lng: -74})
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)

	stored, err := h.store.Live.Get(ctx, trip.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 41.5, *stored.Lat)
	assert.Equal(t, 600.0, *stored.ETASeconds)

	for _, msg := range h.broadcaster.messages {
		require.NotNil(t, msg.ETASeconds)
		assert.NotEqual(t, 9999.0, *msg.ETASeconds, "superseded refresh was broadcast")
	}
	last := h.broadcaster.messages[len(h.broadcaster.messages)-1]
	assert.Equal(t, 41.5, last.Lat)
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "< 1 min"},
		{29, "< 1 min"},
		{90, "2 min"},
		{3540, "59 min"},
		{3600, "1 h 00 min"},
		{9000, "2 h 30 min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usecase.FormatETA(tt.seconds), "seconds=%v", tt.seconds)
	}
}

func TestChatUseCase(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	t.Run("messages keep send order", func(t *testing.T) {
		for i := range 5 {
			_, err := h.chat.SendTripMessage(ctx, guest, trip.ID, fmt.Sprintf("msg %d", i))
			require.NoError(t, err)
		}

		messages, err := h.chat.ListTripMessages(ctx, host, trip.ID, 0)
		require.NoError(t, err)
		// the join announcement comes first
		require.Len(t, messages, 6)
		assert.Equal(t, "guest joined the trip", messages[0].Body)
		for i := 1; i < len(messages); i++ {
			assert.True(t, messages[i-1].Before(messages[i]))
			assert.Equal(t, fmt.Sprintf("msg %d", i-1), messages[i].Body)
		}

		latest, err := h.chat.ListTripMessages(ctx, host, trip.ID, 2)
		require.NoError(t, err)
		require.Len(t, latest, 2)
		assert.Equal(t, "msg 4", latest[1].Body)
	})

	t.Run("body limits", func(t *testing.T) {
		_, err := h.chat.SendTripMessage(ctx, guest, trip.ID, "   ")
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

		long := make([]rune, 2001)
		for i := range long {
			long[i] = 'é'
		}
		_, err = h.chat.SendTripMessage(ctx, guest, trip.ID, string(long))
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
		_, err = h.chat.SendTripMessage(ctx, guest, trip.ID, string(long[:2000]))
		assert.NoError(t, err)
	})

	t.Run("outsiders cannot post", func(t *testing.T) {
		_, err := h.chat.SendTripMessage(ctx, newActor("outsider"), trip.ID, "hi")
		assert.True(t, errors.Is(err, errors.ErrForbidden))
	})

	t.Run("canceled trips are read only", func(t *testing.T) {
		_, err := h.trips.CancelTrip(ctx, host, trip.ID)
		require.NoError(t, err)

		messages, err := h.chat.ListTripMessages(ctx, guest, trip.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "The trip was canceled", messages[0].Body)

		_, err = h.chat.SendTripMessage(ctx, guest, trip.ID, "too late")
		assert.True(t, errors.Is(err, errors.ErrInvalidState))
	})
}

func TestGroupMessagesByDate(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }
	messages := []*domain.Message{
		{Body: "a", CreatedAt: day(1, 3)},
		{Body: "b", CreatedAt: day(1, 23)},
		{Body: "c", CreatedAt: day(2, 2)},
	}

	days := usecase.GroupMessagesByDate(messages, time.UTC)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Len(t, days[0].Messages, 2)
	assert.Equal(t, "c", days[1].Messages[0].Body)

	shifted := usecase.GroupMessagesByDate(messages, time.FixedZone("EST", -5*3600))
	require.Len(t, shifted, 2)
	assert.Equal(t, "2026-02-28", shifted[0].Date)
	assert.Len(t, shifted[0].Messages, 1)
	assert.Len(t, shifted[1].Messages, 2)

	assert.Empty(t, usecase.GroupMessagesByDate(nil, nil))
}
