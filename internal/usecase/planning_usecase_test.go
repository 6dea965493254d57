package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

func TestDateUseCase_VoteReplaces(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	end := "2026-11-22"
	option, err := h.dates.ProposeDate(ctx, host, trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-20", DateEnd: &end})
	require.NoError(t, err)
	require.NotNil(t, option.DateEnd)

	_, err = h.dates.VoteDateOption(ctx, guest, trip.ID, option.ID, domain.DateVoteYes)
	require.NoError(t, err)
	withVotes, err := h.dates.VoteDateOption(ctx, guest, trip.ID, option.ID, domain.DateVoteMaybe)
	require.NoError(t, err)

	require.Len(t, withVotes.Votes, 1)
	assert.Equal(t, domain.DateVoteMaybe, withVotes.Votes[0].Vote)
	assert.Equal(t, domain.DateTally{Maybe: 1}, withVotes.Tally)
}

func TestDateUseCase_Rules(t *testing.T) {
	ctx := context.Background()

	t.Run("end before start", func(t *testing.T) {
		h := newHarness(t)
		host := newActor("host")
		created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "x"})
		require.NoError(t, err)

		end := "2026-11-19"
		_, err = h.dates.ProposeDate(ctx, host, created.Trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-20", DateEnd: &end})
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	})

	t.Run("confirmed date freezes options until unconfirmed", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		trip, _ := h.tripWithGuest(t, host, guest)

		first, err := h.dates.ProposeDate(ctx, host, trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-20"})
		require.NoError(t, err)
		second, err := h.dates.ProposeDate(ctx, guest, trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-27"})
		require.NoError(t, err)

		_, err = h.dates.ConfirmTripDate(ctx, guest, trip.ID, first.ID)
		assert.True(t, errors.Is(err, errors.ErrForbidden))

		_, err = h.dates.ConfirmTripDate(ctx, host, trip.ID, first.ID)
		require.NoError(t, err)

		_, err = h.dates.VoteDateOption(ctx, guest, trip.ID, second.ID, domain.DateVoteYes)
		assert.True(t, errors.Is(err, errors.ErrInvalidState))
		_, err = h.dates.ProposeDate(ctx, guest, trip.ID, dto.ProposeDateRequest{DateStart: "2026-12-04"})
		assert.True(t, errors.Is(err, errors.ErrInvalidState))

		replaced, err := h.dates.ConfirmTripDate(ctx, host, trip.ID, second.ID)
		require.NoError(t, err)
		assert.True(t, replaced.ConfirmedDate.Equal(second.DateStart))

		reopened, err := h.dates.UnconfirmTripDate(ctx, host, trip.ID)
		require.NoError(t, err)
		assert.Nil(t, reopened.ConfirmedDate)

		_, err = h.dates.VoteDateOption(ctx, guest, trip.ID, second.ID, domain.DateVoteYes)
		assert.NoError(t, err)
	})

	t.Run("only the author or host deletes", func(t *testing.T) {
		h := newHarness(t)
		host, guest, other := newActor("host"), newActor("guest"), newActor("other")
		trip, _ := h.tripWithGuest(t, host, guest)
		_, err := h.members.JoinTrip(ctx, other, trip.InviteCode)
		require.NoError(t, err)

		option, err := h.dates.ProposeDate(ctx, guest, trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-20"})
		require.NoError(t, err)

		err = h.dates.DeleteDateOption(ctx, other, trip.ID, option.ID)
		assert.True(t, errors.Is(err, errors.ErrForbidden))
		require.NoError(t, h.dates.DeleteDateOption(ctx, host, trip.ID, option.ID))

		options, err := h.dates.ListDateOptions(ctx, guest, trip.ID)
		require.NoError(t, err)
		assert.Empty(t, options)
	})

	t.Run("members cannot propose when disabled", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		closed := false
		created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Host picks", MembersCanPropose: &closed})
		require.NoError(t, err)
		_, err = h.members.JoinTrip(ctx, guest, created.Trip.InviteCode)
		require.NoError(t, err)

		_, err = h.dates.ProposeDate(ctx, guest, created.Trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-20"})
		assert.True(t, errors.Is(err, errors.ErrForbidden))
		_, err = h.dates.ProposeDate(ctx, host, created.Trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-20"})
		assert.NoError(t, err)
	})
}

func TestLocationUseCase_VoteToggles(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	loc, err := h.locations.ProposeLocation(ctx, guest, trip.ID, dto.ProposeLocationRequest{Name: "Cabin", Lat: 41.0, Lng: -74.5})
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceManual, loc.Provenance)

	up, err := h.locations.VoteLocation(ctx, guest, trip.ID, loc.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, up.Score)

	down, err := h.locations.VoteLocation(ctx, guest, trip.ID, loc.ID, domain.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -1, down.Score)
	require.Len(t, down.Votes, 1)

	retracted, err := h.locations.VoteLocation(ctx, guest, trip.ID, loc.ID, domain.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, retracted.Score)
	assert.Empty(t, retracted.Votes)
}

func TestLocationUseCase_VotingClosed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	loc, err := h.locations.ProposeLocation(ctx, host, trip.ID, dto.ProposeLocationRequest{Name: "Lodge", Lat: 41.0, Lng: -74.5})
	require.NoError(t, err)
	date, err := h.dates.ProposeDate(ctx, host, trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-20"})
	require.NoError(t, err)

	_, err = h.trips.SetVotingOpen(ctx, guest, trip.ID, false)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	closed, err := h.trips.SetVotingOpen(ctx, host, trip.ID, false)
	require.NoError(t, err)
	assert.False(t, closed.VotingOpen)

	_, err = h.locations.VoteLocation(ctx, guest, trip.ID, loc.ID, domain.VoteUp)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	_, err = h.dates.VoteDateOption(ctx, guest, trip.ID, date.ID, domain.DateVoteYes)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	_, err = h.locations.VoteLocation(ctx, host, trip.ID, loc.ID, domain.VoteUp)
	assert.NoError(t, err)
	_, err = h.dates.VoteDateOption(ctx, host, trip.ID, date.ID, domain.DateVoteYes)
	assert.NoError(t, err)
}

func TestLocationUseCase_ConfirmIsExclusive(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	a, err := h.locations.ProposeLocation(ctx, host, trip.ID, dto.ProposeLocationRequest{Name: "A", Lat: 41.0, Lng: -74.0})
	require.NoError(t, err)
	b, err := h.locations.ProposeLocation(ctx, guest, trip.ID, dto.ProposeLocationRequest{Name: "B", Lat: 40.5, Lng: -74.5})
	require.NoError(t, err)

	_, err = h.locations.ConfirmTripLocation(ctx, host, trip.ID, a.ID)
	require.NoError(t, err)
	confirmed, err := h.locations.ConfirmTripLocation(ctx, host, trip.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedLocationID)
	assert.Equal(t, b.ID, *confirmed.ConfirmedLocationID)

	locations, err := h.locations.ListLocations(ctx, guest, trip.ID)
	require.NoError(t, err)
	var flagged []uuid.UUID
	for _, l := range locations {
		if l.IsConfirmed {
			flagged = append(flagged, l.ID)
		}
	}
	assert.Equal(t, []uuid.UUID{b.ID}, flagged)

	_, err = h.locations.ProposeLocation(ctx, guest, trip.ID, dto.ProposeLocationRequest{Name: "C", Lat: 40, Lng: -74})
	assert.True(t, errors.Is(err, errors.ErrInvalidState))

	dest, err := h.trips.GetTripDestination(ctx, confirmed)
	require.NoError(t, err)
	require.NotNil(t, dest)
	assert.Equal(t, 40.5, dest.Lat)

	reopened, err := h.locations.UnconfirmTripLocation(ctx, host, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, reopened.ConfirmedLocationID)

	messages, err := h.chat.ListTripMessages(ctx, guest, trip.ID, 0)
	require.NoError(t, err)
	var bodies []string
	for _, m := range messages {
		bodies = append(bodies, m.Body)
	}
	assert.Contains(t, bodies, "Location confirmed: B")
}

func TestLocationUseCase_FindGroupMidpoint(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, g := h.tripWithGuest(t, host, guest)

	_, err := h.members.UpdateMemberOrigin(ctx, host, trip.ID, h.memberOf(t, trip.ID, host).ID, newYork)
	require.NoError(t, err)
	_, err = h.members.UpdateMemberOrigin(ctx, guest, trip.ID, g.ID, philadelphia)
	require.NoError(t, err)

	rows := []domain.PerOriginCost{
		{OriginIndex: 0, DurationSeconds: 3600, DistanceMeters: 80000, Reachable: true},
		{OriginIndex: 1, DurationSeconds: 3600, DistanceMeters: 80000, Reachable: true},
	}
	h.routing.On("DistanceMatrix", mock.Anything, mock.Anything, mock.Anything, domain.TravelModeDriving).Return(rows, nil)
	h.geocoding.On("ReverseGeocode", mock.Anything, mock.Anything).Return(domain.GeoPoint{Name: "Princeton, NJ"}, nil)

	resp, err := h.locations.FindGroupMidpoint(ctx, guest, trip.ID, dto.GroupMidpointLocationRequest{})
	require.NoError(t, err)

	loc := resp.Location
	assert.Equal(t, "Group midpoint", loc.Name)
	assert.Equal(t, "Princeton, NJ", loc.Address)
	assert.Equal(t, domain.ProvenanceAlgorithmMidpoint, loc.Provenance)
	require.NotNil(t, loc.Notes)
	assert.Equal(t, "Optimized for equal drive time, max drive: 60 min", *loc.Notes)
	assert.Len(t, resp.Result.Costs, 2)
	assert.True(t, resp.Result.Result.Converged)

	locations, err := h.locations.ListLocations(ctx, host, trip.ID)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Len(t, locations[0].Distances, 2)
	assert.Equal(t, 1, h.events.count(domain.EntityDistance))
}

func TestLocationUseCase_FindGroupMidpoint_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("fixed destination", func(t *testing.T) {
		h := newHarness(t)
		host := newActor("host")
		lat, lon := 40.0, -75.0
		created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{
			Title:            "Fixed",
			LocationMode:     string(domain.LocationModeSpecific),
			LocationCriteria: &dto.CriteriaInput{Destination: &dto.PointInput{Lat: &lat, Lon: &lon}},
		})
		require.NoError(t, err)

		_, err = h.locations.FindGroupMidpoint(ctx, host, created.Trip.ID, dto.GroupMidpointLocationRequest{})
		assert.True(t, errors.Is(err, errors.ErrInvalidState))
	})

	t.Run("not enough origins", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		trip, g := h.tripWithGuest(t, host, guest)
		_, err := h.members.UpdateMemberOrigin(ctx, guest, trip.ID, g.ID, philadelphia)
		require.NoError(t, err)

		_, err = h.locations.FindGroupMidpoint(ctx, host, trip.ID, dto.GroupMidpointLocationRequest{})
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
		h.routing.AssertNotCalled(t, "DistanceMatrix", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLocationUseCase_RefreshLocationDistances_Batches(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host := newActor("host")
	created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Big group"})
	require.NoError(t, err)
	trip := created.Trip

	for i := range 30 {
		a := newActor(uuid.NewString())
		m, err := h.members.JoinTrip(ctx, a, trip.InviteCode)
		require.NoError(t, err)
		_, err = h.members.UpdateMemberOrigin(ctx, a, trip.ID, m.ID, domain.GeoPoint{Lat: 40 + float64(i)/100, Lon: -74})
		require.NoError(t, err)
	}

	batch := func(n int) []domain.PerOriginCost {
		rows := make([]domain.PerOriginCost, n)
		for i := range rows {
			rows[i] = domain.PerOriginCost{OriginIndex: i, DurationSeconds: 600, DistanceMeters: 9000, Reachable: true}
		}
		return rows
	}
	h.routing.On("DistanceMatrix", mock.Anything, mock.MatchedBy(func(o []domain.GeoPoint) bool { return len(o) == 24 }), mock.Anything, mock.Anything).Return(batch(24), nil).Once()
	h.routing.On("DistanceMatrix", mock.Anything, mock.MatchedBy(func(o []domain.GeoPoint) bool { return len(o) == 6 }), mock.Anything, mock.Anything).Return(batch(6), nil).Once()

	// proposing refreshes inline
	loc, err := h.locations.ProposeLocation(ctx, host, trip.ID, dto.ProposeLocationRequest{Name: "Hall", Lat: 41, Lng: -74})
	require.NoError(t, err)
	h.routing.AssertExpectations(t)

	distances, err := h.store.Locations.ListDistances(ctx, loc.ID)
	require.NoError(t, err)
	assert.Len(t, distances, 30)
}

func TestMemberUseCase_OriginRefreshWiring(t *testing.T) {
	tests := []struct {
		name        string
		syncRefresh bool
		matrixCalls int
	}{
		{name: "distance worker consumes the stream", syncRefresh: false, matrixCalls: 0},
		{name: "no worker refreshes inline", syncRefresh: true, matrixCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t)
			logger := zap.NewNop()
			retry := usecase.RetryPolicy{}

			notifier := usecase.NewNotifier(h.events, nil, nil, logger)
			midpoint := usecase.NewMidpointUseCase(h.routing, h.geocoding, config.MidpointConfig{}, retry, nil, logger)
			locations := usecase.NewLocationUseCase(h.store, notifier, h.chat, midpoint, h.routing, h.geocoding, retry, tt.syncRefresh, logger)

			refresher := locations.InlineRefresher()
			if tt.syncRefresh {
				assert.NotNil(t, refresher)
			} else {
				assert.Nil(t, refresher)
			}
			members := usecase.NewMemberUseCase(h.store, notifier, h.chat, usecase.NewLogInviteSender(logger), refresher, logger)

			host, guest := newActor("host"), newActor("guest")
			trip, g := h.tripWithGuest(t, host, guest)
			_, err := locations.ProposeLocation(ctx, host, trip.ID, dto.ProposeLocationRequest{Name: "Cabin", Lat: 41, Lng: -74})
			require.NoError(t, err)

			h.routing.On("DistanceMatrix", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return([]domain.PerOriginCost{{OriginIndex: 0, DurationSeconds: 600, DistanceMeters: 9000, Reachable: true}}, nil)

			before := h.events.count(domain.EntityMember)
			_, err = members.UpdateMemberOrigin(ctx, guest, trip.ID, g.ID, domain.GeoPoint{Lat: 40.7, Lon: -74})
			require.NoError(t, err)

			assert.Equal(t, before+1, h.events.count(domain.EntityMember), "origin change is always announced")
			h.routing.AssertNumberOfCalls(t, "DistanceMatrix", tt.matrixCalls)
		})
	}
}

func TestItineraryUseCase_Stops(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	var ids []uuid.UUID
	for _, name := range []string{"Breakfast", "Hike", "Dinner"} {
		stop, err := h.itinerary.AddTripStop(ctx, guest, trip.ID, dto.AddTripStopRequest{DayNumber: 1, Name: name})
		require.NoError(t, err)
		ids = append(ids, stop.ID)
	}
	_, err := h.itinerary.AddTripStop(ctx, host, trip.ID, dto.AddTripStopRequest{DayNumber: 2, Name: "Drive home"})
	require.NoError(t, err)

	stops, err := h.itinerary.ListTripStops(ctx, host, trip.ID)
	require.NoError(t, err)
	require.Len(t, stops, 4)
	assert.Equal(t, []int{0, 1, 2, 0}, []int{stops[0].SortOrder, stops[1].SortOrder, stops[2].SortOrder, stops[3].SortOrder})

	t.Run("reorder", func(t *testing.T) {
		ordered, err := h.itinerary.ReorderTripStops(ctx, host, trip.ID, 1, []uuid.UUID{ids[2], ids[0], ids[1]})
		require.NoError(t, err)
		require.Len(t, ordered, 3)

		stops, err := h.itinerary.ListTripStops(ctx, host, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dinner", stops[0].Name)
		assert.Equal(t, "Breakfast", stops[1].Name)
		assert.Equal(t, "Hike", stops[2].Name)
		assert.Equal(t, "Drive home", stops[3].Name)
	})

	t.Run("reorder must name the whole day", func(t *testing.T) {
		_, err := h.itinerary.ReorderTripStops(ctx, host, trip.ID, 1, []uuid.UUID{ids[0], ids[1]})
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
		_, err = h.itinerary.ReorderTripStops(ctx, host, trip.ID, 1, []uuid.UUID{ids[0], ids[0], ids[1]})
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	})

	t.Run("status transitions", func(t *testing.T) {
		skipped := string(domain.StopStatusSkipped)
		stop, err := h.itinerary.UpdateTripStop(ctx, guest, trip.ID, ids[1], dto.UpdateTripStopRequest{Status: &skipped})
		require.NoError(t, err)
		assert.Equal(t, domain.StopStatusSkipped, stop.Status)

		confirmed := string(domain.StopStatusConfirmed)
		_, err = h.itinerary.UpdateTripStop(ctx, guest, trip.ID, ids[1], dto.UpdateTripStopRequest{Status: &confirmed})
		assert.True(t, errors.Is(err, errors.ErrInvalidState))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, h.itinerary.DeleteTripStop(ctx, host, trip.ID, ids[0]))
		_, err := h.itinerary.UpdateTripStop(ctx, host, trip.ID, ids[0], dto.UpdateTripStopRequest{})
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestItineraryUseCase_Options(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	lodging, err := h.itinerary.AddTripOption(ctx, guest, trip.ID, dto.AddTripOptionRequest{Category: "lodging", Name: "Inn"})
	require.NoError(t, err)
	_, err = h.itinerary.AddTripOption(ctx, host, trip.ID, dto.AddTripOptionRequest{Category: "food", Name: "Diner"})
	require.NoError(t, err)

	voted, err := h.itinerary.VoteTripOption(ctx, host, trip.ID, lodging.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Score)
	voted, err = h.itinerary.VoteTripOption(ctx, host, trip.ID, lodging.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 0, voted.Score)

	onlyLodging, err := h.itinerary.ListTripOptions(ctx, guest, trip.ID, "lodging")
	require.NoError(t, err)
	require.Len(t, onlyLodging, 1)
	assert.Equal(t, "Inn", onlyLodging[0].Name)

	_, err = h.itinerary.ListTripOptions(ctx, guest, trip.ID, "spa")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	lat := 95.0
	lng := 0.0
	_, err = h.itinerary.AddTripOption(ctx, guest, trip.ID, dto.AddTripOptionRequest{Category: "poi", Name: "Nowhere", Lat: &lat, Lng: &lng})
	assert.True(t, errors.Is(err, errors.ErrInvalidCoordinates))
}
