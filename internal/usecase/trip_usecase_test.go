package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/usecase/dto"
)

func TestDateLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")

	created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Lake weekend"})
	require.NoError(t, err)
	trip := created.Trip
	assert.Equal(t, domain.TripStatusPlanning, trip.Status)
	assert.True(t, trip.VotingOpen)
	assert.Len(t, trip.InviteCode, 8)

	g, err := h.members.AddGuest(ctx, host, trip.ID, dto.GuestInput{Email: guest.Email, DisplayName: "Guest"})
	require.NoError(t, err)
	assert.Equal(t, domain.MemberStatusPending, g.Status)

	first, err := h.members.SendInvites(ctx, host, trip.ID)
	require.NoError(t, err)
	require.Len(t, first.Invited, 1)
	assert.Equal(t, domain.MemberStatusInvited, first.Invited[0].Status)

	second, err := h.members.SendInvites(ctx, host, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Invited)
	assert.True(t, first.InvitesSentAt.Equal(second.InvitesSentAt))

	joined, err := h.members.JoinTrip(ctx, guest, trip.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, g.ID, joined.ID)
	assert.Equal(t, domain.MemberStatusJoined, joined.Status)
	require.NotNil(t, joined.UserID)
	assert.Equal(t, guest.UserID, *joined.UserID)

	d1, err := h.dates.ProposeDate(ctx, guest, trip.ID, dto.ProposeDateRequest{DateStart: "2026-11-20"})
	require.NoError(t, err)
	_, err = h.dates.VoteDateOption(ctx, guest, trip.ID, d1.ID, domain.DateVoteYes)
	require.NoError(t, err)

	confirmed, err := h.dates.ConfirmTripDate(ctx, host, trip.ID, d1.ID)
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedDate)
	assert.True(t, confirmed.ConfirmedDate.Equal(d1.DateStart))

	options, err := h.dates.ListDateOptions(ctx, host, trip.ID)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, d1.ID, options[0].ID)
	require.Len(t, options[0].Votes, 1)
	assert.Equal(t, domain.DateVoteYes, options[0].Votes[0].Vote)
	assert.Equal(t, domain.DateTally{Yes: 1}, options[0].Tally)

	stored, err := h.trips.GetTrip(ctx, guest, trip.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Trip.ConfirmedDate)
	assert.NotNil(t, stored.Trip.InvitesSentAt)
}

func TestMemberUseCase_JoinTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("joining twice returns the same member", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		trip, m := h.tripWithGuest(t, host, guest)

		again, err := h.members.JoinTrip(ctx, guest, trip.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, m.ID, again.ID)

		members, err := h.members.ListMembers(ctx, host, trip.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("invite code admits users without an invitation", func(t *testing.T) {
		h := newHarness(t)
		host, stranger := newActor("host"), newActor("stranger")
		created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Open"})
		require.NoError(t, err)

		m, err := h.members.JoinTrip(ctx, stranger, created.Trip.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, domain.MemberStatusJoined, m.Status)
		assert.Equal(t, domain.MemberRoleMember, m.Role)
	})

	t.Run("declined invitation cannot be redeemed", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Nope"})
		require.NoError(t, err)
		trip := created.Trip
		_, err = h.members.AddGuest(ctx, host, trip.ID, dto.GuestInput{Email: guest.Email})
		require.NoError(t, err)
		_, err = h.members.SendInvites(ctx, host, trip.ID)
		require.NoError(t, err)

		declined, err := h.members.DeclineInvite(ctx, guest, trip.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, domain.MemberStatusDeclined, declined.Status)

		_, err = h.members.JoinTrip(ctx, guest, trip.InviteCode)
		assert.True(t, errors.Is(err, errors.ErrInvalidState))
	})

	t.Run("pending guest joins directly", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Early"})
		require.NoError(t, err)
		_, err = h.members.AddGuest(ctx, host, created.Trip.ID, dto.GuestInput{Email: guest.Email})
		require.NoError(t, err)

		m, err := h.members.JoinTrip(ctx, guest, created.Trip.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, domain.MemberStatusJoined, m.Status)
		assert.NotNil(t, m.InvitedAt)
		assert.NotNil(t, m.JoinedAt)
	})

	t.Run("unknown code", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.members.JoinTrip(ctx, newActor("x"), "ZZZZZZZZ")
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestMemberUseCase_Guests(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Guests"})
	require.NoError(t, err)
	trip := created.Trip

	t.Run("batch reports partial failure", func(t *testing.T) {
		resp, err := h.members.AddGuests(ctx, host, trip.ID, []dto.GuestInput{
			{Email: "a@example.com"},
			{Email: "   "},
			{Email: "B@Example.com"},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Added, 2)
		require.Len(t, resp.Failed, 1)
		assert.Equal(t, "email is required", resp.Failed[0].Reason)
	})

	t.Run("adding the same email is idempotent", func(t *testing.T) {
		first, err := h.members.AddGuest(ctx, host, trip.ID, dto.GuestInput{Email: "a@example.com"})
		require.NoError(t, err)
		second, err := h.members.AddGuest(ctx, host, trip.ID, dto.GuestInput{Email: "A@example.com "})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("only the host adds guests", func(t *testing.T) {
		_, err := h.members.AddGuest(ctx, guest, trip.ID, dto.GuestInput{Email: "c@example.com"})
		assert.True(t, errors.Is(err, errors.ErrForbidden))
	})

	t.Run("remove pending only", func(t *testing.T) {
		m, err := h.members.AddGuest(ctx, host, trip.ID, dto.GuestInput{Email: "gone@example.com"})
		require.NoError(t, err)
		require.NoError(t, h.members.RemovePendingMember(ctx, host, trip.ID, m.ID))

		hostMember := h.memberOf(t, trip.ID, host)
		err = h.members.RemovePendingMember(ctx, host, trip.ID, hostMember.ID)
		assert.True(t, errors.Is(err, errors.ErrInvalidState))
	})
}

func TestMemberUseCase_UpdateMemberOrigin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, g := h.tripWithGuest(t, host, guest)

	t.Run("self", func(t *testing.T) {
		before := h.events.count(domain.EntityMember)
		m, err := h.members.UpdateMemberOrigin(ctx, guest, trip.ID, g.ID, domain.GeoPoint{Lat: 40.7, Lon: -74, Name: "Home"})
		require.NoError(t, err)
		require.NotNil(t, m.Origin())
		assert.Equal(t, "Home", m.Origin().Name)
		assert.Equal(t, before+1, h.events.count(domain.EntityMember))
	})

	t.Run("someone else is forbidden", func(t *testing.T) {
		_, err := h.members.UpdateMemberOrigin(ctx, host, trip.ID, g.ID, domain.GeoPoint{Lat: 1, Lon: 1})
		assert.True(t, errors.Is(err, errors.ErrForbidden))
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		_, err := h.members.UpdateMemberOrigin(ctx, guest, trip.ID, g.ID, domain.GeoPoint{Lat: 91, Lon: 0})
		assert.True(t, errors.Is(err, errors.ErrInvalidCoordinates))
	})
}

func TestTripUseCase_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("start needs a date and a destination", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		trip, _ := h.tripWithGuest(t, host, guest)

		_, err := h.trips.StartTrip(ctx, host, trip.ID)
		assert.True(t, errors.Is(err, errors.ErrInvalidState))

		d, err := h.dates.ProposeDate(ctx, host, trip.ID, dto.ProposeDateRequest{DateStart: "2026-12-01"})
		require.NoError(t, err)
		_, err = h.dates.ConfirmTripDate(ctx, host, trip.ID, d.ID)
		require.NoError(t, err)

		_, err = h.trips.StartTrip(ctx, host, trip.ID)
		assert.True(t, errors.Is(err, errors.ErrInvalidState))

		mode := string(domain.LocationModeSpecific)
		lat, lon := 40.0, -75.0
		_, err = h.trips.UpdateTrip(ctx, host, trip.ID, dto.UpdateTripRequest{
			LocationMode:     &mode,
			LocationCriteria: &dto.CriteriaInput{Destination: &dto.PointInput{Lat: &lat, Lon: &lon}},
		})
		require.NoError(t, err)

		started, err := h.trips.StartTrip(ctx, host, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TripStatusActive, started.Status)
	})

	t.Run("only the host starts", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		trip, _ := h.tripWithGuest(t, host, guest)

		_, err := h.trips.StartTrip(ctx, guest, trip.ID)
		assert.True(t, errors.Is(err, errors.ErrForbidden))
	})

	t.Run("cancel from planning", func(t *testing.T) {
		h := newHarness(t)
		host := newActor("host")
		created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Off"})
		require.NoError(t, err)

		canceled, err := h.trips.CancelTrip(ctx, host, created.Trip.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TripStatusCanceled, canceled.Status)

		_, err = h.trips.CancelTrip(ctx, host, created.Trip.ID)
		assert.True(t, errors.Is(err, errors.ErrInvalidState))

		_, err = h.dates.ProposeDate(ctx, host, created.Trip.ID, dto.ProposeDateRequest{DateStart: "2026-12-01"})
		assert.True(t, errors.Is(err, errors.ErrInvalidState))
	})

	t.Run("complete stops every session", func(t *testing.T) {
		h := newHarness(t)
		host, guest := newActor("host"), newActor("guest")
		trip := startedTrip(t, h, host, guest)

		_, err := h.tracking.StartSharing(ctx, guest, trip.ID)
		require.NoError(t, err)

		done, err := h.trips.CompleteTrip(ctx, host, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TripStatusCompleted, done.Status)
		assert.Contains(t, h.sessions.ops(), "stop_trip")

		statuses, err := h.store.Live.ListByTrip(ctx, trip.ID)
		require.NoError(t, err)
		for _, s := range statuses {
			assert.False(t, s.SharingLocation)
		}
	})

	t.Run("non members cannot read the trip", func(t *testing.T) {
		h := newHarness(t)
		host := newActor("host")
		created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{Title: "Private"})
		require.NoError(t, err)

		_, err = h.trips.GetTrip(ctx, newActor("other"), created.Trip.ID)
		assert.True(t, errors.Is(err, errors.ErrForbidden))

		trips, err := h.trips.ListTripsForUser(ctx, host)
		require.NoError(t, err)
		assert.Len(t, trips, 1)
	})
}

func TestTripUseCase_ConcurrentHostActionsKeepBothFields(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	host, guest := newActor("host"), newActor("guest")
	trip, _ := h.tripWithGuest(t, host, guest)

	d, err := h.dates.ProposeDate(ctx, host, trip.ID, dto.ProposeDateRequest{DateStart: "2026-12-01"})
	require.NoError(t, err)

	title := "Renamed"
	var wg sync.WaitGroup
	errs := make([]error, 3)
	wg.Add(3)
	go func() {
		defer wg.Done()
		_, errs[0] = h.dates.ConfirmTripDate(ctx, host, trip.ID, d.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = h.trips.SetVotingOpen(ctx, host, trip.ID, false)
	}()
	go func() {
		defer wg.Done()
		_, errs[2] = h.trips.UpdateTrip(ctx, host, trip.ID, dto.UpdateTripRequest{Title: &title})
	}()
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := h.trips.GetTrip(ctx, host, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Trip.Title)
	assert.False(t, got.Trip.VotingOpen)
	require.NotNil(t, got.Trip.ConfirmedDate)
	assert.True(t, got.Trip.ConfirmedDate.Equal(d.DateStart))
}

// startedTrip returns an active specific-mode trip with guest joined.
func startedTrip(t *testing.T, h *harness, host, guest domain.Actor) *domain.Trip {
	t.Helper()
	ctx := context.Background()

	lat, lon := 40.0, -75.0
	created, err := h.trips.CreateTrip(ctx, host, dto.CreateTripRequest{
		Title:            "Road trip",
		LocationMode:     string(domain.LocationModeSpecific),
		LocationCriteria: &dto.CriteriaInput{Destination: &dto.PointInput{Lat: &lat, Lon: &lon}},
	})
	require.NoError(t, err)
	trip := created.Trip

	_, err = h.members.JoinTrip(ctx, guest, trip.InviteCode)
	require.NoError(t, err)

	d, err := h.dates.ProposeDate(ctx, host, trip.ID, dto.ProposeDateRequest{DateStart: "2026-12-01"})
	require.NoError(t, err)
	_, err = h.dates.ConfirmTripDate(ctx, host, trip.ID, d.ID)
	require.NoError(t, err)

	started, err := h.trips.StartTrip(ctx, host, trip.ID)
	require.NoError(t, err)
	return started
}
