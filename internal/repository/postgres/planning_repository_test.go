package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/repository/postgres"
	"github.com/split-the-distance/internal/repository/postgres/testhelpers"
)

// PlanningRepositorySuite covers the per-trip collaborative records.
type PlanningRepositorySuite struct {
	suite.Suite
	testDB    *testhelpers.TestDB
	trips     repository.TripRepository
	members   repository.MemberRepository
	dates     repository.DateRepository
	locations repository.LocationRepository
	itinerary repository.ItineraryRepository
	messages  repository.MessageRepository
	live      repository.LiveStatusRepository
	ctx       context.Context

	trip *domain.Trip
	host *domain.Member
}

func (s *PlanningRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	db := postgres.NewDBForTest(s.testDB.DB, s.testDB.Logger)
	s.trips = postgres.NewTripRepository(db)
	s.members = postgres.NewMemberRepository(db)
	s.dates = postgres.NewDateRepository(db)
	s.locations = postgres.NewLocationRepository(db)
	s.itinerary = postgres.NewItineraryRepository(db)
	s.messages = postgres.NewMessageRepository(db)
	s.live = postgres.NewLiveStatusRepository(db)
}

func (s *PlanningRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *PlanningRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))

	creator := uuid.New()
	s.trip = testhelpers.NewTrip(creator)
	s.Require().NoError(s.trips.Create(s.ctx, s.trip))
	s.host = testhelpers.NewMember(s.trip.ID, &creator, domain.MemberRoleCreator, domain.MemberStatusJoined, "host@example.com")
	s.Require().NoError(s.members.Create(s.ctx, s.host))
}

func (s *PlanningRepositorySuite) TestDateVote_UpsertReplaces() {
	opt := &domain.DateOption{
		ID:         uuid.New(),
		TripID:     s.trip.ID,
		ProposedBy: s.host.ID,
		DateStart:  time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Now().UTC(),
	}
	s.Require().NoError(s.dates.CreateOption(s.ctx, opt))

	vote := &domain.DateVote{OptionID: opt.ID, MemberID: s.host.ID, Vote: domain.DateVoteYes, UpdatedAt: time.Now().UTC()}
	s.Require().NoError(s.dates.UpsertVote(s.ctx, vote))
	vote.Vote = domain.DateVoteNo
	s.Require().NoError(s.dates.UpsertVote(s.ctx, vote))

	votes, err := s.dates.ListVotes(s.ctx, opt.ID)
	s.NoError(err)
	s.Require().Len(votes, 1)
	s.Equal(domain.DateVoteNo, votes[0].Vote)

	s.NoError(s.dates.DeleteOption(s.ctx, opt.ID))
	_, err = s.dates.GetOption(s.ctx, opt.ID)
	s.ErrorIs(err, errors.ErrNotFound)
}

func (s *PlanningRepositorySuite) newLocation(name string) *domain.Location {
	l := &domain.Location{
		ID:         uuid.New(),
		TripID:     s.trip.ID,
		ProposedBy: s.host.ID,
		Name:       name,
		Lat:        40.1,
		Lng:        -75.1,
		Provenance: domain.ProvenanceManual,
		CreatedAt:  time.Now().UTC(),
	}
	s.Require().NoError(s.locations.Create(s.ctx, l))
	return l
}

func (s *PlanningRepositorySuite) TestLocation_SetConfirmedIsExclusive() {
	a := s.newLocation("A")
	b := s.newLocation("B")

	s.Require().NoError(s.locations.SetConfirmed(s.ctx, s.trip.ID, &a.ID))
	s.Require().NoError(s.locations.SetConfirmed(s.ctx, s.trip.ID, &b.ID))

	list, err := s.locations.ListByTrip(s.ctx, s.trip.ID)
	s.Require().NoError(err)
	confirmed := 0
	for _, l := range list {
		if l.IsConfirmed {
			confirmed++
			s.Equal(b.ID, l.ID)
		}
	}
	s.Equal(1, confirmed)

	s.Require().NoError(s.locations.SetConfirmed(s.ctx, s.trip.ID, nil))
	got, err := s.locations.GetByID(s.ctx, b.ID)
	s.NoError(err)
	s.False(got.IsConfirmed)
}

func (s *PlanningRepositorySuite) TestLocation_VotesAndDistances() {
	l := s.newLocation("Cafe")

	_, err := s.locations.GetVote(s.ctx, l.ID, s.host.ID)
	s.ErrorIs(err, errors.ErrNotFound)

	s.Require().NoError(s.locations.UpsertVote(s.ctx, &domain.LocationVote{
		LocationID: l.ID, MemberID: s.host.ID, Vote: domain.VoteUp, UpdatedAt: time.Now().UTC(),
	}))
	votes, err := s.locations.ListVotes(s.ctx, l.ID)
	s.NoError(err)
	s.Len(votes, 1)

	s.Require().NoError(s.locations.DeleteVote(s.ctx, l.ID, s.host.ID))
	votes, err = s.locations.ListVotes(s.ctx, l.ID)
	s.NoError(err)
	s.Empty(votes)

	d := &domain.LocationDistance{LocationID: l.ID, MemberID: s.host.ID, DurationSeconds: 600, DistanceMeters: 5000, UpdatedAt: time.Now().UTC()}
	s.Require().NoError(s.locations.UpsertDistance(s.ctx, d))
	d.DurationSeconds = 900
	s.Require().NoError(s.locations.UpsertDistance(s.ctx, d))

	distances, err := s.locations.ListDistances(s.ctx, l.ID)
	s.NoError(err)
	s.Require().Len(distances, 1)
	s.Equal(900.0, distances[0].DurationSeconds)
}

func (s *PlanningRepositorySuite) TestItinerary_OptionsFilterByCategory() {
	for _, c := range []domain.OptionCategory{domain.OptionCategoryLodging, domain.OptionCategoryFood, domain.OptionCategoryFood} {
		s.Require().NoError(s.itinerary.CreateOption(s.ctx, &domain.TripOption{
			ID: uuid.New(), TripID: s.trip.ID, Category: c, Name: string(c), AddedBy: s.host.ID, CreatedAt: time.Now().UTC(),
		}))
	}

	food, err := s.itinerary.ListOptions(s.ctx, s.trip.ID, domain.OptionCategoryFood)
	s.NoError(err)
	s.Len(food, 2)

	all, err := s.itinerary.ListOptions(s.ctx, s.trip.ID, "")
	s.NoError(err)
	s.Len(all, 3)
}

func (s *PlanningRepositorySuite) TestItinerary_StopsOrdering() {
	maxOrder, err := s.itinerary.MaxSortOrder(s.ctx, s.trip.ID, 1)
	s.NoError(err)
	s.Equal(-1, maxOrder)

	now := time.Now().UTC()
	for i, name := range []string{"second", "first"} {
		s.Require().NoError(s.itinerary.CreateStop(s.ctx, &domain.TripStop{
			ID: uuid.New(), TripID: s.trip.ID, DayNumber: 1, SortOrder: 1 - i, Name: name,
			Category: "poi", Status: domain.StopStatusPlanned, AddedBy: s.host.ID, CreatedAt: now, UpdatedAt: now,
		}))
	}

	maxOrder, err = s.itinerary.MaxSortOrder(s.ctx, s.trip.ID, 1)
	s.NoError(err)
	s.Equal(1, maxOrder)

	stops, err := s.itinerary.ListStops(s.ctx, s.trip.ID)
	s.NoError(err)
	s.Require().Len(stops, 2)
	s.Equal("first", stops[0].Name)

	stops[0].Status = domain.StopStatusCompleted
	s.NoError(s.itinerary.UpdateStop(s.ctx, stops[0]))
	got, err := s.itinerary.GetStop(s.ctx, stops[0].ID)
	s.NoError(err)
	s.Equal(domain.StopStatusCompleted, got.Status)
}

func (s *PlanningRepositorySuite) TestItinerary_ReorderStopsIsAtomic() {
	now := time.Now().UTC()
	ids := make([]uuid.UUID, 3)
	for i, name := range []string{"a", "b", "c"} {
		ids[i] = uuid.New()
		s.Require().NoError(s.itinerary.CreateStop(s.ctx, &domain.TripStop{
			ID: ids[i], TripID: s.trip.ID, DayNumber: 2, SortOrder: i, Name: name,
			Category: "poi", Status: domain.StopStatusPlanned, AddedBy: s.host.ID, CreatedAt: now, UpdatedAt: now,
		}))
	}

	s.Require().NoError(s.itinerary.ReorderStops(s.ctx, s.trip.ID, []uuid.UUID{ids[2], ids[0], ids[1]}))
	stops, err := s.itinerary.ListStops(s.ctx, s.trip.ID)
	s.Require().NoError(err)
	s.Equal([]string{"c", "a", "b"}, []string{stops[0].Name, stops[1].Name, stops[2].Name})

	// an unknown id rolls the whole reorder back
	err = s.itinerary.ReorderStops(s.ctx, s.trip.ID, []uuid.UUID{ids[0], ids[1], uuid.New()})
	s.True(errors.Is(err, errors.ErrNotFound))
	stops, err = s.itinerary.ListStops(s.ctx, s.trip.ID)
	s.Require().NoError(err)
	s.Equal("c", stops[0].Name)
}

func (s *PlanningRepositorySuite) TestMessages_LatestInAscendingOrder() {
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.messages.Create(s.ctx, &domain.Message{
			ID: uuid.New(), Seq: int64(i + 1), TripID: s.trip.ID, Type: domain.MessageTypeUser,
			MemberID: &s.host.ID, Body: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := s.messages.ListByTrip(s.ctx, s.trip.ID, 3)
	s.NoError(err)
	s.Require().Len(msgs, 3)
	s.Equal("c", msgs[0].Body)
	s.Equal("e", msgs[2].Body)
}

func (s *PlanningRepositorySuite) TestLiveStatus_UpsertAndStopAll() {
	lat, lng := 40.0, -75.0
	st := &domain.LiveStatus{
		TripID: s.trip.ID, MemberID: s.host.ID, SharingLocation: true,
		Lat: &lat, Lng: &lng, UpdatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.live.Upsert(s.ctx, st))
	st.Arrived = true
	s.Require().NoError(s.live.Upsert(s.ctx, st))

	got, err := s.live.Get(s.ctx, s.trip.ID, s.host.ID)
	s.Require().NoError(err)
	s.True(got.Arrived)
	s.True(got.SharingLocation)

	s.Require().NoError(s.live.StopAllSharing(s.ctx, s.trip.ID))
	list, err := s.live.ListByTrip(s.ctx, s.trip.ID)
	s.NoError(err)
	s.Require().Len(list, 1)
	s.False(list[0].SharingLocation)
}

func (s *PlanningRepositorySuite) TestLiveStatus_UpdateETAKeepsNewerPosition() {
	lat, lng := 40.0, -75.0
	at := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.live.Upsert(s.ctx, &domain.LiveStatus{
		TripID: s.trip.ID, MemberID: s.host.ID, SharingLocation: true,
		Lat: &lat, Lng: &lng, PositionAt: &at, UpdatedAt: at,
	}))

	read, err := s.live.Get(s.ctx, s.trip.ID, s.host.ID)
	s.Require().NoError(err)

	// a newer sample lands while the refresh is routing
	newLat := 41.5
	later := at.Add(time.Second)
	s.Require().NoError(s.live.Upsert(s.ctx, &domain.LiveStatus{
		TripID: s.trip.ID, MemberID: s.host.ID, SharingLocation: true,
		Lat: &newLat, Lng: &lng, PositionAt: &later, UpdatedAt: later,
	}))

	eta := 900.0
	read.ETASeconds = &eta
	read.UpdatedAt = later.Add(time.Second)
	written, err := s.live.UpdateETA(s.ctx, read)
	s.Require().NoError(err)
	s.False(written)

	got, err := s.live.Get(s.ctx, s.trip.ID, s.host.ID)
	s.Require().NoError(err)
	s.Equal(41.5, *got.Lat)
	s.Nil(got.ETASeconds)
	s.True(got.PositionAt.Equal(later))

	got.ETASeconds = &eta
	written, err = s.live.UpdateETA(s.ctx, got)
	s.Require().NoError(err)
	s.True(written)

	got, err = s.live.Get(s.ctx, s.trip.ID, s.host.ID)
	s.Require().NoError(err)
	s.Equal(900.0, *got.ETASeconds)
	s.True(got.PositionAt.Equal(later), "eta writes leave position_at alone")
}

func TestPlanningRepositorySuite(t *testing.T) {
	suite.Run(t, new(PlanningRepositorySuite))
}
