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

// TripRepositorySuite tests trips and members against a real database
type TripRepositorySuite struct {
	suite.Suite
	testDB  *testhelpers.TestDB
	trips   repository.TripRepository
	members repository.MemberRepository
	ctx     context.Context
}

func (s *TripRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	db := postgres.NewDBForTest(s.testDB.DB, s.testDB.Logger)
	s.trips = postgres.NewTripRepository(db)
	s.members = postgres.NewMemberRepository(db)
}

func (s *TripRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *TripRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *TripRepositorySuite) createTrip() (*domain.Trip, uuid.UUID) {
	creator := uuid.New()
	trip := testhelpers.NewTrip(creator)
	s.Require().NoError(s.trips.Create(s.ctx, trip))
	host := testhelpers.NewMember(trip.ID, &creator, domain.MemberRoleCreator, domain.MemberStatusJoined, "host@example.com")
	s.Require().NoError(s.members.Create(s.ctx, host))
	return trip, creator
}

func (s *TripRepositorySuite) TestCreateAndGet() {
	trip, _ := s.createTrip()

	got, err := s.trips.GetByID(s.ctx, trip.ID)
	s.NoError(err)
	s.Equal(trip.Title, got.Title)
	s.Equal(domain.TripStatusPlanning, got.Status)
	s.True(got.VotingOpen)
	s.Nil(got.InvitesSentAt)

	byCode, err := s.trips.GetByInviteCode(s.ctx, trip.InviteCode)
	s.NoError(err)
	s.Equal(trip.ID, byCode.ID)
}

func (s *TripRepositorySuite) TestGetByID_NotFound() {
	_, err := s.trips.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, errors.ErrNotFound)
}

func (s *TripRepositorySuite) TestUpdate_PersistsCriteria() {
	trip, _ := s.createTrip()
	trip.LocationMode = domain.LocationModeSpecific
	trip.LocationCriteria = domain.LocationCriteria{
		Destination: &domain.GeoPoint{Lat: 40.7, Lon: -74.0, Name: "NYC"},
	}
	trip.VotingOpen = false

	s.Require().NoError(s.trips.Update(s.ctx, trip))

	got, err := s.trips.GetByID(s.ctx, trip.ID)
	s.Require().NoError(err)
	s.Equal(domain.LocationModeSpecific, got.LocationMode)
	s.Require().NotNil(got.LocationCriteria.Destination)
	s.Equal("NYC", got.LocationCriteria.Destination.Name)
	s.True(got.VotingOpen, "voting has its own setter")
}

func (s *TripRepositorySuite) TestSetters_DoNotOverwriteEachOther() {
	trip, _ := s.createTrip()
	stale, err := s.trips.GetByID(s.ctx, trip.ID)
	s.Require().NoError(err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	date := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.trips.SetConfirmedDate(s.ctx, trip.ID, &date, now))
	s.Require().NoError(s.trips.SetVotingOpen(s.ctx, trip.ID, false, now))

	stale.Title = "Renamed"
	s.Require().NoError(s.trips.Update(s.ctx, stale))

	got, err := s.trips.GetByID(s.ctx, trip.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", got.Title)
	s.False(got.VotingOpen)
	s.Require().NotNil(got.ConfirmedDate)
	s.True(got.ConfirmedDate.Equal(date))

	s.Require().NoError(s.trips.SetConfirmedDate(s.ctx, trip.ID, nil, now))
	got, err = s.trips.GetByID(s.ctx, trip.ID)
	s.Require().NoError(err)
	s.Nil(got.ConfirmedDate)
	s.False(got.VotingOpen)

	s.ErrorIs(s.trips.SetVotingOpen(s.ctx, uuid.New(), true, now), errors.ErrNotFound)
}

func (s *TripRepositorySuite) TestSetStatus_ComparesCurrentStatus() {
	trip, _ := s.createTrip()
	now := time.Now().UTC()

	s.Require().NoError(s.trips.SetStatus(s.ctx, trip.ID, domain.TripStatusPlanning, domain.TripStatusActive, now))

	err := s.trips.SetStatus(s.ctx, trip.ID, domain.TripStatusPlanning, domain.TripStatusCanceled, now)
	s.ErrorIs(err, errors.ErrInvalidState)

	got, err := s.trips.GetByID(s.ctx, trip.ID)
	s.Require().NoError(err)
	s.Equal(domain.TripStatusActive, got.Status)

	err = s.trips.SetStatus(s.ctx, uuid.New(), domain.TripStatusPlanning, domain.TripStatusActive, now)
	s.ErrorIs(err, errors.ErrNotFound)
}

func (s *TripRepositorySuite) TestMarkInvitesSent_KeepsFirstTimestamp() {
	trip, _ := s.createTrip()
	first := time.Now().UTC().Truncate(time.Microsecond)

	stored, err := s.trips.MarkInvitesSent(s.ctx, trip.ID, first)
	s.NoError(err)
	s.WithinDuration(first, stored, time.Millisecond)

	stored, err = s.trips.MarkInvitesSent(s.ctx, trip.ID, first.Add(time.Hour))
	s.NoError(err)
	s.WithinDuration(first, stored, time.Millisecond)
}

func (s *TripRepositorySuite) TestListByUser_ExcludesDeclined() {
	trip, creator := s.createTrip()
	other := uuid.New()
	declined := testhelpers.NewMember(trip.ID, &other, domain.MemberRoleMember, domain.MemberStatusDeclined, "gone@example.com")
	s.Require().NoError(s.members.Create(s.ctx, declined))

	mine, err := s.trips.ListByUser(s.ctx, creator)
	s.NoError(err)
	s.Len(mine, 1)

	theirs, err := s.trips.ListByUser(s.ctx, other)
	s.NoError(err)
	s.Empty(theirs)
}

func (s *TripRepositorySuite) TestMembers_EmailLookupIsCaseInsensitive() {
	trip, _ := s.createTrip()
	m := testhelpers.NewMember(trip.ID, nil, domain.MemberRoleMember, domain.MemberStatusPending, "Friend@Example.com")
	s.Require().NoError(s.members.Create(s.ctx, m))

	got, err := s.members.GetByTripAndEmail(s.ctx, trip.ID, "friend@example.COM")
	s.NoError(err)
	s.Equal(m.ID, got.ID)
}

func (s *TripRepositorySuite) TestMembers_InvitePendingReturnsOnlyChangedRows() {
	trip, _ := s.createTrip()
	for _, email := range []string{"a@example.com", "b@example.com"} {
		m := testhelpers.NewMember(trip.ID, nil, domain.MemberRoleMember, domain.MemberStatusPending, email)
		s.Require().NoError(s.members.Create(s.ctx, m))
	}

	invited, err := s.members.InvitePending(s.ctx, trip.ID, time.Now().UTC())
	s.NoError(err)
	s.Len(invited, 2)
	for _, m := range invited {
		s.Equal(domain.MemberStatusInvited, m.Status)
		s.NotNil(m.InvitedAt)
	}

	again, err := s.members.InvitePending(s.ctx, trip.ID, time.Now().UTC())
	s.NoError(err)
	s.Empty(again)
}

func (s *TripRepositorySuite) TestMembers_UpdateAndDelete() {
	trip, _ := s.createTrip()
	m := testhelpers.NewMember(trip.ID, nil, domain.MemberRoleMember, domain.MemberStatusPending, "c@example.com")
	s.Require().NoError(s.members.Create(s.ctx, m))

	m.SetOrigin(domain.GeoPoint{Lat: 39.95, Lon: -75.16, Name: "Philly"})
	s.Require().NoError(s.members.Update(s.ctx, m))

	got, err := s.members.GetByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Origin())
	s.InDelta(39.95, got.Origin().Lat, 1e-9)

	s.NoError(s.members.Delete(s.ctx, m.ID))
	s.ErrorIs(s.members.Delete(s.ctx, m.ID), errors.ErrNotFound)
}

func TestTripRepositorySuite(t *testing.T) {
	suite.Run(t, new(TripRepositorySuite))
}

func (s *TripRepositorySuite) TestMembers_DuplicateEmailIsInvalidState() {
	trip, _ := s.createTrip()
	first := testhelpers.NewMember(trip.ID, nil, domain.MemberRoleMember, domain.MemberStatusPending, "dup@example.com")
	s.Require().NoError(s.members.Create(s.ctx, first))

	second := testhelpers.NewMember(trip.ID, nil, domain.MemberRoleMember, domain.MemberStatusPending, "DUP@example.com")
	s.ErrorIs(s.members.Create(s.ctx, second), errors.ErrInvalidState)
}
