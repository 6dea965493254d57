package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
)

type tripRepository struct {
	s *Store
}

func NewTripRepository(s *Store) repository.TripRepository {
	return &tripRepository{s: s}
}

func (r *tripRepository) Create(_ context.Context, trip *domain.Trip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.trips {
		if t.InviteCode == trip.InviteCode {
			return errors.ErrInvalidState.WithMessage("invite code already in use")
		}
	}
	r.s.trips[trip.ID] = *trip
	return nil
}

func (r *tripRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.trips[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &t, nil
}

func (r *tripRepository) GetByInviteCode(_ context.Context, code string) (*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.trips {
		if t.InviteCode == code {
			t := t
			return &t, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *tripRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	trips := []*domain.Trip{}
	for _, m := range r.s.members {
		if m.Status == domain.MemberStatusDeclined || !m.BelongsTo(userID) || seen[m.TripID] {
			continue
		}
		if t, ok := r.s.trips[m.TripID]; ok {
			seen[m.TripID] = true
			trips = append(trips, &t)
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].CreatedAt.After(trips[j].CreatedAt) })
	return trips, nil
}

func (r *tripRepository) Update(_ context.Context, trip *domain.Trip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.trips[trip.ID]
	if !ok {
		return errors.ErrNotFound
	}
	stored.Title = trip.Title
	stored.Description = trip.Description
	stored.MembersCanPropose = trip.MembersCanPropose
	stored.LocationMode = trip.LocationMode
	stored.LocationCriteria = trip.LocationCriteria
	stored.UpdatedAt = time.Now().UTC()
	r.s.trips[trip.ID] = stored
	*trip = stored
	return nil
}

func (r *tripRepository) SetVotingOpen(_ context.Context, tripID uuid.UUID, open bool, at time.Time) error {
	return r.modify(tripID, at, func(t *domain.Trip) error {
		t.VotingOpen = open
		return nil
	})
}

func (r *tripRepository) SetConfirmedDate(_ context.Context, tripID uuid.UUID, date *time.Time, at time.Time) error {
	return r.modify(tripID, at, func(t *domain.Trip) error {
		t.ConfirmedDate = date
		return nil
	})
}

func (r *tripRepository) SetConfirmedLocation(_ context.Context, tripID uuid.UUID, locationID *uuid.UUID, at time.Time) error {
	return r.modify(tripID, at, func(t *domain.Trip) error {
		t.ConfirmedLocationID = locationID
		return nil
	})
}

func (r *tripRepository) SetStatus(_ context.Context, tripID uuid.UUID, from, to domain.TripStatus, at time.Time) error {
	return r.modify(tripID, at, func(t *domain.Trip) error {
		if t.Status != from {
			return errors.ErrInvalidState.WithMessage("trip is no longer %s", from)
		}
		t.Status = to
		return nil
	})
}

func (r *tripRepository) modify(tripID uuid.UUID, at time.Time, fn func(*domain.Trip) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.trips[tripID]
	if !ok {
		return errors.ErrNotFound
	}
	if err := fn(&t); err != nil {
		return err
	}
	t.UpdatedAt = at
	r.s.trips[tripID] = t
	return nil
}

func (r *tripRepository) MarkInvitesSent(_ context.Context, tripID uuid.UUID, at time.Time) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.trips[tripID]
	if !ok {
		return time.Time{}, errors.ErrNotFound
	}
	if t.InvitesSentAt == nil {
		t.InvitesSentAt = &at
	}
	t.UpdatedAt = at
	r.s.trips[tripID] = t
	return *t.InvitesSentAt, nil
}

type memberRepository struct {
	s *Store
}

func NewMemberRepository(s *Store) repository.MemberRepository {
	return &memberRepository{s: s}
}

func (r *memberRepository) Create(_ context.Context, m *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.members {
		if existing.TripID != m.TripID {
			continue
		}
		if m.Email != "" && strings.EqualFold(existing.Email, m.Email) {
			return errors.ErrInvalidState.WithMessage("member already exists")
		}
		if m.UserID != nil && existing.Status != domain.MemberStatusDeclined && existing.BelongsTo(*m.UserID) {
			return errors.ErrInvalidState.WithMessage("member already exists")
		}
	}
	r.s.members[m.ID] = *m
	return nil
}

func (r *memberRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.members[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &m, nil
}

func (r *memberRepository) GetByTripAndUser(_ context.Context, tripID, userID uuid.UUID) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.members {
		if m.TripID == tripID && m.Status != domain.MemberStatusDeclined && m.BelongsTo(userID) {
			return &m, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *memberRepository) GetByTripAndEmail(_ context.Context, tripID uuid.UUID, email string) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.members {
		if m.TripID == tripID && strings.EqualFold(m.Email, email) {
			return &m, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *memberRepository) ListByTrip(_ context.Context, tripID uuid.UUID) ([]*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listLocked(tripID), nil
}

func (r *memberRepository) listLocked(tripID uuid.UUID) []*domain.Member {
	members := []*domain.Member{}
	for _, m := range r.s.members {
		if m.TripID == tripID {
			m := m
			members = append(members, &m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		}
		return members[i].ID.String() < members[j].ID.String()
	})
	return members
}

func (r *memberRepository) Update(_ context.Context, m *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.members[m.ID]; !ok {
		return errors.ErrNotFound
	}
	m.UpdatedAt = time.Now().UTC()
	r.s.members[m.ID] = *m
	return nil
}

func (r *memberRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.members[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.s.members, id)
	return nil
}

func (r *memberRepository) InvitePending(_ context.Context, tripID uuid.UUID, at time.Time) ([]*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	invited := []*domain.Member{}
	for _, m := range r.listLocked(tripID) {
		if m.Status != domain.MemberStatusPending {
			continue
		}
		m.Status = domain.MemberStatusInvited
		invitedAt := at
		m.InvitedAt = &invitedAt
		m.UpdatedAt = at
		r.s.members[m.ID] = *m
		invited = append(invited, m)
	}
	return invited, nil
}
