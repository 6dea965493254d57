package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
)

type dateRepository struct {
	s *Store
}

func NewDateRepository(s *Store) repository.DateRepository {
	return &dateRepository{s: s}
}

func (r *dateRepository) CreateOption(_ context.Context, o *domain.DateOption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.dateOptions[o.ID] = *o
	return nil
}

func (r *dateRepository) GetOption(_ context.Context, id uuid.UUID) (*domain.DateOption, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.dateOptions[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &o, nil
}

func (r *dateRepository) ListOptions(_ context.Context, tripID uuid.UUID) ([]*domain.DateOption, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	options := []*domain.DateOption{}
	for _, o := range r.s.dateOptions {
		if o.TripID == tripID {
			o := o
			options = append(options, &o)
		}
	}
	sort.Slice(options, func(i, j int) bool {
		if !options[i].DateStart.Equal(options[j].DateStart) {
			return options[i].DateStart.Before(options[j].DateStart)
		}
		return options[i].CreatedAt.Before(options[j].CreatedAt)
	})
	return options, nil
}

func (r *dateRepository) DeleteOption(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.dateOptions[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.s.dateOptions, id)
	for k := range r.s.dateVotes {
		if k.subject == id {
			delete(r.s.dateVotes, k)
		}
	}
	return nil
}

func (r *dateRepository) UpsertVote(_ context.Context, v *domain.DateVote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.dateVotes[voteKey{v.OptionID, v.MemberID}] = *v
	return nil
}

func (r *dateRepository) ListVotes(_ context.Context, optionID uuid.UUID) ([]domain.DateVote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	votes := []domain.DateVote{}
	for k, v := range r.s.dateVotes {
		if k.subject == optionID {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].UpdatedAt.Before(votes[j].UpdatedAt) })
	return votes, nil
}

type locationRepository struct {
	s *Store
}

func NewLocationRepository(s *Store) repository.LocationRepository {
	return &locationRepository{s: s}
}

func (r *locationRepository) Create(_ context.Context, l *domain.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.locations[l.ID] = *l
	return nil
}

func (r *locationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.locations[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &l, nil
}

func (r *locationRepository) ListByTrip(_ context.Context, tripID uuid.UUID) ([]*domain.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	locations := []*domain.Location{}
	for _, l := range r.s.locations {
		if l.TripID == tripID {
			l := l
			locations = append(locations, &l)
		}
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].CreatedAt.Before(locations[j].CreatedAt) })
	return locations, nil
}

func (r *locationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.locations[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.s.locations, id)
	for k := range r.s.locVotes {
		if k.subject == id {
			delete(r.s.locVotes, k)
		}
	}
	for k := range r.s.distances {
		if k.subject == id {
			delete(r.s.distances, k)
		}
	}
	return nil
}

func (r *locationRepository) SetConfirmed(_ context.Context, tripID uuid.UUID, locationID *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, l := range r.s.locations {
		if l.TripID != tripID {
			continue
		}
		l.IsConfirmed = locationID != nil && *locationID == id
		r.s.locations[id] = l
	}
	return nil
}

func (r *locationRepository) GetVote(_ context.Context, locationID, memberID uuid.UUID) (*domain.LocationVote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.locVotes[voteKey{locationID, memberID}]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &v, nil
}

func (r *locationRepository) UpsertVote(_ context.Context, v *domain.LocationVote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.locVotes[voteKey{v.LocationID, v.MemberID}] = *v
	return nil
}

func (r *locationRepository) DeleteVote(_ context.Context, locationID, memberID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.locVotes, voteKey{locationID, memberID})
	return nil
}

func (r *locationRepository) ListVotes(_ context.Context, locationID uuid.UUID) ([]domain.LocationVote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	votes := []domain.LocationVote{}
	for k, v := range r.s.locVotes {
		if k.subject == locationID {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].UpdatedAt.Before(votes[j].UpdatedAt) })
	return votes, nil
}

func (r *locationRepository) UpsertDistance(_ context.Context, d *domain.LocationDistance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.distances[voteKey{d.LocationID, d.MemberID}] = *d
	return nil
}

func (r *locationRepository) ListDistances(_ context.Context, locationID uuid.UUID) ([]domain.LocationDistance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	distances := []domain.LocationDistance{}
	for k, d := range r.s.distances {
		if k.subject == locationID {
			distances = append(distances, d)
		}
	}
	sort.Slice(distances, func(i, j int) bool {
		return distances[i].MemberID.String() < distances[j].MemberID.String()
	})
	return distances, nil
}

type itineraryRepository struct {
	s *Store
}

func NewItineraryRepository(s *Store) repository.ItineraryRepository {
	return &itineraryRepository{s: s}
}

func (r *itineraryRepository) CreateOption(_ context.Context, o *domain.TripOption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.options[o.ID] = *o
	return nil
}

func (r *itineraryRepository) GetOption(_ context.Context, id uuid.UUID) (*domain.TripOption, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.options[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &o, nil
}

func (r *itineraryRepository) ListOptions(_ context.Context, tripID uuid.UUID, category domain.OptionCategory) ([]*domain.TripOption, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	options := []*domain.TripOption{}
	for _, o := range r.s.options {
		if o.TripID == tripID && (category == "" || o.Category == category) {
			o := o
			options = append(options, &o)
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].CreatedAt.Before(options[j].CreatedAt) })
	return options, nil
}

func (r *itineraryRepository) DeleteOption(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.options[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.s.options, id)
	for k := range r.s.optionVotes {
		if k.subject == id {
			delete(r.s.optionVotes, k)
		}
	}
	return nil
}

func (r *itineraryRepository) GetOptionVote(_ context.Context, optionID, memberID uuid.UUID) (*domain.OptionVote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.optionVotes[voteKey{optionID, memberID}]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &v, nil
}

func (r *itineraryRepository) UpsertOptionVote(_ context.Context, v *domain.OptionVote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.optionVotes[voteKey{v.OptionID, v.MemberID}] = *v
	return nil
}

func (r *itineraryRepository) DeleteOptionVote(_ context.Context, optionID, memberID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.optionVotes, voteKey{optionID, memberID})
	return nil
}

func (r *itineraryRepository) ListOptionVotes(_ context.Context, optionID uuid.UUID) ([]domain.OptionVote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	votes := []domain.OptionVote{}
	for k, v := range r.s.optionVotes {
		if k.subject == optionID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (r *itineraryRepository) CreateStop(_ context.Context, st *domain.TripStop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stops[st.ID] = *st
	return nil
}

func (r *itineraryRepository) GetStop(_ context.Context, id uuid.UUID) (*domain.TripStop, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.stops[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &st, nil
}

func (r *itineraryRepository) UpdateStop(_ context.Context, st *domain.TripStop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.stops[st.ID]; !ok {
		return errors.ErrNotFound
	}
	st.UpdatedAt = time.Now().UTC()
	r.s.stops[st.ID] = *st
	return nil
}

func (r *itineraryRepository) ReorderStops(_ context.Context, tripID uuid.UUID, stopIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range stopIDs {
		if st, ok := r.s.stops[id]; !ok || st.TripID != tripID {
			return errors.ErrNotFound
		}
	}
	now := time.Now().UTC()
	for i, id := range stopIDs {
		st := r.s.stops[id]
		st.SortOrder = i
		st.UpdatedAt = now
		r.s.stops[id] = st
	}
	return nil
}

func (r *itineraryRepository) DeleteStop(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.stops[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.s.stops, id)
	return nil
}

func (r *itineraryRepository) ListStops(_ context.Context, tripID uuid.UUID) ([]*domain.TripStop, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stops := []*domain.TripStop{}
	for _, st := range r.s.stops {
		if st.TripID == tripID {
			st := st
			stops = append(stops, &st)
		}
	}
	sort.Slice(stops, func(i, j int) bool {
		a, b := stops[i], stops[j]
		if a.DayNumber != b.DayNumber {
			return a.DayNumber < b.DayNumber
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return stops, nil
}

func (r *itineraryRepository) MaxSortOrder(_ context.Context, tripID uuid.UUID, day int) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	maxOrder := -1
	for _, st := range r.s.stops {
		if st.TripID == tripID && st.DayNumber == day && st.SortOrder > maxOrder {
			maxOrder = st.SortOrder
		}
	}
	return maxOrder, nil
}

type messageRepository struct {
	s *Store
}

func NewMessageRepository(s *Store) repository.MessageRepository {
	return &messageRepository{s: s}
}

func (r *messageRepository) Create(_ context.Context, m *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.messages[m.TripID] = append(r.s.messages[m.TripID], *m)
	return nil
}

func (r *messageRepository) ListByTrip(_ context.Context, tripID uuid.UUID, limit int) ([]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]domain.Message, len(r.s.messages[tripID]))
	copy(all, r.s.messages[tripID])
	sort.SliceStable(all, func(i, j int) bool { return all[i].Before(&all[j]) })

	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	messages := make([]*domain.Message, len(all))
	for i := range all {
		messages[i] = &all[i]
	}
	return messages, nil
}

type liveStatusRepository struct {
	s *Store
}

func NewLiveStatusRepository(s *Store) repository.LiveStatusRepository {
	return &liveStatusRepository{s: s}
}

func (r *liveStatusRepository) Upsert(_ context.Context, st *domain.LiveStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.live[voteKey{st.TripID, st.MemberID}] = *st
	return nil
}

func (r *liveStatusRepository) Get(_ context.Context, tripID, memberID uuid.UUID) (*domain.LiveStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.live[voteKey{tripID, memberID}]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &st, nil
}

func (r *liveStatusRepository) ListByTrip(_ context.Context, tripID uuid.UUID) ([]*domain.LiveStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	statuses := []*domain.LiveStatus{}
	for k, st := range r.s.live {
		if k.subject == tripID {
			st := st
			statuses = append(statuses, &st)
		}
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].MemberID.String() < statuses[j].MemberID.String()
	})
	return statuses, nil
}

func (r *liveStatusRepository) UpdateETA(_ context.Context, st *domain.LiveStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := voteKey{st.TripID, st.MemberID}
	stored, ok := r.s.live[key]
	if !ok || !stored.SharingLocation || stored.Arrived || !stored.SamePosition(st) {
		return false, nil
	}
	stored.ETAText = st.ETAText
	stored.ETASeconds = st.ETASeconds
	stored.DistanceRemainingMeters = st.DistanceRemainingMeters
	stored.UpdatedAt = st.UpdatedAt
	r.s.live[key] = stored
	return true, nil
}

func (r *liveStatusRepository) StopAllSharing(_ context.Context, tripID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	for k, st := range r.s.live {
		if k.subject == tripID && st.SharingLocation {
			st.SharingLocation = false
			st.UpdatedAt = now
			r.s.live[k] = st
		}
	}
	return nil
}
