package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase/dto"
)

// ItineraryUseCase - trip options (lodging, sights, food) and daily stops
type ItineraryUseCase struct {
	coordinator
}

func NewItineraryUseCase(store TripStore, notifier *Notifier, logger *zap.Logger) *ItineraryUseCase {
	return &ItineraryUseCase{coordinator: newCoordinator(store, notifier, logger)}
}

func (uc *ItineraryUseCase) AddTripOption(ctx context.Context, actor domain.Actor, tripID uuid.UUID, req dto.AddTripOptionRequest) (*domain.TripOption, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}

	category := domain.OptionCategory(req.Category)
	if !category.Valid() {
		return nil, errors.ErrInvalidRequest.WithMessage("category must be lodging, poi or food")
	}
	if err := validateOptionalPoint(req.Lat, req.Lng); err != nil {
		return nil, err
	}

	option := &domain.TripOption{
		ID:        uuid.New(),
		TripID:    tripID,
		Category:  category,
		Name:      req.Name,
		Address:   req.Address,
		Lat:       req.Lat,
		Lng:       req.Lng,
		URL:       req.URL,
		Notes:     req.Notes,
		AddedBy:   m.ID,
		CreatedAt: uc.now(),
	}
	if err := uc.store.Itinerary.CreateOption(ctx, option); err != nil {
		return nil, err
	}

	uc.notify(ctx, tripID, domain.EntityTripOption, option.ID, domain.ActionCreated)
	return option, nil
}

// VoteTripOption toggles like location votes: the same value twice retracts.
func (uc *ItineraryUseCase) VoteTripOption(ctx context.Context, actor domain.Actor, tripID, optionID uuid.UUID, value domain.UpDownVote) (*domain.TripOptionWithVotes, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}
	if err := canVote(trip, m); err != nil {
		return nil, err
	}
	if !value.Valid() {
		return nil, errors.ErrInvalidRequest.WithMessage("vote must be up or down")
	}

	option, err := uc.option(ctx, tripID, optionID)
	if err != nil {
		return nil, err
	}

	current, err := uc.store.Itinerary.GetOptionVote(ctx, optionID, m.ID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}
	if current != nil && current.Vote == value {
		err = uc.store.Itinerary.DeleteOptionVote(ctx, optionID, m.ID)
	} else {
		err = uc.store.Itinerary.UpsertOptionVote(ctx, &domain.OptionVote{
			OptionID:  optionID,
			MemberID:  m.ID,
			Vote:      value,
			UpdatedAt: uc.now(),
		})
	}
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, tripID, domain.EntityOptionVote, optionID, domain.ActionUpdated)
	return uc.optionWithVotes(ctx, option)
}

func (uc *ItineraryUseCase) DeleteTripOption(ctx context.Context, actor domain.Actor, tripID, optionID uuid.UUID) error {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return err
	}
	if err := requireOpen(trip); err != nil {
		return err
	}
	option, err := uc.option(ctx, tripID, optionID)
	if err != nil {
		return err
	}
	if err := ownerOrHost(m, option.AddedBy); err != nil {
		return err
	}

	if err := uc.store.Itinerary.DeleteOption(ctx, optionID); err != nil {
		return err
	}
	uc.notify(ctx, tripID, domain.EntityTripOption, optionID, domain.ActionDeleted)
	return nil
}

// ListTripOptions returns options with votes; an empty category lists all.
func (uc *ItineraryUseCase) ListTripOptions(ctx context.Context, actor domain.Actor, tripID uuid.UUID, category string) ([]*domain.TripOptionWithVotes, error) {
	if _, _, err := uc.memberAccess(ctx, tripID, actor); err != nil {
		return nil, err
	}
	cat := domain.OptionCategory(category)
	if cat != "" && !cat.Valid() {
		return nil, errors.ErrInvalidRequest.WithMessage("category must be lodging, poi or food")
	}

	options, err := uc.store.Itinerary.ListOptions(ctx, tripID, cat)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.TripOptionWithVotes, 0, len(options))
	for _, o := range options {
		withVotes, err := uc.optionWithVotes(ctx, o)
		if err != nil {
			return nil, err
		}
		result = append(result, withVotes)
	}
	return result, nil
}

// AddTripStop appends a stop to the end of its day.
func (uc *ItineraryUseCase) AddTripStop(ctx context.Context, actor domain.Actor, tripID uuid.UUID, req dto.AddTripStopRequest) (*domain.TripStop, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}
	if req.DayNumber < 1 {
		return nil, errors.ErrInvalidRequest.WithMessage("day_number must be at least 1")
	}
	if err := validateOptionalPoint(req.Lat, req.Lng); err != nil {
		return nil, err
	}

	last, err := uc.store.Itinerary.MaxSortOrder(ctx, tripID, req.DayNumber)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	stop := &domain.TripStop{
		ID:        uuid.New(),
		TripID:    tripID,
		DayNumber: req.DayNumber,
		SortOrder: last + 1,
		Name:      req.Name,
		Address:   req.Address,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Category:  strings.TrimSpace(req.Category),
		Status:    domain.StopStatusPlanned,
		Notes:     req.Notes,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		AddedBy:   m.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.store.Itinerary.CreateStop(ctx, stop); err != nil {
		return nil, err
	}

	uc.notify(ctx, tripID, domain.EntityTripStop, stop.ID, domain.ActionCreated)
	return stop, nil
}

// UpdateTripStop edits a stop and moves it through planned, confirmed,
// skipped and completed.
func (uc *ItineraryUseCase) UpdateTripStop(ctx context.Context, actor domain.Actor, tripID, stopID uuid.UUID, req dto.UpdateTripStopRequest) (*domain.TripStop, error) {
	trip, _, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}
	stop, err := uc.stop(ctx, tripID, stopID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		next := domain.StopStatus(*req.Status)
		if !next.Valid() {
			return nil, errors.ErrInvalidRequest.WithMessage("unknown stop status %q", *req.Status)
		}
		if !stop.Status.CanTransition(next) {
			return nil, errors.ErrInvalidState.WithMessage("cannot move stop from %s to %s", stop.Status, next)
		}
		stop.Status = next
	}
	if req.Name != nil {
		stop.Name = *req.Name
	}
	if req.Notes != nil {
		stop.Notes = req.Notes
	}
	if req.StartTime != nil {
		stop.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		stop.EndTime = req.EndTime
	}

	if err := uc.store.Itinerary.UpdateStop(ctx, stop); err != nil {
		return nil, err
	}
	uc.notify(ctx, tripID, domain.EntityTripStop, stop.ID, domain.ActionUpdated)
	return stop, nil
}

// ReorderTripStops rewrites the sort order of one day. stopIDs must name
// every stop of that day exactly once.
func (uc *ItineraryUseCase) ReorderTripStops(ctx context.Context, actor domain.Actor, tripID uuid.UUID, day int, stopIDs []uuid.UUID) ([]*domain.TripStop, error) {
	trip, _, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}

	all, err := uc.store.Itinerary.ListStops(ctx, tripID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.TripStop)
	for _, s := range all {
		if s.DayNumber == day {
			byID[s.ID] = s
		}
	}
	if len(stopIDs) != len(byID) {
		return nil, errors.ErrInvalidRequest.WithMessage("stop_ids must list every stop of day %d", day)
	}

	ordered := make([]*domain.TripStop, 0, len(stopIDs))
	seen := make(map[uuid.UUID]bool, len(stopIDs))
	for _, id := range stopIDs {
		s, ok := byID[id]
		if !ok || seen[id] {
			return nil, errors.ErrInvalidRequest.WithMessage("stop_ids must list every stop of day %d", day)
		}
		seen[id] = true
		ordered = append(ordered, s)
	}

	if err := uc.store.Itinerary.ReorderStops(ctx, tripID, stopIDs); err != nil {
		return nil, err
	}
	for i, s := range ordered {
		s.SortOrder = i
	}

	uc.notify(ctx, tripID, domain.EntityTripStop, tripID, domain.ActionUpdated)
	return ordered, nil
}

func (uc *ItineraryUseCase) DeleteTripStop(ctx context.Context, actor domain.Actor, tripID, stopID uuid.UUID) error {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return err
	}
	if err := requireOpen(trip); err != nil {
		return err
	}
	stop, err := uc.stop(ctx, tripID, stopID)
	if err != nil {
		return err
	}
	if err := ownerOrHost(m, stop.AddedBy); err != nil {
		return err
	}

	if err := uc.store.Itinerary.DeleteStop(ctx, stopID); err != nil {
		return err
	}
	uc.notify(ctx, tripID, domain.EntityTripStop, stopID, domain.ActionDeleted)
	return nil
}

// ListTripStops - ordered by day, then sort order
func (uc *ItineraryUseCase) ListTripStops(ctx context.Context, actor domain.Actor, tripID uuid.UUID) ([]*domain.TripStop, error) {
	if _, _, err := uc.memberAccess(ctx, tripID, actor); err != nil {
		return nil, err
	}
	return uc.store.Itinerary.ListStops(ctx, tripID)
}

func (uc *ItineraryUseCase) option(ctx context.Context, tripID, optionID uuid.UUID) (*domain.TripOption, error) {
	option, err := uc.store.Itinerary.GetOption(ctx, optionID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrNotFound.WithMessage("trip option not found")
		}
		return nil, err
	}
	if err := belongsToTrip(option.TripID, tripID, "trip option"); err != nil {
		return nil, err
	}
	return option, nil
}

func (uc *ItineraryUseCase) stop(ctx context.Context, tripID, stopID uuid.UUID) (*domain.TripStop, error) {
	stop, err := uc.store.Itinerary.GetStop(ctx, stopID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrNotFound.WithMessage("stop not found")
		}
		return nil, err
	}
	if err := belongsToTrip(stop.TripID, tripID, "stop"); err != nil {
		return nil, err
	}
	return stop, nil
}

func (uc *ItineraryUseCase) optionWithVotes(ctx context.Context, option *domain.TripOption) (*domain.TripOptionWithVotes, error) {
	votes, err := uc.store.Itinerary.ListOptionVotes(ctx, option.ID)
	if err != nil {
		return nil, err
	}
	if votes == nil {
		votes = []domain.OptionVote{}
	}
	values := make([]domain.UpDownVote, len(votes))
	for i, v := range votes {
		values[i] = v.Vote
	}
	return &domain.TripOptionWithVotes{
		TripOption: *option,
		Votes:      votes,
		Score:      domain.ScoreUpDown(values),
	}, nil
}

func validateOptionalPoint(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return errors.ErrInvalidRequest.WithMessage("lat and lng must be given together")
	}
	if lat != nil && !utils.ValidateCoordinates(*lat, *lng) {
		return errors.ErrInvalidCoordinates
	}
	return nil
}
