package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/usecase/dto"
)

const dateLayout = "2006-01-02"

// DateUseCase - date proposals, votes and confirmation
type DateUseCase struct {
	coordinator
	chat *ChatUseCase
}

func NewDateUseCase(store TripStore, notifier *Notifier, chat *ChatUseCase, logger *zap.Logger) *DateUseCase {
	return &DateUseCase{
		coordinator: newCoordinator(store, notifier, logger),
		chat:        chat,
	}
}

// ProposeDate adds a date option while no date is confirmed.
func (uc *DateUseCase) ProposeDate(ctx context.Context, actor domain.Actor, tripID uuid.UUID, req dto.ProposeDateRequest) (*domain.DateOption, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := dateOptionsMutable(trip); err != nil {
		return nil, err
	}
	if err := canPropose(trip, m); err != nil {
		return nil, err
	}

	start, err := time.Parse(dateLayout, req.DateStart)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithMessage("date_start must be YYYY-MM-DD")
	}
	option := &domain.DateOption{
		ID:         uuid.New(),
		TripID:     tripID,
		ProposedBy: m.ID,
		DateStart:  start,
		Label:      req.Label,
		CreatedAt:  uc.now(),
	}
	if req.DateEnd != nil && *req.DateEnd != "" {
		end, err := time.Parse(dateLayout, *req.DateEnd)
		if err != nil {
			return nil, errors.ErrInvalidRequest.WithMessage("date_end must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return nil, errors.ErrInvalidRequest.WithMessage("date_end is before date_start")
		}
		option.DateEnd = &end
	}

	if err := uc.store.Dates.CreateOption(ctx, option); err != nil {
		return nil, err
	}
	uc.notify(ctx, tripID, domain.EntityDateOption, option.ID, domain.ActionCreated)
	return option, nil
}

// VoteDateOption records the caller's vote, replacing any earlier one.
func (uc *DateUseCase) VoteDateOption(ctx context.Context, actor domain.Actor, tripID, optionID uuid.UUID, value domain.DateVoteValue) (*domain.DateOptionWithVotes, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := dateOptionsMutable(trip); err != nil {
		return nil, err
	}
	if err := canVote(trip, m); err != nil {
		return nil, err
	}
	if !value.Valid() {
		return nil, errors.ErrInvalidRequest.WithMessage("vote must be yes, maybe or no")
	}

	option, err := uc.option(ctx, tripID, optionID)
	if err != nil {
		return nil, err
	}

	vote := &domain.DateVote{
		OptionID:  optionID,
		MemberID:  m.ID,
		Vote:      value,
		UpdatedAt: uc.now(),
	}
	if err := uc.store.Dates.UpsertVote(ctx, vote); err != nil {
		return nil, err
	}

	uc.notify(ctx, tripID, domain.EntityDateVote, optionID, domain.ActionUpdated)
	return uc.withVotes(ctx, option)
}

// DeleteDateOption - proposer or host, before confirmation
func (uc *DateUseCase) DeleteDateOption(ctx context.Context, actor domain.Actor, tripID, optionID uuid.UUID) error {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return err
	}
	if err := dateOptionsMutable(trip); err != nil {
		return err
	}

	option, err := uc.option(ctx, tripID, optionID)
	if err != nil {
		return err
	}
	if err := ownerOrHost(m, option.ProposedBy); err != nil {
		return err
	}

	if err := uc.store.Dates.DeleteOption(ctx, optionID); err != nil {
		return err
	}
	uc.notify(ctx, tripID, domain.EntityDateOption, optionID, domain.ActionDeleted)
	return nil
}

// ConfirmTripDate copies the option's start date to the trip, replacing any
// earlier confirmation. Options and votes are left untouched.
func (uc *DateUseCase) ConfirmTripDate(ctx context.Context, actor domain.Actor, tripID, optionID uuid.UUID) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requirePlanning(trip); err != nil {
		return nil, err
	}

	option, err := uc.option(ctx, tripID, optionID)
	if err != nil {
		return nil, err
	}
	if trip.DateLocked() && trip.ConfirmedDate.Equal(option.DateStart) {
		return trip, nil
	}

	confirmed := option.DateStart
	now := uc.now()
	if err := uc.store.Trips.SetConfirmedDate(ctx, tripID, &confirmed, now); err != nil {
		return nil, err
	}
	trip.ConfirmedDate = &confirmed
	trip.UpdatedAt = now

	uc.logger.Info("Trip date confirmed",
		zap.String("trip_id", tripID.String()),
		zap.String("date", confirmed.Format(dateLayout)),
	)
	uc.notify(ctx, tripID, domain.EntityTrip, tripID, domain.ActionUpdated)
	uc.chat.PostSystemMessage(ctx, tripID, "Date confirmed: "+confirmed.Format("Mon, Jan 2 2006"))
	return trip, nil
}

// UnconfirmTripDate reopens date planning.
func (uc *DateUseCase) UnconfirmTripDate(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requirePlanning(trip); err != nil {
		return nil, err
	}
	if !trip.DateLocked() {
		return trip, nil
	}

	now := uc.now()
	if err := uc.store.Trips.SetConfirmedDate(ctx, tripID, nil, now); err != nil {
		return nil, err
	}
	trip.ConfirmedDate = nil
	trip.UpdatedAt = now
	uc.notify(ctx, tripID, domain.EntityTrip, tripID, domain.ActionUpdated)
	return trip, nil
}

// ListDateOptions - options with their votes and yes/maybe/no tallies
func (uc *DateUseCase) ListDateOptions(ctx context.Context, actor domain.Actor, tripID uuid.UUID) ([]*domain.DateOptionWithVotes, error) {
	if _, _, err := uc.memberAccess(ctx, tripID, actor); err != nil {
		return nil, err
	}

	options, err := uc.store.Dates.ListOptions(ctx, tripID)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.DateOptionWithVotes, 0, len(options))
	for _, o := range options {
		withVotes, err := uc.withVotes(ctx, o)
		if err != nil {
			return nil, err
		}
		result = append(result, withVotes)
	}
	return result, nil
}

func (uc *DateUseCase) option(ctx context.Context, tripID, optionID uuid.UUID) (*domain.DateOption, error) {
	option, err := uc.store.Dates.GetOption(ctx, optionID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrNotFound.WithMessage("date option not found")
		}
		return nil, err
	}
	if err := belongsToTrip(option.TripID, tripID, "date option"); err != nil {
		return nil, err
	}
	return option, nil
}

func (uc *DateUseCase) withVotes(ctx context.Context, option *domain.DateOption) (*domain.DateOptionWithVotes, error) {
	votes, err := uc.store.Dates.ListVotes(ctx, option.ID)
	if err != nil {
		return nil, err
	}
	if votes == nil {
		votes = []domain.DateVote{}
	}
	return &domain.DateOptionWithVotes{
		DateOption: *option,
		Votes:      votes,
		Tally:      domain.TallyDateVotes(votes),
	}, nil
}

// dateOptionsMutable rejects option and vote changes once a date is
// confirmed or planning is over.
func dateOptionsMutable(trip *domain.Trip) error {
	if err := requirePlanning(trip); err != nil {
		return err
	}
	if trip.DateLocked() {
		return errors.ErrInvalidState.WithMessage("date already confirmed")
	}
	return nil
}
