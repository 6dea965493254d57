package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase/dto"
)

const (
	inviteCodeLength   = 8
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeAttempts = 5
)

// TripUseCase - trip lifecycle: create, update, start, complete, cancel
type TripUseCase struct {
	coordinator
	chat     *ChatUseCase
	sessions SessionRegistry
}

func NewTripUseCase(store TripStore, notifier *Notifier, chat *ChatUseCase, sessions SessionRegistry, logger *zap.Logger) *TripUseCase {
	return &TripUseCase{
		coordinator: newCoordinator(store, notifier, logger),
		chat:        chat,
		sessions:    sessions,
	}
}

// CreateTrip - new planning trip with the creator seeded as joined host
func (uc *TripUseCase) CreateTrip(ctx context.Context, actor domain.Actor, req dto.CreateTripRequest) (*dto.TripResponse, error) {
	mode := domain.LocationModeFairestAll
	if req.LocationMode != "" {
		mode = domain.LocationMode(req.LocationMode)
	}
	if !mode.Valid() {
		return nil, errors.ErrInvalidRequest.WithMessage("unknown location mode %q", req.LocationMode)
	}
	criteria, err := criteriaFromInput(req.LocationCriteria)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	trip := &domain.Trip{
		ID:                uuid.New(),
		CreatorID:         actor.UserID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            domain.TripStatusPlanning,
		VotingOpen:        true,
		MembersCanPropose: true,
		LocationMode:      mode,
		LocationCriteria:  criteria,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.MembersCanPropose != nil {
		trip.MembersCanPropose = *req.MembersCanPropose
	}

	for attempt := 0; ; attempt++ {
		code, err := newInviteCode()
		if err != nil {
			return nil, errors.ErrInternalServer
		}
		trip.InviteCode = code
		err = uc.store.Trips.Create(ctx, trip)
		if err == nil {
			break
		}
		if !errors.Is(err, errors.ErrInvalidState) || attempt+1 >= inviteCodeAttempts {
			return nil, err
		}
	}

	userID := actor.UserID
	host := &domain.Member{
		ID:          uuid.New(),
		TripID:      trip.ID,
		UserID:      &userID,
		Role:        domain.MemberRoleCreator,
		Status:      domain.MemberStatusJoined,
		Email:       actor.Email,
		DisplayName: actor.DisplayName,
		JoinedAt:    &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.store.Members.Create(ctx, host); err != nil {
		return nil, err
	}

	uc.logger.Info("Trip created", zap.String("trip_id", trip.ID.String()), zap.String("creator", actor.UserID.String()))
	uc.notify(ctx, trip.ID, domain.EntityTrip, trip.ID, domain.ActionCreated)

	return &dto.TripResponse{Trip: trip, Members: []*domain.Member{host}}, nil
}

// GetTrip - trip with members, visible to joined members
func (uc *TripUseCase) GetTrip(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*dto.TripResponse, error) {
	trip, _, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	members, err := uc.store.Members.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &dto.TripResponse{Trip: trip, Members: members}, nil
}

// ListTripsForUser - every trip the actor has not declined
func (uc *TripUseCase) ListTripsForUser(ctx context.Context, actor domain.Actor) ([]*domain.Trip, error) {
	return uc.store.Trips.ListByUser(ctx, actor.UserID)
}

// UpdateTrip - host edits title, description and location settings
func (uc *TripUseCase) UpdateTrip(ctx context.Context, actor domain.Actor, tripID uuid.UUID, req dto.UpdateTripRequest) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}

	if req.Title != nil {
		trip.Title = *req.Title
	}
	if req.Description != nil {
		trip.Description = *req.Description
	}
	if req.MembersCanPropose != nil {
		trip.MembersCanPropose = *req.MembersCanPropose
	}
	if req.LocationMode != nil || req.LocationCriteria != nil {
		if trip.LocationLocked() {
			return nil, errors.ErrInvalidState.WithMessage("location already confirmed")
		}
		if req.LocationMode != nil {
			mode := domain.LocationMode(*req.LocationMode)
			if !mode.Valid() {
				return nil, errors.ErrInvalidRequest.WithMessage("unknown location mode %q", *req.LocationMode)
			}
			trip.LocationMode = mode
		}
		if req.LocationCriteria != nil {
			criteria, err := criteriaFromInput(req.LocationCriteria)
			if err != nil {
				return nil, err
			}
			trip.LocationCriteria = criteria
		}
	}

	if err := uc.store.Trips.Update(ctx, trip); err != nil {
		return nil, err
	}
	uc.notify(ctx, trip.ID, domain.EntityTrip, trip.ID, domain.ActionUpdated)
	return trip, nil
}

// SetVotingOpen - host opens or closes voting for non-host members
func (uc *TripUseCase) SetVotingOpen(ctx context.Context, actor domain.Actor, tripID uuid.UUID, open bool) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if trip.VotingOpen == open {
		return trip, nil
	}

	now := uc.now()
	if err := uc.store.Trips.SetVotingOpen(ctx, tripID, open, now); err != nil {
		return nil, err
	}
	trip.VotingOpen = open
	trip.UpdatedAt = now
	uc.notify(ctx, trip.ID, domain.EntityTrip, trip.ID, domain.ActionUpdated)
	return trip, nil
}

// GetTripDestination resolves the confirmed location, or the fixed
// destination of a specific-mode trip. It returns nil when neither exists.
func (uc *TripUseCase) GetTripDestination(ctx context.Context, trip *domain.Trip) (*domain.GeoPoint, error) {
	return uc.destination(ctx, trip)
}

func (c *coordinator) destination(ctx context.Context, trip *domain.Trip) (*domain.GeoPoint, error) {
	if trip.ConfirmedLocationID != nil {
		loc, err := c.store.Locations.GetByID(ctx, *trip.ConfirmedLocationID)
		if err == nil {
			p := loc.Point()
			return &p, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
	}
	if dest, ok := trip.SpecificDestination(); ok {
		return dest, nil
	}
	return nil, nil
}

// StartTrip - planning to active; needs a confirmed date and a destination
func (uc *TripUseCase) StartTrip(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if !trip.CanTransition(domain.TripStatusActive) {
		return nil, errors.ErrInvalidState.WithMessage("cannot start a %s trip", trip.Status)
	}
	if !trip.DateLocked() {
		return nil, errors.ErrInvalidState.WithMessage("confirm a date before starting the trip")
	}
	dest, err := uc.destination(ctx, trip)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, errors.ErrInvalidState.WithMessage("confirm a destination before starting the trip")
	}

	if err := uc.setStatus(ctx, trip, domain.TripStatusActive); err != nil {
		return nil, err
	}

	uc.logger.Info("Trip started", zap.String("trip_id", trip.ID.String()))
	uc.notify(ctx, trip.ID, domain.EntityTrip, trip.ID, domain.ActionUpdated)
	uc.chat.PostSystemMessage(ctx, trip.ID, "The trip has started")
	return trip, nil
}

// CompleteTrip - active to completed; ends every live sharing session
func (uc *TripUseCase) CompleteTrip(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if !trip.CanTransition(domain.TripStatusCompleted) {
		return nil, errors.ErrInvalidState.WithMessage("cannot complete a %s trip", trip.Status)
	}

	if err := uc.setStatus(ctx, trip, domain.TripStatusCompleted); err != nil {
		return nil, err
	}
	uc.endLiveSessions(ctx, trip.ID)

	uc.logger.Info("Trip completed", zap.String("trip_id", trip.ID.String()))
	uc.notify(ctx, trip.ID, domain.EntityTrip, trip.ID, domain.ActionUpdated)
	uc.chat.PostSystemMessage(ctx, trip.ID, "The trip is complete")
	return trip, nil
}

// CancelTrip - planning or active to canceled
func (uc *TripUseCase) CancelTrip(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if !trip.CanTransition(domain.TripStatusCanceled) {
		return nil, errors.ErrInvalidState.WithMessage("cannot cancel a %s trip", trip.Status)
	}
	wasActive := trip.Status == domain.TripStatusActive

	if err := uc.setStatus(ctx, trip, domain.TripStatusCanceled); err != nil {
		return nil, err
	}
	if wasActive {
		uc.endLiveSessions(ctx, trip.ID)
	}

	uc.logger.Info("Trip canceled", zap.String("trip_id", trip.ID.String()))
	uc.notify(ctx, trip.ID, domain.EntityTrip, trip.ID, domain.ActionUpdated)
	uc.chat.PostSystemMessage(ctx, trip.ID, "The trip was canceled")
	return trip, nil
}

// setStatus moves trip to next only if no concurrent transition got there
// first.
func (uc *TripUseCase) setStatus(ctx context.Context, trip *domain.Trip, next domain.TripStatus) error {
	now := uc.now()
	if err := uc.store.Trips.SetStatus(ctx, trip.ID, trip.Status, next, now); err != nil {
		return err
	}
	trip.Status = next
	trip.UpdatedAt = now
	return nil
}

// endLiveSessions stops the server loops first so no snapshot lands after
// sharing has been cleared.
func (uc *TripUseCase) endLiveSessions(ctx context.Context, tripID uuid.UUID) {
	if uc.sessions != nil {
		uc.sessions.StopTrip(tripID)
	}
	if err := uc.store.Live.StopAllSharing(ctx, tripID); err != nil {
		uc.logger.Error("Failed to stop live sharing", zap.String("trip_id", tripID.String()), zap.Error(err))
		return
	}
	uc.notify(ctx, tripID, domain.EntityLiveStatus, tripID, domain.ActionUpdated)
}

func criteriaFromInput(in *dto.CriteriaInput) (domain.LocationCriteria, error) {
	var c domain.LocationCriteria
	if in == nil {
		return c, nil
	}
	c.MemberIDs = in.MemberIDs
	if in.TravelMode != "" {
		mode, err := domain.ParseTravelMode(in.TravelMode)
		if err != nil {
			return c, errors.ErrInvalidRequest.WithMessage("%s", err.Error())
		}
		c.TravelMode = mode
	}
	for _, p := range in.Points {
		if !p.HasCoordinates() || !utils.ValidateCoordinates(*p.Lat, *p.Lon) {
			return c, errors.ErrInvalidCoordinates
		}
		c.Points = append(c.Points, p.Point())
	}
	if in.Destination != nil {
		d := in.Destination
		if !d.HasCoordinates() || !utils.ValidateCoordinates(*d.Lat, *d.Lon) {
			return c, errors.ErrInvalidCoordinates
		}
		p := d.Point()
		c.Destination = &p
	}
	return c, nil
}

func newInviteCode() (string, error) {
	size := big.NewInt(int64(len(inviteCodeAlphabet)))
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("invite code: %w", err)
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
