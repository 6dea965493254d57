package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
)

// BroadcastMetrics counts live position fan-outs.
type BroadcastMetrics interface {
	BroadcastInc(err error)
}

// TrackingUseCase - live location sharing while a trip is active
type TrackingUseCase struct {
	coordinator
	chat        *ChatUseCase
	routing     repository.RoutingRepository
	broadcaster repository.PositionBroadcaster
	sessions    SessionRegistry
	metrics     BroadcastMetrics
	staleAfter  time.Duration
}

func NewTrackingUseCase(
	store TripStore,
	notifier *Notifier,
	chat *ChatUseCase,
	routing repository.RoutingRepository,
	broadcaster repository.PositionBroadcaster,
	sessions SessionRegistry,
	metrics BroadcastMetrics,
	staleAfter time.Duration,
	logger *zap.Logger,
) *TrackingUseCase {
	return &TrackingUseCase{
		coordinator: newCoordinator(store, notifier, logger),
		chat:        chat,
		routing:     routing,
		broadcaster: broadcaster,
		sessions:    sessions,
		metrics:     metrics,
		staleAfter:  staleAfter,
	}
}

// StartSharing turns on the caller's live location for an active trip.
func (uc *TrackingUseCase) StartSharing(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.LiveStatus, error) {
	_, m, err := uc.activeAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}

	status, err := uc.status(ctx, tripID, m.ID)
	if err != nil {
		return nil, err
	}
	if status.Arrived {
		return nil, errors.ErrInvalidState.WithMessage("already arrived")
	}

	if !status.SharingLocation {
		status.SharingLocation = true
		status.UpdatedAt = uc.now()
		if err := uc.store.Live.Upsert(ctx, status); err != nil {
			return nil, err
		}
		uc.notify(ctx, tripID, domain.EntityLiveStatus, m.ID, domain.ActionUpdated)
	}
	if uc.sessions != nil {
		uc.sessions.StartSession(tripID, m.ID)
	}
	return status, nil
}

// UpdateLivePosition computes the ETA for a new sample, broadcasts it and
// persists the snapshot. A failed broadcast does not fail the update.
func (uc *TrackingUseCase) UpdateLivePosition(ctx context.Context, actor domain.Actor, tripID uuid.UUID, pos domain.Position) (*domain.LiveStatus, error) {
	trip, m, err := uc.activeAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if !utils.ValidateCoordinates(pos.Lat, pos.Lng) {
		return nil, errors.ErrInvalidCoordinates
	}

	status, err := uc.status(ctx, tripID, m.ID)
	if err != nil {
		return nil, err
	}
	if status.Arrived {
		return nil, errors.ErrInvalidState.WithMessage("already arrived")
	}
	if !status.SharingLocation {
		return nil, errors.ErrInvalidState.WithMessage("location sharing is off")
	}

	// Postgres keeps microseconds; the refresh guard compares this value.
	at := uc.now().Truncate(time.Microsecond)
	lat, lng := pos.Lat, pos.Lng
	status.Lat, status.Lng = &lat, &lng
	status.Heading, status.Speed = pos.Heading, pos.Speed
	status.PositionAt = &at

	uc.applyETA(ctx, trip, status)
	uc.broadcast(ctx, status)

	status.UpdatedAt = at
	if err := uc.store.Live.Upsert(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

// StopSharing turns sharing off. Arrival is left as is.
func (uc *TrackingUseCase) StopSharing(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.LiveStatus, error) {
	_, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if uc.sessions != nil {
		uc.sessions.StopSession(tripID, m.ID)
	}

	status, err := uc.status(ctx, tripID, m.ID)
	if err != nil {
		return nil, err
	}
	if !status.SharingLocation {
		return status, nil
	}

	status.SharingLocation = false
	status.UpdatedAt = uc.now()
	if err := uc.store.Live.Upsert(ctx, status); err != nil {
		return nil, err
	}
	uc.notify(ctx, tripID, domain.EntityLiveStatus, m.ID, domain.ActionUpdated)
	return status, nil
}

// MarkArrived ends the caller's session for good. Other members are not
// affected.
func (uc *TrackingUseCase) MarkArrived(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.LiveStatus, error) {
	_, m, err := uc.activeAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if uc.sessions != nil {
		uc.sessions.StopSession(tripID, m.ID)
	}

	status, err := uc.status(ctx, tripID, m.ID)
	if err != nil {
		return nil, err
	}
	if status.Arrived {
		return status, nil
	}

	status.Arrived = true
	status.SharingLocation = false
	zero := 0.0
	status.ETASeconds = &zero
	status.DistanceRemainingMeters = &zero
	status.ETAText = nil
	status.UpdatedAt = uc.now()
	if err := uc.store.Live.Upsert(ctx, status); err != nil {
		return nil, err
	}

	uc.broadcast(ctx, status)
	uc.notify(ctx, tripID, domain.EntityLiveStatus, m.ID, domain.ActionUpdated)
	uc.chat.PostSystemMessage(ctx, tripID, displayName(m)+" has arrived")
	return status, nil
}

// ListLiveStatuses returns every snapshot of the trip, flagging the ones
// older than the staleness threshold.
func (uc *TrackingUseCase) ListLiveStatuses(ctx context.Context, actor domain.Actor, tripID uuid.UUID) ([]*domain.LiveStatus, error) {
	if _, _, err := uc.memberAccess(ctx, tripID, actor); err != nil {
		return nil, err
	}

	statuses, err := uc.store.Live.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	for _, s := range statuses {
		s.Stale = s.SharingLocation && s.IsStale(now, uc.staleAfter)
	}
	return statuses, nil
}

// RefreshSnapshot recomputes the ETA from the member's last known position.
// It is driven by the server-side session loop and returns ErrInvalidState
// once the session has nothing left to do. Only the ETA columns are written,
// and nothing is written or broadcast if a newer position landed meanwhile.
func (uc *TrackingUseCase) RefreshSnapshot(ctx context.Context, tripID, memberID uuid.UUID) error {
	trip, err := uc.loadTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.Status != domain.TripStatusActive {
		return errors.ErrInvalidState.WithMessage("trip is %s", trip.Status)
	}

	status, err := uc.store.Live.Get(ctx, tripID, memberID)
	if err != nil {
		return err
	}
	if !status.SharingLocation || status.Arrived {
		return errors.ErrInvalidState.WithMessage("member is not sharing")
	}
	if status.Lat == nil || status.Lng == nil {
		return nil
	}

	if !uc.applyETA(ctx, trip, status) {
		return nil
	}
	status.UpdatedAt = uc.now()
	written, err := uc.store.Live.UpdateETA(ctx, status)
	if err != nil {
		return err
	}
	if !written {
		uc.logger.Debug("Skipping ETA refresh for a superseded position",
			zap.String("trip_id", tripID.String()),
			zap.String("member_id", memberID.String()),
		)
		return nil
	}
	uc.broadcast(ctx, status)
	return nil
}

func (uc *TrackingUseCase) activeAccess(ctx context.Context, tripID uuid.UUID, actor domain.Actor) (*domain.Trip, *domain.Member, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, nil, err
	}
	if trip.Status != domain.TripStatusActive {
		return nil, nil, errors.ErrInvalidState.WithMessage("live tracking requires an active trip")
	}
	return trip, m, nil
}

func (uc *TrackingUseCase) status(ctx context.Context, tripID, memberID uuid.UUID) (*domain.LiveStatus, error) {
	status, err := uc.store.Live.Get(ctx, tripID, memberID)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}
	return &domain.LiveStatus{TripID: tripID, MemberID: memberID, UpdatedAt: uc.now()}, nil
}

// applyETA routes from the status position to the trip destination and
// reports whether the ETA was set. Routing failures keep the previous ETA.
func (uc *TrackingUseCase) applyETA(ctx context.Context, trip *domain.Trip, status *domain.LiveStatus) bool {
	dest, err := uc.destination(ctx, trip)
	if err != nil || dest == nil {
		return false
	}

	travel := trip.LocationCriteria.TravelMode
	if travel == "" {
		travel = domain.TravelModeDriving
	}
	from := domain.GeoPoint{Lat: *status.Lat, Lon: *status.Lng}
	routes, err := uc.routing.Route(ctx, from, *dest, travel)
	if err != nil || len(routes.Routes) == 0 {
		uc.logger.Warn("ETA lookup failed",
			zap.String("trip_id", trip.ID.String()),
			zap.String("member_id", status.MemberID.String()),
			zap.Error(err),
		)
		return false
	}

	primary := routes.Routes[0]
	eta, remaining := primary.DurationSeconds, primary.DistanceMeters
	text := FormatETA(eta)
	status.ETASeconds = &eta
	status.DistanceRemainingMeters = &remaining
	status.ETAText = &text
	return true
}

func (uc *TrackingUseCase) broadcast(ctx context.Context, status *domain.LiveStatus) {
	if uc.broadcaster == nil || status.Lat == nil || status.Lng == nil {
		return
	}
	msg := domain.PositionBroadcast{
		TripID:     status.TripID,
		MemberID:   status.MemberID,
		Lat:        *status.Lat,
		Lng:        *status.Lng,
		Heading:    status.Heading,
		Speed:      status.Speed,
		Arrived:    status.Arrived,
		ETASeconds: status.ETASeconds,
		ETAText:    status.ETAText,
		PositionAt: status.PositionAt,
		SentAt:     uc.now(),
	}
	err := uc.broadcaster.BroadcastPosition(ctx, msg)
	if err != nil {
		uc.logger.Warn("Position broadcast failed",
			zap.String("trip_id", status.TripID.String()),
			zap.String("member_id", status.MemberID.String()),
			zap.Error(err),
		)
	}
	if uc.metrics != nil {
		uc.metrics.BroadcastInc(err)
	}
}

// FormatETA renders seconds as "< 1 min", "N min" or "H h MM min".
func FormatETA(seconds float64) string {
	minutes := int(math.Round(seconds / 60))
	switch {
	case minutes < 1:
		return "< 1 min"
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %02d min", minutes/60, minutes%60)
}
