package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase/dto"
)

// matrixOriginBatch keeps one matrix request within the provider's
// coordinate limit (origins plus the destination).
const matrixOriginBatch = 24

const midpointLocationName = "Group midpoint"

// LocationUseCase - candidate locations, votes, confirmation and distances
type LocationUseCase struct {
	coordinator
	chat      *ChatUseCase
	midpoint  *MidpointUseCase
	routing   repository.RoutingRepository
	geocoding repository.GeocodingRepository
	retry     RetryPolicy

	// syncRefresh computes distances inline instead of leaving them to the
	// distance worker.
	syncRefresh bool
}

func NewLocationUseCase(
	store TripStore,
	notifier *Notifier,
	chat *ChatUseCase,
	midpoint *MidpointUseCase,
	routing repository.RoutingRepository,
	geocoding repository.GeocodingRepository,
	retry RetryPolicy,
	syncRefresh bool,
	logger *zap.Logger,
) *LocationUseCase {
	return &LocationUseCase{
		coordinator: newCoordinator(store, notifier, logger),
		chat:        chat,
		midpoint:    midpoint,
		routing:     routing,
		geocoding:   geocoding,
		retry:       retry,
		syncRefresh: syncRefresh,
	}
}

// ProposeLocation adds a manually searched candidate.
func (uc *LocationUseCase) ProposeLocation(ctx context.Context, actor domain.Actor, tripID uuid.UUID, req dto.ProposeLocationRequest) (*domain.Location, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := locationsMutable(trip); err != nil {
		return nil, err
	}
	if err := canPropose(trip, m); err != nil {
		return nil, err
	}
	if !utils.ValidateCoordinates(req.Lat, req.Lng) {
		return nil, errors.ErrInvalidCoordinates
	}

	loc := &domain.Location{
		ID:         uuid.New(),
		TripID:     tripID,
		ProposedBy: m.ID,
		Name:       req.Name,
		Address:    req.Address,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Provenance: domain.ProvenanceManual,
		Notes:      req.Notes,
		CreatedAt:  uc.now(),
	}
	if err := uc.store.Locations.Create(ctx, loc); err != nil {
		return nil, err
	}

	uc.notify(ctx, tripID, domain.EntityLocation, loc.ID, domain.ActionCreated)
	uc.refreshInline(ctx, tripID, &loc.ID)
	return loc, nil
}

// VoteLocation casts an up or down vote. Casting the same value again
// retracts it.
func (uc *LocationUseCase) VoteLocation(ctx context.Context, actor domain.Actor, tripID, locationID uuid.UUID, value domain.UpDownVote) (*domain.LocationWithVotes, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := locationsMutable(trip); err != nil {
		return nil, err
	}
	if err := canVote(trip, m); err != nil {
		return nil, err
	}
	if !value.Valid() {
		return nil, errors.ErrInvalidRequest.WithMessage("vote must be up or down")
	}

	loc, err := uc.location(ctx, tripID, locationID)
	if err != nil {
		return nil, err
	}

	current, err := uc.store.Locations.GetVote(ctx, locationID, m.ID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}
	if current != nil && current.Vote == value {
		err = uc.store.Locations.DeleteVote(ctx, locationID, m.ID)
	} else {
		err = uc.store.Locations.UpsertVote(ctx, &domain.LocationVote{
			LocationID: locationID,
			MemberID:   m.ID,
			Vote:       value,
			UpdatedAt:  uc.now(),
		})
	}
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, tripID, domain.EntityLocationVote, locationID, domain.ActionUpdated)
	return uc.withVotes(ctx, loc)
}

// DeleteLocation - proposer or host, before a location is confirmed
func (uc *LocationUseCase) DeleteLocation(ctx context.Context, actor domain.Actor, tripID, locationID uuid.UUID) error {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return err
	}
	if err := locationsMutable(trip); err != nil {
		return err
	}

	loc, err := uc.location(ctx, tripID, locationID)
	if err != nil {
		return err
	}
	if err := ownerOrHost(m, loc.ProposedBy); err != nil {
		return err
	}

	if err := uc.store.Locations.Delete(ctx, locationID); err != nil {
		return err
	}
	uc.notify(ctx, tripID, domain.EntityLocation, locationID, domain.ActionDeleted)
	return nil
}

// ConfirmTripLocation makes locationID the trip destination. Exactly one
// location of the trip carries is_confirmed afterwards.
func (uc *LocationUseCase) ConfirmTripLocation(ctx context.Context, actor domain.Actor, tripID, locationID uuid.UUID) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requirePlanning(trip); err != nil {
		return nil, err
	}

	loc, err := uc.location(ctx, tripID, locationID)
	if err != nil {
		return nil, err
	}
	if trip.ConfirmedLocationID != nil && *trip.ConfirmedLocationID == locationID {
		return trip, nil
	}

	if err := uc.store.Locations.SetConfirmed(ctx, tripID, &locationID); err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.store.Trips.SetConfirmedLocation(ctx, tripID, &locationID, now); err != nil {
		return nil, err
	}
	trip.ConfirmedLocationID = &locationID
	trip.UpdatedAt = now

	uc.logger.Info("Trip location confirmed",
		zap.String("trip_id", tripID.String()),
		zap.String("location_id", locationID.String()),
	)
	uc.notify(ctx, tripID, domain.EntityLocation, locationID, domain.ActionUpdated)
	uc.notify(ctx, tripID, domain.EntityTrip, tripID, domain.ActionUpdated)
	uc.chat.PostSystemMessage(ctx, tripID, "Location confirmed: "+loc.Name)
	return trip, nil
}

// UnconfirmTripLocation reopens location planning.
func (uc *LocationUseCase) UnconfirmTripLocation(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*domain.Trip, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requirePlanning(trip); err != nil {
		return nil, err
	}
	if !trip.LocationLocked() {
		return trip, nil
	}
	previous := *trip.ConfirmedLocationID

	if err := uc.store.Locations.SetConfirmed(ctx, tripID, nil); err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.store.Trips.SetConfirmedLocation(ctx, tripID, nil, now); err != nil {
		return nil, err
	}
	trip.ConfirmedLocationID = nil
	trip.UpdatedAt = now

	uc.notify(ctx, tripID, domain.EntityLocation, previous, domain.ActionUpdated)
	uc.notify(ctx, tripID, domain.EntityTrip, tripID, domain.ActionUpdated)
	return trip, nil
}

// ListLocations - candidates with votes, score and cached member distances
func (uc *LocationUseCase) ListLocations(ctx context.Context, actor domain.Actor, tripID uuid.UUID) ([]*domain.LocationWithVotes, error) {
	if _, _, err := uc.memberAccess(ctx, tripID, actor); err != nil {
		return nil, err
	}

	locations, err := uc.store.Locations.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.LocationWithVotes, 0, len(locations))
	for _, l := range locations {
		withVotes, err := uc.withVotes(ctx, l)
		if err != nil {
			return nil, err
		}
		result = append(result, withVotes)
	}
	return result, nil
}

// RefreshLocationDistances recomputes the travel cost of every joined member
// with an origin to one location, or to all locations of the trip when
// locationID is nil. Rows are upserted so repeated runs converge.
func (uc *LocationUseCase) RefreshLocationDistances(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID) error {
	trip, err := uc.loadTrip(ctx, tripID)
	if err != nil {
		return err
	}

	members, err := uc.store.Members.ListByTrip(ctx, tripID)
	if err != nil {
		return err
	}
	var travellers []*domain.Member
	for _, m := range members {
		if m.IsJoined() && m.Origin() != nil {
			travellers = append(travellers, m)
		}
	}
	if len(travellers) == 0 {
		return nil
	}

	var locations []*domain.Location
	if locationID != nil {
		loc, err := uc.location(ctx, tripID, *locationID)
		if err != nil {
			return err
		}
		locations = []*domain.Location{loc}
	} else {
		locations, err = uc.store.Locations.ListByTrip(ctx, tripID)
		if err != nil {
			return err
		}
	}

	travel := trip.LocationCriteria.TravelMode
	if travel == "" {
		travel = domain.TravelModeDriving
	}

	var firstErr error
	updated := 0
	for _, loc := range locations {
		n, err := uc.refreshLocation(ctx, loc, travellers, travel)
		updated += n
		if err != nil {
			uc.logger.Warn("Distance refresh failed",
				zap.String("trip_id", tripID.String()),
				zap.String("location_id", loc.ID.String()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if updated > 0 {
		entityID := tripID
		if locationID != nil {
			entityID = *locationID
		}
		uc.notify(ctx, tripID, domain.EntityDistance, entityID, domain.ActionUpdated)
	}
	uc.logger.Debug("Distances refreshed",
		zap.String("trip_id", tripID.String()),
		zap.Int("locations", len(locations)),
		zap.Int("rows", updated),
	)
	return firstErr
}

func (uc *LocationUseCase) refreshLocation(ctx context.Context, loc *domain.Location, travellers []*domain.Member, travel domain.TravelMode) (int, error) {
	updated := 0
	for start := 0; start < len(travellers); start += matrixOriginBatch {
		end := min(start+matrixOriginBatch, len(travellers))
		batch := travellers[start:end]

		origins := make([]domain.GeoPoint, len(batch))
		for i, m := range batch {
			origins[i] = *m.Origin()
		}

		var rows []domain.PerOriginCost
		err := withUpstreamRetry(ctx, uc.retry, uc.logger, "distance_matrix", func() error {
			var err error
			rows, err = uc.routing.DistanceMatrix(ctx, origins, loc.Point(), travel)
			return err
		})
		if err != nil {
			return updated, err
		}

		now := uc.now()
		for _, row := range rows {
			if !row.Reachable || row.OriginIndex < 0 || row.OriginIndex >= len(batch) {
				continue
			}
			d := &domain.LocationDistance{
				LocationID:      loc.ID,
				MemberID:        batch[row.OriginIndex].ID,
				DurationSeconds: row.DurationSeconds,
				DistanceMeters:  row.DistanceMeters,
				UpdatedAt:       now,
			}
			if err := uc.store.Locations.UpsertDistance(ctx, d); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

// FindGroupMidpoint solves the fairest meeting point for the trip's
// participants and stores it as a votable location.
func (uc *LocationUseCase) FindGroupMidpoint(ctx context.Context, actor domain.Actor, tripID uuid.UUID, req dto.GroupMidpointLocationRequest) (*dto.GroupMidpointLocationResponse, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := locationsMutable(trip); err != nil {
		return nil, err
	}
	if err := canPropose(trip, m); err != nil {
		return nil, err
	}

	optimize, err := domain.ParseOptimizeMode(req.Optimize)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithMessage("%s", err.Error())
	}
	travel := trip.LocationCriteria.TravelMode
	if req.TravelMode != "" || travel == "" {
		travel, err = domain.ParseTravelMode(req.TravelMode)
		if err != nil {
			return nil, errors.ErrInvalidRequest.WithMessage("%s", err.Error())
		}
	}

	parties, err := uc.parties(ctx, trip)
	if err != nil {
		return nil, err
	}
	solved, err := uc.midpoint.ComputeGroupMidpoint(ctx, parties, optimize, travel)
	if err != nil {
		return nil, err
	}

	point := solved.Result.Point
	address := uc.reverseLabel(ctx, point)
	notes := midpointNotes(solved.Result)

	loc := &domain.Location{
		ID:         uuid.New(),
		TripID:     tripID,
		ProposedBy: m.ID,
		Name:       midpointLocationName,
		Address:    address,
		Lat:        point.Lat,
		Lng:        point.Lon,
		Provenance: domain.ProvenanceAlgorithmMidpoint,
		Notes:      &notes,
		CreatedAt:  uc.now(),
	}
	if err := uc.store.Locations.Create(ctx, loc); err != nil {
		return nil, err
	}

	uc.logger.Info("Group midpoint proposed",
		zap.String("trip_id", tripID.String()),
		zap.String("location_id", loc.ID.String()),
		zap.Int("parties", len(solved.Costs)),
		zap.Bool("converged", solved.Result.Converged),
	)
	uc.notify(ctx, tripID, domain.EntityLocation, loc.ID, domain.ActionCreated)
	uc.refreshInline(ctx, tripID, &loc.ID)

	return &dto.GroupMidpointLocationResponse{Location: loc, Result: *solved}, nil
}

// parties selects who the midpoint is fair to, by location mode.
func (uc *LocationUseCase) parties(ctx context.Context, trip *domain.Trip) ([]domain.Party, error) {
	switch trip.LocationMode {
	case domain.LocationModeSpecific:
		return nil, errors.ErrInvalidState.WithMessage("trip destination is fixed")

	case domain.LocationModeFairestCustom:
		parties := make([]domain.Party, len(trip.LocationCriteria.Points))
		for i, p := range trip.LocationCriteria.Points {
			origin := p
			parties[i] = domain.Party{ID: fmt.Sprintf("point-%d", i+1), Name: p.Name, Origin: &origin}
		}
		return parties, nil
	}

	members, err := uc.store.Members.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	var selected map[uuid.UUID]bool
	if trip.LocationMode == domain.LocationModeFairestSelected {
		selected = make(map[uuid.UUID]bool, len(trip.LocationCriteria.MemberIDs))
		for _, id := range trip.LocationCriteria.MemberIDs {
			selected[id] = true
		}
	}

	var parties []domain.Party
	for _, m := range members {
		if selected != nil {
			if !selected[m.ID] {
				continue
			}
		} else if !m.IsJoined() {
			continue
		}
		parties = append(parties, domain.Party{ID: m.ID.String(), Name: displayName(m), Origin: m.Origin()})
	}
	return parties, nil
}

// reverseLabel names a point, falling back to its coordinates when the
// provider has nothing.
func (uc *LocationUseCase) reverseLabel(ctx context.Context, p domain.GeoPoint) string {
	var resolved domain.GeoPoint
	err := withUpstreamRetry(ctx, uc.retry, uc.logger, "reverse_geocode", func() error {
		var err error
		resolved, err = uc.geocoding.ReverseGeocode(ctx, p)
		return err
	})
	if err != nil || resolved.Name == "" {
		uc.logger.Warn("Reverse geocode failed", zap.Float64("lat", p.Lat), zap.Float64("lon", p.Lon), zap.Error(err))
		return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lon)
	}
	return resolved.Name
}

func midpointNotes(r domain.MidpointResult) string {
	var notes string
	if r.Mode == domain.OptimizeDistance {
		notes = fmt.Sprintf("Optimized for equal distance, max distance: %.1f km", r.MaxCost/1000)
	} else {
		notes = fmt.Sprintf("Optimized for equal drive time, max drive: %d min", int(math.Round(r.MaxCost/60)))
	}
	if r.Approximate() {
		notes += " (approximate)"
	}
	return notes
}

// InlineRefresher returns uc when distances are refreshed inside the request
// and nil when a distance worker consumes the change stream instead.
func (uc *LocationUseCase) InlineRefresher() DistanceRefresher {
	if !uc.syncRefresh {
		return nil
	}
	return uc
}

func (uc *LocationUseCase) refreshInline(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID) {
	if !uc.syncRefresh {
		return
	}
	if err := uc.RefreshLocationDistances(ctx, tripID, locationID); err != nil {
		uc.logger.Warn("Inline distance refresh failed", zap.String("trip_id", tripID.String()), zap.Error(err))
	}
}

func (uc *LocationUseCase) location(ctx context.Context, tripID, locationID uuid.UUID) (*domain.Location, error) {
	loc, err := uc.store.Locations.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrNotFound.WithMessage("location not found")
		}
		return nil, err
	}
	if err := belongsToTrip(loc.TripID, tripID, "location"); err != nil {
		return nil, err
	}
	return loc, nil
}

func (uc *LocationUseCase) withVotes(ctx context.Context, loc *domain.Location) (*domain.LocationWithVotes, error) {
	votes, err := uc.store.Locations.ListVotes(ctx, loc.ID)
	if err != nil {
		return nil, err
	}
	distances, err := uc.store.Locations.ListDistances(ctx, loc.ID)
	if err != nil {
		return nil, err
	}
	if votes == nil {
		votes = []domain.LocationVote{}
	}
	if distances == nil {
		distances = []domain.LocationDistance{}
	}

	values := make([]domain.UpDownVote, len(votes))
	for i, v := range votes {
		values[i] = v.Vote
	}
	return &domain.LocationWithVotes{
		Location:  *loc,
		Votes:     votes,
		Distances: distances,
		Score:     domain.ScoreUpDown(values),
	}, nil
}

// locationsMutable rejects candidate and vote changes once a location is
// confirmed or planning is over.
func locationsMutable(trip *domain.Trip) error {
	if err := requirePlanning(trip); err != nil {
		return err
	}
	if trip.LocationLocked() {
		return errors.ErrInvalidState.WithMessage("location already confirmed")
	}
	return nil
}
