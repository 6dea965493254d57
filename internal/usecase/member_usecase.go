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

// DistanceRefresher recomputes cached member-to-location travel costs.
type DistanceRefresher interface {
	RefreshLocationDistances(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID) error
}

// MemberUseCase - guests, invitations and member origins
type MemberUseCase struct {
	coordinator
	chat    *ChatUseCase
	invites InviteSender

	// refresher is nil when a distance worker consumes the event stream.
	refresher DistanceRefresher
}

func NewMemberUseCase(
	store TripStore,
	notifier *Notifier,
	chat *ChatUseCase,
	invites InviteSender,
	refresher DistanceRefresher,
	logger *zap.Logger,
) *MemberUseCase {
	return &MemberUseCase{
		coordinator: newCoordinator(store, notifier, logger),
		chat:        chat,
		invites:     invites,
		refresher:   refresher,
	}
}

// AddGuest adds a pending member. Adding an email already on the trip
// returns the existing row unchanged.
func (uc *MemberUseCase) AddGuest(ctx context.Context, actor domain.Actor, tripID uuid.UUID, in dto.GuestInput) (*domain.Member, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}
	return uc.addGuest(ctx, trip, in)
}

func (uc *MemberUseCase) addGuest(ctx context.Context, trip *domain.Trip, in dto.GuestInput) (*domain.Member, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, errors.ErrInvalidRequest.WithMessage("email is required")
	}

	existing, err := uc.store.Members.GetByTripAndEmail(ctx, trip.ID, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	now := uc.now()
	m := &domain.Member{
		ID:          uuid.New(),
		TripID:      trip.ID,
		Role:        domain.MemberRoleMember,
		Status:      domain.MemberStatusPending,
		Email:       email,
		DisplayName: strings.TrimSpace(in.DisplayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.store.Members.Create(ctx, m); err != nil {
		// lost a race with a concurrent add of the same email
		if errors.Is(err, errors.ErrInvalidState) {
			if existing, gerr := uc.store.Members.GetByTripAndEmail(ctx, trip.ID, email); gerr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	uc.notify(ctx, trip.ID, domain.EntityMember, m.ID, domain.ActionCreated)
	return m, nil
}

// AddGuests adds each guest independently and reports partial success.
func (uc *MemberUseCase) AddGuests(ctx context.Context, actor domain.Actor, tripID uuid.UUID, guests []dto.GuestInput) (*dto.AddGuestsResponse, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}

	resp := &dto.AddGuestsResponse{Added: []*domain.Member{}, Failed: []dto.GuestFailure{}}
	for _, g := range guests {
		m, err := uc.addGuest(ctx, trip, g)
		if err != nil {
			reason := err.Error()
			if appErr, ok := errors.As(err); ok {
				reason = appErr.Message
			}
			resp.Failed = append(resp.Failed, dto.GuestFailure{Email: g.Email, Reason: reason})
			continue
		}
		resp.Added = append(resp.Added, m)
	}

	uc.logger.Info("Guests added",
		zap.String("trip_id", tripID.String()),
		zap.Int("added", len(resp.Added)),
		zap.Int("failed", len(resp.Failed)),
	)
	return resp, nil
}

// RemovePendingMember deletes a guest that has not been invited yet.
func (uc *MemberUseCase) RemovePendingMember(ctx context.Context, actor domain.Actor, tripID, memberID uuid.UUID) error {
	if _, _, err := uc.hostAccess(ctx, tripID, actor); err != nil {
		return err
	}

	m, err := uc.store.Members.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if err := belongsToTrip(m.TripID, tripID, "member"); err != nil {
		return err
	}
	if m.Status != domain.MemberStatusPending {
		return errors.ErrInvalidState.WithMessage("only pending members can be removed")
	}

	if err := uc.store.Members.Delete(ctx, memberID); err != nil {
		return err
	}
	uc.notify(ctx, tripID, domain.EntityMember, memberID, domain.ActionDeleted)
	return nil
}

// SendInvites moves every pending member to invited. invites_sent_at is
// stamped on the first call only; repeating the call invites nobody twice.
func (uc *MemberUseCase) SendInvites(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (*dto.SendInvitesResponse, error) {
	trip, _, err := uc.hostAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}

	now := uc.now()
	invited, err := uc.store.Members.InvitePending(ctx, tripID, now)
	if err != nil {
		return nil, err
	}
	sentAt, err := uc.store.Trips.MarkInvitesSent(ctx, tripID, now)
	if err != nil {
		return nil, err
	}

	for _, m := range invited {
		invite := domain.InviteEvent{
			TripID:      tripID,
			MemberID:    m.ID,
			Email:       m.Email,
			DisplayName: m.DisplayName,
			TripTitle:   trip.Title,
			InviteCode:  trip.InviteCode,
		}
		if err := uc.invites.SendInvite(ctx, invite); err != nil {
			uc.logger.Error("Failed to send invite",
				zap.String("trip_id", tripID.String()),
				zap.String("member_id", m.ID.String()),
				zap.Error(err),
			)
		}
	}

	uc.logger.Info("Invites sent", zap.String("trip_id", tripID.String()), zap.Int("invited", len(invited)))

	if len(invited) > 0 {
		uc.notify(ctx, tripID, domain.EntityMember, tripID, domain.ActionUpdated)
	}
	if trip.InvitesSentAt == nil {
		uc.notify(ctx, tripID, domain.EntityTrip, tripID, domain.ActionUpdated)
	}

	return &dto.SendInvitesResponse{Invited: invited, InvitesSentAt: sentAt}, nil
}

// JoinTrip redeems an invite code. Joining twice returns the existing
// membership. A matching invitation is bound to the caller; without one the
// code itself admits the caller as a new member.
func (uc *MemberUseCase) JoinTrip(ctx context.Context, actor domain.Actor, inviteCode string) (*domain.Member, error) {
	trip, err := uc.tripByCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	existing, err := uc.store.Members.GetByTripAndUser(ctx, trip.ID, actor.UserID)
	if err == nil {
		if existing.Status == domain.MemberStatusDeclined {
			return nil, errors.ErrInvalidState.WithMessage("invitation was declined")
		}
		return existing, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}

	now := uc.now()
	userID := actor.UserID

	m, err := uc.store.Members.GetByTripAndEmail(ctx, trip.ID, normalizeEmail(actor.Email))
	switch {
	case err == nil:
		if m.UserID != nil && *m.UserID != userID {
			return nil, errors.ErrInvalidState.WithMessage("invitation already redeemed")
		}
		switch m.Status {
		case domain.MemberStatusDeclined:
			return nil, errors.ErrInvalidState.WithMessage("invitation was declined")
		case domain.MemberStatusPending:
			m.Status = domain.MemberStatusInvited
			m.InvitedAt = &now
		}
		if !m.CanTransition(domain.MemberStatusJoined) {
			return nil, errors.ErrInvalidState.WithMessage("cannot join from %s", m.Status)
		}
		m.UserID = &userID
		m.Status = domain.MemberStatusJoined
		m.JoinedAt = &now
		if m.DisplayName == "" {
			m.DisplayName = actor.DisplayName
		}
		if err := uc.store.Members.Update(ctx, m); err != nil {
			return nil, err
		}
		uc.notify(ctx, trip.ID, domain.EntityMember, m.ID, domain.ActionUpdated)

	case errors.Is(err, errors.ErrNotFound):
		m = &domain.Member{
			ID:          uuid.New(),
			TripID:      trip.ID,
			UserID:      &userID,
			Role:        domain.MemberRoleMember,
			Status:      domain.MemberStatusJoined,
			Email:       normalizeEmail(actor.Email),
			DisplayName: actor.DisplayName,
			InvitedAt:   &now,
			JoinedAt:    &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.store.Members.Create(ctx, m); err != nil {
			return nil, err
		}
		uc.notify(ctx, trip.ID, domain.EntityMember, m.ID, domain.ActionCreated)

	default:
		return nil, err
	}

	uc.logger.Info("Member joined", zap.String("trip_id", trip.ID.String()), zap.String("member_id", m.ID.String()))
	uc.chat.PostSystemMessage(ctx, trip.ID, displayName(m)+" joined the trip")
	return m, nil
}

// DeclineInvite marks the caller's invitation declined. Declining is final.
func (uc *MemberUseCase) DeclineInvite(ctx context.Context, actor domain.Actor, inviteCode string) (*domain.Member, error) {
	trip, err := uc.tripByCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	m, err := uc.store.Members.GetByTripAndEmail(ctx, trip.ID, normalizeEmail(actor.Email))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrNotFound.WithMessage("no invitation for this user")
		}
		return nil, err
	}
	if m.Status == domain.MemberStatusDeclined {
		return m, nil
	}
	if !m.CanTransition(domain.MemberStatusDeclined) {
		return nil, errors.ErrInvalidState.WithMessage("cannot decline a %s invitation", m.Status)
	}

	userID := actor.UserID
	m.UserID = &userID
	m.Status = domain.MemberStatusDeclined
	if err := uc.store.Members.Update(ctx, m); err != nil {
		return nil, err
	}

	uc.notify(ctx, trip.ID, domain.EntityMember, m.ID, domain.ActionUpdated)
	return m, nil
}

// UpdateMemberOrigin sets the caller's own starting point and schedules a
// distance refresh for every location of the trip.
func (uc *MemberUseCase) UpdateMemberOrigin(ctx context.Context, actor domain.Actor, tripID, memberID uuid.UUID, origin domain.GeoPoint) (*domain.Member, error) {
	trip, m, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if m.ID != memberID {
		return nil, errors.ErrForbidden.WithMessage("members can only set their own origin")
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}
	if !utils.ValidateCoordinates(origin.Lat, origin.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	m.SetOrigin(origin)
	if err := uc.store.Members.Update(ctx, m); err != nil {
		return nil, err
	}
	uc.notify(ctx, tripID, domain.EntityMember, m.ID, domain.ActionOriginUpdated)

	if uc.refresher != nil {
		if err := uc.refresher.RefreshLocationDistances(ctx, tripID, nil); err != nil {
			uc.logger.Warn("Distance refresh failed", zap.String("trip_id", tripID.String()), zap.Error(err))
		}
	}
	return m, nil
}

// ListMembers - every member of the trip, any status
func (uc *MemberUseCase) ListMembers(ctx context.Context, actor domain.Actor, tripID uuid.UUID) ([]*domain.Member, error) {
	if _, _, err := uc.memberAccess(ctx, tripID, actor); err != nil {
		return nil, err
	}
	return uc.store.Members.ListByTrip(ctx, tripID)
}

func (uc *MemberUseCase) tripByCode(ctx context.Context, code string) (*domain.Trip, error) {
	trip, err := uc.store.Trips.GetByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrNotFound.WithMessage("invite code not found")
		}
		return nil, err
	}
	return trip, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func displayName(m *domain.Member) string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Email
}
