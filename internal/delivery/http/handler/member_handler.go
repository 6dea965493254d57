package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/delivery/http/middleware"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

// MemberHandler - guests, invitations and origins
type MemberHandler struct {
	memberUC *usecase.MemberUseCase
	logger   *zap.Logger
}

func NewMemberHandler(memberUC *usecase.MemberUseCase, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{
		memberUC: memberUC,
		logger:   logger,
	}
}

// ListMembers godoc
// @Summary List trip members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Member}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/members [get]
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	members, err := h.memberUC.ListMembers(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, members, &utils.Meta{Total: len(members)})
}

// AddGuest godoc
// @Summary Add one guest
// @Description Host only. Adding an email already on the trip returns the existing member.
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.GuestInput true "Guest"
// @Success 201 {object} utils.SuccessResponse{data=domain.Member}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/members [post]
func (h *MemberHandler) AddGuest(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.GuestInput
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	member, err := h.memberUC.AddGuest(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, member)
}

// AddGuests godoc
// @Summary Add guests in bulk
// @Description Each guest is added independently; failures are reported per email.
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body dto.AddGuestsRequest true "Guests"
// @Success 200 {object} utils.SuccessResponse{data=dto.AddGuestsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/guests [post]
func (h *MemberHandler) AddGuests(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.AddGuestsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.memberUC.AddGuests(c.UserContext(), middleware.ActorFrom(c), id, req.Guests)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: len(result.Added)})
}

// RemoveMember godoc
// @Summary Remove a pending guest
// @Tags Members
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param memberId path string true "Member ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/members/{memberId} [delete]
func (h *MemberHandler) RemoveMember(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	memberID, err := pathUUID(c, "memberId")
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.memberUC.RemovePendingMember(c.UserContext(), middleware.ActorFrom(c), id, memberID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendNoContent(c)
}

// SendInvites godoc
// @Summary Invite every pending guest
// @Description Safe to retry: members already invited are skipped.
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.SendInvitesResponse}
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/invites [post]
func (h *MemberHandler) SendInvites(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.memberUC.SendInvites(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: len(result.Invited)})
}

// JoinTrip godoc
// @Summary Join a trip by invite code
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InviteCodeRequest true "Invite code"
// @Success 200 {object} utils.SuccessResponse{data=domain.Member}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/invites/join [post]
func (h *MemberHandler) JoinTrip(c *fiber.Ctx) error {
	var req dto.InviteCodeRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	member, err := h.memberUC.JoinTrip(c.UserContext(), middleware.ActorFrom(c), req.InviteCode)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, member, nil)
}

// DeclineInvite godoc
// @Summary Decline an invitation
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InviteCodeRequest true "Invite code"
// @Success 200 {object} utils.SuccessResponse{data=domain.Member}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/invites/decline [post]
func (h *MemberHandler) DeclineInvite(c *fiber.Ctx) error {
	var req dto.InviteCodeRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	member, err := h.memberUC.DeclineInvite(c.UserContext(), middleware.ActorFrom(c), req.InviteCode)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, member, nil)
}

// UpdateOrigin godoc
// @Summary Set my starting point
// @Description Members may only set their own origin. Distances to every candidate location are refreshed.
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param memberId path string true "Member ID"
// @Param request body dto.OriginRequest true "Origin"
// @Success 200 {object} utils.SuccessResponse{data=domain.Member}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/members/{memberId}/origin [put]
func (h *MemberHandler) UpdateOrigin(c *fiber.Ctx) error {
	id, err := tripID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	memberID, err := pathUUID(c, "memberId")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.OriginRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	origin := domain.GeoPoint{Lat: req.Lat, Lon: req.Lng, Name: req.Name}
	member, err := h.memberUC.UpdateMemberOrigin(c.UserContext(), middleware.ActorFrom(c), id, memberID, origin)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, member, nil)
}
