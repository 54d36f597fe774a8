package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/model"
	"socialnet/internal/service"
)

// EventHandler handles event membership endpoints.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// RSVPRequest sets the caller's response to an event.
type RSVPRequest struct {
	Status model.RSVPStatus `json:"status" validate:"required,oneof=interested going none"`
}

// RSVPResponse echoes the applied status.
type RSVPResponse struct {
	OK     bool             `json:"ok"`
	Status model.RSVPStatus `json:"status"`
}

// InviteRequest invites another user to an event.
type InviteRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

// OKResponse acknowledges an action.
type OKResponse struct {
	OK bool `json:"ok"`
}

// Get godoc
// @Summary Get an event with its membership counters
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	event, err := h.eventService.Get(c.Request().Context(), eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// RSVP godoc
// @Summary RSVP to an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body RSVPRequest true "interested, going or none"
// @Success 200 {object} RSVPResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id}/rsvp [post]
func (h *EventHandler) RSVP(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req RSVPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.eventService.RSVP(c.Request().Context(), eventID, userID, req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RSVPResponse{OK: true, Status: req.Status})
}

// Invite godoc
// @Summary Invite a user to an event (event admin only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body InviteRequest true "Invitee"
// @Success 200 {object} OKResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events/{id}/invite [post]
func (h *EventHandler) Invite(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req InviteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.eventService.Invite(c.Request().Context(), eventID, userID, req.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, OKResponse{OK: true})
}
