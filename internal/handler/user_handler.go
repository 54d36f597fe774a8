package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// UserHandler serves the signed in user's profile and activation.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ActivateRequest carries the emailed activation code.
type ActivateRequest struct {
	Code string `json:"code" validate:"required"`
}

// Me godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Activate godoc
// @Summary Activate the account with the emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ActivateRequest true "Activation code"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req ActivateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.Activate(c.Request().Context(), userID, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: true, Message: "Your account has been activated"})
}

// ResendActivation godoc
// @Summary Email a new activation code
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/resend_activation [post]
func (h *UserHandler) ResendActivation(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.ResendActivation(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: true, Message: "Activation email has been sent"})
}
