package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Firstname  string      `json:"firstname" validate:"required"`
	Lastname   string      `json:"lastname" validate:"required"`
	Username   string      `json:"username" validate:"required"`
	Email      string      `json:"email" validate:"required"`
	Password   string      `json:"password" validate:"required"`
	DeviceInfo *DeviceInfo `json:"device_info"`
	// FromWeb is accepted for client compatibility; web and app signups are handled alike.
	FromWeb bool `json:"from_web"`
}

// SigninRequest represents a user login request. Either email or username is required.
type SigninRequest struct {
	Email      string      `json:"email" validate:"required_without=Username"`
	Username   string      `json:"username" validate:"required_without=Email"`
	Password   string      `json:"password" validate:"required"`
	Remember   bool        `json:"remember"`
	DeviceInfo *DeviceInfo `json:"device_info"`
}

// UsernameQuery selects the name and namespace to check. Kind defaults to user.
type UsernameQuery struct {
	Username string `query:"username" json:"username" validate:"required"`
	Kind     string `query:"kind" json:"kind"`
}

// UsernameAvailability reports whether a name can be claimed.
type UsernameAvailability struct {
	Username  string           `json:"username"`
	Kind      model.EntityKind `json:"kind"`
	Available bool             `json:"available"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Client:    clientInfo(c, req.DeviceInfo),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Signin godoc
// @Summary Sign in with email or username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SigninRequest true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Signin(c.Request().Context(), service.SigninInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Remember: req.Remember,
		Client:   clientInfo(c, req.DeviceInfo),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// UsernameAvailable godoc
// @Summary Check whether a username, page name or group name is free
// @Tags auth
// @Produce json
// @Param username query string true "Name to check"
// @Param kind query string false "Namespace: user, page or group" default(user)
// @Success 200 {object} UsernameAvailability
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/username_available [get]
func (h *AuthHandler) UsernameAvailable(c echo.Context) error {
	var req UsernameQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Kind == "" {
		req.Kind = string(model.EntityUser)
	}
	kind, err := model.ParseEntityKind(req.Kind)
	if err != nil {
		return apperrors.Validation("kind must be one of: user page group")
	}

	available, err := h.authService.UsernameAvailable(c.Request().Context(), req.Username, kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UsernameAvailability{Username: req.Username, Kind: kind, Available: available})
}
