package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// PasswordHandler handles the OTP based password reset flow.
type PasswordHandler struct {
	otpService service.OTPService
}

// NewPasswordHandler creates a new password handler.
func NewPasswordHandler(otpService service.OTPService) *PasswordHandler {
	return &PasswordHandler{otpService: otpService}
}

// OTPRequest asks for a reset code.
type OTPRequest struct {
	Email string `json:"email" validate:"required"`
}

// VerifyOTPRequest checks a reset code.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

// ResetPasswordRequest sets a new password using a reset code.
type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// StatusResponse acknowledges a password flow step.
type StatusResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// SendOTP godoc
// @Summary Email a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OTPRequest true "Account email"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/send_otp [post]
func (h *PasswordHandler) SendOTP(c echo.Context) error {
	var req OTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.otpService.SendOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: true, Message: "OTP has been sent to your email"})
}

// ResendOTP godoc
// @Summary Email a new password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OTPRequest true "Account email"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/resend_otp [post]
func (h *PasswordHandler) ResendOTP(c echo.Context) error {
	var req OTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.otpService.ResendOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: true, Message: "A new OTP has been sent to your email"})
}

// ForgotPassword godoc
// @Summary Verify a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Email and code"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/forgot_password [post]
func (h *PasswordHandler) ForgotPassword(c echo.Context) error {
	var req VerifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.otpService.ForgotPassword(c.Request().Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: true, Message: "OTP verified"})
}

// ResetPassword godoc
// @Summary Reset the password using a reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Email, code and new password"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/reset_password [post]
func (h *PasswordHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.otpService.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: true, Message: "Your password has been changed"})
}
