package handler

import (
	"github.com/labstack/echo/v4"

	"socialnet/internal/auth"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
)

// DeviceInfo is the optional client description sent on signup and signin.
type DeviceInfo struct {
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	OSVersion  string `json:"os_version"`
	DeviceName string `json:"device_name"`
}

func clientInfo(c echo.Context, d *DeviceInfo) model.ClientInfo {
	info := model.ClientInfo{IP: c.RealIP()}
	if d != nil {
		info.Browser = d.Browser
		info.OS = d.OS
		info.OSVersion = d.OSVersion
		info.DeviceName = d.DeviceName
	}
	if info.Browser == "" {
		info.Browser = truncate(c.Request().UserAgent(), 255)
	}
	return info
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

func currentUserID(c echo.Context) (uint, error) {
	claims, ok := auth.CurrentClaims(c)
	if !ok {
		return 0, echo.ErrUnauthorized
	}
	return claims.UserID, nil
}
