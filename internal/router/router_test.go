package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/handler"
	"socialnet/internal/logging"
	"socialnet/internal/model"
	"socialnet/internal/service"
)

const testSecret = "router-secret"

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Signin(ctx context.Context, in service.SigninInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) UsernameAvailable(ctx context.Context, username string, kind model.EntityKind) (bool, error) {
	args := m.Called(ctx, username, kind)
	return args.Bool(0), args.Error(1)
}

type MockOTPService struct{ mock.Mock }

func (m *MockOTPService) SendOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockOTPService) ResendOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockOTPService) ForgotPassword(ctx context.Context, email, otp string) error {
	return m.Called(ctx, email, otp).Error(0)
}

func (m *MockOTPService) ResetPassword(ctx context.Context, email, otp, password string) error {
	return m.Called(ctx, email, otp, password).Error(0)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Me(ctx context.Context, userID uint) (*model.PublicUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PublicUser), args.Error(1)
}

func (m *MockUserService) Activate(ctx context.Context, userID uint, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}

func (m *MockUserService) ResendActivation(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

type MockEventService struct{ mock.Mock }

func (m *MockEventService) Get(ctx context.Context, eventID uint) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) RSVP(ctx context.Context, eventID, userID uint, status model.RSVPStatus) error {
	return m.Called(ctx, eventID, userID, status).Error(0)
}

func (m *MockEventService) Invite(ctx context.Context, eventID, fromUserID, toUserID uint) error {
	return m.Called(ctx, eventID, fromUserID, toUserID).Error(0)
}

type mocks struct {
	auth   *MockAuthService
	otp    *MockOTPService
	users  *MockUserService
	events *MockEventService
}

func newTestServer(t *testing.T, debug bool) (*echo.Echo, *mocks) {
	t.Helper()
	m := &mocks{
		auth:   new(MockAuthService),
		otp:    new(MockOTPService),
		users:  new(MockUserService),
		events: new(MockEventService),
	}
	cfg := &config.Config{JWTSecret: testSecret, Debug: debug}
	logger := logging.NewWithWriter(&strings.Builder{}, false)

	e := echo.New()
	Register(e, cfg, logger, Handlers{
		Auth:     handler.NewAuthHandler(m.auth),
		Password: handler.NewPasswordHandler(m.otp),
		User:     handler.NewUserHandler(m.users),
		Event:    handler.NewEventHandler(m.events),
		Upload:   handler.NewUploadHandler(nil, logger),
	})
	return e, m
}

func bearer(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.NewJWTService(testSecret).GenerateToken(userID, model.RoleUser, "session", false, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func do(e *echo.Echo, method, path, body, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	e, _ := newTestServer(t, false)
	rec := do(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSignup(t *testing.T) {
	e, m := newTestServer(t, false)
	m.auth.On("Signup", mock.Anything, mock.MatchedBy(func(in service.SignupInput) bool {
		return in.Username == "jane_doe" && in.Client.Browser == "Firefox" && in.Client.IP != ""
	})).Return(&service.AuthResult{Token: "tok", User: &model.PublicUser{ID: 1, Username: "jane_doe"}}, nil)

	body := `{"firstname":"Jane","lastname":"Doe","username":"jane_doe","email":"jane@example.com","password":"secret123","device_info":{"browser":"Firefox"}}`
	rec := do(e, http.MethodPost, "/api/auth/signup", body, "")

	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "tok", out["token"])
	assert.Equal(t, "jane_doe", out["user"].(map[string]any)["user_name"])
	m.auth.AssertExpectations(t)
}

func TestSignup_MissingField(t *testing.T) {
	e, m := newTestServer(t, false)

	rec := do(e, http.MethodPost, "/api/auth/signup", `{"firstname":"Jane"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "lastname is required", decode(t, rec)["error"])
	m.auth.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		debug      bool
		wantStatus int
		wantError  string
	}{
		{name: "validation", err: apperrors.Validation("email taken"), wantStatus: http.StatusBadRequest, wantError: "email taken"},
		{name: "authorization", err: apperrors.Authorization("registration closed"), wantStatus: http.StatusForbidden, wantError: "registration closed"},
		{name: "not found", err: apperrors.NotFound("nope"), wantStatus: http.StatusNotFound, wantError: "nope"},
		{name: "internal", err: apperrors.Internal("create user", assert.AnError), wantStatus: http.StatusInternalServerError, wantError: "internal server error"},
		{name: "internal debug", err: apperrors.Internal("create user", assert.AnError), debug: true, wantStatus: http.StatusInternalServerError, wantError: "internal server error: create user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, m := newTestServer(t, tt.debug)
			m.auth.On("Signin", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := do(e, http.MethodPost, "/api/auth/signin", `{"email":"a@b.com","password":"x"}`, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decode(t, rec)["error"])
		})
	}
}

func TestSignin_RequiresEmailOrUsername(t *testing.T) {
	e, m := newTestServer(t, false)
	m.auth.On("Signin", mock.Anything, mock.MatchedBy(func(in service.SigninInput) bool {
		return in.Username == "jane" && in.Remember
	})).Return(&service.AuthResult{Token: "tok", User: &model.PublicUser{ID: 1}}, nil)

	rec := do(e, http.MethodPost, "/api/auth/signin", `{"password":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/auth/signin", `{"username":"jane","password":"x","remember":true}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsernameAvailable(t *testing.T) {
	e, m := newTestServer(t, false)
	m.auth.On("UsernameAvailable", mock.Anything, "jane_doe", model.EntityUser).Return(true, nil)
	m.auth.On("UsernameAvailable", mock.Anything, "acme", model.EntityPage).Return(false, nil)

	rec := do(e, http.MethodGet, "/api/auth/username_available?username=jane_doe", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, true, out["available"])
	assert.Equal(t, "user", out["kind"])

	rec = do(e, http.MethodGet, "/api/auth/username_available?username=acme&kind=page", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["available"])

	rec = do(e, http.MethodGet, "/api/auth/username_available?username=acme&kind=event", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/auth/username_available", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username is required", decode(t, rec)["error"])

	m.auth.AssertExpectations(t)
}

func TestPasswordFlow(t *testing.T) {
	e, m := newTestServer(t, false)
	m.otp.On("SendOTP", mock.Anything, "a@b.com").Return(nil)
	m.otp.On("ForgotPassword", mock.Anything, "a@b.com", "9999").Return(apperrors.Validation("Invalid OTP"))
	m.otp.On("ResetPassword", mock.Anything, "a@b.com", "1234", "NewPass1!").Return(nil)

	rec := do(e, http.MethodPost, "/api/auth/send_otp", `{"email":"a@b.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["status"])

	rec = do(e, http.MethodPost, "/api/auth/forgot_password", `{"email":"a@b.com","otp":"9999"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP", decode(t, rec)["error"])

	rec = do(e, http.MethodPost, "/api/auth/reset_password", `{"email":"a@b.com","otp":"1234","password":"NewPass1!"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	m.otp.AssertExpectations(t)
}

func TestOTPRoutesAreRateLimited(t *testing.T) {
	e, m := newTestServer(t, false)
	m.otp.On("SendOTP", mock.Anything, mock.Anything).Return(nil)

	var last int
	for i := 0; i < otpRateBurst+1; i++ {
		last = do(e, http.MethodPost, "/api/auth/send_otp", `{"email":"a@b.com"}`, "").Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	e, m := newTestServer(t, false)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodPost, "/api/events/1/rsvp"},
		{http.MethodPost, "/api/events/1/invite"},
		{http.MethodPost, "/api/uploads"},
	} {
		rec := do(e, route.method, route.path, `{}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		assert.NotEmpty(t, decode(t, rec)["error"])
	}
	m.users.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

func TestMe(t *testing.T) {
	e, m := newTestServer(t, false)
	m.users.On("Me", mock.Anything, uint(7)).Return(&model.PublicUser{ID: 7, Username: "jane"}, nil)

	rec := do(e, http.MethodGet, "/api/me", "", bearer(t, 7))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), decode(t, rec)["user_id"])
}

func TestEventRSVP(t *testing.T) {
	e, m := newTestServer(t, false)
	m.events.On("RSVP", mock.Anything, uint(3), uint(7), model.RSVPGoing).Return(nil)

	rec := do(e, http.MethodPost, "/api/events/3/rsvp", `{"status":"going"}`, bearer(t, 7))
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "going", out["status"])

	rec = do(e, http.MethodPost, "/api/events/3/rsvp", `{"status":"maybe"}`, bearer(t, 7))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/events/abc/rsvp", `{"status":"going"}`, bearer(t, 7))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.events.AssertNumberOfCalls(t, "RSVP", 1)
}

func TestEventInvite(t *testing.T) {
	e, m := newTestServer(t, false)
	m.events.On("Invite", mock.Anything, uint(3), uint(7), uint(9)).Return(nil)
	m.events.On("Invite", mock.Anything, uint(3), uint(8), uint(9)).Return(apperrors.Authorization("Only the event admin can invite people"))

	rec := do(e, http.MethodPost, "/api/events/3/invite", `{"userId":9}`, bearer(t, 7))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"ok": true}, decode(t, rec))

	rec = do(e, http.MethodPost, "/api/events/3/invite", `{"userId":9}`, bearer(t, 8))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
