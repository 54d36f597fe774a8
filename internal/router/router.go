package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/handler"
	"socialnet/internal/logging"
)

// OTP endpoints allow a burst of 5 requests per client, refilled at one every 12 seconds.
const (
	otpRateLimit = rate.Limit(1.0 / 12)
	otpRateBurst = 5
)

// Handlers groups the HTTP handlers wired by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	Password *handler.PasswordHandler
	User     *handler.UserHandler
	Event    *handler.EventHandler
	Upload   *handler.UploadHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, logger *slog.Logger, h Handlers) {
	if logger == nil {
		logger = slog.Default()
	}
	e.HTTPErrorHandler = handler.NewErrorHandler(cfg.Debug, logger)
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(contextLogger(logger))
	e.Use(middleware.RequestLoggerWithConfig(requestLoggerConfig(logger)))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("12M"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/signin", h.Auth.Signin)
	api.GET("/auth/username_available", h.Auth.UsernameAvailable)

	otp := api.Group("/auth", middleware.RateLimiterWithConfig(otpRateLimiterConfig()))
	otp.POST("/send_otp", h.Password.SendOTP)
	otp.POST("/resend_otp", h.Password.ResendOTP)
	otp.POST("/forgot_password", h.Password.ForgotPassword)
	otp.POST("/reset_password", h.Password.ResetPassword)

	// Secured routes (require a bearer session token)
	secured := api.Group("", auth.Middleware(cfg.JWTSecret))

	secured.POST("/auth/activate", h.User.Activate)
	secured.POST("/auth/resend_activation", h.User.ResendActivation)
	secured.GET("/me", h.User.Me)

	secured.GET("/events/:id", h.Event.Get)
	secured.POST("/events/:id/rsvp", h.Event.RSVP)
	secured.POST("/events/:id/invite", h.Event.Invite)

	secured.POST("/uploads", h.Upload.Upload)
}

// contextLogger stores a logger tagged with the request id in the request context.
func contextLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logging.WithContext(req.Context(), logger.With("request_id", id))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func requestLoggerConfig(logger *slog.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}
}

func otpRateLimiterConfig() middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      otpRateLimit,
			Burst:     otpRateBurst,
			ExpiresIn: 10 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
		},
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator reporting failures as validation errors.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation("invalid request")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return apperrors.Validation(fmt.Sprintf("%s is required", fe.Field()))
	case "oneof":
		return apperrors.Validation(fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
	default:
		return apperrors.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
