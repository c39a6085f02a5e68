package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/client"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

// Service is the slice of the backend client the auth handlers proxy to.
// The engine holds the tokens; the UI never sees them.
type Service interface {
	Login(ctx context.Context, email, password string) (*types.UserProfile, error)
	Register(ctx context.Context, username, email, password string) (*types.UserProfile, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*types.UserProfile, error)
	LoggedIn() bool
}

type Handler interface {
	LoginHandler(w http.ResponseWriter, r *http.Request)
	RegisterHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	CurrentUserHandler(w http.ResponseWriter, r *http.Request)
	SessionHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

func (h *HandlerImpl) LoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login")
	defer span.End()
	l := h.logger.With(slog.String("handler", "LoginHandler"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err), slog.String("email", req.Email))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Login failed")
		api.ErrorResponse(w, r, backendStatus(err, http.StatusUnauthorized), err.Error())
		return
	}

	l.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "Logged in")
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

func (h *HandlerImpl) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register")
	defer span.End()
	l := h.logger.With(slog.String("handler", "RegisterHandler"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, err := h.service.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		api.ErrorResponse(w, r, backendStatus(err, http.StatusBadRequest), err.Error())
		return
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "Registered")
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

func (h *HandlerImpl) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "LogoutHandler"))

	if err := h.service.Logout(ctx); err != nil {
		// Tokens are dropped locally either way; the backend failure is
		// only worth a warning.
		l.WarnContext(ctx, "Backend logout failed", slog.Any("error", err))
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CurrentUserHandler"))

	if !h.service.LoggedIn() {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not logged in")
		return
	}
	user, err := h.service.CurrentUser(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch current user", slog.Any("error", err))
		api.ErrorResponse(w, r, backendStatus(err, http.StatusBadGateway), err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// SessionHandler lets the UI check login state without a backend round-trip.
func (h *HandlerImpl) SessionHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]bool{"logged_in": h.service.LoggedIn()})
}

// backendStatus maps a backend error onto a local status code, falling
// back when the error carries no status of its own.
func backendStatus(err error, fallback int) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode
	}
	return fallback
}
