package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskerp-api/internal/api/shared"
	"github.com/phrazzld/taskerp-api/internal/config"
	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/service"
	"github.com/phrazzld/taskerp-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	authConfig config.AuthConfig
	logger     *slog.Logger
	timeFunc   func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	authConfig config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		authConfig: authConfig,
		logger:     logger.With(slog.String("component", "auth_handler")),
		timeFunc:   time.Now,
	}
}

// InitialAdmin handles POST /api/auth/initial-admin. It only succeeds while
// no user exists.
func (h *AuthHandler) InitialAdmin(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.CreateInitialAdmin(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, "Initial admin created successfully", user)
}

// Register handles POST /api/auth/register. The caller must be authenticated.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}, actor)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated, "User registered successfully", newUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, "Login successful", user)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Current user", newUserResponse(user))
}

// RefreshToken handles POST /api/auth/refresh. The user is reloaded so the new
// access token carries the current role.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		log.Debug("refresh token for unknown user", slog.Int64("user_id", claims.UserID))
		HandleAPIError(w, r, auth.ErrInvalidRefreshToken, "")
		return
	}

	access, refresh, expiresAt, err := h.generateTokenPair(r.Context(), user)
	if err != nil {
		log.Error("failed to generate tokens", slog.String("error", err.Error()), slog.Int64("user_id", user.ID))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Token refreshed", RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}

func (h *AuthHandler) respondWithTokens(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	user *domain.User,
) {
	access, refresh, expiresAt, err := h.generateTokenPair(r.Context(), user)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to generate tokens",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithSuccess(w, r, status, message, AuthResponse{
		User:         newUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}

func (h *AuthHandler) generateTokenPair(ctx context.Context, user *domain.User) (string, string, string, error) {
	access, err := h.jwtService.GenerateToken(ctx, user.ID, user.Role)
	if err != nil {
		return "", "", "", err
	}
	refresh, err := h.jwtService.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return "", "", "", err
	}
	expiresAt := h.timeFunc().Add(h.authConfig.TokenLifetime()).UTC().Format(time.RFC3339)
	return access, refresh, expiresAt, nil
}
