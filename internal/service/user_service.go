package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskerp-api/internal/audit"
	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/domain/access"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/service/auth"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// RegisterInput carries the fields of a new account. An empty Role means MEMBER.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// UserService provides account operations: bootstrap, registration, login and lookup.
type UserService interface {
	// CreateInitialAdmin registers the first user as ADMIN. It fails with
	// ErrInitialAdminExists once any user exists.
	CreateInitialAdmin(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Register creates a user on behalf of actor. Only ADMIN may assign a
	// role other than MEMBER.
	Register(ctx context.Context, input RegisterInput, actor domain.Actor) (*domain.User, error)

	// Login verifies credentials and returns the matching user.
	// Unknown emails and wrong passwords both return auth.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type (
	userRegisteredDetails struct {
		Email string      `json:"email"`
		Role  domain.Role `json:"role"`
	}
	userLoginDetails struct {
		Email string `json:"email"`
	}
)

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	users    store.UserStore
	verifier auth.PasswordVerifier
	audit    audit.Sink
	logger   *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	verifier auth.PasswordVerifier,
	sink audit.Sink,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if sink == nil {
		sink = audit.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		verifier: verifier,
		audit:    sink,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

// CreateInitialAdmin implements UserService.CreateInitialAdmin
func (s *userServiceImpl) CreateInitialAdmin(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	count, err := s.users.Count(ctx)
	if err != nil {
		log.Error("failed to count users", slog.String("error", err.Error()))
		return nil, NewUserServiceError("create_initial_admin", "failed to count users", err)
	}
	if count > 0 {
		return nil, NewUserServiceError("create_initial_admin", "users already exist", ErrInitialAdminExists)
	}

	user, err := s.create(ctx, "create_initial_admin", input, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	log.Info("initial admin created", slog.Int64("user_id", user.ID))
	s.record(ctx, user.ID, domain.ActionUserRegistered, userRegisteredDetails{Email: user.Email, Role: user.Role})
	return user, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, input RegisterInput, actor domain.Actor) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	role := domain.DefaultRole
	if strings.TrimSpace(input.Role) != "" {
		parsed, err := domain.ParseRole(input.Role)
		if err != nil {
			return nil, NewUserServiceError("register", "invalid role", err)
		}
		role = parsed
	}

	decision := access.Decide(access.Request{Actor: actor, Operation: access.OpRegisterUser, Role: role})
	if !decision.Allowed() {
		log.Debug("registration denied",
			slog.Int64("user_id", actor.ID),
			slog.String("requested_role", string(role)))
		return nil, NewUserServiceError("register", decision.Reason, decision.Err())
	}

	user, err := s.create(ctx, "register", input, role)
	if err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.Int64("registered_by", actor.ID))
	s.record(ctx, actor.ID, domain.ActionUserRegistered, userRegisteredDetails{Email: user.Email, Role: user.Role})
	return user, nil
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			_ = s.verifier.Compare(auth.TimingHash(), password)
			return nil, NewUserServiceError("login", "invalid credentials", auth.ErrInvalidCredentials)
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		return nil, NewUserServiceError("login", "failed to authenticate user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.Int64("user_id", user.ID))
		return nil, NewUserServiceError("login", "invalid credentials", auth.ErrInvalidCredentials)
	}

	s.record(ctx, user.ID, domain.ActionUserLogin, userLoginDetails{Email: user.Email})
	return user, nil
}

// GetUser implements UserService.GetUser
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				slog.String("error", err.Error()),
				slog.Int64("user_id", id))
		}
		return nil, NewUserServiceError("get_user", "failed to retrieve user", translateStoreError(err))
	}
	return user, nil
}

func (s *userServiceImpl) create(ctx context.Context, op string, input RegisterInput, role domain.Role) (*domain.User, error) {
	user, err := domain.NewUser(input.Email, input.Password, input.FirstName, input.LastName, role)
	if err != nil {
		return nil, NewUserServiceError(op, "invalid user data", asValidationError(err))
	}

	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, store.ErrEmailExists) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to create user",
				slog.String("error", err.Error()))
		}
		return nil, NewUserServiceError(op, "failed to create user", translateStoreError(err))
	}
	return user, nil
}

// record hands an entry to the audit sink. Failures are logged, never returned.
func (s *userServiceImpl) record(ctx context.Context, actorID int64, action domain.ActionType, details any) {
	if err := s.audit.Record(ctx, actorID, action, details); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to record audit entry",
			slog.String("action_type", string(action)),
			slog.String("error", err.Error()))
	}
}
