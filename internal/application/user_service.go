package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/smartmeeting/internal/persistence"
)

// UserRepository captures the persistence interactions needed by UserService.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (UserCredentials, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]User, error)
}

// UserService manages directory accounts.
type UserService struct {
	users       UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUserService wires dependencies for user management.
func NewUserService(users UserRepository, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, idGenerator, now, nil)
}

// NewUserServiceWithLogger constructs a UserService with a specified logger.
func NewUserServiceWithLogger(users UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// CreateUser registers a directory account. Email uniqueness is enforced
// case-insensitively by the store; the password is hashed before it is ever
// handed to persistence.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateUser", "email", input.Email)

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}
	if len(input.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}
	role := input.Role
	if strings.TrimSpace(role) == "" {
		role = RoleEmployee
	} else if !validRole(role) {
		vErr.add("role", "unknown role")
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	passwordHash, err := HashPassword(input.Password, DefaultArgon2idParams)
	if err != nil {
		logger.ErrorContext(ctx, "failed to hash password", "error", err)
		return User{}, err
	}

	user := User{
		ID:        s.idGenerator(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      canonicalRole(role),
		CreatedAt: s.now(),
	}

	persisted, err := s.users.CreateUser(ctx, user, passwordHash)
	if err != nil {
		err = mapUserRepoError(err)
		logger.ErrorContext(ctx, "failed to persist user", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	logger.InfoContext(ctx, "user created", "user_id", persisted.ID)
	return persisted, nil
}

// GetUser retrieves a single user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}
	return user, nil
}

// FindUser satisfies the directory lookup other services depend on.
func (s *UserService) FindUser(ctx context.Context, id string) (User, error) {
	return s.GetUser(ctx, id)
}

// ListUsers returns all directory accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	if s == nil || s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapUserRepoError(err)
	}
	return users, nil
}

// UpdateUser applies name, email, and role changes to an existing account.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UserInput) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateUser", "user_id", id)

	existing, err := s.users.GetUser(ctx, id)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) != "" {
		existing.Name = input.Name
	}
	if strings.TrimSpace(input.Email) != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			vErr.add("email", "email is invalid")
		} else {
			existing.Email = input.Email
		}
	}
	if strings.TrimSpace(input.Role) != "" {
		if !validRole(input.Role) {
			vErr.add("role", "unknown role")
		} else {
			existing.Role = canonicalRole(input.Role)
		}
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	persisted, err := s.users.UpdateUser(ctx, existing)
	if err != nil {
		err = mapUserRepoError(err)
		logger.ErrorContext(ctx, "failed to persist user", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	logger.InfoContext(ctx, "user updated")
	return persisted, nil
}

// DeleteUser removes a directory account.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if s == nil || s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return mapUserRepoError(err)
	}
	s.loggerWith(ctx, "DeleteUser", "user_id", id).InfoContext(ctx, "user deleted")
	return nil
}

func validRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin", "employee", "guest":
		return true
	}
	return false
}

func canonicalRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin":
		return RoleAdmin
	case "guest":
		return RoleGuest
	default:
		return RoleEmployee
	}
}

func mapUserRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		vErr := &ValidationError{}
		vErr.add("email", "email is already registered")
		return vErr
	}
	return err
}
