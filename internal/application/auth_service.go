package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/smartmeeting/internal/persistence"
)

// CredentialStore resolves login credentials by email.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (UserCredentials, error)
}

// AuthService authenticates users and issues signed bearer tokens.
type AuthService struct {
	credentials CredentialStore
	signingKey  []byte
	tokenTTL    time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewAuthService wires dependencies for authentication.
func NewAuthService(credentials CredentialStore, signingKey []byte, tokenTTL time.Duration, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(credentials, signingKey, tokenTTL, now, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialStore, signingKey []byte, tokenTTL time.Duration, now func() time.Time, logger *slog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		credentials: credentials,
		signingKey:  signingKey,
		tokenTTL:    tokenTTL,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login verifies the email and password and, on success, returns the user
// together with a signed HS256 token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if s == nil || s.credentials == nil {
		return AuthResult{}, fmt.Errorf("credential store not configured")
	}

	logger := s.loggerWith(ctx, "Login", "email", email)

	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	creds, err := s.credentials.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "credential lookup failed", "error", err)
		return AuthResult{}, err
	}

	if err := VerifyPassword(creds.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return AuthResult{}, ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "password verification failed", "error", err)
		return AuthResult{}, err
	}

	expiresAt := s.now().Add(s.tokenTTL)
	token, err := s.issueToken(creds.User, expiresAt)
	if err != nil {
		logger.ErrorContext(ctx, "failed to sign token", "error", err)
		return AuthResult{}, err
	}

	logger.InfoContext(ctx, "login succeeded", "user_id", creds.User.ID)
	return AuthResult{User: creds.User, Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken parses and validates a bearer token, returning the embedded
// principal. Expired, malformed, or mis-signed tokens all yield
// ErrInvalidCredentials.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (Principal, error) {
	if s == nil {
		return Principal{}, ErrInvalidCredentials
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidCredentials
	}

	if claims.Subject == "" {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{UserID: claims.Subject, Role: claims.Role}, nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

func (s *AuthService) issueToken(user User, expiresAt time.Time) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}
