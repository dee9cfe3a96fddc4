// Package service implements account registration, login and password reset.
// The registrar role is gated by institution onboarding: a registrar must
// prove domain membership with an institution email and the registrar code
// issued at approval.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"certledger/internal/audit"
	"certledger/internal/auth/metrics"
	"certledger/internal/auth/models"
	"certledger/internal/auth/secrets"
	"certledger/internal/auth/store"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/platform/sentinel"
	"certledger/pkg/requestcontext"
)

// RegistrarAuthorizer validates registrar credentials against approved
// institutions.
type RegistrarAuthorizer interface {
	AuthorizeRegistrar(ctx context.Context, email, domain, code string) error
}

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	GenerateAccessToken(username, role string, expiresIn time.Duration) (string, error)
}

type Service struct {
	users      store.UserStore
	registrars RegistrarAuthorizer
	tokens     TokenIssuer
	tokenTTL   time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	audit      *audit.Publisher
}

func New(
	users store.UserStore,
	registrars RegistrarAuthorizer,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
	publisher *audit.Publisher,
) *Service {
	return &Service{
		users:      users,
		registrars: registrars,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		logger:     logger,
		metrics:    m,
		audit:      publisher,
	}
}

// RegisterInput carries a registration. Email, InstitutionDomain and RoleCode
// are only consulted for the registrar role.
type RegisterInput struct {
	Username          string
	Password          string
	Role              string
	SecretWord        string
	Email             string
	InstitutionDomain string
	RoleCode          string
}

// Register creates an account. Requesting the registrar role without valid
// institution credentials fails; any other unknown role silently becomes
// verifier.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" || in.Role == "" || in.SecretWord == "" {
		return dErrors.New(dErrors.CodeValidation, "username, password, role and secret word are required")
	}

	role := models.Role(in.Role)
	if role == models.RoleRegistrar {
		in.Email = strings.TrimSpace(in.Email)
		in.InstitutionDomain = strings.TrimSpace(in.InstitutionDomain)
		if in.Email == "" || in.InstitutionDomain == "" || in.RoleCode == "" {
			return dErrors.New(dErrors.CodeValidation, "email, institution and code are required for the registrar role")
		}
		if err := s.registrars.AuthorizeRegistrar(ctx, in.Email, in.InstitutionDomain, in.RoleCode); err != nil {
			return err
		}
	} else {
		role = models.RoleVerifier
		in.Email = ""
		in.InstitutionDomain = ""
	}

	passwordHash, err := secrets.Hash(in.Password)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "password hashing failed")
	}
	secretWordHash, err := secrets.Hash(in.SecretWord)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "secret word hashing failed")
	}

	user := models.User{
		ID:                uuid.New(),
		Username:          in.Username,
		PasswordHash:      passwordHash,
		Role:              role,
		SecretWordHash:    secretWordHash,
		Email:             in.Email,
		InstitutionDomain: in.InstitutionDomain,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "username already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "user creation failed")
	}

	s.metrics.IncRegistration(string(user.Role))
	s.audit.Emit(ctx, audit.Event{
		Actor:     user.Username,
		Action:    audit.ActionUserRegistered,
		Subject:   user.Username,
		Detail:    string(user.Role),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "user registered",
		"request_id", requestcontext.RequestID(ctx),
		"username", user.Username,
		"role", user.Role,
	)
	return nil
}

// LoginResult is a successful authentication.
type LoginResult struct {
	Token    string
	Username string
	Role     models.Role
}

// Login verifies the password and mints an access token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user lookup failed")
	}
	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		s.metrics.IncLogin(metrics.OutcomeDenied)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
	}

	token, err := s.tokens.GenerateAccessToken(user.Username, string(user.Role), s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "token generation failed")
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "login successful",
		"request_id", requestcontext.RequestID(ctx),
		"username", user.Username,
	)
	return &LoginResult{Token: token, Username: user.Username, Role: user.Role}, nil
}

// ResetPassword replaces the password for a user who presents the recovery
// secret word. An unknown username and a wrong secret produce the same error.
func (s *Service) ResetPassword(ctx context.Context, username, secretWord, newPassword string) error {
	username = strings.TrimSpace(username)
	if username == "" || secretWord == "" || newPassword == "" {
		return dErrors.New(dErrors.CodeValidation, "username, secret and new password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "invalid username or secret")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "user lookup failed")
	}
	if err := secrets.Verify(secretWord, user.SecretWordHash); err != nil {
		return dErrors.New(dErrors.CodeNotFound, "invalid username or secret")
	}

	passwordHash, err := secrets.Hash(newPassword)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "password hashing failed")
	}
	if err := s.users.UpdatePassword(ctx, username, passwordHash); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "password update failed")
	}

	s.metrics.IncPasswordReset()
	s.audit.Emit(ctx, audit.Event{
		Actor:     username,
		Action:    audit.ActionPasswordReset,
		Subject:   username,
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "password reset",
		"request_id", requestcontext.RequestID(ctx),
		"username", username,
	)
	return nil
}
