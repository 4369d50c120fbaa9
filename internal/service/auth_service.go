// Package service holds the business rules that sit between the HTTP handlers
// and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialapi/internal/auth"
	"socialapi/internal/middleware"
	"socialapi/internal/models"
	"socialapi/internal/observability"
	"socialapi/internal/repository"
	"socialapi/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	msgInvalidCredentials = "Invalid Credentials"
	msgCouldNotValidate   = "Could not validate credentials"
)

type AuthService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewAuthService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Register creates a user with a hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "service.AuthService.Register")
	user, err := s.register(ctx, in)
	observability.EndSpan(span, err)
	return user, err
}

func (s *AuthService) register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError(fmt.Sprintf("User with email: %s already exists", email))
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, models.NewValidationError("Password too long (max 72 bytes)")
		}
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Email: email, Password: hashed}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues an access token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	ctx, span := observability.StartSpan(ctx, "service.AuthService.Login")
	resp, err := s.login(ctx, in)
	observability.EndSpan(span, err)
	return resp, err
}

func (s *AuthService) login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(in.Password, user.Password) {
		middleware.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		middleware.Logger.WarnContext(ctx, "login rejected")
		return nil, models.NewForbiddenError(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	middleware.TokensIssued.Inc()

	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "service.AuthService.Authenticate")
	user, err := s.authenticate(ctx, token)
	if user != nil {
		span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))
	}
	observability.EndSpan(span, err)
	return user, err
}

func (s *AuthService) authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		middleware.AuthFailures.WithLabelValues("missing_token").Inc()
		return nil, models.NewUnauthorizedError(msgCouldNotValidate)
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		middleware.AuthFailures.WithLabelValues("invalid_token").Inc()
		return nil, models.NewUnauthorizedError(msgCouldNotValidate)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		middleware.AuthFailures.WithLabelValues("unknown_user").Inc()
		return nil, models.NewUnauthorizedError(msgCouldNotValidate)
	}
	return user, nil
}
