package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService.
type authService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	bcryptCost int,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates an account and returns it with a bearer token.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	if existing != nil {
		s.logger.Warn().Str("email", email).Msg("registration with taken email")
		return nil, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return &model.AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials and returns the user with a bearer token.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("login with wrong password")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return &model.AuthResponse{User: user, Token: token}, nil
}

// ResolveToken verifies a bearer token and loads its user.
func (s *authService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, model.NewDomainError(model.ErrCodeUnauthorised, "Not authorized, token failed")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	if user == nil {
		return nil, model.NewDomainError(model.ErrCodeUnauthorised, "User not found")
	}

	return user, nil
}
