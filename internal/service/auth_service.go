package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/models"
	"github.com/centralms/lms-api/internal/repository"
)

// ErrUsernameTaken indicates a signup attempt with an existing username.
var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidCredentials indicates a login attempt that matched no account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound indicates the referenced account does not exist.
var ErrUserNotFound = errors.New("user not found")

// AuthService handles account creation and login.
type AuthService interface {
	SignUp(ctx context.Context, payload dto.SignUpRequest) (dto.UserResponse, error)
	LogIn(ctx context.Context, payload dto.LogInRequest) (dto.LogInResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, payload dto.SignUpRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username: payload.Username,
		Password: payload.Password,
		Role:     models.Role(payload.Role),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrUsernameTaken
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", payload.Role).Msg("account created")

	return dto.NewUserResponse(user), nil
}

func (s *authService) LogIn(ctx context.Context, payload dto.LogInRequest) (dto.LogInResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LogInResponse{}, err
	}

	user, err := s.users.GetByCredentials(ctx, payload.Username, payload.Password, models.Role(payload.Role))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LogInResponse{}, ErrInvalidCredentials
		}
		return dto.LogInResponse{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.LogInResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("login succeeded")

	return dto.LogInResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

func (s *authService) issueToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}
