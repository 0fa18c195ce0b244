package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/docudetect/docu-detect/internal/config"
	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/repository"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserContext is the authenticated identity attached to a request.
type UserContext struct {
	Email    string
	Username string
}

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Service handles registration, login and token validation.
type Service struct {
	users      repository.UserStore
	signingKey []byte
	tokenTTL   time.Duration
	issuer     string
	logger     zerolog.Logger
}

func NewService(users repository.UserStore, cfg config.AuthConfig, logger zerolog.Logger) *Service {
	return &Service{
		users:      users,
		signingKey: []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		issuer:     cfg.Issuer,
		logger:     logger,
	}
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	profession := strings.TrimSpace(req.Profession)

	if email == "" || username == "" || req.Password == "" || profession == "" {
		return ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Profession:   profession,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("User registered")
	return nil
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{Token: token, Username: user.Username}, nil
}

func (s *Service) generateToken(user *models.User) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.signingKey)
}

// ValidateToken parses an access token and returns the identity it carries.
func (s *Service) ValidateToken(tokenString string) (*UserContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if c.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}

	return &UserContext{Email: c.Subject, Username: c.Username}, nil
}
