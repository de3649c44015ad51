package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
)

// JWTClaims represents the session token claims
type JWTClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// authenticationService implements AuthenticationService
type authenticationService struct {
	logger     *logger.Logger
	userRepo   repositories.UserRepository
	clientRepo repositories.ClientRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	issuer     string
	now        func() time.Time
}

// NewAuthenticationService creates a new authentication service
func NewAuthenticationService(
	logger *logger.Logger,
	userRepo repositories.UserRepository,
	clientRepo repositories.ClientRepository,
	cfg *config.Config,
) AuthenticationService {
	return &authenticationService{
		logger:     logger,
		userRepo:   userRepo,
		clientRepo: clientRepo,
		jwtSecret:  []byte(cfg.Auth.JWTSecret),
		tokenTTL:   time.Duration(cfg.Auth.TokenTTL) * time.Second,
		issuer:     cfg.Auth.Issuer,
		now:        time.Now,
	}
}

// Login checks the credentials and issues a session token together with the
// clients the user may open.
func (s *authenticationService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			s.logger.WithField("email", email).Warn("Login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.VerifyPassword(user.PasswordHash, password); err != nil {
		s.logger.WithUser(user.ID).Warn("Invalid password on login")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.WithUser(user.ID).Warn("Login attempt by deactivated user")
		return nil, ErrUserInactive
	}

	var clients []*models.Client
	if user.IsAdmin() {
		clients, err = s.clientRepo.GetAll(ctx)
	} else {
		clients, err = s.clientRepo.GetByOwner(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []*models.Client{}
	}

	token, expiresAt, err := s.GenerateJWT(ctx, user)
	if err != nil {
		return nil, err
	}

	loginAt := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, loginAt); err != nil {
		s.logger.WithUser(user.ID).WithError(err).Warn("Failed to record login time")
	} else {
		user.LastLoginAt = &loginAt
	}

	s.logger.WithUser(user.ID).Info("User logged in")

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
		Clients:   clients,
	}, nil
}

// GenerateJWT generates a signed session token for a user
func (s *authenticationService) GenerateJWT(ctx context.Context, user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.WithUser(user.ID).WithError(err).Error("Failed to sign JWT token")
		return "", time.Time{}, apperrors.Wrap(err, apperrors.CodeInternal, "failed to sign token")
	}

	return tokenString, expiresAt, nil
}

// ValidateJWT validates a session token and returns the active user it names
func (s *authenticationService) ValidateJWT(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		s.logger.WithError(err).Warn("Failed to parse JWT token")
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			s.logger.WithUser(claims.UserID).Warn("User not found for JWT token")
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}

// HashPassword hashes a password using bcrypt
func (s *authenticationService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInvalid, "password cannot be hashed")
	}
	return string(hash), nil
}

// VerifyPassword compares a bcrypt hash with a candidate password
func (s *authenticationService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
