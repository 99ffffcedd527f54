package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/thereayou/barber-booking/internal/models"
)

// TokenIssuer signs and inspects access tokens.
type TokenIssuer interface {
	Generate(userID uint) (string, error)
	Expiry(token string) (time.Time, error)
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Provider bool   `json:"provider"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthService struct {
	accounts  AccountStore
	tokens    TokenIssuer
	blacklist TokenBlacklist
	log       *zap.Logger
}

func NewAuthService(accounts AccountStore, tokens TokenIssuer, blacklist TokenBlacklist, log *zap.Logger) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, blacklist: blacklist, log: log}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.accounts.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     req.Provider,
	}
	if err := s.accounts.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.Bool("provider", user.Provider))
	return user, nil
}

// Login returns a signed token for valid credentials.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := s.accounts.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("finding user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return token, nil
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	exp, err := s.tokens.Expiry(token)
	if err != nil {
		return ErrInvalidCredentials
	}

	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Blacklist(ctx, token, ttl); err != nil {
		return fmt.Errorf("blacklisting token: %w", err)
	}
	return nil
}
