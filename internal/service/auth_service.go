package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"epoxy_monitor/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	errNoSigningKey    = errors.New("signing key is empty")
)

// AuthService authenticates the single configured operator.
type AuthService struct {
	username     string
	passwordHash string
	signingKey   []byte
	tokenTTL     time.Duration
}

// NewAuthService uses cfg.PasswordHash when set and otherwise hashes cfg.Password.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	if cfg.SigningKey == "" {
		return nil, errNoSigningKey
	}
	hash := cfg.PasswordHash
	if hash == "" {
		h, err := hashPassword(cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("operator password: %w", err)
		}
		hash = h
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		username:     cfg.Username,
		passwordHash: hash,
		signingKey:   []byte(cfg.SigningKey),
		tokenTTL:     ttl,
	}, nil
}

// GenerateToken validates credentials and returns a signed JWT.
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	if username != s.username {
		return "", ErrUserNotFound
	}
	if err := verifyPassword(s.passwordHash, password); err != nil {
		return "", ErrInvalidPassword
	}
	return s.issueToken(username, time.Now())
}

// ParseToken validates a JWT and returns the operator name it was issued to.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject != s.username {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueToken(subject string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString(s.signingKey)
}
