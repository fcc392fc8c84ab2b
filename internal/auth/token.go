package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pgn_backend/internal/config"
)

// ErrInvalidToken covers malformed, mis-signed, expired and incomplete tokens alike.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the caller derived from a validated token.
type Identity struct {
	ID   string
	Role string
}

// Claims represents the JWT claims structure.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService accepts the HMAC algorithms only, since the key is a shared secret.
func NewTokenService(cfg *config.Config) (*TokenService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret not provided")
	}
	var method jwt.SigningMethod
	switch cfg.JWTAlgorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.JWTAlgorithm)
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		method: method,
		ttl:    cfg.AccessTokenTTL,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for subject with role, expiring TTL from now.
func (s *TokenService) Issue(subjectID, role string) (string, time.Time, error) {
	if subjectID == "" || role == "" {
		return "", time.Time{}, errors.New("subject and role are required")
	}
	exp := s.now().Add(s.ttl)
	token := jwt.NewWithClaims(s.method, Claims{
		UserID: subjectID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate checks signature, algorithm and expiry and returns the embedded identity.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Role == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: claims.UserID, Role: claims.Role}, nil
}
