package auth

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("invalid or missing token information")
	ErrForbidden       = errors.New("insufficient role for this operation")
)

// Gate derives caller identities from bearer tokens.
type Gate struct {
	tokens *TokenService
}

func NewGate(tokens *TokenService) *Gate {
	return &Gate{tokens: tokens}
}

// Identify is the best-effort extraction: a missing, malformed or invalid token
// yields false, never an error.
func (g *Gate) Identify(r *http.Request) (Identity, bool) {
	raw, ok := bearerToken(r)
	if !ok {
		return Identity{}, false
	}
	id, err := g.tokens.Validate(raw)
	if err != nil {
		return Identity{}, false
	}
	return id, true
}

// Authenticate is the strict variant used by protected endpoints.
func (g *Gate) Authenticate(r *http.Request) (Identity, error) {
	id, ok := g.Identify(r)
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}

// Authorize is the single role predicate shared by every protected route.
func Authorize(id Identity, required string) error {
	if id.Role != required {
		return ErrForbidden
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
