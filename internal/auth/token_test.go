package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"pgn_backend/internal/config"
)

var issuedAt = time.Unix(1_700_000_000, 0)

func newTokenService(t *testing.T, secret, alg string) *TokenService {
	t.Helper()
	svc, err := NewTokenService(&config.Config{
		JWTSecret:      secret,
		JWTAlgorithm:   alg,
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return svc.WithClock(func() time.Time { return issuedAt })
}

func signMap(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestNewTokenService(t *testing.T) {
	t.Run("empty secret", func(t *testing.T) {
		_, err := NewTokenService(&config.Config{JWTAlgorithm: "HS256", AccessTokenTTL: time.Hour})
		require.Error(t, err)
	})

	t.Run("asymmetric algorithm", func(t *testing.T) {
		_, err := NewTokenService(&config.Config{JWTSecret: "s", JWTAlgorithm: "RS256", AccessTokenTTL: time.Hour})
		require.ErrorContains(t, err, "RS256")
	})

	t.Run("zero ttl", func(t *testing.T) {
		_, err := NewTokenService(&config.Config{JWTSecret: "s", JWTAlgorithm: "HS256"})
		require.Error(t, err)
	})
}

func TestTokenLifetime(t *testing.T) {
	svc := newTokenService(t, "secret", "HS256")

	token, exp, err := svc.Issue("admin-1", "pgn_admin")
	require.NoError(t, err)
	require.Equal(t, issuedAt.Add(time.Hour), exp)

	id, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, Identity{ID: "admin-1", Role: "pgn_admin"}, id)

	svc.WithClock(func() time.Time { return exp.Add(-time.Second) })
	_, err = svc.Validate(token)
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return exp.Add(time.Second) })
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejects(t *testing.T) {
	svc := newTokenService(t, "secret", "HS256")
	exp := issuedAt.Add(time.Minute).Unix()

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.Validate("not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := newTokenService(t, "other-secret", "HS256")
		token, _, err := other.Issue("admin-1", "pgn_admin")
		require.NoError(t, err)
		_, err = svc.Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other algorithm", func(t *testing.T) {
		other := newTokenService(t, "secret", "HS512")
		token, _, err := other.Issue("admin-1", "pgn_admin")
		require.NoError(t, err)
		_, err = svc.Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": "admin-1", "role": "pgn_admin", "exp": exp,
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user_id", func(t *testing.T) {
		_, err := svc.Validate(signMap(t, "secret", jwt.MapClaims{"role": "pgn_admin", "exp": exp}))
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing role", func(t *testing.T) {
		_, err := svc.Validate(signMap(t, "secret", jwt.MapClaims{"user_id": "admin-1", "exp": exp}))
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing exp", func(t *testing.T) {
		_, err := svc.Validate(signMap(t, "secret", jwt.MapClaims{"user_id": "admin-1", "role": "pgn_admin"}))
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssueRequiresClaims(t *testing.T) {
	svc := newTokenService(t, "secret", "HS256")
	_, _, err := svc.Issue("", "pgn_admin")
	require.Error(t, err)
	_, _, err = svc.Issue("admin-1", "")
	require.Error(t, err)
}

func TestProperty_TokenRoundTrip(t *testing.T) {
	svc := newTokenService(t, "secret", "HS256")
	other := newTokenService(t, "different", "HS256")

	properties := gopter.NewProperties(nil)

	properties.Property("issued tokens validate only under the issuing secret", prop.ForAll(
		func(subject, role string) bool {
			token, _, err := svc.Issue(subject, role)
			if err != nil {
				return false
			}
			id, err := svc.Validate(token)
			if err != nil || id.ID != subject || id.Role != role {
				return false
			}
			_, err = other.Validate(token)
			return err != nil
		},
		gen.Identifier(),
		gen.OneConstOf("pgn_admin", "org_admin", "viewer"),
	))

	properties.TestingRun(t)
}
