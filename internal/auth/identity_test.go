package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithAuth(header string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestGateIdentify(t *testing.T) {
	svc := newTokenService(t, "secret", "HS256")
	gate := NewGate(svc)
	token, _, err := svc.Issue("admin-1", "pgn_admin")
	require.NoError(t, err)

	id, ok := gate.Identify(requestWithAuth("Bearer " + token))
	require.True(t, ok)
	assert.Equal(t, "admin-1", id.ID)

	_, ok = gate.Identify(requestWithAuth("bearer " + token))
	assert.True(t, ok, "scheme is case-insensitive")

	for name, header := range map[string]string{
		"absent":       "",
		"basic scheme": "Basic dXNlcjpwYXNz",
		"no token":     "Bearer ",
		"no space":     "Bearer" + token,
		"garbage":      "Bearer abc.def.ghi",
	} {
		_, ok := gate.Identify(requestWithAuth(header))
		assert.False(t, ok, name)
	}
}

func TestGateAuthenticate(t *testing.T) {
	gate := NewGate(newTokenService(t, "secret", "HS256"))
	_, err := gate.Authenticate(requestWithAuth(""))
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorize(t *testing.T) {
	require.NoError(t, Authorize(Identity{ID: "a", Role: "pgn_admin"}, "pgn_admin"))
	require.ErrorIs(t, Authorize(Identity{ID: "a", Role: "org_admin"}, "pgn_admin"), ErrForbidden)
	require.ErrorIs(t, Authorize(Identity{}, "pgn_admin"), ErrForbidden)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTokenService(t, "secret", "HS256")
	gate := NewGate(svc)

	r := gin.New()
	r.GET("/protected", RequireRole(gate, "pgn_admin"), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id.ID})
	})

	admin, _, err := svc.Issue("admin-1", "pgn_admin")
	require.NoError(t, err)
	viewer, _, err := svc.Issue("user-1", "viewer")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewer, http.StatusForbidden},
		{"pgn admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusUnauthorized {
				require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
