package audit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pgn_backend/internal/auth"
	"pgn_backend/internal/config"
	"pgn_backend/internal/db"
	"pgn_backend/internal/db/dbtest"
	"pgn_backend/internal/models"
	"pgn_backend/internal/store"
)

type fixture struct {
	gdb      *gorm.DB
	engine   *gin.Engine
	tokens   *auth.TokenService
	rec      *Recorder
	failures prometheus.Counter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := dbtest.Open(t)
	tokens, err := auth.NewTokenService(&config.Config{JWTSecret: "secret", JWTAlgorithm: "HS256", AccessTokenTTL: time.Hour})
	require.NoError(t, err)
	failures := prometheus.NewCounter(prometheus.CounterOpts{Name: "audit_write_failures_total"})
	rec := NewRecorder(store.New(gdb), zerolog.Nop(), failures)
	t.Cleanup(rec.Wait)

	r := gin.New()
	r.Use(Middleware(rec, auth.NewGate(tokens)), gin.Recovery())
	r.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.Data(http.StatusCreated, "application/json", body)
	})
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": id.ID, "ok": ok})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	return &fixture{gdb: gdb, engine: r, tokens: tokens, rec: rec, failures: failures}
}

func (f *fixture) do(method, target, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) logs(t *testing.T) []models.AuditLog {
	t.Helper()
	f.rec.Wait()
	var logs []models.AuditLog
	require.NoError(t, f.gdb.Order("timestamp ASC").Find(&logs).Error)
	return logs
}

func TestMiddlewareReplaysBodyAndRecords(t *testing.T) {
	f := newFixture(t)
	body := `{"email":"a@x.com","password":"pw1","nested":{"new_password":"pw2"}}`

	w := f.do(http.MethodPost, "/echo?x=1", body, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, body, w.Body.String(), "handler must see the original bytes")

	logs := f.logs(t)
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, http.MethodPost, entry.Method)
	assert.Equal(t, "http://example.com/echo?x=1", entry.Endpoint)
	assert.Equal(t, http.StatusCreated, entry.StatusCode)
	assert.Nil(t, entry.UserID)
	assert.Nil(t, entry.Role)
	assert.JSONEq(t, `{"email":"a@x.com","password":"[REDACTED]","nested":{"new_password":"[REDACTED]"}}`, string(entry.RequestData))
	assert.JSONEq(t, `{"detail":201}`, string(entry.ResponseData))
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	f := newFixture(t)
	token, _, err := f.tokens.Issue("admin-1", models.RolePGNAdmin)
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/whoami", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":"admin-1","ok":true}`, w.Body.String())

	w = f.do(http.MethodGet, "/whoami", "", "garbage")
	require.Equal(t, http.StatusOK, w.Code, "an invalid token is not an error here")
	require.JSONEq(t, `{"id":"","ok":false}`, w.Body.String())

	logs := f.logs(t)
	require.Len(t, logs, 2)
	require.NotNil(t, logs[0].UserID)
	require.Equal(t, "admin-1", *logs[0].UserID)
	require.Equal(t, models.RolePGNAdmin, *logs[0].Role)
	require.Nil(t, logs[1].UserID)
	require.Nil(t, logs[0].RequestData)
}

func TestMiddlewareRecordsEveryOutcome(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/nowhere", "", "").Code)
	require.Equal(t, http.StatusInternalServerError, f.do(http.MethodGet, "/panic", "", "").Code)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/echo", "not json", "").Code)

	logs := f.logs(t)
	require.Len(t, logs, 3)
	assert.Equal(t, http.StatusNotFound, logs[0].StatusCode)
	assert.Equal(t, http.StatusInternalServerError, logs[1].StatusCode)
	assert.Equal(t, "http://example.com/panic", logs[1].Endpoint)
	assert.Nil(t, logs[2].RequestData, "unparseable body is stored as null")
}

func TestMiddlewareSurvivesStoreOutage(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"Acme"}`

	healthy := f.do(http.MethodPost, "/echo", body, "")
	f.rec.Wait()
	require.NoError(t, db.Close(f.gdb))
	broken := f.do(http.MethodPost, "/echo", body, "")
	f.rec.Wait()

	require.Equal(t, healthy.Code, broken.Code)
	require.Equal(t, healthy.Body.String(), broken.Body.String())
	require.Equal(t, 1.0, testutil.ToFloat64(f.failures))
}

func TestMiddlewareDoesNotWaitForAuditWrite(t *testing.T) {
	f := newFixture(t)

	// The test database has a single connection; holding it stalls every write.
	tx := f.gdb.Begin()
	require.NoError(t, tx.Error)

	started := time.Now()
	w := f.do(http.MethodPost, "/echo", `{"name":"Acme"}`, "")
	elapsed := time.Since(started)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Less(t, elapsed, time.Second)

	require.NoError(t, tx.Rollback().Error)
	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, http.StatusCreated, logs[0].StatusCode)
}

func TestMiddlewareCapsBodySnapshot(t *testing.T) {
	f := newFixture(t)
	body := `{"blob":"` + strings.Repeat("a", maxSnapshot) + `"}`

	w := f.do(http.MethodPost, "/echo", body, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, body, w.Body.String(), "handler must still see the whole body")

	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"truncated":true}`, string(logs[0].RequestData))
}

func TestMiddlewareRecordsLongEndpoints(t *testing.T) {
	f := newFixture(t)
	target := "/echo?q=" + strings.Repeat("x", 4096)

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, target, `{}`, "").Code)

	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, "http://example.com"+target, logs[0].Endpoint)
}

func TestRecorderDetachesFromRequestCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewRecorder(store.New(f.gdb), zerolog.Nop(), nil).Record(ctx, &models.AuditLog{
		Endpoint: "http://example.com/", Method: http.MethodGet, StatusCode: http.StatusOK,
	})
	require.Len(t, f.logs(t), 1)
}

func TestRequestData(t *testing.T) {
	assert.Nil(t, requestData(nil))
	assert.Nil(t, requestData([]byte("   ")))
	assert.Nil(t, requestData([]byte("{broken")))
	assert.JSONEq(t, `[{"password":"[REDACTED]"},1]`, string(requestData([]byte(`[{"password":"x"},1]`))))
}
