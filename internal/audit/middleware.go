package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"pgn_backend/internal/auth"
	"pgn_backend/internal/models"
)

const (
	redacted    = "[REDACTED]"
	maxSnapshot = 64 << 10
)

var truncatedBody = datatypes.JSON(`{"truncated":true}`)

// Middleware wraps every request exactly once. It must be the first handler on
// the engine so that panics recovered further down are still recorded.
func Middleware(rec *Recorder, gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, truncated := captureBody(c.Request)

		var who *auth.Identity
		if id, ok := gate.Identify(c.Request); ok {
			auth.SetIdentity(c, id)
			who = &id
		}

		c.Next()

		entry := Entry(c.Request, who, c.Writer.Status(), body)
		if truncated {
			entry.RequestData = truncatedBody
		}
		rec.Go(c.Request.Context(), entry)
	}
}

// Entry builds the audit record for one completed exchange.
func Entry(r *http.Request, who *auth.Identity, status int, body []byte) *models.AuditLog {
	entry := &models.AuditLog{
		Timestamp:    time.Now().UTC(),
		Endpoint:     endpointURL(r),
		Method:       r.Method,
		StatusCode:   status,
		RequestData:  requestData(body),
		ResponseData: datatypes.JSON(fmt.Sprintf(`{"detail":%d}`, status)),
	}
	if who != nil {
		entry.UserID = &who.ID
		entry.Role = &who.Role
	}
	return entry
}

// captureBody snapshots at most maxSnapshot bytes and puts back a reader that
// yields the snapshot followed by whatever was left unread.
func captureBody(r *http.Request) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}
	data, _ := io.ReadAll(io.LimitReader(r.Body, maxSnapshot+1))
	if len(data) > maxSnapshot {
		r.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(data), r.Body), r.Body}
		return data[:maxSnapshot], true
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, false
}

func endpointURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// requestData parses body as JSON with secrets masked. Anything unparseable is nil.
func requestData(body []byte) datatypes.JSON {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}
	out, err := json.Marshal(redact(v))
	if err != nil {
		return nil
	}
	return datatypes.JSON(out)
}

func redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if strings.Contains(strings.ToLower(k), "password") {
				t[k] = redacted
				continue
			}
			t[k] = redact(val)
		}
	case []any:
		for i := range t {
			t[i] = redact(t[i])
		}
	}
	return v
}
