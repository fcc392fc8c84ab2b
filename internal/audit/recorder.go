package audit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"pgn_backend/internal/models"
	"pgn_backend/internal/store"
)

const writeTimeout = 5 * time.Second

// Recorder persists audit records on a best-effort basis.
type Recorder struct {
	store    *store.Store
	log      zerolog.Logger
	failures prometheus.Counter
	pending  sync.WaitGroup
}

// NewRecorder builds a recorder. failures may be nil.
func NewRecorder(s *store.Store, log zerolog.Logger, failures prometheus.Counter) *Recorder {
	return &Recorder{store: s, log: log, failures: failures}
}

// Go records entry in the background so the write never holds up the response.
func (r *Recorder) Go(ctx context.Context, entry *models.AuditLog) {
	ctx = context.WithoutCancel(ctx)
	r.pending.Go(func() { r.Record(ctx, entry) })
}

// Wait blocks until every write started by Go has finished.
func (r *Recorder) Wait() {
	r.pending.Wait()
}

// Record writes entry in its own transaction. A failed write is rolled back,
// logged and dropped; it never reaches the caller.
func (r *Recorder) Record(ctx context.Context, entry *models.AuditLog) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := r.store.AppendAuditLog(ctx, entry); err != nil {
		if r.failures != nil {
			r.failures.Inc()
		}
		r.log.Warn().Err(err).
			Str("method", entry.Method).
			Str("endpoint", entry.Endpoint).
			Int("status", entry.StatusCode).
			Msg("audit write dropped")
	}
}
