// Package audit records who did what against the API. Every request
// produces two records sharing an identifier: a start record written
// before the handler runs and an end record carrying the final status.
// Pairing the two makes requests that crashed or hung visible as start
// records without a matching end.
package audit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/parlor-dev/parlor/pkg/auth"
	"github.com/parlor-dev/parlor/pkg/storage"
	"github.com/parlor-dev/parlor/pkg/transport"
)

// Logger writes audit records to a store and serves them back out.
type Logger struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates an audit logger backed by the given store.
func New(store storage.Store, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{store: store, logger: logger, now: time.Now}
}

// Middleware records a start entry before the handler and an end entry
// after it. Audit failures are logged but never fail the request; the
// audit trail is best-effort, the request outcome is not its hostage.
func (l *Logger) Middleware() transport.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			subject := auth.Subject(r.Context())

			l.append(r, storage.AuditRecord{
				ID:      id,
				Method:  r.Method,
				Path:    r.URL.Path,
				Subject: subject,
				Time:    l.now(),
			})

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			// The subject may have been established mid-pipeline.
			if subject == "" {
				subject = auth.Subject(r.Context())
			}
			l.append(r, storage.AuditRecord{
				ID:      id,
				Method:  r.Method,
				Path:    r.URL.Path,
				Subject: subject,
				Status:  sw.status,
				Time:    l.now(),
			})
		})
	}
}

func (l *Logger) append(r *http.Request, rec storage.AuditRecord) {
	if err := l.store.AppendAudit(r.Context(), rec); err != nil {
		l.logger.LogAttrs(r.Context(), slog.LevelError, "audit append failed",
			slog.String("audit_id", rec.ID),
			slog.String("error", err.Error()),
		)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
