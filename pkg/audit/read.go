package audit

import (
	"net/http"
	"time"

	"github.com/parlor-dev/parlor/pkg/api"
	"github.com/parlor-dev/parlor/pkg/transport"
)

var errInvalidSince = api.NewValidationError("invalid since timestamp")

const (
	// defaultWindow bounds how far back HandleRead looks.
	defaultWindow = time.Hour

	// maxEntries caps one read of the audit log.
	maxEntries = 20
)

// entry is the client-facing shape of one audit record. A zero status
// marks a start record and is omitted from the JSON.
type entry struct {
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Subject string    `json:"user,omitempty"`
	Status  int       `json:"status,omitempty"`
	Time    time.Time `json:"time"`
}

// HandleRead serves the recent audit log, newest first. The optional
// "since" query parameter (RFC 3339) narrows the window; it defaults to
// the last hour.
func (l *Logger) HandleRead(w http.ResponseWriter, r *http.Request) {
	since := l.now().Add(-defaultWindow)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			transport.WriteError(w, errInvalidSince)
			return
		}
		since = parsed
	}

	records, err := l.store.RecentAudit(r.Context(), since, maxEntries)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, entry{
			ID:      rec.ID,
			Method:  rec.Method,
			Path:    rec.Path,
			Subject: rec.Subject,
			Status:  rec.Status,
			Time:    rec.Time,
		})
	}
	transport.WriteJSON(w, http.StatusOK, entries)
}
