package access

import (
	"net/http"

	"go.uber.org/zap"
)

// Auditor records denied requests and redirects the caller to the fixed
// permission-denied destination. The audit write is best-effort: it never
// delays or blocks the redirect, and callers consume no return value.
type Auditor struct {
	log    *zap.Logger
	target string
}

// NewAuditor constructs an auditor writing to log and redirecting to target.
func NewAuditor(log *zap.Logger, target string) *Auditor {
	return &Auditor{log: log, target: target}
}

// Denied handles one denial event. principal may be empty when the denied
// caller is anonymous; the audit line then records "anonymous".
func (a *Auditor) Denied(w http.ResponseWriter, r *http.Request, principal string) {
	who := principal
	if who == "" {
		who = "anonymous"
	}
	a.record(who, r.URL.Path)
	http.Redirect(w, r, a.target, http.StatusFound)
}

func (a *Auditor) record(who, path string) {
	defer func() {
		// A failing audit sink must never surface to the user.
		_ = recover()
	}()
	a.log.Info("access denied",
		zap.String("principal", who),
		zap.String("path", path),
	)
}
