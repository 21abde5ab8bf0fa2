package middleware

import (
	"crypto/subtle"
	"net/http"

	"repairshop/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// BasicAuth guards individual routes with HTTP basic auth. It wraps
// httprouter handles so only the detailed calendar endpoints pay for
// the check.
func BasicAuth(username, password string, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			user, pass, ok := r.BasicAuth()

			if !ok || !constantTimeEqual(user, username) || !constantTimeEqual(pass, password) {
				log.Warn("Calendar authentication failed",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)

				w.Header().Set("WWW-Authenticate", `Basic realm="Repair Shop Calendar"`)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
				return
			}

			next(w, r, ps)
		}
	}
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
