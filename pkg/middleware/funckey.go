package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ziaflow/marketing-lens/pkg/apiErrors"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

// FunctionKeyHeader carries the shared function key on inbound requests. The
// `code` query parameter is accepted as an alternative.
const FunctionKeyHeader = "x-functions-key"

var funcKeyExemptPaths = []string{
	"/healthcheck",
}

// FunctionKey enforces the shared-key check on every route except the
// exempt list. An empty configured key disables the check entirely.
func FunctionKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" || isExemptPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(FunctionKeyHeader)
			if provided == "" {
				provided = r.URL.Query().Get("code")
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				}).Warn("auth: rejected request with missing or invalid function key")

				apiErrors.WriteError(w, apiErrors.ErrInvalidFunctionKey, "invalid function key", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isExemptPath(path string) bool {
	for _, exempt := range funcKeyExemptPaths {
		if strings.EqualFold(path, exempt) {
			return true
		}
	}
	return false
}
