package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/tnp/pkg/slogx"
)

// Middleware wraps a handler with extra behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies mws to h. The first middleware listed is the outermost,
// so it sees the request first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Recover turns a panicking handler into a 500 and logs the stack.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					slogx.FromContext(r.Context()).Error("handler panic",
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
