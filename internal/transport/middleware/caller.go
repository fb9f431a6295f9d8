package middleware

import (
	"net/http"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/identity"
	"github.com/frahmantamala/accessmodel-admin/pkg/logger"
)

// CallerContext resolves the forwarded email and tags the request logger with it.
// A missing header is not an error; the request continues without identity.
func CallerContext(resolver *identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			email, ok := resolver.Resolve(r.Header)
			if ok {
				ctx = internal.ContextWithEmail(ctx, email)
			}
			ctx = logger.With(ctx, "email", identity.Display(email, ok))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
