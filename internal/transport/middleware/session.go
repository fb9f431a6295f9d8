package middleware

import (
	"net/http"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/dashboard"
	"github.com/frahmantamala/accessmodel-admin/pkg/logger"
)

const SessionCookie = "accessmodel_session"

// Session attaches a dashboard session to every request. A missing, invalid or
// expired cookie starts a new session at the initial state.
func Session(store *dashboard.Store, tokens *dashboard.Tokens, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := existingSession(r, store, tokens)
			if !ok {
				s := store.Create()
				signed, err := tokens.Issue(s.ID)
				if err != nil {
					logger.From(r.Context()).Error("failed to issue session token", "error", err)
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    signed,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				id = s.ID
			}

			ctx := internal.ContextWithSessionID(r.Context(), id)
			ctx = logger.With(ctx, "session_id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func existingSession(r *http.Request, store *dashboard.Store, tokens *dashboard.Tokens) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	id, err := tokens.SessionID(cookie.Value)
	if err != nil {
		return "", false
	}
	if _, err := store.Get(id); err != nil {
		return "", false
	}
	return id, true
}
