// Package guard decides whether a request may reach a protected page.
package guard

import (
	"context"
	"net/http"

	"wormdetector/internal/web/session"
)

// LoginPath is where denied requests are sent.
const LoginPath = "/login"

// Decision is the outcome of evaluating a session against a protected route.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Evaluate is the whole access rule: any session passes, no session is sent
// to the login page. It never inspects the session beyond its presence.
func Evaluate(sess *session.Session) Decision {
	if sess == nil {
		return Decision{Allowed: false, RedirectTo: LoginPath}
	}
	return Decision{Allowed: true}
}

// SessionSource yields the current session, nil when logged out.
type SessionSource interface {
	CurrentUser(ctx context.Context) (*session.Session, error)
}

// Protect wraps protected routes. A failed session lookup counts as logged
// out rather than surfacing an error page.
func Protect(src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := src.CurrentUser(r.Context())
			if err != nil {
				sess = nil
			}

			if d := Evaluate(sess); !d.Allowed {
				http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
