package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"wormdetector/internal/logging"
	"wormdetector/internal/web/guard"
)

// NewRouter wires the page routes. Prediction and history sit behind the
// session guard; everything else is public. Unknown paths land on the home
// page instead of a 404.
func NewRouter(h *Handler, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/", h.Home)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginSubmit)
	r.Get("/signup", h.SignupPage)
	r.Post("/signup", h.SignupSubmit)

	r.Group(func(r chi.Router) {
		r.Use(guard.Protect(h.auth))

		r.Get("/predict", h.PredictPage)
		r.Post("/predict", h.PredictSubmit)
		r.Get("/history", h.HistoryPage)
	})

	r.Post("/logout", h.Logout)
	r.Post("/theme", h.ToggleTheme)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
