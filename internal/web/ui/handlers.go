// Package ui serves the browser-facing pages of the worm detector client:
// login, signup, prediction upload and history, gated behind the local
// session.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wormdetector/internal/common"
	"wormdetector/internal/logging"
	"wormdetector/internal/web/api"
	"wormdetector/internal/web/auth"
	"wormdetector/internal/web/theme"
)

// uploads larger than this are rejected outright
const maxUploadBytes = 32 << 20

// Backend is the slice of the API gateway the pages need.
type Backend interface {
	Signup(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Predict(ctx context.Context, filename string, image []byte, username string) (*api.PredictionResult, error)
	History(ctx context.Context) ([]api.HistoryRecord, error)
}

type Handler struct {
	auth    *auth.Manager
	themes  *theme.Manager
	backend Backend
	logger  logging.Logger
}

func NewHandler(authManager *auth.Manager, themes *theme.Manager, backend Backend, logger logging.Logger) *Handler {
	return &Handler{auth: authManager, themes: themes, backend: backend, logger: logger}
}

// view assembles the layout data shared by every page.
func (h *Handler) view(r *http.Request, title string) *viewData {
	data := &viewData{Title: title, Theme: h.themes.Current(r.Context())}

	sess, err := h.auth.CurrentUser(r.Context())
	if err == nil && sess != nil {
		data.LoggedIn = true
		data.Username = sess.Username
	}
	return data
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data *viewData) {
	if err := renderPage(w, page, data); err != nil {
		h.logger.Error(r.Context(), "template render failed", "page", page, "error", err.Error())
	}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home", h.view(r, "Home"))
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", h.view(r, "Log in"))
}

// userMessage turns a gateway error into text fit for the page. Validation
// and credential errors carry the server's own wording; everything else gets
// a generic line.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorBackendUnreachable):
		return "Cannot reach the server. Please try again later."
	case errors.Is(err, common.ErrorUnauthorized):
		return serverText(err, common.ErrorUnauthorized)
	case errors.Is(err, common.ErrorValidation):
		return serverText(err, common.ErrorValidation)
	default:
		return "Something went wrong. Please try again."
	}
}

// serverText strips the sentinel prefix from a "<sentinel>: <message>" error.
func serverText(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return "Something went wrong. Please try again."
	}
	return msg
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {

	username := r.FormValue("username")
	password := r.FormValue("password")

	data := h.view(r, "Log in")
	data.FormUsername = username

	if username == "" || password == "" {
		data.Error = "Username and password are required"
		h.render(w, r, "login", data)
		return
	}

	if err := h.backend.Login(r.Context(), username, password); err != nil {
		data.Error = userMessage(err)
		h.render(w, r, "login", data)
		return
	}

	if err := h.auth.Login(r.Context(), username); err != nil {
		h.logger.Error(r.Context(), "session persist failed", "error", err.Error())
	}

	http.Redirect(w, r, "/predict", http.StatusSeeOther)
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup", h.view(r, "Sign up"))
}

func (h *Handler) SignupSubmit(w http.ResponseWriter, r *http.Request) {

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	data := h.view(r, "Sign up")
	data.FormUsername = username
	data.FormEmail = email

	// local checks first; the backend is not contacted until they pass
	if msg := validateSignupForm(username, email, password, confirm); msg != "" {
		data.Error = msg
		h.render(w, r, "signup", data)
		return
	}

	if err := h.backend.Signup(r.Context(), username, email, password); err != nil {
		data.Error = userMessage(err)
		h.render(w, r, "signup", data)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) PredictPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "predict", h.view(r, "Predict"))
}

func (h *Handler) PredictSubmit(w http.ResponseWriter, r *http.Request) {

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	data := h.view(r, "Predict")

	file, header, err := r.FormFile("image")
	if err != nil {
		data.Error = "Please choose an image to upload"
		h.render(w, r, "predict", data)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		data.Error = "Could not read the uploaded file"
		h.render(w, r, "predict", data)
		return
	}

	res, err := h.backend.Predict(r.Context(), header.Filename, image, data.Username)
	if err != nil {
		data.Error = userMessage(err)
		h.render(w, r, "predict", data)
		return
	}

	data.Result = &predictionView{
		PredictedClass: res.PredictedClass,
		ConfidencePct:  formatConfidence(res.Confidence),
	}
	h.render(w, r, "predict", data)
}

func (h *Handler) HistoryPage(w http.ResponseWriter, r *http.Request) {

	data := h.view(r, "History")

	records, err := h.backend.History(r.Context())
	if err != nil {
		// a malformed or unreachable backend shows an empty history with a
		// note instead of an error page
		h.logger.Warn(r.Context(), "history fetch failed", "error", err.Error())
		data.Note = "History is unavailable right now."
		h.render(w, r, "history", data)
		return
	}

	data.Records = make([]predictionView, 0, len(records))
	for _, rec := range records {
		// legacy rows may lack a class or timestamp; show what is there
		class := rec.PredictedClass
		if class == "" {
			class = "N/A"
		}
		data.Records = append(data.Records, predictionView{
			PredictedClass: class,
			ConfidencePct:  formatConfidence(rec.Confidence),
			When:           formatTimestamp(rec.Timestamp),
			Username:       rec.Username,
		})
	}
	h.render(w, r, "history", data)
}

// Logout drops the local session immediately; the backend is notified in the
// background and a failure there changes nothing for the user.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {

	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Error(r.Context(), "logout failed", "error", err.Error())
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.backend.Logout(ctx); err != nil {
			h.logger.Warn(ctx, "remote logout failed", "error", err.Error())
		}
	}()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {

	if _, err := h.themes.Toggle(r.Context()); err != nil {
		h.logger.Error(r.Context(), "theme toggle failed", "error", err.Error())
	}

	back := r.Header.Get("Referer")
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func formatConfidence(c float64) string {
	return fmt.Sprintf("%.2f%%", c*100)
}

// formatTimestamp reshapes the backend's "2006-01-02 15:04:05" timestamps for
// display. Anything else is shown as received.
func formatTimestamp(ts string) string {
	t, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		return ts
	}
	return t.Format("Jan 2, 2006 15:04")
}
