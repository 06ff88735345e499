package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"

	"wormdetector/internal/common"
	"wormdetector/internal/logging"
	"wormdetector/internal/server/models"
)

// uploads larger than this are rejected outright
const maxUploadBytes = 32 << 20

// UserService is the slice of the user service the handlers need.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) error
}

// PredictionService is the slice of the prediction service the handlers need.
type PredictionService interface {
	Predict(ctx context.Context, imageData []byte, contentType, username string) (*models.Prediction, error)
	ListAll(ctx context.Context) ([]*models.Prediction, error)
}

type Handler struct {
	users       UserService
	predictions PredictionService
	logger      logging.Logger
}

func NewHandler(users UserService, predictions PredictionService, logger logging.Logger) *Handler {
	return &Handler{users: users, predictions: predictions, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username, password, and email required"})
		return
	}

	_, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already exists"})
			return
		}
		h.logger.Error(r.Context(), "signup failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	h.logger.Info(r.Context(), "user registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password required"})
		return
	}

	if err := h.users.Login(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
			return
		}
		h.logger.Error(r.Context(), "login failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged in successfully"})
}

// Logout exists so clients have somewhere to report a logout; the session
// lives entirely on the client, so there is nothing to invalidate here.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	imageData, contentType, username, err := readUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No image provided"})
		return
	}

	p, err := h.predictions.Predict(r.Context(), imageData, contentType, username)
	if err != nil {
		h.logger.Error(r.Context(), "prediction failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.logger.Info(r.Context(), "prediction stored",
		"class", p.PredictedClass, "confidence", p.Confidence, "username", p.Username)

	writeJSON(w, http.StatusOK, map[string]any{
		"predicted_class": p.PredictedClass,
		"confidence":      round3(p.Confidence),
		"message":         "Prediction successful!",
	})
}

// readUpload accepts either a multipart form with an "image" field (plus an
// optional "username" field) or a raw image/* request body.
func readUpload(r *http.Request) (data []byte, contentType, username string, err error) {

	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", "", err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", "", err
		}

		return data, header.Header.Get("Content-Type"), r.FormValue("username"), nil
	}

	if strings.HasPrefix(ct, "image/") {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", "", err
		}
		return data, ct, "", nil
	}

	return nil, "", "", errors.New("no image provided")
}

type predictionJSON struct {
	PredictedClass string  `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	Timestamp      string  `json:"timestamp"`
	Username       string  `json:"username,omitempty"`
}

func (h *Handler) AllPredictions(w http.ResponseWriter, r *http.Request) {

	list, err := h.predictions.ListAll(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "history fetch failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if len(list) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No predictions yet."})
		return
	}

	out := make([]predictionJSON, 0, len(list))
	for _, p := range list {
		out = append(out, predictionJSON{
			PredictedClass: p.PredictedClass,
			Confidence:     p.Confidence,
			Timestamp:      p.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			Username:       p.Username,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"predictions": out})
}
