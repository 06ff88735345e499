// Package api is the typed gateway to the classification backend. All
// traffic between the web client and the server goes through it, so response
// shapes are checked here once and the rest of the UI can trust its types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"wormdetector/internal/common"
)

// PredictionResult is a successful classification response.
type PredictionResult struct {
	PredictedClass string  `json:"predicted_class" validate:"required"`
	Confidence     float64 `json:"confidence" validate:"gte=0,lte=1"`
	Message        string  `json:"message"`
}

// HistoryRecord is one stored prediction, newest first in History results.
// Individual fields may be absent or odd in old records; the pages degrade
// them per row instead of rejecting the list.
type HistoryRecord struct {
	PredictedClass string  `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	Timestamp      string  `json:"timestamp"`
	Username       string  `json:"username"`
}

// Client talks to the backend API. Requests are never retried; a failure is
// reported to the caller as-is.
type Client struct {
	baseURL  string
	httpc    *http.Client
	validate *validator.Validate
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    &http.Client{Timeout: 30 * time.Second},
		validate: validator.New(),
	}
}

// errorMessage extracts the server's error text from a non-2xx body.
func errorMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return "unexpected backend response"
}

// do sends the request and reads the full body. Transport-level failures map
// to ErrorBackendUnreachable.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", common.ErrorBackendUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", common.ErrorBackendUnreachable, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// Signup registers a new account. A 400 response carries the server's reason
// and maps to ErrorValidation.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	status, body, err := c.postJSON(ctx, "/signup/", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	switch status {
	case http.StatusCreated:
		return nil
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrorValidation, errorMessage(body))
	default:
		return fmt.Errorf("%w: %s", common.ErrorInternal, errorMessage(body))
	}
}

// Login checks the credentials with the backend. It establishes no server
// side state; the caller records the session locally on success.
func (c *Client) Login(ctx context.Context, username, password string) error {
	status, body, err := c.postJSON(ctx, "/login/", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, errorMessage(body))
	default:
		return fmt.Errorf("%w: %s", common.ErrorInternal, errorMessage(body))
	}
}

// Logout notifies the backend. The local session is the real logout; this
// call is best effort and failures are safe to ignore.
func (c *Client) Logout(ctx context.Context) error {
	status, body, err := c.postJSON(ctx, "/logout/", map[string]string{})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %s", common.ErrorInternal, errorMessage(body))
	}
	return nil
}

// Predict uploads an image for classification. username may be empty for an
// anonymous prediction.
func (c *Client) Predict(ctx context.Context, filename string, image []byte, username string) (*PredictionResult, error) {

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, err
	}
	if username != "" {
		if err := mw.WriteField("username", username); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict/", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", common.ErrorInternal, errorMessage(body))
	}

	var res PredictionResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBadResponseShape, err)
	}
	if err := c.validate.Struct(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBadResponseShape, err)
	}

	return &res, nil
}

// History fetches all stored predictions, newest first. An empty history is
// an empty slice, not an error. A response that does not match the expected
// shape yields no records and ErrorBadResponseShape.
func (c *Client) History(ctx context.Context) ([]HistoryRecord, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/all/", nil)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return []HistoryRecord{}, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", common.ErrorInternal, errorMessage(body))
	}

	// the predictions list must be present; a bare 200 without it is not a
	// valid history payload. Record fields are not gated here: a record with
	// a missing timestamp or class still belongs in the list.
	var res struct {
		Predictions *[]HistoryRecord `json:"predictions"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorBadResponseShape, err)
	}
	if res.Predictions == nil {
		return nil, fmt.Errorf("%w: missing predictions list", common.ErrorBadResponseShape)
	}

	return *res.Predictions, nil
}
