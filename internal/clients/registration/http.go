package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/bobmcallan/andolan/internal/models"
)

// DefaultTimeout bounds a single HTTP submission.
const DefaultTimeout = 15 * time.Second

// HTTPStrategy posts the application as multipart form data to an endpoint.
type HTTPStrategy struct {
	endpoint   string
	httpClient *http.Client
}

// HTTPOption configures an HTTPStrategy
type HTTPOption func(*HTTPStrategy)

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPStrategy) {
		if timeout > 0 {
			s.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(s *HTTPStrategy) {
		s.httpClient = hc
	}
}

// NewHTTPStrategy creates a strategy posting to endpoint.
func NewHTTPStrategy(endpoint string, opts ...HTTPOption) *HTTPStrategy {
	s := &HTTPStrategy{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "http:<host>".
func (s *HTTPStrategy) Name() string {
	if u, err := url.Parse(s.endpoint); err == nil && u.Host != "" {
		return "http:" + u.Host
	}
	return "http:" + s.endpoint
}

// StatusError is a non-2xx registration response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registration rejected: %s (status: %d)", e.Message, e.StatusCode)
}

func (s *HTTPStrategy) Register(ctx context.Context, app *models.MemberApplication) (*models.RegistrationResult, error) {
	body, contentType, err := EncodeForm(app)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var e struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil {
			if e.Message != "" {
				msg = e.Message
			} else if e.Error != "" {
				msg = e.Error
			}
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result models.RegistrationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// EncodeForm writes app as multipart form data and returns the body and its
// content type. Youth applications carry age, education and experience when
// set; the document is attached only when a photo is present.
func EncodeForm(app *models.MemberApplication) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"name", app.Name},
		{"village", app.Village},
		{"city", app.City},
		{"phoneNumber", app.PhoneNumber},
		{"membershipType", app.MembershipType},
	}
	if !app.IsYouth() {
		fields = append(fields, [2]string{"details", app.Details})
	} else {
		for _, f := range [][2]string{{"age", app.Age}, {"education", app.Education}, {"experience", app.Experience}} {
			if f[1] != "" {
				fields = append(fields, f)
			}
		}
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	if len(app.DocumentPhoto) > 0 {
		name := app.DocumentName
		if name == "" {
			name = "document"
		}
		part, err := w.CreateFormFile("documentPhoto", name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to attach document: %w", err)
		}
		if _, err := part.Write(app.DocumentPhoto); err != nil {
			return nil, "", fmt.Errorf("failed to attach document: %w", err)
		}
		docType := app.DocumentType
		if docType == "" {
			docType = models.DocumentOther
		}
		if err := w.WriteField("documentType", docType); err != nil {
			return nil, "", fmt.Errorf("failed to write form field documentType: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
