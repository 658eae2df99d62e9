package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	apperrors "github.com/yashrajoria/storefront-session/common/errors"
	"github.com/yashrajoria/storefront-session/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every API call.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// APIClient talks JSON to the storefront REST API.
type APIClient struct {
	baseURL string
	client  *http.Client
	token   string
	log     *zap.Logger
}

// NewAPIClient creates a client for baseURL (e.g. "https://shop.example.com/api/").
// A non-positive timeout falls back to DefaultTimeout.
func NewAPIClient(baseURL string, timeout time.Duration, log *zap.Logger) *APIClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &APIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// WithToken returns a copy that sends "Authorization: Bearer <token>".
func (c *APIClient) WithToken(token string) *APIClient {
	cp := *c
	cp.token = token
	return &cp
}

// WithHTTPClient returns a copy using hc, mainly for tests.
func (c *APIClient) WithHTTPClient(hc *http.Client) *APIClient {
	cp := *c
	cp.client = hc
	return &cp
}

// Login calls POST auth/login. A 2xx body without both token and user is a
// protocol error.
func (c *APIClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.Do(ctx, http.MethodPost, "auth/login", nil, body, &out, "Login failed. Please try again."); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, apperrors.Protocol("Invalid response from server: missing token or user data")
	}
	return &out, nil
}

// Register calls POST auth/register. 422 field errors come back as one
// server error whose message lists every field problem.
func (c *APIClient) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var out models.RegisterResponse
	if err := c.Do(ctx, http.MethodPost, "auth/register", nil, req, &out, "Registration failed. Please try again."); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile calls GET users/profile with the client's token.
func (c *APIClient) Profile(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.Do(ctx, http.MethodGet, "users/profile", nil, nil, &out, "Could not load your profile."); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStore calls POST stores for the logged-in seller and returns the
// profile with its new store id.
func (c *APIClient) CreateStore(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.Do(ctx, http.MethodPost, "stores", nil, nil, &out, "Could not set up your store."); err != nil {
		return nil, err
	}
	return &out, nil
}

// Do sends body as JSON and decodes a 2xx response into out (when non-nil).
// Failures come back as *apperrors.Error; fallback is the message used when
// the server gives none.
func (c *APIClient) Do(ctx context.Context, method, path string, query url.Values, body, out any, fallback string) error {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return apperrors.Validation(fmt.Sprintf("invalid API url: %v", err))
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return transportError(err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return DecodeError(resp, fallback)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.New(apperrors.KindProtocol, resp.StatusCode, "Unexpected response from server", err)
	}
	return nil
}

// DecodeError turns a non-success response into a server error, preferring
// the server's own message.
func DecodeError(resp *http.Response, fallback string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body models.ErrorResponse
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode == http.StatusUnprocessableEntity {
		if msg := FlattenFieldErrors(body.Errors); msg != "" {
			return apperrors.Server(resp.StatusCode, msg)
		}
	}

	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = strings.TrimSpace(body.Error)
	}
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
	}
	return apperrors.Server(resp.StatusCode, msg)
}

// FlattenFieldErrors joins field errors into one message: fields in
// alphabetical order, one message per line.
func FlattenFieldErrors(fieldErrors map[string][]string) string {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var lines []string
	for _, field := range fields {
		for _, msg := range fieldErrors[field] {
			if msg = strings.TrimSpace(msg); msg != "" {
				lines = append(lines, msg)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.Transport("The server took too long to respond. Please try again.", err)
	}
	return apperrors.Transport("Unable to reach the server. Check your connection and try again.", err)
}
