// Package client talks to the flashdeck JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/session"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	log := logger.FromContext(ctx).WithPrefix("client")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("%s %s failed: %v", method, path, err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("%s %s: status=%d in %v", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode %s %s response: %v", method, path, err)
		return err
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &APIError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(body))}

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error.Code != "" {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
	}
	return apiErr
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

// Login exchanges credentials for a token and keeps it for later requests.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", models.Credentials{Username: username, Password: password}, &out); err != nil {
		return "", err
	}
	c.setToken(out.Token)
	return out.Token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.setToken("")
	return err
}

// ListCards returns every card, or those matching query when it is not empty.
func (c *Client) ListCards(ctx context.Context, query string) ([]models.Card, error) {
	path := "/api/cards"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var cards []models.Card
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	var card models.Card
	if err := c.doJSON(ctx, http.MethodGet, cardPath(id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateCard(ctx context.Context, id int64, in models.CardInput) (*models.Card, error) {
	var card models.Card
	if err := c.doJSON(ctx, http.MethodPut, cardPath(id), in, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteCard(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, cardPath(id), nil, nil)
}

func (c *Client) History(ctx context.Context, id int64) ([]models.ReviewRecord, error) {
	var records []models.ReviewRecord
	if err := c.doJSON(ctx, http.MethodGet, cardPath(id)+"/history", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// NextReviewCard fetches the next due card. Every non-2xx response is
// reported as session.ErrNoDueCard, still wrapping the *APIError.
func (c *Client) NextReviewCard(ctx context.Context) (*models.Card, error) {
	var card models.Card
	err := c.doJSON(ctx, http.MethodGet, "/api/review", nil, &card)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusNotFound {
			return nil, session.ErrNoDueCard
		}
		return nil, fmt.Errorf("%w: %w", session.ErrNoDueCard, apiErr)
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Review submits one outcome and returns the rescheduled card.
func (c *Client) Review(ctx context.Context, id int64, correct bool) (*models.Card, error) {
	var card models.Card
	path := cardPath(id) + "/review?correct=" + strconv.FormatBool(correct)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) SubmitReview(ctx context.Context, id int64, correct bool) error {
	_, err := c.Review(ctx, id, correct)
	return err
}

// Upload sends a CSV file as the multipart field "file" and returns the
// number of imported cards.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (int, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return 0, err
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}

	var out struct {
		Imported int `json:"imported"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/upload", &buf, mw.FormDataContentType(), &out); err != nil {
		return 0, err
	}
	return out.Imported, nil
}

func (c *Client) Hierarchy(ctx context.Context) (models.Hierarchy, error) {
	var h models.Hierarchy
	err := c.doJSON(ctx, http.MethodGet, "/api/hierarchy", nil, &h)
	return h, err
}

func (c *Client) Dashboard(ctx context.Context) (models.Dashboard, error) {
	var d models.Dashboard
	err := c.doJSON(ctx, http.MethodGet, "/api/dashboard", nil, &d)
	return d, err
}

func cardPath(id int64) string {
	return "/api/cards/" + strconv.FormatInt(id, 10)
}

var _ session.Source = (*Client)(nil)
