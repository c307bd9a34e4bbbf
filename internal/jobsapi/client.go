package jobsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker/internal/domain"
	"jobtracker/internal/logging"
)

// BasePath is the job-applications resource on the backend.
const BasePath = "/api/jobs"

var (
	// ErrRequestFailed wraps every transport failure and non-2xx response.
	// No further classification is made; a 404 looks like any other failure.
	ErrRequestFailed = errors.New("request failed")

	// ErrMissingID is returned by Update before any request is sent.
	ErrMissingID = errors.New("job id is required for update")
)

// Client is a thin typed wrapper over the /api/jobs resource. Every
// operation issues exactly one HTTP request and keeps no state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	limiter    *hostLimiter
	log        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithToken sends Authorization: Bearer <token> on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithRateLimit throttles requests per backend host. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = newHostLimiter(rps, burst)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for the backend at baseURL (scheme://host[:port]).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logging.New("jobsapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) GetAll(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := c.do(ctx, http.MethodGet, BasePath, nil, &jobs); err != nil {
		return nil, err
	}
	return nonNil(jobs), nil
}

func (c *Client) GetByID(ctx context.Context, id int64) (domain.Job, error) {
	var job domain.Job
	err := c.do(ctx, http.MethodGet, BasePath+"/"+strconv.FormatInt(id, 10), nil, &job)
	return job, err
}

func (c *Client) GetByStatus(ctx context.Context, status domain.Status) ([]domain.Job, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("get by status: unknown status %q", status)
	}
	var jobs []domain.Job
	if err := c.do(ctx, http.MethodGet, BasePath+"/status/"+url.PathEscape(string(status)), nil, &jobs); err != nil {
		return nil, err
	}
	return nonNil(jobs), nil
}

func (c *Client) Create(ctx context.Context, job domain.JobFormData) (domain.Job, error) {
	// the backend assigns identifiers
	job.ID = nil
	var created domain.Job
	err := c.do(ctx, http.MethodPost, BasePath, job, &created)
	return created, err
}

func (c *Client) Update(ctx context.Context, job domain.JobFormData) (domain.Job, error) {
	if job.ID == nil {
		return domain.Job{}, ErrMissingID
	}
	var updated domain.Job
	err := c.do(ctx, http.MethodPut, BasePath, job, &updated)
	return updated, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, BasePath+"/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.limiter != nil {
		if err := c.limiter.wait(ctx, req.URL.Host); err != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request error", "request_id", reqID, "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request", "request_id", reqID, "method", method, "path", path,
		"status", resp.StatusCode, "dur_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: status %d", ErrRequestFailed, method, path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode: %v", ErrRequestFailed, method, path, err)
	}
	return nil
}

func nonNil(jobs []domain.Job) []domain.Job {
	if jobs == nil {
		return []domain.Job{}
	}
	return jobs
}
