package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/logging"
	"github.com/pders01/interview/internal/models"
)

const (
	// DefaultURL is the default oracle endpoint
	DefaultURL = "http://localhost:8787"
	// DefaultNextPath is where the next question is requested
	DefaultNextPath = "/api/next-question"
	// DefaultQuestionnairePath is where the questionnaire description lives
	DefaultQuestionnairePath = "/api/questionnaire"
	// DefaultTimeout bounds a single oracle request
	DefaultTimeout = 15 * time.Second

	maxBodyBytes = 1 << 20
)

// Client talks to a remote next-question oracle over HTTP.
type Client struct {
	http              *http.Client
	baseURL           string
	nextPath          string
	questionnairePath string
	logger            *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithPaths overrides the next-question and questionnaire paths.
func WithPaths(nextPath, questionnairePath string) Option {
	return func(c *Client) {
		if nextPath != "" {
			c.nextPath = nextPath
		}
		if questionnairePath != "" {
			c.questionnairePath = questionnairePath
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(l)
	}
}

// NewClient creates a new oracle client
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse oracle url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("oracle url must use http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("oracle url has no host: %q", baseURL)
	}

	c := &Client{
		http:              &http.Client{Timeout: DefaultTimeout},
		baseURL:           strings.TrimRight(baseURL, "/"),
		nextPath:          DefaultNextPath,
		questionnairePath: DefaultQuestionnairePath,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// IsAvailable checks if the oracle is running and accessible
func IsAvailable(url string) bool {
	if url == "" {
		url = DefaultURL
	}

	// Try to connect with a short timeout
	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}

// BaseURL returns the oracle base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Next asks the oracle for the question that follows answers. An empty or
// nil answer set requests the first question.
func (c *Client) Next(ctx context.Context, answers models.Answers) (Response, error) {
	if answers == nil {
		answers = models.Answers{}
	}

	body, err := json.Marshal(nextRequest{Answers: answers})
	if err != nil {
		return Response{}, errors.Wrap(err, "failed to encode answers")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.nextPath, bytes.NewReader(body))
	if err != nil {
		return Response{}, errors.Wrap(err, "failed to build next-question request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	data, err := c.do(ctx, req)
	if err != nil {
		return Response{}, err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, errors.Malformed(err, "failed to decode next-question response")
	}

	if resp.Question != nil {
		c.logger.Debug("oracle returned question", zap.String(logging.FieldQuestionID, resp.Question.ID))
	} else {
		c.logger.Debug("oracle reported completion", zap.Bool("completed", resp.Completed))
	}
	return resp, nil
}

// Describe fetches the questionnaire description.
func (c *Client) Describe(ctx context.Context) (Description, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.questionnairePath, nil)
	if err != nil {
		return Description{}, errors.Wrap(err, "failed to build questionnaire request")
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(ctx, req)
	if err != nil {
		return Description{}, err
	}

	var desc Description
	if err := json.Unmarshal(data, &desc); err != nil {
		return Description{}, errors.Malformed(err, "failed to decode questionnaire description")
	}
	return desc, nil
}

// do sends req and returns the body of a 2xx response. Failures are marked
// transport or cancellation errors.
func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	endpoint := req.URL.String()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			return nil, errors.Cancelled(err, "oracle request cancelled")
		}
		c.logger.Warn("oracle unreachable", zap.String(logging.FieldEndpoint, endpoint), zap.Error(err))
		return nil, errors.Transport(err, "failed to reach oracle")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Transport(err, "failed to read oracle response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("oracle returned an error status",
			zap.String(logging.FieldEndpoint, endpoint),
			zap.Int(logging.FieldStatus, resp.StatusCode))
		return nil, errors.Transport(
			errors.Newf("unexpected status %d: %s", resp.StatusCode, snippet(data)),
			"oracle request failed")
	}

	return data, nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
