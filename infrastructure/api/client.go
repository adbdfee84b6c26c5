package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ui_workflows/domain/entities"
	"ui_workflows/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const defaultTimeout = 30 * time.Second

// Client talks JSON to the platform API on behalf of scenario actors
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *logrus.Logger
}

var _ interfaces.APIClient = (*Client)(nil)

// NewClient - creates an API client for baseURL; token may be empty
func NewClient(baseURL, token string, logger *logrus.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("API base URL is not set")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}, nil
}

// Send performs req. Any HTTP status is a response, not an error; checking it
// is left to the caller.
func (c *Client) Send(ctx context.Context, req entities.Request) (entities.Response, error) {
	var body io.Reader
	if req.Body != nil {
		jsonData, err := json.Marshal(req.Body)
		if err != nil {
			return entities.Response{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req.Path), body)
	if err != nil {
		return entities.Response{}, err
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return entities.Response{}, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return entities.Response{}, fmt.Errorf("failed to read response of %s %s: %w", req.Method, req.Path, err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   req.Method,
		"path":     req.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("API request finished")

	return entities.Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
