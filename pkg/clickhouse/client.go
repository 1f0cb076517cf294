package clickhouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Define static errors
var (
	ErrClickHouseResponse = errors.New("clickhouse error")
)

// clickhouseResponse represents the JSON response from the ClickHouse
// HTTP interface.
type clickhouseResponse struct {
	Data []json.RawMessage `json:"data"`
	Rows int               `json:"rows"`
}

// ClientInterface defines the methods for interacting with ClickHouse
type ClientInterface interface {
	// QueryOne executes a query and unmarshals the first result row
	QueryOne(ctx context.Context, query string, dest interface{}) error
	// Execute runs a statement and returns the raw response body
	Execute(ctx context.Context, query string) ([]byte, error)
	// Start initializes the client
	Start() error
	// Stop closes the client
	Stop() error
}

// client implements the ClientInterface over the HTTP interface
type client struct {
	log          logrus.FieldLogger
	httpClient   *http.Client
	baseURL      string
	debug        bool
	queryTimeout time.Duration
	execTimeout  time.Duration
}

// NewClient creates a new HTTP-based ClickHouse client
func NewClient(log logrus.FieldLogger, cfg *Config) (ClientInterface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.SetDefaults()

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     cfg.KeepAlive,
	}

	return &client{
		log:          log.WithField("component", "clickhouse"),
		httpClient:   &http.Client{Transport: transport},
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		debug:        cfg.Debug,
		queryTimeout: cfg.QueryTimeout,
		execTimeout:  cfg.ExecTimeout,
	}, nil
}

func (c *client) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.Execute(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	c.log.Info("Connected to ClickHouse HTTP interface")

	return nil
}

func (c *client) Stop() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}

	return nil
}

func (c *client) QueryOne(ctx context.Context, query string, dest interface{}) error {
	body, err := c.do(ctx, query+" FORMAT JSON", c.queryTimeout)
	if err != nil {
		return fmt.Errorf("query execution failed: %w", err)
	}

	var result clickhouseResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(result.Data[0], dest); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return nil
}

func (c *client) Execute(ctx context.Context, query string) ([]byte, error) {
	body, err := c.do(ctx, query, c.execTimeout)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}

	return body, nil
}

func (c *client) do(ctx context.Context, query string, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.debug {
		c.log.WithField("query", query).Debug("Executing query")
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, strings.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrClickHouseResponse, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
