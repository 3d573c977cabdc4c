package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/config"
	"github.com/jafarshop/compras/internal/repository"
	"github.com/jafarshop/compras/pkg/errors"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
	logger     *zap.Logger
}

// NewClient creates a new inventory backend JSON client
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	// Only transport failures trip the breaker; rejected writes and
	// missing records are answers from a healthy backend.
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "inventory-backend",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			var network *errors.ErrNetwork
			return !errors.As(err, &network)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Backend circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// NewRepositories creates every repository backed by the REST API
func NewRepositories(client *Client) *repository.Repositories {
	return &repository.Repositories{
		Product:  &productRepository{client: client},
		Category: &categoryRepository{client: client},
		Supplier: &supplierRepository{client: client},
		Purchase: &purchaseRepository{client: client},
		LineItem: &lineItemRepository{client: client},
		Sale:     &saleRepository{client: client},
	}
}

// resource names the entity a request is about, for error reporting
type resource struct {
	name string
	id   string
}

// do executes a request through the circuit breaker and decodes the JSON
// response into out, if non-nil
func (c *Client) do(ctx context.Context, method, path string, res resource, body, out interface{}) error {
	op := fmt.Sprintf("%s %s", method, path)

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.send(ctx, op, method, path, res, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &errors.ErrNetwork{Op: op, Err: err}
	}
	return err
}

func (c *Client) send(ctx context.Context, op, method, path string, res resource, body, out interface{}) error {

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Backend request failed", zap.String("op", op), zap.Error(err))
		return &errors.ErrNetwork{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.ErrNetwork{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode == http.StatusNotFound && res.id != "" {
		return &errors.ErrNotFound{Resource: res.name, ID: res.id}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Backend returned an error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		if method == http.MethodGet {
			return &errors.ErrNetwork{
				Op:  op,
				Err: fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody)),
			}
		}
		return &errors.ErrPersistence{
			Op:         op,
			Index:      -1,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", res.name, err)
	}
	return nil
}
