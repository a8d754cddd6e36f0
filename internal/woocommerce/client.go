package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikolayk812/storefront-checkout/internal/port"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/text/currency"
)

const apiPrefix = "/wp-json/wc/v3/"

var (
	ErrNotFound    = port.ErrNotFound
	ErrUnavailable = port.ErrUnavailable
)

// APIError is a non-2xx response of the WooCommerce REST API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("woocommerce: status %d", e.Status)
	}
	return fmt.Sprintf("woocommerce: status %d: %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
	Currency       currency.Unit
	ShippingZoneID int

	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

type Client struct {
	baseURL        *url.URL
	consumerKey    string
	consumerSecret string
	currency       currency.Unit
	shippingZoneID int

	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is empty")
	}

	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "woocommerce",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// client errors say nothing about the health of the store
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
	})

	return &Client{
		baseURL:        u,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		currency:       cfg.Currency,
		shippingZoneID: cfg.ShippingZoneID,
		http:           httpClient,
		breaker:        breaker,
	}, nil
}

func (c *Client) Currency() currency.Unit {
	return c.currency
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
	}

	respBody, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, query, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + apiPrefix + strings.TrimPrefix(path, "/")
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http.Do %s %s: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(respBody, apiErr)
		return nil, apiErr
	}

	return respBody, nil
}
