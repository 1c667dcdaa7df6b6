package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"bookingapp/internal/core/model/response"
	"bookingapp/internal/core/port"
)

const usersPath = "/api/v1/users/"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client looks owners up in the user service. Each call is a single attempt;
// the breaker only fails fast while open and never repeats a request.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(config Config) *Client {
	timeout := config.Timeout

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "user-service",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			var remote *port.RemoteError
			return err == nil || (errors.As(err, &remote) && remote.Kind != port.RemoteUnavailable)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (port.RemoteUser, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, id)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return port.RemoteUser{}, &port.RemoteError{Kind: port.RemoteUnavailable, Err: err}
	}

	if err != nil {
		return port.RemoteUser{}, err
	}

	return result.(port.RemoteUser), nil
}

// fetch performs the request and classifies every failure into a RemoteError.
func (c *Client) fetch(ctx context.Context, id uuid.UUID) (port.RemoteUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+usersPath+id.String(), nil)

	if err != nil {
		return port.RemoteUser{}, &port.RemoteError{Kind: port.RemoteUnknown, Err: err}
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)

	if err != nil {
		return port.RemoteUser{}, &port.RemoteError{Kind: port.RemoteUnavailable, Err: err}
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return port.RemoteUser{}, &port.RemoteError{Kind: port.RemoteNotFound, Status: resp.StatusCode, Err: errors.New(resp.Status)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return port.RemoteUser{}, &port.RemoteError{Kind: port.RemoteUnavailable, Status: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return port.RemoteUser{}, &port.RemoteError{Kind: port.RemoteUnavailable, Status: resp.StatusCode, Err: err}
	}

	var user response.UserResponse

	if err := json.Unmarshal(body, &user); err != nil {
		return port.RemoteUser{}, &port.RemoteError{
			Kind:   port.RemoteUnknown,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode user: %w", err),
		}
	}

	return port.RemoteUser{ID: user.ID, Email: user.Email, IsDeleted: user.IsDeleted}, nil
}
