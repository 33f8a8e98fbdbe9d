package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"rideshare/internal/config"
	"rideshare/internal/logging"
	"rideshare/internal/metrics"
)

const breakerName = "routing-api"

// directionsResponse is the subset of a directions API answer we read:
// routes[0].legs[0].distance.text and .duration.text.
type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// errNoRoute marks a well-formed answer without a route. It is not a failure
// of the API and does not count against the breaker.
var errNoRoute = errors.New("no route found")

// Client queries GET {base_url}/directions?origin=..&destination=..&key=..
// behind a circuit breaker.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*Route]
}

func NewClient(cfg config.RoutingConfig) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Route](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNoRoute) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (c *Client) Route(ctx context.Context, origin, destination string) (*Route, error) {
	route, err := c.cb.Execute(func() (*Route, error) {
		return c.fetch(ctx, origin, destination)
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("origin", origin).Str("destination", destination).Msg("route estimate failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return route, nil
}

func (c *Client) fetch(ctx context.Context, origin, destination string) (*Route, error) {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/directions?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request directions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("directions API returned %d", resp.StatusCode)
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode directions: %w", err)
	}
	if len(body.Routes) == 0 || len(body.Routes[0].Legs) == 0 {
		return nil, errNoRoute
	}
	leg := body.Routes[0].Legs[0]
	return &Route{
		DistanceText: leg.Distance.Text,
		DurationText: leg.Duration.Text,
	}, nil
}
