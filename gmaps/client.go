// Package gmaps is a client for the Google Maps web services the scouts
// rely on: geocoding, nearby search, walking directions, and elevation
// sampling, plus builders for shareable maps links.
package gmaps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"

	"github.com/scoutrun/routescout/pkg/slogx"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) String() string {
	return fmt.Sprintf("%f,%f", l.Lat, l.Lng)
}

// StatusError is a non-OK status returned by a maps web service.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("maps api status %s", e.Status)
	}
	return fmt.Sprintf("maps api status %s: %s", e.Status, e.Message)
}

// ErrNoResults reports a query that came back empty.
var ErrNoResults = &StatusError{Status: "ZERO_RESULTS"}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

var (
	WithBaseURL    = opts.ForName[Client, string]("baseURL")
	WithHTTPClient = opts.ForName[Client, *http.Client]("httpClient")
)

func New(apiKey string, options ...opts.Option[Client]) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gmaps: api key is required")
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        slog.With(slogx.LoggerName("gmaps")),
	}
	if err := opts.Apply(client, options); err != nil {
		return nil, err
	}
	return client, nil
}

// get issues a request against one of the json endpoints and decodes the
// envelope into out. The endpoint's status field is checked separately by
// the caller since each service nests it differently.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	query.Set("key", c.apiKey)

	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("gmaps: build request for %s: %w", endpoint, err)
	}

	c.log.DebugContext(ctx, "maps api request", slog.String("endpoint", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmaps: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gmaps: %s returned http %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gmaps: decode %s response: %w", endpoint, err)
	}
	return nil
}

func checkStatus(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS":
		return ErrNoResults
	default:
		return &StatusError{Status: status, Message: message}
	}
}
