// Package distancematrix resolves travel distances through a distance-matrix
// style HTTP API (one origin, one destination, distance in meters).
package distancematrix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// DefaultBaseURL is the public Google Distance Matrix endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

const statusOK = "OK"

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// Observer receives the outcome of every lookup. It may be nil.
type Observer interface {
	ObserveDistanceLookup(outcome string, elapsed time.Duration)
}

// Client implements ports.DistanceResolver with a single GET per lookup and no retries.
// The client sets no timeout of its own; the caller's context bounds each call.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tracer     trace.Tracer
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTracer sets the tracer used for client spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithObserver reports lookup outcomes, typically to metrics.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tracer: otel.Tracer("dispatch/distancematrix"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// Resolve returns the distance in meters between origin and destination.
// Every failure is a *ports.DistanceResolutionError.
func (c *Client) Resolve(ctx context.Context, origin, destination kernel.GeoPoint) (int, error) {
	ctx, span := c.tracer.Start(ctx, "distancematrix.resolve", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	started := time.Now()
	distance, err := c.resolve(ctx, origin, destination)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("distance.meters", distance))
	}
	if c.observer != nil {
		c.observer.ObserveDistanceLookup(outcome, time.Since(started))
	}

	return distance, err
}

func (c *Client) resolve(ctx context.Context, origin, destination kernel.GeoPoint) (int, error) {
	if err := origin.Validate(); err != nil {
		return 0, ports.NewDistanceResolutionError("Invalid coordinates.", err)
	}
	if err := destination.Validate(); err != nil {
		return 0, ports.NewDistanceResolutionError("Invalid coordinates.", err)
	}

	requestURL, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, ports.NewDistanceResolutionError("distance service is misconfigured", err)
	}
	q := requestURL.Query()
	q.Set("origins", origin.String())
	q.Set("destinations", destination.String())
	q.Set("key", c.apiKey)
	requestURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return 0, ports.NewDistanceResolutionError("distance service is misconfigured", err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ports.NewDistanceResolutionError("distance service timed out", ctxErr)
		}
		return 0, ports.NewDistanceResolutionError("distance service is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, ports.NewDistanceResolutionError(
			fmt.Sprintf("distance service returned %s", resp.Status), nil,
		)
	}

	var body matrixResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return 0, ports.NewDistanceResolutionError("distance service returned a malformed response", err)
	}

	return body.distance()
}

func (r matrixResponse) distance() (int, error) {
	if r.Status != statusOK {
		diagnostic := r.ErrorMessage
		if diagnostic == "" {
			diagnostic = r.Status
		}
		if diagnostic == "" {
			diagnostic = "distance service returned no status"
		}
		return 0, ports.NewDistanceResolutionError(diagnostic, nil)
	}

	if len(r.Rows) == 0 || len(r.Rows[0].Elements) == 0 {
		return 0, ports.NewDistanceResolutionError("distance service returned no route", nil)
	}

	element := r.Rows[0].Elements[0]
	if element.Status != statusOK {
		return 0, ports.NewDistanceResolutionError(element.Status, nil)
	}

	if element.Distance.Value < 0 {
		return 0, ports.NewDistanceResolutionError(
			fmt.Sprintf("distance service returned negative distance %d", element.Distance.Value), nil,
		)
	}

	return element.Distance.Value, nil
}
