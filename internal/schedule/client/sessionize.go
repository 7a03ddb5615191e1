package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cloudnative-denmark/conference-companion/internal/logging"
	"github.com/cloudnative-denmark/conference-companion/internal/metrics"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
)

// View names a read-only collection of the schedule provider.
type View string

const (
	ViewGrid     View = "Grid"
	ViewSpeakers View = "Speakers"
	ViewSessions View = "Sessions"
)

// RawSource returns the undecoded JSON body of a provider view.
type RawSource interface {
	FetchView(ctx context.Context, view View) ([]byte, error)
}

// Options configures a SessionizeClient.
type Options struct {
	BaseURL    string
	EventID    string
	Timeout    time.Duration
	RPS        float64
	Burst      int
	HTTPClient *http.Client
}

// SessionizeClient handles communication with the Sessionize API
type SessionizeClient struct {
	baseURL    string
	eventID    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSessionizeClient creates a new Sessionize client
func NewSessionizeClient(opt Options) *SessionizeClient {
	httpClient := opt.HTTPClient
	if httpClient == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if opt.RPS > 0 {
		limit = rate.Limit(opt.RPS)
	}
	burst := opt.Burst
	if burst <= 0 {
		burst = 3
	}
	return &SessionizeClient{
		baseURL:    strings.TrimRight(opt.BaseURL, "/"),
		eventID:    opt.EventID,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// EventID returns the event the client reads from.
func (c *SessionizeClient) EventID() string {
	return c.eventID
}

// FetchView performs GET /{eventId}/view/{view}
func (c *SessionizeClient) FetchView(ctx context.Context, view View) ([]byte, error) {
	logger := logging.New(ctx)
	endpoint := strings.ToLower(string(view))
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.NetworkError{Endpoint: endpoint, Err: err}
	}

	reqURL := fmt.Sprintf("%s/%s/view/%s", c.baseURL, c.eventID, view)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.LogError("fetch_"+endpoint, err)
		metrics.RecordUpstreamCall(endpoint, time.Since(start), err)
		return nil, &domain.NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamCall(endpoint, time.Since(start), err)
		return nil, &domain.NetworkError{Endpoint: endpoint, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		nerr := &domain.NetworkError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		logger.LogWarnf("fetch_"+endpoint, "sessionize returned status %d", resp.StatusCode)
		metrics.RecordUpstreamCall(endpoint, time.Since(start), nerr)
		return nil, nerr
	}

	metrics.RecordUpstreamCall(endpoint, time.Since(start), nil)
	return body, nil
}

// Feed decodes provider views into schedule types.
type Feed struct {
	src RawSource
}

// NewFeed creates a feed over src, which may be the client itself or a cache in front of it.
func NewFeed(src RawSource) *Feed {
	return &Feed{src: src}
}

// Invalidate clears the source's cache when it has one.
func (f *Feed) Invalidate(ctx context.Context) error {
	if inv, ok := f.src.(interface {
		Invalidate(ctx context.Context) error
	}); ok {
		return inv.Invalidate(ctx)
	}
	return nil
}

// FetchGrid fetches the day/time-slot/room grid
func (f *Feed) FetchGrid(ctx context.Context) ([]domain.GridEntry, error) {
	var grid []domain.GridEntry
	if err := f.fetch(ctx, ViewGrid, &grid); err != nil {
		return nil, err
	}
	return grid, nil
}

// FetchSpeakers fetches the speaker roster
func (f *Feed) FetchSpeakers(ctx context.Context) ([]domain.Speaker, error) {
	var speakers []domain.Speaker
	if err := f.fetch(ctx, ViewSpeakers, &speakers); err != nil {
		return nil, err
	}
	return speakers, nil
}

// FetchSessions fetches the session-detail wrappers
func (f *Feed) FetchSessions(ctx context.Context) ([]domain.SessionList, error) {
	var sessions []domain.SessionList
	if err := f.fetch(ctx, ViewSessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (f *Feed) fetch(ctx context.Context, view View, out interface{}) error {
	body, err := f.src.FetchView(ctx, view)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", strings.ToLower(string(view)), err)
	}
	return nil
}
