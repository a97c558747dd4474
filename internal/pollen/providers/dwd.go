package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/dwd-pollen/internal/observability"
	"github.com/i474232898/dwd-pollen/internal/pollen"
)

const (
	// FeedURL is the DWD pollen forecast feed.
	FeedURL = "https://opendata.dwd.de/climate_environment/health/alerts/s31fg.json"
	// DefaultTimeout bounds a single feed request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 8 << 20
)

// DWDProvider implements pollen.Fetcher for the Deutscher Wetterdienst feed.
type DWDProvider struct {
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewDWDProvider creates a provider. A nil client gets one with DefaultTimeout.
func NewDWDProvider(client *http.Client, logger *slog.Logger, metrics *observability.Metrics) *DWDProvider {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &DWDProvider{
		url:     FeedURL,
		client:  client,
		circuit: newCircuitBreaker("dwd-pollen"),
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch performs one GET of the feed. It never retries.
func (p *DWDProvider) Fetch(ctx context.Context) (pollen.Document, error) {
	start := time.Now()
	body, err := p.get(ctx)
	p.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.FetchTotal.WithLabelValues(string(pollen.FailureTransport)).Inc()
		p.logger.Error("error fetching data", "url", p.url, "error", err)
		return pollen.Document{}, fmt.Errorf("%w: GET %s: %w", pollen.ErrTransport, p.url, err)
	}

	var doc pollen.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			p.metrics.FetchTotal.WithLabelValues(string(pollen.FailureParse)).Inc()
			p.logger.Error("error parsing data", "url", p.url, "error", err)
			return pollen.Document{}, fmt.Errorf("%w: %s: %w", pollen.ErrParse, p.url, err)
		}
		p.metrics.FetchTotal.WithLabelValues(string(pollen.FailureDataShape)).Inc()
		p.logger.Error("unexpected feed structure", "url", p.url, "error", err)
		return pollen.Document{}, fmt.Errorf("%w: decode %s: %w", pollen.ErrDataShape, p.url, err)
	}

	p.metrics.FetchTotal.WithLabelValues("success").Inc()
	p.logger.Debug("feed fetched",
		"url", p.url,
		"last_update", doc.LastUpdate,
		"subregions", len(doc.Content),
	)
	return doc, nil
}

func (p *DWDProvider) get(ctx context.Context) ([]byte, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
