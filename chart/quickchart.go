package chart

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/flanksource/commons/logger"
)

const (
	DefaultQuickChartURL = "https://quickchart.io/chart"
	DefaultTimeout       = 10 * time.Second
	maxImageBytes        = 10 << 20
)

// QuickChart renders charts with a remote QuickChart-compatible service.
type QuickChart struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// NewQuickChart returns a provider for baseURL, or the public service when empty.
func NewQuickChart(baseURL string, timeout time.Duration) *QuickChart {
	if baseURL == "" {
		baseURL = DefaultQuickChartURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &QuickChart{BaseURL: baseURL, Timeout: timeout, Client: http.DefaultClient}
}

// URL is the GET request rendering spec as a PNG on a white background.
func (q *QuickChart) URL(spec Spec) (string, error) {
	cfg, err := spec.Config()
	if err != nil {
		return "", fmt.Errorf("failed to encode chart: %w", err)
	}
	u, err := url.Parse(q.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid chart service URL %q: %w", q.BaseURL, err)
	}
	query := u.Query()
	query.Set("c", string(cfg))
	query.Set("format", "png")
	query.Set("backgroundColor", "white")
	if spec.Width > 0 {
		query.Set("w", strconv.Itoa(spec.Width))
	}
	if spec.Height > 0 {
		query.Set("h", strconv.Itoa(spec.Height))
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (q *QuickChart) Render(ctx context.Context, spec Spec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	target, err := q.URL(spec)
	if err != nil {
		return nil, err
	}
	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart request: %w", err)
	}
	client := q.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chart service returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read chart image: %w", err)
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err != nil || format != "png" {
		return nil, fmt.Errorf("chart service returned a malformed image (%d bytes, %s)", len(data), resp.Header.Get("Content-Type"))
	}
	logger.GetLogger("chart").Debugf("rendered chart with %s in %s (%d bytes)", q.BaseURL, time.Since(start), len(data))
	return data, nil
}
