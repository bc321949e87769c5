package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

const (
	defaultSystemsURL     = "https://www.edsm.net/api-v1/"
	defaultSystemURL      = "https://www.edsm.net/api-system-v1/"
	defaultResolveTimeout = 30 * time.Second
	defaultBulkTimeout    = 60 * time.Second
	defaultUserAgent      = "edsm-checker-go/0.1"
	maxResponseBytes      = 32 << 20
)

// ClientConfig holds the fixed configuration of an EDSMClient
type ClientConfig struct {
	// SystemsURL serves system, sphere-systems and cube-systems
	SystemsURL string
	// SystemURL serves bodies
	SystemURL string

	Options QueryOptions

	ResolveTimeout time.Duration
	BulkTimeout    time.Duration

	// RequestsPerSecond <= 0 disables rate limiting
	RequestsPerSecond float64
	Burst             int

	HTTPClient *http.Client
	Logger     common.Logger
	Metrics    common.MetricsRecorder
}

// EDSMClient implements system.CatalogClient against the EDSM web API.
// It holds no mutable state besides the rate limiter and is safe to share.
type EDSMClient struct {
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	systemsURL     string
	systemURL      string
	options        string
	resolveTimeout time.Duration
	bulkTimeout    time.Duration
	logger         common.Logger
	metrics        common.MetricsRecorder
}

var _ system.CatalogClient = (*EDSMClient)(nil)

// NewEDSMClient creates a new EDSM client with default settings
// Rate limit: 1 request per second with burst of 5
func NewEDSMClient() *EDSMClient {
	return NewEDSMClientWithConfig(ClientConfig{
		Options:           DefaultQueryOptions(),
		RequestsPerSecond: 1,
		Burst:             5,
	})
}

// NewEDSMClientWithConfig creates a new EDSM client with custom configuration.
// Zero values fall back to the defaults.
func NewEDSMClientWithConfig(cfg ClientConfig) *EDSMClient {
	if cfg.SystemsURL == "" {
		cfg.SystemsURL = defaultSystemsURL
	}
	if cfg.SystemURL == "" {
		cfg.SystemURL = defaultSystemURL
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = defaultResolveTimeout
	}
	if cfg.BulkTimeout <= 0 {
		cfg.BulkTimeout = defaultBulkTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = common.NoOpLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = common.NoOpMetrics()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &EDSMClient{
		httpClient:     cfg.HTTPClient,
		rateLimiter:    limiter,
		systemsURL:     withTrailingSlash(cfg.SystemsURL),
		systemURL:      withTrailingSlash(cfg.SystemURL),
		options:        cfg.Options.QueryString(),
		resolveTimeout: cfg.ResolveTimeout,
		bulkTimeout:    cfg.BulkTimeout,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
	}
}

// Options returns the fixed "&key=value" option string appended to every query
func (c *EDSMClient) Options() string {
	return c.options
}

// SystemURL returns the resolution query URL, or "" when the target has no name
func (c *EDSMClient) SystemURL(target *system.Target) string {
	if target == nil || target.Name == "" {
		return ""
	}
	return c.systemsURL + "system?systemName=" + escape(target.Name) + c.options
}

// BodiesURL returns the bodies query URL, preferring the catalog address over the name.
// Returns "" when neither is known.
func (c *EDSMClient) BodiesURL(target *system.Target) string {
	if target == nil {
		return ""
	}
	if target.Address != nil {
		return c.systemURL + "bodies?systemId64=" + strconv.FormatInt(*target.Address, 10) + c.options
	}
	if target.Name != "" {
		return c.systemURL + "bodies?systemName=" + escape(target.Name) + c.options
	}
	return ""
}

// SphereURL returns the URL for systems within radius ly of the target.
// radius is clamped to [MinRadius, MaxRadius].
func (c *EDSMClient) SphereURL(target *system.Target, radius int) string {
	if target == nil || target.Name == "" {
		return ""
	}
	return fmt.Sprintf("%ssphere-systems?systemName=%s&radius=%d%s",
		c.systemsURL, escape(target.Name), ClampRadius(radius), c.options)
}

// CubeURL returns the URL for systems in a cube of edge size ly centred on the target.
// size is clamped to [MinCubeSize, MaxCubeSize].
func (c *EDSMClient) CubeURL(target *system.Target, size int) string {
	if target == nil || target.Name == "" {
		return ""
	}
	return fmt.Sprintf("%scube-systems?systemName=%s&size=%d%s",
		c.systemsURL, escape(target.Name), ClampCubeSize(size), c.options)
}

// SystemQuery resolves the target by name
func (c *EDSMClient) SystemQuery(ctx context.Context, target *system.Target) system.Payload {
	return c.get(ctx, c.SystemURL(target), c.resolveTimeout)
}

// BodiesQuery fetches body enumeration and permit/lock metadata for the target
func (c *EDSMClient) BodiesQuery(ctx context.Context, target *system.Target) system.Payload {
	return c.get(ctx, c.BodiesURL(target), c.bulkTimeout)
}

// SphereSystems lists the systems within radius ly of the target
func (c *EDSMClient) SphereSystems(ctx context.Context, target *system.Target, radius int) []*system.Target {
	return decodeTargets(c.Query(ctx, c.SphereURL(target, radius)))
}

// CubeSystems lists the systems inside a cube of edge size ly centred on the target
func (c *EDSMClient) CubeSystems(ctx context.Context, target *system.Target, size int) []*system.Target {
	return decodeTargets(c.Query(ctx, c.CubeURL(target, size)))
}

// Query performs a bulk GET against rawURL.
// An empty URL returns nil without touching the network.
func (c *EDSMClient) Query(ctx context.Context, rawURL string) system.Payload {
	return c.get(ctx, rawURL, c.bulkTimeout)
}

// get executes a single GET. Every failure is logged and reported as a nil payload.
func (c *EDSMClient) get(ctx context.Context, rawURL string, timeout time.Duration) system.Payload {
	if rawURL == "" {
		return nil
	}
	endpoint := endpointName(rawURL)
	c.logger.Log(common.LevelDebug, "catalog query", map[string]interface{}{
		"url":      rawURL,
		"endpoint": endpoint,
	})

	// Wait for rate limiter
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.logger.Log(common.LevelError, fmt.Sprintf("rate limiter error: %v", err), map[string]interface{}{
			"endpoint": endpoint,
		})
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Create HTTP request
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		c.logger.Log(common.LevelError, fmt.Sprintf("failed to create request: %v", err), map[string]interface{}{
			"url": rawURL,
		})
		return nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	// Execute HTTP request
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordCatalogRequest(endpoint, 0, time.Since(start))
		c.logger.Log(common.LevelError, fmt.Sprintf("network error: %v", err), map[string]interface{}{
			"url": rawURL,
		})
		return nil
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.metrics.RecordCatalogRequest(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		c.logger.Log(common.LevelError, fmt.Sprintf("failed to read response: %v", err), map[string]interface{}{
			"url": rawURL,
		})
		return nil
	}

	// Handle non-2xx status codes
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Log(common.LevelWarning, fmt.Sprintf("Error calling API for EDSM data: %d", resp.StatusCode), map[string]interface{}{
			"url":         rawURL,
			"status_code": resp.StatusCode,
		})
		return nil
	}

	if !gjson.ValidBytes(body) {
		c.logger.Log(common.LevelError, "failed to decode response: invalid JSON", map[string]interface{}{
			"url":  rawURL,
			"size": len(body),
		})
		return nil
	}

	return system.Payload(body)
}

func decodeTargets(payload system.Payload) []*system.Target {
	items := payload.Objects()
	if len(items) == 0 {
		return nil
	}
	targets := make([]*system.Target, 0, len(items))
	for _, item := range items {
		t, err := system.NewTargetFromJSON(item)
		if err != nil {
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

// escape percent-encodes a system name for use as a query value ("Col 285" -> "Col%20285")
func escape(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

func withTrailingSlash(base string) string {
	if strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}

func endpointName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "unknown"
	}
	return path.Base(u.Path)
}
