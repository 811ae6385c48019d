package remote

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/tracing"
)

const userAgent = "Sandbox-Compiler-Client/1.0"

// Recorder receives remote call metrics
type Recorder interface {
	RecordRemoteCall(result string)
	RecordBreakerState(name string, from, to resilience.State)
}

// Config configures the compile service client
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	RateLimit float64 // requests per second, 0 = unlimited
	Logger    *zap.Logger
	Recorder  Recorder
}

// Client wraps resty with rate limiting and a circuit breaker
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Breaker *resilience.Breaker
	Mu      sync.RWMutex

	baseURL  string
	logger   *zap.Logger
	recorder Recorder
}

// NewClient creates a compile service client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient())
	restyClient.
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	c := &Client{
		Resty:    restyClient,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		logger:   cfg.Logger.Named("remote"),
		recorder: cfg.Recorder,
	}

	c.Breaker = resilience.New("compile-service", resilience.CompileService(c.onStateChange))
	c.SetRateLimit(cfg.RateLimit)
	return c
}

func (c *Client) onStateChange(name string, from, to resilience.State) {
	c.logger.Warn("compile service breaker changed state",
		zap.String("breaker", name),
		zap.String("from", from.String()),
		zap.String("to", to.String()))
	if c.recorder != nil {
		c.recorder.RecordBreakerState(name, from, to)
	}
}

// BaseURL returns the compile service root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetTimeout configures request timeout
func (c *Client) SetTimeout(duration time.Duration) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.Resty.SetTimeout(duration)
}

// SetRateLimit configures rate limiting (requests per second)
func (c *Client) SetRateLimit(rps float64) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if rps <= 0 {
		c.Limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// SetBearerAuth configures bearer token authentication
func (c *Client) SetBearerAuth(token string) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.Resty.SetAuthToken(token)
}

// Request creates new request with rate limiting and circuit breaker protection
func (c *Client) Request(ctx context.Context) (*resty.Request, error) {
	if c.Breaker.State() == resilience.StateOpen {
		return nil, resilience.ErrCircuitOpen
	}

	c.Mu.RLock()
	limiter := c.Limiter
	c.Mu.RUnlock()
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.Resty.R().SetContext(ctx).SetHeaders(tracing.Headers(ctx)), nil
}

// ExecuteWithBreaker executes an HTTP operation with circuit breaker protection
func (c *Client) ExecuteWithBreaker(fn func() (*resty.Response, error)) (*resty.Response, error) {
	return resilience.Call(c.Breaker, fn)
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.Breaker.State()
}
