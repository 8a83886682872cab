package backendapi

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// WithTransport sets the transport capability used to perform exchanges.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHTTPClient routes calls through an HTTPTransport built on the given
// http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.transport = NewHTTPTransport(client)
	}
}

// WithCache sets the response cache capability. Without a cache, per-call
// cache TTL options have no effect.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithInMemoryCache enables caching with the default sharded in-memory cache.
func WithInMemoryCache() Option {
	return func(c *Client) {
		c.cache = NewInMemoryCache()
	}
}

// WithNotifier sets the user-facing notification surface.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithLogrusLogger routes structured logging through the given logrus logger.
func WithLogrusLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = NewLogrusLogger(logger)
	}
}

// WithDebug enables debug logging with the default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// WithMetrics enables Prometheus metrics collection on the default registry.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithNormalizer sets the instance-level result normalizer.
func WithNormalizer(fn Normalizer) Option {
	return func(c *Client) {
		c.normalizer = fn
	}
}

// WithFailHook sets the hook invoked once for every terminal failure, before
// the user notification.
func WithFailHook(hook FailHook) Option {
	return func(c *Client) {
		c.failHook = hook
	}
}

// WithFailMessage sets the fallback human message shown when a failure
// carries no message of its own.
func WithFailMessage(message string) Option {
	return func(c *Client) {
		c.failMessage = message
	}
}

// WithDefaults sets the global default layer merged under every endpoint
// configuration and per-call value.
func WithDefaults(defaults Endpoint) Option {
	return func(c *Client) {
		c.defaults = defaults.clone()
	}
}

// WithEndpoints registers an endpoint table at construction.
func WithEndpoints(table map[string]Endpoint) Option {
	return func(c *Client) {
		c.endpoints.addAll(table, c.logger)
	}
}

// WithEndpointsFile loads a YAML endpoint configuration file at construction.
// A load failure surfaces through ValidationError.
func WithEndpointsFile(path string) Option {
	return func(c *Client) {
		file, err := LoadEndpointsFile(path)
		if err != nil {
			c.validationError = err
			return
		}
		c.defaults = c.defaults.merge(file.Defaults)
		c.endpoints.addAll(file.Endpoints, c.logger)
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error describing every problem found.
func (c *Client) ValidateConfiguration() error {
	var problems []string

	if c.transport == nil {
		problems = append(problems, "transport cannot be nil")
	}
	if c.notifier == nil {
		problems = append(problems, "notifier cannot be nil")
	}
	if c.normalizer == nil {
		problems = append(problems, "normalizer cannot be nil")
	}
	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			problems = append(problems, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			problems = append(problems, "logger must be set when debug is enabled")
		}
	}
	if c.validationError != nil {
		problems = append(problems, c.validationError.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %v", problems)
	}
	return nil
}
