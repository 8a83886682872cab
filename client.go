package backendapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Client is the request dispatch pipeline. It resolves logical endpoint names
// against configuration, intercepts duplicate in-flight calls, short-circuits
// through the response cache, tracks transmissions, normalizes outcomes and
// funnels every failure through one reporting path. It is safe for concurrent
// use.
type Client struct {
	transport  Transport
	cache      Cache
	notifier   Notifier
	logger     Logger
	debug      *DebugConfig
	metrics    *MetricsCollector
	normalizer Normalizer
	failHook   FailHook

	defaults    Endpoint
	endpoints   *endpointRegistry
	gate        *gate
	inflight    *inflightRegistry
	failMessage string

	// mu guards the loading indicator state together with the composite
	// check-then-mutate steps on the in-flight registry.
	mu           sync.Mutex
	loadingShown bool

	validationError error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		transport:   NewHTTPTransport(nil),
		notifier:    NopNotifier{},
		debug:       DefaultDebugConfig(),
		normalizer:  DefaultNormalizer,
		endpoints:   newEndpointRegistry(),
		gate:        newGate(),
		inflight:    newInflightRegistry(),
		failMessage: "request failed, please retry later",
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Send dispatches the logical request identified by the endpoint name,
// optionally suffixed with a trailing path segment ("getUser/42"). It blocks
// until the call settles: a successful Result, or a *RequestError carrying
// the failure category, status and normalized envelope.
func (c *Client) Send(ctx context.Context, name string, opts ...CallOption) (*Result, error) {
	return c.dispatch(ctx, name, opts, false)
}

func (c *Client) dispatch(ctx context.Context, name string, opts []CallOption, bypassGate bool) (*Result, error) {
	if c.transport == nil {
		return nil, ErrNoTransport
	}

	if !bypassGate {
		if err := c.gate.wait(ctx); err != nil {
			return nil, err
		}
		c.metrics.RecordGateDepth(c.gate.depth())
	}

	cs := defaultCallSettings()
	for _, opt := range opts {
		opt(&cs)
	}

	start := time.Now()
	d := c.resolveDescriptor(name, cs)
	endpoint := endpointLabel(d.originalURL)

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("dispatching request", "requestID", requestID,
			"method", d.Method, "url", d.URL, "endpoint", endpoint)
	}

	// beforeSend gate, in priority order: duplicate interception first, then
	// the cache short-circuit, then transmission.
	c.mu.Lock()
	intercepted := cs.interceptDuplicate && c.inflight.isPending(d)
	c.mu.Unlock()
	if intercepted {
		return c.blockDuplicate(ctx, d, endpoint, requestID)
	}

	if c.cache != nil {
		if entry, found := c.cache.Get(d.fingerprint); found {
			return c.settleFromCache(d, entry, endpoint, requestID, start), nil
		}
		c.metrics.RecordCacheMiss(d.Method, endpoint)
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("cache miss", "requestID", requestID, "fingerprint", d.fingerprint)
		}
	}

	if !c.beginSend(d) {
		return c.blockDuplicate(ctx, d, endpoint, requestID)
	}
	c.metrics.RecordRequestStart(d.Method, endpoint)

	tr, terr := c.transport.Send(ctx, d)

	c.finishSend(d, requestID)
	c.metrics.RecordRequestEnd(d.Method, endpoint)

	duration := time.Since(start)
	return c.settle(d, tr, terr, endpoint, requestID, duration)
}

// blockDuplicate implements the DUPLICATE_BLOCKED branch: the call never
// settles with a result and the transport is never invoked. The caller's
// context is the only way out.
func (c *Client) blockDuplicate(ctx context.Context, d *Descriptor, endpoint, requestID string) (*Result, error) {
	c.metrics.RecordDuplicateIntercept(d.Method, endpoint)
	if c.debug != nil && c.debug.Enabled && c.debug.LogDedup && c.logger != nil {
		c.logger.Debug("duplicate request intercepted, call will not settle",
			"requestID", requestID, "fingerprint", d.fingerprint, "url", d.originalURL)
	}

	<-ctx.Done()
	return nil, fmt.Errorf("%w: %w", ErrDuplicateIntercepted, ctx.Err())
}

// settleFromCache implements the CACHE_HIT branch: resolve immediately with
// the cached transport result, bypassing transport and registry entirely.
func (c *Client) settleFromCache(d *Descriptor, entry *CacheEntry, endpoint, requestID string, start time.Time) *Result {
	c.metrics.RecordCacheHit(d.Method, endpoint)
	c.metrics.RecordRequest(d.Method, endpoint, entry.StatusCode, time.Since(start))
	if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
		c.logger.Debug("cache hit", "requestID", requestID, "fingerprint", d.fingerprint)
	}

	body := entry.Body
	if d.Upload != nil {
		body = c.decodeUploadBody(body, requestID)
	}
	return &Result{
		StatusCode: entry.StatusCode,
		Header:     entry.Header,
		Envelope:   c.normalizerFor(d)(d, body),
		FromCache:  true,
	}
}

// beginSend transitions the call to IN_FLIGHT: shows the loading indicator if
// no other non-suppressed call is already showing it, then registers the
// descriptor. The duplicate check is repeated here, in the same critical
// section as the insertion, because the cache lookup sits between the early
// check and registration; without the re-check two identical intercepting
// calls parked in a slow cache read could both observe "not pending" and both
// transmit. Returns false when the call must divert to the blocked branch.
func (c *Client) beginSend(d *Descriptor) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d.settings.interceptDuplicate && c.inflight.isPending(d) {
		return false
	}
	if d.settings.showLoading && !c.loadingShown && c.inflight.countActive(true) == 0 {
		c.notifier.ShowLoading(d.settings.loadingMask)
		c.loadingShown = true
		c.metrics.RecordLoadingState(true)
	}
	c.inflight.add(d)
	return true
}

// finishSend removes the call from the registry exactly once and hides the
// loading indicator when no non-suppressed call remains. The count is read
// only after the removal to avoid a false-empty read.
func (c *Client) finishSend(d *Descriptor, requestID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inflight.remove(d) && c.logger != nil {
		c.logger.Warn("in-flight registry: removed fingerprint was not present",
			"fingerprint", d.fingerprint, "requestID", requestID)
	}
	if c.loadingShown && c.inflight.countActive(true) == 0 {
		c.notifier.HideLoading()
		c.loadingShown = false
		c.metrics.RecordLoadingState(false)
	}
}

// settle classifies the transport outcome and produces the call's terminal
// result: success, or a category A/H/B failure routed through the common
// reporting path.
func (c *Client) settle(d *Descriptor, tr *TransportResult, terr error, endpoint, requestID string, duration time.Duration) (*Result, error) {
	if terr != nil {
		status, message := classifyTransportError(terr)
		c.metrics.RecordRequest(d.Method, endpoint, 0, duration)
		env := Envelope{Status: status, StatusInfo: StatusInfo{Message: message}}
		return nil, c.reportFailure(d, &RequestError{
			Category:  CategoryAPI,
			Status:    status,
			Message:   message,
			Method:    d.Method,
			URL:       d.originalURL,
			RequestID: requestID,
			Envelope:  &env,
			Cause:     terr,
			Timestamp: time.Now(),
			Duration:  duration,
		})
	}

	c.metrics.RecordRequest(d.Method, endpoint, tr.StatusCode, duration)

	if !httpSuccess(tr.StatusCode) {
		message := http.StatusText(tr.StatusCode)
		env := Envelope{Status: tr.StatusCode, StatusInfo: StatusInfo{Message: message, Detail: tr.Body}}
		return nil, c.reportFailure(d, &RequestError{
			Category:  CategoryHTTP,
			Status:    tr.StatusCode,
			Message:   message,
			Method:    d.Method,
			URL:       d.originalURL,
			RequestID: requestID,
			Envelope:  &env,
			Result:    tr,
			Timestamp: time.Now(),
			Duration:  duration,
		})
	}

	body := tr.Body
	if d.Upload != nil {
		body = c.decodeUploadBody(body, requestID)
	}
	env := c.normalizerFor(d)(d, body)

	if !env.Ok() {
		return nil, c.reportFailure(d, &RequestError{
			Category:  CategoryBusiness,
			Status:    env.Status,
			Message:   env.StatusInfo.Message,
			Method:    d.Method,
			URL:       d.originalURL,
			RequestID: requestID,
			Envelope:  &env,
			Result:    tr,
			Timestamp: time.Now(),
			Duration:  duration,
		})
	}

	c.writeThroughCache(d, tr, requestID)

	return &Result{
		StatusCode: tr.StatusCode,
		Header:     tr.Header,
		Envelope:   env,
	}, nil
}

// writeThroughCache stores a business-successful transport result when the
// call opted in and no entry exists yet. Failures are never cached.
func (c *Client) writeThroughCache(d *Descriptor, tr *TransportResult, requestID string) {
	if c.cache == nil || !d.settings.cacheEnabled {
		return
	}
	if _, exists := c.cache.Get(d.fingerprint); exists {
		return
	}

	c.cache.Set(d.fingerprint, &CacheEntry{
		StatusCode: tr.StatusCode,
		Header:     tr.Header,
		Body:       tr.Body,
	}, d.settings.cacheTTL)

	if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
		c.logger.Debug("response cached", "requestID", requestID,
			"fingerprint", d.fingerprint, "ttl", d.settings.cacheTTL)
	}
}

// reportFailure is the single terminal failure path: log full context, run
// the overridable fail hook, show the dismissable notification unless opted
// out, and hand the error back for the caller. Every failure passes here
// exactly once.
func (c *Client) reportFailure(d *Descriptor, reqErr *RequestError) error {
	if c.logger != nil {
		c.logger.Error("request failed",
			"code", reqErr.Code(),
			"requestID", reqErr.RequestID,
			"method", d.Method,
			"url", d.originalURL,
			"data", d.Data,
			"status", reqErr.Status,
			"result", reqErr.Result,
			"cause", reqErr.Cause)
	}
	c.metrics.RecordError(reqErr.Category, d.Method, endpointLabel(d.originalURL))

	if c.failHook != nil {
		c.failHook(d, reqErr)
	}

	if d.settings.showFailTip {
		message := reqErr.Message
		if message == "" {
			message = c.failMessage
		}
		c.notifier.ShowMessage(fmt.Sprintf("%s (%s)", message, reqErr.Code()), d.settings.failTipDuration)
	}

	return reqErr
}

// LoadRemoteEndpoints fetches an endpoint table through the pipeline itself
// and merges it into the registry. While the load is active the deferred gate
// holds every Send call; they are released in arrival order once the load
// settles, whether it succeeded or not, and then resolve against whatever
// configuration exists at that point.
//
// Concurrent loads are not coordinated: a second LoadRemoteEndpoints issued
// while one is active queues behind the first load's gate like any other
// call and merges its table when it completes.
//
// The response envelope's data is expected to be an object of endpoint name
// to {method, url, ...}.
func (c *Client) LoadRemoteEndpoints(ctx context.Context, name string, opts ...CallOption) error {
	owner := c.gate.close()
	if owner {
		defer c.gate.open()
		if c.debug != nil && c.debug.Enabled && c.debug.LogConfig && c.logger != nil {
			c.logger.Debug("deferred gate closed for remote endpoint load", "endpoint", name)
		}
	}

	res, err := c.dispatch(ctx, name, opts, owner)
	if err != nil {
		c.metrics.RecordEndpointLoad("failure")
		return err
	}

	table, err := endpointsFromPayload(res.Envelope.Data)
	if err != nil {
		c.metrics.RecordEndpointLoad("failure")
		if c.logger != nil {
			c.logger.Warn("remote endpoint load returned unusable payload", "error", err)
		}
		return err
	}

	c.endpoints.addAll(table, c.logger)
	c.metrics.RecordEndpointLoad("success")
	if c.debug != nil && c.debug.Enabled && c.debug.LogConfig && c.logger != nil {
		c.logger.Debug("remote endpoints merged", "count", len(table))
	}
	return nil
}

// PendingCount returns the number of in-flight calls, optionally excluding
// calls that suppressed the loading indicator.
func (c *Client) PendingCount(excludeSuppressedLoading bool) int {
	return c.inflight.countActive(excludeSuppressedLoading)
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}
