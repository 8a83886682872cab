package backendapi

import (
	"context"
	"net/http"
	"time"
)

// Descriptor is the fully resolved set of parameters for one call, produced by
// merging global defaults, the named endpoint configuration and per-call
// values. It is handed to the Transport as-is; the original URL is retained
// separately because some transports rewrite the URL field after submission.
type Descriptor struct {
	Method string
	URL    string
	Header map[string]string
	Data   any

	// Upload selects the file-upload transport mode when non-nil.
	Upload *UploadSpec

	originalURL string
	fingerprint string
	settings    callSettings
}

// OriginalURL returns the URL the descriptor was resolved with, before any
// in-place rewriting the transport may have performed.
func (d *Descriptor) OriginalURL() string {
	return d.originalURL
}

// Fingerprint returns the stable identity of the descriptor used for
// de-duplication and caching.
func (d *Descriptor) Fingerprint() string {
	return d.fingerprint
}

// UploadSpec carries the file-upload parameters for upload-mode calls.
type UploadSpec struct {
	FilePath  string
	FileField string
}

// Envelope is the canonical normalized response shape. Status 0 means business
// success; any other value is a business failure.
type Envelope struct {
	Status     int        `json:"status"`
	Data       any        `json:"data"`
	StatusInfo StatusInfo `json:"statusInfo"`
}

// StatusInfo carries the human readable message and arbitrary detail attached
// to an envelope.
type StatusInfo struct {
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// Ok reports whether the envelope signals business success.
func (e Envelope) Ok() bool {
	return e.Status == 0
}

// Result is the settled outcome of a successful call.
type Result struct {
	StatusCode int
	Header     http.Header
	Envelope   Envelope
	FromCache  bool
}

// TransportResult is the raw outcome of a completed transport exchange. Body
// holds the decoded response payload for request mode and the raw string for
// upload mode.
type TransportResult struct {
	StatusCode int
	Header     http.Header
	Body       any
}

// Transport performs the actual network exchange for a resolved descriptor.
// Returning an error means the exchange could not be issued at all (category
// A); protocol-level failures are reported through TransportResult.StatusCode.
type Transport interface {
	Send(ctx context.Context, d *Descriptor) (*TransportResult, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, d *Descriptor) (*TransportResult, error)

func (f TransportFunc) Send(ctx context.Context, d *Descriptor) (*TransportResult, error) {
	return f(ctx, d)
}

// CacheEntry holds a full transport result plus its expiry policy. A zero
// ExpiresAt means the entry never expires.
type CacheEntry struct {
	StatusCode int         `json:"statusCode"`
	Header     http.Header `json:"header"`
	Body       any         `json:"body"`
	ExpiresAt  time.Time   `json:"expiresAt"`
}

// Expired reports whether the entry is past its expiry at the given time.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Cache is the capability interface for response caching. A ttl of zero stores
// the entry without expiry.
type Cache interface {
	Get(key string) (*CacheEntry, bool)
	Set(key string, entry *CacheEntry, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Notifier is the user-facing notification surface (spinner and toast). The
// pipeline drives it; its visual behavior is up to the implementation.
type Notifier interface {
	ShowLoading(mask bool)
	HideLoading()
	ShowMessage(text string, duration time.Duration)
}

// Normalizer maps an arbitrary backend payload to the canonical envelope.
type Normalizer func(d *Descriptor, body any) Envelope

// FailHook is invoked once for every terminal failure before the user
// notification, allowing status-specific side effects such as redirecting to
// login on an auth-expired code.
type FailHook func(d *Descriptor, err *RequestError)

// Option configures a Client at construction time.
type Option func(*Client)
