package backendapi

import "time"

// callSettings holds the per-call values and control options consumed by the
// dispatch pipeline. Control options are never forwarded to the transport.
type callSettings struct {
	namespace string
	method    string
	url       string
	header    map[string]string
	data      any
	upload    *UploadSpec

	showLoading        bool
	loadingMask        bool
	interceptDuplicate bool
	showFailTip        bool
	failTipDuration    time.Duration
	cacheEnabled       bool
	cacheTTL           time.Duration
	normalizer         Normalizer
}

func defaultCallSettings() callSettings {
	return callSettings{
		showLoading: true,
		showFailTip: true,
	}
}

// CallOption customizes a single Send invocation.
type CallOption func(*callSettings)

// WithData sets the request body payload. A map payload deep-merges over the
// endpoint's configured default data; any other payload replaces it.
func WithData(data any) CallOption {
	return func(cs *callSettings) {
		cs.data = data
	}
}

// WithHeader sets one header field for this call.
func WithHeader(key, value string) CallOption {
	return func(cs *callSettings) {
		if cs.header == nil {
			cs.header = make(map[string]string)
		}
		cs.header[key] = value
	}
}

// WithMethod overrides the transmission method for this call.
func WithMethod(method string) CallOption {
	return func(cs *callSettings) {
		cs.method = method
	}
}

// WithURL overrides the target address for this call. Required when the
// endpoint name is empty or not configured.
func WithURL(url string) CallOption {
	return func(cs *callSettings) {
		cs.url = url
	}
}

// InNamespace prefixes the endpoint lookup key with the given namespace.
func InNamespace(ns string) CallOption {
	return func(cs *callSettings) {
		cs.namespace = ns
	}
}

// WithoutLoading suppresses the loading indicator for this call. Suppressed
// calls do not keep the indicator visible for other callers either.
func WithoutLoading() CallOption {
	return func(cs *callSettings) {
		cs.showLoading = false
	}
}

// WithLoadingMask requests a dimming overlay with the loading indicator.
func WithLoadingMask() CallOption {
	return func(cs *callSettings) {
		cs.loadingMask = true
	}
}

// WithDuplicateIntercept blocks this call instead of transmitting when an
// identical request is already in flight. The blocked call never settles with
// a result; it returns only once its context is cancelled.
func WithDuplicateIntercept() CallOption {
	return func(cs *callSettings) {
		cs.interceptDuplicate = true
	}
}

// WithoutFailTip suppresses the failure notification for this call.
func WithoutFailTip() CallOption {
	return func(cs *callSettings) {
		cs.showFailTip = false
	}
}

// WithFailTipDuration overrides how long the failure notification is shown.
func WithFailTipDuration(d time.Duration) CallOption {
	return func(cs *callSettings) {
		cs.failTipDuration = d
	}
}

// WithCallCacheTTL enables response caching for this call. A business
// successful result is written through with the given TTL; zero means the
// entry never expires.
func WithCallCacheTTL(ttl time.Duration) CallOption {
	return func(cs *callSettings) {
		cs.cacheEnabled = true
		cs.cacheTTL = ttl
	}
}

// WithCallNormalizer overrides the client's result normalizer for this call.
func WithCallNormalizer(fn Normalizer) CallOption {
	return func(cs *callSettings) {
		cs.normalizer = fn
	}
}

// AsUpload switches this call to the file-upload transport mode. The response
// body is delivered as a string and decoded before normalization.
func AsUpload(filePath, fileField string) CallOption {
	return func(cs *callSettings) {
		if fileField == "" {
			fileField = "file"
		}
		cs.upload = &UploadSpec{FilePath: filePath, FileField: fileField}
	}
}
