package backendapi

import "testing"

func TestFingerprintStability(t *testing.T) {
	body1 := map[string]any{"id": 42, "name": "alice"}
	body2 := map[string]any{"name": "alice", "id": 42}

	fp1 := fingerprintFor("POST", "https://x/user", body1, nil)
	fp2 := fingerprintFor("POST", "https://x/user", body2, nil)

	if fp1 != fp2 {
		t.Errorf("structurally equal bodies produced different fingerprints: %s vs %s", fp1, fp2)
	}
}

func TestFingerprintDistinguishesRequests(t *testing.T) {
	base := fingerprintFor("GET", "https://x/user", nil, nil)

	if fp := fingerprintFor("POST", "https://x/user", nil, nil); fp == base {
		t.Error("method change should change the fingerprint")
	}
	if fp := fingerprintFor("GET", "https://x/other", nil, nil); fp == base {
		t.Error("url change should change the fingerprint")
	}
	if fp := fingerprintFor("GET", "https://x/user", map[string]any{"a": 1}, nil); fp == base {
		t.Error("body change should change the fingerprint")
	}
}

func TestFingerprintIgnoresTransportMutation(t *testing.T) {
	c := New()
	cs := defaultCallSettings()
	cs.url = "https://x/user"
	d := c.resolveDescriptor("", cs)
	before := d.Fingerprint()

	// Some transports rewrite the URL field in place after submission.
	d.URL = "https://cdn.rewritten/user?sig=abc"

	after := fingerprintFor(d.Method, d.OriginalURL(), d.Data, nil)
	if before != after {
		t.Error("fingerprint must not depend on the transport-mutated URL field")
	}
}

func TestFingerprintSerializationFallback(t *testing.T) {
	recorder := &recordingLogger{}

	// Channels are not JSON serializable; the fallback rendering must kick in
	// with a warning instead of failing the call.
	fp := fingerprintFor("POST", "https://x/user", map[string]any{"ch": make(chan int)}, recorder)

	if fp == "" {
		t.Error("fallback fingerprint must not be empty")
	}
	if recorder.count("WARN") == 0 {
		t.Error("serialization fallback should log a warning")
	}
}
