package backendapi

import "testing"

func TestDefaultNormalizerCanonicalBody(t *testing.T) {
	body := map[string]any{
		"status": float64(0),
		"data":   map[string]any{"id": float64(42)},
		"statusInfo": map[string]any{
			"message": "ok",
			"detail":  "extra",
		},
	}

	env := DefaultNormalizer(nil, body)

	if !env.Ok() {
		t.Error("status 0 should be business success")
	}
	if env.StatusInfo.Message != "ok" || env.StatusInfo.Detail != "extra" {
		t.Errorf("statusInfo not projected: %+v", env.StatusInfo)
	}
	if env.Data.(map[string]any)["id"] != float64(42) {
		t.Error("data not carried over")
	}
}

func TestDefaultNormalizerBusinessFailure(t *testing.T) {
	env := DefaultNormalizer(nil, map[string]any{
		"status":     float64(1001),
		"statusInfo": map[string]any{"message": "session expired"},
	})

	if env.Ok() {
		t.Error("non-zero status should be business failure")
	}
	if env.Status != 1001 || env.StatusInfo.Message != "session expired" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestDefaultNormalizerBarePayload(t *testing.T) {
	env := DefaultNormalizer(nil, []any{"a", "b"})

	if !env.Ok() {
		t.Error("bare payloads default to success")
	}
	if len(env.Data.([]any)) != 2 {
		t.Errorf("bare payload should become envelope data, got %v", env.Data)
	}
}

func TestDefaultNormalizerEnvelopePassthrough(t *testing.T) {
	in := Envelope{Status: 7, StatusInfo: StatusInfo{Message: "x"}}
	if got := DefaultNormalizer(nil, in); got != in {
		t.Errorf("envelope should pass through unchanged, got %+v", got)
	}
	if got := DefaultNormalizer(nil, &in); got != in {
		t.Errorf("envelope pointer should pass through, got %+v", got)
	}
}

func TestDecodeUploadBody(t *testing.T) {
	c := New()

	decoded := c.decodeUploadBody(`{"status":0,"data":{"fileId":"abc"}}`, "")
	m, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("expected decoded map, got %T", decoded)
	}
	if m["data"].(map[string]any)["fileId"] != "abc" {
		t.Error("decoded payload mismatch")
	}
}

func TestDecodeUploadBodyKeepsRawOnFailure(t *testing.T) {
	logger := &recordingLogger{}
	c := New(WithLogger(logger))

	decoded := c.decodeUploadBody("not json at all{", "")

	if decoded != "not json at all{" {
		t.Errorf("decode failure must leave the raw string, got %v", decoded)
	}
	if logger.count("WARN") == 0 {
		t.Error("decode failure should warn")
	}
}

func TestToInt(t *testing.T) {
	if toInt(float64(5)) != 5 || toInt(int(6)) != 6 || toInt(int64(7)) != 7 {
		t.Error("numeric conversions failed")
	}
	if toInt("nope") != 0 || toInt(nil) != 0 {
		t.Error("non-numeric values should map to 0")
	}
}
