package backendapi

import "encoding/json"

// DefaultNormalizer assumes the backend already returns the canonical
// {status, data, statusInfo} shape and projects it onto an Envelope. Bodies
// that do not look canonical become the envelope's data with status 0, which
// keeps the envelope invariant for backends returning bare payloads.
func DefaultNormalizer(d *Descriptor, body any) Envelope {
	switch v := body.(type) {
	case Envelope:
		return v
	case *Envelope:
		if v != nil {
			return *v
		}
		return Envelope{}
	case map[string]any:
		if _, ok := v["status"]; ok {
			return envelopeFromMap(v)
		}
		return Envelope{Data: body}
	default:
		return Envelope{Data: body}
	}
}

func envelopeFromMap(m map[string]any) Envelope {
	env := Envelope{
		Status: toInt(m["status"]),
		Data:   m["data"],
	}
	if info, ok := m["statusInfo"].(map[string]any); ok {
		if msg, ok := info["message"].(string); ok {
			env.StatusInfo.Message = msg
		}
		env.StatusInfo.Detail = info["detail"]
	}
	return env
}

func toInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

// decodeUploadBody decodes the string body delivered by upload transports.
// Decode failure is logged and leaves the raw string in place rather than
// failing the call.
func (c *Client) decodeUploadBody(body any, requestID string) any {
	raw, ok := body.(string)
	if !ok {
		return body
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		if c.logger != nil {
			c.logger.Warn("upload response body decode failed, keeping raw string",
				"requestID", requestID, "error", err)
		}
		return raw
	}
	return decoded
}

// normalizerFor returns the per-call normalizer override, falling back to the
// client's normalizer.
func (c *Client) normalizerFor(d *Descriptor) Normalizer {
	if d.settings.normalizer != nil {
		return d.settings.normalizer
	}
	if c.normalizer != nil {
		return c.normalizer
	}
	return DefaultNormalizer
}
