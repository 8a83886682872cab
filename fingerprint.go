package backendapi

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// fingerprintFor derives the stable identity string for a request from its
// method, original URL and serialized body. Serialization failures degrade to
// a best-effort string rendering with a warning; fingerprinting never aborts a
// call. The digest only needs to be stable within one process, so FNV-64a is
// enough.
func fingerprintFor(method, originalURL string, data any, logger Logger) string {
	h := fnv.New64a()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(originalURL))
	h.Write([]byte{0})

	if data != nil {
		body, err := json.Marshal(data)
		if err != nil {
			if logger != nil {
				logger.Warn("fingerprint: body serialization failed, using fallback rendering", "error", err)
			}
			body = []byte(fmt.Sprintf("%v", data))
		}
		h.Write(body)
	}

	return fmt.Sprintf("%x", h.Sum64())
}
