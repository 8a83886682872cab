// Package deepmerge provides the recursive map merge used when combining
// configuration layers: nested maps merge key by key, slices are replaced
// wholesale, scalars are overwritten by the later layer. All inputs are cloned
// so stored layers are never aliased by a merge result.
package deepmerge

// Merge combines src into dst and returns a new map. Neither argument is
// mutated. Later (src) values win on scalar conflicts; nested maps merge
// recursively; slices replace rather than concatenate.
func Merge(dst, src map[string]any) map[string]any {
	out := Clone(dst)
	if out == nil {
		out = make(map[string]any, len(src))
	}
	for k, sv := range src {
		if dm, ok := out[k].(map[string]any); ok {
			if sm, ok := sv.(map[string]any); ok {
				out[k] = Merge(dm, sm)
				continue
			}
		}
		out[k] = cloneValue(sv)
	}
	return out
}

// Clone returns a deep copy of m, or nil when m is nil.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
