package backendapi

import "sync"

// inflightRegistry tracks descriptors from immediately before transmission
// until completion, keyed by fingerprint. Two calls with equal fingerprint
// and interception disabled both transmit, so each key holds a list.
type inflightRegistry struct {
	mu      sync.RWMutex
	entries map[string][]*Descriptor
}

func newInflightRegistry() *inflightRegistry {
	return &inflightRegistry{entries: make(map[string][]*Descriptor)}
}

// add registers a descriptor as in flight.
func (r *inflightRegistry) add(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[d.fingerprint] = append(r.entries[d.fingerprint], d)
}

// remove unregisters one descriptor for the fingerprint. It returns false
// when no entry was present, which signals a bookkeeping bug upstream.
func (r *inflightRegistry) remove(d *Descriptor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.entries[d.fingerprint]
	if !ok || len(list) == 0 {
		return false
	}
	if len(list) == 1 {
		delete(r.entries, d.fingerprint)
	} else {
		r.entries[d.fingerprint] = list[:len(list)-1]
	}
	return true
}

// isPending reports whether a call with the same fingerprint is awaiting a
// transport outcome.
func (r *inflightRegistry) isPending(d *Descriptor) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[d.fingerprint]) > 0
}

// countActive returns the number of in-flight calls. With
// excludeSuppressedLoading set, calls that opted out of the loading indicator
// are not counted, so they never keep the indicator visible on their own.
func (r *inflightRegistry) countActive(excludeSuppressedLoading bool) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.entries {
		for _, d := range list {
			if excludeSuppressedLoading && !d.settings.showLoading {
				continue
			}
			n++
		}
	}
	return n
}
