package backendapi

import "testing"

func makeDescriptor(fingerprint string, showLoading bool) *Descriptor {
	cs := defaultCallSettings()
	cs.showLoading = showLoading
	return &Descriptor{fingerprint: fingerprint, settings: cs}
}

func TestInflightAddRemove(t *testing.T) {
	r := newInflightRegistry()
	d := makeDescriptor("fp1", true)

	if r.isPending(d) {
		t.Error("fresh registry should have no pending entries")
	}

	r.add(d)
	if !r.isPending(d) {
		t.Error("descriptor should be pending after add")
	}

	if !r.remove(d) {
		t.Error("remove of a present entry should succeed")
	}
	if r.isPending(d) {
		t.Error("descriptor should not be pending after remove")
	}
}

func TestInflightRemoveAbsentSignalsBug(t *testing.T) {
	r := newInflightRegistry()
	if r.remove(makeDescriptor("missing", true)) {
		t.Error("removing an absent fingerprint must return false")
	}
}

func TestInflightDuplicateFingerprints(t *testing.T) {
	r := newInflightRegistry()
	d1 := makeDescriptor("same", true)
	d2 := makeDescriptor("same", true)

	r.add(d1)
	r.add(d2)

	if got := r.countActive(false); got != 2 {
		t.Errorf("expected 2 active entries, got %d", got)
	}

	if !r.remove(d1) {
		t.Error("first remove should succeed")
	}
	if !r.isPending(d2) {
		t.Error("second entry should remain pending")
	}
	if !r.remove(d2) {
		t.Error("second remove should succeed")
	}
	if r.remove(d2) {
		t.Error("third remove must fail, both entries already released")
	}
}

func TestInflightCountActiveExcludesSuppressed(t *testing.T) {
	r := newInflightRegistry()
	r.add(makeDescriptor("a", true))
	r.add(makeDescriptor("b", false))
	r.add(makeDescriptor("c", false))

	if got := r.countActive(false); got != 3 {
		t.Errorf("expected 3 total, got %d", got)
	}
	if got := r.countActive(true); got != 1 {
		t.Errorf("expected 1 visible, got %d", got)
	}
}
