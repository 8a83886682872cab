package deepmerge

import (
	"reflect"
	"testing"
)

func TestMergeScalarsLaterWins(t *testing.T) {
	dst := map[string]any{"a": 1, "b": "keep"}
	src := map[string]any{"a": 2}

	out := Merge(dst, src)

	if out["a"] != 2 {
		t.Errorf("expected later value to win, got %v", out["a"])
	}
	if out["b"] != "keep" {
		t.Errorf("expected untouched key to survive, got %v", out["b"])
	}
}

func TestMergeNestedMapsRecursively(t *testing.T) {
	dst := map[string]any{"nested": map[string]any{"x": 1, "y": 2}}
	src := map[string]any{"nested": map[string]any{"y": 3, "z": 4}}

	out := Merge(dst, src)

	want := map[string]any{"x": 1, "y": 3, "z": 4}
	if !reflect.DeepEqual(out["nested"], want) {
		t.Errorf("nested merge mismatch: got %v, want %v", out["nested"], want)
	}
}

func TestMergeSlicesReplace(t *testing.T) {
	dst := map[string]any{"list": []any{1, 2, 3}}
	src := map[string]any{"list": []any{9}}

	out := Merge(dst, src)

	if !reflect.DeepEqual(out["list"], []any{9}) {
		t.Errorf("expected slice replacement, got %v", out["list"])
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	dst := map[string]any{"nested": map[string]any{"x": 1}}
	src := map[string]any{"nested": map[string]any{"x": 2}}

	out := Merge(dst, src)
	out["nested"].(map[string]any)["x"] = 99

	if dst["nested"].(map[string]any)["x"] != 1 {
		t.Error("dst was mutated by merge")
	}
	if src["nested"].(map[string]any)["x"] != 2 {
		t.Error("src was mutated by merge")
	}
}

func TestMergeNilDst(t *testing.T) {
	out := Merge(nil, map[string]any{"a": 1})
	if out["a"] != 1 {
		t.Errorf("expected merge into nil dst to work, got %v", out)
	}
}

func TestCloneNil(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("expected nil clone of nil map")
	}
}
