package registry

import "testing"

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	if r.Len() != 5 {
		t.Fatalf("expected 5 default models, got %d", r.Len())
	}
	if !r.Contains(DefaultModel) {
		t.Fatalf("default model %q missing from registry", DefaultModel)
	}
	if r.Contains("gpt-9000") {
		t.Fatalf("unexpected member gpt-9000")
	}
}

func TestNew_SkipsBlankAndDuplicates(t *testing.T) {
	r, err := New([]string{" a ", "", "b", "a", "c"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got := r.Names()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("names=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names=%v, want %v", got, want)
		}
	}
}

func TestNew_EmptyIsError(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty registry")
	}
	if _, err := New([]string{" ", ""}); err == nil {
		t.Fatalf("expected error for blank-only registry")
	}
}

func TestNamesReturnsCopy(t *testing.T) {
	r := Default()
	out := r.Names()
	out[0] = "z"
	if r.Names()[0] != "deepseek-coder-v2" {
		t.Fatalf("registry mutated via returned slice")
	}
}
