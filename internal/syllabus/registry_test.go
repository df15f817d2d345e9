package syllabus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltin(t *testing.T) {
	r, err := Builtin()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	versions := r.Versions()
	if len(versions) == 0 {
		t.Fatal("expected at least one builtin syllabus")
	}
	latest, err := r.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Version() != versions[len(versions)-1] {
		t.Errorf("Latest: got %q, want %q", latest.Version(), versions[len(versions)-1])
	}
}

func TestRegistry_SemverOrdering(t *testing.T) {
	r := NewRegistry()
	for _, v := range []string{"v2.10.0", "v2.3.0", "v10.0.0", "v2.9.1"} {
		spec := makeMinimalValidSpec()
		spec.Version = v
		s, err := New(spec)
		if err != nil {
			t.Fatalf("New(%s): %v", v, err)
		}
		if err := r.Register(s); err != nil {
			t.Fatalf("Register(%s): %v", v, err)
		}
	}

	want := []string{"v2.3.0", "v2.9.1", "v2.10.0", "v10.0.0"}
	got := r.Versions()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Versions: got %v, want %v", got, want)
	}

	latest, err := r.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Version() != "v10.0.0" {
		t.Errorf("Latest: got %q", latest.Version())
	}
}

func TestRegistry_GetNormalizesVersion(t *testing.T) {
	r := NewRegistry()
	spec := makeMinimalValidSpec()
	spec.Version = "v2.3.0"
	s, _ := New(spec)
	if err := r.Register(s); err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"v2.3.0", "v2.3", "2.3", " 2.3.0 "} {
		if _, err := r.Get(v); err != nil {
			t.Errorf("Get(%q): %v", v, err)
		}
	}
	if _, err := r.Get("v9.9.9"); !errors.Is(err, ErrUnknownVersion) {
		t.Errorf("Get(v9.9.9): want ErrUnknownVersion, got %v", err)
	}
}

func TestRegistry_RejectsDuplicatesAndBadVersions(t *testing.T) {
	r := NewRegistry()
	spec := makeMinimalValidSpec()
	s, _ := New(spec)
	if err := r.Register(s); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(s); err == nil {
		t.Error("expected duplicate registration to fail")
	}

	spec.Version = "latest"
	bad, _ := New(spec)
	if err := r.Register(bad); !errors.Is(err, ErrInvalidSyllabus) {
		t.Errorf("want ErrInvalidSyllabus for non-semver version, got %v", err)
	}
}

func TestRegistry_EmptyLatest(t *testing.T) {
	if _, err := NewRegistry().Latest(); !errors.Is(err, ErrUnknownVersion) {
		t.Errorf("want ErrUnknownVersion, got %v", err)
	}
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte(tinyDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if _, err := r.Get("v1.0.0"); err != nil {
		t.Errorf("Get after LoadDir: %v", err)
	}
}
