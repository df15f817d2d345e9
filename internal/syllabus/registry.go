package syllabus

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
)

//go:embed syllabi/*.yaml
var builtin embed.FS

// Registry holds syllabus versions side by side, keyed by semantic version.
type Registry struct {
	mu       sync.RWMutex
	versions map[string]*Syllabus
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{versions: make(map[string]*Syllabus)}
}

// Register adds a syllabus. Its version must be a valid semantic version
// ("v2.3.0") and must not already be registered.
func (r *Registry) Register(s *Syllabus) error {
	v := semver.Canonical(s.Version())
	if v == "" {
		return fmt.Errorf("%w: version %q is not a semantic version", ErrInvalidSyllabus, s.Version())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.versions[v]; dup {
		return fmt.Errorf("syllabus %s already registered", v)
	}
	r.versions[v] = s
	return nil
}

// Get returns the syllabus for a version. "v2.3" and "v2.3.0" are equivalent.
func (r *Registry) Get(version string) (*Syllabus, error) {
	v := semver.Canonical(normalizeVersion(version))
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.versions[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
	return s, nil
}

// Latest returns the highest registered version.
func (r *Registry) Latest() (*Syllabus, error) {
	versions := r.Versions()
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: registry is empty", ErrUnknownVersion)
	}
	return r.Get(versions[len(versions)-1])
}

// Versions returns all registered versions in ascending semver order.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.versions))
	for v := range r.versions {
		out = append(out, v)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, semver.Compare)
	return out
}

// LoadDir parses every *.yaml, *.yml and *.json file in dir and registers it.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read syllabus dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !isDocument(e.Name()) {
			continue
		}
		s, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Builtin returns a registry holding every syllabus shipped with the binary.
func Builtin() (*Registry, error) {
	r := NewRegistry()
	entries, err := builtin.ReadDir("syllabi")
	if err != nil {
		return nil, fmt.Errorf("read builtin syllabi: %w", err)
	}
	for _, e := range entries {
		data, err := builtin.ReadFile("syllabi/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin syllabus %s: %w", e.Name(), err)
		}
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("builtin syllabus %s: %w", e.Name(), err)
		}
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var defaultSyllabus = sync.OnceValues(func() (*Syllabus, error) {
	r, err := Builtin()
	if err != nil {
		return nil, err
	}
	return r.Latest()
})

// Default returns the latest builtin syllabus. It panics if the embedded
// documents are invalid, which the package tests rule out.
func Default() *Syllabus {
	s, err := defaultSyllabus()
	if err != nil {
		panic(fmt.Sprintf("syllabus: invalid builtin syllabus: %v", err))
	}
	return s
}
