package curves

import (
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Davincible/nbconv/pkg/basis"
	"golang.org/x/sync/singleflight"
)

// Registry maps field names to parameters and lazily builds one
// basis.Conversion per field. Concurrent first requests for the same
// field share a single build.
type Registry struct {
	opts     basis.Options
	attempts int

	mu     sync.RWMutex
	fields map[string]Field
	cache  map[string]*basis.Conversion
	roots  map[string]*big.Int

	group singleflight.Group
}

// NewRegistry returns a registry preloaded with Builtin fields.
func NewRegistry(opts basis.Options) *Registry {
	r := &Registry{
		opts:     opts,
		attempts: basis.DefaultAttempts,
		fields:   make(map[string]Field),
		cache:    make(map[string]*basis.Conversion),
		roots:    make(map[string]*big.Int),
	}
	for _, f := range Builtin() {
		r.fields[f.Name] = f
	}
	return r
}

// SetAttempts bounds the generator search for fields without a root.
func (r *Registry) SetAttempts(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = n
}

// Options returns the conversion options applied to every field.
func (r *Registry) Options() basis.Options {
	return r.opts
}

// Register adds or replaces a field. Replacing a field drops its cached
// conversion.
func (r *Registry) Register(f Field) error {
	if err := f.Validate(); err != nil {
		return err
	}

	f.Name = normalize(f.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[f.Name] = f
	delete(r.cache, f.Name)
	delete(r.roots, f.Name)
	return nil
}

// Get returns the parameters of a registered field.
func (r *Registry) Get(name string) (Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.fields[normalize(name)]
	if !ok {
		return Field{}, fmt.Errorf("unknown field '%s'", name)
	}
	return f, nil
}

// List returns all fields ordered by degree, then name.
func (r *Registry) List() []Field {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Field, 0, len(r.fields))
	for _, f := range r.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Degree() != out[j].Degree() {
			return out[i].Degree() < out[j].Degree()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Conversion returns the cached conversion for a field, building it on
// first use.
func (r *Registry) Conversion(name string) (*basis.Conversion, error) {
	key := normalize(name)

	r.mu.RLock()
	conv, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return conv, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		r.mu.RLock()
		conv, ok := r.cache[key]
		attempts := r.attempts
		r.mu.RUnlock()
		if ok {
			return conv, nil
		}

		f, err := r.Get(key)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		conv, root, err := build(f, attempts, r.opts)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		slog.Debug("Built basis conversion",
			"field", f.Name,
			"degree", conv.Degree(),
			"derived_root", f.Root == nil,
			"duration", time.Since(start))

		r.mu.Lock()
		r.cache[key] = conv
		r.roots[key] = root
		r.mu.Unlock()
		return conv, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*basis.Conversion), nil
}

// Root returns the generator in use for a field, deriving it if needed.
func (r *Registry) Root(name string) (*big.Int, error) {
	if _, err := r.Conversion(name); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	root, ok := r.roots[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown field '%s'", name)
	}
	return new(big.Int).Set(root), nil
}

func build(f Field, attempts int, opts basis.Options) (*basis.Conversion, *big.Int, error) {
	poly := f.FieldPolynomial()
	if f.Root != nil {
		conv, err := basis.New(poly, f.Root, opts)
		if err != nil {
			return nil, nil, err
		}
		return conv, f.Root, nil
	}

	root, conv, err := basis.FindGenerator(poly, f.GeneratorSeed(), attempts, opts)
	if err != nil {
		return nil, nil, err
	}
	return conv, root, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
