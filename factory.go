package bfront

import (
	"regexp"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Factory creates handlers by name.
type Factory interface {
	// Create returns a new handler instance for the name.
	Create(name string) (Handler, error)
	// Lookup checks that a handler exists for the name without creating it. It fails with [ErrInvalidHandler].
	Lookup(name string) error
}

var handlerName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9:]*$`)

// Registry is a [Factory] that keeps a constructor per handler name. Every Create call returns a fresh
// handler so per-request state never leaks between dispatches.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]func() Handler
}

// NewRegistry inits an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]func() Handler)}
}

// Register adds a handler constructor under name.
func (r *Registry) Register(name string, ctor func() Handler) error {
	if !handlerName.MatchString(name) {
		return errors.Wrapf(ErrInvalidHandler, "handler name %q is invalid", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[name]; exists {
		return errors.Newf("handler with name %q already exists", name)
	}

	r.ctors[name] = ctor
	return nil
}

// RegisterFunc adds a stateless handler function under name.
func (r *Registry) RegisterFunc(name string, fn HandlerFunc) error {
	return r.Register(name, func() Handler { return fn })
}

// MustRegister is a convenience method that panics if registering fails.
func (r *Registry) MustRegister(name string, ctor func() Handler) {
	if err := r.Register(name, ctor); err != nil {
		panic("bfront: " + err.Error())
	}
}

// Names returns the registered handler names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNamesLocked()
}

// Lookup implements [Factory].
func (r *Registry) Lookup(name string) error {
	_, err := r.lookup(name)
	return err
}

// Create implements [Factory].
func (r *Registry) Create(name string) (Handler, error) {
	ctor, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	h := ctor()
	if h == nil {
		return nil, errors.Wrapf(ErrInvalidHandler, "constructor of %q returned nil", name)
	}

	return h, nil
}

func (r *Registry) lookup(name string) (func() Handler, error) {
	if !handlerName.MatchString(name) {
		return nil, errors.Wrapf(ErrInvalidHandler, "handler name %q is invalid", name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.ctors[name]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidHandler, "cannot load handler %q, got: %v", name, r.sortedNamesLocked())
	}

	return ctor, nil
}

func (r *Registry) sortedNamesLocked() []string {
	names := lo.Keys(r.ctors)
	slices.Sort(names)
	return names
}

var _ Factory = &Registry{}
