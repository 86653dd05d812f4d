package binding

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dop251/goja"
)

// Source classifies where an installer came from, recorded on
// editor.__sources for tooling introspection.
type Source string

const (
	SourceNative Source = "native"
	SourceScript Source = "script"
)

// Install attaches properties/methods to editorObj, given the runtime and
// an EditorContext value supplied by the caller (opaque to this package).
type Install func(rt *goja.Runtime, editorObj *goja.Object, editorCtx any) error

type entry struct {
	name    string
	install Install
	source  Source
}

// Registry is a catalog of capability installers.
// Registration order is preserved and determines apply order.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string
}

// NewRegistry builds an empty Registry. Most processes want exactly one;
// the zero value is not usable.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds or replaces an installer under name, recording its source.
// Registering under an existing name replaces it in place without changing
// its position in apply order.
func (r *Registry) Register(name string, install Install, source Source) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = &entry{name: name, install: install, source: source}
}

// ApplyAll invokes every installer, in registration order, against
// editorObj. The first error aborts and is returned with the offending
// installer's name.
func (r *Registry) ApplyAll(rt *goja.Runtime, editorObj *goja.Object, editorCtx any) error {
	r.mu.Lock()
	names := append([]string(nil), r.order...)
	r.mu.Unlock()

	for _, name := range names {
		if err := r.apply(rt, editorObj, editorCtx, name); err != nil {
			return err
		}
	}
	r.recordSources(editorObj)
	return nil
}

func (r *Registry) apply(rt *goja.Runtime, editorObj *goja.Object, editorCtx any, name string) error {
	r.mu.Lock()
	e, ok := r.entries[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("binding: no installer registered as %q", name)
	}
	if err := e.install(rt, editorObj, editorCtx); err != nil {
		return fmt.Errorf("binding: installer %q failed: %w", name, err)
	}
	return nil
}

// ReloadBinding deletes name's property on editorObj (if it set one with
// that exact key) and re-invokes its installer.
func (r *Registry) ReloadBinding(rt *goja.Runtime, editorObj *goja.Object, editorCtx any, name string) error {
	editorObj.Delete(name)
	return r.apply(rt, editorObj, editorCtx, name)
}

// ReloadAll rebuilds editorObj from scratch: every own property is removed,
// then every installer is reapplied in registration order.
func (r *Registry) ReloadAll(rt *goja.Runtime, editorObj *goja.Object, editorCtx any) error {
	for _, key := range editorObj.Keys() {
		editorObj.Delete(key)
	}
	return r.ApplyAll(rt, editorObj, editorCtx)
}

// Names returns registered installer names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) recordSources(editorObj *goja.Object) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string(nil), r.order...)
	sort.Strings(names)

	sources := make(map[string]string, len(names))
	for _, name := range names {
		if e, ok := r.entries[name]; ok {
			sources[name] = string(e.source)
		}
	}
	_ = editorObj.Set("__sources", sources)
}
