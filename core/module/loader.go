package module

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dop251/goja"
	"github.com/google/uuid"

	"github.com/opencursor/editorhost/core/logger"
)

// ErrNotFound is returned when a resolved path does not exist on disk.
var ErrNotFound = errors.New("module: not found")

// compiledModule is a cached, parsed module unit plus its own require
// function, closed over its own path and id so relative requires made
// from inside it resolve correctly.
type compiledModule struct {
	id       string
	path     string
	program  *goja.Program
	exports  goja.Value
	loaded   bool
	loading  bool
}

// Loader resolves specifiers, compiles module source into goja.Programs,
// and caches compiled modules by canonical path. One Loader is associated
// with exactly one goja.Runtime.
type Loader struct {
	mu       sync.Mutex
	resolver *Resolver
	cache    map[string]*compiledModule
	idByPath map[string]string
	pathByID map[string]string
	logger   *slog.Logger
}

// NewLoader builds a Loader that resolves namespaced specifiers against
// configRoot.
func NewLoader(configRoot string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Loader{
		resolver: NewResolver(configRoot),
		cache:    make(map[string]*compiledModule),
		idByPath: make(map[string]string),
		pathByID: make(map[string]string),
		logger:   log,
	}
}

// Load compiles and evaluates the module at entryPath (and, transitively,
// everything it requires) inside rt, returning the entry module's exports
// object. Requiring an already-cached path short-circuits compilation and
// returns its cached exports.
func (l *Loader) Load(rt *goja.Runtime, entryPath string) (goja.Value, error) {
	canon, err := canonicalize(entryPath)
	if err != nil {
		canon = entryPath
	}
	return l.require(rt, canon)
}

// ModulePath returns the canonical path associated with an opaque module id,
// used by resolver callbacks (the binding layer) to trace back to a
// referrer.
func (l *Loader) ModulePath(id string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pathByID[id]
	return p, ok
}

func (l *Loader) require(rt *goja.Runtime, canon string) (goja.Value, error) {
	l.mu.Lock()
	if mod, ok := l.cache[canon]; ok {
		if mod.loading {
			// Cyclic require: return the partially-populated exports
			// object rather than recursing forever.
			l.mu.Unlock()
			return mod.exports, nil
		}
		l.mu.Unlock()
		return mod.exports, nil
	}

	mod := &compiledModule{
		id:      uuid.NewString(),
		path:    canon,
		loading: true,
		exports: rt.NewObject(),
	}
	l.cache[canon] = mod
	l.idByPath[canon] = mod.id
	l.pathByID[mod.id] = canon
	l.mu.Unlock()

	program, err := l.compile(canon)
	if err != nil {
		l.mu.Lock()
		delete(l.cache, canon)
		l.mu.Unlock()
		return nil, err
	}
	mod.program = program

	if err := l.evaluate(rt, mod); err != nil {
		l.mu.Lock()
		delete(l.cache, canon)
		l.mu.Unlock()
		return nil, err
	}

	l.mu.Lock()
	mod.loading = false
	mod.loaded = true
	l.mu.Unlock()

	return mod.exports, nil
}

func (l *Loader) compile(canon string) (*goja.Program, error) {
	src, err := os.ReadFile(canon)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, canon, err)
	}

	wrapped := wrapCommonJS(string(src))
	program, err := goja.Compile(canon, wrapped, false)
	if err != nil {
		return nil, fmt.Errorf("module: compiling %s: %w", canon, err)
	}
	return program, nil
}

func (l *Loader) evaluate(rt *goja.Runtime, mod *compiledModule) error {
	wrapperVal, err := rt.RunProgram(mod.program)
	if err != nil {
		return fmt.Errorf("module: evaluating %s: %w", mod.path, err)
	}
	wrapper, ok := goja.AssertFunction(wrapperVal)
	if !ok {
		return fmt.Errorf("module: %s did not produce a callable module wrapper", mod.path)
	}

	moduleObj := rt.NewObject()
	_ = moduleObj.Set("exports", mod.exports)
	_ = moduleObj.Set("id", mod.id)

	requireFn := func(call goja.FunctionCall) goja.Value {
		specifier := call.Argument(0).String()
		resolved, err := l.resolver.Resolve(specifier, mod.path)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		exports, err := l.require(rt, resolved)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return exports
	}

	_, err = wrapper(goja.Undefined(), moduleObj, mod.exports, rt.ToValue(requireFn))
	if err != nil {
		return fmt.Errorf("module: running %s: %w", mod.path, err)
	}

	if exp := moduleObj.Get("exports"); exp != nil {
		mod.exports = exp
	}

	l.logger.Debug("module loaded", logger.ModuleSpecifier(mod.path), logger.Component("module"))
	return nil
}

// wrapCommonJS wraps module source text in a function closure carrying
// module/exports/require, giving each module its own scope.
func wrapCommonJS(src string) string {
	return "(function(module, exports, require) {\n" + src + "\n});"
}
