package modules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ddliu/motto"
	"github.com/robertkrimen/otto"

	"jtl/internal/domain"
)

// Type is the module format hint a caller must supply with every
// import. There is no default: an unspecified hint is a programming
// error and fails immediately.
type Type int

const (
	TypeUnspecified Type = iota
	TypeCommonJS
	TypeESModule
)

// ParseType parses a module type name from configuration.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "":
		return TypeUnspecified, nil
	case "commonjs", "cjs":
		return TypeCommonJS, nil
	case "esmodule", "esm", "module", "mjs":
		return TypeESModule, nil
	}
	return TypeUnspecified, fmt.Errorf("unknown module type %q", s)
}

func (t Type) String() string {
	switch t {
	case TypeCommonJS:
		return "commonjs"
	case TypeESModule:
		return "esmodule"
	}
	return "unspecified"
}

// Namespace is the normalized exported surface of a loaded module.
type Namespace struct {
	value  otto.Value
	loader *Loader
}

// Value returns the underlying namespace value.
func (n Namespace) Value() otto.Value { return n.value }

// Get returns a named export, or undefined when the namespace is not
// an object or the export is missing.
func (n Namespace) Get(name string) otto.Value {
	if !n.value.IsObject() {
		return otto.UndefinedValue()
	}
	v, err := n.value.Object().Get(name)
	if err != nil {
		return otto.UndefinedValue()
	}
	return v
}

// Extras exports every key except the excluded ones into a plain Go
// map. Used to carry pass-through metadata from bare-case modules.
func (n Namespace) Extras(exclude ...string) map[string]interface{} {
	if !n.value.IsObject() {
		return nil
	}
	skip := make(map[string]bool, len(exclude)+1)
	skip["__esModule"] = true
	for _, k := range exclude {
		skip[k] = true
	}
	var out map[string]interface{}
	obj := n.value.Object()
	for _, key := range obj.Keys() {
		if skip[key] {
			continue
		}
		v, err := obj.Get(key)
		if err != nil {
			continue
		}
		exported, err := v.Export()
		if err != nil {
			continue
		}
		if out == nil {
			out = make(map[string]interface{})
		}
		out[key] = exported
	}
	return out
}

// Loader imports JavaScript files as modules, hiding the
// CommonJS/ES-module format distinction from callers. One Loader owns
// one embedded VM; the CommonJS module cache lives for the Loader's
// lifetime with no invalidation, so repeated imports of the same path
// return the same namespace.
//
// The VM is not safe for concurrent use. All evaluation is serialized
// behind mu while file I/O stays outside it, so concurrent imports
// overlap on I/O only.
type Loader struct {
	vm        *motto.Motto
	mu        sync.Mutex
	esmBundle bool

	esmMu    sync.Mutex
	esmCache map[string]otto.Value
}

// NewLoader creates a Loader. esmBundle declares that the whole bundle
// under test is ES-module output, forcing the modern mechanism for
// every import regardless of per-call hints.
func NewLoader(esmBundle bool) *Loader {
	vm := motto.New()
	registerBuiltins(vm)
	return &Loader{
		vm:        vm,
		esmBundle: esmBundle,
		esmCache:  make(map[string]otto.Value),
	}
}

// Import loads the file path (or bare module name) as a module. typ is
// required. The modern asynchronous mechanism is used when the loader
// was built for an ES-module bundle, the hint says ES module, or the
// file extension is unambiguously modern (.mjs); otherwise the legacy
// synchronous require machinery is used. Load failures propagate
// unchanged.
func (l *Loader) Import(ctx context.Context, name string, typ Type) (Namespace, error) {
	if typ == TypeUnspecified {
		return Namespace{}, fmt.Errorf("module type hint is required to import %q", name)
	}

	if l.esmBundle || typ == TypeESModule || filepath.Ext(name) == ".mjs" {
		specifier := name
		if filepath.IsAbs(name) {
			specifier = FileURL(name)
		}
		return l.importModern(ctx, specifier)
	}

	l.mu.Lock()
	v, err := l.vm.Require(name, ".")
	l.mu.Unlock()
	if err != nil {
		return Namespace{}, err
	}
	return l.namespace(v), nil
}

type importResult struct {
	value otto.Value
	err   error
}

// importModern runs the import primitive asynchronously. The specifier
// is either a file:// URL or a bare module name passed through
// unchanged.
func (l *Loader) importModern(ctx context.Context, specifier string) (Namespace, error) {
	ch := make(chan importResult, 1)
	go func() {
		v, err := l.loadModern(specifier)
		ch <- importResult{value: v, err: err}
	}()
	select {
	case <-ctx.Done():
		return Namespace{}, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return Namespace{}, res.err
		}
		return l.namespace(res.value), nil
	}
}

func (l *Loader) loadModern(specifier string) (otto.Value, error) {
	l.esmMu.Lock()
	cached, ok := l.esmCache[specifier]
	l.esmMu.Unlock()
	if ok {
		return cached, nil
	}

	if !IsFileURL(specifier) {
		// Bare specifiers resolve through the module registry.
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.vm.Require(specifier, ".")
	}

	path, err := FilePath(specifier)
	if err != nil {
		return otto.Value{}, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return otto.Value{}, err
	}

	loader := motto.CreateLoaderFromSource(RewriteESM(string(source)), path)

	l.mu.Lock()
	v, err := loader(l.vm)
	l.mu.Unlock()
	if err != nil {
		return otto.Value{}, err
	}

	l.esmMu.Lock()
	l.esmCache[specifier] = v
	l.esmMu.Unlock()
	return v, nil
}

// namespace normalizes a loaded module value: a namespace carrying a
// defined default export unwraps to that export, so one call site
// handles both module formats uniformly.
func (l *Loader) namespace(v otto.Value) Namespace {
	if v.IsObject() {
		if d, err := v.Object().Get("default"); err == nil && d.IsDefined() {
			v = d
		}
	}
	return Namespace{value: v, loader: l}
}

// Call invokes a JS function value with VM access serialized.
func (l *Loader) Call(fn otto.Value, this otto.Value, args ...interface{}) (otto.Value, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn.Call(this, args...)
}

// WithVM runs f with exclusive access to the underlying VM. Callbacks
// invoked by f run on the caller's goroutine and must not re-enter the
// Loader's locking methods.
func (l *Loader) WithVM(f func(vm *motto.Motto) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return f(l.vm)
}

// RunFunc wraps a JS function export as a test-case run operation.
func (l *Loader) RunFunc(fn otto.Value) domain.RunFunc {
	return func(ctx context.Context, runtime map[string]interface{}) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := l.Call(fn, otto.UndefinedValue(), runtime)
		return err
	}
}

// SkipFunc wraps a module-provided skip export. A function export is
// evaluated on demand; anything else is coerced to a boolean.
func (l *Loader) SkipFunc(v otto.Value) domain.SkipFunc {
	if !v.IsDefined() {
		return nil
	}
	if v.IsFunction() {
		return func() (bool, error) {
			res, err := l.Call(v, otto.UndefinedValue())
			if err != nil {
				return false, err
			}
			return res.ToBoolean()
		}
	}
	skip, _ := v.ToBoolean()
	return func() (bool, error) { return skip, nil }
}
