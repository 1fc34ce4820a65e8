package plugin

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brettbedarf/dirindex"
	"github.com/brettbedarf/dirindex/config"
	"github.com/puzpuzpuz/xsync/v4"
)

// Policy decides when the plugin intercepts a request and how a top-level
// filesystem failure (missing target, failed enumeration) is surfaced.
type Policy interface {
	Name() string

	// Eligible reports whether the plugin should try to list rc at all
	Eligible(rc *dirindex.RequestContext) bool

	// Failed converts a top-level filesystem error into the hook's return values
	Failed(err error) (*dirindex.Response, error)
}

// Direct returns the policy that intercepts every request resolving to a
// directory, whatever the host's own routing outcome, and silently declines
// on filesystem failures.
func Direct() Policy {
	return directPolicy{}
}

type directPolicy struct{}

func (directPolicy) Name() string { return config.PolicyDirect }

func (directPolicy) Eligible(*dirindex.RequestContext) bool { return true }

func (directPolicy) Failed(error) (*dirindex.Response, error) { return nil, nil }

// Fallback returns the policy that only intercepts requests the host has
// already failed to resolve (404) and whose host path is the root or ends in
// indexDocument. Filesystem failures are propagated to the host.
func Fallback(indexDocument string) Policy {
	return fallbackPolicy{indexDocument: indexDocument}
}

type fallbackPolicy struct {
	indexDocument string
}

func (fallbackPolicy) Name() string { return config.PolicyFallback }

func (p fallbackPolicy) Eligible(rc *dirindex.RequestContext) bool {
	if !rc.NotFound() {
		return false
	}
	return rc.Path == "/" || strings.HasSuffix(rc.Path, "/"+p.indexDocument)
}

func (fallbackPolicy) Failed(err error) (*dirindex.Response, error) { return nil, err }

// PolicyFactory builds a Policy from the host configuration
type PolicyFactory func(cfg dirindex.HostConfig) Policy

// Registry maps policy names to factories. Safe for concurrent use.
type Registry struct {
	factories *xsync.Map[string, PolicyFactory]
}

func NewRegistry() *Registry {
	return &Registry{factories: xsync.NewMap[string, PolicyFactory]()}
}

// Register ties a factory to name. The first registration of a name wins;
// it returns false if name was already registered.
func (r *Registry) Register(name string, factory PolicyFactory) bool {
	_, loaded := r.factories.LoadOrStore(name, factory)
	return !loaded
}

// NewPolicy builds the policy registered under name
func (r *Registry) NewPolicy(name string, cfg dirindex.HostConfig) (Policy, error) {
	factory, ok := r.factories.Load(name)
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (registered: %s)", name, strings.Join(r.Names(), ", "))
	}
	return factory(cfg), nil
}

// Names returns the registered policy names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, r.factories.Size())
	r.factories.Range(func(name string, _ PolicyFactory) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

// RegisterBuiltins registers all built-in policies by default
// or only the specific ones if names are provided
func RegisterBuiltins(r *Registry, names ...string) {
	if len(names) == 0 {
		names = append(names, config.PolicyDirect, config.PolicyFallback)
	}

	for _, name := range names {
		switch name {
		case config.PolicyDirect:
			r.Register(name, func(dirindex.HostConfig) Policy { return Direct() })
		case config.PolicyFallback:
			r.Register(name, func(cfg dirindex.HostConfig) Policy { return Fallback(cfg.IndexDocument) })
		}
	}
}
