// Package dirindex contains the contract between a host web server and the
// directory index plugin: the plugin lifecycle hooks, the per-request context
// the host hands to a plugin and the response a plugin may hand back.
package dirindex

import "context"

// Plugin is implemented by anything the host runs inside its request pipeline.
type Plugin interface {
	// Name identifies the plugin in host logs
	Name() string

	// ServerStart is invoked once at host startup before any request is served
	ServerStart(cfg HostConfig) error

	// Serve is invoked for each request, possibly more than once per request
	// (see [RequestContext.Status]). It returns one of:
	//   - a non-nil Response to short-circuit the host's own handling
	//   - nil, nil to decline and let the host continue
	//   - a non-nil error the host renders with its error convention
	Serve(ctx context.Context, rc *RequestContext) (*Response, error)
}
