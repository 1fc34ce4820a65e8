package dirindex

import "net/http"

// HostConfig is the subset of host configuration handed to plugins at startup
type HostConfig struct {
	RootDir       string // Physical directory logical paths are resolved against
	IndexDocument string // Host's canonical index document name, i.e. "index.html"
}

// RequestContext describes one in-flight request as seen by the host
type RequestContext struct {
	// URLPath is the decoded logical path the client requested, i.e. "/docs/"
	URLPath string
	// OriginalPath is the undecoded request path as it appeared on the wire
	OriginalPath string
	// Path is the host's current resolution of the request. It differs from
	// URLPath once the host has rewritten a directory request to its index
	// document, i.e. "/docs/index.html"
	Path string
	// Status is the host's response status so far; 0 until the host has
	// attempted its own handling
	Status int
}

// NotFound reports whether the host failed to resolve the request
func (rc *RequestContext) NotFound() bool {
	return rc.Status == http.StatusNotFound
}

// Response is a complete body a plugin returns in place of the host's own handling
type Response struct {
	Status      int // Default http.StatusOK when 0
	ContentType string
	Body        string
}
