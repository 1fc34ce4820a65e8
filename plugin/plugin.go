// Package plugin adapts the listing builder to the host plugin contract.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"github.com/brettbedarf/dirindex"
	"github.com/brettbedarf/dirindex/config"
	"github.com/brettbedarf/dirindex/listing"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
)

// ErrNotStarted is returned by Serve when the host never invoked ServerStart
var ErrNotStarted = errors.New("directory index: plugin not started")

// Options configure a Plugin. Zero values select the defaults.
type Options struct {
	Name   string      // Default config.DefaultPluginName
	Policy Policy      // Default Direct()
	FS     dirindex.FS // Default the OS filesystem
}

// Plugin serves an HTML index for requests that resolve to a directory
// under the root directory received at startup.
//
// A Plugin holds no mutable state besides the root set once by ServerStart,
// so one instance serves concurrent requests without locking.
type Plugin struct {
	name   string
	policy Policy
	fs     dirindex.FS
	root   atomic.Pointer[string]
}

var _ dirindex.Plugin = (*Plugin)(nil)

func New(opts Options) *Plugin {
	p := &Plugin{name: opts.Name, policy: opts.Policy, fs: opts.FS}
	if p.name == "" {
		p.name = config.DefaultPluginName
	}
	if p.policy == nil {
		p.policy = Direct()
	}
	if p.fs == nil {
		p.fs = osfs.New("/")
	}
	return p
}

func (p *Plugin) Name() string {
	return p.name
}

// Policy returns the interception policy in use
func (p *Plugin) Policy() Policy {
	return p.policy
}

// ServerStart records the physical root directory, made absolute.
// It may only succeed once per Plugin.
func (p *Plugin) ServerStart(cfg dirindex.HostConfig) error {
	if cfg.RootDir == "" {
		return errors.New("directory index: empty root directory")
	}
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return fmt.Errorf("directory index: resolving root %q: %w", cfg.RootDir, err)
	}
	if !p.root.CompareAndSwap(nil, &root) {
		return errors.New("directory index: already started")
	}
	return nil
}

// Serve lists the directory rc.URLPath resolves to, if the policy allows it.
// A path that is not a directory is declined. Filesystem failures on the
// target itself are handed to the policy; failures on individual entries
// only drop those entries.
func (p *Plugin) Serve(ctx context.Context, rc *dirindex.RequestContext) (*dirindex.Response, error) {
	root := p.root.Load()
	if root == nil {
		return nil, ErrNotStarted
	}
	logger := zerolog.Ctx(ctx).With().Str("plugin", p.name).Str("policy", p.policy.Name()).Logger()

	if !p.policy.Eligible(rc) {
		logger.Trace().Str("path", rc.Path).Int("status", rc.Status).Msg("Not eligible")
		return nil, nil
	}

	// No sanitization here; the host authorizes the path before calling us
	physical := filepath.Join(*root, filepath.FromSlash(rc.URLPath))
	info, err := p.fs.Stat(physical)
	if err != nil {
		return p.policy.Failed(err)
	}
	if !info.IsDir() {
		logger.Trace().Str("physical", physical).Msg("Not a directory")
		return nil, nil
	}

	infos, err := p.fs.ReadDir(physical)
	if err != nil {
		return p.policy.Failed(err)
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		names = append(names, fi.Name())
	}

	l := listing.Build(names, p.statFunc(physical))
	logger.Debug().
		Str("physical", physical).
		Int("dirs", len(l.Dirs)).
		Int("files", len(l.Files)).
		Int("dropped", len(names)-l.Len()).
		Msg("Rendering directory index")

	return &dirindex.Response{
		Status:      http.StatusOK,
		ContentType: listing.ContentType,
		Body:        listing.RenderListing(rc.URLPath, l),
	}, nil
}

// statFunc classifies entries of dir, following symlinks
func (p *Plugin) statFunc(dir string) listing.StatFunc {
	return func(name string) (listing.Kind, error) {
		info, err := p.fs.Stat(filepath.Join(dir, name))
		if err != nil {
			return listing.KindFile, err
		}
		if info.IsDir() {
			return listing.KindDirectory, nil
		}
		return listing.KindFile, nil
	}
}
