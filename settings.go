package awsclient

import (
	"runtime"
	"sync"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/go-homedir"

	"github.com/cloudward/aws-sdk-go-client/v2/internal/credsource"
	"github.com/cloudward/aws-sdk-go-client/v2/internal/options"
	"github.com/cloudward/aws-sdk-go-client/v2/logging"
	"github.com/cloudward/aws-sdk-go-client/v2/retry"
	"github.com/cloudward/aws-sdk-go-client/v2/validation"
)

// AssumeRole configures a role assumed on top of the base credential chain.
type AssumeRole = credsource.AssumeRole

// filesystemSupported is false on runtimes without a real filesystem,
// where configuration documents cannot be loaded from a path.
var filesystemSupported = runtime.GOOS != "js"

// Settings owns the option set and the credential resolver for one client
// configuration. A single Settings value is shared by every in-flight
// request of the clients built on it; updates are atomic relative to reads.
type Settings struct {
	opts     *options.Set
	resolver *credentialResolver

	mu         sync.Mutex // guards assumeRole against in-flight resolutions
	assumeRole *credsource.AssumeRole
}

// New seeds a Settings with built-in defaults and overlays opts under the
// same rules as Update with unknown keys disallowed. No I/O is performed.
func New(opts map[string]any) (*Settings, error) {
	set, err := options.New(opts, false)
	if err != nil {
		return nil, err
	}
	return &Settings{
		opts:     set,
		resolver: &credentialResolver{},
	}, nil
}

// Update overlays opts on the current configuration. The batch is checked
// in full before anything is written: an unknown key (unless
// allowUnknownKeys is set) or a domain violation rejects the whole update
// with no observable mutation.
func (s *Settings) Update(opts map[string]any, allowUnknownKeys bool) error {
	if err := s.opts.Apply(opts, allowUnknownKeys); err != nil {
		return err
	}

	// New credential material obsoletes whatever the resolver cached.
	if _, ok := opts[string(options.KeyCredentials)]; ok {
		s.resolver.invalidate()
	}
	return nil
}

// LoadFromPath reads a JSON document and rebuilds the configuration from
// defaults plus the document: overrides applied before the load do not
// survive it. Loading the same document twice yields the same result.
func (s *Settings) LoadFromPath(path string) error {
	if !filesystemSupported {
		return options.UnsupportedEnvironmentError{Operation: "LoadFromPath"}
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return options.ConfigLoadError{Path: path, Err: err}
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(expanded), kjson.Parser()); err != nil {
		return options.ConfigLoadError{Path: path, Err: err}
	}

	if err := s.opts.Reset(k.Raw()); err != nil {
		return err
	}

	s.resolver.invalidate()
	return nil
}

// Snapshot returns a point-in-time view of the configuration. Requests
// read their options from a snapshot, never from live state.
func (s *Settings) Snapshot() options.View {
	return s.opts.Snapshot()
}

// SetAssumeRole configures (or clears, with nil) a role assumed after the
// base chain resolves. Cached credentials are invalidated.
func (s *Settings) SetAssumeRole(ar *AssumeRole) {
	s.mu.Lock()
	s.assumeRole = ar
	s.mu.Unlock()

	s.resolver.invalidate()
}

// RetryPolicy returns the delay policy for failed requests, derived from
// retryDelayOptions.
func (s *Settings) RetryPolicy() retry.Policy {
	return retry.FromDelayOptions(s.opts.Snapshot().RetryDelay())
}

// ParamValidation returns the effective validation toggle set applied to
// outgoing request parameters.
func (s *Settings) ParamValidation() validation.Toggles {
	return validation.EffectiveToggles(s.opts.Snapshot().ParamValidation())
}

// Logger returns the configured logger, or a discard logger when none was
// configured.
func (s *Settings) Logger() logging.Logger {
	if l, ok := s.opts.Snapshot().Logger(); ok {
		return l
	}
	return logging.NullLogger()
}
