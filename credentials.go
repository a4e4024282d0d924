package awsclient

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/cloudward/aws-sdk-go-client/v2/internal/credsource"
	"github.com/cloudward/aws-sdk-go-client/v2/internal/httpclient"
	"github.com/cloudward/aws-sdk-go-client/v2/internal/options"
	"github.com/cloudward/aws-sdk-go-client/v2/logging"
)

// ResolveCredentials returns the cached credentials, or walks the source
// chain to obtain them. Concurrent calls while a resolution is in flight
// join that attempt instead of starting their own; the chain is walked at
// most once per batch and every caller receives the same outcome. Failure
// resets the resolver so a later call can retry.
func (s *Settings) ResolveCredentials(ctx context.Context) (aws.Credentials, error) {
	ctx = logging.RegisterLogger(ctx, s.Logger())
	return s.resolver.resolve(ctx, s.walkChain)
}

// GetCredentials triggers resolution and delivers the outcome through
// callback: nil on success, the chain's error on failure. It never fails
// synchronously.
func (s *Settings) GetCredentials(ctx context.Context, callback func(error)) {
	go func() {
		_, err := s.ResolveCredentials(ctx)
		callback(err)
	}()
}

// InvalidateCredentials discards cached credentials, forcing the next
// resolution to walk the chain again.
func (s *Settings) InvalidateCredentials() {
	s.resolver.invalidate()
}

func (s *Settings) walkChain(ctx context.Context) (aws.Credentials, error) {
	view := s.opts.Snapshot()

	s.mu.Lock()
	assumeRole := s.assumeRole
	s.mu.Unlock()

	creds, err := credsource.Walk(ctx, s.chain(view))
	if err != nil {
		return aws.Credentials{}, err
	}

	if assumeRole != nil {
		region, _ := view.Region()
		creds, err = credsource.AssumeRoleCredentials(ctx, creds, region, *assumeRole, s.transport(view))
		if err != nil {
			return aws.Credentials{}, err
		}
	}

	return creds, nil
}

// chain builds the ordered source list for one resolution attempt from a
// configuration snapshot.
func (s *Settings) chain(view options.View) []credsource.Source {
	var sources []credsource.Source

	if creds, ok := view.Credentials(); ok {
		sources = append(sources, credsource.ValueSource{Credentials: creds})
	}
	if co, ok := view.CredentialsOptions(); ok {
		sources = append(sources, credsource.StaticSource{Options: co})
	}

	sources = append(sources,
		credsource.EnvSource{},
		credsource.SharedFileSource{},
		credsource.IMDSSource{HTTPClient: s.transport(view)},
	)
	return sources
}

func (s *Settings) transport(view options.View) *http.Client {
	client, err := httpclient.New(view.HTTPOptions())
	if err != nil {
		return nil
	}
	return client
}

// resolver state machine: Unresolved -> Resolving -> Resolved on success,
// or back to Unresolved on failure so the next call retries.
type credentialState int

const (
	credentialStateUnresolved credentialState = iota
	credentialStateResolving
	credentialStateResolved
)

type credentialOutcome struct {
	creds aws.Credentials
	err   error
}

type credentialResolver struct {
	mu      sync.Mutex
	state   credentialState
	cached  aws.Credentials
	waiters []chan credentialOutcome

	// gen increments on every invalidation. A walk commits its result to
	// the cache only if no invalidation landed while it was in flight.
	gen uint64
}

func (r *credentialResolver) resolve(ctx context.Context, walk func(context.Context) (aws.Credentials, error)) (aws.Credentials, error) {
	r.mu.Lock()

	if r.state == credentialStateResolved {
		if !r.cached.Expired() {
			creds := r.cached
			r.mu.Unlock()
			return creds, nil
		}
		// Expired cache: fall through and resolve again.
		r.state = credentialStateUnresolved
	}

	if r.state == credentialStateResolving {
		ch := make(chan credentialOutcome, 1)
		r.waiters = append(r.waiters, ch)
		r.mu.Unlock()

		select {
		case out := <-ch:
			return out.creds, out.err
		case <-ctx.Done():
			// Abandoning a shared attempt does not cancel it; the walk
			// still completes and populates the cache.
			return aws.Credentials{}, ctx.Err()
		}
	}

	r.state = credentialStateResolving
	gen := r.gen
	r.mu.Unlock()

	// Detach from this caller's cancellation: once started, resolution
	// runs to completion so the outcome is shared with every waiter.
	creds, err := walk(context.WithoutCancel(ctx))

	r.mu.Lock()
	if err == nil && gen == r.gen {
		r.state = credentialStateResolved
		r.cached = creds
	} else {
		// Failed, or invalidated mid-walk: callers in this batch still get
		// the outcome, but the next resolve walks the chain again.
		r.state = credentialStateUnresolved
		r.cached = aws.Credentials{}
	}
	waiters := r.waiters
	r.waiters = nil
	r.mu.Unlock()

	for _, ch := range waiters {
		ch <- credentialOutcome{creds: creds, err: err}
	}
	return creds, err
}

func (r *credentialResolver) invalidate() {
	r.mu.Lock()
	r.gen++
	if r.state == credentialStateResolved {
		r.state = credentialStateUnresolved
		r.cached = aws.Credentials{}
	}
	r.mu.Unlock()
}
