package awsclient

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Deferred is the minimal contract for a caller-supplied future
// implementation. Implementations must tolerate at most one completion
// call.
type Deferred interface {
	Resolve(creds aws.Credentials)
	Reject(err error)
}

// DeferredFactory constructs a Deferred for each asynchronous result.
type DeferredFactory func() Deferred

// The promises dependency is deliberately process-wide mutable state with
// last-writer-wins semantics: callers embedding several clients share one
// future implementation.
var (
	promiseMu      sync.Mutex
	promiseFactory DeferredFactory
)

// SetPromisesDependency installs the factory used wherever this module
// returns a deferred result. Passing nil restores the built-in
// channel-backed implementation.
func SetPromisesDependency(factory DeferredFactory) {
	promiseMu.Lock()
	defer promiseMu.Unlock()
	promiseFactory = factory
}

// ResetPromisesDependency restores the built-in implementation. Intended
// for tests.
func ResetPromisesDependency() {
	SetPromisesDependency(nil)
}

func promisesDependency() DeferredFactory {
	promiseMu.Lock()
	defer promiseMu.Unlock()
	if promiseFactory != nil {
		return promiseFactory
	}
	return func() Deferred { return NewCredentialFuture() }
}

// CredentialsDeferred triggers resolution and returns a Deferred built by
// the installed promises dependency; it is completed when resolution
// finishes.
func (s *Settings) CredentialsDeferred(ctx context.Context) Deferred {
	d := promisesDependency()()
	go func() {
		creds, err := s.ResolveCredentials(ctx)
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(creds)
	}()
	return d
}

// CredentialFuture is the built-in Deferred: a channel-backed future with
// a blocking Wait.
type CredentialFuture struct {
	once  sync.Once
	done  chan struct{}
	creds aws.Credentials
	err   error
}

func NewCredentialFuture() *CredentialFuture {
	return &CredentialFuture{done: make(chan struct{})}
}

func (f *CredentialFuture) Resolve(creds aws.Credentials) {
	f.once.Do(func() {
		f.creds = creds
		close(f.done)
	})
}

func (f *CredentialFuture) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Wait blocks until the future completes or ctx is done.
func (f *CredentialFuture) Wait(ctx context.Context) (aws.Credentials, error) {
	select {
	case <-f.done:
		return f.creds, f.err
	case <-ctx.Done():
		return aws.Credentials{}, ctx.Err()
	}
}
