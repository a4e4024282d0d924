package awsclient

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/cloudward/aws-sdk-go-client/v2/servicemocks"
)

func TestResolveCredentials_static(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()

	s, err := New(map[string]any{
		"credentials": map[string]any{
			"accessKeyId":     servicemocks.MockStaticAccessKey,
			"secretAccessKey": servicemocks.MockStaticSecretKey,
		},
	})
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	creds, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != servicemocks.MockStaticAccessKey {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, servicemocks.MockStaticAccessKey)
	}
	if creds.SecretAccessKey != servicemocks.MockStaticSecretKey {
		t.Errorf("SecretAccessKey: got %q, expected %q", creds.SecretAccessKey, servicemocks.MockStaticSecretKey)
	}
}

func TestResolveCredentials_staticPrecedesEnv(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()

	os.Setenv("AWS_ACCESS_KEY_ID", servicemocks.MockEnvAccessKey)
	os.Setenv("AWS_SECRET_ACCESS_KEY", servicemocks.MockEnvSecretKey)

	s, err := New(map[string]any{
		"credentials": map[string]any{
			"accessKeyId":     servicemocks.MockStaticAccessKey,
			"secretAccessKey": servicemocks.MockStaticSecretKey,
		},
	})
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	creds, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != servicemocks.MockStaticAccessKey {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, servicemocks.MockStaticAccessKey)
	}
}

func TestResolveCredentials_env(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()

	os.Setenv("AWS_ACCESS_KEY_ID", servicemocks.MockEnvAccessKey)
	os.Setenv("AWS_SECRET_ACCESS_KEY", servicemocks.MockEnvSecretKey)
	os.Setenv("AWS_SESSION_TOKEN", servicemocks.MockEnvSessionToken)

	s, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	creds, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != servicemocks.MockEnvAccessKey {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, servicemocks.MockEnvAccessKey)
	}
	if creds.SessionToken != servicemocks.MockEnvSessionToken {
		t.Errorf("SessionToken: got %q, expected %q", creds.SessionToken, servicemocks.MockEnvSessionToken)
	}
}

func TestResolveCredentials_sharedCredentialsFile(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()
	os.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	fileName, cleanup, err := servicemocks.WriteTempFile("credentials", servicemocks.MockSharedCredentialsFile)
	if err != nil {
		t.Fatalf("writing temporary credentials file: %s", err)
	}
	defer cleanup()

	os.Setenv("AWS_SHARED_CREDENTIALS_FILE", fileName)

	s, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	creds, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != servicemocks.MockSharedAccessKey {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, servicemocks.MockSharedAccessKey)
	}
}

func TestResolveCredentials_ec2Metadata(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()
	defer servicemocks.AwsMetadataApiMock()()

	s, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	creds, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != servicemocks.MockEc2MetadataAccessKey {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, servicemocks.MockEc2MetadataAccessKey)
	}
}

func TestResolveCredentials_noSources(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()
	os.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	s, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	_, err = s.ResolveCredentials(context.Background())
	if err == nil {
		t.Fatal("expected error, received none")
	}
	if !IsNoCredentialsError(err) {
		t.Fatalf("expected NoCredentialsError, got '%[1]T': %[1]s", err)
	}
}

func TestResolveCredentials_cachedAcrossCalls(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()

	os.Setenv("AWS_ACCESS_KEY_ID", servicemocks.MockEnvAccessKey)
	os.Setenv("AWS_SECRET_ACCESS_KEY", servicemocks.MockEnvSecretKey)

	s, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	first, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	// A later environment change is invisible until invalidation.
	os.Setenv("AWS_ACCESS_KEY_ID", "ChangedAccessKey")

	second, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if second.AccessKeyID != first.AccessKeyID {
		t.Errorf("expected cached credentials, got %q after %q", second.AccessKeyID, first.AccessKeyID)
	}

	s.InvalidateCredentials()

	third, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if third.AccessKeyID != "ChangedAccessKey" {
		t.Errorf("expected fresh credentials after invalidation, got %q", third.AccessKeyID)
	}
}

func TestUpdate_credentialsInvalidateCache(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()

	s, err := New(map[string]any{
		"credentials": map[string]any{
			"accessKeyId":     servicemocks.MockStaticAccessKey,
			"secretAccessKey": servicemocks.MockStaticSecretKey,
		},
	})
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	if _, err := s.ResolveCredentials(context.Background()); err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	err = s.Update(map[string]any{
		"credentials": map[string]any{
			"accessKeyId":     "ReplacementAccessKey",
			"secretAccessKey": "ReplacementSecretKey",
		},
	}, false)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	creds, err := s.ResolveCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != "ReplacementAccessKey" {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, "ReplacementAccessKey")
	}
}

func TestGetCredentials_callback(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()

	s, err := New(map[string]any{
		"credentials": map[string]any{
			"accessKeyId":     servicemocks.MockStaticAccessKey,
			"secretAccessKey": servicemocks.MockStaticSecretKey,
		},
	})
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	done := make(chan error, 1)
	s.GetCredentials(context.Background(), func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestGetCredentials_callbackError(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()
	os.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	s, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	done := make(chan error, 1)
	s.GetCredentials(context.Background(), func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		if !IsNoCredentialsError(err) {
			t.Fatalf("expected NoCredentialsError, got '%[1]T': %[1]s", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestSetAssumeRole_concurrentWithResolution(t *testing.T) {
	defer servicemocks.UnsetEnv(t)()

	s, err := New(map[string]any{
		"credentials": map[string]any{
			"accessKeyId":     servicemocks.MockStaticAccessKey,
			"secretAccessKey": servicemocks.MockStaticSecretKey,
		},
	})
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			s.SetAssumeRole(nil)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			creds, err := s.ResolveCredentials(context.Background())
			if err != nil {
				t.Errorf("unexpected '%[1]T' error: %[1]s", err)
				return
			}
			if creds.AccessKeyID != servicemocks.MockStaticAccessKey {
				t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, servicemocks.MockStaticAccessKey)
				return
			}
		}
	}()

	wg.Wait()
}

func TestCredentialResolver_singleWalkPerBatch(t *testing.T) {
	var walks atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	walk := func(ctx context.Context) (aws.Credentials, error) {
		if walks.Add(1) == 1 {
			close(started)
		}
		<-release
		return aws.Credentials{AccessKeyID: "SharedOutcome", SecretAccessKey: "x"}, nil
	}

	r := &credentialResolver{}

	var wg sync.WaitGroup
	results := make(chan aws.Credentials, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		creds, err := r.resolve(context.Background(), walk)
		if err != nil {
			t.Errorf("unexpected '%[1]T' error: %[1]s", err)
			return
		}
		results <- creds
	}()

	<-started

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			creds, err := r.resolve(context.Background(), walk)
			if err != nil {
				t.Errorf("unexpected '%[1]T' error: %[1]s", err)
				return
			}
			results <- creds
		}()
	}

	// Give the joiners time to register as waiters before releasing.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	if got := walks.Load(); got != 1 {
		t.Errorf("expected 1 walk, got %d", got)
	}
	for creds := range results {
		if creds.AccessKeyID != "SharedOutcome" {
			t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, "SharedOutcome")
		}
	}
}

func TestCredentialResolver_failureResets(t *testing.T) {
	var walks atomic.Int32
	walkErr := errors.New("transient failure")

	walk := func(ctx context.Context) (aws.Credentials, error) {
		if walks.Add(1) == 1 {
			return aws.Credentials{}, walkErr
		}
		return aws.Credentials{AccessKeyID: "RecoveredAccessKey", SecretAccessKey: "x"}, nil
	}

	r := &credentialResolver{}

	if _, err := r.resolve(context.Background(), walk); !errors.Is(err, walkErr) {
		t.Fatalf("expected walk error, got '%[1]T': %[1]s", err)
	}

	creds, err := r.resolve(context.Background(), walk)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != "RecoveredAccessKey" {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, "RecoveredAccessKey")
	}
	if got := walks.Load(); got != 2 {
		t.Errorf("expected 2 walks, got %d", got)
	}
}

func TestCredentialResolver_expiredCacheRefreshes(t *testing.T) {
	var walks atomic.Int32

	walk := func(ctx context.Context) (aws.Credentials, error) {
		n := walks.Add(1)
		creds := aws.Credentials{AccessKeyID: "AccessKey", SecretAccessKey: "x"}
		if n == 1 {
			creds.CanExpire = true
			creds.Expires = time.Now().Add(-time.Minute)
		}
		return creds, nil
	}

	r := &credentialResolver{}

	if _, err := r.resolve(context.Background(), walk); err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if _, err := r.resolve(context.Background(), walk); err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}

	if got := walks.Load(); got != 2 {
		t.Errorf("expected expired cache to trigger a second walk, got %d", got)
	}
}

func TestCredentialResolver_invalidateDuringWalkNotCached(t *testing.T) {
	var walks atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	walk := func(ctx context.Context) (aws.Credentials, error) {
		if walks.Add(1) == 1 {
			close(started)
			<-release
			return aws.Credentials{AccessKeyID: "StaleAccessKey", SecretAccessKey: "x"}, nil
		}
		return aws.Credentials{AccessKeyID: "FreshAccessKey", SecretAccessKey: "x"}, nil
	}

	r := &credentialResolver{}

	leaderDone := make(chan aws.Credentials, 1)
	go func() {
		creds, err := r.resolve(context.Background(), walk)
		if err != nil {
			t.Errorf("unexpected '%[1]T' error: %[1]s", err)
		}
		leaderDone <- creds
	}()

	<-started
	r.invalidate()
	close(release)

	// The in-flight batch still receives its walk's outcome.
	if creds := <-leaderDone; creds.AccessKeyID != "StaleAccessKey" {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, "StaleAccessKey")
	}

	// The invalidated result was not cached: the next resolve walks again.
	creds, err := r.resolve(context.Background(), walk)
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != "FreshAccessKey" {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, "FreshAccessKey")
	}
	if got := walks.Load(); got != 2 {
		t.Errorf("expected 2 walks, got %d", got)
	}
}

func TestCredentialResolver_abandonedWaiterDoesNotCancelWalk(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	walk := func(ctx context.Context) (aws.Credentials, error) {
		close(started)
		<-release
		return aws.Credentials{AccessKeyID: "AccessKey", SecretAccessKey: "x"}, nil
	}

	r := &credentialResolver{}

	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		if _, err := r.resolve(context.Background(), walk); err != nil {
			t.Errorf("unexpected '%[1]T' error: %[1]s", err)
		}
	}()

	<-started

	ctx, cancel := context.WithCancel(context.Background())
	waiterDone := make(chan error, 1)
	go func() {
		_, err := r.resolve(ctx, walk)
		waiterDone <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	if err := <-waiterDone; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got '%[1]T': %[1]s", err)
	}

	close(release)
	<-leaderDone

	// The abandoned attempt still completed and populated the cache.
	creds, err := r.resolve(context.Background(), func(ctx context.Context) (aws.Credentials, error) {
		return aws.Credentials{}, errors.New("should not be called")
	})
	if err != nil {
		t.Fatalf("unexpected '%[1]T' error: %[1]s", err)
	}
	if creds.AccessKeyID != "AccessKey" {
		t.Errorf("AccessKeyID: got %q, expected %q", creds.AccessKeyID, "AccessKey")
	}
}
