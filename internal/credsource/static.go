package credsource

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/cloudward/aws-sdk-go-client/v2/internal/options"
)

// ValueSource yields a credential value supplied directly by the caller.
type ValueSource struct {
	Credentials aws.Credentials
}

func (s ValueSource) Name() string {
	return "ConfiguredCredentialsValue"
}

func (s ValueSource) TryRetrieve(_ context.Context) (aws.Credentials, bool, error) {
	creds := s.Credentials
	if creds.Source == "" {
		creds.Source = s.Name()
	}
	return creds, creds.HasKeys(), nil
}

// StaticSource constructs credentials from raw key material held in the
// option set.
type StaticSource struct {
	Options options.CredentialsOptions
}

func (s StaticSource) Name() string {
	return credentials.StaticCredentialsName
}

func (s StaticSource) TryRetrieve(ctx context.Context) (aws.Credentials, bool, error) {
	o := s.Options
	if o.AccessKeyID == "" && o.SecretAccessKey == "" {
		return aws.Credentials{}, false, nil
	}

	provider := credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, o.SessionToken)
	creds, err := provider.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, false, err
	}

	if o.CanExpire {
		creds.CanExpire = true
		creds.Expires = o.Expires
	}
	return creds, true, nil
}
