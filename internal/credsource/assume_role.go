package credsource

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// AssumeRole describes a role assumed on top of the credentials produced
// by the base chain.
type AssumeRole struct {
	RoleARN     string
	SessionName string
	ExternalID  string
	Policy      string
	Duration    time.Duration

	// Endpoint overrides the STS endpoint, primarily for tests.
	Endpoint string
}

// AssumeRoleCredentials exchanges base credentials for role credentials
// through STS.
func AssumeRoleCredentials(ctx context.Context, base aws.Credentials, region string, ar AssumeRole, httpClient *http.Client) (aws.Credentials, error) {
	cfg := aws.Config{
		Region: region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return base, nil
		}),
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if ar.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(ar.Endpoint)
	}

	client := sts.NewFromConfig(cfg)

	provider := stscreds.NewAssumeRoleProvider(client, ar.RoleARN, func(opts *stscreds.AssumeRoleOptions) {
		opts.RoleSessionName = ar.SessionName
		opts.Duration = ar.Duration

		if ar.ExternalID != "" {
			opts.ExternalID = aws.String(ar.ExternalID)
		}

		if ar.Policy != "" {
			opts.Policy = aws.String(ar.Policy)
		}
	})

	creds, err := aws.NewCredentialsCache(provider).Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, CredentialSourceError{Source: stscreds.ProviderName, Err: err}
	}
	return creds, nil
}
