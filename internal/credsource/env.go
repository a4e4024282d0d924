package credsource

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// EnvSource derives credentials from AWS_ACCESS_KEY_ID and friends in the
// process environment.
type EnvSource struct{}

func (s EnvSource) Name() string {
	return config.CredentialsSourceName
}

func (s EnvSource) TryRetrieve(_ context.Context) (aws.Credentials, bool, error) {
	envConfig, err := config.NewEnvConfig()
	if err != nil {
		return aws.Credentials{}, false, err
	}

	creds := envConfig.Credentials
	if !creds.HasKeys() {
		return aws.Credentials{}, false, nil
	}
	if creds.Source == "" {
		creds.Source = s.Name()
	}
	return creds, true, nil
}
