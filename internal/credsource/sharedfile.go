package credsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/mitchellh/go-homedir"
)

const sharedFileSourceName = "SharedCredentialsFile"

// SharedFileSource derives credentials from a shared credentials file
// (~/.aws/credentials by default). Profile selection follows AWS_PROFILE;
// the file location follows AWS_SHARED_CREDENTIALS_FILE. Both can be set
// explicitly, which takes precedence over the environment.
type SharedFileSource struct {
	Filename string
	Profile  string
}

func (s SharedFileSource) Name() string {
	return sharedFileSourceName
}

func (s SharedFileSource) TryRetrieve(ctx context.Context) (aws.Credentials, bool, error) {
	filename, err := s.resolveFilename()
	if err != nil {
		return aws.Credentials{}, false, err
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return aws.Credentials{}, false, nil
	}

	profile := s.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile == "" {
		profile = "default"
	}

	sharedConfig, err := config.LoadSharedConfigProfile(ctx, profile, func(o *config.LoadSharedConfigOptions) {
		o.CredentialsFiles = []string{filename}
		o.ConfigFiles = []string{}
	})
	if err != nil {
		var notExist config.SharedConfigProfileNotExistError
		if errors.As(err, &notExist) {
			return aws.Credentials{}, false, nil
		}
		return aws.Credentials{}, false, fmt.Errorf("parsing %s: %w", filename, err)
	}

	creds := sharedConfig.Credentials
	if !creds.HasKeys() {
		return aws.Credentials{}, false, nil
	}
	if creds.Source == "" {
		creds.Source = fmt.Sprintf("%s: %s", sharedFileSourceName, filename)
	}
	return creds, true, nil
}

func (s SharedFileSource) resolveFilename() (string, error) {
	filename := s.Filename
	if filename == "" {
		filename = os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	}
	if filename == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		filename = filepath.Join(home, ".aws", "credentials")
	}
	return homedir.Expand(filename)
}
