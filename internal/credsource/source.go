// Package credsource implements the ordered chain of credential sources
// walked during resolution: explicit static material, the process
// environment, the shared credentials file, and the EC2 instance metadata
// service.
package credsource

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/hashicorp/go-multierror"

	"github.com/cloudward/aws-sdk-go-client/v2/logging"
)

// Source is a single credential source. TryRetrieve returns found=false
// without error when the source has nothing to offer, letting the chain
// continue; an error marks the source as failed but is still recoverable
// for the chain as a whole.
type Source interface {
	Name() string
	TryRetrieve(ctx context.Context) (creds aws.Credentials, found bool, err error)
}

// Walk tries each source in order, stopping at the first that yields
// non-empty credentials. Per-source failures are accumulated; when every
// source is exhausted the accumulated errors are surfaced together.
func Walk(ctx context.Context, sources []Source) (aws.Credentials, error) {
	logger := logging.RetrieveLogger(ctx)

	var errs *multierror.Error
	for _, s := range sources {
		creds, found, err := s.TryRetrieve(ctx)
		if err != nil {
			errs = multierror.Append(errs, CredentialSourceError{Source: s.Name(), Err: err})
			logger.Debug(ctx, "Credential source failed, continuing", map[string]any{
				"source": s.Name(),
				"error":  err.Error(),
			})
			continue
		}
		if !found || !creds.HasKeys() {
			logger.Debug(ctx, "Credential source empty, continuing", map[string]any{
				"source": s.Name(),
			})
			continue
		}

		logger.Debug(ctx, "Credentials resolved", map[string]any{
			"source":        s.Name(),
			"access_key_id": logging.MaskAccessKeyIDs(creds.AccessKeyID),
		})
		return creds, nil
	}

	return aws.Credentials{}, NoCredentialsError{Err: errs.ErrorOrNil()}
}
