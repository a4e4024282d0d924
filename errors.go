package awsclient

import (
	"github.com/cloudward/aws-sdk-go-client/v2/internal/credsource"
	"github.com/cloudward/aws-sdk-go-client/v2/internal/errs"
	"github.com/cloudward/aws-sdk-go-client/v2/internal/options"
)

// UnknownKeyError occurs when an update names keys outside the declared
// configuration surface; the update is rejected with no mutation.
type UnknownKeyError = options.UnknownKeyError

// IsUnknownKeyError returns true if the error contains the UnknownKeyError type.
func IsUnknownKeyError(err error) bool {
	return errs.IsA[UnknownKeyError](err)
}

// InvalidOptionError occurs when a known key is given a value outside its
// declared domain.
type InvalidOptionError = options.InvalidOptionError

// IsInvalidOptionError returns true if the error contains the InvalidOptionError type.
func IsInvalidOptionError(err error) bool {
	return errs.IsA[InvalidOptionError](err)
}

// ConfigLoadError occurs when a configuration document cannot be read or parsed.
type ConfigLoadError = options.ConfigLoadError

// IsConfigLoadError returns true if the error contains the ConfigLoadError type.
func IsConfigLoadError(err error) bool {
	return errs.IsA[ConfigLoadError](err)
}

// UnsupportedEnvironmentError occurs when an operation is unavailable in
// the current execution environment.
type UnsupportedEnvironmentError = options.UnsupportedEnvironmentError

// IsUnsupportedEnvironmentError returns true if the error contains the UnsupportedEnvironmentError type.
func IsUnsupportedEnvironmentError(err error) bool {
	return errs.IsA[UnsupportedEnvironmentError](err)
}

// NoCredentialsError occurs when all credential sources have been
// exhausted without results.
type NoCredentialsError = credsource.NoCredentialsError

// IsNoCredentialsError returns true if the error contains the NoCredentialsError type.
func IsNoCredentialsError(err error) bool {
	return errs.IsA[NoCredentialsError](err)
}

// CredentialSourceError wraps a specific credential source's failure.
type CredentialSourceError = credsource.CredentialSourceError

// IsCredentialSourceError returns true if the error contains the CredentialSourceError type.
func IsCredentialSourceError(err error) bool {
	return errs.IsA[CredentialSourceError](err)
}
