package servicemocks

import (
	"os"
	"strings"
	"testing"
)

// Environment variables the credential chain reads.
var awsEnvVars = []string{
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"AWS_SESSION_TOKEN",
	"AWS_PROFILE",
	"AWS_SHARED_CREDENTIALS_FILE",
	"AWS_EC2_METADATA_DISABLED",
	"AWS_EC2_METADATA_SERVICE_ENDPOINT",
	"AWS_CONTAINER_CREDENTIALS_RELATIVE_URI",
	"AWS_WEB_IDENTITY_TOKEN_FILE",
	"AWS_ROLE_ARN",
}

// UnsetEnv clears every AWS_* variable the chain consults and returns a
// function restoring the previous values.
func UnsetEnv(t *testing.T) func() {
	t.Helper()

	saved := map[string]string{}
	for _, k := range awsEnvVars {
		if v, ok := os.LookupEnv(k); ok {
			saved[k] = v
		}
		os.Unsetenv(k)
	}

	return func() {
		for _, k := range awsEnvVars {
			if v, ok := saved[k]; ok {
				os.Setenv(k, v)
			} else {
				os.Unsetenv(k)
			}
		}
	}
}

// StashEnv clears the entire environment and returns a restore function.
// Used by tests that must not see any ambient configuration.
func StashEnv(t *testing.T) func() {
	t.Helper()

	environ := os.Environ()
	os.Clearenv()

	return func() {
		os.Clearenv()
		for _, kv := range environ {
			k, v, _ := strings.Cut(kv, "=")
			os.Setenv(k, v)
		}
	}
}
