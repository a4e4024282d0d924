package servicemocks

const (
	MockEnvAccessKey    = "EnvAccessKey"
	MockEnvSecretKey    = "EnvSecretKey"
	MockEnvSessionToken = "EnvSessionToken"

	MockStaticAccessKey    = "StaticAccessKey"
	MockStaticSecretKey    = "StaticSecretKey"
	MockStaticSessionToken = "StaticSessionToken"

	MockSharedAccessKey = "SharedConfigurationSourceAccessKey"
	MockSharedSecretKey = "SharedConfigurationSourceSecretKey"
)

// MockSharedCredentialsFile is the content of a shared credentials file
// holding a single default profile.
const MockSharedCredentialsFile = `
[default]
aws_access_key_id = SharedConfigurationSourceAccessKey
aws_secret_access_key = SharedConfigurationSourceSecretKey
`
