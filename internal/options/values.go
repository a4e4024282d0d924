package options

import (
	"time"
)

const (
	SignatureVersionV2 = "v2"
	SignatureVersionV3 = "v3"
	SignatureVersionV4 = "v4"
)

// DefaultRetryBase is the delay before the first retry when no explicit
// base is configured.
const DefaultRetryBase = 100 * time.Millisecond

// RetryDelayOptions controls the delay computed before retrying a failed
// request. CustomBackoff takes precedence over Base when non-nil.
type RetryDelayOptions struct {
	Base          time.Duration
	CustomBackoff func(attempt int) time.Duration
}

// ParamValidation is the normalized form of the parameter validation
// setting. The boolean shorthand accepted at the configuration boundary is
// expanded here, so downstream code never re-interprets it.
type ParamValidation struct {
	Min     bool
	Max     bool
	Pattern bool
	Enum    bool
}

// AllParamValidation enables every validation check.
func AllParamValidation() ParamValidation {
	return ParamValidation{Min: true, Max: true, Pattern: true, Enum: true}
}

// Enabled returns true if any check is enabled.
func (p ParamValidation) Enabled() bool {
	return p.Min || p.Max || p.Pattern || p.Enum
}

// CredentialsOptions is raw material for constructing static credentials.
// It is distinct from a resolved credential value: holding one in the
// option set still routes through the resolver, which records the source.
type CredentialsOptions struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	CanExpire       bool
	Expires         time.Time
}

// HTTPOptions is passive transport configuration. The core never opens
// connections with it directly; it is consumed when building an HTTP client
// for remote credential sources and by service clients.
type HTTPOptions struct {
	Proxy          string
	ConnectTimeout time.Duration
	Timeout        time.Duration
	MaxIdleConns   int
}
