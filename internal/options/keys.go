package options

import (
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/cloudward/aws-sdk-go-client/v2/logging"
)

// Key identifies a configuration option. The enumeration below is closed:
// updates naming any other key are rejected unless the caller explicitly
// allows unknown keys.
type Key string

const (
	KeyComputeChecksums      Key = "computeChecksums"
	KeyConvertResponseTypes  Key = "convertResponseTypes"
	KeyCorrectClockSkew      Key = "correctClockSkew"
	KeyCredentials           Key = "credentials"
	KeyHTTPOptions           Key = "httpOptions"
	KeyLogger                Key = "logger"
	KeyMaxRedirects          Key = "maxRedirects"
	KeyMaxRetries            Key = "maxRetries"
	KeyParamValidation       Key = "paramValidation"
	KeyRegion                Key = "region"
	KeyRetryDelayOptions     Key = "retryDelayOptions"
	KeyS3BucketEndpoint      Key = "s3BucketEndpoint"
	KeyS3DisableBodySigning  Key = "s3DisableBodySigning"
	KeyS3ForcePathStyle      Key = "s3ForcePathStyle"
	KeySignatureCache        Key = "signatureCache"
	KeySignatureVersion      Key = "signatureVersion"
	KeySSLEnabled            Key = "sslEnabled"
	KeySystemClockOffset     Key = "systemClockOffset"
	KeyUseAccelerateEndpoint Key = "useAccelerateEndpoint"

	// Service placeholder keys hold opaque per-service overrides.
	KeyDynamoDB Key = "dynamodb"
	KeyIAM      Key = "iam"
	KeyS3       Key = "s3"
	KeySQS      Key = "sqs"
	KeySTS      Key = "sts"
)

type normalizeFunc func(v any) (any, error)

var registry = map[Key]normalizeFunc{
	KeyComputeChecksums:      normalizeBool,
	KeyConvertResponseTypes:  normalizeBool,
	KeyCorrectClockSkew:      normalizeBool,
	KeyCredentials:           normalizeCredentials,
	KeyHTTPOptions:           normalizeHTTPOptions,
	KeyLogger:                normalizeLogger,
	KeyMaxRedirects:          normalizeCount,
	KeyMaxRetries:            normalizeCount,
	KeyParamValidation:       normalizeParamValidation,
	KeyRegion:                normalizeString,
	KeyRetryDelayOptions:     normalizeRetryDelay,
	KeyS3BucketEndpoint:      normalizeString,
	KeyS3DisableBodySigning:  normalizeBool,
	KeyS3ForcePathStyle:      normalizeBool,
	KeySignatureCache:        normalizeBool,
	KeySignatureVersion:      normalizeString,
	KeySSLEnabled:            normalizeBool,
	KeySystemClockOffset:     normalizeClockOffset,
	KeyUseAccelerateEndpoint: normalizeBool,

	KeyDynamoDB: normalizeServiceMap,
	KeyIAM:      normalizeServiceMap,
	KeyS3:       normalizeServiceMap,
	KeySQS:      normalizeServiceMap,
	KeySTS:      normalizeServiceMap,
}

// Known reports whether name is part of the declared key enumeration.
func Known(name string) bool {
	_, ok := registry[Key(name)]
	return ok
}

func normalizeBool(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

func normalizeString(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func normalizeCount(v any) (any, error) {
	n, ok := asNumber(v)
	if !ok {
		return nil, fmt.Errorf("expected number, got %T", v)
	}
	if n < 0 || n != math.Trunc(n) {
		return nil, fmt.Errorf("expected non-negative integer, got %v", v)
	}
	return int(n), nil
}

// normalizeClockOffset accepts a signed offset. Numbers are interpreted as
// milliseconds, matching the document form.
func normalizeClockOffset(v any) (any, error) {
	if d, ok := v.(time.Duration); ok {
		return d, nil
	}
	n, ok := asNumber(v)
	if !ok {
		return nil, fmt.Errorf("expected number of milliseconds, got %T", v)
	}
	return time.Duration(n * float64(time.Millisecond)), nil
}

func normalizeMillis(v any) (time.Duration, error) {
	if d, ok := v.(time.Duration); ok {
		if d < 0 {
			return 0, fmt.Errorf("expected non-negative duration, got %s", d)
		}
		return d, nil
	}
	n, ok := asNumber(v)
	if !ok || n < 0 {
		return 0, fmt.Errorf("expected non-negative number of milliseconds, got %v", v)
	}
	return time.Duration(n * float64(time.Millisecond)), nil
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

// NormalizeParamValidation expands the boolean shorthand into the record
// form. Accepted inputs: bool, ParamValidation, or a map with any of the
// min/max/pattern/enum toggles.
func NormalizeParamValidation(v any) (ParamValidation, error) {
	switch pv := v.(type) {
	case bool:
		if pv {
			return AllParamValidation(), nil
		}
		return ParamValidation{}, nil
	case ParamValidation:
		return pv, nil
	case map[string]any:
		var out ParamValidation
		for name, raw := range pv {
			b, ok := raw.(bool)
			if !ok {
				return ParamValidation{}, fmt.Errorf("toggle %q: expected bool, got %T", name, raw)
			}
			switch name {
			case "min":
				out.Min = b
			case "max":
				out.Max = b
			case "pattern":
				out.Pattern = b
			case "enum":
				out.Enum = b
			default:
				return ParamValidation{}, fmt.Errorf("unknown validation toggle %q", name)
			}
		}
		return out, nil
	}
	return ParamValidation{}, fmt.Errorf("expected bool or toggle set, got %T", v)
}

func normalizeParamValidation(v any) (any, error) {
	return NormalizeParamValidation(v)
}

func normalizeRetryDelay(v any) (any, error) {
	switch rd := v.(type) {
	case RetryDelayOptions:
		if rd.Base < 0 {
			return nil, fmt.Errorf("base must be non-negative, got %s", rd.Base)
		}
		return rd, nil
	case map[string]any:
		var out RetryDelayOptions
		for name, raw := range rd {
			switch name {
			case "base":
				base, err := normalizeMillis(raw)
				if err != nil {
					return nil, fmt.Errorf("base: %w", err)
				}
				out.Base = base
			default:
				return nil, fmt.Errorf("unknown retry delay option %q", name)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected retry delay options, got %T", v)
}

func normalizeCredentials(v any) (any, error) {
	switch c := v.(type) {
	case aws.Credentials:
		if !c.HasKeys() {
			return nil, fmt.Errorf("credentials value has no keys")
		}
		return c, nil
	case CredentialsOptions:
		return c, nil
	case *CredentialsOptions:
		return *c, nil
	case map[string]any:
		var out CredentialsOptions
		for name, raw := range c {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected string, got %T", name, raw)
			}
			switch name {
			case "accessKeyId":
				out.AccessKeyID = s
			case "secretAccessKey":
				out.SecretAccessKey = s
			case "sessionToken":
				out.SessionToken = s
			default:
				return nil, fmt.Errorf("unknown credentials field %q", name)
			}
		}
		if out.AccessKeyID == "" || out.SecretAccessKey == "" {
			return nil, fmt.Errorf("accessKeyId and secretAccessKey are required")
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected credentials, got %T", v)
}

func normalizeHTTPOptions(v any) (any, error) {
	switch h := v.(type) {
	case HTTPOptions:
		return h, nil
	case map[string]any:
		var out HTTPOptions
		for name, raw := range h {
			switch name {
			case "proxy":
				s, ok := raw.(string)
				if !ok {
					return nil, fmt.Errorf("proxy: expected string, got %T", raw)
				}
				out.Proxy = s
			case "connectTimeout":
				d, err := normalizeMillis(raw)
				if err != nil {
					return nil, fmt.Errorf("connectTimeout: %w", err)
				}
				out.ConnectTimeout = d
			case "timeout":
				d, err := normalizeMillis(raw)
				if err != nil {
					return nil, fmt.Errorf("timeout: %w", err)
				}
				out.Timeout = d
			case "maxIdleConns":
				n, err := normalizeCount(raw)
				if err != nil {
					return nil, fmt.Errorf("maxIdleConns: %w", err)
				}
				out.MaxIdleConns = n.(int)
			default:
				return nil, fmt.Errorf("unknown http option %q", name)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected http options, got %T", v)
}

func normalizeLogger(v any) (any, error) {
	l, ok := v.(logging.Logger)
	if !ok {
		return nil, fmt.Errorf("expected a logging.Logger, got %T", v)
	}
	return l, nil
}

func normalizeServiceMap(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", v)
	}
	return m, nil
}
