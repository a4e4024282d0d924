package options

import (
	"fmt"
	"strings"
)

// UnknownKeyError occurs when an update names one or more keys outside the
// declared configuration surface and the caller did not opt in to unknown keys.
// The update is rejected as a whole.
type UnknownKeyError struct {
	Keys []string
}

func (e UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown configuration key(s): %s", strings.Join(e.Keys, ", "))
}

// InvalidOptionError occurs when a known key is given a value outside its
// declared domain.
type InvalidOptionError struct {
	Key    string
	Reason string
	Err    error
}

func (e InvalidOptionError) Error() string {
	msg := fmt.Sprintf("invalid value for %q", e.Key)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e InvalidOptionError) Unwrap() error {
	return e.Err
}

// ConfigLoadError occurs when a configuration document cannot be read or parsed.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e ConfigLoadError) Error() string {
	return fmt.Sprintf("loading configuration from %q: %s", e.Path, e.Err)
}

func (e ConfigLoadError) Unwrap() error {
	return e.Err
}

// UnsupportedEnvironmentError occurs when an operation is unavailable in the
// current execution environment, e.g. file loading without a filesystem.
type UnsupportedEnvironmentError struct {
	Operation string
}

func (e UnsupportedEnvironmentError) Error() string {
	return fmt.Sprintf("%s is not supported in this execution environment", e.Operation)
}
