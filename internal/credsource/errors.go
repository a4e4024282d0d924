package credsource

import "fmt"

// NoCredentialsError occurs when the source chain is exhausted without
// yielding credentials. It wraps the errors accumulated across every
// attempted source, if any.
type NoCredentialsError struct {
	Err error
}

func (e NoCredentialsError) Error() string {
	msg := "no valid credential sources found"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e NoCredentialsError) Unwrap() error {
	return e.Err
}

// CredentialSourceError wraps a specific source's failure. The chain
// continues past it; the error resurfaces only if every source fails.
type CredentialSourceError struct {
	Source string
	Err    error
}

func (e CredentialSourceError) Error() string {
	return fmt.Sprintf("credential source %q: %s", e.Source, e.Err)
}

func (e CredentialSourceError) Unwrap() error {
	return e.Err
}
