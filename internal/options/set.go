package options

import (
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/copystructure"

	"github.com/cloudward/aws-sdk-go-client/v2/logging"
)

// Set is the canonical configuration key/value mapping. All mutation goes
// through Apply or Reset, both of which validate the complete batch before
// writing anything, so concurrent readers observe either the previous or
// the next state in its entirety.
type Set struct {
	mu     sync.RWMutex
	values map[Key]any
}

func defaults() map[Key]any {
	return map[Key]any{
		KeyComputeChecksums:      true,
		KeyConvertResponseTypes:  true,
		KeyCorrectClockSkew:      false,
		KeyMaxRedirects:          10,
		KeyMaxRetries:            3,
		KeyParamValidation:       AllParamValidation(),
		KeyRetryDelayOptions:     RetryDelayOptions{Base: DefaultRetryBase},
		KeyS3DisableBodySigning:  true,
		KeyS3ForcePathStyle:      false,
		KeySignatureCache:        true,
		KeySignatureVersion:      SignatureVersionV4,
		KeySSLEnabled:            true,
		KeySystemClockOffset:     time.Duration(0),
		KeyUseAccelerateEndpoint: false,
	}
}

// New seeds a Set with built-in defaults, then overlays opts under the same
// rules as Apply. No I/O is performed.
func New(opts map[string]any, allowUnknownKeys bool) (*Set, error) {
	s := &Set{values: defaults()}
	if len(opts) > 0 {
		if err := s.Apply(opts, allowUnknownKeys); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Apply overlays opts on the current values. Unknown keys fail the whole
// batch with UnknownKeyError unless allowUnknownKeys is set, in which case
// they are stored verbatim. Known keys are validated against their declared
// domain; any violation fails the batch with no mutation.
func (s *Set) Apply(opts map[string]any, allowUnknownKeys bool) error {
	staged, err := stage(opts, allowUnknownKeys)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range staged {
		s.values[k] = v
	}
	return nil
}

// Reset discards all current values and rebuilds from defaults plus opts.
// Used by document loading, where prior overrides must not survive. The
// swap is atomic: on any validation failure the current values are kept.
func (s *Set) Reset(opts map[string]any) error {
	staged, err := stage(opts, false)
	if err != nil {
		return err
	}

	next := defaults()
	for k, v := range staged {
		next[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = next
	return nil
}

func stage(opts map[string]any, allowUnknownKeys bool) (map[Key]any, error) {
	staged := make(map[Key]any, len(opts))

	var unknown []string
	var errs *multierror.Error
	for name, raw := range opts {
		normalize, ok := registry[Key(name)]
		if !ok {
			if allowUnknownKeys {
				staged[Key(name)] = raw
			} else {
				unknown = append(unknown, name)
			}
			continue
		}

		v, err := normalize(raw)
		if err != nil {
			errs = multierror.Append(errs, InvalidOptionError{Key: name, Err: err})
			continue
		}
		staged[Key(name)] = v
	}

	// Key policy violations win over domain violations: the caller named
	// keys that do not exist, so report those first and alone.
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, UnknownKeyError{Keys: unknown}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return staged, nil
}

// Snapshot returns a point-in-time read of the Set. Map-valued entries are
// deep-copied so in-flight requests cannot observe later updates.
func (s *Set) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Key]any, len(s.values))
	for k, v := range s.values {
		if m, ok := v.(map[string]any); ok {
			if c, err := copystructure.Copy(m); err == nil {
				out[k] = c
				continue
			}
		}
		out[k] = v
	}
	return View{values: out}
}

// View is an immutable snapshot of a Set.
type View struct {
	values map[Key]any
}

// Get returns the raw value for a key.
func (v View) Get(k Key) (any, bool) {
	val, ok := v.values[k]
	return val, ok
}

// Len returns the number of keys present.
func (v View) Len() int {
	return len(v.values)
}

// Keys returns the sorted key names present in the snapshot.
func (v View) Keys() []string {
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

func (v View) Bool(k Key) bool {
	b, _ := v.values[k].(bool)
	return b
}

func (v View) String(k Key) (string, bool) {
	s, ok := v.values[k].(string)
	return s, ok
}

func (v View) Int(k Key) int {
	n, _ := v.values[k].(int)
	return n
}

// Region returns the configured region, if any. There is no built-in
// default region.
func (v View) Region() (string, bool) {
	return v.String(KeyRegion)
}

func (v View) MaxRetries() int {
	return v.Int(KeyMaxRetries)
}

func (v View) MaxRedirects() int {
	return v.Int(KeyMaxRedirects)
}

func (v View) SignatureVersion() string {
	s, _ := v.String(KeySignatureVersion)
	return s
}

func (v View) SystemClockOffset() time.Duration {
	d, _ := v.values[KeySystemClockOffset].(time.Duration)
	return d
}

func (v View) RetryDelay() RetryDelayOptions {
	rd, ok := v.values[KeyRetryDelayOptions].(RetryDelayOptions)
	if !ok {
		return RetryDelayOptions{Base: DefaultRetryBase}
	}
	return rd
}

func (v View) ParamValidation() ParamValidation {
	pv, ok := v.values[KeyParamValidation].(ParamValidation)
	if !ok {
		return AllParamValidation()
	}
	return pv
}

// Credentials returns a directly supplied credential value, if present.
func (v View) Credentials() (aws.Credentials, bool) {
	c, ok := v.values[KeyCredentials].(aws.Credentials)
	return c, ok
}

// CredentialsOptions returns raw static credential material, if present.
func (v View) CredentialsOptions() (CredentialsOptions, bool) {
	c, ok := v.values[KeyCredentials].(CredentialsOptions)
	return c, ok
}

func (v View) HTTPOptions() HTTPOptions {
	h, _ := v.values[KeyHTTPOptions].(HTTPOptions)
	return h
}

// Logger returns the configured logger capability, if any.
func (v View) Logger() (logging.Logger, bool) {
	l, ok := v.values[KeyLogger].(logging.Logger)
	return l, ok
}
