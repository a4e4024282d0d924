// Package retry computes the delay before retrying a failed request.
//
// A Policy answers "how long", never "whether": the request pipeline owns
// the maxRetries budget and simply stops asking once it is spent.
package retry

import (
	"math"
	"time"

	"github.com/cloudward/aws-sdk-go-client/v2/internal/options"
)

// Policy is a stateless delay calculator. When CustomBackoff is set it is
// trusted verbatim; otherwise delays grow exponentially from Base.
type Policy struct {
	Base          time.Duration
	CustomBackoff func(attempt int) time.Duration
}

// FromDelayOptions builds a Policy from configured retry delay options.
func FromDelayOptions(rd options.RetryDelayOptions) Policy {
	return Policy{
		Base:          rd.Base,
		CustomBackoff: rd.CustomBackoff,
	}
}

// DelayFor returns the delay before the given retry attempt. attempt is
// 1-indexed: DelayFor(1) is the wait before the first retry.
func (p Policy) DelayFor(attempt int) time.Duration {
	if p.CustomBackoff != nil {
		return p.CustomBackoff(attempt)
	}

	base := p.Base
	if base == 0 {
		base = options.DefaultRetryBase
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := base << (attempt - 1)
	// Large attempts overflow the shift; saturate instead of handing the
	// caller a zero or negative wait.
	if attempt > 63 || delay>>(attempt-1) != base {
		return math.MaxInt64
	}
	return delay
}
