package validation

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/YakDriver/regexache"

	"github.com/cloudward/aws-sdk-go-client/v2/internal/options"
)

// Toggles is the effective set of parameter validation switches. Each
// switch gates one constraint kind; a disabled switch skips its constraint
// entirely, even when the descriptor could not be evaluated.
type Toggles struct {
	Min     bool
	Max     bool
	Pattern bool
	Enum    bool
}

// EffectiveToggles maps the normalized configuration value onto the
// evaluator's switch set.
func EffectiveToggles(pv options.ParamValidation) Toggles {
	return Toggles{
		Min:     pv.Min,
		Max:     pv.Max,
		Pattern: pv.Pattern,
		Enum:    pv.Enum,
	}
}

// Constraints is the externally supplied descriptor for a single request
// parameter. Nil/empty members impose no constraint.
type Constraints struct {
	Min     *float64
	Max     *float64
	Pattern string
	Enum    []string
}

// Violation describes a single failed constraint. Validation never fails
// fast: a request with several invalid parameters reports every violation
// together.
type Violation struct {
	Param      string
	Constraint string
	Message    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s constraint: %s", v.Param, v.Constraint, v.Message)
}

// CheckParam evaluates every enabled toggle against value and returns all
// violations found. An empty result means the parameter is valid under the
// enabled checks.
func CheckParam(name string, value any, c Constraints, t Toggles) []Violation {
	var violations []Violation

	size, hasSize := magnitude(value)

	if t.Min && c.Min != nil {
		if !hasSize {
			violations = append(violations, Violation{
				Param:      name,
				Constraint: "min",
				Message:    fmt.Sprintf("value of type %T has no magnitude", value),
			})
		} else if size < *c.Min {
			violations = append(violations, Violation{
				Param:      name,
				Constraint: "min",
				Message:    fmt.Sprintf("%v is less than minimum %v", size, *c.Min),
			})
		}
	}

	if t.Max && c.Max != nil {
		if !hasSize {
			violations = append(violations, Violation{
				Param:      name,
				Constraint: "max",
				Message:    fmt.Sprintf("value of type %T has no magnitude", value),
			})
		} else if size > *c.Max {
			violations = append(violations, Violation{
				Param:      name,
				Constraint: "max",
				Message:    fmt.Sprintf("%v exceeds maximum %v", size, *c.Max),
			})
		}
	}

	if t.Pattern && c.Pattern != "" {
		violations = append(violations, checkPattern(name, value, c.Pattern)...)
	}

	if t.Enum && len(c.Enum) > 0 {
		violations = append(violations, checkEnum(name, value, c.Enum)...)
	}

	return violations
}

func checkPattern(name string, value any, pattern string) []Violation {
	s, ok := value.(string)
	if !ok {
		return []Violation{{
			Param:      name,
			Constraint: "pattern",
			Message:    fmt.Sprintf("pattern applies to strings, got %T", value),
		}}
	}

	// Validate the pattern before touching the compile cache, which only
	// offers the must form.
	if _, err := regexp.Compile(pattern); err != nil {
		return []Violation{{
			Param:      name,
			Constraint: "pattern",
			Message:    fmt.Sprintf("invalid pattern %q: %s", pattern, err),
		}}
	}

	if !regexache.MustCompile(pattern).MatchString(s) {
		return []Violation{{
			Param:      name,
			Constraint: "pattern",
			Message:    fmt.Sprintf("%q does not match %q", s, pattern),
		}}
	}
	return nil
}

func checkEnum(name string, value any, enum []string) []Violation {
	s, ok := value.(string)
	if !ok {
		return []Violation{{
			Param:      name,
			Constraint: "enum",
			Message:    fmt.Sprintf("enum applies to strings, got %T", value),
		}}
	}

	for _, allowed := range enum {
		if s == allowed {
			return nil
		}
	}
	return []Violation{{
		Param:      name,
		Constraint: "enum",
		Message:    fmt.Sprintf("%q is not an allowed value", s),
	}}
}

// magnitude maps a value onto the axis min/max constraints compare
// against: numeric value for numbers, length for strings, slices and maps.
func magnitude(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		return float64(len(v)), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return float64(rv.Len()), true
	}
	return 0, false
}
