package logging

import (
	"github.com/YakDriver/regexache"
)

// IAM Unique ID prefixes from
// https://docs.aws.amazon.com/IAM/latest/UserGuide/reference_identifiers.html#identifiers-unique-ids
var uniqueIDRegex = regexache.MustCompile(`(A3T[A-Z0-9]` +
	`|ABIA` + // STS service bearer token
	`|ACCA` + // Context-specific credential
	`|AGPA` + // User group
	`|AIDA` + // IAM user
	`|AIPA` + // EC2 instance profile
	`|AKIA` + // Access key
	`|ANPA` + // Managed policy
	`|ANVA` + // Version in a managed policy
	`|APKA` + // Public key
	`|AROA` + // Role
	`|ASCA` + // Certificate
	`|ASIA` + // STS temporary access key
	`)[A-Z0-9]{16,}`)

// Secret access keys are 40 characters of base64-ish material.
var secretKeyRegex = regexache.MustCompile(`[A-Za-z0-9/+]{40}`)

// MaskSensitiveValues replaces IAM unique IDs and secret-key shaped strings
// in field with partially masked equivalents.
func MaskSensitiveValues(field string) string {
	field = MaskAccessKeyIDs(field)
	field = secretKeyRegex.ReplaceAllStringFunc(field, func(s string) string {
		return string(partialMaskString([]byte(s), 4, 4))
	})
	return field
}

// MaskAccessKeyIDs masks IAM unique IDs, leaving the identifying prefix and
// tail visible.
func MaskAccessKeyIDs(field string) string {
	return uniqueIDRegex.ReplaceAllStringFunc(field, func(s string) string {
		return string(partialMaskString([]byte(s), 4, 4))
	})
}

func partialMaskString(s []byte, first, last int) []byte {
	l := len(s)
	result := make([]byte, 0, l)
	result = append(result, s[0:first]...)
	for i := 0; i < l-first-last; i++ {
		result = append(result, '*')
	}
	result = append(result, s[l-last:]...)
	return result
}
