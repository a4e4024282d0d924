package awsclient

import (
	"github.com/cloudward/aws-sdk-go-client/v2/validation"
)

// ValidateRegion checks that region belongs to a known partition.
func ValidateRegion(region string) error {
	return validation.SupportedRegion(region)
}
