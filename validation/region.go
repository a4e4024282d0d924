package validation

import (
	"fmt"

	"github.com/cloudward/aws-sdk-go-client/v2/internal/endpoints"
)

type InvalidRegionError struct {
	region string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("Invalid AWS Region: %s", e.region)
}

// SupportedRegion checks if the given region belongs to a known partition.
func SupportedRegion(region string) error {
	if endpoints.PartitionForRegion(region) != "" {
		return nil
	}

	return &InvalidRegionError{
		region: region,
	}
}
