package endpoints

import (
	"regexp"

	"github.com/YakDriver/regexache"
)

type partition struct {
	id          string
	regionRegex *regexp.Regexp
}

var partitions = []partition{
	{
		id:          "aws",
		regionRegex: regexache.MustCompile(`^(us|eu|ap|sa|ca|il|me|af)\-\w+\-\d+$`),
	},
	{
		id:          "aws-cn",
		regionRegex: regexache.MustCompile(`^cn\-\w+\-\d+$`),
	},
	{
		id:          "aws-us-gov",
		regionRegex: regexache.MustCompile(`^us\-gov\-\w+\-\d+$`),
	},
	{
		id:          "aws-iso",
		regionRegex: regexache.MustCompile(`^us\-iso\-\w+\-\d+$`),
	},
	{
		id:          "aws-iso-b",
		regionRegex: regexache.MustCompile(`^us\-isob\-\w+\-\d+$`),
	},
}

// PartitionForRegion returns the partition a region belongs to, or "" when
// the region matches no known partition.
func PartitionForRegion(regionID string) string {
	for _, p := range partitions {
		if p.regionRegex.MatchString(regionID) {
			return p.id
		}
	}

	return ""
}
