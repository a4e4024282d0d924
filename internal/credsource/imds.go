package credsource

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/ec2rolecreds"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// IMDSSource derives credentials from the EC2 instance metadata service.
// It is the last source in the chain and is skipped entirely when
// AWS_EC2_METADATA_DISABLED is set, or when the caller opted out.
type IMDSSource struct {
	// Endpoint overrides the metadata endpoint, primarily for tests.
	// AWS_EC2_METADATA_SERVICE_ENDPOINT is honored when empty.
	Endpoint string

	// HTTPClient carries transport configuration built from httpOptions.
	HTTPClient *http.Client
}

func (s IMDSSource) Name() string {
	return ec2rolecreds.ProviderName
}

func (s IMDSSource) TryRetrieve(ctx context.Context) (aws.Credentials, bool, error) {
	if MetadataDisabled() {
		return aws.Credentials{}, false, nil
	}

	imdsOptions := imds.Options{}
	if s.Endpoint != "" {
		imdsOptions.Endpoint = s.Endpoint
	}
	if s.HTTPClient != nil {
		imdsOptions.HTTPClient = s.HTTPClient
	}
	client := imds.New(imdsOptions)

	provider := ec2rolecreds.New(func(o *ec2rolecreds.Options) {
		o.Client = client
	})

	creds, err := provider.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, false, err
	}
	return creds, true, nil
}

// MetadataDisabled reports whether instance metadata lookup was disabled
// through the environment.
func MetadataDisabled() bool {
	return strings.EqualFold(os.Getenv("AWS_EC2_METADATA_DISABLED"), "true")
}
