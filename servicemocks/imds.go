package servicemocks

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"
)

const (
	MockEc2MetadataAccessKey    = "Ec2MetadataAccessKey"
	MockEc2MetadataSecretKey    = "Ec2MetadataSecretKey"
	MockEc2MetadataSessionToken = "Ec2MetadataSessionToken"

	mockRoleName  = "mock-iam-role"
	mockImdsToken = "mock-imds-token"
)

// AwsMetadataApiMock starts a simulated EC2 instance metadata service,
// points AWS_EC2_METADATA_SERVICE_ENDPOINT at it, and returns a function
// that tears both down.
func AwsMetadataApiMock() func() {
	ts := httptest.NewServer(http.HandlerFunc(metadataHandler))

	previous, hadPrevious := os.LookupEnv("AWS_EC2_METADATA_SERVICE_ENDPOINT")
	os.Setenv("AWS_EC2_METADATA_SERVICE_ENDPOINT", ts.URL)

	return func() {
		ts.Close()
		if hadPrevious {
			os.Setenv("AWS_EC2_METADATA_SERVICE_ENDPOINT", previous)
		} else {
			os.Unsetenv("AWS_EC2_METADATA_SERVICE_ENDPOINT")
		}
	}
}

// InvalidEC2MetadataEndpoint points the metadata endpoint at a server that
// is no longer listening and returns a cleanup function.
func InvalidEC2MetadataEndpoint() func() {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	previous, hadPrevious := os.LookupEnv("AWS_EC2_METADATA_SERVICE_ENDPOINT")
	os.Setenv("AWS_EC2_METADATA_SERVICE_ENDPOINT", ts.URL)

	return func() {
		if hadPrevious {
			os.Setenv("AWS_EC2_METADATA_SERVICE_ENDPOINT", previous)
		} else {
			os.Unsetenv("AWS_EC2_METADATA_SERVICE_ENDPOINT")
		}
	}
}

func metadataHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/latest/api/token":
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, mockImdsToken)
	case "/latest/meta-data/iam/security-credentials/":
		fmt.Fprint(w, mockRoleName)
	case "/latest/meta-data/iam/security-credentials/" + mockRoleName:
		expiration := time.Now().UTC().Add(12 * time.Hour).Format(time.RFC3339)
		fmt.Fprintf(w, `{
  "Code": "Success",
  "Type": "AWS-HMAC",
  "AccessKeyId": %q,
  "SecretAccessKey": %q,
  "Token": %q,
  "Expiration": %q
}`, MockEc2MetadataAccessKey, MockEc2MetadataSecretKey, MockEc2MetadataSessionToken, expiration)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
