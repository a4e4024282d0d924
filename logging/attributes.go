package logging

import "go.opentelemetry.io/otel/attribute"

const (
	SdkKey attribute.Key = "aws.sdk"
)

// FieldsFromAttributes converts otel attributes into the map form accepted
// by Logger methods.
func FieldsFromAttributes(attrs []attribute.KeyValue) map[string]any {
	result := make(map[string]any, len(attrs))
	for _, a := range attrs {
		result[string(a.Key)] = a.Value.AsInterface()
	}
	return result
}
