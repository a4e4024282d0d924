package logging

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// RequestFields decomposes an outgoing HTTP request into structured log
// fields. Credential material in headers and the body is masked.
func RequestFields(req *http.Request) (map[string]any, error) {
	attrs := semconv.HTTPClientAttributesFromHTTPRequest(req)
	attrs = append(attrs, requestHeaderAttributes(req)...)

	bodyAttr, err := requestBodyAttribute(req)
	if err != nil {
		return nil, err
	}
	if bodyAttr.Valid() {
		attrs = append(attrs, bodyAttr)
	}

	return FieldsFromAttributes(attrs), nil
}

// ResponseFields decomposes an HTTP response into structured log fields.
func ResponseFields(resp *http.Response, elapsed time.Duration) (map[string]any, error) {
	attrs := []attribute.KeyValue{
		attribute.Int64("http.duration", elapsed.Milliseconds()),
		semconv.HTTPResponseContentLengthKey.Int64(resp.ContentLength),
	}
	attrs = append(attrs, semconv.HTTPAttributesFromHTTPStatusCode(resp.StatusCode)...)

	for k := range resp.Header {
		attrs = append(attrs, headerAttribute("http.response.header", k, resp.Header.Values(k)))
	}

	bodyAttr, err := responseBodyAttribute(resp)
	if err != nil {
		return nil, err
	}
	if bodyAttr.Valid() {
		attrs = append(attrs, bodyAttr)
	}

	return FieldsFromAttributes(attrs), nil
}

func requestHeaderAttributes(req *http.Request) []attribute.KeyValue {
	header := req.Header.Clone()

	// Handled directly from the Request
	header.Del("Content-Length")
	header.Del("User-Agent")

	results := make([]attribute.KeyValue, 0, len(header))

	if auth := header.Values("Authorization"); len(auth) > 0 {
		results = append(results, maskedAuthorizationAttribute(auth[0]))
	}
	header.Del("Authorization")

	if len(header.Values("X-Amz-Security-Token")) > 0 {
		results = append(results, attribute.String(headerAttributeName("http.request.header", "X-Amz-Security-Token"), "*****"))
	}
	header.Del("X-Amz-Security-Token")

	for k := range header {
		results = append(results, headerAttribute("http.request.header", k, header.Values(k)))
	}

	return results
}

func headerAttribute(prefix, k string, v []string) attribute.KeyValue {
	key := attribute.Key(headerAttributeName(prefix, k))
	if len(v) == 1 {
		return key.String(v[0])
	}
	return key.StringSlice(v)
}

func headerAttributeName(prefix, k string) string {
	name := strings.ReplaceAll(strings.ToLower(http.CanonicalHeaderKey(k)), "-", "_")
	return fmt.Sprintf("%s.%s", prefix, name)
}

// maskedAuthorizationAttribute keeps the scheme visible but masks the
// parameters, including any embedded access key ID.
func maskedAuthorizationAttribute(v string) attribute.KeyValue {
	key := attribute.Key(headerAttributeName("http.request.header", "Authorization"))

	scheme, params, found := strings.Cut(v, " ")
	if !found || params == "" {
		return key.String("*****")
	}
	return key.String(fmt.Sprintf("%s %s", scheme, MaskSensitiveValues(params)))
}

func requestBodyAttribute(req *http.Request) (attribute.KeyValue, error) {
	if req.Body == nil {
		return attribute.KeyValue{}, nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return attribute.KeyValue{}, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	return attribute.String("http.request.body", MaskSensitiveValues(string(body))), nil
}

func responseBodyAttribute(resp *http.Response) (attribute.KeyValue, error) {
	if resp.Body == nil {
		return attribute.KeyValue{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return attribute.KeyValue{}, err
	}

	// Restore the body reader
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return attribute.String("http.response.body", MaskSensitiveValues(string(body))), nil
}
