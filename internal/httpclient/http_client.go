package httpclient

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"

	"github.com/cloudward/aws-sdk-go-client/v2/internal/options"
	"github.com/cloudward/aws-sdk-go-client/v2/logging"
)

const defaultConnectTimeout = 30 * time.Second

// New builds an HTTP client from passive transport configuration. The
// result is handed to remote credential sources and service clients; this
// package never issues requests itself.
func New(opts options.HTTPOptions) (*http.Client, error) {
	connectTimeout := opts.ConnectTimeout
	if connectTimeout == 0 {
		connectTimeout = defaultConnectTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if opts.MaxIdleConns > 0 {
		transport.MaxIdleConns = opts.MaxIdleConns
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		if proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, fmt.Errorf("proxy URL %q must be absolute", opts.Proxy)
		}

		proxyConfig := httpproxy.Config{
			HTTPProxy:  proxyURL.String(),
			HTTPSProxy: proxyURL.String(),
		}
		proxyFunc := proxyConfig.ProxyFunc()
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			return proxyFunc(req.URL)
		}
	}

	return &http.Client{
		Transport: &loggingTransport{inner: transport},
		Timeout:   opts.Timeout,
	}, nil
}

// loggingTransport emits masked request/response fields at debug level
// through the Logger registered on the request context.
type loggingTransport struct {
	inner http.RoundTripper
}

func (t *loggingTransport) Unwrap() http.RoundTripper {
	return t.inner
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	logger := logging.RetrieveLogger(ctx)

	if fields, err := logging.RequestFields(req); err == nil {
		logger.Debug(ctx, "HTTP Request Sent", fields)
	}

	start := time.Now()
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	if fields, ferr := logging.ResponseFields(resp, time.Since(start)); ferr == nil {
		logger.Debug(ctx, "HTTP Response Received", fields)
	}

	return resp, nil
}
