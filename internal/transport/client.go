// Package transport builds the *http.Client the catalog client talks through.
//
// By default that is a plain client with a cookie jar. When a SPIRE Workload
// API socket is configured the client uses mutual TLS with the console's
// SPIFFE identity and only accepts the configured backend identity.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Options configures NewHTTPClient.
type Options struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// WorkloadSocket enables mTLS when set.
	WorkloadSocket string

	// Policy is required when WorkloadSocket is set.
	Policy ServerPolicy
}

// NewHTTPClient returns the backend client and a function releasing its
// identity source. The release function is never nil.
//
// The cookie jar belongs to the client, not to a browser session: every
// console request replays whatever cookies the backend has set. The console
// has a single operator identity, so there is nothing to keep apart.
func NewHTTPClient(ctx context.Context, opts Options) (*http.Client, func() error, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	client := &http.Client{Timeout: opts.Timeout, Jar: jar}
	if opts.WorkloadSocket == "" {
		return client, func() error { return nil }, nil
	}

	// Check the policy before dialing the agent.
	if _, err := opts.Policy.authorizer(); err != nil {
		return nil, nil, fmt.Errorf("failed to configure mTLS: %w", err)
	}

	source, err := NewSource(ctx, opts.WorkloadSocket)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create identity source: %w", err)
	}

	x509src := source.X509Source()
	tlsCfg, err := NewClientTLSConfig(x509src, x509src, opts.Policy)
	if err != nil {
		_ = source.Close()
		return nil, nil, fmt.Errorf("failed to configure mTLS: %w", err)
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		_ = source.Close()
		return nil, nil, fmt.Errorf("unexpected default transport %T", http.DefaultTransport)
	}
	tr := base.Clone()
	tr.TLSClientConfig = tlsCfg
	client.Transport = tr

	return client, source.Close, nil
}
