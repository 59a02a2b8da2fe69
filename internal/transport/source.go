package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spiffe/go-spiffe/v2/workloadapi"
)

// Source holds the console's X.509 SVID from the SPIRE Workload API.
//
// The underlying X509Source rotates certificates in the background, so a
// transport built from it keeps working across rotations. Call Close when the
// console shuts down.
type Source struct {
	mu     sync.RWMutex
	source *workloadapi.X509Source

	closeOnce sync.Once
	closeErr  error
}

// NewSource connects to the Workload API at socket and waits for the first SVID.
//
// An empty socket lets the SDK read SPIFFE_ENDPOINT_SOCKET. ctx bounds only the
// initial fetch; rotation keeps running until Close.
func NewSource(ctx context.Context, socket string) (*Source, error) {
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}

	var opts []workloadapi.X509SourceOption
	if socket != "" {
		opts = append(opts, workloadapi.WithClientOptions(workloadapi.WithAddr(normalizeToAddr(socket))))
	}

	x509src, err := workloadapi.NewX509Source(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create X509Source: %w", err)
	}
	return &Source{source: x509src}, nil
}

// X509Source returns the SDK source, or nil after Close.
func (s *Source) X509Source() *workloadapi.X509Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Close releases the Workload API connection. Safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.source != nil {
			s.closeErr = s.source.Close()
			s.source = nil
		}
	})
	return s.closeErr
}

// normalizeToAddr prefixes bare filesystem paths with unix://.
//
//   - "unix:///tmp/agent.sock" → unchanged
//   - "tcp://agent:8081" → unchanged
//   - "/tmp/agent.sock" → "unix:///tmp/agent.sock"
func normalizeToAddr(raw string) string {
	if strings.HasPrefix(raw, "unix://") || strings.HasPrefix(raw, "tcp://") {
		return raw
	}
	return "unix://" + raw
}
