package transport

import (
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/spiffe/go-spiffe/v2/bundle/x509bundle"
	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/spiffetls/tlsconfig"
	"github.com/spiffe/go-spiffe/v2/svid/x509svid"
)

// ServerPolicy says which backend identity the console accepts.
// Exactly one field must be set.
type ServerPolicy struct {
	// ServerID requires an exact match, e.g. "spiffe://example.org/catalog".
	ServerID string

	// TrustDomain accepts any server in the trust domain, e.g. "example.org".
	TrustDomain string
}

func (p ServerPolicy) authorizer() (tlsconfig.Authorizer, error) {
	switch {
	case p.ServerID != "" && p.TrustDomain != "":
		return nil, errors.New("server id and trust domain are mutually exclusive")
	case p.ServerID != "":
		id, err := spiffeid.FromString(p.ServerID)
		if err != nil {
			return nil, fmt.Errorf("invalid server id: %w", err)
		}
		return tlsconfig.AuthorizeID(id), nil
	case p.TrustDomain != "":
		td, err := spiffeid.TrustDomainFromString(p.TrustDomain)
		if err != nil {
			return nil, fmt.Errorf("invalid trust domain: %w", err)
		}
		return tlsconfig.AuthorizeMemberOf(td), nil
	default:
		return nil, errors.New("either server id or trust domain must be set")
	}
}

// NewClientTLSConfig returns an mTLS client config that presents the console's
// SVID and verifies the backend against policy. TLS 1.3 is the minimum.
//
// The sources are consulted on every handshake and must outlive the config.
func NewClientTLSConfig(svidSource x509svid.Source, bundleSource x509bundle.Source, policy ServerPolicy) (*tls.Config, error) {
	if svidSource == nil {
		return nil, errors.New("svidSource cannot be nil")
	}
	if bundleSource == nil {
		return nil, errors.New("bundleSource cannot be nil")
	}

	authorizer, err := policy.authorizer()
	if err != nil {
		return nil, err
	}

	tlsCfg := tlsconfig.MTLSClientConfig(svidSource, bundleSource, authorizer)
	tlsCfg.MinVersion = tls.VersionTLS13
	return tlsCfg, nil
}
