// Package dns checks domain delegation before go-live.
package dns

import (
	"context"
	"net"
	"strings"

	"github.com/isomerpages/site-provisioner/internal/application/errs"
)

// LookupFunc resolves the canonical name of a host. It matches
// net.Resolver.LookupCNAME.
type LookupFunc func(ctx context.Context, host string) (string, error)

// Verifier confirms that a custom domain already points at the expected
// target. It is a precondition check only and never modifies DNS.
type Verifier struct {
	lookup LookupFunc
}

func NewVerifier() *Verifier {
	return &Verifier{lookup: net.DefaultResolver.LookupCNAME}
}

// NewVerifierWithLookup is used by tests to substitute the resolver.
func NewVerifierWithLookup(lookup LookupFunc) *Verifier {
	return &Verifier{lookup: lookup}
}

func (v *Verifier) Verify(ctx context.Context, domainName, target string) error {
	cname, err := v.lookup(ctx, domainName)
	if err != nil {
		return errs.DNSVerificationError{Domain: domainName, Target: target, Err: err}
	}
	if !strings.EqualFold(strings.TrimSuffix(cname, "."), strings.TrimSuffix(target, ".")) {
		return errs.DNSVerificationError{
			Domain: domainName,
			Target: target,
			Err:    &net.DNSError{Err: "resolves to " + cname, Name: domainName},
		}
	}
	return nil
}
