// Package oidc verifies admin bearer tokens issued by the Keycloak realm.
package oidc

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/halcyonmedia/site-services/pkg/middleware"
)

// Verifier wraps the discovered provider's ID token verifier.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// IssuerURL returns the issuer of realm on a Keycloak server.
func IssuerURL(base, realm string) string {
	return strings.TrimRight(base, "/") + "/realms/" + realm
}

// NewVerifier discovers the issuer and returns a verifier for clientID.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
