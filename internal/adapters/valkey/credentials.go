package valkey

import (
	"context"
	"fmt"
)

const credentialKeyPrefix = "roadwatch:credentials:"

// Credentials implements ports.CredentialSource on top of the shared Valkey
// client. Secrets are plain string values under roadwatch:credentials:<name>,
// written by the operator, never by this service.
type Credentials struct {
	cache *Cache
}

// NewCredentials creates a Valkey-backed credential source.
func NewCredentials(cache *Cache) *Credentials {
	return &Credentials{cache: cache}
}

// Credential resolves one named secret.
func (c *Credentials) Credential(ctx context.Context, name string) (string, error) {
	b, err := c.cache.Get(ctx, credentialKeyPrefix+name)
	if err != nil {
		return "", fmt.Errorf("credential %q: %w", name, err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("credential %q is empty", name)
	}
	return string(b), nil
}
