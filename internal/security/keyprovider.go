package security

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"log"
	"strings"
	"sync"
)

// BootstrapSource supplies the base64-encoded PEM verification key stored
// alongside the application data for deployments without a local key file.
type BootstrapSource interface {
	Key(ctx context.Context) (string, error)
}

// KeyProvider resolves the RSA verification key once and caches it for the
// life of the process. A locally configured key wins; otherwise the first
// Verification call performs exactly one bootstrap read from the store.
// Key rotation requires a process restart.
type KeyProvider struct {
	mu       sync.Mutex
	source   BootstrapSource
	key      *rsa.PublicKey
	resolved bool
}

// NewKeyProvider builds a KeyProvider. localPEM may be inline PEM, a path to
// a key file, or empty. A missing or unparsable local key is logged and falls
// back to the bootstrap path rather than failing startup, matching the
// behavior of deployments that mount the key file late or not at all.
func NewKeyProvider(localPEM string, source BootstrapSource) *KeyProvider {
	p := &KeyProvider{source: source}
	if strings.TrimSpace(localPEM) == "" {
		return p
	}
	key, err := ParsePublicKey(localPEM)
	if err != nil {
		log.Printf("keyprovider: local verification key unusable, falling back to bootstrap: %v", err)
		return p
	}
	p.key = key
	p.resolved = true
	return p
}

// Verification returns the cached verification key, fetching it from the
// bootstrap record on first call when no local key was configured. Returns
// nil when no key could be resolved; callers fail closed on a nil key.
// At most one store round trip happens per process lifetime on this path;
// a failed fetch is cached as "no key" and never re-attempted.
func (p *KeyProvider) Verification(ctx context.Context) *rsa.PublicKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved {
		return p.key
	}
	p.resolved = true
	if p.source == nil {
		log.Printf("keyprovider: no local key and no bootstrap source; all credentials will be rejected")
		return nil
	}
	b64, err := p.source.Key(ctx)
	if err != nil {
		log.Printf("keyprovider: bootstrap key fetch failed: %v", err)
		return nil
	}
	if b64 == "" {
		log.Printf("keyprovider: bootstrap key record is empty")
		return nil
	}
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		log.Printf("keyprovider: bootstrap key is not valid base64: %v", err)
		return nil
	}
	key, err := ParsePublicKey(string(pemBytes))
	if err != nil {
		log.Printf("keyprovider: bootstrap key is not a valid RSA public key: %v", err)
		return nil
	}
	p.key = key
	return p.key
}
