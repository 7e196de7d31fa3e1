package security

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type fakeBootstrapSource struct {
	mu    sync.Mutex
	key   string
	err   error
	calls int
}

func (s *fakeBootstrapSource) Key(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.key, s.err
}

func (s *fakeBootstrapSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testBootstrapB64(t *testing.T) string {
	t.Helper()
	_, pub, err := NewTestKeyPair()
	if err != nil {
		t.Fatalf("NewTestKeyPair: %v", err)
	}
	pemStr, err := EncodePublicKeyPEM(pub)
	if err != nil {
		t.Fatalf("EncodePublicKeyPEM: %v", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(pemStr))
}

func TestKeyProvider_LocalKeyWins(t *testing.T) {
	_, pub, err := NewTestKeyPair()
	if err != nil {
		t.Fatalf("NewTestKeyPair: %v", err)
	}
	pemStr, err := EncodePublicKeyPEM(pub)
	if err != nil {
		t.Fatalf("EncodePublicKeyPEM: %v", err)
	}
	source := &fakeBootstrapSource{}
	p := NewKeyProvider(pemStr, source)

	got := p.Verification(context.Background())
	if got == nil {
		t.Fatal("Verification returned nil with local key configured")
	}
	if got.N.Cmp(pub.N) != 0 {
		t.Error("Verification returned a different key than configured")
	}
	if source.callCount() != 0 {
		t.Errorf("bootstrap source called %d times, want 0", source.callCount())
	}
}

func TestKeyProvider_LocalKeyFromFile(t *testing.T) {
	_, pub, err := NewTestKeyPair()
	if err != nil {
		t.Fatalf("NewTestKeyPair: %v", err)
	}
	pemStr, err := EncodePublicKeyPEM(pub)
	if err != nil {
		t.Fatalf("EncodePublicKeyPEM: %v", err)
	}
	path := filepath.Join(t.TempDir(), "id_rsa.pub")
	if err := os.WriteFile(path, []byte(pemStr), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := NewKeyProvider(path, nil)
	if p.Verification(context.Background()) == nil {
		t.Fatal("Verification returned nil for a valid key file")
	}
}

func TestKeyProvider_BootstrapFetchedOnce(t *testing.T) {
	b64 := testBootstrapB64(t)
	source := &fakeBootstrapSource{key: b64}
	p := NewKeyProvider("", source)

	first := p.Verification(context.Background())
	if first == nil {
		t.Fatal("Verification returned nil after successful bootstrap")
	}
	second := p.Verification(context.Background())
	if second != first {
		t.Error("Verification should return the cached key")
	}
	if source.callCount() != 1 {
		t.Errorf("bootstrap source called %d times, want 1", source.callCount())
	}
}

func TestKeyProvider_BootstrapFailureCached(t *testing.T) {
	source := &fakeBootstrapSource{err: errors.New("connection refused")}
	p := NewKeyProvider("", source)

	if p.Verification(context.Background()) != nil {
		t.Fatal("Verification should return nil when bootstrap fetch fails")
	}
	// Fail-closed and never re-fetched for the process lifetime.
	if p.Verification(context.Background()) != nil {
		t.Fatal("Verification should stay nil after a failed bootstrap")
	}
	if source.callCount() != 1 {
		t.Errorf("bootstrap source called %d times, want 1", source.callCount())
	}
}

func TestKeyProvider_BootstrapGarbage(t *testing.T) {
	testCases := []struct {
		name string
		key  string
	}{
		{"empty record", ""},
		{"not base64", "%%%not-base64%%%"},
		{"base64 of garbage", base64.StdEncoding.EncodeToString([]byte("not a key"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewKeyProvider("", &fakeBootstrapSource{key: tc.key})
			if p.Verification(context.Background()) != nil {
				t.Error("Verification should return nil for unusable bootstrap material")
			}
		})
	}
}

func TestKeyProvider_UnparsableLocalFallsBack(t *testing.T) {
	b64 := testBootstrapB64(t)
	source := &fakeBootstrapSource{key: b64}
	p := NewKeyProvider("/nonexistent/id_rsa.pub", source)

	if p.Verification(context.Background()) == nil {
		t.Fatal("Verification should fall back to bootstrap when local key is unreadable")
	}
	if source.callCount() != 1 {
		t.Errorf("bootstrap source called %d times, want 1", source.callCount())
	}
}

func TestKeyProvider_NoSourceNoKey(t *testing.T) {
	p := NewKeyProvider("", nil)
	if p.Verification(context.Background()) != nil {
		t.Error("Verification should return nil with no local key and no source")
	}
}
