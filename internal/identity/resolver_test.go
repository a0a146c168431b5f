package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/cartcore/pkg/errors"
)

func newTestResolver(t *testing.T, now time.Time) *Resolver {
	t.Helper()
	resolver, err := NewResolver(testSessionConfig())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver.WithClock(func() time.Time { return now })
}

func TestResolveAbsentCredential(t *testing.T) {
	resolver := newTestResolver(t, time.Now())

	_, err := resolver.Resolve("")
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidCredential) {
		t.Fatalf("expected invalid credential, got %v", err)
	}
	if reason, ok := ReasonOf(err); !ok || reason != ReasonAbsent {
		t.Fatalf("expected absent reason, got %v %v", reason, ok)
	}
}

func TestResolveMalformedCredential(t *testing.T) {
	resolver := newTestResolver(t, time.Now())

	_, err := resolver.Resolve("not-a-credential")
	if reason, ok := ReasonOf(err); !ok || reason != ReasonMalformed {
		t.Fatalf("expected malformed reason, got %v (%v)", reason, err)
	}
}

func TestResolveExpiredCredential(t *testing.T) {
	minted := time.Now().Add(-2 * time.Hour)
	token, err := MintSessionToken(testSessionConfig(), minted, SessionPayload{Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	resolver := newTestResolver(t, time.Now())
	_, err = resolver.Resolve(token)
	if reason, ok := ReasonOf(err); !ok || reason != ReasonExpired {
		t.Fatalf("expected expired reason, got %v (%v)", reason, err)
	}
}

func TestResolveValidCredential(t *testing.T) {
	now := time.Now()
	userID := uuid.New()
	token, err := MintSessionToken(testSessionConfig(), now, SessionPayload{
		Email:  "Ana@Example.com",
		UserID: userID,
		Role:   "admin",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	resolver := newTestResolver(t, now)
	identity, err := resolver.Resolve(token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if identity.Token != "ana@example.com" {
		t.Fatalf("expected normalized token, got %q", identity.Token)
	}
	if identity.Email != "Ana@Example.com" {
		t.Fatalf("email snapshot lost, got %q", identity.Email)
	}
	if identity.UserID != userID {
		t.Fatalf("user id mismatch")
	}
	if identity.Role != "admin" {
		t.Fatalf("role mismatch, got %q", identity.Role)
	}
	if identity.ExpiresAt.Before(now) {
		t.Fatalf("expiry should be in the future, got %v", identity.ExpiresAt)
	}
}

func TestResolveIsPure(t *testing.T) {
	resolver := newTestResolver(t, time.Now())

	// Resolving the same garbage twice yields the same classification and
	// touches nothing else.
	for i := 0; i < 2; i++ {
		_, err := resolver.Resolve("garbage")
		if reason, ok := ReasonOf(err); !ok || reason != ReasonMalformed {
			t.Fatalf("call %d: expected malformed, got %v", i, reason)
		}
	}
}

func TestReasonOfRejectsOtherErrors(t *testing.T) {
	if _, ok := ReasonOf(nil); ok {
		t.Fatal("nil error has no reason")
	}
	if _, ok := ReasonOf(pkgerrors.New(pkgerrors.CodeStoreWrite, "boom")); ok {
		t.Fatal("non-credential errors have no reason")
	}
}

func TestNewResolverRequiresSecret(t *testing.T) {
	cfg := testSessionConfig()
	cfg.Secret = ""
	if _, err := NewResolver(cfg); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
