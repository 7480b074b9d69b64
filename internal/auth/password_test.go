package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := Verify("123", hash)
	if err != nil || !ok {
		t.Fatalf("expected password to match, ok=%v err=%v", ok, err)
	}

	ok, err = Verify("1234", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	hash, err := HashBcrypt("123")
	if err != nil {
		t.Fatalf("bcrypt hash: %v", err)
	}
	if !IsBcryptHash(hash) {
		t.Fatalf("expected bcrypt prefix, got %q", hash[:4])
	}

	if ok, err := Verify("123", hash); err != nil || !ok {
		t.Fatalf("expected bcrypt match, ok=%v err=%v", ok, err)
	}
	if ok, err := Verify("errada", hash); err != nil || ok {
		t.Fatalf("expected bcrypt mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if ok, err := Verify("123", "not-a-hash"); ok || err == nil {
		t.Fatalf("expected error for malformed hash, ok=%v err=%v", ok, err)
	}
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := PrincipalFrom(ctx); ok {
		t.Fatalf("expected no principal in empty context")
	}

	p := &Principal{ID: uuid.New(), Email: "bill@mail.com", Authorities: []string{"ROLE_TECNICO", "ROLE_ADMIN"}}
	got, ok := PrincipalFrom(WithPrincipal(ctx, p))
	if !ok || got != p {
		t.Fatalf("expected principal from context")
	}

	if !got.HasAuthority("ROLE_ADMIN") {
		t.Fatalf("expected ROLE_ADMIN")
	}
	if got.HasAuthority("ROLE_CLIENTE") {
		t.Fatalf("did not expect ROLE_CLIENTE")
	}

	var nilPrincipal *Principal
	if nilPrincipal.HasAuthority("ROLE_ADMIN") {
		t.Fatalf("nil principal must hold no authority")
	}
}
