package auth

import (
	"bytes"
	"context"
	"testing"
)

func TestDigestDeterministic(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}

	d1 := Digest("pw1", salt)
	d2 := Digest("pw1", salt)
	if !bytes.Equal(d1, d2) {
		t.Error("same secret and salt should produce the same digest")
	}
	if len(d1) != digestSize {
		t.Errorf("digest length = %d, want %d", len(d1), digestSize)
	}

	if bytes.Equal(d1, Digest("pw2", salt)) {
		t.Error("different secrets should produce different digests")
	}

	other, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if bytes.Equal(d1, Digest("pw1", other)) {
		t.Error("different salts should produce different digests")
	}
}

func TestVerifySecret(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	digest := Digest("pw1", salt)

	if !VerifySecret("pw1", salt, digest) {
		t.Error("correct secret should verify")
	}
	if VerifySecret("pw-wrong", salt, digest) {
		t.Error("wrong secret should not verify")
	}
}

func TestPolicyCheck(t *testing.T) {
	p := Policy{Domain: "nttdata.com"}

	tests := []struct {
		email string
		ok    bool
	}{
		{"alice@nttdata.com", true},
		{"Alice@NTTDATA.COM", true},
		{"alice@gmail.com", false},
		{"alice@nttdata.com.evil.com", false},
		{"", false},
		{"nttdata.com", false},
	}
	for _, tt := range tests {
		err := p.Check(tt.email)
		if tt.ok && err != nil {
			t.Errorf("Check(%q) = %v, want nil", tt.email, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("Check(%q) = nil, want ErrPolicyViolation", tt.email)
		}
	}
}

func TestAuthContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := FromContext(ctx); ok {
		t.Error("empty context should not carry auth")
	}
	if IsAdmin(ctx) {
		t.Error("empty context should not be admin")
	}

	ctx = WithAuth(ctx, AuthContext{AccountID: 1, Email: "a@nttdata.com", Role: "admin", SessionID: 7})
	if got := Email(ctx); got != "a@nttdata.com" {
		t.Errorf("Email = %q", got)
	}
	if !IsAdmin(ctx) {
		t.Error("expected admin")
	}
}
