package security

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestInviteTokenRoundTrip(t *testing.T) {
	token, err := GenerateInviteToken(42, 7, "nonce-abc", time.Hour, testSecret)
	if err != nil {
		t.Fatalf("GenerateInviteToken failed: %v", err)
	}

	claims, err := ValidateInviteToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateInviteToken failed: %v", err)
	}
	if claims.MembershipID != 42 || claims.WorkspaceID != 7 || claims.Nonce != "nonce-abc" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestInviteTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateInviteToken(1, 1, "n", time.Hour, testSecret)
	if err != nil {
		t.Fatalf("GenerateInviteToken failed: %v", err)
	}
	if _, err := ValidateInviteToken(token, "other-secret"); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func TestInviteTokenRejectsTampering(t *testing.T) {
	token, err := GenerateInviteToken(1, 1, "n", time.Hour, testSecret)
	if err != nil {
		t.Fatalf("GenerateInviteToken failed: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "x." + parts[1]
	if _, err := ValidateInviteToken(tampered, testSecret); err == nil {
		t.Fatalf("expected tampered payload to be rejected")
	}

	if _, err := ValidateInviteToken("not-a-token", testSecret); err == nil {
		t.Fatalf("expected malformed token to be rejected")
	}
}

func TestInviteTokenExpiry(t *testing.T) {
	token, err := GenerateInviteToken(1, 1, "n", -time.Minute, testSecret)
	if err != nil {
		t.Fatalf("GenerateInviteToken failed: %v", err)
	}
	if _, err := ValidateInviteToken(token, testSecret); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestInviteTokenRequiresSecret(t *testing.T) {
	if _, err := GenerateInviteToken(1, 1, "n", time.Hour, ""); err == nil {
		t.Fatalf("expected generation without secret to fail")
	}
	if _, err := ValidateInviteToken("a.b", ""); err == nil {
		t.Fatalf("expected validation without secret to fail")
	}
}
