package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// InviteTokenClaims binds an emailed invite link to one membership row. The
// Nonce must match the invite_token stored on the membership so revoking an
// invite invalidates already-sent links.
type InviteTokenClaims struct {
	MembershipID uint   `json:"membership_id"`
	WorkspaceID  uint   `json:"workspace_id"`
	Nonce        string `json:"nonce"`
	ExpiresAt    int64  `json:"exp"`
}

func GenerateInviteToken(membershipID, workspaceID uint, nonce string, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required for token generation")
	}
	claims := InviteTokenClaims{
		MembershipID: membershipID,
		WorkspaceID:  workspaceID,
		Nonce:        nonce,
		ExpiresAt:    time.Now().Add(ttl).Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	sig := mac.Sum(nil)
	token := fmt.Sprintf("%s.%s", base64.RawURLEncoding.EncodeToString(payload), base64.RawURLEncoding.EncodeToString(sig))
	return token, nil
}

func ValidateInviteToken(token, secret string) (*InviteTokenClaims, error) {
	if secret == "" {
		return nil, errors.New("secret is required for token validation")
	}
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, errors.New("invalid token format")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errors.New("invalid token payload")
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.New("invalid token signature")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), sig) {
		return nil, errors.New("token signature mismatch")
	}

	var claims InviteTokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.New("invalid token claims")
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, errors.New("token expired")
	}
	return &claims, nil
}
