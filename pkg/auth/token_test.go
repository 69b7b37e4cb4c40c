package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abronee/devex/pkg/config"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "devex",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: userID,
		Roles:  []string{"admin", "gov"},
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" || claims.Roles[1] != "gov" {
		t.Fatalf("roles not preserved: %v", claims.Roles)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	valid := config.JWTConfig{Secret: "secret", Issuer: "devex", ExpirationMinutes: 30}
	now := time.Now()

	cases := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
	}{
		{"missing secret", config.JWTConfig{Issuer: "devex", ExpirationMinutes: 30}, AccessTokenPayload{UserID: uuid.New()}},
		{"missing issuer", config.JWTConfig{Secret: "secret", ExpirationMinutes: 30}, AccessTokenPayload{UserID: uuid.New()}},
		{"zero expiry", config.JWTConfig{Secret: "secret", Issuer: "devex"}, AccessTokenPayload{UserID: uuid.New()}},
		{"missing user", valid, AccessTokenPayload{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, now, tc.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret-a", Issuer: "devex", ExpirationMinutes: 30}
	token, err := MintAccessToken(mintCfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	parseCfg := mintCfg
	parseCfg.Secret = "secret-b"
	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected parse failure with the wrong secret")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "devex", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestMintAccessTokenHonorsProvidedJTI(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "devex", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    "custom-jti",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ID != "custom-jti" {
		t.Fatalf("expected custom jti, got %q", claims.ID)
	}
}
