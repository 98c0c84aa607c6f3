package services_test

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services/idptest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_ValidToken(t *testing.T) {
	idp := idptest.New(t)
	verifier := idp.Verifier()

	principal, err := verifier.Verify(idp.Token(t, "uid-1"))
	require.NoError(t, err)
	assert.Equal(t, "uid-1", principal.ID)
	assert.Equal(t, "uid-1@example.com", principal.Email)

	_, err = verifier.Verify(idp.Token(t, "uid-2"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), idp.Fetches())
}

func TestVerify_RejectsBadClaims(t *testing.T) {
	idp := idptest.New(t)
	verifier := idp.Verifier()

	tests := map[string]func(jwt.MapClaims){
		"wrong audience": func(c jwt.MapClaims) { c["aud"] = "other-project" },
		"wrong issuer":   func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com" },
		"expired":        func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() },
		"missing exp":    func(c jwt.MapClaims) { delete(c, "exp") },
		"empty subject":  func(c jwt.MapClaims) { c["sub"] = "" },
		"long subject":   func(c jwt.MapClaims) { c["sub"] = strings.Repeat("a", 129) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			claims := idp.Claims("uid-1")
			mutate(claims)

			_, err := verifier.Verify(idp.Sign(t, claims))
			assert.ErrorIs(t, err, services.ErrInvalidIDToken)
		})
	}
}

func TestVerify_RejectsUnknownSigner(t *testing.T) {
	idp := idptest.New(t)
	verifier := idp.Verifier()

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	unknownKid := jwt.NewWithClaims(jwt.SigningMethodRS256, idp.Claims("uid-1"))
	unknownKid.Header["kid"] = "rotated-away"
	raw, err := unknownKid.SignedString(idp.Key)
	require.NoError(t, err)
	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, services.ErrInvalidIDToken)

	forged := jwt.NewWithClaims(jwt.SigningMethodRS256, idp.Claims("uid-1"))
	forged.Header["kid"] = idp.Kid
	raw, err = forged.SignedString(other)
	require.NoError(t, err)
	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, services.ErrInvalidIDToken)

	hmac := jwt.NewWithClaims(jwt.SigningMethodHS256, idp.Claims("uid-1"))
	raw, err = hmac.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, services.ErrInvalidIDToken)
}
