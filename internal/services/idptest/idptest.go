// Package idptest runs a fake identity provider that publishes a JWKS and
// signs RS256 identity tokens for tests.
package idptest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
	"github.com/golang-jwt/jwt/v5"
)

const ProjectID = "community-test"

type Provider struct {
	Server *httptest.Server
	Key    *rsa.PrivateKey
	Kid    string

	fetches atomic.Int64
}

// New starts a provider that is shut down when the test ends.
func New(t testing.TB) *Provider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	p := &Provider{Key: key, Kid: "test-key-1"}

	jwks := services.JWKS{Keys: []services.JWK{{
		Kty: "RSA",
		Kid: p.Kid,
		Use: "sig",
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}}}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(p.Server.Close)
	return p
}

func (p *Provider) Issuer() string {
	return "https://securetoken.google.com/" + ProjectID
}

// Fetches reports how many times the JWKS endpoint was hit.
func (p *Provider) Fetches() int64 {
	return p.fetches.Load()
}

func (p *Provider) Verifier() *services.TokenVerifier {
	return services.NewTokenVerifier(services.NewJWKSClient(p.Server.URL, time.Hour), p.Issuer(), ProjectID)
}

// Claims returns valid claims for sub, expiring in an hour.
func (p *Provider) Claims(sub string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   p.Issuer(),
		"aud":   ProjectID,
		"sub":   sub,
		"email": sub + "@example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

// Sign returns claims signed with the published key.
func (p *Provider) Sign(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = p.Kid
	raw, err := token.SignedString(p.Key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

// Token is a valid bearer token for sub.
func (p *Provider) Token(t testing.TB, sub string) string {
	return p.Sign(t, p.Claims(sub))
}
