package services

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidIDToken = errors.New("invalid or expired identity token")
	ErrUnknownKeyID   = errors.New("signing key not found")
)

// Principal is an authenticated caller.
type Principal struct {
	ID     string
	Email  string
	Claims jwt.MapClaims
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSClient fetches and caches the identity provider's RSA signing keys.
type JWKSClient struct {
	httpClient *http.Client
	jwksURL    string
	ttl        time.Duration

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

func NewJWKSClient(jwksURL string, ttl time.Duration) *JWKSClient {
	return &JWKSClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		jwksURL:    jwksURL,
		ttl:        ttl,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

func (c *JWKSClient) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build JWKS request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		if jwk.Kty != "RSA" {
			continue
		}
		pubKey, err := parseRSAPublicKey(jwk.N, jwk.E)
		if err != nil {
			continue
		}
		keys[jwk.Kid] = pubKey
	}

	c.mu.Lock()
	c.keys = keys
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()
	return nil
}

func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e == 0 {
		return nil, errors.New("empty exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}

// PublicKey returns the key for kid, refetching the set when the cache has
// expired or does not know the id.
func (c *JWKSClient) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := time.Now().Before(c.expiresAt)
	c.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := c.fetchKeys(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if key, ok := c.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %s", ErrUnknownKeyID, kid)
}

// TokenVerifier checks identity tokens issued for one project.
type TokenVerifier struct {
	keys     *JWKSClient
	issuer   string
	audience string
}

func NewTokenVerifier(keys *JWKSClient, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{keys: keys, issuer: issuer, audience: audience}
}

// Keyfunc resolves the verification key of an RS256 token by its kid header.
func (v *TokenVerifier) Keyfunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
		return nil, fmt.Errorf("unsupported algorithm: %s", token.Method.Alg())
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("missing kid header")
	}
	return v.keys.PublicKey(context.Background(), kid)
}

// Principal validates the claims of a token whose signature has already
// been checked.
func (v *TokenVerifier) Principal(token *jwt.Token) (*Principal, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidIDToken
	}

	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil || !time.Now().Before(exp.Time) {
		return nil, fmt.Errorf("%w: expired or missing exp", ErrInvalidIDToken)
	}
	if iss, err := claims.GetIssuer(); err != nil || iss != v.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidIDToken)
	}
	if aud, err := claims.GetAudience(); err != nil || !slices.Contains(aud, v.audience) {
		return nil, fmt.Errorf("%w: unexpected audience", ErrInvalidIDToken)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" || len(sub) > 128 {
		return nil, fmt.Errorf("%w: invalid subject", ErrInvalidIDToken)
	}

	email, _ := claims["email"].(string)
	return &Principal{ID: sub, Email: email, Claims: claims}, nil
}

// Verify parses a raw bearer token and returns its principal.
func (v *TokenVerifier) Verify(raw string) (*Principal, error) {
	token, err := jwt.Parse(raw, v.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	return v.Principal(token)
}
