// Package idtokentest mints RS256 ID tokens and serves the matching JWKS
// for tests.
package idtokentest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

// Key is an RSA signing key with a key ID.
type Key struct {
	ID      string
	Private *rsa.PrivateKey
}

// NewKey generates a 2048-bit RSA key.
func NewKey(t testing.TB, kid string) *Key {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating rsa key: %v", err)
	}
	return &Key{ID: kid, Private: pk}
}

// JWK returns the public half as a JSON Web Key.
func (k *Key) JWK() jose.JSONWebKey {
	return jose.JSONWebKey{
		Key:       &k.Private.PublicKey,
		KeyID:     k.ID,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}
}

// Sign mints an RS256 JWT with the kid header set.
func (k *Key) Sign(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = k.ID
	s, err := tok.SignedString(k.Private)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

// Claims returns a valid claim set for issuer and audience, expiring in an hour.
func Claims(issuer, audience, subject string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

// Server serves a JWKS document and counts how often it was fetched.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	keys         []jose.JSONWebKey
	cacheControl string
	delay        time.Duration
	fetches      atomic.Int64
}

// NewServer starts a JWKS server publishing keys. It is closed on test cleanup.
func NewServer(t testing.TB, keys ...*Key) *Server {
	t.Helper()
	s := &Server{}
	s.SetKeys(keys...)
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// SetKeys replaces the published keys.
func (s *Server) SetKeys(keys ...*Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = s.keys[:0]
	for _, k := range keys {
		s.keys = append(s.keys, k.JWK())
	}
}

// SetCacheControl sets the Cache-Control header sent with the JWKS.
func (s *Server) SetCacheControl(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheControl = v
}

// SetDelay slows every response down, to widen race windows in tests.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Fetches reports how many times the JWKS was served.
func (s *Server) Fetches() int64 {
	return s.fetches.Load()
}

func (s *Server) serve(w http.ResponseWriter, _ *http.Request) {
	s.fetches.Add(1)

	s.mu.Lock()
	set := jose.JSONWebKeySet{Keys: append([]jose.JSONWebKey(nil), s.keys...)}
	cc, delay := s.cacheControl, s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	w.Header().Set("Content-Type", "application/json")
	if cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
	_ = json.NewEncoder(w).Encode(set)
}
