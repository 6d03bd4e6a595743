// Package jwks caches provider signing keys and verifies JWS signatures
// against them. KeySet satisfies oidc.KeySet.
package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"fedauth/internal/metrics"
)

// ErrNoMatchingKey is returned when no cached key verifies the signature.
var ErrNoMatchingKey = errors.New("jwks: no matching key")

// SupportedAlgorithms are the signature algorithms accepted from Google and Apple.
var SupportedAlgorithms = []jose.SignatureAlgorithm{jose.RS256}

const maxBodyBytes = 1 << 20

var _ oidc.KeySet = (*KeySet)(nil)

// Config configures a KeySet.
type Config struct {
	// Name labels log lines and metrics, usually the provider name.
	Name string
	URL  string
	// DefaultTTL applies when the response carries no Cache-Control max-age.
	DefaultTTL time.Duration
	// MinRefreshInterval bounds how often an unknown kid may force a refetch.
	MinRefreshInterval time.Duration
	FetchTimeout       time.Duration
	HTTPClient         *http.Client
	Now                func() time.Time
}

// KeySet is a process-wide JWKS cache for one provider.
// Concurrent cache misses share a single fetch.
type KeySet struct {
	cfg   Config
	group singleflight.Group

	mu        sync.RWMutex
	keys      []jose.JSONWebKey
	expiry    time.Time
	fetchedAt time.Time
}

// New creates a KeySet. Keys are fetched lazily on first use.
func New(cfg Config) *KeySet {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Hour
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	return &KeySet{cfg: cfg}
}

// VerifySignature verifies the JWS and returns its payload.
func (k *KeySet) VerifySignature(ctx context.Context, raw string) ([]byte, error) {
	jws, err := jose.ParseSigned(raw, SupportedAlgorithms)
	if err != nil {
		return nil, fmt.Errorf("jwks: malformed jws: %w", err)
	}
	if len(jws.Signatures) == 0 {
		return nil, errors.New("jwks: jws has no signatures")
	}
	kid := jws.Signatures[0].Header.KeyID

	keys, err := k.keysFor(ctx, kid)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if kid != "" && keys[i].KeyID != kid {
			continue
		}
		if payload, err := jws.Verify(&keys[i]); err == nil {
			return payload, nil
		}
	}
	return nil, ErrNoMatchingKey
}

// keysFor returns the cached keys, refreshing when the cache is stale or
// does not know kid and the refresh throttle allows it.
func (k *KeySet) keysFor(ctx context.Context, kid string) ([]jose.JSONWebKey, error) {
	now := k.cfg.Now()

	k.mu.RLock()
	keys, expiry, fetchedAt := k.keys, k.expiry, k.fetchedAt
	k.mu.RUnlock()

	if keys != nil && now.Before(expiry) {
		if kid == "" || hasKey(keys, kid) {
			return keys, nil
		}
		if now.Sub(fetchedAt) < k.cfg.MinRefreshInterval {
			return keys, nil
		}
	}

	v, err, _ := k.group.Do("keys", func() (any, error) {
		k.mu.RLock()
		current, currentFetchedAt := k.keys, k.fetchedAt
		k.mu.RUnlock()
		// Another caller refreshed after we looked.
		if current != nil && currentFetchedAt.After(fetchedAt) {
			return current, nil
		}
		return k.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		if keys != nil {
			log.Ctx(ctx).Warn().Err(err).Str("provider", k.cfg.Name).Msg("jwks refresh failed, using stale keys")
			return keys, nil
		}
		return nil, err
	}
	return v.([]jose.JSONWebKey), nil
}

func (k *KeySet) refresh(ctx context.Context) ([]jose.JSONWebKey, error) {
	ctx, cancel := context.WithTimeout(ctx, k.cfg.FetchTimeout)
	defer cancel()

	keys, ttl, err := k.fetch(ctx)
	if err != nil {
		metrics.RecordKeySetFetch(k.cfg.Name, "error")
		return nil, err
	}
	metrics.RecordKeySetFetch(k.cfg.Name, "ok")

	now := k.cfg.Now()
	k.mu.Lock()
	k.keys = keys
	k.fetchedAt = now
	k.expiry = now.Add(ttl)
	k.mu.Unlock()

	log.Ctx(ctx).Debug().
		Str("provider", k.cfg.Name).
		Int("keys", len(keys)).
		Dur("ttl", ttl).
		Msg("jwks refreshed")
	return keys, nil
}

func (k *KeySet) fetch(ctx context.Context) ([]jose.JSONWebKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.cfg.URL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("jwks: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := k.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("jwks: fetching %s: %w", k.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("jwks: fetching %s: unexpected status %d", k.cfg.URL, resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&set); err != nil {
		return nil, 0, fmt.Errorf("jwks: decoding response: %w", err)
	}
	if len(set.Keys) == 0 {
		return nil, 0, errors.New("jwks: response contains no keys")
	}

	ttl := k.cfg.DefaultTTL
	if maxAge, ok := parseMaxAge(resp.Header.Get("Cache-Control")); ok {
		ttl = maxAge
	}
	return set.Keys, ttl, nil
}

func hasKey(keys []jose.JSONWebKey, kid string) bool {
	for i := range keys {
		if keys[i].KeyID == kid {
			return true
		}
	}
	return false
}

// parseMaxAge extracts max-age from a Cache-Control header value.
func parseMaxAge(header string) (time.Duration, bool) {
	for _, directive := range strings.Split(header, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(directive), "=")
		if !found || !strings.EqualFold(name, "max-age") {
			continue
		}
		secs, err := strconv.Atoi(strings.Trim(value, `"`))
		if err != nil || secs <= 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}
