// Package idtoken verifies OpenID Connect ID tokens against a fixed issuer,
// a list of accepted audiences and a key set.
package idtoken

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"

	"fedauth/internal/auth/jwks"
	"fedauth/internal/domain"
)

// Config configures a Verifier.
type Config struct {
	Issuer    string
	Audiences []string
	KeySet    oidc.KeySet
	Now       func() time.Time
}

// Verifier checks signature, issuer, expiry and audience.
type Verifier struct {
	audiences []string
	oidc      *oidc.IDTokenVerifier
}

// NewVerifier validates cfg and builds a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("idtoken: issuer is required")
	}
	if len(cfg.Audiences) == 0 {
		return nil, errors.New("idtoken: at least one audience is required")
	}
	if cfg.KeySet == nil {
		return nil, errors.New("idtoken: key set is required")
	}

	algs := make([]string, 0, len(jwks.SupportedAlgorithms))
	for _, a := range jwks.SupportedAlgorithms {
		algs = append(algs, string(a))
	}

	// Audience is checked against the full list below.
	v := oidc.NewVerifier(cfg.Issuer, cfg.KeySet, &oidc.Config{
		SkipClientIDCheck:    true,
		SupportedSigningAlgs: algs,
		Now:                  cfg.Now,
	})
	return &Verifier{audiences: cfg.Audiences, oidc: v}, nil
}

// Verify returns the verified token. All failures are *domain.TokenError.
func (v *Verifier) Verify(ctx context.Context, raw string) (*oidc.IDToken, error) {
	tok, err := v.oidc.Verify(ctx, raw)
	if err != nil {
		return nil, classify(err)
	}
	if !v.acceptsAudience(tok.Audience) {
		return nil, domain.NewTokenError("audience mismatch")
	}
	if tok.Subject == "" {
		return nil, domain.NewTokenError("malformed token")
	}
	return tok, nil
}

func (v *Verifier) acceptsAudience(aud []string) bool {
	for _, a := range aud {
		for _, want := range v.audiences {
			if a == want {
				return true
			}
		}
	}
	return false
}

// classify maps go-oidc errors to client-safe reasons. go-oidc exposes a
// typed error only for expiry, the rest are matched on message.
func classify(err error) error {
	var expired *oidc.TokenExpiredError
	if errors.As(err, &expired) {
		return domain.NewTokenError("token is expired")
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "issued by a different provider"):
		return domain.NewTokenError("issuer mismatch")
	case strings.Contains(msg, "failed to verify signature"):
		return domain.NewTokenError("signature verification failed")
	case strings.Contains(msg, "before the nbf"):
		return domain.NewTokenError("token is not yet valid")
	case strings.Contains(msg, "unsupported algorithm"):
		return domain.NewTokenError("signature verification failed")
	default:
		return domain.NewTokenError("malformed token")
	}
}

// Bool decodes claims that providers send either as a JSON bool or as the
// strings "true" and "false". Apple does the latter.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*b = false
	case bool:
		*b = Bool(t)
	case string:
		if t == "" {
			*b = false
			return nil
		}
		parsed, err := strconv.ParseBool(t)
		if err != nil {
			return fmt.Errorf("idtoken: invalid boolean claim %q", t)
		}
		*b = Bool(parsed)
	default:
		return fmt.Errorf("idtoken: invalid boolean claim %s", string(data))
	}
	return nil
}
