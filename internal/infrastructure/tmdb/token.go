package tmdb

import (
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenInfo is what the read access token says about itself.
type AccessTokenInfo struct {
	Subject   string
	Audience  []string
	Scopes    []string
	ExpiresAt *time.Time
}

// IssuedFor reports whether the token audience names apiKey.
func (i *AccessTokenInfo) IssuedFor(apiKey string) bool {
	return slices.Contains(i.Audience, apiKey)
}

// InspectAccessToken decodes the TMDB read access token without verifying its
// signature; TMDB is the only party that can verify it. An expired token is
// returned together with ErrAccessTokenExpired.
func InspectAccessToken(token string, now time.Time) (*AccessTokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAccessToken, err)
	}

	info := &AccessTokenInfo{}
	info.Subject, _ = claims.GetSubject()
	if aud, err := claims.GetAudience(); err == nil {
		info.Audience = aud
	}
	if raw, ok := claims["scopes"].([]any); ok {
		for _, s := range raw {
			if str, ok := s.(string); ok {
				info.Scopes = append(info.Scopes, str)
			}
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
		if t.Before(now) {
			return info, ErrAccessTokenExpired
		}
	}
	return info, nil
}
