// ABOUTME: Session token sources for authenticated backend requests
// ABOUTME: Wraps oauth2 token sources and provides the non-production fallback
package api

import (
	"os"

	"golang.org/x/oauth2"
)

// fallbackToken is substituted outside production when no real session token
// is configured, so demo environments still get past the auth middleware.
const fallbackToken = "dev-token"

type oauthSource struct {
	src oauth2.TokenSource
}

func (s oauthSource) Token() (string, error) {
	tok, err := s.src.Token()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// OAuthTokenSource adapts an oauth2.TokenSource, so a refreshing session
// source can back the Authorization header.
func OAuthTokenSource(src oauth2.TokenSource) TokenSource {
	return oauthSource{src: src}
}

// StaticTokenSource returns a source that always yields the given token.
func StaticTokenSource(token string) TokenSource {
	return OAuthTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// DefaultTokenSource resolves the session token from CRM_TOKEN. When unset
// and CRM_ENV is not "production", the dev fallback token is used.
func DefaultTokenSource() TokenSource {
	token := os.Getenv("CRM_TOKEN")
	if token == "" && os.Getenv("CRM_ENV") != "production" {
		token = fallbackToken
	}
	return StaticTokenSource(token)
}
