package model

import "time"

// Session is the credential persisted in the encrypted session cookie. It is
// owned by the session store: only token exchange and token refresh mutate it.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	OpenID       string `json:"openId"`
	ExpiresAt    int64  `json:"expiresAt"` // epoch millis, true expiry of AccessToken
	Scope        string `json:"scope"`
}

// NeedsRefresh reports whether the access token is within skew of expiry.
func (s *Session) NeedsRefresh(now time.Time, skew time.Duration) bool {
	return now.UnixMilli() >= s.ExpiresAt-skew.Milliseconds()
}

// SessionFromTokens builds a session from a token-endpoint response.
func SessionFromTokens(t *TokenResponse, now time.Time) *Session {
	return &Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		OpenID:       t.OpenID,
		ExpiresAt:    now.UnixMilli() + t.ExpiresIn*1000,
		Scope:        t.Scope,
	}
}
