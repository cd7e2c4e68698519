package session

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tiktok-studio/domain/model"
	"tiktok-studio/domain/repository"
	"tiktok-studio/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/scrypt"
)

// kdfSalt is fixed: the secret itself carries the entropy, the KDF only
// stretches it into a uniform 32-byte AES key.
const kdfSalt = "salt"

// TokenRefresher is the one network dependency of the store: exchanging a
// refresh token for a new token pair.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error)
}

// Config represents cookie session store configuration.
type Config struct {
	Secret      string
	CookieName  string
	MaxAge      time.Duration
	RefreshSkew time.Duration
	Secure      bool
}

// Store persists the TikTok credential in an encrypted HTTP-only cookie.
type Store struct {
	key         []byte
	cookieName  string
	maxAge      time.Duration
	refreshSkew time.Duration
	secure      bool
	refresher   TokenRefresher
}

// NewStore derives the cipher key from the configured secret and returns the
// cookie-backed session store.
func NewStore(cfg *Config, refresher TokenRefresher) (repository.ISessionStore, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret required")
	}
	key, err := scrypt.Key([]byte(cfg.Secret), []byte(kdfSalt), 16384, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	s := &Store{
		key:         key,
		cookieName:  cfg.CookieName,
		maxAge:      cfg.MaxAge,
		refreshSkew: cfg.RefreshSkew,
		secure:      cfg.Secure,
		refresher:   refresher,
	}
	if s.cookieName == "" {
		s.cookieName = "tiktok_session"
	}
	if s.maxAge == 0 {
		// Matches the refresh token's validity window, not the access token's.
		s.maxAge = 365 * 24 * time.Hour
	}
	if s.refreshSkew == 0 {
		s.refreshSkew = 5 * time.Minute
	}
	return s, nil
}

// Save serializes, encrypts and writes the session cookie.
func (s *Store) Save(c *gin.Context, session *model.Session) error {
	plain, err := json.Marshal(session)
	if err != nil {
		return err
	}
	sealed, err := s.encrypt(plain)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, sealed, int(s.maxAge.Seconds()), "/", "", s.secure, true)
	return nil
}

// Load decrypts the session cookie. Any decryption or parse failure means
// "no session". When the access token is within the refresh window, Load
// performs one refresh and one cookie write before returning; if the refresh
// fails the credential is cleared. Callers must treat this read as a
// potentially mutating, potentially failing operation.
func (s *Store) Load(c *gin.Context) *model.Session {
	raw, err := c.Cookie(s.cookieName)
	if err != nil || raw == "" {
		return nil
	}
	plain, err := s.decrypt(raw)
	if err != nil {
		return nil
	}
	var session model.Session
	if err := json.Unmarshal(plain, &session); err != nil {
		return nil
	}

	if session.NeedsRefresh(time.Now(), s.refreshSkew) {
		tokens, err := s.refresher.RefreshToken(c.Request.Context(), session.RefreshToken)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Session refresh failed, clearing credential")
			s.Clear(c)
			return nil
		}
		refreshed := model.SessionFromTokens(tokens, time.Now())
		if err := s.Save(c, refreshed); err != nil {
			s.Clear(c)
			return nil
		}
		return refreshed
	}
	return &session
}

// Clear deletes the session cookie unconditionally.
func (s *Store) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, "", -1, "/", "", s.secure, true)
}

func (s *Store) encrypt(plain []byte) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nil, nonce, plain, nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

func (s *Store) decrypt(value string) ([]byte, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return nil, errors.New("malformed session cookie")
	}
	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, err
	}
	sealed, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("malformed session cookie")
	}
	return gcm.Open(nil, nonce, sealed, nil)
}
