package admin

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized is returned when a request carries no valid session.
var ErrUnauthorized = errors.New("unauthorized")

const (
	sessionCookie = "navedit_session"
	stateCookie   = "navedit_oauth_state"
	stateTTL      = 10 * time.Minute
)

// Session is the signed-in identity carried in the session cookie.
type Session struct {
	ID      string    `json:"id"`
	User    string    `json:"user"`
	Expires time.Time `json:"exp"`
}

// oauthState ties an OAuth round trip to the browser that started it.
type oauthState struct {
	State    string    `json:"state"`
	Callback string    `json:"callback"`
	Expires  time.Time `json:"exp"`
}

// signer produces and checks HMAC-SHA256 signed cookie values of the form
// base64(payload) "." base64(mac).
type signer struct {
	key []byte
}

var b64 = base64.RawURLEncoding

func (s signer) sign(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode cookie: %w", err)
	}
	return b64.EncodeToString(payload) + "." + b64.EncodeToString(s.mac(payload)), nil
}

func (s signer) verify(token string, v any) error {
	encPayload, encMAC, ok := strings.Cut(token, ".")
	if !ok {
		return fmt.Errorf("%w: malformed cookie", ErrUnauthorized)
	}
	payload, err := b64.DecodeString(encPayload)
	if err != nil {
		return fmt.Errorf("%w: malformed cookie", ErrUnauthorized)
	}
	mac, err := b64.DecodeString(encMAC)
	if err != nil || !hmac.Equal(mac, s.mac(payload)) {
		return fmt.Errorf("%w: bad signature", ErrUnauthorized)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: malformed cookie", ErrUnauthorized)
	}
	return nil
}

func (s signer) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	return h.Sum(nil)
}

// session returns the valid session carried by r.
func (s *Server) session(r *http.Request) (*Session, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, fmt.Errorf("%w: no session", ErrUnauthorized)
	}
	var sess Session
	if err := s.signer.verify(c.Value, &sess); err != nil {
		return nil, err
	}
	if !s.now().Before(sess.Expires) {
		return nil, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	if sess.User == "" || !s.allowed(sess.User) {
		return nil, fmt.Errorf("%w: user %q not allowed", ErrUnauthorized, sess.User)
	}
	return &sess, nil
}

func (s *Server) allowed(user string) bool {
	if len(s.cfg.AllowedUsers) == 0 {
		return true
	}
	for _, u := range s.cfg.AllowedUsers {
		if strings.EqualFold(u, user) {
			return true
		}
	}
	return false
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

type sessionKey struct{}

func withSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session attached by the admin gate.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*Session)
	return sess, ok
}
