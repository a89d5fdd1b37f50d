package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/iw2rmb/navedit/internal/logging"
)

// defaultCallback is where sign-in lands when no usable callbackUrl is given.
const defaultCallback = "/admin"

// requireSession gates next behind a valid session. Unauthenticated requests
// are sent to sign-in with the requested URL as the callback.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.session(r)
		if err != nil {
			s.logger.Debug("admin request rejected", logging.FieldPath, r.URL.Path, logging.FieldError, err)
			target := "/auth/signin?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

// safeCallback keeps redirects on this origin.
func safeCallback(raw string) string {
	if raw == "" {
		return defaultCallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return defaultCallback
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, `/\`) {
		return defaultCallback
	}
	return u.RequestURI()
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	callback := safeCallback(r.URL.Query().Get("callbackUrl"))
	if _, err := s.session(r); err == nil {
		http.Redirect(w, r, callback, http.StatusFound)
		return
	}

	st := oauthState{
		State:    uuid.NewString(),
		Callback: callback,
		Expires:  s.now().Add(stateTTL),
	}
	value, err := s.signer.sign(st)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.setCookie(w, stateCookie, value, st.Expires)
	http.Redirect(w, r, s.oauth.AuthCodeURL(st.State), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("missing oauth state"))
		return
	}
	s.clearCookie(w, stateCookie)

	var st oauthState
	if err := s.signer.verify(c.Value, &st); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	if st.State == "" || q.Get("state") != st.State || !s.now().Before(st.Expires) {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("oauth state mismatch"))
		return
	}
	if e := q.Get("error"); e != "" {
		s.fail(w, r, http.StatusUnauthorized, fmt.Errorf("%w: provider returned %s", ErrUnauthorized, e))
		return
	}

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, s.httpClient)
	tok, err := s.oauth.Exchange(ctx, q.Get("code"))
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, fmt.Errorf("exchange code: %w", err))
		return
	}
	login, err := s.fetchLogin(ctx, tok)
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, err)
		return
	}
	if !s.allowed(login) {
		s.fail(w, r, http.StatusForbidden, fmt.Errorf("%w: user %q not allowed", ErrUnauthorized, login))
		return
	}

	sess := Session{ID: uuid.NewString(), User: login, Expires: s.now().Add(s.cfg.SessionTTL)}
	value, err := s.signer.sign(sess)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.setCookie(w, sessionCookie, value, sess.Expires)
	s.logger.Info("signed in", logging.FieldUser, login, logging.FieldSession, sess.ID)
	http.Redirect(w, r, safeCallback(st.Callback), http.StatusFound)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.session(r); err == nil {
		s.logger.Info("signed out", logging.FieldUser, sess.User, logging.FieldSession, sess.ID)
	}
	s.clearCookie(w, sessionCookie)
	w.WriteHeader(http.StatusNoContent)
}

// fetchLogin asks the provider who owns tok. The token is used once and
// dropped.
func (s *Server) fetchLogin(ctx context.Context, tok *oauth2.Token) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch user: unexpected status %s", resp.Status)
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&user); err != nil {
		return "", fmt.Errorf("decode user: %w", err)
	}
	if user.Login == "" {
		return "", fmt.Errorf("fetch user: empty login")
	}
	return user.Login, nil
}
