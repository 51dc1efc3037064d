package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/whack/internal/game"
)

// sessionHeader echoes a freshly issued token for clients that use bearer auth.
const sessionHeader = "X-Session-Token"

type sessionConfig struct {
	secret []byte
	cookie string
	ttl    time.Duration
	secure bool
}

func newSessionConfig(opts Options) sessionConfig {
	c := sessionConfig{
		secret: []byte(opts.Secret),
		cookie: opts.Cookie,
		ttl:    opts.SessionTTL,
		secure: opts.Secure,
	}
	if len(c.secret) == 0 {
		c.secret = []byte("dev_secret_change_me")
	}
	if c.cookie == "" {
		c.cookie = "whack_session"
	}
	if c.ttl <= 0 {
		c.ttl = 7 * 24 * time.Hour
	}
	return c
}

// ctxEngineKey is the context key for the session's engine.
type ctxEngineKey struct{}

// engineFrom returns the engine installed by withSession.
func engineFrom(r *http.Request) *game.Engine {
	e, _ := r.Context().Value(ctxEngineKey{}).(*game.Engine)
	return e
}

// withSession resolves the caller's engine, creating a session when the token
// is missing, invalid, or points at an engine this process no longer holds.
func (s *Server) withSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			e, err := s.sessionEngine(w, r)
			if err != nil {
				s.log.Error().Err(err).Msg("session")
				http.Error(w, `{"error":"session_failed"}`, http.StatusInternalServerError)
				return
			}
			ctx := context.WithValue(r.Context(), ctxEngineKey{}, e)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) sessionEngine(w http.ResponseWriter, r *http.Request) (*game.Engine, error) {
	if id, err := s.parseSession(s.bearerOrCookie(r)); err == nil {
		if e, err := s.store.Get(r.Context(), id); err == nil {
			return e, nil
		}
	}

	id := genID()
	e := s.newEngine(id)
	if e == nil {
		return nil, errors.New("engine factory returned nil")
	}
	if err := s.store.Save(r.Context(), e); err != nil {
		return nil, err
	}
	tok, exp, err := s.signSession(id)
	if err != nil {
		return nil, err
	}
	s.setSessionCookie(w, tok, exp)
	w.Header().Set(sessionHeader, tok)
	s.log.Debug().Str("session", id).Msg("session created")
	return e, nil
}

// signSession creates an HS256 token whose subject is the session id.
func (s *Server) signSession(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.sess.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.sess.secret)
	return ss, exp, err
}

// parseSession verifies a token and returns its session id.
func (s *Server) parseSession(tok string) (string, error) {
	if tok == "" {
		return "", errors.New("no token")
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.sess.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token without subject")
	}
	return claims.Subject, nil
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.sess.secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.sess.cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.sess.secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or session cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.sess.cookie); err == nil {
		return c.Value
	}
	return ""
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}
