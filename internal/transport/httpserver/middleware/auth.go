package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"gym-app-go/internal/config"
	"gym-app-go/internal/session"
	"gym-app-go/pkg/logger"
)

const CookieName = "gym_session"

type contextKey int

const (
	clientIDKey contextKey = iota
	sessionIDKey
)

// SessionAuth carries the session id in an HMAC-signed cookie and resolves
// it to a client through the session store.
type SessionAuth struct {
	store  session.Store
	codec  *securecookie.SecureCookie
	ttl    time.Duration
	secure bool
	log    logger.Logger
}

func NewSessionAuth(store session.Store, hashKey []byte, cfg config.SessionConfig, log logger.Logger) *SessionAuth {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(int(cfg.TTL.Seconds()))
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &SessionAuth{
		store:  store,
		codec:  codec,
		ttl:    cfg.TTL,
		secure: cfg.CookieSecure,
		log:    logger.OrNop(log),
	}
}

// Middleware attaches the client id of a valid session to the request
// context. It never blocks; use RequireClient for protected routes.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := a.sessionID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		current, err := a.store.Get(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				a.log.InternalError("session: lookup failed", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, current.ID)
		next.ServeHTTP(w, r.WithContext(WithClientID(ctx, current.ClientID)))
	})
}

// Start opens a session for clientID and sets the signed cookie.
func (a *SessionAuth) Start(w http.ResponseWriter, r *http.Request, clientID uint) error {
	if previous, ok := a.sessionID(r); ok {
		_ = a.store.Delete(r.Context(), previous)
	}

	created, err := a.store.Create(r.Context(), clientID)
	if err != nil {
		return err
	}
	encoded, err := a.codec.Encode(CookieName, created.ID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(a.ttl.Seconds()),
	})
	return nil
}

// End deletes the current session, if any, and expires the cookie.
func (a *SessionAuth) End(w http.ResponseWriter, r *http.Request) error {
	var err error
	if sessionID, ok := a.sessionID(r); ok {
		err = a.store.Delete(r.Context(), sessionID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return err
}

func (a *SessionAuth) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	var sessionID string
	if err := a.codec.Decode(CookieName, cookie.Value, &sessionID); err != nil {
		return "", false
	}
	return sessionID, sessionID != ""
}

func RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClientIDFromContext(r.Context()); !ok {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "unauthenticated", "login required")
}

func WithClientID(ctx context.Context, clientID uint) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

func ClientIDFromContext(ctx context.Context) (uint, bool) {
	clientID, ok := ctx.Value(clientIDKey).(uint)
	if !ok || clientID == 0 {
		return 0, false
	}
	return clientID, true
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	if !ok || sessionID == "" {
		return "", false
	}
	return sessionID, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
