// internal/httpserver/auth.go
//
// Caller identity for the session API.
//   - Tokens are issued by the external account service and signed with
//     JWT_SECRET (HS256). We only verify them; there is no user table here.
//   - Guests get a stable anonymous id cookie so daily results still have a
//     player.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	authCookieName = "crossword_token"
	anonCookieName = "crossword_anon"
)

// authUser is placed into request context by withOptionalAuth.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

// withOptionalAuth decorates the request with the caller when a valid token
// is present. Requests without one run as guests.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := s.parseToken(bearerOrCookie(r)); u != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) parseToken(tok string) *authUser {
	if tok == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil
	}
	id, _ := claims["id"].(string)
	if id == "" {
		id, _ = claims.GetSubject()
	}
	if id == "" {
		return nil
	}
	username, _ := claims["username"].(string)
	return &authUser{ID: id, Username: username}
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the auth cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(authCookieName); err == nil {
		return c.Value
	}
	return ""
}

func userFrom(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

// callerID returns the authenticated user id, or the anonymous cookie id,
// setting a new cookie when the guest has none.
func (s *Server) callerID(w http.ResponseWriter, r *http.Request) string {
	if u := userFrom(r.Context()); u != nil {
		return u.ID
	}
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.now().Add(180 * 24 * time.Hour),
	})
	return id
}
