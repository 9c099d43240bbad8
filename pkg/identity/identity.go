// Package identity resolves the acting user for each request and enforces
// role-based access. Authentication itself happens upstream (a reverse proxy
// or session gateway) and arrives as trusted headers; every handler reads the
// resolved actor from the request context instead of re-checking per page.
package identity

import (
	"context"
	"net/http"
	"strings"
)

// Role is the coarse access level of an actor.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOfficer     Role = "officer"
	RoleFirefighter Role = "firefighter"
	RoleAnonymous   Role = "anonymous"
)

// Actor represents the authenticated user making a request.
type Actor struct {
	User string
	Role Role
}

// actorCtxKey is an unexported type used as the context key for Actor.
type actorCtxKey struct{}

// WithActor returns a new context with the given Actor attached.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

// ActorFromContext retrieves the Actor from the context.
// Returns the zero value and false if no actor is set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorCtxKey{}).(Actor)
	return a, ok
}

// UserFromContext returns the acting user name, or "system" when no actor is
// attached (background workers, CLI-internal calls).
func UserFromContext(ctx context.Context) string {
	a, ok := ActorFromContext(ctx)
	if !ok || a.User == "" {
		return "system"
	}
	return a.User
}

// Middleware returns HTTP middleware that extracts the actor from
// X-Remote-User and X-Remote-Role headers and stores it in the request
// context. A missing user resolves to "anonymous"; an unknown role header
// value resolves to the anonymous role.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := strings.TrimSpace(r.Header.Get("X-Remote-User"))
			if user == "" {
				user = "anonymous"
			}

			role := parseRole(r.Header.Get("X-Remote-Role"))

			ctx := WithActor(r.Context(), Actor{User: user, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseRole(header string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(header))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleOfficer:
		return RoleOfficer
	case RoleFirefighter:
		return RoleFirefighter
	}
	return RoleAnonymous
}
