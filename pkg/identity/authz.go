package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Resource names for access checks.
const (
	ResourceResources  = "resources"
	ResourceLedger     = "ledger"
	ResourceRequests   = "requests"
	ResourceTags       = "tags"
	ResourceVolunteers = "volunteers"
	ResourceJobs       = "jobs"
	ResourceAudit      = "audit"
)

// Verb names for access checks.
const (
	VerbGet     = "get"
	VerbList    = "list"
	VerbCreate  = "create"
	VerbUpdate  = "update"
	VerbDelete  = "delete"
	VerbApprove = "approve"
)

// AccessRequest represents an authorization check.
type AccessRequest struct {
	User     string
	Role     Role
	Resource string
	Verb     string
	Station  string
}

// Authorizer checks whether an actor is authorized to perform an action.
type Authorizer interface {
	Authorize(ctx context.Context, req AccessRequest) (bool, error)
}

// RolePolicy is a static role-based Authorizer. Admins may do everything;
// officers additionally approve and resolve requests; firefighters file the
// day-to-day events; anonymous actors are read-only.
type RolePolicy struct{}

// Authorize implements Authorizer.
func (RolePolicy) Authorize(_ context.Context, req AccessRequest) (bool, error) {
	switch req.Verb {
	case VerbGet, VerbList:
		return true, nil
	}

	switch req.Role {
	case RoleAdmin:
		return true, nil
	case RoleOfficer:
		// Officers can do everything except manage volunteer intake decisions,
		// which stay with admins.
		if req.Resource == ResourceVolunteers && req.Verb == VerbApprove {
			return false, nil
		}
		return true, nil
	case RoleFirefighter:
		switch req.Resource {
		case ResourceResources, ResourceTags:
			return req.Verb == VerbCreate || req.Verb == VerbUpdate || req.Verb == VerbDelete, nil
		case ResourceRequests:
			return req.Verb == VerbCreate, nil
		case ResourceVolunteers:
			return req.Verb == VerbCreate, nil
		}
		return false, nil
	}

	// Anonymous actors may still submit a volunteer application.
	return req.Resource == ResourceVolunteers && req.Verb == VerbCreate, nil
}

// NoopAuthorizer allows everything. Used in development mode and tests.
type NoopAuthorizer struct{}

// Authorize implements Authorizer.
func (NoopAuthorizer) Authorize(context.Context, AccessRequest) (bool, error) { return true, nil }

// RequirePermission returns middleware that enforces a specific resource/verb
// permission. It retrieves the actor from context (via Middleware) and calls
// the authorizer, responding 403 on denial.
func RequirePermission(authorizer Authorizer, resource, verb string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, _ := ActorFromContext(r.Context())

			req := AccessRequest{
				User:     actor.User,
				Role:     actor.Role,
				Resource: resource,
				Verb:     verb,
			}

			allowed, err := authorizer.Authorize(r.Context(), req)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "internal_error",
					"message": "authorization check failed",
				})
				return
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "forbidden",
					"message": fmt.Sprintf("insufficient permissions for %s/%s", resource, verb),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
