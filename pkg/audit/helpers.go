package audit

import (
	"strings"
)

// resourceSegments are the API path segments that name an auditable resource
// collection.
var resourceSegments = map[string]bool{
	"resources":  true,
	"requests":   true,
	"ledger":     true,
	"tags":       true,
	"volunteers": true,
	"jobs":       true,
}

// extractResourceType returns the resource collection a path addresses. Nested
// collections win, so /resources/{id}/tags audits as "tags".
func extractResourceType(path string) string {
	var resourceType string
	for _, p := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if resourceSegments[p] {
			resourceType = p
		}
	}
	return resourceType
}

// extractResourceIDs returns the path parameters that identify resources:
// the segment following resources, requests, volunteers or jobs, and the tag
// name following tags.
func extractResourceIDs(path string) []string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	var ids []string
	for i, p := range parts {
		switch p {
		case "resources", "requests", "volunteers", "jobs", "tags":
			if i+1 < len(parts) && !resourceSegments[parts[i+1]] {
				ids = append(ids, parts[i+1])
			}
		}
	}
	return ids
}

// extractActionVerb returns a human-readable action name from the HTTP method
// and path.
func extractActionVerb(method, path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")

	for i, p := range parts {
		switch p {
		case "usage":
			return "log-usage"
		case "damage":
			return "report-damage"
		case "review":
			return "review"
		case "actions":
			if i+1 < len(parts) {
				return parts[i+1]
			}
		case "tags":
			switch method {
			case "POST":
				return "add-tag"
			case "DELETE":
				return "remove-tag"
			}
		}
	}

	switch method {
	case "POST":
		return "create"
	case "PUT":
		return "update"
	case "PATCH":
		return "patch"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(method)
	}
}

// shouldAudit reports whether the request is a management action worth
// recording. Mutating methods are audited; browsing and health checks are not.
func shouldAudit(method, path string) bool {
	if isHealthEndpoint(path) {
		return false
	}
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

// isHealthEndpoint returns true for health-check paths.
func isHealthEndpoint(path string) bool {
	switch path {
	case "/livez", "/readyz", "/healthz":
		return true
	}
	return false
}
