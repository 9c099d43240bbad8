// Package station scopes every request to a fire station. A single-station
// deployment pins all requests to one station id; a shared deployment resolves
// the station from the X-Station header. Stores treat the station the way a
// tenant namespace is treated: every row carries it and every query filters on
// it.
package station

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

// DefaultStation is used when no station is resolved.
const DefaultStation = "default"

// Mode selects how the station is resolved per request.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeHeader Mode = "header"
)

// ctxKey is an unexported type used as the context key for the station id.
type ctxKey struct{}

// WithStation returns a new context with the given station id attached.
func WithStation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the station id from the context, or DefaultStation when
// none is set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return DefaultStation
}

// Resolver resolves the station id for a request.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// SingleResolver pins every request to one station.
type SingleResolver struct {
	Station string
}

// Resolve implements Resolver.
func (s SingleResolver) Resolve(*http.Request) (string, error) {
	if s.Station == "" {
		return DefaultStation, nil
	}
	return s.Station, nil
}

// stationIDPattern restricts header-supplied station ids to DNS-label-ish
// strings so they are safe to use in queries and log lines.
var stationIDPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// HeaderResolver reads the station id from the X-Station header, falling back
// to DefaultStation when the header is absent.
type HeaderResolver struct{}

// Resolve implements Resolver.
func (HeaderResolver) Resolve(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get("X-Station"))
	if id == "" {
		return DefaultStation, nil
	}
	if !stationIDPattern.MatchString(id) {
		return "", fmt.Errorf("invalid station id %q", id)
	}
	return id, nil
}

// Middleware returns HTTP middleware that resolves the station using the
// provided Resolver and stores it in the request context. On resolution
// failure it responds with a 400 JSON error.
func Middleware(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "bad_request",
					"message": err.Error(),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStation(r.Context(), id)))
		})
	}
}

// NewMiddleware is a convenience function that creates middleware with the
// appropriate resolver for the given Mode.
func NewMiddleware(mode Mode) func(http.Handler) http.Handler {
	var resolver Resolver
	switch mode {
	case ModeHeader:
		resolver = HeaderResolver{}
	default:
		resolver = SingleResolver{Station: os.Getenv("STATIONSTOCK_STATION_ID")}
	}
	return Middleware(resolver)
}

// ModeFromEnv reads STATIONSTOCK_STATION_MODE, defaulting to single-station.
func ModeFromEnv() Mode {
	switch Mode(strings.ToLower(os.Getenv("STATIONSTOCK_STATION_MODE"))) {
	case ModeHeader:
		return ModeHeader
	}
	return ModeSingle
}
