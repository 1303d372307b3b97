// Package controllers holds the HTTP handlers. Controllers stay thin: bind
// the request, call one service method, write the response. All business
// rules and authorization live below, in app/services.
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rsharan/dinehub/pkg/apperr"
)

// paramID parses a numeric {name} URL parameter.
func paramID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// queryTime parses an optional ?name= timestamp, accepting RFC 3339 or a
// plain date. ok is false when the parameter is absent.
func queryTime(r *http.Request, name string) (t time.Time, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse("2006-01-02", raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, apperr.Validation("invalid %s %q: want RFC 3339 or YYYY-MM-DD", name, raw)
}

// queryInt parses an optional integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
