package routing

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorEnvelope is the one JSON error shape every API route emits. TraceID
// echoes the inbound W3C traceparent trace-id when the header carries a
// plausible one, so platform logs and client reports can be joined.
type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	TraceID string            `json:"trace_id"`
	Meta    ErrorEnvelopeMeta `json:"meta"`
}

type ErrorEnvelopeMeta struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// WriteError renders the error in the format the route class dictates: API
// and ops classes are JSON-only, UI routes get HTML unless the client asks
// for JSON explicitly.
func WriteError(w http.ResponseWriter, r *http.Request, rc RouteClass, status int, code string, message string) {
	if !isJSONOnly(rc) && !acceptsJSON(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte("<!doctype html><html><body>" + message + "</body></html>"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Code:    code,
		Message: message,
		TraceID: traceIDFromRequest(r),
		Meta: ErrorEnvelopeMeta{
			Path:   r.URL.Path,
			Method: r.Method,
		},
	})
}

func isJSONOnly(rc RouteClass) bool {
	switch rc {
	case RouteClassAdminAPI, RouteClassPublicAPI, RouteClassOps:
		return true
	}
	return false
}

func acceptsJSON(r *http.Request) bool {
	accept := strings.TrimSpace(r.Header.Get("Accept"))
	return accept == "application/json" || accept == "application/json; charset=utf-8"
}

// traceIDFromRequest extracts the trace-id field of a traceparent header.
// Anything malformed, non-hex or all-zero is dropped rather than echoed.
func traceIDFromRequest(r *http.Request) string {
	traceparent := strings.TrimSpace(r.Header.Get("traceparent"))
	if traceparent == "" {
		return ""
	}
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 {
		return ""
	}
	traceID := strings.ToLower(parts[1])
	if len(traceID) != 32 || traceID == strings.Repeat("0", 32) {
		return ""
	}
	for _, ch := range traceID {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return ""
		}
	}
	return traceID
}
