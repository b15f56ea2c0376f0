package routing

import (
	"log"
	"net/http"
	"runtime/debug"
)

// Router dispatches on exact path, then method. Only allowlisted paths are
// ever registered, so an unknown path is a 404 in the class the classifier
// assigns to it, not a fallthrough to some catch-all handler.
type Router struct {
	classifier *Classifier
	byPath     map[string]map[string]registration
}

type registration struct {
	rc      RouteClass
	handler http.Handler
}

var logf = log.Printf

func NewRouter(classifier *Classifier) *Router {
	return &Router{
		classifier: classifier,
		byPath:     make(map[string]map[string]registration),
	}
}

// Handle registers h for method+path. A panic inside the handler surfaces as
// a 500 envelope in the route's own class rather than a dropped connection.
func (r *Router) Handle(rc RouteClass, method string, path string, h http.Handler) {
	if r.byPath[path] == nil {
		r.byPath[path] = make(map[string]registration)
	}

	wrapped := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logf("panic serving %s %s: %v\n%s", req.Method, req.URL.Path, rec, debug.Stack())
				WriteError(w, req, rc, http.StatusInternalServerError, "internal_error", "internal error")
			}
		}()
		h.ServeHTTP(w, req)
	})
	r.byPath[path][method] = registration{rc: rc, handler: wrapped}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	byMethod, ok := r.byPath[req.URL.Path]
	if !ok {
		WriteError(w, req, r.classifier.Classify(req.URL.Path), http.StatusNotFound, "not_found", "not found")
		return
	}
	reg, ok := byMethod[req.Method]
	if !ok {
		rc := registeredClass(byMethod, r.classifier.Classify(req.URL.Path))
		WriteError(w, req, rc, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	reg.handler.ServeHTTP(w, req)
}

// registeredClass picks the class of any registration on the path so a 405
// responds in the same format the path's real handlers use.
func registeredClass(byMethod map[string]registration, fallback RouteClass) RouteClass {
	for _, reg := range byMethod {
		return reg.rc
	}
	return fallback
}
