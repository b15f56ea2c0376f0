package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/mariselv/helping-hands/pkg/authz"
)

// Principal is the caller identity for one request. The platform gateway
// terminates authentication and forwards the result in headers; an absent or
// blank role header downgrades the request to anonymous.
type Principal struct {
	ID       string
	RoleSlug string
}

type principalContextKey struct{}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

func currentPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

const (
	actorIDHeader   = "X-Actor-Id"
	actorRoleHeader = "X-Actor-Role"
)

func principalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := strings.TrimSpace(strings.ToLower(r.Header.Get(actorRoleHeader)))
		switch role {
		case authz.RoleAdmin, authz.RoleOrganizer:
		default:
			role = authz.RoleAnonymous
		}
		p := Principal{
			ID:       strings.TrimSpace(r.Header.Get(actorIDHeader)),
			RoleSlug: role,
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
	})
}
