package web

import "context"

type ctxKey string

const principalKey ctxKey = "gs.principal"

type principalInfo struct {
	name  string
	roles []string
}

// WithPrincipal stores the authenticated principal name and roles in context.
// An empty name marks an anonymous request.
func WithPrincipal(ctx context.Context, name string, roles []string) context.Context {
	return context.WithValue(ctx, principalKey, principalInfo{name: name, roles: roles})
}

// PrincipalFromCtx fetches the principal name and roles from context.
func PrincipalFromCtx(ctx context.Context) (string, []string, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return "", nil, false
	}
	p, ok := v.(principalInfo)
	return p.name, p.roles, ok
}
