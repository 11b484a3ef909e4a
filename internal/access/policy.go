// Package access implements path-prefix authorization and denial auditing.
package access

import "strings"

// Role names understood by the policy. Principals may carry other role
// strings; the policy ignores them.
const (
	RoleUser    = "USER"
	RoleManager = "MANAGER"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allow lets the request through to its handler.
	Allow Decision = iota
	// Deny routes the request to the denial auditor.
	Deny
	// Login redirects an unauthenticated caller to the login page.
	Login
)

// String returns a short name for logging.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Login:
		return "login"
	default:
		return "unknown"
	}
}

// Rule maps a path prefix to the roles that may pass. AllowAll short-circuits
// the role check entirely.
type Rule struct {
	Prefix   string
	Roles    []string
	AllowAll bool
}

// Policy is an ordered prefix-rule table. Rules are evaluated top to bottom,
// first match wins; a path matching no rule is allowed, anonymous included.
// Policies are immutable after construction and safe for concurrent use.
type Policy struct {
	rules      []Rule
	loginPath  string
	deniedPath string
}

// NewPolicy builds a policy from an explicit rule table and the two fixed
// destinations used by the request layer.
func NewPolicy(rules []Rule, loginPath, deniedPath string) *Policy {
	return &Policy{rules: rules, loginPath: loginPath, deniedPath: deniedPath}
}

// DefaultPolicy returns the stock rule table: the user area and the secured
// area admit USER or MANAGER, the manager area admits MANAGER only, and the
// operational console bypasses role checks. consolePrefix names that bypass;
// it is a deliberate trust exception for operational tooling.
func DefaultPolicy(consolePrefix string) *Policy {
	return NewPolicy([]Rule{
		{Prefix: "/user", Roles: []string{RoleUser, RoleManager}},
		{Prefix: "/secured", Roles: []string{RoleUser, RoleManager}},
		{Prefix: "/manager", Roles: []string{RoleManager}},
		{Prefix: consolePrefix, AllowAll: true},
	}, "/login", "/permission-denied")
}

// LoginPath is where unauthenticated callers of gated paths are sent.
func (p *Policy) LoginPath() string { return p.loginPath }

// DeniedPath is where the auditor redirects denied callers.
func (p *Policy) DeniedPath() string { return p.deniedPath }

// Authorize decides whether a caller holding the given roles may request
// path. An empty role set means the caller is anonymous: a gated path then
// resolves to Login rather than Deny. Pure function, no side effects.
func (p *Policy) Authorize(path string, roles []string) Decision {
	for _, rule := range p.rules {
		if !matchPrefix(path, rule.Prefix) {
			continue
		}
		if rule.AllowAll {
			return Allow
		}
		if len(roles) == 0 {
			return Login
		}
		for _, need := range rule.Roles {
			for _, have := range roles {
				if have == need {
					return Allow
				}
			}
		}
		return Deny
	}
	return Allow
}

// matchPrefix matches whole path segments: "/user" matches "/user" and
// "/user/x" but not "/username".
func matchPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
