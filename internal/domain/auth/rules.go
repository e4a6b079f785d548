package auth

// Rule identifies a single access-control rule. Used for server-side
// diagnostics only; never returned to the remote caller.
type Rule string

const (
	// RuleSafeLogin requires login via ID-card or Mobile-ID.
	RuleSafeLogin Rule = "safelogin"
	// RuleSafeHost requires login from a host VAU recognizes as safe.
	RuleSafeHost Rule = "safehost"
	// RuleSafe requires either a safe login or a safe host.
	RuleSafe Rule = "safe"
	// RuleEmployee requires the VAU user type to be employee.
	RuleEmployee Rule = "employee"
	// RuleRoles requires at least one allowed role.
	RuleRoles Rule = "roles"
)

// AccessRules is the declarative rule set evaluated against claims.
// Zero-value fields impose no constraint; all configured rules must pass.
type AccessRules struct {
	SafeLogin bool
	SafeHost  bool
	// Safe is satisfied when either the safelogin or the safehost claim
	// is true, distinct from requiring both individually.
	Safe     bool
	Employee bool
	// Roles grants access when its intersection with the roles claim is
	// non-empty. An empty list imposes no constraint.
	Roles []string
}

// Evaluate checks the claims against the rule set. Rules are evaluated in a
// fixed order and the first failing rule is reported; the overall decision is
// a single grant/deny.
func (r AccessRules) Evaluate(c Claims) (Rule, bool) {
	if r.SafeLogin && !c.SafeLogin() {
		return RuleSafeLogin, false
	}
	if r.SafeHost && !c.SafeHost() {
		return RuleSafeHost, false
	}
	if r.Safe && !c.SafeLogin() && !c.SafeHost() {
		return RuleSafe, false
	}
	if r.Employee && c.Type() != UserTypeEmployee {
		return RuleEmployee, false
	}
	if len(r.Roles) > 0 && !intersects(r.Roles, c.Roles()) {
		return RuleRoles, false
	}
	return "", true
}

func intersects(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
