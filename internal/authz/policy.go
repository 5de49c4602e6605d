// Package authz decides whether a session may reach a route. The policy is a
// static prefix table; the longest matching prefix wins. Both missing and
// insufficient sessions produce the same redirect, so a probing client cannot
// tell a protected route from a role-gated one.
package authz

import (
	"sort"
	"strings"

	"aimms/internal/core"
	"aimms/internal/session"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// RedirectLogin sends the client to the user login page.
	RedirectLogin
)

// LoginPath is where denied requests get redirected.
const LoginPath = "/login-user"

// Rule gates a path prefix. A nil Roles slice means any authenticated
// session; Public rules skip the session check entirely.
type Rule struct {
	Prefix string
	Public bool
	Roles  []core.Role
}

// Policy is an ordered set of rules. Build one with NewPolicy.
type Policy struct {
	rules []Rule
}

// NewPolicy sorts rules so longer prefixes are tried first.
func NewPolicy(rules []Rule) *Policy {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Policy{rules: sorted}
}

// Default returns the application's route policy.
func Default() *Policy {
	admins := []core.Role{core.RoleAdmin, core.RoleSubAdmin, core.RoleSuperAdmin}
	return NewPolicy([]Rule{
		{Prefix: "/login-user", Public: true},
		{Prefix: "/login-admin", Public: true},
		{Prefix: "/signup", Public: true},
		{Prefix: "/healthz", Public: true},
		{Prefix: "/readyz", Public: true},
		{Prefix: "/static/", Public: true},
		{Prefix: "/admin", Roles: admins},
		{Prefix: "/"},
	})
}

// Decide evaluates the policy for a path and session. Unknown paths fall
// through to the catch-all rule when one exists, otherwise deny.
func (p *Policy) Decide(path string, sess *session.Session) Decision {
	for _, r := range p.rules {
		if !strings.HasPrefix(path, r.Prefix) {
			continue
		}
		if r.Public {
			return Allow
		}
		if !sess.Authenticated() {
			return RedirectLogin
		}
		if len(r.Roles) == 0 {
			return Allow
		}
		role := sess.Role()
		for _, allowed := range r.Roles {
			if role == allowed {
				return Allow
			}
		}
		return RedirectLogin
	}
	return RedirectLogin
}

// NavItem is a navigation entry shown only when the session may reach it.
type NavItem struct {
	Label string
	Path  string
}

var navItems = []NavItem{
	{Label: "Dashboard", Path: "/"},
	{Label: "Budgets", Path: "/budgets"},
	{Label: "Transactions", Path: "/transactions"},
	{Label: "Goals", Path: "/goals"},
	{Label: "Notifications", Path: "/notifications"},
	{Label: "Receipts", Path: "/receipts"},
	{Label: "Admin", Path: "/admin/users"},
}

// Nav filters the navigation to what the session is allowed to visit. The
// same table that gates requests drives the menu, so the two never disagree.
func (p *Policy) Nav(sess *session.Session) []NavItem {
	var out []NavItem
	for _, item := range navItems {
		if p.Decide(item.Path, sess) == Allow {
			out = append(out, item)
		}
	}
	return out
}
