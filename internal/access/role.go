package access

import "fbmanager/internal/model"

// RolePremium is the synthetic role a premium subscription grants for path
// gating. It is not a stored user role.
const RolePremium = "premium"

// EffectiveRole is the single place role and subscription are combined for
// access decisions: a premium subscription overrides the base role,
// everything else falls back to it.
func EffectiveRole(role, subscription string) string {
	if subscription == model.SubscriptionPremium {
		return RolePremium
	}
	return role
}

// DefaultRules is the tier layout for the API surface.
func DefaultRules() Rules {
	return Rules{
		Public: []string{
			"/health",
			"/swagger/**",
			"/api/auth/**",
		},
		Free: []string{
			"/api/pages/**",
			"/api/posts/**",
		},
		Premium: []string{
			"/api/analytics/**",
			"/api/autoresponse/**",
			"/api/trending/**",
		},
		Admin: []string{
			"/api/admin/**",
		},
	}
}
