// Package authz holds the static role-to-permission policy for dashboard
// features. Roles are fixed; permissions live in one enumerated table so the
// mapping can be audited and extended in a single place.
package authz

// Feature names gated by the policy table.
const (
	FeatureDashboard        = "dashboard"
	FeatureCustomerAnalysis = "customer_analysis"
	FeatureReviews          = "reviews"
	FeatureML               = "ml"
	FeatureInventory        = "inventory"
	FeatureSettings         = "settings"
	FeatureReports          = "reports"
	FeatureUserManagement   = "user_management"
)

// Known roles.
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleManager = "manager"
)

// Permissions is the set of feature flags granted to a role.
type Permissions struct {
	Dashboard        bool `json:"dashboard"`
	CustomerAnalysis bool `json:"customer_analysis"`
	Reviews          bool `json:"reviews"`
	ML               bool `json:"ml"`
	Inventory        bool `json:"inventory"`
	Settings         bool `json:"settings"`
	Reports          bool `json:"reports"`
	UserManagement   bool `json:"user_management"`
}

var policy = map[string]Permissions{
	RoleAdmin: {
		Dashboard:        true,
		CustomerAnalysis: true,
		Reviews:          true,
		ML:               true,
		Inventory:        true,
		Settings:         true,
		Reports:          true,
		UserManagement:   true,
	},
	RoleAnalyst: {
		Dashboard:        true,
		CustomerAnalysis: true,
		Reviews:          true,
		ML:               true,
		Inventory:        true,
		Reports:          true,
	},
	RoleManager: {
		Dashboard:        true,
		CustomerAnalysis: true,
		Reviews:          true,
		Inventory:        true,
		Reports:          true,
	},
}

// ForRole returns the permissions granted to a role. Unknown roles get the
// minimal default: dashboard visibility only.
func ForRole(role string) Permissions {
	if p, ok := policy[role]; ok {
		return p
	}
	return Permissions{Dashboard: true}
}

// Allows reports whether the role grants the named feature.
func Allows(role, feature string) bool {
	p := ForRole(role)
	switch feature {
	case FeatureDashboard:
		return p.Dashboard
	case FeatureCustomerAnalysis:
		return p.CustomerAnalysis
	case FeatureReviews:
		return p.Reviews
	case FeatureML:
		return p.ML
	case FeatureInventory:
		return p.Inventory
	case FeatureSettings:
		return p.Settings
	case FeatureReports:
		return p.Reports
	case FeatureUserManagement:
		return p.UserManagement
	default:
		return false
	}
}

// ValidRole reports whether the role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := policy[role]
	return ok
}
