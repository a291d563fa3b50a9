// Package permission holds the static role to permission table of the admin API.
package permission

import "github.com/neupaneprasanna/prasannarent-sub002/internal/model"

// Permission is a named admin capability
type Permission string

const (
	ViewDashboard   Permission = "view_dashboard"
	ModerateContent Permission = "moderate_content"
	ManageUsers     Permission = "manage_users"
	ManageListings  Permission = "manage_listings"
	ManageSettings  Permission = "manage_settings"
	ManageAdmins    Permission = "manage_admins"
)

var (
	moderator  = []Permission{ViewDashboard, ModerateContent}
	admin      = append(append([]Permission{}, moderator...), ManageUsers, ManageListings)
	superAdmin = append(append([]Permission{}, admin...), ManageSettings, ManageAdmins)
)

var table = map[model.Role][]Permission{
	model.RoleUser:       {},
	model.RoleModerator:  moderator,
	model.RoleAdmin:      admin,
	model.RoleSuperAdmin: superAdmin,
}

// For returns the permissions granted to role. Unknown roles get none.
func For(role model.Role) []Permission {
	perms := table[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Has reports whether role grants p.
func Has(role model.Role, p Permission) bool {
	for _, granted := range table[role] {
		if granted == p {
			return true
		}
	}
	return false
}

// IsAdminRole reports whether granting or revoking role needs ManageAdmins.
func IsAdminRole(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleSuperAdmin
}
