package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

func TestFor(t *testing.T) {
	assert.Empty(t, For(model.RoleUser))
	assert.Equal(t, []Permission{ViewDashboard, ModerateContent}, For(model.RoleModerator))
	assert.Equal(t, []Permission{ViewDashboard, ModerateContent, ManageUsers, ManageListings}, For(model.RoleAdmin))
	assert.Equal(t, []Permission{ViewDashboard, ModerateContent, ManageUsers, ManageListings, ManageSettings, ManageAdmins}, For(model.RoleSuperAdmin))
	assert.Empty(t, For(model.Role("ROOT")))
}

func TestFor_ReturnsCopy(t *testing.T) {
	perms := For(model.RoleModerator)
	perms[0] = ManageAdmins
	assert.False(t, Has(model.RoleModerator, ManageAdmins))
}

func TestHas(t *testing.T) {
	assert.False(t, Has(model.RoleModerator, ManageUsers))
	assert.True(t, Has(model.RoleModerator, ModerateContent))
	assert.False(t, Has(model.RoleAdmin, ManageSettings))
	for _, p := range []Permission{ViewDashboard, ModerateContent, ManageUsers, ManageListings, ManageSettings, ManageAdmins} {
		assert.True(t, Has(model.RoleSuperAdmin, p), p)
	}
	assert.False(t, Has(model.RoleUser, ViewDashboard))
}

func TestIsAdminRole(t *testing.T) {
	assert.True(t, IsAdminRole(model.RoleAdmin))
	assert.True(t, IsAdminRole(model.RoleSuperAdmin))
	assert.False(t, IsAdminRole(model.RoleModerator))
	assert.False(t, IsAdminRole(model.RoleUser))
}
