package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/visibility"
)

var (
	anonymous = visibility.Caller{}
	buyer     = visibility.Caller{ID: "u1", Role: models.RoleBuyer}
	employer  = visibility.Caller{ID: "e1", Role: models.RoleEmployer}
	admin     = visibility.Caller{ID: "a1", Role: models.RoleAdmin}
)

func TestInitialPropertyStatus(t *testing.T) {
	assert.Equal(t, models.PropertyApproved, InitialPropertyStatus(models.RoleAdmin))

	for _, role := range models.Roles {
		if role == models.RoleAdmin {
			continue
		}
		assert.Equal(t, models.PropertyPending, InitialPropertyStatus(role), "role %s", role)
	}
}

func TestCanCreateProperty(t *testing.T) {
	assert.ErrorIs(t, CanCreateProperty(anonymous), ErrUnauthorized)
	assert.NoError(t, CanCreateProperty(buyer))
	assert.NoError(t, CanCreateProperty(admin))
}

func TestCanEditProperty(t *testing.T) {
	assert.ErrorIs(t, CanEditProperty(anonymous, "u1"), ErrUnauthorized)
	assert.NoError(t, CanEditProperty(buyer, "u1"))
	assert.ErrorIs(t, CanEditProperty(buyer, "someone-else"), ErrForbidden)
	assert.NoError(t, CanEditProperty(admin, "someone-else"))
}

func TestCanModerateProperty(t *testing.T) {
	assert.ErrorIs(t, CanModerateProperty(anonymous), ErrUnauthorized)
	assert.ErrorIs(t, CanModerateProperty(buyer), ErrForbidden)
	assert.NoError(t, CanModerateProperty(admin))
}

func TestCanCreateJob(t *testing.T) {
	assert.ErrorIs(t, CanCreateJob(anonymous), ErrUnauthorized)
	assert.NoError(t, CanCreateJob(admin))
	assert.NoError(t, CanCreateJob(employer))

	for _, role := range []models.Role{
		models.RoleBuyer, models.RoleSeller, models.RoleLandlord,
		models.RoleJobSeeker, models.RoleAgent,
	} {
		c := visibility.Caller{ID: "u1", Role: role}
		assert.ErrorIs(t, CanCreateJob(c), ErrForbidden, "role %s", role)
	}
}

func TestCanManageJob(t *testing.T) {
	assert.NoError(t, CanManageJob(employer, "e1"))
	assert.ErrorIs(t, CanManageJob(employer, "other-employer"), ErrForbidden)
	assert.NoError(t, CanManageJob(admin, "other-employer"))
	assert.ErrorIs(t, CanManageJob(buyer, "u1"), ErrForbidden)
}

func TestCanChangeRole(t *testing.T) {
	assert.ErrorIs(t, CanChangeRole(anonymous, "u1"), ErrUnauthorized)
	assert.ErrorIs(t, CanChangeRole(buyer, "u1"), ErrForbidden)
	assert.NoError(t, CanChangeRole(admin, "u1"))

	// admins never change their own role, whatever the target role is
	assert.ErrorIs(t, CanChangeRole(admin, admin.ID), ErrSelfRoleChange)
}

func TestAdminOnlyGates(t *testing.T) {
	for name, gate := range map[string]func(visibility.Caller) error{
		"applications": CanReviewApplications,
		"contacts":     CanManageContacts,
		"admin views":  CanViewAdmin,
	} {
		assert.ErrorIs(t, gate(anonymous), ErrUnauthorized, name)
		assert.ErrorIs(t, gate(employer), ErrForbidden, name)
		assert.NoError(t, gate(admin), name)
	}
}
