// Package authz is the mutation gate: role and ownership checks applied
// before any create, update, delete or status transition. Checks enumerate
// every role so a new role has to be placed explicitly.
package authz

import (
	"errors"

	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/visibility"
)

var (
	// ErrUnauthorized means no valid session (HTTP 401).
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden means authenticated but wrong role or ownership (HTTP 403).
	ErrForbidden = errors.New("insufficient permissions")
	// ErrSelfRoleChange means an admin tried to change their own role (HTTP 400).
	ErrSelfRoleChange = errors.New("cannot modify own role")
)

// InitialPropertyStatus returns the status a newly created property gets:
// admin submissions go live immediately, everyone else waits for moderation.
func InitialPropertyStatus(role models.Role) models.PropertyStatus {
	switch role {
	case models.RoleAdmin:
		return models.PropertyApproved
	case models.RoleBuyer, models.RoleSeller, models.RoleLandlord,
		models.RoleJobSeeker, models.RoleEmployer, models.RoleAgent:
		return models.PropertyPending
	}
	return models.PropertyPending
}

// CanCreateProperty: any authenticated user may submit a listing.
func CanCreateProperty(c visibility.Caller) error {
	if c.Anonymous() {
		return ErrUnauthorized
	}
	return nil
}

// CanEditProperty: content edits are for the owner or an admin. Status and
// isFeatured changes go through CanModerateProperty instead.
func CanEditProperty(c visibility.Caller, ownerID string) error {
	if c.Anonymous() {
		return ErrUnauthorized
	}
	if c.Admin() || c.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

// CanModerateProperty: approve/reject/reset and the isFeatured toggle are
// admin only.
func CanModerateProperty(c visibility.Caller) error {
	return adminOnly(c)
}

// CanCreateJob: admins and employers may post jobs.
func CanCreateJob(c visibility.Caller) error {
	if c.Anonymous() {
		return ErrUnauthorized
	}
	switch c.Role {
	case models.RoleAdmin, models.RoleEmployer:
		return nil
	case models.RoleBuyer, models.RoleSeller, models.RoleLandlord,
		models.RoleJobSeeker, models.RoleAgent:
		return ErrForbidden
	}
	return ErrForbidden
}

// CanManageJob: admins manage any job, employers only their own.
func CanManageJob(c visibility.Caller, employerID string) error {
	if err := CanCreateJob(c); err != nil {
		return err
	}
	if c.Admin() || c.ID == employerID {
		return nil
	}
	return ErrForbidden
}

// CanApply: any authenticated user may apply to a job.
func CanApply(c visibility.Caller) error {
	if c.Anonymous() {
		return ErrUnauthorized
	}
	return nil
}

// CanReviewApplications: status changes and deletion are admin only.
func CanReviewApplications(c visibility.Caller) error {
	return adminOnly(c)
}

// CanManageContacts: contact status changes and deletion are admin only.
func CanManageContacts(c visibility.Caller) error {
	return adminOnly(c)
}

// CanViewAdmin guards the read-only admin surfaces (stats, user list).
func CanViewAdmin(c visibility.Caller) error {
	return adminOnly(c)
}

// CanChangeRole: only admins change roles, and never their own.
func CanChangeRole(c visibility.Caller, targetID string) error {
	if err := adminOnly(c); err != nil {
		return err
	}
	if c.ID == targetID {
		return ErrSelfRoleChange
	}
	return nil
}

func adminOnly(c visibility.Caller) error {
	if c.Anonymous() {
		return ErrUnauthorized
	}
	if !c.Admin() {
		return ErrForbidden
	}
	return nil
}
