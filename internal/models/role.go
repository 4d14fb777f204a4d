package models

import "fmt"

// Role is the closed set of account roles. Authorization logic switches over
// these values exhaustively; an unknown role is a validation error, never a
// silently-denied string.
type Role string

const (
	RoleBuyer     Role = "buyer"
	RoleSeller    Role = "seller"
	RoleLandlord  Role = "landlord"
	RoleJobSeeker Role = "jobSeeker"
	RoleEmployer  Role = "employer"
	RoleAgent     Role = "agent"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role, in the order they are presented to admins.
var Roles = []Role{
	RoleBuyer, RoleSeller, RoleLandlord, RoleJobSeeker, RoleEmployer, RoleAgent, RoleAdmin,
}

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleBuyer, RoleSeller, RoleLandlord, RoleJobSeeker, RoleEmployer, RoleAgent, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
