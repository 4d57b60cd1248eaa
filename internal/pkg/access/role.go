package access

import "strings"

// Role is a workspace membership role. Only brand_owner is privileged; the
// three operator roles differ for display purposes, not for gating. Keeping
// that collapse in one Rank function makes the "all operators equal"
// decision a single visible assertion instead of an emergent property of
// scattered string comparisons.
type Role string

const (
	RoleNone        Role = ""
	RoleBrandOwner  Role = "brand_owner"
	RoleAgencyAdmin Role = "agency_admin"
	RoleBrandMember Role = "brand_member"
	RoleAgencyOps   Role = "agency_ops"
)

// ParseRole maps a stored role string to a known role. Unknown input means
// "not a member"; every decision then defaults to deny.
func ParseRole(role string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(role))) {
	case RoleBrandOwner:
		return RoleBrandOwner
	case RoleAgencyAdmin:
		return RoleAgencyAdmin
	case RoleBrandMember:
		return RoleBrandMember
	case RoleAgencyOps:
		return RoleAgencyOps
	default:
		return RoleNone
	}
}

// Rank orders roles by privilege: owner 2, operators 1, non-member 0.
func Rank(role Role) int {
	switch role {
	case RoleBrandOwner:
		return 2
	case RoleAgencyAdmin, RoleBrandMember, RoleAgencyOps:
		return 1
	default:
		return 0
	}
}

// IsOwner reports whether the role carries full workspace control,
// including billing and membership management.
func IsOwner(role Role) bool {
	return role == RoleBrandOwner
}

// IsOperator reports whether the role is one of the operator variants.
func IsOperator(role Role) bool {
	return Rank(role) == 1
}

// IsMember reports whether the role belongs to any member at all.
func IsMember(role Role) bool {
	return Rank(role) > 0
}

// Label returns the display name for a role.
func Label(role Role) string {
	switch role {
	case RoleBrandOwner:
		return "Brand Owner"
	case RoleAgencyAdmin:
		return "Agency Admin"
	case RoleBrandMember:
		return "Brand Member"
	case RoleAgencyOps:
		return "Agency Ops"
	default:
		return "No Access"
	}
}
