package model

import "strings"

// Role classifies what a user is allowed to do on the platform.  It is a
// closed set: a user is a CUSTOMER, an ORGANIZER, or BOTH once they have
// acted in both capacities.  The zero value is not a valid role.
type Role string

const (
	RoleCustomer  Role = "CUSTOMER"
	RoleOrganizer Role = "ORGANIZER"
	RoleBoth      Role = "BOTH"
)

// ParseRole normalizes a raw role string from the store or a request into
// a Role.  The boolean reports whether the input named a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleOrganizer:
		return RoleOrganizer, true
	case RoleBoth:
		return RoleBoth, true
	}
	return "", false
}

// Grant returns the role a user holds after acting in the target capacity.
// The function is total over the closed set: acting in a capacity the user
// already holds changes nothing, acting in the other single capacity
// upgrades to BOTH, and BOTH absorbs everything.  Targets other than
// CUSTOMER and ORGANIZER must be rejected by the caller before Grant.
func (r Role) Grant(target Role) Role {
	if r == RoleBoth || r == target {
		return r
	}
	switch {
	case r == RoleCustomer && target == RoleOrganizer:
		return RoleBoth
	case r == RoleOrganizer && target == RoleCustomer:
		return RoleBoth
	}
	// Unknown current role: the membership insert still happens, so the
	// user ends up labelled with the capacity they just exercised.
	return target
}

// CanOrganize reports whether the role includes organizer capability.
func (r Role) CanOrganize() bool { return r == RoleOrganizer || r == RoleBoth }

// CanPurchase reports whether the role includes customer capability.
func (r Role) CanPurchase() bool { return r == RoleCustomer || r == RoleBoth }
