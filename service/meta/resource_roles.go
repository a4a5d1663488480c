/*
 * @module service/meta/resource_roles
 * @description Canonical resource-role vocabulary shared by all four resource families
 * @architecture Constant layer - dataset metadata
 * @documentReference DESIGN.md
 * @stateFlow constant definition -> role normalization -> staffing selectors
 * @rules Canonical names are identical across adequacy, actual, gap and per-school tables
 * @dependencies none
 * @refs service/funding/roles.go
 */

package meta

// Role is a canonical resource role name.
type Role string

const (
	RoleTotalResources           Role = "Total Resources (Dollar Amount)"
	RoleTotalResourcesPerStudent Role = "Total Resources Per Student (Dollar Amount)"
	RoleCoreTeachers             Role = "Core and Specialist Teachers"
	RoleSpecialEdTeachers        Role = "Special Education Teachers"
	RoleCounselors               Role = "Counselors"
	RoleNurses                   Role = "Nurses"
	RolePsychologists            Role = "Psychologists"
	RolePrincipals               Role = "Principals"
	RoleAssistantPrincipals      Role = "Assistant Principals"
	RoleELTeachers               Role = "EL Teachers"
)

// CanonicalRoles is the 9-role vocabulary of the merged resource table, in output order.
var CanonicalRoles = []Role{
	RoleTotalResources,
	RoleCoreTeachers,
	RoleSpecialEdTeachers,
	RoleCounselors,
	RoleNurses,
	RolePsychologists,
	RolePrincipals,
	RoleAssistantPrincipals,
	RoleELTeachers,
}

// StaffingRoles are the headcount roles offered by the staffing explainer selector.
var StaffingRoles = CanonicalRoles[1:]

// roleDisplayNames only lists roles whose selector label differs from the canonical name.
var roleDisplayNames = map[Role]string{
	RoleELTeachers: "English Learner (EL) Teachers",
}

// DisplayName returns the selector label of the role.
func (r Role) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

// IsStaffing reports whether the role is a headcount role.
func (r Role) IsStaffing() bool {
	for _, role := range StaffingRoles {
		if role == r {
			return true
		}
	}
	return false
}

// ParseStaffingRole resolves a selector value given either as canonical name or display label.
func ParseStaffingRole(value string) (Role, bool) {
	for _, role := range StaffingRoles {
		if string(role) == value || role.DisplayName() == value {
			return role, true
		}
	}
	return "", false
}
