package funding

import (
	"peer-funding-service/service/meta"
)

// roleBySource maps every source column name (and the known synonyms) of the four resource
// families to its canonical role. Applied once per name; no substring rewriting.
var roleBySource = map[string]meta.Role{
	// adequacy targets
	meta.ColumnAdequacyTarget:              meta.RoleTotalResources,
	meta.ColumnAdequacyTargetPerStudent:    meta.RoleTotalResourcesPerStudent,
	meta.ColumnAdequateCoreTeachers:        meta.RoleCoreTeachers,
	meta.ColumnAdequateSpecialEdTeachers:   meta.RoleSpecialEdTeachers,
	meta.ColumnAdequateCounselors:          meta.RoleCounselors,
	meta.ColumnAdequateNurses:              meta.RoleNurses,
	meta.ColumnAdequatePsychologists:       meta.RolePsychologists,
	meta.ColumnAdequatePrincipals:          meta.RolePrincipals,
	meta.ColumnAdequateAssistantPrincipals: meta.RoleAssistantPrincipals,
	meta.ColumnAdequateELTeachers:          meta.RoleELTeachers,

	// actual resources
	meta.ColumnActualResources:           meta.RoleTotalResources,
	"Resources Per Student":              meta.RoleTotalResourcesPerStudent,
	meta.ColumnActualCoreTeachers:        meta.RoleCoreTeachers,
	meta.ColumnActualSpecialEdTeachers:   meta.RoleSpecialEdTeachers,
	meta.ColumnActualCounselors:          meta.RoleCounselors,
	meta.ColumnActualNurses:              meta.RoleNurses,
	meta.ColumnActualPsychologists:       meta.RolePsychologists,
	meta.ColumnActualPrincipals:          meta.RolePrincipals,
	meta.ColumnActualAssistantPrincipals: meta.RoleAssistantPrincipals,
	meta.ColumnActualELTeachers:          meta.RoleELTeachers,

	// funding gaps
	meta.ColumnFundingGap:             meta.RoleTotalResources,
	meta.ColumnFundingGapPerStudent:   meta.RoleTotalResourcesPerStudent,
	meta.ColumnCoreTeachersGap:        meta.RoleCoreTeachers,
	meta.ColumnSpecialEdTeachersGap:   meta.RoleSpecialEdTeachers,
	meta.ColumnCounselorsGap:          meta.RoleCounselors,
	meta.ColumnNursesGap:              meta.RoleNurses,
	meta.ColumnPsychologistsGap:       meta.RolePsychologists,
	meta.ColumnPrincipalsGap:          meta.RolePrincipals,
	meta.ColumnAssistantPrincipalsGap: meta.RoleAssistantPrincipals,
	meta.ColumnELTeachersGap:          meta.RoleELTeachers,

	// gaps per school
	meta.ColumnFundingGapPerSchool:             meta.RoleTotalResources,
	meta.ColumnCoreTeachersGapPerSchool:        meta.RoleCoreTeachers,
	meta.ColumnSpecialEdTeachersGapPerSchool:   meta.RoleSpecialEdTeachers,
	meta.ColumnCounselorsGapPerSchool:          meta.RoleCounselors,
	meta.ColumnNursesGapPerSchool:              meta.RoleNurses,
	meta.ColumnPsychologistsGapPerSchool:       meta.RolePsychologists,
	meta.ColumnPrincipalsGapPerSchool:          meta.RolePrincipals,
	meta.ColumnAssistantPrincipalsGapPerSchool: meta.RoleAssistantPrincipals,
	meta.ColumnELTeachersGapPerSchool:          meta.RoleELTeachers,
}

// NormalizeRole returns the canonical role of a source column name.
func NormalizeRole(source string) (meta.Role, bool) {
	role, ok := roleBySource[source]
	return role, ok
}
