/*
 * @module service/meta/district_columns
 * @description Column names of the wide district table and the legislative coverage table
 * @architecture Constant layer - dataset metadata
 * @documentReference DESIGN.md
 * @stateFlow constant definition -> loader header check -> reshaper column check
 * @rules Column names match the published dataset headers byte for byte
 * @dependencies none
 * @refs service/funding, service/dataset
 */

package meta

// Identifier and scalar columns of the wide district table
const (
	ColumnRCDTS         = "RCDTS"
	ColumnDistrictName  = "District Name (IRC)"
	ColumnTotalASE      = "Total ASE"
	ColumnAdequacyLevel = "Adequacy Level"
)

// StatewideDistrictName is the district name of the statewide aggregate row.
const StatewideDistrictName = "State of Illinois"

// Adequacy target columns
const (
	ColumnAdequacyTarget              = "Adequacy Target"
	ColumnAdequacyTargetPerStudent    = "Adequacy Target Per Student"
	ColumnAdequateCoreTeachers        = "Adequate Core and Specialist Teachers"
	ColumnAdequateSpecialEdTeachers   = "Adequate Special Education Teachers"
	ColumnAdequateCounselors          = "Adequate Counselors"
	ColumnAdequateNurses              = "Adequate Nurses"
	ColumnAdequatePsychologists       = "Adequate Psychologists"
	ColumnAdequatePrincipals          = "Adequate Principals"
	ColumnAdequateAssistantPrincipals = "Adequate Assistant Principals"
	ColumnAdequateELTeachers          = "Adequate EL Teachers"
)

// Actual resource columns
const (
	ColumnActualResources           = "Actual Resources"
	ColumnActualCoreTeachers        = "Actual Core and Specialist Teachers Count (EIS)"
	ColumnActualSpecialEdTeachers   = "Actual Special Education Teachers Count (EIS)"
	ColumnActualCounselors          = "Actual Counselors Count (IRC)"
	ColumnActualNurses              = "Actual Nurses Count (IRC)"
	ColumnActualPsychologists       = "Actual Psychologists Count (IRC)"
	ColumnActualPrincipals          = "Actual Principals Count (EIS)"
	ColumnActualAssistantPrincipals = "Actual Assistant Principals Count (EIS)"
	ColumnActualELTeachers          = "Actual EL Teachers (EIS)"
)

// Funding gap columns
const (
	ColumnFundingGap             = "Adequacy Funding Gap"
	ColumnFundingGapPerStudent   = "Adequacy Funding Gap Per Student"
	ColumnCoreTeachersGap        = "Core and Specialist Teachers Gap (EIS)"
	ColumnSpecialEdTeachersGap   = "Special Education Teachers Gap (EIS)"
	ColumnCounselorsGap          = "Counselors Gap (IRC)"
	ColumnNursesGap              = "Nurses Gap (IRC)"
	ColumnPsychologistsGap       = "Psychologists Gap (IRC)"
	ColumnPrincipalsGap          = "Principals Gap (EIS)"
	ColumnAssistantPrincipalsGap = "Assistant Principals Gap (EIS)"
	ColumnELTeachersGap          = "EL Teachers Gap (EIS)"
)

// Per-school gap columns
const (
	ColumnFundingGapPerSchool             = "Adequacy Funding Gap Per School"
	ColumnCoreTeachersGapPerSchool        = "Core and Specialist Teachers Gap Per School"
	ColumnSpecialEdTeachersGapPerSchool   = "Special Education Teachers Gap Per School"
	ColumnCounselorsGapPerSchool          = "Counselors Gap Per School"
	ColumnNursesGapPerSchool              = "Nurses Gap Per School"
	ColumnPsychologistsGapPerSchool       = "Psychologists Gap Per School"
	ColumnPrincipalsGapPerSchool          = "Principals Gap Per School"
	ColumnAssistantPrincipalsGapPerSchool = "Assistant Principals Gap Per School"
	ColumnELTeachersGapPerSchool          = "EL Teachers Gap Per School"
)

// DemographicColumns in presentation order. Values are fractions in [0,1] or null when redacted.
var DemographicColumns = []string{
	"White (%)",
	"Black (%)",
	"Latine (%)",
	"Asian (%)",
	"Native Hawaiian or Other Pacific Islander (%)",
	"American Indian or Alaska Native (%)",
	"IEP (%)",
	"EL (%)",
	"Low Income (%)",
}

// RevenueColumns in source order.
var RevenueColumns = []string{
	"Local Property Taxes (%)",
	"Other Local Funding (%)",
	"Evidence-Based Funding (%)",
	"Other State Funding (%)",
	"Federal Funding (%)",
}

// PercentSuffix is stripped from demographic and revenue column names to build labels.
const PercentSuffix = " (%)"

// AdequacyColumns are melted into (role, adequate) pairs.
var AdequacyColumns = []string{
	ColumnAdequacyTarget,
	ColumnAdequacyTargetPerStudent,
	ColumnAdequateCoreTeachers,
	ColumnAdequateSpecialEdTeachers,
	ColumnAdequateCounselors,
	ColumnAdequateNurses,
	ColumnAdequatePsychologists,
	ColumnAdequatePrincipals,
	ColumnAdequateAssistantPrincipals,
	ColumnAdequateELTeachers,
}

// ActualColumns are melted into (role, actual) pairs.
var ActualColumns = []string{
	ColumnActualResources,
	ColumnActualCoreTeachers,
	ColumnActualSpecialEdTeachers,
	ColumnActualCounselors,
	ColumnActualNurses,
	ColumnActualPsychologists,
	ColumnActualPrincipals,
	ColumnActualAssistantPrincipals,
	ColumnActualELTeachers,
}

// GapColumns are melted into (role, gap) pairs.
var GapColumns = []string{
	ColumnFundingGap,
	ColumnFundingGapPerStudent,
	ColumnCoreTeachersGap,
	ColumnSpecialEdTeachersGap,
	ColumnCounselorsGap,
	ColumnNursesGap,
	ColumnPsychologistsGap,
	ColumnPrincipalsGap,
	ColumnAssistantPrincipalsGap,
	ColumnELTeachersGap,
}

// GapPerSchoolColumns are melted into (role, gap per school) pairs.
var GapPerSchoolColumns = []string{
	ColumnFundingGapPerSchool,
	ColumnCoreTeachersGapPerSchool,
	ColumnSpecialEdTeachersGapPerSchool,
	ColumnCounselorsGapPerSchool,
	ColumnNursesGapPerSchool,
	ColumnPsychologistsGapPerSchool,
	ColumnPrincipalsGapPerSchool,
	ColumnAssistantPrincipalsGapPerSchool,
	ColumnELTeachersGapPerSchool,
}

// TextColumns hold strings rather than numbers.
var TextColumns = []string{
	ColumnRCDTS,
	ColumnDistrictName,
}

// DistrictColumns returns every column the wide district table must carry.
func DistrictColumns() []string {
	columns := []string{ColumnRCDTS, ColumnDistrictName, ColumnTotalASE, ColumnAdequacyLevel}
	for _, family := range [][]string{
		AdequacyColumns,
		ActualColumns,
		GapColumns,
		GapPerSchoolColumns,
		DemographicColumns,
		RevenueColumns,
	} {
		columns = append(columns, family...)
	}
	return columns
}

// IsTextColumn reports whether a wide-table column is kept as text.
func IsTextColumn(column string) bool {
	for _, c := range TextColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Legislative coverage table columns
const (
	CoverageColumnChamber         = "Chamber"
	CoverageColumnDistrictNumber  = "District Number"
	CoverageColumnLegislatorName  = "Legislator Name"
	CoverageColumnRCDTS           = "RCDTS"
	CoverageColumnSchoolDistrict  = "School District"
	CoverageColumnTotalStudents   = "Total Students"
	CoverageColumnShareOfStudents = "Share of Students"
)

// CoverageColumns returns every column the coverage table must carry.
func CoverageColumns() []string {
	return []string{
		CoverageColumnChamber,
		CoverageColumnDistrictNumber,
		CoverageColumnLegislatorName,
		CoverageColumnRCDTS,
		CoverageColumnSchoolDistrict,
		CoverageColumnTotalStudents,
		CoverageColumnShareOfStudents,
	}
}
