/*
 * @module testutil/district_fixtures
 * @description Wide district rows and dataset files for tests
 * @architecture Test infrastructure - data factory
 * @documentReference DESIGN.md
 * @stateFlow build row -> apply options -> write CSV fixtures
 * @rules Default rows are internally consistent: every gap equals actual minus adequate
 * @dependencies encoding/csv, github.com/spf13/cast
 * @refs service/meta/district_columns.go
 */

package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"

	"github.com/spf13/cast"
)

// RoleFigures are the adequate and actual figures of one role in a fixture row.
type RoleFigures struct {
	Adequate float64
	Actual   float64
	Schools  float64
}

// DefaultRoleFigures per canonical role. Gaps are derived as actual - adequate.
var DefaultRoleFigures = map[meta.Role]RoleFigures{
	meta.RoleTotalResources:      {Adequate: 10_000_000, Actual: 8_000_000, Schools: 40_000},
	meta.RoleCoreTeachers:        {Adequate: 60, Actual: 52, Schools: 4},
	meta.RoleSpecialEdTeachers:   {Adequate: 12, Actual: 10, Schools: 4},
	meta.RoleCounselors:          {Adequate: 5, Actual: 3, Schools: 4},
	meta.RoleNurses:              {Adequate: 2, Actual: 1, Schools: 4},
	meta.RolePsychologists:       {Adequate: 2, Actual: 2, Schools: 4},
	meta.RolePrincipals:          {Adequate: 4, Actual: 4, Schools: 4},
	meta.RoleAssistantPrincipals: {Adequate: 3, Actual: 2, Schools: 4},
	meta.RoleELTeachers:          {Adequate: 6, Actual: 7, Schools: 4},
}

// roleColumns lists the adequacy, actual, gap and per-school columns of each role.
var roleColumns = map[meta.Role][4]string{
	meta.RoleTotalResources:      {meta.ColumnAdequacyTarget, meta.ColumnActualResources, meta.ColumnFundingGap, meta.ColumnFundingGapPerSchool},
	meta.RoleCoreTeachers:        {meta.ColumnAdequateCoreTeachers, meta.ColumnActualCoreTeachers, meta.ColumnCoreTeachersGap, meta.ColumnCoreTeachersGapPerSchool},
	meta.RoleSpecialEdTeachers:   {meta.ColumnAdequateSpecialEdTeachers, meta.ColumnActualSpecialEdTeachers, meta.ColumnSpecialEdTeachersGap, meta.ColumnSpecialEdTeachersGapPerSchool},
	meta.RoleCounselors:          {meta.ColumnAdequateCounselors, meta.ColumnActualCounselors, meta.ColumnCounselorsGap, meta.ColumnCounselorsGapPerSchool},
	meta.RoleNurses:              {meta.ColumnAdequateNurses, meta.ColumnActualNurses, meta.ColumnNursesGap, meta.ColumnNursesGapPerSchool},
	meta.RolePsychologists:       {meta.ColumnAdequatePsychologists, meta.ColumnActualPsychologists, meta.ColumnPsychologistsGap, meta.ColumnPsychologistsGapPerSchool},
	meta.RolePrincipals:          {meta.ColumnAdequatePrincipals, meta.ColumnActualPrincipals, meta.ColumnPrincipalsGap, meta.ColumnPrincipalsGapPerSchool},
	meta.RoleAssistantPrincipals: {meta.ColumnAdequateAssistantPrincipals, meta.ColumnActualAssistantPrincipals, meta.ColumnAssistantPrincipalsGap, meta.ColumnAssistantPrincipalsGapPerSchool},
	meta.RoleELTeachers:          {meta.ColumnAdequateELTeachers, meta.ColumnActualELTeachers, meta.ColumnELTeachersGap, meta.ColumnELTeachersGapPerSchool},
}

// RoleColumns returns the (adequate, actual, gap, gap per school) columns of a role.
func RoleColumns(role meta.Role) [4]string {
	return roleColumns[role]
}

// DefaultShares for demographic and revenue columns. Nil means redacted.
var DefaultShares = map[string]interface{}{
	"White (%)":    0.40,
	"Black (%)":    0.20,
	"Latine (%)":   0.25,
	"Asian (%)":    0.05,
	"Native Hawaiian or Other Pacific Islander (%)": nil,
	"American Indian or Alaska Native (%)":          0.01,
	"IEP (%)":                    0.15,
	"EL (%)":                     0.10,
	"Low Income (%)":             0.45,
	"Local Property Taxes (%)":   0.55,
	"Other Local Funding (%)":    0.05,
	"Evidence-Based Funding (%)": 0.25,
	"Other State Funding (%)":    0.07,
	"Federal Funding (%)":        0.08,
}

// RowOption customises a fixture row.
type RowOption func(funding.Row)

// WithValue sets a single cell.
func WithValue(column string, value interface{}) RowOption {
	return func(r funding.Row) {
		r[column] = value
	}
}

// WithoutColumn drops a column.
func WithoutColumn(column string) RowOption {
	return func(r funding.Row) {
		delete(r, column)
	}
}

// WithRole overrides the figures of a role and recomputes its gaps.
func WithRole(role meta.Role, figures RoleFigures) RowOption {
	return func(r funding.Row) {
		setRole(r, role, figures)
	}
}

// DistrictRow builds a complete, consistent wide row.
func DistrictRow(rcdts, name string, opts ...RowOption) funding.Row {
	row := funding.Row{
		meta.ColumnRCDTS:         rcdts,
		meta.ColumnDistrictName:  name,
		meta.ColumnTotalASE:      1000.0,
		meta.ColumnAdequacyLevel: 0.8,
	}
	for role, figures := range DefaultRoleFigures {
		setRole(row, role, figures)
	}
	row[meta.ColumnAdequacyTargetPerStudent] = 10_000.0
	row[meta.ColumnFundingGapPerStudent] = -2_000.0
	for column, share := range DefaultShares {
		row[column] = share
	}
	for _, opt := range opts {
		opt(row)
	}
	return row
}

func setRole(row funding.Row, role meta.Role, f RoleFigures) {
	cols := roleColumns[role]
	gap := f.Actual - f.Adequate
	row[cols[0]] = f.Adequate
	row[cols[1]] = f.Actual
	row[cols[2]] = gap
	if f.Schools > 0 {
		row[cols[3]] = gap / f.Schools
	} else {
		row[cols[3]] = nil
	}
}

// CoverageRow is one legislative coverage fixture line.
type CoverageRow struct {
	Chamber         string
	DistrictNumber  int
	LegislatorName  string
	RCDTS           string
	SchoolDistrict  string
	TotalStudents   float64
	ShareOfStudents float64
}

// WriteDistrictCSV writes rows to a CSV file in dir using the full district header.
func WriteDistrictCSV(t *testing.T, dir string, rows ...funding.Row) string {
	t.Helper()
	header := meta.DistrictColumns()
	records := [][]string{header}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, column := range header {
			if v, ok := row[column]; ok && v != nil {
				record[i] = cast.ToString(v)
			}
		}
		records = append(records, record)
	}
	return writeCSV(t, filepath.Join(dir, "app_data_wide.csv"), records)
}

// WriteCoverageCSV writes coverage rows to a CSV file in dir.
func WriteCoverageCSV(t *testing.T, dir string, rows ...CoverageRow) string {
	t.Helper()
	records := [][]string{meta.CoverageColumns()}
	for _, r := range rows {
		records = append(records, []string{
			r.Chamber,
			cast.ToString(r.DistrictNumber),
			r.LegislatorName,
			r.RCDTS,
			r.SchoolDistrict,
			cast.ToString(r.TotalStudents),
			cast.ToString(r.ShareOfStudents),
		})
	}
	return writeCSV(t, filepath.Join(dir, "leg_dist_coverage.csv"), records)
}

func writeCSV(t *testing.T, path string, records [][]string) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
