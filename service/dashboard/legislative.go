package dashboard

import (
	"context"
	"fmt"
	"strings"

	"peer-funding-service/service/dataset"
	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/service/models"
)

const noteNegativeGaps = "Negative values represent funding gaps."

// positionGapColumns pairs each staffing role with its district-level gap column.
var positionGapColumns = []struct {
	role   meta.Role
	column string
}{
	{meta.RoleCoreTeachers, meta.ColumnCoreTeachersGap},
	{meta.RoleSpecialEdTeachers, meta.ColumnSpecialEdTeachersGap},
	{meta.RoleCounselors, meta.ColumnCounselorsGap},
	{meta.RoleNurses, meta.ColumnNursesGap},
	{meta.RolePsychologists, meta.ColumnPsychologistsGap},
	{meta.RolePrincipals, meta.ColumnPrincipalsGap},
	{meta.RoleAssistantPrincipals, meta.ColumnAssistantPrincipalsGap},
	{meta.RoleELTeachers, meta.ColumnELTeachersGap},
}

// LegislativeView builds the legislative lookup. Rows follow coverage file order.
func (s *Service) LegislativeView(_ context.Context, query LegislativeQuery) (*LegislativeView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	snapshot, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	var coverage []models.LegislativeCoverage
	if query.byLegislator() {
		coverage = snapshot.CoverageByLegislator(query.Legislator)
	} else {
		coverage = snapshot.CoverageByChamberDistrict(query.Chamber, query.DistrictNumber)
	}
	if len(coverage) == 0 {
		return nil, fmt.Errorf("%w: %s", dataset.ErrLegislatorNotFound, query.describe())
	}

	first := coverage[0]
	view := &LegislativeView{
		VersionID: snapshot.VersionID(),
		Header: LegislativeHeader{
			Legislator:     first.LegislatorName,
			Chamber:        first.Chamber,
			DistrictNumber: first.DistrictNumber,
			Title:          fmt.Sprintf("%s (%s District %d)", first.LegislatorName, first.Chamber, first.DistrictNumber),
		},
		Covered: Table[CoveredDistrict]{
			Title:   "School Districts Covered and Share of Students",
			Columns: []string{"School District", meta.CoverageColumnTotalStudents, meta.CoverageColumnShareOfStudents},
		},
		Adequacy: Table[AdequacyStats]{
			Title:   "Adequacy Funding Surplus(Gaps) and Levels",
			Columns: []string{"School District", "Adequacy Funding Surplus/Gap", "Adequacy Funding Surplus/Gap Per Student", meta.ColumnAdequacyLevel},
			Note:    noteNegativeGaps,
		},
		Positions:    Table[DistrictCells]{Title: "Adequacy Funding Gaps by Position", Columns: positionColumns()},
		Demographics: Table[DistrictCells]{Title: "Demographics", Columns: shareColumns(meta.DemographicColumns)},
		Revenue:      Table[DistrictCells]{Title: "Revenue Sources", Columns: shareColumns(meta.RevenueColumns)},
	}

	for _, joined := range snapshot.JoinCoverage(coverage) {
		c, row := joined.Coverage, joined.District
		name := c.SchoolDistrict

		view.Covered.Rows = append(view.Covered.Rows, CoveredDistrict{
			SchoolDistrict:  name,
			RCDTS:           c.RCDTS,
			TotalStudents:   Cell{Value: c.TotalStudents, Display: FormatCount(c.TotalStudents)},
			ShareOfStudents: Cell{Value: c.ShareOfStudents, Display: FormatPercent(c.ShareOfStudents, 0)},
		})

		gap := number(row, meta.ColumnFundingGap)
		perStudent := negate(number(row, meta.ColumnFundingGapPerStudent))
		level := number(row, meta.ColumnAdequacyLevel)
		view.Adequacy.Rows = append(view.Adequacy.Rows, AdequacyStats{
			SchoolDistrict: name,
			Gap:            Cell{Value: gap, Display: FormatCurrency(gap)},
			GapPerStudent:  Cell{Value: perStudent, Display: FormatCurrency(perStudent)},
			AdequacyLevel:  Cell{Value: level, Display: FormatPercent(level, 0)},
		})

		positions := DistrictCells{SchoolDistrict: name}
		for _, pc := range positionGapColumns {
			v := number(row, pc.column)
			positions.Cells = append(positions.Cells, NamedCell{Name: string(pc.role), Cell: Cell{Value: v, Display: FormatCount(v)}})
		}
		view.Positions.Rows = append(view.Positions.Rows, positions)

		view.Demographics.Rows = append(view.Demographics.Rows, shareCells(name, row, meta.DemographicColumns))
		view.Revenue.Rows = append(view.Revenue.Rows, shareCells(name, row, meta.RevenueColumns))
	}

	return view, nil
}

func (q LegislativeQuery) describe() string {
	if q.byLegislator() {
		return "legislator " + strings.TrimSpace(q.Legislator)
	}
	return fmt.Sprintf("%s district %d", q.Chamber, q.DistrictNumber)
}

// number reads a numeric cell; unmatched coverage rows and unparseable cells read as nil.
func number(row funding.Row, column string) *float64 {
	if row == nil {
		return nil
	}
	v, err := row.Number(column)
	if err != nil {
		return nil
	}
	return v
}

// negate flips the sign of the per-student gap, the table's display convention.
func negate(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return funding.Float(-*v)
}

func shareCells(name string, row funding.Row, columns []string) DistrictCells {
	cells := DistrictCells{SchoolDistrict: name}
	for _, column := range columns {
		v := number(row, column)
		cells.Cells = append(cells.Cells, NamedCell{
			Name: strings.TrimSuffix(column, meta.PercentSuffix),
			Cell: Cell{Value: v, Display: FormatPercent(v, 1)},
		})
	}
	return cells
}

func positionColumns() []string {
	columns := []string{"School District"}
	for _, pc := range positionGapColumns {
		columns = append(columns, string(pc.role))
	}
	return columns
}

func shareColumns(source []string) []string {
	columns := []string{"School District"}
	for _, column := range source {
		columns = append(columns, strings.TrimSuffix(column, meta.PercentSuffix))
	}
	return columns
}
