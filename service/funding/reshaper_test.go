/*
 * @module service/funding/reshaper_test
 * @description Reshaper contract tests: row and column preconditions, role normalization,
 *              merged table shape, scalars and purity
 * @architecture Test layer
 * @documentReference DESIGN.md
 * @dependencies testing, github.com/stretchr/testify
 * @refs reshaper.go, roles.go
 */

package funding_test

import (
	"errors"
	"testing"

	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReshape_MergedHasOneRowPerCanonicalRole(t *testing.T) {
	rows := []funding.Row{
		testutil.DistrictRow("1", "Example USD"),
		testutil.DistrictRow("2", meta.StatewideDistrictName),
		testutil.DistrictRow("3", "Sparse CUSD", testutil.WithValue(meta.ColumnActualNurses, nil)),
	}

	for _, row := range rows {
		m, err := funding.Reshape([]funding.Row{row})
		require.NoError(t, err)
		require.Len(t, m.Merged, 9)

		seen := make(map[meta.Role]bool)
		for i, rec := range m.Merged {
			assert.False(t, seen[rec.Resource], "duplicate role %s", rec.Resource)
			seen[rec.Resource] = true
			assert.Equal(t, meta.CanonicalRoles[i], rec.Resource)
		}
	}
}

func TestReshape_ExampleDistrict(t *testing.T) {
	row := testutil.DistrictRow("1", "Example USD",
		testutil.WithValue(meta.ColumnFundingGapPerSchool, -50.0),
		testutil.WithValue(meta.ColumnCounselorsGapPerSchool, -0.5),
	)

	m, err := funding.Reshape([]funding.Row{row})
	require.NoError(t, err)

	counselors, err := m.Resource(meta.RoleCounselors)
	require.NoError(t, err)
	assert.Equal(t, 5.0, *counselors.Adequate)
	assert.Equal(t, 3.0, *counselors.Actual)
	assert.Equal(t, -2.0, *counselors.Gap)
	assert.Equal(t, -0.5, *counselors.GapPerSchool)

	total, err := m.Resource(meta.RoleTotalResources)
	require.NoError(t, err)
	assert.Equal(t, 10_000_000.0, *total.Adequate)
	assert.Equal(t, 8_000_000.0, *total.Actual)
	assert.Equal(t, -2_000_000.0, *total.Gap)
	assert.Equal(t, -50.0, *total.GapPerSchool)

	assert.Equal(t, 8_000_000.0, m.ActualResources)
	assert.Equal(t, 10_000_000.0, m.AdequateResources)
	assert.Equal(t, 1000.0, m.ASE)
	assert.Equal(t, 10_000.0, funding.PerPupil(m.AdequateResources, m.ASE))

	assert.Equal(t, 10_000.0, *m.PerStudent.Adequate)
	assert.Equal(t, -2_000.0, *m.PerStudent.Gap)
	assert.Equal(t, 0.8, *m.AdequacyLevel)
	assert.Equal(t, "1", m.RCDTS)
	assert.Equal(t, "Example USD", m.DistrictName)
}

func TestReshape_DistrictGapEqualsActualMinusAdequate(t *testing.T) {
	m, err := funding.Reshape([]funding.Row{testutil.DistrictRow("1", "Example USD")})
	require.NoError(t, err)

	for _, rec := range m.Merged {
		require.NotNil(t, rec.Gap, rec.Resource)
		assert.Equal(t, *rec.Actual-*rec.Adequate, *rec.Gap, rec.Resource)
	}
}

func TestReshape_DemographicsAndRevenue(t *testing.T) {
	m, err := funding.Reshape([]funding.Row{testutil.DistrictRow("1", "Example USD")})
	require.NoError(t, err)

	require.Len(t, m.Demographics, 9)
	require.Len(t, m.Revenue, 5)

	assert.Equal(t, "White", m.Demographics[0].Category)
	assert.Equal(t, 0.40, *m.Demographics[0].Share)
	assert.Equal(t, "Native Hawaiian or Other Pacific Islander", m.Demographics[4].Category)
	assert.Nil(t, m.Demographics[4].Share, "redacted share stays null")
	assert.Equal(t, "Low Income", m.Demographics[8].Category)

	assert.Equal(t, "Local Property Taxes", m.Revenue[0].Category)
	assert.Equal(t, "Federal Funding", m.Revenue[4].Category)
	for _, r := range m.Revenue {
		assert.Equal(t, "1", r.RCDTS)
	}
}

func TestReshape_MissingJoinPartnerIsNull(t *testing.T) {
	row := testutil.DistrictRow("1", "Example USD",
		testutil.WithValue(meta.ColumnActualNurses, nil),
		testutil.WithValue(meta.ColumnNursesGapPerSchool, ""),
	)

	m, err := funding.Reshape([]funding.Row{row})
	require.NoError(t, err)

	nurses, err := m.Resource(meta.RoleNurses)
	require.NoError(t, err)
	assert.Equal(t, 2.0, *nurses.Adequate)
	assert.Nil(t, nurses.Actual)
	assert.Nil(t, nurses.GapPerSchool)
	assert.Len(t, m.Merged, 9)
}

func TestReshape_RowCountPrecondition(t *testing.T) {
	tests := []struct {
		name string
		rows []funding.Row
		want int
	}{
		{name: "no rows", rows: nil, want: 0},
		{name: "two rows", rows: []funding.Row{
			testutil.DistrictRow("1", "A"),
			testutil.DistrictRow("2", "B"),
		}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := funding.Reshape(tt.rows)
			assert.Nil(t, m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, funding.ErrEmptyInput))

			var emptyErr *funding.EmptyInputError
			require.True(t, errors.As(err, &emptyErr))
			assert.Equal(t, tt.want, emptyErr.Rows)
		})
	}
}

func TestReshape_MissingColumnIsSchemaError(t *testing.T) {
	row := testutil.DistrictRow("1", "Example USD", testutil.WithoutColumn(meta.ColumnAdequateNurses))

	m, err := funding.Reshape([]funding.Row{row})
	assert.Nil(t, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, funding.ErrSchema))

	var schemaErr *funding.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{meta.ColumnAdequateNurses}, schemaErr.Missing)
	assert.Contains(t, err.Error(), meta.ColumnAdequateNurses)
}

func TestReshape_NonNumericCellIsSchemaError(t *testing.T) {
	row := testutil.DistrictRow("1", "Example USD", testutil.WithValue(meta.ColumnCounselorsGap, "n/a-ish"))

	_, err := funding.Reshape([]funding.Row{row})
	var schemaErr *funding.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{meta.ColumnCounselorsGap}, schemaErr.Invalid)
}

func TestReshape_IsPureAndDeterministic(t *testing.T) {
	row := testutil.DistrictRow("1", "Example USD")
	before := row.Clone()

	first, err := funding.Reshape([]funding.Row{row})
	require.NoError(t, err)
	second, err := funding.Reshape([]funding.Row{row})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, row, "input row must not be mutated")

	// outputs do not alias each other
	*first.Merged[0].Adequate = -1
	assert.Equal(t, 10_000_000.0, *second.Merged[0].Adequate)
}

func TestReshape_StatewideMinGap(t *testing.T) {
	row := testutil.DistrictRow("0", meta.StatewideDistrictName,
		testutil.WithValue(meta.ColumnFundingGap, -5_679_275_708.0),
		testutil.WithValue(meta.ColumnTotalASE, 1_900_000.0),
	)

	m, err := funding.Reshape([]funding.Row{row})
	require.NoError(t, err)
	require.NotNil(t, m.StatewideMinGap)
	assert.Equal(t, -5_679_275_708.0, *m.StatewideMinGap)
	assert.NotEqual(t, m.ActualResources-m.AdequateResources, *m.StatewideMinGap)
	assert.True(t, m.IsStatewide())
}

func TestMetrics_IsStatewideMatchesDistrictName(t *testing.T) {
	tests := []struct {
		name  string
		rcdts string
		dist  string
		want  bool
	}{
		{"statewide name, zero rcdts", testutil.StatewideRCDTS, meta.StatewideDistrictName, true},
		{"statewide name, other rcdts", "99000000000000", meta.StatewideDistrictName, true},
		{"district name, zero rcdts", testutil.StatewideRCDTS, "Springfield SD 186", false},
		{"district", testutil.SpringfieldID, "Springfield SD 186", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := funding.Reshape([]funding.Row{testutil.DistrictRow(tt.rcdts, tt.dist)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.IsStatewide())
			assert.Equal(t, tt.want, funding.Derive(m).Statewide)
		})
	}
}

func TestReshape_StatewideMinGapSkipsNulls(t *testing.T) {
	opts := []testutil.RowOption{}
	for _, column := range meta.GapColumns {
		opts = append(opts, testutil.WithValue(column, nil))
	}
	m, err := funding.Reshape([]funding.Row{testutil.DistrictRow("1", "Example USD", opts...)})
	require.NoError(t, err)
	assert.Nil(t, m.StatewideMinGap)

	opts = append(opts, testutil.WithValue(meta.ColumnNursesGap, -3.0), testutil.WithValue(meta.ColumnELTeachersGap, 2.0))
	m, err = funding.Reshape([]funding.Row{testutil.DistrictRow("1", "Example USD", opts...)})
	require.NoError(t, err)
	require.NotNil(t, m.StatewideMinGap)
	assert.Equal(t, -3.0, *m.StatewideMinGap)
}

func TestReshape_StringCellsConvert(t *testing.T) {
	row := testutil.DistrictRow("1", "Example USD",
		testutil.WithValue(meta.ColumnTotalASE, "1000"),
		testutil.WithValue(meta.ColumnAdequateCounselors, "5.5"),
	)

	m, err := funding.Reshape([]funding.Row{row})
	require.NoError(t, err)
	counselors, err := m.Resource(meta.RoleCounselors)
	require.NoError(t, err)
	assert.Equal(t, 5.5, *counselors.Adequate)
	assert.Equal(t, 1000.0, m.ASE)
}

func TestMetrics_ResourceUnknownRole(t *testing.T) {
	m, err := funding.Reshape([]funding.Row{testutil.DistrictRow("1", "Example USD")})
	require.NoError(t, err)

	_, err = m.Resource(meta.Role("Librarians"))
	assert.True(t, errors.Is(err, funding.ErrUnknownRole))
}
