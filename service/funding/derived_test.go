package funding_test

import (
	"testing"

	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerPupil(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		enrollment float64
		want       float64
	}{
		{name: "regular", total: 10_000_000, enrollment: 1000, want: 10_000},
		{name: "zero enrollment", total: 10_000_000, enrollment: 0, want: 0},
		{name: "negative enrollment", total: 5, enrollment: -1, want: 0},
		{name: "negative total", total: -2_000_000, enrollment: 1000, want: -2_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, funding.PerPupil(tt.total, tt.enrollment))
		})
	}
}

func TestDerive_District(t *testing.T) {
	m, err := funding.Reshape([]funding.Row{testutil.DistrictRow("1", "Example USD")})
	require.NoError(t, err)

	d := funding.Derive(m)
	assert.False(t, d.Statewide)
	assert.Equal(t, 8_000.0, d.ActualPerPupil)
	assert.Equal(t, 10_000.0, d.AdequatePerPupil)
	assert.Equal(t, -2_000.0, d.GapPerPupil)
	assert.Equal(t, -2_000_000.0, d.TotalGap)
	assert.Equal(t, d.ComputedGap, d.TotalGap)
}

func TestDerive_Statewide(t *testing.T) {
	row := testutil.DistrictRow("0", meta.StatewideDistrictName,
		testutil.WithValue(meta.ColumnFundingGap, -6_000_000.0),
	)
	m, err := funding.Reshape([]funding.Row{row})
	require.NoError(t, err)

	d := funding.Derive(m)
	assert.True(t, d.Statewide)
	assert.Equal(t, -6_000_000.0, d.TotalGap)
	assert.Equal(t, -6_000.0, d.GapPerPupil)
	assert.Equal(t, -2_000_000.0, d.ComputedGap)
	assert.NotEqual(t, d.ComputedGap, d.TotalGap)
}

func TestDerive_ZeroEnrollment(t *testing.T) {
	for _, name := range []string{"Example USD", meta.StatewideDistrictName} {
		t.Run(name, func(t *testing.T) {
			row := testutil.DistrictRow("1", name, testutil.WithValue(meta.ColumnTotalASE, 0.0))
			m, err := funding.Reshape([]funding.Row{row})
			require.NoError(t, err)

			d := funding.Derive(m)
			assert.Zero(t, d.ActualPerPupil)
			assert.Zero(t, d.AdequatePerPupil)
			assert.Zero(t, d.GapPerPupil)
		})
	}
}

func TestDerive_StatewideWithoutGapsFallsBack(t *testing.T) {
	opts := []testutil.RowOption{}
	for _, column := range meta.GapColumns {
		opts = append(opts, testutil.WithValue(column, nil))
	}
	m, err := funding.Reshape([]funding.Row{testutil.DistrictRow("0", meta.StatewideDistrictName, opts...)})
	require.NoError(t, err)

	d := funding.Derive(m)
	assert.Equal(t, -2_000_000.0, d.TotalGap)
	assert.Equal(t, -2_000.0, d.GapPerPupil)
}
