package dashboard

import (
	"context"
	"testing"

	"peer-funding-service/service/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegislativeView_ByChamberDistrict(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.LegislativeView(context.Background(), LegislativeQuery{Chamber: "House", DistrictNumber: 87})
	require.NoError(t, err)

	assert.Equal(t, LegislativeHeader{
		Legislator:     "Alex Rivera",
		Chamber:        "House",
		DistrictNumber: 87,
		Title:          "Alex Rivera (House District 87)",
	}, view.Header)

	require.Len(t, view.Covered.Rows, 2)
	assert.Equal(t, "Springfield SD 186", view.Covered.Rows[0].SchoolDistrict)
	assert.Equal(t, "6,000", view.Covered.Rows[0].TotalStudents.Display)
	assert.Equal(t, "40%", view.Covered.Rows[0].ShareOfStudents.Display)
	assert.Equal(t, "Peoria SD 150", view.Covered.Rows[1].SchoolDistrict)

	springfield := view.Adequacy.Rows[0]
	assert.Equal(t, "$-2,000,000", springfield.Gap.Display)
	assert.Equal(t, 2_000.0, *springfield.GapPerStudent.Value)
	assert.Equal(t, "$2,000", springfield.GapPerStudent.Display)
	assert.Equal(t, "80%", springfield.AdequacyLevel.Display)

	peoria := view.Adequacy.Rows[1]
	assert.Equal(t, "$1,000,000", peoria.Gap.Display)
	assert.Equal(t, "$-1,000", peoria.GapPerStudent.Display)
	assert.Equal(t, "110%", peoria.AdequacyLevel.Display)
	assert.Equal(t, noteNegativeGaps, view.Adequacy.Note)

	require.Len(t, view.Positions.Rows[0].Cells, 8)
	assert.Equal(t, "Core and Specialist Teachers", view.Positions.Rows[0].Cells[0].Name)
	assert.Equal(t, "-8", view.Positions.Rows[0].Cells[0].Display)
	assert.Len(t, view.Positions.Columns, 9)

	assert.Equal(t, "White", view.Demographics.Rows[0].Cells[0].Name)
	assert.Equal(t, "40.0%", view.Demographics.Rows[0].Cells[0].Display)
	assert.Equal(t, "Local Property Taxes", view.Revenue.Rows[0].Cells[0].Name)
	assert.Equal(t, "55.0%", view.Revenue.Rows[0].Cells[0].Display)
}

func TestLegislativeView_ByLegislator(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.LegislativeView(context.Background(), LegislativeQuery{Legislator: "Jordan Lee"})
	require.NoError(t, err)

	assert.Equal(t, "Jordan Lee (House District 92)", view.Header.Title)
	require.Len(t, view.Covered.Rows, 1)
	assert.Equal(t, "9,000", view.Covered.Rows[0].TotalStudents.Display)
	assert.Equal(t, "60%", view.Covered.Rows[0].ShareOfStudents.Display)
}

func TestLegislativeView_UnmatchedDistrict(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.LegislativeView(context.Background(), LegislativeQuery{Chamber: "Senate", DistrictNumber: 44})
	require.NoError(t, err)

	require.Len(t, view.Adequacy.Rows, 1)
	row := view.Adequacy.Rows[0]
	assert.Equal(t, "Unknown CUSD 9", row.SchoolDistrict)
	assert.Nil(t, row.Gap.Value)
	assert.Empty(t, row.Gap.Display)
	assert.Nil(t, row.GapPerStudent.Value)
	assert.Equal(t, "300", view.Covered.Rows[0].TotalStudents.Display)
}

func TestLegislativeView_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.LegislativeView(ctx, LegislativeQuery{})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.LegislativeView(ctx, LegislativeQuery{Chamber: "House"})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.LegislativeView(ctx, LegislativeQuery{Chamber: "House", DistrictNumber: 1})
	assert.ErrorIs(t, err, dataset.ErrLegislatorNotFound)

	_, err = svc.LegislativeView(ctx, LegislativeQuery{Legislator: "Nobody"})
	assert.ErrorIs(t, err, dataset.ErrLegislatorNotFound)
}
