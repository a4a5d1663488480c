package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadDistricts(t *testing.T) {
	districtFile, _ := testutil.WriteDatasetFiles(t)

	rows, err := NewLoader(EncodingUTF8).LoadDistricts(districtFile)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, meta.StatewideDistrictName, rows[0].Text(meta.ColumnDistrictName))
	assert.Equal(t, testutil.SpringfieldID, rows[1].Text(meta.ColumnRCDTS))
	assert.Equal(t, 1000.0, rows[1][meta.ColumnTotalASE])
	assert.Equal(t, -0.5, rows[1][meta.ColumnCounselorsGapPerSchool])
	assert.Nil(t, rows[1]["Native Hawaiian or Other Pacific Islander (%)"])

	m, err := funding.Reshape(rows[1:2])
	require.NoError(t, err)
	assert.Len(t, m.Merged, len(meta.CanonicalRoles))
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(EncodingUTF8).LoadDistricts(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))

	var unavailable *DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, errors.Is(unavailable, os.ErrNotExist))
}

func TestLoader_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := NewLoader(EncodingUTF8).LoadCoverage(path)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoader_MissingHeader(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDistrictCSV(t, dir, testutil.DistrictRow("1", "A"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	renamed := strings.Replace(string(content), meta.ColumnAdequateNurses, "Adequate Nurse Count", 1)
	require.NoError(t, os.WriteFile(path, []byte(renamed), 0o600))

	_, err = NewLoader(EncodingUTF8).LoadDistricts(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, funding.ErrSchema)

	var schemaErr *funding.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{meta.ColumnAdequateNurses}, schemaErr.Missing)
}

func TestLoader_InvalidNumericCell(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDistrictCSV(t, dir, testutil.DistrictRow("1", "A", testutil.WithValue(meta.ColumnTotalASE, "lots")))

	_, err := NewLoader(EncodingUTF8).LoadDistricts(path)
	var schemaErr *funding.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{meta.ColumnTotalASE}, schemaErr.Invalid)
}

func TestLoader_NullTokensAndFormattedNumbers(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDistrictCSV(t, dir, testutil.DistrictRow("1", "A",
		testutil.WithValue(meta.ColumnAdequacyTarget, "$10,000,000"),
		testutil.WithValue(meta.ColumnFundingGap, "(2,000,000)"),
		testutil.WithValue(meta.ColumnAdequacyLevel, "80%"),
		testutil.WithValue("White (%)", "*"),
		testutil.WithValue("Black (%)", "NA"),
	))

	rows, err := NewLoader(EncodingUTF8).LoadDistricts(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 10_000_000.0, rows[0][meta.ColumnAdequacyTarget])
	assert.Equal(t, -2_000_000.0, rows[0][meta.ColumnFundingGap])
	assert.InDelta(t, 0.8, rows[0][meta.ColumnAdequacyLevel], 1e-12)
	assert.Nil(t, rows[0]["White (%)"])
	assert.Nil(t, rows[0]["Black (%)"])
}

func TestLoader_ExtraColumnsPassThrough(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDistrictCSV(t, dir, testutil.DistrictRow("1", "A"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	lines[0] += ",County,Enrollment Rank"
	lines[1] += ",Sangamon,12"
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))

	rows, err := NewLoader(EncodingUTF8).LoadDistricts(path)
	require.NoError(t, err)
	assert.Equal(t, "Sangamon", rows[0]["County"])
	assert.Equal(t, 12.0, rows[0]["Enrollment Rank"])
}

func TestLoader_Windows1252(t *testing.T) {
	dir := t.TempDir()
	header := strings.Join(meta.CoverageColumns(), ",")
	// 0xE9 is é in windows-1252
	line := []byte("House,5,Ren\xe9e Dupr\xe9,123,Ca\xf1on SD,100,0.5")
	path := filepath.Join(dir, "coverage.csv")
	require.NoError(t, os.WriteFile(path, append([]byte(header+"\n"), line...), 0o600))

	coverage, err := NewLoader(EncodingWindows1252).LoadCoverage(path)
	require.NoError(t, err)
	require.Len(t, coverage, 1)
	assert.Equal(t, "Renée Dupré", coverage[0].LegislatorName)
	assert.Equal(t, "Cañon SD", coverage[0].SchoolDistrict)
}

func TestLoader_UnsupportedEncoding(t *testing.T) {
	_, coverageFile := testutil.WriteDatasetFiles(t)
	_, err := NewLoader("ebcdic").LoadCoverage(coverageFile)
	assert.Error(t, err)
}

func TestLoader_LoadCoverage(t *testing.T) {
	_, coverageFile := testutil.WriteDatasetFiles(t)

	coverage, err := NewLoader("").LoadCoverage(coverageFile)
	require.NoError(t, err)
	require.Len(t, coverage, 4)

	first := coverage[0]
	assert.Equal(t, "House", first.Chamber)
	assert.Equal(t, 87, first.DistrictNumber)
	assert.Equal(t, "Alex Rivera", first.LegislatorName)
	assert.Equal(t, testutil.SpringfieldID, first.RCDTS)
	require.NotNil(t, first.TotalStudents)
	assert.Equal(t, 6000.0, *first.TotalStudents)
	require.NotNil(t, first.ShareOfStudents)
	assert.Equal(t, 0.4, *first.ShareOfStudents)
}

func TestLoader_CoverageMissingDistrictNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.csv")
	content := strings.Join(meta.CoverageColumns(), ",") + "\nHouse,,A,1,B,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := NewLoader(EncodingUTF8).LoadCoverage(path)
	var schemaErr *funding.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{meta.CoverageColumnDistrictNumber}, schemaErr.Invalid)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    interface{}
		wantErr bool
	}{
		{raw: "", want: nil},
		{raw: "NaN", want: nil},
		{raw: "12", want: 12.0},
		{raw: "-3.5", want: -3.5},
		{raw: "$1,234", want: 1234.0},
		{raw: "(5)", want: -5.0},
		{raw: "25%", want: 0.25},
		{raw: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseNumber(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
