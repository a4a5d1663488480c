/*
 * @module testutil/test_helper
 * @description Test infrastructure: in-memory database, dataset files and HTTP helpers
 * @architecture Test infrastructure - shared fixtures and factories
 * @documentReference DESIGN.md
 * @stateFlow test environment init -> fixture creation -> test execution -> cleanup
 * @rules Every NewTestDB call returns an isolated database
 * @dependencies gorm, sqlite, testify
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps an isolated in-memory database.
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB opens an in-memory sqlite database and migrates every model.
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// each sqlite :memory: connection is its own database
	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to get test database handle: %v", err))
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	return &TestDB{DB: db}
}

// CleanDB empties every table.
func (tdb *TestDB) CleanDB() {
	for _, table := range []string{"legislative_coverages", "district_records", "dataset_versions"} {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close closes the database connection.
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// Fixture district identifiers
const (
	StatewideRCDTS = "00000000000000"
	SpringfieldID  = "51084186025000"
	PeoriaID       = "48072150025000"
)

// DefaultDistricts returns the statewide row followed by two districts: Springfield is
// short of adequacy, Peoria has a surplus.
func DefaultDistricts() []funding.Row {
	return []funding.Row{
		DistrictRow(StatewideRCDTS, meta.StatewideDistrictName,
			WithValue(meta.ColumnTotalASE, 1_000_000.0),
			WithRole(meta.RoleTotalResources, RoleFigures{Adequate: 10_000_000_000, Actual: 8_000_000_000, Schools: 3_900}),
			WithValue(meta.ColumnFundingGap, -3_000_000_000.0),
		),
		DistrictRow(SpringfieldID, "Springfield SD 186"),
		DistrictRow(PeoriaID, "Peoria SD 150",
			WithValue(meta.ColumnAdequacyLevel, 1.1),
			WithRole(meta.RoleTotalResources, RoleFigures{Adequate: 10_000_000, Actual: 11_000_000, Schools: 40_000}),
			WithValue(meta.ColumnFundingGapPerStudent, 1_000.0),
		),
	}
}

// DefaultCoverage returns coverage rows for two House districts and one Senate district.
// The Senate row references an RCDTS with no district row.
func DefaultCoverage() []CoverageRow {
	return []CoverageRow{
		{Chamber: "House", DistrictNumber: 87, LegislatorName: "Alex Rivera", RCDTS: SpringfieldID, SchoolDistrict: "Springfield SD 186", TotalStudents: 6000, ShareOfStudents: 0.4},
		{Chamber: "House", DistrictNumber: 87, LegislatorName: "Alex Rivera", RCDTS: PeoriaID, SchoolDistrict: "Peoria SD 150", TotalStudents: 1500, ShareOfStudents: 0.1},
		{Chamber: "House", DistrictNumber: 92, LegislatorName: "Jordan Lee", RCDTS: PeoriaID, SchoolDistrict: "Peoria SD 150", TotalStudents: 9000, ShareOfStudents: 0.6},
		{Chamber: "Senate", DistrictNumber: 44, LegislatorName: "Sam Ortiz", RCDTS: "99999999999999", SchoolDistrict: "Unknown CUSD 9", TotalStudents: 300, ShareOfStudents: 1},
	}
}

// WriteDatasetFiles writes the default dataset to a temp dir and returns both paths.
func WriteDatasetFiles(t *testing.T) (districtFile, coverageFile string) {
	t.Helper()
	dir := t.TempDir()
	return WriteDistrictCSV(t, dir, DefaultDistricts()...), WriteCoverageCSV(t, dir, DefaultCoverage()...)
}

// HTTPTestHelper builds requests and decodes responses.
type HTTPTestHelper struct{}

// NewHTTPTestHelper creates the helper.
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest builds a request with an optional JSON body.
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Envelope mirrors the API response envelope with a raw data field.
type Envelope struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// DecodeEnvelope asserts the status code and decodes the envelope.
func (h *HTTPTestHelper) DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) Envelope {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, w.Body.String())
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// DecodeData decodes the envelope data field into out.
func (h *HTTPTestHelper) DecodeData(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, out interface{}) Envelope {
	t.Helper()
	env := h.DecodeEnvelope(t, w, expectedStatus)
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
	return env
}
