package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"peer-funding-service/api/middleware"
	"peer-funding-service/service/dashboard"
	"peer-funding-service/service/dataset"
	"peer-funding-service/service/event"
	"peer-funding-service/service/models"
	"peer-funding-service/service/monitoring"
	"peer-funding-service/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminToken = "reload-token"

type testApp struct {
	router   *chi.Mux
	datasets *dataset.Service
	helper   *testutil.HTTPTestHelper
}

func newTestApp(t *testing.T, load bool) *testApp {
	t.Helper()
	testDB := testutil.NewTestDB()
	t.Cleanup(testDB.Close)

	districtFile, coverageFile := testutil.WriteDatasetFiles(t)
	broadcaster := event.NewBroadcaster()
	t.Cleanup(func() { broadcaster.Close() })

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	datasets := dataset.NewService(
		dataset.NewLoader(dataset.EncodingUTF8),
		dataset.NewStore(testDB.DB),
		dataset.Sources{DistrictFile: districtFile, CoverageFile: coverageFile},
		metrics,
		broadcaster,
	)
	if load {
		_, err := datasets.Load(context.Background())
		require.NoError(t, err)
	}

	health := monitoring.NewHealthChecker(time.Second)
	health.Register("dataset", true, datasets.Ready)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	require.NoError(t, err)

	router := chi.NewRouter()
	Mount(router, Dependencies{
		Dashboard:      dashboard.NewService(datasets, nil, metrics),
		Datasets:       datasets,
		Broadcaster:    broadcaster,
		Health:         health,
		AdminTokenHash: string(hash),
	})
	return &testApp{router: router, datasets: datasets, helper: testutil.NewHTTPTestHelper()}
}

func (a *testApp) do(t *testing.T, method, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := a.helper.CreateJSONRequest(method, target, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	app := newTestApp(t, true)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/health").Code)

	var status monitoring.HealthStatus
	env := app.helper.DecodeData(t, app.do(t, http.MethodGet, "/ready"), http.StatusOK, &status)
	assert.Equal(t, 0, env.Status)
	assert.True(t, status.Ready)
}

func TestNotReady(t *testing.T) {
	app := newTestApp(t, false)

	env := app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, "/ready"), http.StatusServiceUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, env.Status)

	env = app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, "/options"), http.StatusServiceUnavailable)
	assert.Contains(t, env.Msg, dataset.ErrNoSnapshot.Error())

	app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, "/districts/"+testutil.SpringfieldID+"/view"), http.StatusServiceUnavailable)
}

func TestOptionsAndDistricts(t *testing.T) {
	app := newTestApp(t, true)

	var opts dashboard.Options
	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/options"), http.StatusOK, &opts)
	assert.Equal(t, []string{"House", "Senate"}, opts.Chambers)
	assert.Len(t, opts.StaffingRoles, 8)

	var list struct {
		Default   dataset.DistrictRef   `json:"default"`
		Districts []dataset.DistrictRef `json:"districts"`
	}
	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/districts"), http.StatusOK, &list)
	assert.Len(t, list.Districts, 3)
	assert.Equal(t, testutil.StatewideRCDTS, list.Default.RCDTS)
}

func TestDistrictEndpoints(t *testing.T) {
	app := newTestApp(t, true)
	base := "/districts/" + testutil.SpringfieldID

	var view dashboard.DistrictView
	app.helper.DecodeData(t, app.do(t, http.MethodGet, base+"/view?mode=per_pupil"), http.StatusOK, &view)
	assert.Equal(t, dashboard.ViewModePerPupil, view.Cards.Mode)
	assert.Equal(t, "$-2,000", view.Cards.Gap.Display)
	assert.Len(t, view.Staffing, 8)

	var dm dashboard.DistrictMetrics
	app.helper.DecodeData(t, app.do(t, http.MethodGet, base+"/metrics"), http.StatusOK, &dm)
	assert.Len(t, dm.Metrics.Merged, 9)
	assert.Equal(t, -2_000_000.0, dm.Derived.TotalGap)

	var explainer dashboard.StaffingExplainer
	app.helper.DecodeData(t, app.do(t, http.MethodGet, base+"/staffing?role=Counselors"), http.StatusOK, &explainer)
	assert.True(t, explainer.Understaffed)

	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/districts/by-name/view?name="+url.QueryEscape("Peoria SD 150")), http.StatusOK, &view)
	assert.Equal(t, dashboard.ToneSurplus, view.Headline.Tone)

	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/districts/by-name/view"), http.StatusOK, &view)
	assert.True(t, view.Statewide)
}

func TestDistrictEndpoints_Errors(t *testing.T) {
	app := newTestApp(t, true)
	base := "/districts/" + testutil.SpringfieldID

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"invalid mode", base + "/view?mode=weekly", http.StatusBadRequest},
		{"unknown district", "/districts/123/view", http.StatusNotFound},
		{"unknown district metrics", "/districts/123/metrics", http.StatusNotFound},
		{"missing role", base + "/staffing", http.StatusBadRequest},
		{"unknown role", base + "/staffing?role=Janitors", http.StatusBadRequest},
		{"unknown name", "/districts/by-name/view?name=Nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, tt.target), tt.want)
			assert.Equal(t, tt.want, env.Status)
			assert.NotEmpty(t, env.Msg)
		})
	}
}

func TestLegislativeEndpoints(t *testing.T) {
	app := newTestApp(t, true)

	var view dashboard.LegislativeView
	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/legislative/view?chamber=House&district=87"), http.StatusOK, &view)
	assert.Equal(t, "Alex Rivera (House District 87)", view.Header.Title)
	assert.Len(t, view.Covered.Rows, 2)

	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/legislative/view?legislator="+url.QueryEscape("Sam Ortiz")), http.StatusOK, &view)
	assert.Equal(t, "Senate", view.Header.Chamber)

	var numbers []int
	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/legislative/chambers/House/districts"), http.StatusOK, &numbers)
	assert.Equal(t, []int{87, 92}, numbers)

	var names []string
	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/legislative/legislators"), http.StatusOK, &names)
	assert.Equal(t, []string{"Alex Rivera", "Jordan Lee", "Sam Ortiz"}, names)

	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/legislative/chambers"), http.StatusOK, &names)
	assert.Equal(t, []string{"House", "Senate"}, names)

	app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, "/legislative/view?chamber=House&district=abc"), http.StatusBadRequest)
	app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, "/legislative/view"), http.StatusBadRequest)
	app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, "/legislative/view?chamber=House&district=1"), http.StatusNotFound)
	app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, "/legislative/chambers/Assembly/districts"), http.StatusNotFound)
}

func TestDatasetEndpoints(t *testing.T) {
	app := newTestApp(t, true)

	var versions []models.DatasetVersion
	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/datasets/versions"), http.StatusOK, &versions)
	require.Len(t, versions, 1)

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPost, "/datasets/reload").Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPost, "/datasets/reload", "Authorization", "Bearer wrong").Code)

	var result struct {
		VersionID string `json:"version_id"`
		Districts int    `json:"districts"`
	}
	app.helper.DecodeData(t, app.do(t, http.MethodPost, "/datasets/reload", "Authorization", "Bearer "+adminToken), http.StatusOK, &result)
	assert.Equal(t, 3, result.Districts)
	assert.NotEqual(t, versions[0].ID, result.VersionID)

	app.helper.DecodeData(t, app.do(t, http.MethodGet, "/datasets/versions?limit=1"), http.StatusOK, &versions)
	require.Len(t, versions, 1)
	assert.Equal(t, result.VersionID, versions[0].ID)

	app.helper.DecodeEnvelope(t, app.do(t, http.MethodGet, "/datasets/versions?limit=x"), http.StatusBadRequest)
}

func TestReloadRouteAbsentWithoutAdminHash(t *testing.T) {
	router := chi.NewRouter()
	Mount(router, Dependencies{Broadcaster: event.NewBroadcaster(), Health: monitoring.NewHealthChecker(time.Second)})

	req := httptest.NewRequest(http.MethodPost, "/datasets/reload", nil)
	req.Header.Set(middleware.AdminTokenHeader, adminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.True(t, w.Code == http.StatusNotFound || w.Code == http.StatusMethodNotAllowed, w.Code)
}

func TestEventStream(t *testing.T) {
	app := newTestApp(t, true)
	server := httptest.NewServer(app.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	_, err = app.datasets.Load(context.Background())
	require.NoError(t, err)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: "+event.TypeDatasetReloaded) {
			break
		}
	}
	data, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, data, `"districts":3`)
}
