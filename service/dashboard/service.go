/*
 * @module service/dashboard/service
 * @description Presentation layer: turns a district selection into the headline, dollar cards,
 *              staffing explainers and share charts of the school-district view
 * @architecture Service layer - snapshot selection, cached reshape, view model assembly
 * @documentReference DESIGN.md
 * @stateFlow selector -> snapshot rows -> cache (miss: Reshape) -> Derive -> view models
 * @rules View mode is an explicit argument; reshape results are shared read-only through the cache
 * @dependencies peer-funding-service/service/funding, peer-funding-service/service/cache
 * @refs service/dataset/snapshot.go, api/controllers/district_controller.go
 */

package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"peer-funding-service/service/cache"
	"peer-funding-service/service/dataset"
	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/service/monitoring"
)

const (
	statewideSubject = "Illinois school districts"
	yAxisHeadroom    = 1.3

	labelAdequate     = "Fiscal Year 2026 Adequacy Target"
	helpAdequate      = "The amount the EBF formula says your district needs to be adequately funded."
	labelActual       = "EBF Final Resources"
	helpActual        = "The actual dollars your district receives from EBF this year."
	labelStatewideGap = "EBF School Funding Gap"
	noteStatewideGap  = "The State of Illinois calculates the gap as the sum of all gaps. This is why the gap will not be the difference between the total adequacy target and final resources."
	labelGap          = "School Funding Gap"
	labelSurplus      = "EBF School Funding Surplus"
)

// SnapshotSource provides the active dataset.
type SnapshotSource interface {
	Current() (*dataset.Snapshot, error)
}

// Service builds dashboard view models.
type Service struct {
	snapshots SnapshotSource
	cache     cache.MetricsCache
	metrics   *monitoring.Metrics
}

// NewService creates the presentation service. A nil cache falls back to an in-memory cache.
func NewService(snapshots SnapshotSource, metricsCache cache.MetricsCache, metrics *monitoring.Metrics) *Service {
	if metricsCache == nil {
		metricsCache = cache.NewMemoryCache()
	}
	return &Service{snapshots: snapshots, cache: metricsCache, metrics: metrics}
}

// DistrictMetrics selects a district and returns its reshaped metrics and derived values.
func (s *Service) DistrictMetrics(ctx context.Context, selector Selector) (*DistrictMetrics, error) {
	snapshot, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}
	return s.districtMetrics(ctx, snapshot, selector)
}

func (s *Service) districtMetrics(ctx context.Context, snapshot *dataset.Snapshot, selector Selector) (*DistrictMetrics, error) {
	rows, err := selectRows(snapshot, selector)
	if err != nil {
		return nil, err
	}

	m, err := s.reshape(ctx, snapshot.VersionID(), rows)
	if err != nil {
		return nil, err
	}

	return &DistrictMetrics{
		District:  dataset.DistrictRef{RCDTS: m.RCDTS, Name: m.DistrictName},
		VersionID: snapshot.VersionID(),
		Metrics:   m,
		Derived:   funding.Derive(m),
	}, nil
}

func selectRows(snapshot *dataset.Snapshot, selector Selector) ([]funding.Row, error) {
	var rows []funding.Row
	switch {
	case strings.TrimSpace(selector.RCDTS) != "":
		rows = snapshot.DistrictByRCDTS(selector.RCDTS)
	case strings.TrimSpace(selector.Name) != "":
		rows = snapshot.DistrictByName(selector.Name)
	default:
		ref, ok := snapshot.DefaultDistrict()
		if !ok {
			return nil, fmt.Errorf("%w: dataset has no districts", dataset.ErrDistrictNotFound)
		}
		rows = snapshot.DistrictByRCDTS(ref.RCDTS)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", dataset.ErrDistrictNotFound, selector)
	}
	return rows, nil
}

// reshape memoises Reshape per dataset version and RCDTS. Cache failures degrade to recomputation.
func (s *Service) reshape(ctx context.Context, versionID string, rows []funding.Row) (*funding.Metrics, error) {
	if len(rows) != 1 {
		err := &funding.EmptyInputError{Rows: len(rows)}
		s.metrics.ObserveReshape(err, 0)
		return nil, err
	}

	key := cache.Key(versionID, rows[0].Text(meta.ColumnRCDTS))
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("metrics cache read failed", "key", key, "error", err)
	}
	if ok {
		s.metrics.ObserveCache(true)
		return cached, nil
	}
	s.metrics.ObserveCache(false)

	start := time.Now()
	m, err := funding.Reshape(rows)
	s.metrics.ObserveReshape(err, time.Since(start))
	if err != nil {
		return nil, err
	}

	stored, err := s.cache.Add(ctx, key, m)
	if err != nil {
		slog.Warn("metrics cache write failed", "key", key, "error", err)
		return m, nil
	}
	return stored, nil
}

// DistrictView builds the school-district view in the given mode.
func (s *Service) DistrictView(ctx context.Context, selector Selector, mode ViewMode) (*DistrictView, error) {
	mode, err := ParseViewMode(string(mode))
	if err != nil {
		return nil, err
	}
	dm, err := s.DistrictMetrics(ctx, selector)
	if err != nil {
		return nil, err
	}

	m, d := dm.Metrics, dm.Derived
	staffing := make([]StaffingExplainer, 0, len(meta.StaffingRoles))
	for _, role := range meta.StaffingRoles {
		explainer, err := buildStaffingExplainer(m, role)
		if err != nil {
			return nil, err
		}
		staffing = append(staffing, explainer)
	}

	return &DistrictView{
		District:     dm.District,
		VersionID:    dm.VersionID,
		Statewide:    d.Statewide,
		Headline:     buildHeadline(m),
		Cards:        buildCards(m, d, mode),
		Derived:      d,
		Staffing:     staffing,
		Revenue:      buildRevenueChart(m.Revenue),
		Demographics: buildDemographicsChart(m.Demographics),
	}, nil
}

// StaffingExplainer builds the explainer of one staffing role. The role may be given as
// canonical name or selector label.
func (s *Service) StaffingExplainer(ctx context.Context, selector Selector, role string) (*StaffingExplainer, error) {
	parsed, ok := meta.ParseStaffingRole(strings.TrimSpace(role))
	if !ok {
		return nil, fmt.Errorf("%w: %q", funding.ErrUnknownRole, role)
	}
	dm, err := s.DistrictMetrics(ctx, selector)
	if err != nil {
		return nil, err
	}
	explainer, err := buildStaffingExplainer(dm.Metrics, parsed)
	if err != nil {
		return nil, err
	}
	return &explainer, nil
}

func buildHeadline(m *funding.Metrics) Headline {
	level := funding.ValueOrZero(m.AdequacyLevel)
	percent := FormatPercent(&level, 0)

	h := Headline{
		Subject:         m.DistrictName,
		AdequacyLevel:   m.AdequacyLevel,
		AdequacyPercent: percent,
		Tone:            ToneShortfall,
	}
	verb := "has"
	switch {
	case m.IsStatewide():
		h.Subject = statewideSubject
		verb = "have"
	case level > 1:
		h.Tone = ToneSurplus
	}
	h.Text = fmt.Sprintf("%s %s %s of the state and local funding needed to be adequately funded.", h.Subject, verb, percent)
	return h
}

func buildCards(m *funding.Metrics, d funding.Derived, mode ViewMode) Cards {
	adequate, actual, gap := m.AdequateResources, m.ActualResources, d.TotalGap
	if mode == ViewModePerPupil {
		adequate, actual, gap = d.AdequatePerPupil, d.ActualPerPupil, d.GapPerPupil
	}

	gapCard := dollarCard(labelSurplus, gap)
	switch {
	case gap < 0 && d.Statewide:
		gapCard.Label = labelStatewideGap
		gapCard.Note = noteStatewideGap
	case gap < 0:
		gapCard.Label = labelGap
	}
	gapCard.Positive = gap > 0

	adequateCard := dollarCard(labelAdequate, adequate)
	adequateCard.Help = helpAdequate
	actualCard := dollarCard(labelActual, actual)
	actualCard.Help = helpActual

	return Cards{Mode: mode, Adequate: adequateCard, Actual: actualCard, Gap: gapCard}
}

func dollarCard(label string, value float64) Card {
	return Card{Label: label, Value: value, Display: FormatCurrency(&value)}
}

// buildStaffingExplainer uses the district-level gap for the statewide row and the per-school gap otherwise.
func buildStaffingExplainer(m *funding.Metrics, role meta.Role) (StaffingExplainer, error) {
	rec, err := m.Resource(role)
	if err != nil {
		return StaffingExplainer{}, err
	}

	statewide := m.IsStatewide()
	e := StaffingExplainer{Role: role, Label: role.DisplayName(), Gap: rec.GapPerSchool, PerSchool: !statewide}
	if statewide {
		e.Gap = rec.Gap
	}
	positions := strings.ToLower(role.DisplayName())

	if e.Gap == nil {
		e.Text = fmt.Sprintf("Staffing data for %s positions is not reported for this selection.", positions)
		return e, nil
	}

	gap := *e.Gap
	e.Understaffed = gap < 0
	switch {
	case statewide && !e.Understaffed:
		e.Text = fmt.Sprintf("According to the EBF formula, Illinois schools are adequately staffed with %s positions; however, this may not reflect the on-the-ground needs at your school.", positions)
	case statewide:
		e.Text = fmt.Sprintf("A fully funded EBF formula could mean %s more %s positions in Illinois.", formatPositions(-gap, false), positions)
	case !e.Understaffed:
		e.Text = fmt.Sprintf("According to the EBF formula, your school district is adequately staffed with %s positions; however, this may not reflect the on-the-ground needs at your school.", positions)
	default:
		e.Text = fmt.Sprintf("A fully funded EBF formula could mean %s more %s positions per school in your district.", formatPositions(-gap, true), positions)
	}
	return e, nil
}

// buildRevenueChart sorts sources by share, largest first; unreported shares go last.
func buildRevenueChart(shares []funding.CategoryShare) Chart {
	bars := toBars(shares)
	sort.SliceStable(bars, func(i, j int) bool {
		a, b := bars[i].Share, bars[j].Share
		if a == nil || b == nil {
			return a != nil
		}
		return *a > *b
	})
	return Chart{
		Title:      "Revenue by Source",
		YAxisTitle: "Percent of Total Revenue (%)",
		YMax:       yMax(bars),
		Bars:       bars,
	}
}

// buildDemographicsChart keeps source order and scales to its own maximum.
func buildDemographicsChart(shares []funding.CategoryShare) Chart {
	bars := toBars(shares)
	return Chart{
		Title:      "Student Demographics",
		YAxisTitle: "Percentage of Students (%)",
		YMax:       yMax(bars),
		Bars:       bars,
	}
}

func toBars(shares []funding.CategoryShare) []Bar {
	bars := make([]Bar, 0, len(shares))
	for _, share := range shares {
		bars = append(bars, Bar{Category: share.Category, Share: share.Share, Label: FormatPercent(share.Share, 0)})
	}
	return bars
}

func yMax(bars []Bar) float64 {
	var max float64
	for _, bar := range bars {
		if bar.Share != nil && *bar.Share > max {
			max = *bar.Share
		}
	}
	return max * yAxisHeadroom
}

// Options returns the selector options of the active dataset.
func (s *Service) Options(_ context.Context) (*Options, error) {
	snapshot, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	opts := &Options{
		VersionID:       snapshot.VersionID(),
		Districts:       snapshot.Districts(),
		Chambers:        snapshot.Chambers(),
		DistrictNumbers: make(map[string][]int),
		Legislators:     snapshot.Legislators(),
		ViewModes:       ViewModes,
	}
	if ref, ok := snapshot.DefaultDistrict(); ok {
		opts.DefaultDistrict = ref
	}
	for _, chamber := range opts.Chambers {
		opts.DistrictNumbers[chamber] = snapshot.DistrictNumbers(chamber)
	}
	for _, role := range meta.StaffingRoles {
		opts.StaffingRoles = append(opts.StaffingRoles, RoleOption{Value: role, Label: role.DisplayName()})
	}
	return opts, nil
}
