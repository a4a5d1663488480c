/*
 * @module service/dashboard/view_models
 * @description View models consumed by the presentation front end
 * @architecture DTO layer - JSON shapes of the district and legislative views
 * @documentReference DESIGN.md
 * @stateFlow reshaper output + derived values -> view models -> JSON envelope
 * @rules Numeric values travel alongside their formatted text; nil means not reported
 * @dependencies peer-funding-service/service/funding
 * @refs service/dashboard/service.go, api/controllers
 */

package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"peer-funding-service/service/dataset"
	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
)

var (
	// ErrInvalidViewMode is returned for a mode other than total or per_pupil.
	ErrInvalidViewMode = errors.New("invalid view mode")
	// ErrInvalidQuery is returned for a legislative query naming neither a district nor a legislator.
	ErrInvalidQuery = errors.New("invalid legislative query")
)

// ViewMode selects total or per-pupil dollar figures. It is caller-owned session state.
type ViewMode string

const (
	ViewModeTotal    ViewMode = "total"
	ViewModePerPupil ViewMode = "per_pupil"
)

// ViewModes lists the accepted modes.
var ViewModes = []ViewMode{ViewModeTotal, ViewModePerPupil}

// ParseViewMode accepts "", "total" and "per_pupil". Empty means total.
func ParseViewMode(value string) (ViewMode, error) {
	switch ViewMode(strings.TrimSpace(value)) {
	case "", ViewModeTotal:
		return ViewModeTotal, nil
	case ViewModePerPupil:
		return ViewModePerPupil, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, value)
}

// Tone colours the headline.
type Tone string

const (
	ToneShortfall Tone = "shortfall"
	ToneSurplus   Tone = "surplus"
)

// Selector picks a district by RCDTS or by name. An empty selector picks the default district.
type Selector struct {
	RCDTS string
	Name  string
}

func (s Selector) String() string {
	if s.RCDTS != "" {
		return "rcdts " + s.RCDTS
	}
	if s.Name != "" {
		return "name " + s.Name
	}
	return "default district"
}

// DistrictMetrics is the raw reshaper output of one selection plus its derived values.
type DistrictMetrics struct {
	District  dataset.DistrictRef `json:"district"`
	VersionID string              `json:"version_id"`
	Metrics   *funding.Metrics    `json:"metrics"`
	Derived   funding.Derived     `json:"derived"`
}

// Headline is the adequacy sentence at the top of the district view.
type Headline struct {
	Subject         string   `json:"subject" example:"Springfield SD 186"`
	AdequacyLevel   *float64 `json:"adequacy_level"`
	AdequacyPercent string   `json:"adequacy_percent" example:"80%"`
	Tone            Tone     `json:"tone" example:"shortfall"`
	Text            string   `json:"text"`
}

// Card is one dollar card.
type Card struct {
	Label    string  `json:"label"`
	Help     string  `json:"help,omitempty"`
	Note     string  `json:"note,omitempty"`
	Value    float64 `json:"value"`
	Display  string  `json:"display" example:"$10,000,000"`
	Positive bool    `json:"positive"`
}

// Cards are the adequate, actual and gap cards in the requested mode.
type Cards struct {
	Mode     ViewMode `json:"mode"`
	Adequate Card     `json:"adequate"`
	Actual   Card     `json:"actual"`
	Gap      Card     `json:"gap"`
}

// StaffingExplainer is the sentence describing what full funding means for one role.
type StaffingExplainer struct {
	Role         meta.Role `json:"role"`
	Label        string    `json:"label"`
	Gap          *float64  `json:"gap"`
	PerSchool    bool      `json:"per_school"`
	Understaffed bool      `json:"understaffed"`
	Text         string    `json:"text"`
}

// Bar is one bar of a share chart.
type Bar struct {
	Category string   `json:"category"`
	Share    *float64 `json:"share"`
	Label    string   `json:"label" example:"40%"`
}

// Chart is a bar chart of shares with its y-axis upper bound.
type Chart struct {
	Title      string  `json:"title"`
	YAxisTitle string  `json:"y_axis_title"`
	YMax       float64 `json:"y_max"`
	Bars       []Bar   `json:"bars"`
}

// DistrictView is the full school-district view.
type DistrictView struct {
	District     dataset.DistrictRef `json:"district"`
	VersionID    string              `json:"version_id"`
	Statewide    bool                `json:"statewide"`
	Headline     Headline            `json:"headline"`
	Cards        Cards               `json:"cards"`
	Derived      funding.Derived     `json:"derived"`
	Staffing     []StaffingExplainer `json:"staffing"`
	Revenue      Chart               `json:"revenue"`
	Demographics Chart               `json:"demographics"`
}

// LegislativeQuery selects a legislative district by chamber and number, or by legislator name.
type LegislativeQuery struct {
	Chamber        string
	DistrictNumber int
	Legislator     string
}

func (q LegislativeQuery) byLegislator() bool {
	return strings.TrimSpace(q.Legislator) != ""
}

// Validate rejects queries that name neither form.
func (q LegislativeQuery) Validate() error {
	if q.byLegislator() {
		return nil
	}
	if strings.TrimSpace(q.Chamber) == "" || q.DistrictNumber <= 0 {
		return fmt.Errorf("%w: chamber and district number, or legislator, are required", ErrInvalidQuery)
	}
	return nil
}

// LegislativeHeader names the legislator and district of the view.
type LegislativeHeader struct {
	Legislator     string `json:"legislator" example:"Alex Rivera"`
	Chamber        string `json:"chamber" example:"House"`
	DistrictNumber int    `json:"district_number" example:"87"`
	Title          string `json:"title" example:"Alex Rivera (House District 87)"`
}

// Cell is one formatted table value.
type Cell struct {
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
}

// CoveredDistrict is a row of the districts-covered table.
type CoveredDistrict struct {
	SchoolDistrict  string `json:"school_district"`
	RCDTS           string `json:"rcdts"`
	TotalStudents   Cell   `json:"total_students"`
	ShareOfStudents Cell   `json:"share_of_students"`
}

// AdequacyStats is a row of the adequacy surplus/gap table.
type AdequacyStats struct {
	SchoolDistrict string `json:"school_district"`
	Gap            Cell   `json:"gap"`
	GapPerStudent  Cell   `json:"gap_per_student"`
	AdequacyLevel  Cell   `json:"adequacy_level"`
}

// NamedCell is a cell keyed by role or category.
type NamedCell struct {
	Name string `json:"name"`
	Cell
}

// DistrictCells is a row of a wide table keyed by school district.
type DistrictCells struct {
	SchoolDistrict string      `json:"school_district"`
	Cells          []NamedCell `json:"cells"`
}

// Table is a titled list of rows.
type Table[T any] struct {
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Note    string   `json:"note,omitempty"`
	Rows    []T      `json:"rows"`
}

// LegislativeView is the legislative lookup with its five tables in coverage order.
type LegislativeView struct {
	VersionID    string                 `json:"version_id"`
	Header       LegislativeHeader      `json:"header"`
	Covered      Table[CoveredDistrict] `json:"covered"`
	Adequacy     Table[AdequacyStats]   `json:"adequacy"`
	Positions    Table[DistrictCells]   `json:"positions"`
	Demographics Table[DistrictCells]   `json:"demographics"`
	Revenue      Table[DistrictCells]   `json:"revenue"`
}

// RoleOption is one entry of the staffing role selector.
type RoleOption struct {
	Value meta.Role `json:"value"`
	Label string    `json:"label"`
}

// Options drive the front-end selectors.
type Options struct {
	VersionID       string                `json:"version_id"`
	Districts       []dataset.DistrictRef `json:"districts"`
	DefaultDistrict dataset.DistrictRef   `json:"default_district"`
	Chambers        []string              `json:"chambers"`
	DistrictNumbers map[string][]int      `json:"district_numbers"`
	Legislators     []string              `json:"legislators"`
	StaffingRoles   []RoleOption          `json:"staffing_roles"`
	ViewModes       []ViewMode            `json:"view_modes"`
}
