/*
 * @module service/funding/reshaper
 * @description Funding metrics reshaper: melts one wide district record into long resource,
 *              demographic and revenue tables plus the headline scalars
 * @architecture Service layer - pure data transformation
 * @documentReference DESIGN.md
 * @stateFlow row check -> column check -> four melts -> left join -> category melts -> scalars
 * @rules Exactly one input row; every expected column present; input never mutated
 * @dependencies github.com/spf13/cast
 * @refs service/meta/district_columns.go, service/funding/roles.go
 */

package funding

import (
	"fmt"
	"sort"
	"strings"

	"peer-funding-service/service/meta"
)

// ResourceRecord is one (district, role) row of the merged resource table.
type ResourceRecord struct {
	RCDTS        string    `json:"rcdts"`
	DistrictName string    `json:"district_name"`
	TotalASE     *float64  `json:"total_ase"`
	Resource     meta.Role `json:"resource"`
	Adequate     *float64  `json:"adequate"`
	Actual       *float64  `json:"actual"`
	Gap          *float64  `json:"gap"`
	GapPerSchool *float64  `json:"gap_per_school"`
}

// CategoryShare is one (district, category) row of the demographic or revenue table.
type CategoryShare struct {
	RCDTS    string   `json:"rcdts"`
	Category string   `json:"category"`
	Share    *float64 `json:"share"`
}

// PerStudent carries the per-student totals, which have no actual or per-school partner.
type PerStudent struct {
	Adequate *float64 `json:"adequate"`
	Gap      *float64 `json:"gap"`
}

// Metrics is the reshaper output for a single district or the statewide aggregate.
type Metrics struct {
	RCDTS         string   `json:"rcdts"`
	DistrictName  string   `json:"district_name"`
	AdequacyLevel *float64 `json:"adequacy_level"`

	Merged       []ResourceRecord `json:"merged"`
	Demographics []CategoryShare  `json:"demographics"`
	Revenue      []CategoryShare  `json:"revenue"`
	PerStudent   PerStudent       `json:"per_student"`

	// Scalars from the Total Resources row. Null cells read as 0.
	ActualResources   float64 `json:"actual_resources"`
	AdequateResources float64 `json:"adequate_resources"`
	ASE               float64 `json:"ase"`

	// StatewideMinGap is the minimum across the gap melt, nil when every gap is null.
	StatewideMinGap *float64 `json:"statewide_min_gap"`
}

// IsStatewide reports whether the metrics belong to the statewide aggregate row, which the
// source data marks by district name only; its RCDTS carries no special value.
func (m *Metrics) IsStatewide() bool {
	return m.DistrictName == meta.StatewideDistrictName
}

// Resource returns the merged row of a role.
func (m *Metrics) Resource(role meta.Role) (ResourceRecord, error) {
	for _, rec := range m.Merged {
		if rec.Resource == role {
			return rec, nil
		}
	}
	return ResourceRecord{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

// meltKey is the join key of the four resource melts.
type meltKey struct {
	rcdts   string
	role    meta.Role
	ase     float64
	aseNull bool
}

type meltedValue struct {
	key   meltKey
	value *float64
}

// Reshape builds the long-format tables and scalars for exactly one district row.
func Reshape(rows []Row) (*Metrics, error) {
	if len(rows) != 1 {
		return nil, &EmptyInputError{Rows: len(rows)}
	}
	row := rows[0]

	if missing := row.MissingColumns(meta.DistrictColumns()); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	rcdts := row.Text(meta.ColumnRCDTS)
	name := row.Text(meta.ColumnDistrictName)

	var invalid []string
	number := func(column string) *float64 {
		v, err := row.Number(column)
		if err != nil {
			invalid = append(invalid, column)
			return nil
		}
		return v
	}

	ase := number(meta.ColumnTotalASE)
	level := number(meta.ColumnAdequacyLevel)

	meltFamily := func(columns []string) []meltedValue {
		out := make([]meltedValue, 0, len(columns))
		for _, column := range columns {
			role, ok := NormalizeRole(column)
			if !ok {
				// every family column is listed in roleBySource
				panic(fmt.Sprintf("funding: column %q has no canonical role", column))
			}
			out = append(out, meltedValue{key: newMeltKey(rcdts, role, ase), value: number(column)})
		}
		return out
	}

	adequacy := meltFamily(meta.AdequacyColumns)
	actual := meltFamily(meta.ActualColumns)
	gaps := meltFamily(meta.GapColumns)
	gapsPerSchool := meltFamily(meta.GapPerSchoolColumns)

	demographics := meltCategories(rcdts, meta.DemographicColumns, number)
	revenue := meltCategories(rcdts, meta.RevenueColumns, number)

	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, &SchemaError{Invalid: invalid}
	}

	actualIdx := indexMelt(actual)
	gapIdx := indexMelt(gaps)
	perSchoolIdx := indexMelt(gapsPerSchool)

	metrics := &Metrics{
		RCDTS:         rcdts,
		DistrictName:  name,
		AdequacyLevel: level,
		Demographics:  demographics,
		Revenue:       revenue,
	}

	for _, left := range adequacy {
		if left.key.role == meta.RoleTotalResourcesPerStudent {
			metrics.PerStudent = PerStudent{Adequate: left.value, Gap: gapIdx[left.key]}
			continue
		}
		metrics.Merged = append(metrics.Merged, ResourceRecord{
			RCDTS:        rcdts,
			DistrictName: name,
			TotalASE:     copyFloat(ase),
			Resource:     left.key.role,
			Adequate:     left.value,
			Actual:       copyFloat(actualIdx[left.key]),
			Gap:          copyFloat(gapIdx[left.key]),
			GapPerSchool: copyFloat(perSchoolIdx[left.key]),
		})
	}

	total, err := metrics.Resource(meta.RoleTotalResources)
	if err != nil {
		return nil, err
	}
	metrics.ActualResources = ValueOrZero(total.Actual)
	metrics.AdequateResources = ValueOrZero(total.Adequate)
	metrics.ASE = ValueOrZero(total.TotalASE)
	metrics.StatewideMinGap = minValue(gaps)

	return metrics, nil
}

func newMeltKey(rcdts string, role meta.Role, ase *float64) meltKey {
	if ase == nil {
		return meltKey{rcdts: rcdts, role: role, aseNull: true}
	}
	return meltKey{rcdts: rcdts, role: role, ase: *ase}
}

// indexMelt keeps the first value per key, which is what a left join against unique keys yields.
func indexMelt(values []meltedValue) map[meltKey]*float64 {
	idx := make(map[meltKey]*float64, len(values))
	for _, v := range values {
		if _, ok := idx[v.key]; !ok {
			idx[v.key] = v.value
		}
	}
	return idx
}

func meltCategories(rcdts string, columns []string, number func(string) *float64) []CategoryShare {
	out := make([]CategoryShare, 0, len(columns))
	for _, column := range columns {
		out = append(out, CategoryShare{
			RCDTS:    rcdts,
			Category: strings.TrimSuffix(column, meta.PercentSuffix),
			Share:    number(column),
		})
	}
	return out
}

func minValue(values []meltedValue) *float64 {
	var min *float64
	for _, v := range values {
		if v.value == nil {
			continue
		}
		if min == nil || *v.value < *min {
			min = Float(*v.value)
		}
	}
	return min
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}
