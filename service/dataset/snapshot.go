/*
 * @module service/dataset/snapshot
 * @description Immutable in-memory view of one dataset version with the selection operations
 *              used by the dashboard: district lookup, chamber/district/legislator lookup and
 *              the coverage-to-district join
 * @architecture Value object - read-only after construction
 * @documentReference DESIGN.md
 * @stateFlow loader rows -> NewSnapshot (indexes built once) -> concurrent readers
 * @rules Accessors return copies; a Snapshot is never modified after NewSnapshot returns
 * @dependencies none
 * @refs service/dataset/service.go
 */

package dataset

import (
	"sort"
	"strings"
	"time"

	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/service/models"
)

// DistrictRef identifies one district row for selectors.
type DistrictRef struct {
	RCDTS string `json:"rcdts" example:"01001001026"`
	Name  string `json:"name" example:"Payson CUSD 1"`
}

// CoverageDistrict pairs a coverage row with the district row it covers.
// District is nil when the coverage RCDTS has no district row.
type CoverageDistrict struct {
	Coverage models.LegislativeCoverage
	District funding.Row
}

// Snapshot is one loaded dataset version.
type Snapshot struct {
	versionID string
	loadedAt  time.Time

	districts []funding.Row
	coverage  []models.LegislativeCoverage

	byRCDTS map[string][]int
	byName  map[string][]int
}

// NewSnapshot builds a snapshot over private copies of the given rows.
func NewSnapshot(versionID string, loadedAt time.Time, districts []funding.Row, coverage []models.LegislativeCoverage) *Snapshot {
	s := &Snapshot{
		versionID: versionID,
		loadedAt:  loadedAt,
		districts: make([]funding.Row, len(districts)),
		coverage:  make([]models.LegislativeCoverage, len(coverage)),
		byRCDTS:   make(map[string][]int),
		byName:    make(map[string][]int),
	}
	for i, row := range districts {
		s.districts[i] = row.Clone()
		s.byRCDTS[row.Text(meta.ColumnRCDTS)] = append(s.byRCDTS[row.Text(meta.ColumnRCDTS)], i)
		s.byName[row.Text(meta.ColumnDistrictName)] = append(s.byName[row.Text(meta.ColumnDistrictName)], i)
	}
	copy(s.coverage, coverage)
	return s
}

// VersionID returns the dataset version the snapshot was built from.
func (s *Snapshot) VersionID() string { return s.versionID }

// LoadedAt returns the load time of the dataset version.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// DistrictCount returns the number of district rows.
func (s *Snapshot) DistrictCount() int { return len(s.districts) }

// CoverageCount returns the number of coverage rows.
func (s *Snapshot) CoverageCount() int { return len(s.coverage) }

// Districts returns every district in file order.
func (s *Snapshot) Districts() []DistrictRef {
	refs := make([]DistrictRef, 0, len(s.districts))
	for _, row := range s.districts {
		refs = append(refs, DistrictRef{RCDTS: row.Text(meta.ColumnRCDTS), Name: row.Text(meta.ColumnDistrictName)})
	}
	return refs
}

// DistrictNames returns the district names in file order without duplicates.
func (s *Snapshot) DistrictNames() []string {
	seen := make(map[string]bool, len(s.districts))
	names := make([]string, 0, len(s.districts))
	for _, row := range s.districts {
		name := row.Text(meta.ColumnDistrictName)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// DefaultDistrict is the statewide row when present, else the first district.
func (s *Snapshot) DefaultDistrict() (DistrictRef, bool) {
	if idx, ok := s.byName[meta.StatewideDistrictName]; ok {
		row := s.districts[idx[0]]
		return DistrictRef{RCDTS: row.Text(meta.ColumnRCDTS), Name: meta.StatewideDistrictName}, true
	}
	if len(s.districts) == 0 {
		return DistrictRef{}, false
	}
	row := s.districts[0]
	return DistrictRef{RCDTS: row.Text(meta.ColumnRCDTS), Name: row.Text(meta.ColumnDistrictName)}, true
}

// DistrictByRCDTS returns every row with the RCDTS. The caller decides whether
// anything but exactly one row is acceptable.
func (s *Snapshot) DistrictByRCDTS(rcdts string) []funding.Row {
	return s.rows(s.byRCDTS[strings.TrimSpace(rcdts)])
}

// DistrictByName returns every row with the district name.
func (s *Snapshot) DistrictByName(name string) []funding.Row {
	return s.rows(s.byName[strings.TrimSpace(name)])
}

func (s *Snapshot) rows(idx []int) []funding.Row {
	out := make([]funding.Row, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.districts[i].Clone())
	}
	return out
}

// Chambers returns the distinct chambers, sorted.
func (s *Snapshot) Chambers() []string {
	set := make(map[string]bool)
	for _, c := range s.coverage {
		set[c.Chamber] = true
	}
	return sortedKeys(set)
}

// DistrictNumbers returns the distinct district numbers of a chamber, sorted.
func (s *Snapshot) DistrictNumbers(chamber string) []int {
	set := make(map[int]bool)
	for _, c := range s.coverage {
		if c.Chamber == chamber {
			set[c.DistrictNumber] = true
		}
	}
	numbers := make([]int, 0, len(set))
	for n := range set {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Legislators returns the distinct non-empty legislator names, sorted.
func (s *Snapshot) Legislators() []string {
	set := make(map[string]bool)
	for _, c := range s.coverage {
		if c.LegislatorName != "" {
			set[c.LegislatorName] = true
		}
	}
	return sortedKeys(set)
}

// CoverageByChamberDistrict returns the coverage rows of one legislative district in file order.
func (s *Snapshot) CoverageByChamberDistrict(chamber string, number int) []models.LegislativeCoverage {
	return s.filterCoverage(func(c models.LegislativeCoverage) bool {
		return c.Chamber == chamber && c.DistrictNumber == number
	})
}

// CoverageByLegislator returns the coverage rows of one legislator in file order.
func (s *Snapshot) CoverageByLegislator(name string) []models.LegislativeCoverage {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.filterCoverage(func(c models.LegislativeCoverage) bool {
		return c.LegislatorName == name
	})
}

// Coverage returns every coverage row in file order.
func (s *Snapshot) Coverage() []models.LegislativeCoverage {
	return s.filterCoverage(func(models.LegislativeCoverage) bool { return true })
}

func (s *Snapshot) filterCoverage(keep func(models.LegislativeCoverage) bool) []models.LegislativeCoverage {
	var out []models.LegislativeCoverage
	for _, c := range s.coverage {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// JoinCoverage left-joins coverage rows to district rows on RCDTS. Coverage order is kept;
// a coverage row matching several district rows yields one result per match.
func (s *Snapshot) JoinCoverage(coverage []models.LegislativeCoverage) []CoverageDistrict {
	out := make([]CoverageDistrict, 0, len(coverage))
	for _, c := range coverage {
		idx := s.byRCDTS[c.RCDTS]
		if len(idx) == 0 {
			out = append(out, CoverageDistrict{Coverage: c})
			continue
		}
		for _, i := range idx {
			out = append(out, CoverageDistrict{Coverage: c, District: s.districts[i].Clone()})
		}
	}
	return out
}
