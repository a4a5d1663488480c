/*
 * @module service/dataset/loader
 * @description Data loader for the wide district CSV and the legislative coverage CSV
 * @architecture Adapter - flat file to in-memory rows
 * @documentReference DESIGN.md
 * @stateFlow open file -> decode charset -> read CSV -> header check -> cell conversion
 * @rules A missing or unreadable file is DataUnavailableError; a header or type mismatch is SchemaError
 * @dependencies encoding/csv, golang.org/x/text, github.com/spf13/cast
 * @refs service/meta/district_columns.go
 */

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/service/models"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Supported source encodings
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// nullTokens are cell values read as null. "*" is the ISBE redaction marker.
var nullTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"*":    true,
}

// Loader reads the two source files.
type Loader struct {
	encoding string
}

// NewLoader returns a loader decoding files with the given encoding.
func NewLoader(encoding string) *Loader {
	if encoding == "" {
		encoding = EncodingUTF8
	}
	return &Loader{encoding: encoding}
}

// LoadDistricts reads the wide district table. Rows keep file order.
func (l *Loader) LoadDistricts(path string) ([]funding.Row, error) {
	header, records, err := l.readCSV(path)
	if err != nil {
		return nil, err
	}
	if missing := missingColumns(header, meta.DistrictColumns()); len(missing) > 0 {
		return nil, &funding.SchemaError{Source: path, Missing: missing}
	}

	required := make(map[string]bool)
	for _, column := range meta.DistrictColumns() {
		required[column] = true
	}

	invalid := make(map[string]bool)
	rows := make([]funding.Row, 0, len(records))
	for _, record := range records {
		row := make(funding.Row, len(header))
		for i, column := range header {
			raw := strings.TrimSpace(record[i])
			if meta.IsTextColumn(column) {
				row[column] = raw
				continue
			}
			value, err := parseNumber(raw)
			if err != nil {
				if required[column] {
					invalid[column] = true
				} else {
					// pass-through column that happens to be text
					row[column] = raw
				}
				continue
			}
			row[column] = value
		}
		rows = append(rows, row)
	}

	if len(invalid) > 0 {
		return nil, &funding.SchemaError{Source: path, Invalid: sortedKeys(invalid)}
	}
	return rows, nil
}

// LoadCoverage reads the legislative coverage table.
func (l *Loader) LoadCoverage(path string) ([]models.LegislativeCoverage, error) {
	header, records, err := l.readCSV(path)
	if err != nil {
		return nil, err
	}
	if missing := missingColumns(header, meta.CoverageColumns()); len(missing) > 0 {
		return nil, &funding.SchemaError{Source: path, Missing: missing}
	}

	idx := make(map[string]int, len(header))
	for i, column := range header {
		idx[column] = i
	}

	invalid := make(map[string]bool)
	coverage := make([]models.LegislativeCoverage, 0, len(records))
	for _, record := range records {
		cell := func(column string) string {
			return strings.TrimSpace(record[idx[column]])
		}
		number := func(column string) interface{} {
			v, err := parseNumber(cell(column))
			if err != nil {
				invalid[column] = true
				return nil
			}
			return v
		}

		c := models.LegislativeCoverage{
			Chamber:        cell(meta.CoverageColumnChamber),
			LegislatorName: cell(meta.CoverageColumnLegislatorName),
			RCDTS:          cell(meta.CoverageColumnRCDTS),
			SchoolDistrict: cell(meta.CoverageColumnSchoolDistrict),
		}
		if nullTokens[c.LegislatorName] {
			c.LegislatorName = ""
		}
		if n, ok := number(meta.CoverageColumnDistrictNumber).(float64); ok {
			c.DistrictNumber = int(n)
		} else {
			invalid[meta.CoverageColumnDistrictNumber] = true
		}
		if v, ok := number(meta.CoverageColumnTotalStudents).(float64); ok {
			c.TotalStudents = funding.Float(v)
		}
		if v, ok := number(meta.CoverageColumnShareOfStudents).(float64); ok {
			c.ShareOfStudents = funding.Float(v)
		}
		coverage = append(coverage, c)
	}

	if len(invalid) > 0 {
		return nil, &funding.SchemaError{Source: path, Invalid: sortedKeys(invalid)}
	}
	return coverage, nil
}

func (l *Loader) readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &DataUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	var src io.Reader = f
	switch l.encoding {
	case EncodingUTF8:
	case EncodingWindows1252:
		src = transform.NewReader(f, charmap.Windows1252.NewDecoder())
	default:
		return nil, nil, fmt.Errorf("unsupported encoding %q", l.encoding)
	}

	r := csv.NewReader(src)
	r.TrimLeadingSpace = true
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, &DataUnavailableError{Path: path, Err: fmt.Errorf("parse csv: %w", err)}
	}
	if len(all) == 0 {
		return nil, nil, &DataUnavailableError{Path: path, Err: fmt.Errorf("empty file")}
	}

	header := make([]string, len(all[0]))
	for i, column := range all[0] {
		header[i] = strings.TrimSpace(column)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	return header, all[1:], nil
}

// parseNumber converts a raw cell to float64 or nil. Currency symbols and thousands
// separators are stripped; a trailing % divides by 100.
func parseNumber(raw string) (interface{}, error) {
	if nullTokens[raw] {
		return nil, nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
	percent := strings.HasSuffix(cleaned, "%")
	cleaned = strings.TrimSuffix(cleaned, "%")
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + strings.Trim(cleaned, "()")
	}

	v, err := funding.ToNumber(strings.TrimSpace(cleaned))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	if percent {
		return *v / 100, nil
	}
	return *v, nil
}

func missingColumns(header, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, column := range header {
		present[column] = true
	}
	var missing []string
	for _, column := range required {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	sort.Strings(missing)
	return missing
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
