package funding

import (
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Row is one wide district record keyed by source column name.
// Numeric cells hold float64 (or anything cast can convert), nulls hold nil.
type Row map[string]interface{}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Text returns a text cell, empty for nulls.
func (r Row) Text(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Number returns a numeric cell. A nil result means the cell is null.
func (r Row) Number(column string) (*float64, error) {
	return ToNumber(r[column])
}

// MissingColumns lists the required columns the row lacks, sorted.
func (r Row) MissingColumns(required []string) []string {
	var missing []string
	for _, column := range required {
		if _, ok := r[column]; !ok {
			missing = append(missing, column)
		}
	}
	sort.Strings(missing)
	return missing
}

// ToNumber converts a cell value to a nullable float. Blank strings and NaN are null.
func ToNumber(v interface{}) (*float64, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *float64:
		if val == nil || math.IsNaN(*val) {
			return nil, nil
		}
		return Float(*val), nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}

// Float returns a pointer to a copy of f.
func Float(f float64) *float64 {
	return &f
}

// ValueOrZero dereferences a nullable value, treating null as 0.
func ValueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
