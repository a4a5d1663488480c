package funding

// Derived holds the per-pupil and gap figures shown on the dollar cards.
//
// Per-pupil values are total / enrollment and are defined as 0 when enrollment is 0.
// That 0 is a display policy for aggregate and edge rows, not a statistic.
type Derived struct {
	Statewide bool `json:"statewide"`

	ActualPerPupil   float64 `json:"actual_per_pupil"`
	AdequatePerPupil float64 `json:"adequate_per_pupil"`
	GapPerPupil      float64 `json:"gap_per_pupil"`

	// TotalGap is the gap shown on the total card. For the statewide row it is the
	// minimum-of-gaps figure; for a district it equals ComputedGap.
	TotalGap float64 `json:"total_gap"`
	// ComputedGap is always actual - adequate. For the statewide row it differs from TotalGap.
	ComputedGap float64 `json:"computed_gap"`
}

// PerPupil divides a total by enrollment, returning 0 when enrollment is not positive.
func PerPupil(total, enrollment float64) float64 {
	if enrollment <= 0 {
		return 0
	}
	return total / enrollment
}

// Derive computes the derived values of a reshaped record.
func Derive(m *Metrics) Derived {
	d := Derived{
		Statewide:        m.IsStatewide(),
		ActualPerPupil:   PerPupil(m.ActualResources, m.ASE),
		AdequatePerPupil: PerPupil(m.AdequateResources, m.ASE),
		ComputedGap:      m.ActualResources - m.AdequateResources,
	}

	if d.Statewide && m.StatewideMinGap != nil {
		d.TotalGap = *m.StatewideMinGap
		d.GapPerPupil = PerPupil(*m.StatewideMinGap, m.ASE)
		return d
	}

	// a statewide row without any gap data falls back to the district definition
	d.TotalGap = d.ComputedGap
	d.GapPerPupil = d.ActualPerPupil - d.AdequatePerPupil
	return d
}
