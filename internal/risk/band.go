package risk

// Band is the gauge classification of a single risk index.
type Band string

const (
	BandLow      Band = "low"
	BandMedium   Band = "medium"
	BandHigh     Band = "high"
	BandCritical Band = "critical"
)

// BandFor classifies one 0-100 index for the risk panel gauges.
func BandFor(value int) Band {
	switch {
	case value >= 80:
		return BandCritical
	case value >= 60:
		return BandHigh
	case value >= 40:
		return BandMedium
	default:
		return BandLow
	}
}
