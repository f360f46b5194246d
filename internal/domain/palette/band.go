package palette

// Band is the threshold band a percentage falls into.
type Band int

const (
	// Low covers percent <= minThreshold.
	Low Band = iota
	// Medium covers minThreshold < percent < maxThreshold.
	Medium
	// High covers percent >= maxThreshold.
	High
)

// String returns the band name.
func (b Band) String() string {
	switch b {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// SelectBand compares percent against the two thresholds. The upper bound
// is inclusive for high and the lower bound exclusive for medium, so a value
// equal to minThreshold stays low.
func SelectBand(percent, minThreshold, maxThreshold float64) Band {
	switch {
	case percent >= maxThreshold:
		return High
	case percent > minThreshold:
		return Medium
	default:
		return Low
	}
}

// Pick returns the color assigned to the band.
func (b Band) Pick(low, medium, high string) string {
	switch b {
	case High:
		return high
	case Medium:
		return medium
	default:
		return low
	}
}
