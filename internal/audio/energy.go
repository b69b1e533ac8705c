package audio

// BassIntensity averages the lowest quarter of a byte frequency snapshot,
// boosts it by 50% and clamps the result to [0, 1].
func BassIntensity(snapshot []uint8) float64 {
	bassRange := len(snapshot) / 4
	if bassRange == 0 {
		return 0
	}

	sum := 0
	for _, v := range snapshot[:bassRange] {
		sum += int(v)
	}

	// Increase sensitivity by 50%
	return clamp01(float64(sum) / float64(bassRange*255) * 1.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
