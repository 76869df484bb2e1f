package game

// Points computes the award for a correct click elapsed ms after the word
// was spoken: full points inside the quick window, then a linear decay to
// zero over the decay window.
func Points(elapsedMs, quickWindowMs, decayWindowMs int64, maxPoints int) int {
	if elapsedMs <= quickWindowMs {
		return maxPoints
	}
	if decayWindowMs <= 0 {
		return 0
	}
	overshoot := elapsedMs - quickWindowMs
	remaining := 1 - float64(overshoot)/float64(decayWindowMs)
	pts := int(float64(maxPoints) * remaining)
	if pts < 0 {
		return 0
	}
	return pts
}
