package hardware

// ScaleControlOutput maps a controller output onto the motor command range.
// Inputs are clipped to ±maxInput and scaled into [threshold, maxOutput]
// preserving sign. The threshold offset compensates for static friction of
// the cart drive, commands below it would not move the cart at all. A zero
// input stays exactly zero so the motor can rest.
func ScaleControlOutput(raw float64, maxInput float64, threshold int, maxOutput int) int {
	if raw == 0 {
		return 0
	}

	clipped := raw
	if clipped > maxInput {
		clipped = maxInput
	} else if clipped < -maxInput {
		clipped = -maxInput
	}

	scaled := int(clipped / maxInput * float64(maxOutput-threshold))
	if scaled > 0 {
		scaled += threshold
	} else if scaled < 0 {
		scaled -= threshold
	}
	return scaled
}
