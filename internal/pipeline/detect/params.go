package detect

import "time"

// Params are the detector's tuning constants. Defaults are pinned by tests;
// deployments should have no reason to change them.
type Params struct {
	// FusionStaleness is the maximum age of an accel reading attached to a
	// gyro-paced row.
	FusionStaleness time.Duration

	// GyroWindow is the trailing window over which gyro jitter is smoothed.
	GyroWindow time.Duration

	// StabilityDecay maps jitter (rad/s) to stability via exp(-decay*jitter).
	StabilityDecay float64

	// MADWindow is the trailing window for the robust z-score.
	MADWindow time.Duration

	// MinWindowSamples gates detection until the MAD window is populated.
	MinWindowSamples int

	// Epsilon floors the MAD denominator.
	Epsilon float64

	// MinGravity is the minimum magnitude of the mean accel vector for the
	// vertical-axis estimate to be usable.
	MinGravity float64

	// Candidate gates.
	ZThreshold   float64
	MinSpeedMps  float64
	MinStability float64
	MaxAccuracyM float64

	// PositionStaleness is the maximum age of a carried GPS fix.
	PositionStaleness time.Duration

	// Debounce is the minimum separation between emitted events.
	Debounce time.Duration

	// Rough-segment branch.
	RoughMinStability  float64
	RoughMinSamples    int
	RoughCellPrecision int
}

// DefaultParams returns the production detector parameters.
func DefaultParams() Params {
	return Params{
		FusionStaleness:    50 * time.Millisecond,
		GyroWindow:         time.Second,
		StabilityDecay:     1.0,
		MADWindow:          10 * time.Second,
		MinWindowSamples:   50,
		Epsilon:            1e-3,
		MinGravity:         4.0,
		ZThreshold:         5.0,
		MinSpeedMps:        2.0,
		MinStability:       0.5,
		MaxAccuracyM:       25.0,
		PositionStaleness:  2 * time.Second,
		Debounce:           700 * time.Millisecond,
		RoughMinStability:  0.6,
		RoughMinSamples:    10,
		RoughCellPrecision: 8,
	}
}
