package beamforming

import "errors"

// Every core failure is one of these sentinels, possibly wrapped with
// context via fmt.Errorf("...: %w", err). Match with errors.Is.
var (
	// ErrInvalidParameter reports a non-positive count or spacing, a NaN
	// input, or num_rf_chains outside [1, num_antennas].
	ErrInvalidParameter = errors.New("beamforming: invalid parameter")

	// ErrDegenerateChannel reports a zero-norm channel (or effective channel)
	// reaching a normalisation step.
	ErrDegenerateChannel = errors.New("beamforming: degenerate channel")

	// ErrSingularCovariance reports a numerically singular MVDR covariance.
	ErrSingularCovariance = errors.New("beamforming: singular covariance")
)
