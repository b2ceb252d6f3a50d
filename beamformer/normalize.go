package beamformer

import (
	"fmt"
	"math"
	"math/cmplx"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/antenna"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ToDB normalises magnitudes to their peak and converts to dB, so the
// largest entry is exactly 0 dB. Zero magnitudes map to bf.FloorDB.
func ToDB(mag []float64) (bf.Pattern, error) {
	if len(mag) == 0 {
		return nil, fmt.Errorf("beamformer: empty pattern: %w", bf.ErrInvalidParameter)
	}
	for i, m := range mag {
		if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
			return nil, fmt.Errorf("beamformer: magnitude[%d]=%v: %w", i, m, bf.ErrDegenerateChannel)
		}
	}
	peak := floats.Max(mag)
	if peak == 0 {
		return nil, fmt.Errorf("beamformer: zero response at every angle: %w", bf.ErrDegenerateChannel)
	}
	result := vlib.NewVectorF(len(mag))
	for i, m := range mag {
		result[i] = math.Max(20*math.Log10(m/peak), bf.FloorDB)
	}
	return result, nil
}

// response returns |w^H a_j| for every column a_j of sv.
func response(sv *mat.CDense, w vlib.VectorC) []float64 {
	_, c := sv.Dims()
	mag := make([]float64, c)
	var col vlib.VectorC
	for j := range mag {
		col = antenna.Column(col, sv, j)
		mag[j] = cmplx.Abs(cmplxs.Dot(w, col))
	}
	return mag
}

// checkInputs validates the arguments shared by every algorithm.
func checkInputs(h vlib.VectorC, angles []float64, cfg bf.ArrayConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(h) != cfg.NumAntennas {
		return fmt.Errorf("channel length %d != num_antennas %d: %w", len(h), cfg.NumAntennas, bf.ErrInvalidParameter)
	}
	for n, v := range h {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return fmt.Errorf("channel[%d]=%v: %w", n, v, bf.ErrInvalidParameter)
		}
	}
	if len(angles) == 0 {
		return fmt.Errorf("empty angle grid: %w", bf.ErrInvalidParameter)
	}
	for j, theta := range angles {
		if math.IsNaN(theta) || math.IsInf(theta, 0) {
			return fmt.Errorf("angle[%d]=%v: %w", j, theta, bf.ErrInvalidParameter)
		}
	}
	return nil
}

func isZero(h vlib.VectorC) bool {
	for _, v := range h {
		if v != 0 {
			return false
		}
	}
	return true
}
