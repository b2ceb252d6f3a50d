// Package channel synthesises narrowband multipath channels seen by a
// uniform linear array.
package channel

import (
	"fmt"
	"math"
	"math/rand/v2"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/antenna"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/stat/distuv"
)

// MaxPathAngle bounds the path angles of arrival to [-MaxPathAngle, MaxPathAngle].
const MaxPathAngle = math.Pi / 3

// Path is one plane wave reaching the array.
type Path struct {
	AngleRad float64    `json:"angle_rad"`
	Gain     complex128 `json:"-"`
}

// DrawPaths draws n angles uniformly in [-pi/3, pi/3] followed by n
// standard complex normal gains (a + jb)/sqrt(2). All draws come from src.
func DrawPaths(n int, src rand.Source) ([]Path, error) {
	if n < 1 {
		return nil, fmt.Errorf("channel: num_paths=%d: %w", n, bf.ErrInvalidParameter)
	}
	if src == nil {
		return nil, fmt.Errorf("channel: nil random source: %w", bf.ErrInvalidParameter)
	}
	uni := distuv.Uniform{Min: -MaxPathAngle, Max: MaxPathAngle, Src: src}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	paths := make([]Path, n)
	for k := range paths {
		paths[k].AngleRad = uni.Rand()
	}
	re := make([]float64, n)
	for k := range re {
		re[k] = norm.Rand()
	}
	for k := range paths {
		paths[k].Gain = complex(re[k], norm.Rand()) / complex(math.Sqrt2, 0)
	}
	return paths, nil
}

// FromPaths sums gain[k] * a(angle[k]) over the paths and scales by
// 1/sqrt(len(paths)) so the expected channel power does not depend on the
// number of paths.
func FromPaths(cfg bf.ArrayConfig, paths []Path) (vlib.VectorC, error) {
	ula, err := antenna.NewULA(cfg)
	if err != nil {
		return nil, fmt.Errorf("channel: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("channel: no paths: %w", bf.ErrInvalidParameter)
	}
	h := vlib.NewVectorC(cfg.NumAntennas)
	sv := vlib.NewVectorC(cfg.NumAntennas)
	for _, p := range paths {
		sv = ula.Response(sv, p.AngleRad)
		for n := range h {
			h[n] += p.Gain * sv[n]
		}
	}
	scale := complex(1/math.Sqrt(float64(len(paths))), 0)
	for n := range h {
		h[n] *= scale
	}
	return h, nil
}

// SynthesizeWithPaths is Synthesize that also returns the drawn paths.
func SynthesizeWithPaths(cfg bf.ArrayConfig, sp bf.SignalParams, src rand.Source) (vlib.VectorC, []Path, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("channel: %w", err)
	}
	if err := sp.Validate(); err != nil {
		return nil, nil, fmt.Errorf("channel: %w", err)
	}
	paths, err := DrawPaths(sp.NumPaths, src)
	if err != nil {
		return nil, nil, err
	}
	h, err := FromPaths(cfg, paths)
	if err != nil {
		return nil, nil, err
	}
	return h, paths, nil
}

// Synthesize returns a fresh random multipath channel of length
// cfg.NumAntennas. Every call consumes new draws from src.
func Synthesize(cfg bf.ArrayConfig, sp bf.SignalParams, src rand.Source) (vlib.VectorC, error) {
	h, _, err := SynthesizeWithPaths(cfg, sp, src)
	return h, err
}
