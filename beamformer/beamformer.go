// Package beamformer computes normalised beam patterns for the conventional,
// MVDR and hybrid techniques.
//
// Every pattern is in dB with its peak at exactly 0 dB. Failures are the
// sentinels of the root package: bf.ErrInvalidParameter,
// bf.ErrDegenerateChannel and bf.ErrSingularCovariance. No NaN or Inf is
// ever returned inside a pattern.
package beamformer

import (
	"fmt"
	"math/rand/v2"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/vlib"
)

// Beamformer is implemented only by Conventional, MVDR and Hybrid.
type Beamformer interface {
	Technique() bf.Technique
	Title() string
	Pattern(h vlib.VectorC, angles []float64, cfg bf.ArrayConfig) (bf.Pattern, error)
	sealed()
}

var (
	_ Beamformer = Conventional{}
	_ Beamformer = MVDR{}
	_ Beamformer = Hybrid{}
)

// Inputs carries what the techniques need beyond the signal channel.
type Inputs struct {
	Interference vlib.VectorC
	SNRDb        float64
	Src          rand.Source
}

// New returns the Beamformer selected by params.Technique.
func New(params bf.BeamformingParams, in Inputs) (Beamformer, error) {
	switch params.Technique {
	case bf.Conventional:
		return Conventional{}, nil
	case bf.Adaptive:
		return MVDR{Interference: in.Interference, SNRDb: in.SNRDb}, nil
	case bf.Hybrid:
		return Hybrid{NumRFChains: params.NumRFChains, Src: in.Src}, nil
	default:
		return nil, fmt.Errorf("beamformer: technique %v: %w", params.Technique, bf.ErrInvalidParameter)
	}
}
