// Package antenna models the far-field phase response of a uniform linear
// array and the angle grids it is scanned over.
package antenna

import (
	"fmt"
	"math"
	"math/cmplx"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/mat"
)

// SettingULA is a uniform linear array of N elements spaced Spacing
// wavelengths apart. Element 0 is the phase reference.
type SettingULA struct {
	N       int
	Spacing float64
}

func (s *SettingULA) SetDefault() {
	s.N = 64
	s.Spacing = 0.5
}

func NewULA(cfg bf.ArrayConfig) (*SettingULA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SettingULA{N: cfg.NumAntennas, Spacing: cfg.AntennaSpacing}, nil
}

// ArrayConfig converts back to the shared parameter type.
func (s SettingULA) ArrayConfig() bf.ArrayConfig {
	return bf.ArrayConfig{NumAntennas: s.N, AntennaSpacing: s.Spacing}
}

// phase returns the progressive phase shift between neighbouring elements
// for a wave arriving from theta radians off broadside.
func (s SettingULA) phase(theta float64) float64 {
	return 2 * math.Pi * s.Spacing * math.Sin(theta)
}

// Response fills dst with exp(-j 2 pi d n sin(theta)), n = 0..N-1.
// A nil or short dst is reallocated.
func (s SettingULA) Response(dst vlib.VectorC, theta float64) vlib.VectorC {
	if len(dst) != s.N {
		dst = vlib.NewVectorC(s.N)
	}
	psi := s.phase(theta)
	for n := range dst {
		dst[n] = cmplx.Exp(complex(0, -psi*float64(n)))
	}
	return dst
}

// SteeringMatrix returns the N x len(angles) matrix whose column j is the
// response toward angles[j].
func (s SettingULA) SteeringMatrix(angles []float64) *mat.CDense {
	result := mat.NewCDense(s.N, len(angles), nil)
	col := vlib.NewVectorC(s.N)
	for j, theta := range angles {
		col = s.Response(col, theta)
		for n, v := range col {
			result.Set(n, j, v)
		}
	}
	return result
}

// SteeringVectors is the array response of an N element ULA with the given
// spacing (wavelengths) at each of angles (radians).
func SteeringVectors(numAntennas int, spacing float64, angles []float64) (*mat.CDense, error) {
	ula, err := NewULA(bf.ArrayConfig{NumAntennas: numAntennas, AntennaSpacing: spacing})
	if err != nil {
		return nil, fmt.Errorf("antenna: steering vectors: %w", err)
	}
	if len(angles) == 0 {
		return nil, fmt.Errorf("antenna: steering vectors: empty angle list: %w", bf.ErrInvalidParameter)
	}
	return ula.SteeringMatrix(angles), nil
}

// SteeringVector is the single-angle form of SteeringVectors.
func SteeringVector(numAntennas int, spacing float64, theta float64) (vlib.VectorC, error) {
	ula, err := NewULA(bf.ArrayConfig{NumAntennas: numAntennas, AntennaSpacing: spacing})
	if err != nil {
		return nil, fmt.Errorf("antenna: steering vector: %w", err)
	}
	return ula.Response(nil, theta), nil
}

// Column copies column j of m into dst, reallocating when the length differs.
func Column(dst vlib.VectorC, m *mat.CDense, j int) vlib.VectorC {
	r, _ := m.Dims()
	if len(dst) != r {
		dst = vlib.NewVectorC(r)
	}
	for i := 0; i < r; i++ {
		dst[i] = m.At(i, j)
	}
	return dst
}
