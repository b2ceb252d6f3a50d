// Package beamforming holds the parameter and result types shared by the
// antenna, channel, beamformer and simulation packages.
package beamforming

import (
	"fmt"
	"math"

	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/floats"
)

// FloorDB is the value written for scan angles whose response is exactly zero.
const FloorDB = -300.0

// ArrayConfig describes a uniform linear array. AntennaSpacing is in wavelengths.
type ArrayConfig struct {
	NumAntennas    int     `mapstructure:"num_antennas" json:"num_antennas"`
	AntennaSpacing float64 `mapstructure:"antenna_spacing" json:"antenna_spacing"`
}

// SetDefault loads the simulator defaults.
func (a *ArrayConfig) SetDefault() {
	a.NumAntennas = 64
	a.AntennaSpacing = 0.5
}

func (a ArrayConfig) Validate() error {
	if a.NumAntennas < 1 {
		return fmt.Errorf("num_antennas=%d: %w", a.NumAntennas, ErrInvalidParameter)
	}
	if !(a.AntennaSpacing > 0) || math.IsInf(a.AntennaSpacing, 1) {
		return fmt.Errorf("antenna_spacing=%v: %w", a.AntennaSpacing, ErrInvalidParameter)
	}
	return nil
}

// SignalParams controls channel synthesis and the MVDR noise floor.
type SignalParams struct {
	SNRDb    float64 `mapstructure:"snr_db" json:"snr_db"`
	NumPaths int     `mapstructure:"num_paths" json:"num_paths"`
}

func (s *SignalParams) SetDefault() {
	s.SNRDb = 10
	s.NumPaths = 3
}

func (s SignalParams) Validate() error {
	if math.IsNaN(s.SNRDb) {
		return fmt.Errorf("snr_db is NaN: %w", ErrInvalidParameter)
	}
	if s.NumPaths < 1 {
		return fmt.Errorf("num_paths=%d: %w", s.NumPaths, ErrInvalidParameter)
	}
	return nil
}

// NoisePower returns the linear noise power 10^(-snr/10) for unit signal power.
func (s SignalParams) NoisePower() float64 {
	return math.Pow(10, -s.SNRDb/10)
}

// BeamformingParams selects the technique. NumRFChains is only read by Hybrid.
type BeamformingParams struct {
	Technique   Technique `mapstructure:"technique" json:"technique"`
	NumRFChains int       `mapstructure:"num_rf_chains" json:"num_rf_chains"`
}

func (b *BeamformingParams) SetDefault() {
	b.Technique = Conventional
	b.NumRFChains = 8
}

// Validate checks the parameters against the array they will drive.
func (b BeamformingParams) Validate(array ArrayConfig) error {
	if !b.Technique.IsValid() {
		return fmt.Errorf("technique=%d: %w", int(b.Technique), ErrInvalidParameter)
	}
	if b.Technique == Hybrid {
		return ValidateRFChains(b.NumRFChains, array.NumAntennas)
	}
	return nil
}

// ValidateRFChains enforces 1 <= numRF <= numAntennas.
func ValidateRFChains(numRF, numAntennas int) error {
	if numRF < 1 || numRF > numAntennas {
		return fmt.Errorf("num_rf_chains=%d outside [1, %d]: %w", numRF, numAntennas, ErrInvalidParameter)
	}
	return nil
}

// Pattern is a beam pattern in dB, normalised so its peak is 0 dB.
type Pattern = vlib.VectorF

// PeakIndex returns the index of the largest entry of p, or -1 when p is empty.
func PeakIndex(p []float64) int {
	if len(p) == 0 {
		return -1
	}
	return floats.MaxIdx(p)
}
