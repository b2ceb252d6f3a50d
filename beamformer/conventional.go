package beamformer

import (
	"fmt"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/antenna"
	"github.com/wiless/vlib"
)

// Conventional is the delay-and-sum (matched filter) beamformer.
type Conventional struct{}

func (Conventional) Technique() bf.Technique { return bf.Conventional }
func (Conventional) Title() string           { return "Conventional Beamforming" }
func (Conventional) sealed()                 {}

// Pattern returns 20 log10(|h^H a(theta)| / max) over angles.
func (Conventional) Pattern(h vlib.VectorC, angles []float64, cfg bf.ArrayConfig) (bf.Pattern, error) {
	if err := checkInputs(h, angles, cfg); err != nil {
		return nil, fmt.Errorf("beamformer: conventional: %w", err)
	}
	if isZero(h) {
		return nil, fmt.Errorf("beamformer: conventional: all-zero channel: %w", bf.ErrDegenerateChannel)
	}
	ula, err := antenna.NewULA(cfg)
	if err != nil {
		return nil, err
	}
	p, err := ToDB(response(ula.SteeringMatrix(angles), h))
	if err != nil {
		return nil, fmt.Errorf("beamformer: conventional: %w", err)
	}
	return p, nil
}

// ConventionalPattern is the function form of Conventional.Pattern.
func ConventionalPattern(h vlib.VectorC, angles []float64, cfg bf.ArrayConfig) (bf.Pattern, error) {
	return Conventional{}.Pattern(h, angles, cfg)
}
