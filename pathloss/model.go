// Package pathloss implements large-scale propagation loss models used to
// turn a link budget into a signal-to-noise ratio.
package pathloss

import (
	"fmt"
	"math"
	"strings"
)

const cspeed = 3.0e8

// Model returns the loss in dB over a distance in metres. valid is false when
// the model is not defined for its configured frequency or the distance.
type Model interface {
	LossInDb(distanceM float64) (plDb float64, valid bool)
}

type PathLossType int

var PathLossTypes = [...]string{
	"Exponential",
	"FreeSpace",
	"OkumuraHata",
}

func (p PathLossType) String() string {
	if int(p) < 0 || int(p) >= len(PathLossTypes) {
		return fmt.Sprintf("PathLossType(%d)", int(p))
	}
	return PathLossTypes[p]
}

func (p *PathLossType) UnmarshalText(text []byte) error {
	for i, n := range PathLossTypes {
		if strings.EqualFold(strings.TrimSpace(string(text)), n) {
			*p = PathLossType(i)
			return nil
		}
	}
	return fmt.Errorf("pathloss: unknown model %q", string(text))
}

const (
	Exponential PathLossType = iota
	FreeSpace
	OkumuraHata
)

// ModelSetting is the decoded form of a path-loss configuration block.
type ModelSetting struct {
	Type           PathLossType `mapstructure:"type"`
	FreqHz         float64      `mapstructure:"freq_hz"`
	CutOffDistance float64      `mapstructure:"cutoff_m"`
	Exponent       float64      `mapstructure:"exponent"`
	Intercept      float64      `mapstructure:"intercept_db"`
	TxHeight       float64      `mapstructure:"tx_height_m"`
	RxHeight       float64      `mapstructure:"rx_height_m"`
}

func (m *ModelSetting) SetDefault() {
	m.Type = FreeSpace
	m.FreqHz = 2.0e9
	m.CutOffDistance = 0
	m.Exponent = 2
	m.Intercept = 0
	m.TxHeight = 30
	m.RxHeight = 1.5
}

func (m ModelSetting) FGHz() float64 {
	return m.FreqHz / 1.0e9
}

// Lambda is the carrier wavelength in metres.
func (m ModelSetting) Lambda() float64 {
	return cspeed / m.FreqHz
}

// New builds the model selected by s.Type.
func New(s ModelSetting) (Model, error) {
	if !(s.FreqHz > 0) {
		return nil, fmt.Errorf("pathloss: freq_hz=%v must be positive", s.FreqHz)
	}
	switch s.Type {
	case Exponential, FreeSpace:
		return &SimplePLModel{ModelSetting: s}, nil
	case OkumuraHata:
		if !(s.TxHeight > 0) || !(s.RxHeight > 0) {
			return nil, fmt.Errorf("pathloss: antenna heights must be positive, got tx=%v rx=%v", s.TxHeight, s.RxHeight)
		}
		return &OkumuraHataModel{ModelSetting: s}, nil
	default:
		return nil, fmt.Errorf("pathloss: unsupported model %v", s.Type)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
