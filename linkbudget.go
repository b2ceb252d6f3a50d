package beamforming

import (
	"fmt"

	"github.com/wiless/beamforming/pathloss"
	"github.com/wiless/vlib"
)

// NoisePSDdBmPerHz is the thermal noise density at 290 K.
const NoisePSDdBmPerHz = -173.9

// LinkBudget derives an SNR for SignalParams from transmit power, distance
// and a path-loss model instead of taking snr_db directly.
type LinkBudget struct {
	Enabled       bool                  `mapstructure:"enabled" json:"enabled"`
	TxPowerDBm    float64               `mapstructure:"tx_power_dbm" json:"tx_power_dbm"`
	BandwidthMHz  float64               `mapstructure:"bandwidth_mhz" json:"bandwidth_mhz"`
	NoiseFigureDb float64               `mapstructure:"noise_figure_db" json:"noise_figure_db"`
	DistanceM     float64               `mapstructure:"distance_m" json:"distance_m"`
	PathLoss      pathloss.ModelSetting `mapstructure:"pathloss" json:"pathloss"`
}

func (l *LinkBudget) SetDefault() {
	l.Enabled = false
	l.TxPowerDBm = 46
	l.BandwidthMHz = 100
	l.NoiseFigureDb = 7
	l.DistanceM = 200
	l.PathLoss.SetDefault()
	l.PathLoss.FreqHz = 3.5e9
}

// N0 is the noise power in dBm over the configured bandwidth.
func (l LinkBudget) N0() float64 {
	return NoisePSDdBmPerHz + vlib.Db(l.BandwidthMHz*1e6) + l.NoiseFigureDb
}

// SNRDb evaluates TxPower - PL(distance) - N0.
func (l LinkBudget) SNRDb() (float64, error) {
	if !(l.BandwidthMHz > 0) {
		return 0, fmt.Errorf("bandwidth_mhz=%v: %w", l.BandwidthMHz, ErrInvalidParameter)
	}
	if !(l.DistanceM > 0) {
		return 0, fmt.Errorf("distance_m=%v: %w", l.DistanceM, ErrInvalidParameter)
	}
	model, err := pathloss.New(l.PathLoss)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrInvalidParameter)
	}
	plDb, valid := model.LossInDb(l.DistanceM)
	if !valid {
		return 0, fmt.Errorf("%v path loss undefined at %v m, %v GHz: %w",
			l.PathLoss.Type, l.DistanceM, l.PathLoss.FGHz(), ErrInvalidParameter)
	}
	return l.TxPowerDBm - plDb - l.N0(), nil
}
