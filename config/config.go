// Package config loads simulation parameters from a file, BEAMSIM_
// environment variables and built-in defaults.
package config

import (
	"fmt"
	"reflect"
	"strings"

	ms "github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/simulation"
)

const EnvPrefix = "BEAMSIM"

// Config is the full input of the simulator. The simulation parameters are
// squashed so their groups sit at the top level of the file.
type Config struct {
	simulation.Params `mapstructure:",squash"`
	Link              bf.LinkBudget `mapstructure:"link" json:"link"`
	// Seed of the random stream. Zero lets the caller pick one.
	Seed uint64 `mapstructure:"seed" json:"seed"`
}

func (c *Config) SetDefault() {
	c.Params.SetDefault()
	c.Link.SetDefault()
	c.Seed = 0
}

// sections maps the titled parameter groups ("Array Configuration", ...) to the
// keys used here.
var sections = map[string]string{
	"array configuration":    "array",
	"signal parameters":      "signal",
	"beamforming parameters": "beamforming",
}

func setDefaults(v *viper.Viper) {
	var d Config
	d.SetDefault()
	v.SetDefault("array.num_antennas", d.Array.NumAntennas)
	v.SetDefault("array.antenna_spacing", d.Array.AntennaSpacing)
	v.SetDefault("signal.snr_db", d.Signal.SNRDb)
	v.SetDefault("signal.num_paths", d.Signal.NumPaths)
	v.SetDefault("beamforming.technique", d.Beamforming.Technique.String())
	v.SetDefault("beamforming.num_rf_chains", d.Beamforming.NumRFChains)
	v.SetDefault("scan_points", d.ScanPoints)
	v.SetDefault("seed", d.Seed)

	v.SetDefault("link.enabled", d.Link.Enabled)
	v.SetDefault("link.tx_power_dbm", d.Link.TxPowerDBm)
	v.SetDefault("link.bandwidth_mhz", d.Link.BandwidthMHz)
	v.SetDefault("link.noise_figure_db", d.Link.NoiseFigureDb)
	v.SetDefault("link.distance_m", d.Link.DistanceM)
	v.SetDefault("link.pathloss.type", d.Link.PathLoss.Type.String())
	v.SetDefault("link.pathloss.freq_hz", d.Link.PathLoss.FreqHz)
	v.SetDefault("link.pathloss.cutoff_m", d.Link.PathLoss.CutOffDistance)
	v.SetDefault("link.pathloss.exponent", d.Link.PathLoss.Exponent)
	v.SetDefault("link.pathloss.intercept_db", d.Link.PathLoss.Intercept)
	v.SetDefault("link.pathloss.tx_height_m", d.Link.PathLoss.TxHeight)
	v.SetDefault("link.pathloss.rx_height_m", d.Link.PathLoss.RxHeight)
}

// Load reads path (any format viper understands) when it is not empty, then
// applies BEAMSIM_ environment overrides such as BEAMSIM_ARRAY_NUM_ANTENNAS.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		log.WithField("file", v.ConfigFileUsed()).Debug("config file loaded")
	}
	return FromMap(v.AllSettings())
}

// FromMap decodes a parameter map on top of the defaults. Numbers may be
// given as ints, floats or strings, and the technique may be a list whose
// first entry is the selection.
func FromMap(m map[string]interface{}) (*Config, error) {
	var cfg Config
	cfg.SetDefault()

	dec, err := ms.NewDecoder(&ms.DecoderConfig{
		DecodeHook: ms.ComposeDecodeHookFunc(
			firstSelectionHook,
			ms.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(normalizeSections(m)); err != nil {
		return nil, fmt.Errorf("config: %v: %w", err, bf.ErrInvalidParameter)
	}
	if err := cfg.apply(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// apply derives the SNR from the link budget when enabled and validates.
func (c *Config) apply() error {
	if c.Link.Enabled {
		snr, err := c.Link.SNRDb()
		if err != nil {
			return fmt.Errorf("config: link: %w", err)
		}
		log.WithFields(log.Fields{
			"distance_m": c.Link.DistanceM,
			"pathloss":   c.Link.PathLoss.Type,
			"snr_db":     snr,
		}).Debug("snr_db taken from link budget")
		c.Signal.SNRDb = snr
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// normalizeSections renames titled groups. A titled group is
// merged over the plain group of the same name.
func normalizeSections(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if _, ok := sections[strings.ToLower(k)]; !ok {
			out[k] = v
		}
	}
	for k, v := range m {
		alias, ok := sections[strings.ToLower(k)]
		if !ok {
			continue
		}
		base, okBase := out[alias].(map[string]interface{})
		group, okGroup := v.(map[string]interface{})
		if !okBase || !okGroup {
			out[alias] = v
			continue
		}
		merged := make(map[string]interface{}, len(base)+len(group))
		for gk, gv := range base {
			merged[gk] = gv
		}
		for gk, gv := range group {
			merged[gk] = gv
		}
		out[alias] = merged
	}
	return out
}

var techniqueType = reflect.TypeOf(bf.Technique(0))

func firstSelectionHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t != techniqueType || (f.Kind() != reflect.Slice && f.Kind() != reflect.Array) {
		return data, nil
	}
	v := reflect.ValueOf(data)
	if v.Len() == 0 {
		return nil, fmt.Errorf("empty technique list")
	}
	return v.Index(0).Interface(), nil
}
