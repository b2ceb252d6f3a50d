package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/config"
	"github.com/wiless/beamforming/pathloss"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Array.NumAntennas)
	assert.Equal(t, 0.5, cfg.Array.AntennaSpacing)
	assert.Equal(t, 10.0, cfg.Signal.SNRDb)
	assert.Equal(t, 3, cfg.Signal.NumPaths)
	assert.Equal(t, bf.Conventional, cfg.Beamforming.Technique)
	assert.Equal(t, 8, cfg.Beamforming.NumRFChains)
	assert.Equal(t, 360, cfg.ScanPoints)
	assert.False(t, cfg.Link.Enabled)
	assert.Equal(t, pathloss.FreeSpace, cfg.Link.PathLoss.Type)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "sim.yaml", `
array:
  num_antennas: 32
  antenna_spacing: 0.25
signal:
  snr_db: 20
beamforming:
  technique: hybrid
  num_rf_chains: 4
scan_points: 181
seed: 7
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Array.NumAntennas)
	assert.Equal(t, 0.25, cfg.Array.AntennaSpacing)
	assert.Equal(t, 20.0, cfg.Signal.SNRDb)
	assert.Equal(t, 3, cfg.Signal.NumPaths)
	assert.Equal(t, bf.Hybrid, cfg.Beamforming.Technique)
	assert.Equal(t, 4, cfg.Beamforming.NumRFChains)
	assert.Equal(t, 181, cfg.ScanPoints)
	assert.Equal(t, uint64(7), cfg.Seed)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BEAMSIM_ARRAY_NUM_ANTENNAS", "16")
	t.Setenv("BEAMSIM_BEAMFORMING_TECHNIQUE", "MVDR")
	t.Setenv("BEAMSIM_SIGNAL_SNR_DB", "-3.5")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Array.NumAntennas)
	assert.Equal(t, bf.Adaptive, cfg.Beamforming.Technique)
	assert.Equal(t, -3.5, cfg.Signal.SNRDb)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFromMapTitledGroups(t *testing.T) {
	cfg, err := config.FromMap(map[string]interface{}{
		"Array Configuration": map[string]interface{}{
			"num_antennas":    "32",
			"antenna_spacing": "0.5",
		},
		"Signal Parameters": map[string]interface{}{
			"snr_db":    15.0,
			"num_paths": 2.0,
		},
		"Beamforming Parameters": map[string]interface{}{
			"technique":     []interface{}{"Adaptive", "Conventional", "Hybrid"},
			"num_rf_chains": 8,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Array.NumAntennas)
	assert.Equal(t, 15.0, cfg.Signal.SNRDb)
	assert.Equal(t, 2, cfg.Signal.NumPaths)
	assert.Equal(t, bf.Adaptive, cfg.Beamforming.Technique)
	assert.Equal(t, 360, cfg.ScanPoints)
}

func TestFromMapRejects(t *testing.T) {
	for name, m := range map[string]map[string]interface{}{
		"unknown technique": {"beamforming": map[string]interface{}{"technique": "digital"}},
		"text count":        {"array": map[string]interface{}{"num_antennas": "many"}},
		"zero antennas":     {"array": map[string]interface{}{"num_antennas": 0}},
		"rf above antennas": {"array": map[string]interface{}{"num_antennas": 4}, "beamforming": map[string]interface{}{"technique": "Hybrid", "num_rf_chains": 8}},
		"unknown key":       {"signal": map[string]interface{}{"snr": 3}},
		"empty technique":   {"beamforming": map[string]interface{}{"technique": []interface{}{}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromMap(m)
			require.Error(t, err)
			assert.ErrorIs(t, err, bf.ErrInvalidParameter)
		})
	}
}

func TestLinkBudgetSetsSNR(t *testing.T) {
	cfg, err := config.FromMap(map[string]interface{}{
		"link": map[string]interface{}{
			"enabled":         true,
			"tx_power_dbm":    0,
			"bandwidth_mhz":   1,
			"noise_figure_db": 0,
			"distance_m":      100,
			"pathloss": map[string]interface{}{
				"type":         "exponential",
				"exponent":     2,
				"intercept_db": 40,
			},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 33.9, cfg.Signal.SNRDb, 1e-9)
}

func TestLinkBudgetOutOfRange(t *testing.T) {
	_, err := config.FromMap(map[string]interface{}{
		"link": map[string]interface{}{
			"enabled":  true,
			"pathloss": map[string]interface{}{"type": "OkumuraHata", "freq_hz": 3.5e9},
		},
	})
	assert.ErrorIs(t, err, bf.ErrInvalidParameter)
}
