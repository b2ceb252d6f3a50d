package beamformer_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/antenna"
	"github.com/wiless/beamforming/beamformer"
	"github.com/wiless/beamforming/channel"
	"github.com/wiless/vlib"
)

const tol = 1e-9

var array16 = bf.ArrayConfig{NumAntennas: 16, AntennaSpacing: 0.5}

func randomChannel(t *testing.T, cfg bf.ArrayConfig, paths int, seed uint64) vlib.VectorC {
	t.Helper()
	h, err := channel.Synthesize(cfg, bf.SignalParams{SNRDb: 10, NumPaths: paths}, rand.NewPCG(seed, 99))
	require.NoError(t, err)
	return h
}

func requireNormalised(t *testing.T, p bf.Pattern, n int) {
	t.Helper()
	require.Len(t, p, n)
	peak := math.Inf(-1)
	for i, v := range p {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "entry %d is %v", i, v)
		require.LessOrEqual(t, v, 0.0, "entry %d", i)
		peak = math.Max(peak, v)
	}
	require.InDelta(t, 0, peak, tol)
}

// linear converts a dB pattern back to relative magnitudes.
func linear(p bf.Pattern) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = math.Pow(10, v/20)
	}
	return out
}

func TestAllTechniquesNormalised(t *testing.T) {
	angles := antenna.ScanGrid(antenna.DefaultScanPoints)
	for seed := uint64(1); seed <= 5; seed++ {
		h := randomChannel(t, array16, 3, seed)
		interference := randomChannel(t, array16, 3, seed+100)

		for _, tq := range bf.AllTechniques() {
			b, err := beamformer.New(bf.BeamformingParams{Technique: tq, NumRFChains: 4}, beamformer.Inputs{
				Interference: interference,
				SNRDb:        10,
				Src:          rand.NewPCG(seed, 7),
			})
			require.NoError(t, err)
			p, err := b.Pattern(h, angles, array16)
			require.NoError(t, err, "%v seed %d", tq, seed)
			requireNormalised(t, p, len(angles))
		}
	}
}

func TestNewDispatch(t *testing.T) {
	for _, tc := range []struct {
		tq    bf.Technique
		title string
	}{
		{bf.Conventional, "Conventional Beamforming"},
		{bf.Adaptive, "Adaptive Beamforming (MVDR)"},
		{bf.Hybrid, "Hybrid Beamforming"},
	} {
		b, err := beamformer.New(bf.BeamformingParams{Technique: tc.tq, NumRFChains: 2}, beamformer.Inputs{})
		require.NoError(t, err)
		assert.Equal(t, tc.tq, b.Technique())
		assert.Equal(t, tc.title, b.Title())
	}

	_, err := beamformer.New(bf.BeamformingParams{Technique: bf.Technique(3)}, beamformer.Inputs{})
	assert.ErrorIs(t, err, bf.ErrInvalidParameter)
}

func TestToDB(t *testing.T) {
	p, err := beamformer.ToDB([]float64{1, 2, 4, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-40 * math.Log10(2), -20 * math.Log10(2), 0, bf.FloorDB}, []float64(p), 1e-12)

	_, err = beamformer.ToDB([]float64{0, 0})
	assert.ErrorIs(t, err, bf.ErrDegenerateChannel)
	_, err = beamformer.ToDB([]float64{1, math.NaN()})
	assert.ErrorIs(t, err, bf.ErrDegenerateChannel)
	_, err = beamformer.ToDB([]float64{1, math.Inf(1)})
	assert.ErrorIs(t, err, bf.ErrDegenerateChannel)
	_, err = beamformer.ToDB(nil)
	assert.ErrorIs(t, err, bf.ErrInvalidParameter)
}

func TestInputLengthMismatch(t *testing.T) {
	h := randomChannel(t, bf.ArrayConfig{NumAntennas: 8, AntennaSpacing: 0.5}, 2, 1)
	angles := antenna.ScanGrid(10)

	_, err := beamformer.ConventionalPattern(h, angles, array16)
	assert.ErrorIs(t, err, bf.ErrInvalidParameter)
	_, err = beamformer.AdaptivePattern(h, h, angles, array16, 10)
	assert.ErrorIs(t, err, bf.ErrInvalidParameter)
	_, err = beamformer.HybridPattern(h, angles, array16, 4, rand.NewPCG(1, 1))
	assert.ErrorIs(t, err, bf.ErrInvalidParameter)

	full := randomChannel(t, array16, 2, 1)
	_, err = beamformer.ConventionalPattern(full, nil, array16)
	assert.ErrorIs(t, err, bf.ErrInvalidParameter)
	_, err = beamformer.ConventionalPattern(full, []float64{0, math.NaN()}, array16)
	assert.ErrorIs(t, err, bf.ErrInvalidParameter)
}

func TestNonFiniteInputs(t *testing.T) {
	angles := antenna.ScanGrid(36)
	src := rand.NewPCG(1, 1)
	for _, bad := range []complex128{complex(math.Inf(1), 0), complex(0, math.Inf(-1)), complex(math.NaN(), 0)} {
		h := randomChannel(t, array16, 2, 1)
		h[3] = bad

		_, err := beamformer.ConventionalPattern(h, angles, array16)
		assert.ErrorIs(t, err, bf.ErrInvalidParameter, "%v", bad)
		_, err = beamformer.AdaptivePattern(h, randomChannel(t, array16, 2, 2), angles, array16, 10)
		assert.ErrorIs(t, err, bf.ErrInvalidParameter, "%v", bad)
		_, err = beamformer.AdaptivePattern(randomChannel(t, array16, 2, 2), h, angles, array16, 10)
		assert.ErrorIs(t, err, bf.ErrInvalidParameter, "interference %v", bad)
		_, err = beamformer.HybridPattern(h, angles, array16, 4, src)
		assert.ErrorIs(t, err, bf.ErrInvalidParameter, "%v", bad)
	}

	full := randomChannel(t, array16, 2, 1)
	for _, theta := range []float64{math.Inf(1), math.Inf(-1)} {
		_, err := beamformer.ConventionalPattern(full, []float64{0, theta}, array16)
		assert.ErrorIs(t, err, bf.ErrInvalidParameter)
	}
}
