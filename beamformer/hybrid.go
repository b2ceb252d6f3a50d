package beamformer

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/antenna"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minGram is the smallest effective channel energy treated as non-zero.
const minGram = 1e-300

// Hybrid is a random phase-only analog stage of NumRFChains columns followed
// by a zero-forcing digital stage. It is a representative architecture, not
// an optimised hybrid design.
type Hybrid struct {
	NumRFChains int
	// Src draws the analog phases. Ignored when Analog is set.
	Src rand.Source
	// Analog overrides the random N x NumRFChains analog matrix.
	Analog *mat.CDense
}

func (Hybrid) Technique() bf.Technique { return bf.Hybrid }
func (Hybrid) Title() string           { return "Hybrid Beamforming" }
func (Hybrid) sealed()                 {}

// RandomAnalog draws an n x nRF matrix of exp(j theta), theta uniform in
// [0, 2 pi), filled row by row.
func RandomAnalog(n, nRF int, src rand.Source) (*mat.CDense, error) {
	if src == nil {
		return nil, fmt.Errorf("nil random source: %w", bf.ErrInvalidParameter)
	}
	if n < 1 || nRF < 1 {
		return nil, fmt.Errorf("analog matrix %dx%d: %w", n, nRF, bf.ErrInvalidParameter)
	}
	phase := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src}
	a := mat.NewCDense(n, nRF, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < nRF; k++ {
			a.Set(i, k, cmplx.Exp(complex(0, phase.Rand())))
		}
	}
	return a, nil
}

func (hy Hybrid) analog(n int) (*mat.CDense, error) {
	if hy.Analog == nil {
		return RandomAnalog(n, hy.NumRFChains, hy.Src)
	}
	r, c := hy.Analog.Dims()
	if r != n || c != hy.NumRFChains {
		return nil, fmt.Errorf("analog matrix is %dx%d, want %dx%d: %w", r, c, n, hy.NumRFChains, bf.ErrInvalidParameter)
	}
	return hy.Analog, nil
}

// Weights returns the combined weight vector A d with
// h_eff = h^H A and d = h_eff^H (h_eff h_eff^H)^-1, plus the analog matrix used.
// h_eff is a single row, so the Gram term is a real scalar.
func (hy Hybrid) Weights(h vlib.VectorC, cfg bf.ArrayConfig) (vlib.VectorC, *mat.CDense, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := bf.ValidateRFChains(hy.NumRFChains, cfg.NumAntennas); err != nil {
		return nil, nil, err
	}
	if len(h) != cfg.NumAntennas {
		return nil, nil, fmt.Errorf("channel length %d != num_antennas %d: %w", len(h), cfg.NumAntennas, bf.ErrInvalidParameter)
	}
	a, err := hy.analog(cfg.NumAntennas)
	if err != nil {
		return nil, nil, err
	}

	heff := vlib.NewVectorC(hy.NumRFChains)
	for k := range heff {
		for n, hn := range h {
			heff[k] += cmplx.Conj(hn) * a.At(n, k)
		}
	}
	var gram float64
	for _, v := range heff {
		gram += real(v)*real(v) + imag(v)*imag(v)
	}
	if !(gram > minGram) || math.IsInf(gram, 0) {
		return nil, nil, fmt.Errorf("degenerate effective channel (energy %g): %w", gram, bf.ErrDegenerateChannel)
	}

	digital := vlib.NewVectorC(hy.NumRFChains)
	for k, v := range heff {
		digital[k] = cmplx.Conj(v) / complex(gram, 0)
	}
	w := vlib.NewVectorC(cfg.NumAntennas)
	for n := range w {
		for k, d := range digital {
			w[n] += a.At(n, k) * d
		}
	}
	return w, a, nil
}

// Pattern returns |w^H a(theta)| in dB for the combined hybrid weights.
func (hy Hybrid) Pattern(h vlib.VectorC, angles []float64, cfg bf.ArrayConfig) (bf.Pattern, error) {
	if err := checkInputs(h, angles, cfg); err != nil {
		return nil, fmt.Errorf("beamformer: hybrid: %w", err)
	}
	w, _, err := hy.Weights(h, cfg)
	if err != nil {
		return nil, fmt.Errorf("beamformer: hybrid: %w", err)
	}
	ula, err := antenna.NewULA(cfg)
	if err != nil {
		return nil, err
	}
	p, err := ToDB(response(ula.SteeringMatrix(angles), w))
	if err != nil {
		return nil, fmt.Errorf("beamformer: hybrid: %w", err)
	}
	return p, nil
}

// HybridPattern is the function form of Hybrid.Pattern with a random
// analog stage drawn from src.
func HybridPattern(h vlib.VectorC, angles []float64, cfg bf.ArrayConfig, numRFChains int, src rand.Source) (bf.Pattern, error) {
	return Hybrid{NumRFChains: numRFChains, Src: src}.Pattern(h, angles, cfg)
}
