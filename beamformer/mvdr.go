package beamformer

import (
	"fmt"
	"math"
	"math/cmplx"

	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/antenna"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"
)

// MaxCondition is the largest covariance condition number the MVDR solve
// accepts before reporting bf.ErrSingularCovariance. It is the bound gonum
// applies to its own solves.
const MaxCondition = mat.ConditionTolerance

// MVDR is the minimum-variance distortionless-response beamformer against
// a single interferer plus white noise at SNRDb.
type MVDR struct {
	Interference vlib.VectorC
	SNRDb        float64
}

func (MVDR) Technique() bf.Technique { return bf.Adaptive }
func (MVDR) Title() string           { return "Adaptive Beamforming (MVDR)" }
func (MVDR) sealed()                 {}

// Covariance returns the real symmetric 2N x 2N embedding
//
//	[ Re R  -Im R ]
//	[ Im R   Re R ]
//
// of R = i i^H + noise I. A Hermitian positive definite R maps to a
// symmetric positive definite embedding with the same eigenvalues.
func Covariance(interference vlib.VectorC, noise float64) *mat.SymDense {
	n := len(interference)
	r := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rij := interference[i] * cmplx.Conj(interference[j])
			if i == j {
				rij += complex(noise, 0)
			}
			if i <= j {
				r.SetSym(i, j, real(rij))
				r.SetSym(n+i, n+j, real(rij))
			}
			r.SetSym(i, n+j, -imag(rij))
		}
	}
	return r
}

// factorize builds and factors the covariance embedding once per pattern.
func (m MVDR) factorize() (*mat.Cholesky, error) {
	noise := bf.SignalParams{SNRDb: m.SNRDb}.NoisePower()
	if math.IsNaN(noise) || math.IsInf(noise, 0) {
		return nil, fmt.Errorf("snr_db=%v: %w", m.SNRDb, bf.ErrInvalidParameter)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(Covariance(m.Interference, noise)); !ok {
		return nil, fmt.Errorf("covariance not positive definite (noise=%g): %w", noise, bf.ErrSingularCovariance)
	}
	if c := chol.Cond(); math.IsNaN(c) || c > MaxCondition {
		return nil, fmt.Errorf("covariance condition number %g: %w", c, bf.ErrSingularCovariance)
	}
	return &chol, nil
}

// solve returns w = R^-1 a / (a^H R^-1 a) for one steering vector a.
func solve(chol *mat.Cholesky, a vlib.VectorC, x, b *mat.VecDense) (vlib.VectorC, error) {
	n := len(a)
	for i, v := range a {
		b.SetVec(i, real(v))
		b.SetVec(n+i, imag(v))
	}
	if err := chol.SolveVecTo(x, b); err != nil {
		return nil, fmt.Errorf("covariance solve: %v: %w", err, bf.ErrSingularCovariance)
	}
	w := vlib.NewVectorC(n)
	for i := range w {
		w[i] = complex(x.AtVec(i), x.AtVec(n+i))
	}
	denom := cmplxs.Dot(a, w)
	if denom == 0 || cmplx.IsNaN(denom) || cmplx.IsInf(denom) {
		return nil, fmt.Errorf("distortionless gain %v: %w", denom, bf.ErrSingularCovariance)
	}
	cmplxs.Scale(1/denom, w)
	return w, nil
}

// Pattern returns |h^H w(theta)| in dB where w(theta) is the MVDR weight
// steered to theta.
func (m MVDR) Pattern(h vlib.VectorC, angles []float64, cfg bf.ArrayConfig) (bf.Pattern, error) {
	if err := checkInputs(h, angles, cfg); err != nil {
		return nil, fmt.Errorf("beamformer: adaptive: %w", err)
	}
	if len(m.Interference) != cfg.NumAntennas {
		return nil, fmt.Errorf("beamformer: adaptive: interference length %d != num_antennas %d: %w",
			len(m.Interference), cfg.NumAntennas, bf.ErrInvalidParameter)
	}
	for n, v := range m.Interference {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return nil, fmt.Errorf("beamformer: adaptive: interference[%d]=%v: %w", n, v, bf.ErrInvalidParameter)
		}
	}
	if math.IsNaN(m.SNRDb) {
		return nil, fmt.Errorf("beamformer: adaptive: snr_db is NaN: %w", bf.ErrInvalidParameter)
	}
	if isZero(h) {
		return nil, fmt.Errorf("beamformer: adaptive: all-zero channel: %w", bf.ErrDegenerateChannel)
	}
	chol, err := m.factorize()
	if err != nil {
		return nil, fmt.Errorf("beamformer: adaptive: %w", err)
	}

	ula, err := antenna.NewULA(cfg)
	if err != nil {
		return nil, err
	}
	sv := ula.SteeringMatrix(angles)
	x := mat.NewVecDense(2*cfg.NumAntennas, nil)
	b := mat.NewVecDense(2*cfg.NumAntennas, nil)

	// the MVDR weights are combined with the channel, not the scan vector
	var col vlib.VectorC
	mag := make([]float64, len(angles))
	for j := range angles {
		col = antenna.Column(col, sv, j)
		w, err := solve(chol, col, x, b)
		if err != nil {
			return nil, fmt.Errorf("beamformer: adaptive: angle %d: %w", j, err)
		}
		mag[j] = cmplx.Abs(cmplxs.Dot(h, w))
	}
	p, err := ToDB(mag)
	if err != nil {
		return nil, fmt.Errorf("beamformer: adaptive: %w", err)
	}
	return p, nil
}

// AdaptivePattern is the function form of MVDR.Pattern.
func AdaptivePattern(h, interference vlib.VectorC, angles []float64, cfg bf.ArrayConfig, snrDb float64) (bf.Pattern, error) {
	return MVDR{Interference: interference, SNRDb: snrDb}.Pattern(h, angles, cfg)
}
