// Package simulation runs one end-to-end beam pattern experiment: synthesize
// the signal and interference channels, scan the array and normalise.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/antenna"
	"github.com/wiless/beamforming/beamformer"
	"github.com/wiless/beamforming/channel"
	"github.com/wiless/vlib"
	"golang.org/x/sync/errgroup"
)

// Params groups every input of a run.
type Params struct {
	Array       bf.ArrayConfig       `mapstructure:"array" json:"array"`
	Signal      bf.SignalParams      `mapstructure:"signal" json:"signal"`
	Beamforming bf.BeamformingParams `mapstructure:"beamforming" json:"beamforming"`
	ScanPoints  int                  `mapstructure:"scan_points" json:"scan_points"`
}

func (p *Params) SetDefault() {
	p.Array.SetDefault()
	p.Signal.SetDefault()
	p.Beamforming.SetDefault()
	p.ScanPoints = antenna.DefaultScanPoints
}

// Validate checks every group once, before any random draw.
func (p Params) Validate() error {
	if err := p.Array.Validate(); err != nil {
		return fmt.Errorf("simulation: array: %w", err)
	}
	if err := p.Signal.Validate(); err != nil {
		return fmt.Errorf("simulation: signal: %w", err)
	}
	if err := p.Beamforming.Validate(p.Array); err != nil {
		return fmt.Errorf("simulation: beamforming: %w", err)
	}
	if p.ScanPoints < 1 {
		return fmt.Errorf("simulation: scan_points=%d: %w", p.ScanPoints, bf.ErrInvalidParameter)
	}
	return nil
}

// Result is the outcome of a single run.
type Result struct {
	Technique    bf.Technique   `json:"technique"`
	Title        string         `json:"title"`
	Angles       vlib.VectorF   `json:"angles"`
	Pattern      bf.Pattern     `json:"pattern"`
	Channel      vlib.VectorC   `json:"-"`
	Interference vlib.VectorC   `json:"-"`
	Paths        []channel.Path `json:"paths"`
	// Peak is the angle in degrees of the 0 dB entry.
	Peak float64 `json:"peak_deg"`
}

// Scenario is the random part of a run: the signal channel with the paths
// it was built from, and the interference channel. Every technique of a run
// reads the same Scenario.
type Scenario struct {
	Channel      vlib.VectorC
	Interference vlib.VectorC
	Paths        []channel.Path
}

// Clone returns a deep copy of sc.
func (sc *Scenario) Clone() *Scenario {
	return &Scenario{
		Channel:      append(vlib.VectorC(nil), sc.Channel...),
		Interference: append(vlib.VectorC(nil), sc.Interference...),
		Paths:        append([]channel.Path(nil), sc.Paths...),
	}
}

// Draw synthesizes the signal channel and then the interference channel
// from src.
func Draw(array bf.ArrayConfig, signal bf.SignalParams, src rand.Source) (*Scenario, error) {
	if src == nil {
		return nil, fmt.Errorf("simulation: nil random source: %w", bf.ErrInvalidParameter)
	}
	h, paths, err := channel.SynthesizeWithPaths(array, signal, src)
	if err != nil {
		return nil, err
	}
	interference, err := channel.Synthesize(array, signal, src)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"antennas": array.NumAntennas,
		"paths":    signal.NumPaths,
	}).Debugf("synthesized channel with path angles %v deg", pathDegrees(paths))
	return &Scenario{Channel: h, Interference: interference, Paths: paths}, nil
}

// Evaluate runs the selected technique on sc over a ScanPoints grid. src is
// only read by Hybrid, for its analog phases.
func Evaluate(p Params, sc *Scenario, src rand.Source) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("simulation: nil scenario: %w", bf.ErrInvalidParameter)
	}
	if p.Beamforming.Technique == bf.Hybrid && src == nil {
		return nil, fmt.Errorf("simulation: nil random source: %w", bf.ErrInvalidParameter)
	}
	logger := log.WithFields(log.Fields{
		"technique": p.Beamforming.Technique,
		"antennas":  p.Array.NumAntennas,
		"paths":     p.Signal.NumPaths,
		"snr_db":    p.Signal.SNRDb,
	})

	b, err := beamformer.New(p.Beamforming, beamformer.Inputs{
		Interference: sc.Interference,
		SNRDb:        p.Signal.SNRDb,
		Src:          src,
	})
	if err != nil {
		return nil, err
	}
	angles := antenna.ScanGrid(p.ScanPoints)
	pattern, err := b.Pattern(sc.Channel, angles, p.Array)
	if err != nil {
		logger.WithError(err).Warn("pattern evaluation failed")
		return nil, err
	}

	result := &Result{
		Technique:    b.Technique(),
		Title:        b.Title(),
		Angles:       antenna.Degrees(angles),
		Pattern:      pattern,
		Channel:      sc.Channel,
		Interference: sc.Interference,
		Paths:        sc.Paths,
	}
	result.Peak = result.Angles[bf.PeakIndex(pattern)]
	logger.WithField("peak_deg", result.Peak).Info("pattern ready")
	return result, nil
}

// Run draws a Scenario from src and evaluates the selected technique on it.
// Hybrid takes its analog phases from the same src after both channels.
func Run(p Params, src rand.Source) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sc, err := Draw(p.Array, p.Signal, src)
	if err != nil {
		return nil, err
	}
	return Evaluate(p, sc, src)
}

// RunAll draws one Scenario from rand.NewPCG(seed, 0) and evaluates each
// technique on its own goroutine against a copy of it. Technique i takes
// its own draws from rand.NewPCG(seed, i+1), so results do not depend on
// scheduling. Results are returned in the order of techniques.
func RunAll(ctx context.Context, p Params, techniques []bf.Technique, seed uint64) ([]*Result, error) {
	if len(techniques) == 0 {
		techniques = bf.AllTechniques()
	}
	for _, tq := range techniques {
		run := p
		run.Beamforming.Technique = tq
		if err := run.Validate(); err != nil {
			return nil, fmt.Errorf("simulation: %v: %w", tq, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sc, err := Draw(p.Array, p.Signal, rand.NewPCG(seed, 0))
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(techniques))
	g, ctx := errgroup.WithContext(ctx)
	for i, tq := range techniques {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run := p
			run.Beamforming.Technique = tq
			res, err := Evaluate(run, sc.Clone(), rand.NewPCG(seed, uint64(i)+1))
			if err != nil {
				return fmt.Errorf("simulation: %v: %w", tq, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func pathDegrees(paths []channel.Path) []float64 {
	deg := make([]float64, len(paths))
	for i, p := range paths {
		deg[i] = antenna.ToDegree(p.AngleRad)
	}
	return deg
}
