// beamsim evaluates the beam pattern of a uniform linear array for one or
// all of the conventional, adaptive (MVDR) and hybrid techniques.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	bf "github.com/wiless/beamforming"
	"github.com/wiless/beamforming/config"
	"github.com/wiless/beamforming/report"
	"github.com/wiless/beamforming/simulation"
)

var (
	configFile = flag.String("config", "", "configuration file (yaml, json or toml)")
	technique  = flag.String("technique", "", "Conventional, Adaptive, Hybrid or all (overrides the config)")
	seed       = flag.Uint64("seed", 0, "random seed, 0 uses the config seed or the clock")
	outdir     = flag.String("out", ".", "directory where the output files are written")
	writePNG   = flag.Bool("png", true, "write polar and cartesian PNG plots")
	writeMfile = flag.Bool("mfile", false, "write a Matlab script")
	writeJSON  = flag.Bool("json", false, "write the results as JSON")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.WithError(err).Error("beamsim failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}

	techniques := []bf.Technique{cfg.Beamforming.Technique}
	switch name := strings.TrimSpace(*technique); {
	case strings.EqualFold(name, "all"):
		techniques = bf.AllTechniques()
	case name != "":
		tq, err := bf.ParseTechnique(name)
		if err != nil {
			return err
		}
		techniques = []bf.Technique{tq}
		cfg.Beamforming.Technique = tq
	}
	for _, tq := range techniques {
		p := cfg.Params
		p.Beamforming.Technique = tq
		if err := p.Validate(); err != nil {
			return err
		}
	}

	s := *seed
	if s == 0 {
		s = cfg.Seed
	}
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	log.WithFields(log.Fields{"seed": s, "techniques": techniques}).Info("starting simulation")

	results, err := simulation.RunAll(ctx, cfg.Params, techniques, s)
	if err != nil {
		return err
	}

	fmt.Print(report.Summary(cfg.Params))
	for _, res := range results {
		fmt.Printf("%s: peak at %.2f deg\n", res.Title, res.Peak)
	}
	return writeOutputs(cfg, s, techniques, results)
}

func writeOutputs(cfg *config.Config, s uint64, techniques []bf.Technique, results []*simulation.Result) error {
	if !*writePNG && !*writeMfile && !*writeJSON {
		return nil
	}
	if err := os.MkdirAll(*outdir, 0o755); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	name := "all"
	if len(techniques) == 1 {
		name = strings.ToLower(techniques[0].String())
	}
	base := filepath.Join(*outdir, name)

	if *writePNG {
		if err := report.WritePlots(base, results...); err != nil {
			return err
		}
	}
	if *writeMfile {
		if err := report.WriteMatlab(base+".m", results...); err != nil {
			return err
		}
	}
	if *writeJSON {
		rec := report.Record{Params: cfg.Params, Seed: s, Results: results}
		if err := report.SaveJSON(base+".json", rec); err != nil {
			return err
		}
	}
	log.WithField("base", base).Info("outputs written")
	return nil
}
