// Package report writes simulation results as Matlab scripts, JSON and PNG
// plots.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/beamforming/simulation"
	"github.com/wiless/vlib"
)

// Record is what SaveJSON stores: the inputs next to every result.
type Record struct {
	Params  simulation.Params    `json:"params"`
	Seed    uint64               `json:"seed"`
	Results []*simulation.Result `json:"results"`
}

// SaveJSON stores rec at path as indented JSON. A file already at path is
// replaced, never reported as the result of a failed write.
func SaveJSON(path string, rec Record) error {
	// SaveStructure only logs its failures
	if _, err := json.Marshal(rec); err != nil {
		return fmt.Errorf("report: encode %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("report: replace %s: %w", path, err)
	}
	vlib.SaveStructure(rec, path, true)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	log.WithField("file", path).Debug("json written")
	return nil
}

// WriteMatlab writes a script that recreates the channel and draws both
// views of every result. name follows vlib.NewMatlab.
func WriteMatlab(name string, results ...*simulation.Result) error {
	matlab := vlib.NewMatlab(name)
	matlab.Silent = true
	matlab.Json = false

	for i, res := range results {
		suffix := ""
		if len(results) > 1 {
			suffix = fmt.Sprintf("%d", i+1)
		}
		re := vlib.NewVectorF(len(res.Channel))
		im := vlib.NewVectorF(len(res.Channel))
		for n, v := range res.Channel {
			re[n], im[n] = real(v), imag(v)
		}
		matlab.Export("angles"+suffix, res.Angles)
		matlab.Export("pattern"+suffix, res.Pattern)
		matlab.Export("hre"+suffix, re)
		matlab.Export("him"+suffix, im)
		matlab.Command(fmt.Sprintf("h%[1]s = hre%[1]s + 1i*him%[1]s;", suffix))
		matlab.Command(fmt.Sprintf(`figure;
subplot(1,2,1); polarplot(deg2rad(angles%[1]s), max(pattern%[1]s,-40)+40);
set(gca,'ThetaZeroLocation','top','ThetaDir','clockwise'); title('%[2]s - Polar Plot');
subplot(1,2,2); plot(angles%[1]s, pattern%[1]s); grid on; ylim([-40 0]); xlim([-90 90]);
xlabel('Angle (degrees)'); ylabel('Magnitude (dB)'); title('%[2]s - Cartesian Plot');`, suffix, res.Title))
	}
	if err := matlab.Close(); err != nil {
		return fmt.Errorf("report: matlab %s: %w", name, err)
	}
	log.WithField("file", name).Debug("matlab script written")
	return nil
}

// Summary lists the parameters under their group titles.
func Summary(p simulation.Params) string {
	var b strings.Builder
	b.WriteString("Simulation Parameters:\n\n")
	group := func(title string, kv ...interface{}) {
		fmt.Fprintf(&b, "%s:\n", title)
		for i := 0; i+1 < len(kv); i += 2 {
			fmt.Fprintf(&b, "  %v: %v\n", kv[i], kv[i+1])
		}
		b.WriteString("\n")
	}
	group("Array Configuration",
		"num_antennas", p.Array.NumAntennas,
		"antenna_spacing", p.Array.AntennaSpacing)
	group("Signal Parameters",
		"snr_db", p.Signal.SNRDb,
		"num_paths", p.Signal.NumPaths)
	group("Beamforming Parameters",
		"technique", p.Beamforming.Technique,
		"num_rf_chains", p.Beamforming.NumRFChains)
	return b.String()
}
