package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/cmplx"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/supermode/archive"
	"github.com/katalvlaran/supermode/mode"
	"github.com/katalvlaran/supermode/ode"
	"github.com/katalvlaran/supermode/profile"
	"github.com/katalvlaran/supermode/runstore"
	"github.com/katalvlaran/supermode/superset"
)

func newPropagateCmd(a *app) *cobra.Command {
	var input string
	var amplitudes []string

	cmd := &cobra.Command{
		Use:   "propagate",
		Short: "Propagate mode amplitudes along the archived profile",
		Long: `Loads a SuperSet archive with a profile, integrates the coupled-mode
equations over the coupler and prints z followed by |A_i|^2 per mode as CSV.
With --store the run is recorded, including the partial trajectory of a
failed run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPropagate(cmd, input, amplitudes)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "SuperSet archive (YAML)")
	f.StringSliceVarP(&amplitudes, "amplitudes", "a", nil, "Initial amplitude per mode, e.g. 1,0 or 0.7+0.7i,0")
	f.String("method", "RK45", "Integrator: RK45 or RK23")
	f.Float64("max-step", 0, "Maximum step; 0 uses wavelength/50")
	f.Float64("rtol", 1e-3, "Relative tolerance")
	f.Float64("atol", 1e-6, "Absolute tolerance")
	f.Int("max-steps", 0, "Maximum accepted steps; 0 is unbounded")
	f.Float64("coupling-factor", 1, "Scale applied to every coupling term")
	f.Bool("with-coupling", true, "Inject inter-mode coupling")
	f.Bool("uniform-taper", false, "Derive the coupling factor from d(ln ITR)/dz over the coupler length")
	f.String("sort", "", "Sort modes before propagating: beta or symmetry+beta")
	f.Int("keep-only", 0, "Keep only the first N modes after sorting")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("amplitudes")

	return cmd
}

func (a *app) runPropagate(cmd *cobra.Command, input string, amplitudes []string) error {
	set, prof, err := loadArchive(input, a)
	if err != nil {
		return err
	}
	if prof == nil {
		return fmt.Errorf("%s has no profile", input)
	}

	cfg := a.cfg
	if cfg.KeepOnly > 0 && cfg.Sort == "" {
		return fmt.Errorf("keep-only %d needs a sort method, set --sort", cfg.KeepOnly)
	}
	if cfg.Sort != "" {
		method, err := mode.ParseSortMethod(cfg.Sort)
		if err != nil {
			return err
		}
		if err := set.SortModes(method, cfg.KeepOnly); err != nil {
			return err
		}
		if _, err := set.ComputeTransmissionMatrix(); err != nil {
			return err
		}
	}

	initial, err := parseAmplitudes(amplitudes)
	if err != nil {
		return err
	}
	opts, err := propagateOptions(cfg)
	if err != nil {
		return err
	}

	res, perr := set.Propagate(cmd.Context(), prof, initial, opts...)

	if cfg.Store != "" {
		if err := a.storeRun(cmd, set, prof, res, perr); err != nil {
			if perr == nil {
				return err
			}
			a.log.Error(err, "storing failed run", "store", cfg.Store)
		}
	}
	if perr != nil {
		return perr
	}
	return writeCSV(cmd.OutOrStdout(), set.Modes(), res.Distance, res.Amplitudes)
}

func loadArchive(path string, a *app) (*superset.SuperSet, *profile.Tabulated, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	doc, err := archive.Decode(f)
	if err != nil {
		return nil, nil, err
	}
	return doc.Build(superset.WithLogger(a.log))
}

func parseAmplitudes(values []string) ([]complex128, error) {
	out := make([]complex128, len(values))
	for i, s := range values {
		c, err := strconv.ParseComplex(strings.TrimSpace(s), 128)
		if err != nil {
			return nil, fmt.Errorf("amplitude %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

func propagateOptions(cfg *Config) ([]superset.PropagateOption, error) {
	method, err := ode.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	if !(cfg.RelTol > 0) || cfg.AbsTol < 0 || cfg.MaxStep < 0 || cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("rtol=%g atol=%g max_step=%g max_steps=%d: %w",
			cfg.RelTol, cfg.AbsTol, cfg.MaxStep, cfg.MaxSteps, ode.ErrBadOptions)
	}

	opts := []superset.PropagateOption{
		superset.WithMethod(method),
		superset.WithTolerances(cfg.RelTol, cfg.AbsTol),
		superset.WithMaxSteps(cfg.MaxSteps),
		superset.WithCoupling(cfg.WithCoupling),
		superset.WithCouplingFactor(cfg.CouplingFactor),
	}
	if cfg.MaxStep > 0 {
		opts = append(opts, superset.WithMaxStep(cfg.MaxStep))
	}
	if cfg.UniformTaper {
		opts = append(opts, superset.WithUniformTaper())
	}
	return opts, nil
}

func (a *app) storeRun(cmd *cobra.Command, set *superset.SuperSet, prof profile.Profile, res *superset.Propagation, perr error) error {
	store, err := runstore.Open(a.cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	maxStep := a.cfg.MaxStep
	if maxStep == 0 {
		maxStep = set.Wavelength() / superset.DefaultMaxStepDivisor
	}
	run := runstore.Run{
		Method:   strings.ToUpper(a.cfg.Method),
		Length:   prof.Length(),
		MaxStep:  maxStep,
		Coupling: a.cfg.WithCoupling,
		Status:   runstore.StatusDone,
	}

	var pe *superset.PropagationError
	switch {
	case perr == nil:
		run.Distance, run.Amplitudes = res.Distance, res.Amplitudes
	case errors.As(perr, &pe):
		run.Status = runstore.StatusFailed
		run.Error = perr.Error()
		run.Distance, run.Amplitudes = pe.Distance, pe.Amplitudes
	default:
		return nil
	}

	id, err := store.Save(cmd.Context(), run)
	if err != nil {
		return err
	}
	a.log.Info("run stored", "id", id, "status", string(run.Status), "store", store.Path())
	return nil
}

// writeCSV prints "z,<mode>,..." then one row of z and |A_i|^2 per sample.
func writeCSV(w io.Writer, modes []*mode.Supermode, distance []float64, amps [][]complex128) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(amps)+1)
	header = append(header, "z")
	for i := range amps {
		name := fmt.Sprintf("mode_%d", i)
		if i < len(modes) {
			name = modes[i].String()
		}
		header = append(header, name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(amps)+1)
	for j, z := range distance {
		row[0] = strconv.FormatFloat(z, 'g', -1, 64)
		for i := range amps {
			p := cmplx.Abs(amps[i][j])
			row[i+1] = strconv.FormatFloat(p*p, 'g', 8, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
