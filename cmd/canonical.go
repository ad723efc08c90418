package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clexmonte/clexmonte-go/monte"
	mio "github.com/clexmonte/clexmonte-go/monte/io"
)

var canonicalCmd = &cobra.Command{
	Use:   "canonical <system.yaml> <run_params.yaml>",
	Short: "Run a canonical-ensemble occupation Monte Carlo calculation",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runSwapEnsemble(args[0], args[1], monte.ModeCanonical)
	},
}

// runSwapEnsemble drives a canonical or semi-grand run series: it is
// shared because the two ensembles differ only in the proposal/potential
// construction, per spec §4.D/§4.E.
func runSwapEnsemble(systemPath, runParamsPath string, mode monte.EnsembleMode) {
	prim, sc, ce, rp, err := loadCore(systemPath, runParamsPath)
	fatalIfConfigErr(err)

	conditions, err := conditionsList(rp)
	fatalIfConfigErr(err)

	var axes *monte.CompositionAxes
	if mode == monte.ModeSemiGrand {
		sys, serr := mio.LoadSystem(systemPath)
		fatalIfConfigErr(serr)
		axes = sys.CompositionAxesOrNil()
		if axes == nil {
			logrus.Errorf("semi-grand ensemble requires composition_axes in the system document")
			fatalIfConfigErr(monte.ConfigErrorf(systemPath, "composition_axes", "missing, required for semi-grand ensemble"))
		}
	}

	swaps := monte.NewSwapEnumerator(prim)
	rng := monte.NewPartitionedRNG(monte.SimulationKey(rp.Seed))

	ledger := openLedgerOrNil(rp)
	if ledger != nil {
		defer ledger.Close()
	}
	metrics := newMetricsOrNil()

	gen := monte.NewStateGenerator(sc, initialOccupation(sc, rp), conditions, rp.PathFollowing)
	rm := monte.NewRunManager(nil, rp.GlobalCutoff)
	rm.ContinueOnError = rp.ContinueOnError
	rm.Ledger = ledger
	rm.Metrics = metrics

	results := rm.RunSeries(gen, func(idx int, state *monte.State) *monte.RunResult {
		loc := monte.NewOccLocation(prim, sc, false)
		if err := loc.Initialize(state.Occupation); err != nil {
			return &monte.RunResult{FinalState: state, Err: err}
		}

		var potential monte.Potential
		var perr error
		if mode == monte.ModeSemiGrand {
			potential, perr = monte.NewSemiGrandCanonical(ce, *axes, state)
		} else {
			potential, perr = monte.NewCanonical(ce, state)
		}
		if perr != nil {
			return &monte.RunResult{FinalState: state, Err: perr}
		}

		kernel := monte.NewMetropolis(state, loc, potential, swaps, rng.ForSubsystem(monte.SubsystemProposal), mode)

		schedule := mustSchedule(rp)
		fixture := monte.NewSamplingFixture(fmt.Sprintf("run_%03d", idx), schedule, rp.Completion.ToCompletionCheck())
		registerDefaultQuantities(fixture.Sampler, prim, sc, ce)
		if axes != nil {
			fixture.Sampler.Register("param_composition", func(st *monte.State, _ map[string]float64) []float64 {
				return axes.ParamFromMol(monte.MolCompositionOf(prim, sc, st.Occupation))
			})
		}
		single := monte.NewRunManager([]*monte.SamplingFixture{fixture}, false)
		single.Metrics = metrics

		res := single.Run(kernel, schedule.Mode, nil)

		if rp.ResultsDir != "" {
			st := res.Fixtures[fixture.Label]
			analysis := analyzeFixture(&monte.Analysis{Conditions: state.Conditions, Volume: int(sc.Volume())}, fixture.Sampler, axes != nil)
			status := mio.FromResults(idx, kernel.Count, 0, res.Status, st, kernel.AcceptanceRatio(), analysis)
			path := filepath.Join(rp.ResultsDir, fmt.Sprintf("status_%03d.json", idx))
			if werr := mio.WriteStatus(path, status); werr != nil {
				logrus.Warnf("writing status document: %v", werr)
			}
		}
		return res
	})

	logrus.Infof("canonical run series complete: %d runs", len(results))
}

func mustSchedule(rp *mio.RunParams) monte.Schedule {
	sch, err := rp.Sampling.ToSchedule()
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return sch
}

func registerDefaultQuantities(s *monte.Sampler, prim *monte.Prim, sc *monte.Supercell, ce *monte.ClusterExpansion) {
	s.Register("formation_energy", func(state *monte.State, _ map[string]float64) []float64 {
		return []float64{ce.ExtensiveValue(state.Occupation) / float64(sc.Volume())}
	})
	s.Register("mol_composition", func(state *monte.State, _ map[string]float64) []float64 {
		return monte.MolCompositionOf(prim, sc, state.Occupation)
	})
}

func openLedgerOrNil(rp *mio.RunParams) *monte.RunLedger {
	if rp.LedgerPath == "" {
		return nil
	}
	ledger, err := monte.OpenRunLedger(rp.LedgerPath)
	if err != nil {
		logrus.Warnf("could not open restart ledger %s: %v", rp.LedgerPath, err)
		return nil
	}
	return ledger
}
