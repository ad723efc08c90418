package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clexmonte/clexmonte-go/monte"
	mio "github.com/clexmonte/clexmonte-go/monte/io"
	"github.com/clexmonte/clexmonte-go/monte/kmc"
)

var kineticCmd = &cobra.Command{
	Use:   "kinetic <system.yaml> <run_params.yaml>",
	Short: "Run a rejection-free kinetic Monte Carlo calculation",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runKinetic(args[0], args[1])
	},
}

func runKinetic(systemPath, runParamsPath string) {
	prim, sc, ce, rp, err := loadCore(systemPath, runParamsPath)
	fatalIfConfigErr(err)

	sys, err := mio.LoadSystem(systemPath)
	fatalIfConfigErr(err)
	templates := sys.PrimEvents()
	if len(templates) == 0 {
		fatalIfConfigErr(monte.ConfigErrorf(systemPath, "events", "kinetic ensemble requires at least one event template"))
	}

	conditions, err := conditionsList(rp)
	fatalIfConfigErr(err)

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
		loc := monte.NewOccLocation(prim, sc, true) // atom tracking on, for MSD sampling
		if err := loc.Initialize(state.Occupation); err != nil {
			return &monte.RunResult{FinalState: state, Err: err}
		}

		rateParams := kmc.RateParams{
			Beta:                         state.Conditions.Beta(),
			UseFormationEnergyCorrection: rp.KRAFormationEnergyCorrection,
		}
		rateFn := func(ev *kmc.ConcreteEvent) float64 {
			sites, newOcc := ev.CurrentSitesAndOcc(state.Occupation)
			deltaE := ce.OccDeltaValue(state.Occupation, sites, newOcc)
			return kmc.Rate(ev.Template, deltaE, rateParams)
		}
		list := kmc.BuildEventList(sc, templates, rateFn)
		list.ResyncEvery = rp.ResyncEvery

		kernel := kmc.NewKernel(state, loc, list, rng.ForSubsystem(monte.SubsystemKMC), true)

		schedule := mustSchedule(rp)
		fixture := monte.NewSamplingFixture(fmt.Sprintf("run_%03d", idx), schedule, rp.Completion.ToCompletionCheck())
		registerDefaultQuantities(fixture.Sampler, prim, sc, ce)
		numSpecies := len(prim.Sites[0].AllowedOccupants)
		fixture.Sampler.Register("mean_sq_disp", kmc.SamplingFunction(prim, kernel, numSpecies, loc.SpeciesOf))

		var stepErr error
		for {
			if stepErr = kernel.Step(); stepErr != nil {
				break
			}
			st := fixture.Advance(state, map[string]float64{"total_rate": list.TotalRate()}, kernel.Count, kernel.SimTime, 1.0)
			if st.Done {
				break
			}
		}

		res := &monte.RunResult{FinalState: state, Fixtures: map[string]*monte.Results{fixture.Label: monte.NewResults(fixture.Sampler)}}
		if stepErr != nil {
			res.Err = stepErr
		} else {
			res.Status = monte.Status{Done: true, Reason: "complete"}
		}

		if rp.ResultsDir != "" {
			analysis := analyzeFixture(&monte.Analysis{Conditions: state.Conditions, Volume: int(sc.Volume())}, fixture.Sampler, false)
			status := mio.FromResults(idx, kernel.Count, kernel.SimTime, res.Status, res.Fixtures[fixture.Label], 0, analysis)
			path := filepath.Join(rp.ResultsDir, fmt.Sprintf("status_%03d.json", idx))
			if werr := mio.WriteStatus(path, status); werr != nil {
				logrus.Warnf("writing status document: %v", werr)
			}
		}
		return res
	})

	logrus.Infof("kinetic run series complete: %d runs", len(results))
}
