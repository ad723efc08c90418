package cmd

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/clexmonte/clexmonte-go/monte"
	mio "github.com/clexmonte/clexmonte-go/monte/io"
)

// metricsRegistry is the process-wide registry the cmd package's
// subcommands share; a future /metrics HTTP listener would serve this.
var metricsRegistry = prometheus.NewRegistry()

// newMetricsOrNil builds a fresh KernelMetrics, logging (not failing) on
// registration error so metrics are best-effort, never load-bearing.
func newMetricsOrNil() *monte.KernelMetrics {
	m, err := monte.NewKernelMetrics(metricsRegistry, nil)
	if err != nil {
		logrus.Warnf("could not register kernel metrics: %v", err)
		return nil
	}
	return m
}

var logLevel string

// loadCore loads the System/RunParams documents and builds the shared
// lattice/cluster-expansion machinery every calculator needs, following
// the teacher's "load config, log what was loaded, fail loud" shape in
// cmd/root.go's runCmd.
func loadCore(systemPath, runParamsPath string) (*monte.Prim, *monte.Supercell, *monte.ClusterExpansion, *mio.RunParams, error) {
	sys, err := mio.LoadSystem(systemPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	rp, err := mio.LoadRunParams(runParamsPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	prim := sys.Prim()
	if err := prim.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}
	sc, err := monte.NewSupercell(prim, rp.Transform)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	offsets := sys.NeighborOffsets()
	nl := monte.NewNeighborList(sc, offsets)
	ce := &monte.ClusterExpansion{
		NeighborList: nl,
		Evaluator:    pointClusterClexulator(len(offsets)),
		Coefficients: sys.Coefficients,
	}

	logrus.Infof("loaded system %s: %d basis sites, %d neighbor offsets",
		filepath.Base(systemPath), len(prim.Sites), len(sys.NeighborOffsets()))
	logrus.Infof("loaded run params %s", rp)

	return prim, sc, ce, rp, nil
}

// pointClusterClexulator builds the reference point-cluster basis (one
// orbit per neighborhood offset, spin function per site): the
// smallest Clexulator whose correlation count matches the coefficient
// count a System document declares, used as the CLI's built-in
// evaluator (custom-compiled Clexulators are out of scope, spec §1).
func pointClusterClexulator(numOffsets int) *monte.DenseClexulator {
	orbits := make([]monte.Orbit, numOffsets)
	for i := range orbits {
		orbits[i] = monte.Orbit{Positions: []int{i}}
	}
	return &monte.DenseClexulator{Orbits: orbits, SiteFunction: monte.BinarySpinFunction}
}

// initialOccupation returns rp's declared initial occupation, or an
// all-ground-state occupation (occupant 0 everywhere) if none was given.
func initialOccupation(sc *monte.Supercell, rp *mio.RunParams) monte.Occupation {
	if len(rp.InitialOccupation) > 0 {
		return monte.Occupation(rp.InitialOccupation)
	}
	occ := make(monte.Occupation, sc.NumSites())
	return occ
}

// conditionsList returns the fixed Conditions or the expanded sweep from
// a RunParams document, per spec §4.I.
func conditionsList(rp *mio.RunParams) ([]monte.Conditions, error) {
	if rp.Conditions != nil {
		return []monte.Conditions{rp.Conditions.ToConditions()}, nil
	}
	return rp.ConditionSweep.ToConditionsList(), nil
}

// analyzeFixture computes the derived fluctuation quantities a completed
// fixture's sampled series support (spec §4.J): heat capacity always (it
// only needs formation_energy), the composition susceptibilities and
// thermo-chemical cross terms only when the corresponding composition
// quantity was registered.
func analyzeFixture(a *monte.Analysis, s *monte.Sampler, hasParamComposition bool) *mio.AnalysisSummary {
	summary := &mio.AnalysisSummary{}
	if _, ok := s.Quantities["formation_energy"]; ok {
		summary.HeatCapacity = a.HeatCapacity(s, "formation_energy")
	}
	if _, ok := s.Quantities["mol_composition"]; ok {
		summary.MolSusceptibility = a.MolSusceptibility(s, "mol_composition")
		if _, ok := s.Quantities["formation_energy"]; ok {
			summary.MolThermoChemSusceptibility = a.MolThermoChemSusceptibility(s, "formation_energy", "mol_composition")
		}
	}
	if hasParamComposition {
		if _, ok := s.Quantities["param_composition"]; ok {
			summary.ParamSusceptibility = a.ParamSusceptibility(s, "param_composition")
			if _, ok := s.Quantities["formation_energy"]; ok {
				summary.ParamThermoChemSusceptibility = a.ParamThermoChemSusceptibility(s, "formation_energy", "param_composition")
			}
		}
	}
	return summary
}

// fatalIfConfigErr logs and exits 1 on error (spec §7: config errors are
// fatal at startup, not retried).
func fatalIfConfigErr(err error) {
	if err == nil {
		return
	}
	logrus.Errorf("%v", err)
	os.Exit(1)
}
