package io

import (
	"encoding/json"
	"os"

	"github.com/clexmonte/clexmonte-go/monte"
)

// Status is the status JSON document the cmd calculators write once per
// condition, after that condition's run ends (spec §6: "status is reported
// as JSON"). encoding/json is used
// here rather than yaml.v3 because the wire contract is explicitly JSON,
// unlike the System/RunParams input documents (SPEC_FULL.md §A).
type Status struct {
	ConditionIndex int                `json:"condition_index"`
	Step           uint64             `json:"step"`
	SimTime        float64            `json:"sim_time,omitempty"`
	Done           bool               `json:"done"`
	Reason         string             `json:"reason,omitempty"`
	Means          map[string]float64 `json:"means,omitempty"`
	Stderrs        map[string]float64 `json:"stderrs,omitempty"`
	AcceptanceRatio float64           `json:"acceptance_ratio,omitempty"`
	Analysis       *AnalysisSummary   `json:"analysis,omitempty"`
}

// AnalysisSummary carries the fluctuation-formula quantities a
// monte.Analysis derives from a completed fixture's sampled series
// (spec §4.J): heat capacity and the composition susceptibility/
// thermo-chemical cross terms, whichever the run's registered
// quantities support.
type AnalysisSummary struct {
	HeatCapacity                  float64     `json:"heat_capacity,omitempty"`
	MolSusceptibility             [][]float64 `json:"mol_susceptibility,omitempty"`
	ParamSusceptibility           [][]float64 `json:"param_susceptibility,omitempty"`
	MolThermoChemSusceptibility   []float64   `json:"mol_thermochem_susceptibility,omitempty"`
	ParamThermoChemSusceptibility []float64   `json:"param_thermochem_susceptibility,omitempty"`
}

// FromResults builds a Status document from a completed fixture's results.
// analysis may be nil when the caller has no derived quantities to report.
func FromResults(conditionIndex int, step uint64, simTime float64, st monte.Status, r *monte.Results, acceptance float64, analysis *AnalysisSummary) Status {
	return Status{
		ConditionIndex:  conditionIndex,
		Step:            step,
		SimTime:         simTime,
		Done:            st.Done,
		Reason:          st.Reason,
		Means:           r.Means,
		Stderrs:         r.Stderrs,
		AcceptanceRatio: acceptance,
		Analysis:        analysis,
	}
}

// WriteStatus writes the status document to path as JSON.
func WriteStatus(path string, s Status) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return monte.ConsistencyErrorf("marshal status document: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return monte.ConsistencyErrorf("write status document %q: %v", path, err)
	}
	return nil
}
