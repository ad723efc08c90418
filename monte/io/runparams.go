package io

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clexmonte/clexmonte-go/monte"
)

// RunParams is the per-run input document (spec §6): ensemble selection,
// the supercell transformation, conditions (or a condition sweep),
// sampling schedule, and completion-check parameters.
type RunParams struct {
	Ensemble string `yaml:"ensemble"` // "canonical", "semi_grand", "kinetic"

	Transform [3][3]int64 `yaml:"transformation_matrix"`

	InitialOccupation []int `yaml:"initial_occupation,omitempty"`

	Conditions     *ConditionsSpec  `yaml:"conditions,omitempty"`
	ConditionSweep *SweepSpec       `yaml:"condition_sweep,omitempty"`

	Sampling   SamplingSpec   `yaml:"sampling"`
	Completion CompletionSpec `yaml:"completion"`

	GlobalCutoff    bool `yaml:"global_cutoff"`
	ContinueOnError bool `yaml:"continue_on_error"`
	PathFollowing   bool `yaml:"path_following"`

	ResultsDir string `yaml:"results_dir,omitempty"`
	LedgerPath string `yaml:"ledger_path,omitempty"`

	Seed int64 `yaml:"seed"`

	KRAFormationEnergyCorrection bool `yaml:"kra_formation_energy_correction,omitempty"`
	ResyncEvery                  int  `yaml:"resync_every,omitempty"`
}

// ConditionsSpec is one Conditions value in document form.
type ConditionsSpec struct {
	Temperature      float64   `yaml:"temperature"`
	MolComposition   []float64 `yaml:"mol_composition,omitempty"`
	ParamComposition []float64 `yaml:"param_composition,omitempty"`
	ParamChemPot     []float64 `yaml:"param_chem_pot,omitempty"`
}

// ToConditions converts the document form to a monte.Conditions.
func (c *ConditionsSpec) ToConditions() monte.Conditions {
	return monte.Conditions{
		Temperature:      c.Temperature,
		MolComposition:   c.MolComposition,
		ParamComposition: c.ParamComposition,
		ParamChemPot:     c.ParamChemPot,
	}
}

// SweepSpec linearly interpolates between two ConditionsSpec values over
// N points (spec §4.I).
type SweepSpec struct {
	Start ConditionsSpec `yaml:"start"`
	End   ConditionsSpec `yaml:"end"`
	N     int            `yaml:"n"`
}

// ToConditionsList expands the sweep into N monte.Conditions values.
func (s *SweepSpec) ToConditionsList() []monte.Conditions {
	start := s.Start.ToConditions()
	end := s.End.ToConditions()
	return monte.LinearConditionSweep(start, end, s.N)
}

// SamplingSpec configures a SamplingFixture's schedule.
type SamplingSpec struct {
	Mode     string `yaml:"mode"` // "by_pass", "by_step", "by_time"
	Period   uint64 `yaml:"period,omitempty"`
	MaxCount uint64 `yaml:"max_count,omitempty"`
	LogBase  float64 `yaml:"log_base,omitempty"`
}

// ToSchedule builds a monte.Schedule from the document.
func (s *SamplingSpec) ToSchedule() (monte.Schedule, error) {
	mode, err := parseSamplingMode(s.Mode)
	if err != nil {
		return monte.Schedule{}, err
	}
	if s.LogBase > 1 {
		return monte.LogSchedule(mode, s.LogBase, s.MaxCount), nil
	}
	period := s.Period
	if period == 0 {
		period = 1
	}
	return monte.LinearSchedule(mode, period, s.MaxCount), nil
}

func parseSamplingMode(s string) (monte.SamplingMode, error) {
	switch s {
	case "", "by_pass":
		return monte.ByPass, nil
	case "by_step":
		return monte.ByStep, nil
	case "by_time":
		return monte.ByTime, nil
	default:
		return 0, monte.ConfigErrorf("", "sampling.mode", "unknown sampling mode %q", s)
	}
}

// CompletionSpec configures a CompletionCheck.
type CompletionSpec struct {
	MinCount uint64               `yaml:"min_count,omitempty"`
	MaxCount uint64               `yaml:"max_count,omitempty"`
	MinTime  float64              `yaml:"min_time,omitempty"`
	MaxTime  float64              `yaml:"max_time,omitempty"`
	Criteria []CriterionSpec      `yaml:"criteria,omitempty"`
}

// CriterionSpec is one convergence criterion.
type CriterionSpec struct {
	Quantity          string  `yaml:"quantity"`
	AbsolutePrecision float64 `yaml:"absolute_precision,omitempty"`
	RelativePrecision float64 `yaml:"relative_precision,omitempty"`
}

// ToCompletionCheck builds a monte.CompletionCheck from the document.
func (c *CompletionSpec) ToCompletionCheck() *monte.CompletionCheck {
	criteria := make([]monte.ConvergenceCriterion, len(c.Criteria))
	for i, crit := range c.Criteria {
		criteria[i] = monte.ConvergenceCriterion{
			Quantity:          crit.Quantity,
			AbsolutePrecision: crit.AbsolutePrecision,
			RelativePrecision: crit.RelativePrecision,
		}
	}
	return &monte.CompletionCheck{Params: monte.CompletionCheckParams{
		MinCount: c.MinCount,
		MaxCount: c.MaxCount,
		MinTime:  c.MinTime,
		MaxTime:  c.MaxTime,
		Criteria: criteria,
	}}
}

// LoadRunParams reads and decodes a RunParams document.
func LoadRunParams(path string) (*RunParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, monte.ConfigErrorf(path, "", "reading run params document: %v", err)
	}
	var rp RunParams
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rp); err != nil {
		return nil, monte.ConfigErrorf(path, "", "parsing run params document: %v", err)
	}
	if err := rp.Validate(path); err != nil {
		return nil, err
	}
	return &rp, nil
}

// Validate checks the document's internal consistency.
func (rp *RunParams) Validate(path string) error {
	switch rp.Ensemble {
	case "canonical", "semi_grand", "kinetic":
	default:
		return monte.ConfigErrorf(path, "ensemble", "unknown ensemble %q", rp.Ensemble)
	}
	if rp.Conditions == nil && rp.ConditionSweep == nil {
		return monte.ConfigErrorf(path, "conditions", "run params must declare either conditions or condition_sweep")
	}
	if rp.Conditions != nil && rp.ConditionSweep != nil {
		return monte.ConfigErrorf(path, "conditions", "run params may not declare both conditions and condition_sweep")
	}
	if rp.ConditionSweep != nil && rp.ConditionSweep.N < 1 {
		return monte.ConfigErrorf(path, "condition_sweep.n", "condition_sweep.n must be positive, got %d", rp.ConditionSweep.N)
	}
	return nil
}

// String summarizes the document for log lines.
func (rp *RunParams) String() string {
	return fmt.Sprintf("RunParams{ensemble=%s, global_cutoff=%v}", rp.Ensemble, rp.GlobalCutoff)
}
