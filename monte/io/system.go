// Package io holds the input-document (System, RunParams) and output
// (status.json) schemas that wire a CE-MC run together, grounded on the
// teacher's sim/workload/spec.go "decode with KnownFields(true), then
// Validate" pattern. Reading guide: system.go (lattice/CE definition) →
// runparams.go (conditions/sampling/completion knobs) → status.go
// (progress reporting).
package io

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clexmonte/clexmonte-go/monte"
	"github.com/clexmonte/clexmonte-go/monte/kmc"
)

// System is the top-level lattice + cluster-expansion input document
// (spec §6): the prim, the neighbor-list offsets the clexulator expects,
// its coefficients, and optional composition axes and KMC event templates.
// The supercell transformation is not part of it; RunParams carries it.
type System struct {
	Lattice [3][3]float64 `yaml:"lattice"`
	Sites   []SiteSpec    `yaml:"sites"`

	NeighborhoodOffsets []OffsetSpec `yaml:"neighborhood_offsets"`
	Coefficients        []float64    `yaml:"coefficients"`

	CompositionAxes *CompositionAxesSpec `yaml:"composition_axes,omitempty"`

	Events []EventSpec `yaml:"events,omitempty"` // kinetic ensemble only
}

// EventSpec is one kinetic-Monte-Carlo event template (spec §4.G).
type EventSpec struct {
	Label               string       `yaml:"label"`
	NeighborhoodOffsets []OffsetSpec `yaml:"neighborhood_offsets"`
	Hops                []HopSpec    `yaml:"hops"`
	KRAEnergy           float64      `yaml:"kra_energy"`
	AttemptFrequency    float64      `yaml:"attempt_frequency"`
}

// HopSpec names two neighborhood-relative positions (indices into the
// event's own NeighborhoodOffsets) that exchange occupants.
type HopSpec struct {
	FromOffset    int      `yaml:"from_offset"`
	ToOffset      int      `yaml:"to_offset"`
	DeltaUnitCell [3]int64 `yaml:"delta_unit_cell"`
}

// SiteSpec is one basis site of the prim.
type SiteSpec struct {
	Coordinate       [3]float64 `yaml:"coordinate"`
	AllowedOccupants []string   `yaml:"allowed_occupants"`
	AsymUnit         int        `yaml:"asym_unit"`
	ComponentIndices []int      `yaml:"component_indices,omitempty"`
}

// OffsetSpec is one (basis, translation) neighbor-list entry.
type OffsetSpec struct {
	Basis       int      `yaml:"basis"`
	Translation [3]int64 `yaml:"translation"`
}

// CompositionAxesSpec is the affine mol<->param composition map.
type CompositionAxesSpec struct {
	Origin     []float64   `yaml:"origin"`
	EndMembers [][]float64 `yaml:"end_members"`
}

// LoadSystem reads and decodes a System document, rejecting unknown
// fields (typo protection, per the teacher's decoder convention).
func LoadSystem(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, monte.ConfigErrorf(path, "", "reading system document: %v", err)
	}
	var sys System
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sys); err != nil {
		return nil, monte.ConfigErrorf(path, "", "parsing system document: %v", err)
	}
	if err := sys.Validate(path); err != nil {
		return nil, err
	}
	return &sys, nil
}

// Validate checks the document is internally consistent before
// constructing any monte types from it.
func (s *System) Validate(path string) error {
	if len(s.Sites) == 0 {
		return monte.ConfigErrorf(path, "sites", "system document declares no sites")
	}
	if len(s.NeighborhoodOffsets) == 0 {
		return monte.ConfigErrorf(path, "neighborhood_offsets", "system document declares no neighborhood offsets")
	}
	if len(s.Coefficients) == 0 {
		return monte.ConfigErrorf(path, "coefficients", "system document declares no cluster-expansion coefficients")
	}
	if len(s.Coefficients) != len(s.NeighborhoodOffsets) {
		return monte.ConfigErrorf(path, "coefficients", "coefficients length %d must match neighborhood_offsets length %d (one point-cluster orbit per offset)",
			len(s.Coefficients), len(s.NeighborhoodOffsets))
	}
	for i, site := range s.Sites {
		if len(site.AllowedOccupants) == 0 {
			return monte.ConfigErrorf(path, fmt.Sprintf("sites[%d]", i), "site declares no allowed occupants")
		}
	}
	return nil
}

// Prim builds a monte.Prim from the document.
func (s *System) Prim() *monte.Prim {
	sites := make([]monte.PrimSite, len(s.Sites))
	for i, sp := range s.Sites {
		sites[i] = monte.PrimSite{
			Coordinate:       sp.Coordinate,
			AllowedOccupants: sp.AllowedOccupants,
			AsymUnit:         sp.AsymUnit,
			ComponentIndices: sp.ComponentIndices,
		}
	}
	return &monte.Prim{Lattice: s.Lattice, Sites: sites}
}

// NeighborOffsets builds the monte.NeighborOffset slice from the document.
func (s *System) NeighborOffsets() []monte.NeighborOffset {
	out := make([]monte.NeighborOffset, len(s.NeighborhoodOffsets))
	for i, o := range s.NeighborhoodOffsets {
		out[i] = monte.NeighborOffset{Basis: o.Basis, Translation: o.Translation}
	}
	return out
}

// CompositionAxesOrNil builds a monte.CompositionAxes from the document, or nil
// if the document did not declare one.
func (s *System) CompositionAxesOrNil() *monte.CompositionAxes {
	if s.CompositionAxes == nil {
		return nil
	}
	return &monte.CompositionAxes{
		Origin:     s.CompositionAxes.Origin,
		EndMembers: s.CompositionAxes.EndMembers,
	}
}

// PrimEvents builds the kmc.PrimEvent templates declared in the document.
func (s *System) PrimEvents() []kmc.PrimEvent {
	out := make([]kmc.PrimEvent, len(s.Events))
	for i, ev := range s.Events {
		offsets := make([]monte.NeighborOffset, len(ev.NeighborhoodOffsets))
		for j, o := range ev.NeighborhoodOffsets {
			offsets[j] = monte.NeighborOffset{Basis: o.Basis, Translation: o.Translation}
		}
		hops := make([]kmc.HopTemplate, len(ev.Hops))
		for j, h := range ev.Hops {
			hops[j] = kmc.HopTemplate{FromOffset: h.FromOffset, ToOffset: h.ToOffset, DeltaUnitCell: h.DeltaUnitCell}
		}
		out[i] = kmc.PrimEvent{
			Label:               ev.Label,
			NeighborhoodOffsets: offsets,
			Hops:                hops,
			KRAEnergy:           ev.KRAEnergy,
			AttemptFrequency:    ev.AttemptFrequency,
		}
	}
	return out
}
