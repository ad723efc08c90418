package monte

import (
	"hash/fnv"
	"math/rand"
)

// Subsystem names for per-concern RNG isolation.
const (
	SubsystemProposal       = "proposal"        // swap/occupant-change proposals
	SubsystemKMC            = "kmc"             // event selection and dwell time
	SubsystemOccupantTrack  = "occupant_tracker" // OccLocation uniform sampling
	SubsystemStateGenerator = "state_generator"  // initial-configuration randomization
)

// SimulationKey uniquely identifies a reproducible run. Two runs with the
// same SimulationKey and identical System/RunParams MUST produce bit-for-bit
// identical results (spec §5: "seeding the RNG is sufficient to reproduce
// the run").
type SimulationKey int64

// RNG is the narrow capability the kernel depends on (spec §9: "the core
// interface is a narrow RNG capability... no compile-time polymorphism
// required; a tagged handle is sufficient").
type RNG interface {
	NextU64() uint64
	NextFloat64() float64 // uniform on [0, 1)
}

// engineRNG wraps math/rand.Rand to satisfy RNG. math/rand is the teacher's
// own engine choice (inference-sim/sim/rng.go); spec §9 asks only for a
// narrow capability, not a specific engine, so the stdlib PRNG is the
// correct default with no loss of generality.
type engineRNG struct{ r *rand.Rand }

func (e engineRNG) NextU64() uint64      { return e.r.Uint64() }
func (e engineRNG) NextFloat64() float64 { return e.r.Float64() }

// PartitionedRNG provides deterministic, isolated RNG streams per
// subsystem, derived from one master SimulationKey. Grounded on
// inference-sim/sim/rng.go's PartitionedRNG: not thread-safe, must be
// driven from a single goroutine per run (spec §5's single-threaded
// cooperative model).
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) RNG {
	if rng, ok := p.subsystems[name]; ok {
		return engineRNG{rng}
	}
	seed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return engineRNG{rng}
}

// Key returns the SimulationKey this PartitionedRNG was constructed from.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
