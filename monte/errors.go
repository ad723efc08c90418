// Package monte implements the cluster-expansion Monte Carlo simulation
// core: lattice indexing, cluster-expansion evaluation, occupant tracking,
// thermodynamic potentials, the Metropolis kernel, sampling and completion
// checking, run management, and results analysis.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - state.go: State (Supercell ⊕ Occupation ⊕ Conditions), the mutable core
//   - clexulator.go: the cluster-expansion evaluator contract
//   - metropolis.go: the canonical/semi-grand kernel loop
//
// Rejection-free kinetic Monte Carlo lives in the monte/kmc sub-package;
// structured input/output document types live in monte/io.
package monte

import "fmt"

// ErrorKind classifies a failure per the error-handling design (spec §7).
type ErrorKind int

const (
	// KindConfig marks malformed input: unknown key, missing required
	// field, conflicting increments. Aborts before any run starts.
	KindConfig ErrorKind = iota
	// KindConsistency marks a prim/supercell mismatch, wrong occupation
	// length, a basis-set neighborhood out of range, an unknown expansion
	// name, or required conditions absent at run() time. Aborts the
	// current run; a RunManager sweep proceeds to the next condition only
	// if ContinueOnError is set.
	KindConsistency
	// KindNumeric marks a non-finite energy, a negative rate, or a NaN in
	// samples. Never silently ignored.
	KindNumeric
	// KindCancelled marks cooperative cancellation observed at a sample
	// boundary. Not an error for the sweep.
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindConsistency:
		return "consistency"
	case KindNumeric:
		return "numeric"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across the core's boundaries.
// Path identifies the offending input location (e.g. "run_params.sampling_fixtures[0].sampling_params")
// for KindConfig errors; it is empty when not applicable.
type Error struct {
	Kind ErrorKind
	Path string
	Rule string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Path, e.Rule, e.Err)
	}
	if e.Rule != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Rule, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsCancelled reports whether err is (or wraps) a KindCancelled error.
func IsCancelled(err error) bool {
	var me *Error
	return asError(err, &me) && me.Kind == KindCancelled
}

func asError(err error, target **Error) bool {
	for err != nil {
		if me, ok := err.(*Error); ok {
			*target = me
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// ConfigErrorf builds a KindConfig error with a path and the rule that
// triggered it.
func ConfigErrorf(path, rule string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfig, Path: path, Rule: rule, Err: fmt.Errorf(format, args...)}
}

// ConsistencyErrorf builds a KindConsistency error.
func ConsistencyErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConsistency, Err: fmt.Errorf(format, args...)}
}

// NumericErrorf builds a KindNumeric error.
func NumericErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNumeric, Err: fmt.Errorf(format, args...)}
}

// Cancelled is the sentinel error observed at a sampling-fixture boundary
// when the cooperative cancellation flag is set.
var Cancelled = &Error{Kind: KindCancelled, Err: fmt.Errorf("run cancelled")}
