package fit

import "fmt"

// Schema keys accepted by the solver-settings mapping.
const (
	// SettingTolerance is the solver convergence accuracy (float).
	SettingTolerance = "tolerance"

	// SettingPerturbationEpsilon is the finite-difference step (float).
	SettingPerturbationEpsilon = "perturbation-epsilon"

	// SettingVerbose toggles per-iteration solver logging (bool).
	SettingVerbose = "verbose"

	// SettingMaxIterations caps the solver iterations (int).
	SettingMaxIterations = "max-iterations"
)

// SolverSettings is the typed option set handed to the minimizer.
type SolverSettings struct {
	// Tolerance is the solver convergence accuracy.
	Tolerance float64

	// PerturbationEpsilon is the finite-difference gradient step.
	PerturbationEpsilon float64

	// Verbose enables per-iteration solver logging.
	Verbose bool

	// MaxIterations caps the solver iterations.
	MaxIterations int
}

// DefaultSolverSettings mirrors the historical SLSQP defaults: a tight
// 1e-12 tolerance, sqrt-machine-epsilon perturbation, quiet, and an
// iteration budget of 1000.
func DefaultSolverSettings() SolverSettings {
	return SolverSettings{
		Tolerance:           1e-12,
		PerturbationEpsilon: 1.4901161193847656e-08,
		Verbose:             false,
		MaxIterations:       1000,
	}
}

// ApplyMap validates the supplied mapping against the fixed schema and
// overlays it onto the receiver's current values. It is a pure function
// of the mapping plus the receiver and runs before any solver
// invocation.
//
// Errors:
//   - ErrUnknownSetting — a key outside the schema.
//   - ErrSettingType    — a schema key with a wrong-typed value (floats
//     must be float64, max-iterations must be int, verbose must be bool).
func (s *SolverSettings) ApplyMap(m map[string]any) error {
	for key, value := range m {
		switch key {
		case SettingTolerance:
			v, ok := value.(float64)
			if !ok {
				return fmt.Errorf("%q wants float, got %T: %w", key, value, ErrSettingType)
			}
			s.Tolerance = v

		case SettingPerturbationEpsilon:
			v, ok := value.(float64)
			if !ok {
				return fmt.Errorf("%q wants float, got %T: %w", key, value, ErrSettingType)
			}
			s.PerturbationEpsilon = v

		case SettingVerbose:
			v, ok := value.(bool)
			if !ok {
				return fmt.Errorf("%q wants bool, got %T: %w", key, value, ErrSettingType)
			}
			s.Verbose = v

		case SettingMaxIterations:
			v, ok := value.(int)
			if !ok {
				return fmt.Errorf("%q wants int, got %T: %w", key, value, ErrSettingType)
			}
			s.MaxIterations = v

		default:
			return fmt.Errorf("%q: %w", key, ErrUnknownSetting)
		}
	}

	return nil
}

// ValidateSolverSettings checks a mapping against the schema without
// applying it anywhere.
func ValidateSolverSettings(m map[string]any) error {
	s := DefaultSolverSettings()

	return s.ApplyMap(m)
}
