// Package settings is a process-wide mapping from setting name to
// arbitrary value, kept for compatibility with steering-script style
// configuration.
//
// The fit itself never reads this store: every fit component takes
// explicit configuration at construction (fit.SolverSettings,
// fit.Option), which removes the hidden cross-call coupling a global
// registry creates. Use the store only to stash values for your own
// bookkeeping across analysis steps.
//
// Contract:
//   - Get fails with ErrNotFound if the key was never set.
//   - Set overwrites silently but logs a warning through the process-wide
//     zap logger when the key already existed.
//   - Lifetime is the process lifetime; there is no teardown.
//
// The store serializes its own access, so concurrent fits may touch it
// safely.
package settings
