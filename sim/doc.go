// Package sim provides the numerical core of the multi-region SEIRDS
// epidemic simulator.
//
// # Reading Guide
//
// Start with these files to understand the integration kernel:
//   - state.go: the [S, E, I, R, D, P, H] StateVector and its helpers
//   - derivative.go: the delay-aware SEIRDS equations (step-scaled deltas)
//   - integrator.go: RK4 stepping over a padded History
//
// # Architecture
//
// The sim package owns the per-region model; orchestration lives in
// sub-packages:
//   - sim/network/: multi-region runs, traffic coupling, density preprocessing
//   - sim/trace/: measure activation and coupling transfer records
//   - sim/dataset/: region topology loading
//   - sim/render/: PNG time-series charts
//   - sim/store/: SQLite persistence of finished runs
//
// # Conventions
//
// Derivative returns deltas already multiplied by the step size h. StepRK4
// combines the four samples with 1/6, 2/6, 2/6, 1/6 weights and never
// multiplies by h again.
//
// # Key Interfaces
//
//   - MeasurePolicy: a transmission reduction computed from delayed history.
//     Policies attached to a region add up; see EvaluateMeasures.
package sim
