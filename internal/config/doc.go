// Package config defines the format-agnostic task model along with the
// interfaces (Loader, Evaluator) for loading task files and rendering their
// templates against a parameter set.
//
// The `config.Model` is the single source of truth for the `executor`
// package. Concrete implementations of the interfaces, such as for HCL, are
// provided in separate packages.
package config
