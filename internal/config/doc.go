// Package config defines the format-agnostic build-matrix model: product,
// toolchains, hardware targets and build variants, plus the Loader interface
// a configuration format (HCL) implements and the semantic validation rules.
package config
