// Package hcl loads build-matrix definitions written in HCL and translates
// them into the format-agnostic config model. It is the only package that
// knows the matrix wire format.
package hcl
