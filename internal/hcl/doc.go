// Package hcl provides the concrete HCL implementation of the loading and
// rendering interfaces defined in the `config` package. It is responsible for
// task file parsing, HCL-to-model translation, and rendering action templates
// into argv lists with go-cty.
package hcl
