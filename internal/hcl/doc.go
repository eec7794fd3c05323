// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, decoding the
// settings, symbol and target blocks, and translating color expressions into
// picture colors.
package hcl
