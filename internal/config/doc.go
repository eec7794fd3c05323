// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from various
// sources.
//
// The `config.Model` is the single source of truth for the `app` package:
// which symbols to compile, which targets to scan and how. Concrete loaders,
// such as the HCL one, live in separate packages and resolve file paths
// before handing the model over.
package config
