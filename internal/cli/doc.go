// Package cli reads the glyphgrid command line into an app.Config and maps
// invalid invocations to an ExitError with a process exit code.
package cli
