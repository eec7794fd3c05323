// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load the
// configuration, compile every symbol, scan every target and report, all
// decoupled from any specific entrypoint like a CLI.
package app
