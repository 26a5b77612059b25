// Package app contains the core application logic. It loads the build
// matrix, registers the participating subsystems, composes the requested
// phase and executes it, decoupled from any specific entrypoint like a CLI.
package app
