// Package app contains the core application logic. It merges the command
// line configuration with the project settings file, prepares the compiler
// and reporter, and runs one synchronization, decoupled from any specific
// entrypoint like a CLI.
package app
