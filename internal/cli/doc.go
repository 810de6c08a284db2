// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's internal configuration.
//
// Exit codes: 0 when everything is up to date or was compiled, 1 when a
// file could not be deleted or compiled or a directory could not be read,
// 2 for usage errors.
package cli
