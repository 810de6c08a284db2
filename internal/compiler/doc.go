// Package compiler runs the external GLSL to SPIR-V compiler. It owns binary
// resolution (a fixed installation path or a lookup on PATH), the command
// line passed to the compiler, optional per-file timeouts, atomic artifact
// replacement, and the translation of a failed run into an *Error carrying
// the compiler's diagnostic text.
package compiler
