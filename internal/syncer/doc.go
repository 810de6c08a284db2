// Package syncer keeps a directory of SPIR-V artifacts in step with a
// directory of GLSL sources.
//
// A run is strictly linear:
//
//	Scan -> Classify -> Clean -> CompileNew -> Recompile -> Report
//
// Scan lists both directories. Classify splits the names into orphaned
// artifacts, sources without an artifact, and sources whose artifact exists,
// the last group being filtered down to those whose source is strictly newer
// than the artifact. Clean deletes orphans, collecting failures instead of
// stopping. The compile phases run the compiler once per file, in name
// order, counting failures. Report hands the Summary to the Reporter.
//
// Nothing is remembered between runs; every decision is made from the
// directory listings and modification times.
package syncer
