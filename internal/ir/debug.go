package ir

import "tracelift/internal/source"

// DiagLocation is a front-end-reported association between a statement and
// a byte-range span in some source file (real or virtual).
type DiagLocation struct {
	File source.FileID
	Span source.Span
}

// StatementLocation attributes one diagnostic location to one statement.
// The front end may report several locations for the same statement
// (inlining, macro expansion); each arrives as its own entry.
type StatementLocation struct {
	Statement uint64
	Location  DiagLocation
}

// DebugInfo carries the diagnostics products the front end attaches to a
// compiled IR unit.
//
// StatementLocations preserves the exact order the diagnostics subsystem
// reported; duplicates are legitimate and must not be removed.
// StatementFunctions is sparse: statements outside any function body have
// no entry.
type DebugInfo struct {
	StatementFunctions map[uint64]string
	StatementLocations []StatementLocation
}
