// Package testkit holds invariant checkers shared by tests across packages.
package testkit

import (
	"fmt"

	"tracelift/internal/source"
	"tracelift/internal/tracemap"
)

// CheckSpanOrder verifies start <= end in (line, col) lexicographic order
// for every span of every record. Upstream data is passed through the
// tables unchanged, so a violation here means the inputs were bad — the
// check reports it instead of silently fixing it.
func CheckSpanOrder(table *tracemap.SourceTable) error {
	for _, entry := range table.Entries() {
		for i, span := range entry.Record.Spans {
			if posLess(span.End, span.Start) {
				return fmt.Errorf("statement %d span %d: start %v after end %v",
					entry.Statement, i, span.Start, span.End)
			}
		}
	}
	return nil
}

// CheckDenseTable verifies the table has exactly n records with statement
// indices 0..n-1 in order.
func CheckDenseTable(table *tracemap.SourceTable, n int) error {
	if table.Len() != n {
		return fmt.Errorf("table has %d records, want %d", table.Len(), n)
	}
	for i, entry := range table.Entries() {
		if entry.Statement != uint64(i) { // #nosec G115 -- i ranges over a slice
			return fmt.Errorf("entry %d has statement index %d", i, entry.Statement)
		}
	}
	return nil
}

// CheckFirstWordStructural verifies that for every instruction ordinal in
// the word list, exactly one word carries the structural view and it is the
// first word of that instruction.
func CheckFirstWordStructural(words []tracemap.EncodedWord) error {
	seen := make(map[uint64]bool)
	for i, w := range words {
		first := !seen[w.InstructionIndex]
		seen[w.InstructionIndex] = true
		if first && w.Structural == nil {
			return fmt.Errorf("word %d: first word of instruction %d has no structural view",
				i, w.InstructionIndex)
		}
		if !first && w.Structural != nil {
			return fmt.Errorf("word %d: continuation word of instruction %d has a structural view",
				i, w.InstructionIndex)
		}
	}
	return nil
}

func posLess(a, b source.Pos) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}
