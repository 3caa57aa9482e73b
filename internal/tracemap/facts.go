package tracemap

import "tracelift/internal/ir"

// StatementFacts are the sparse per-statement facts extracted from the
// front end's debug info before the dense table is built.
type StatementFacts struct {
	// Functions maps statement index to enclosing function display name.
	Functions map[uint64]string
	// Locations maps statement index to its diagnostic locations, in the
	// exact order the diagnostics subsystem reported them. Duplicates stay.
	Locations map[uint64][]ir.DiagLocation
}

// CollectStatementFacts folds the front end's ordered location entries into
// per-statement lists. The fold is ensure-then-append: a missing key gets an
// empty list first, then the location is appended, so repeated entries for
// one statement accumulate in reporting order and are never overwritten.
func CollectStatementFacts(dbg *ir.DebugInfo) StatementFacts {
	facts := StatementFacts{
		Functions: make(map[uint64]string),
		Locations: make(map[uint64][]ir.DiagLocation),
	}
	if dbg == nil {
		return facts
	}
	for idx, name := range dbg.StatementFunctions {
		facts.Functions[idx] = name
	}
	for _, entry := range dbg.StatementLocations {
		if _, ok := facts.Locations[entry.Statement]; !ok {
			facts.Locations[entry.Statement] = nil
		}
		facts.Locations[entry.Statement] = append(facts.Locations[entry.Statement], entry.Location)
	}
	return facts
}
