package tracemap

import "tracelift/internal/flatcode"

// InstructionTable maps a flat-code instruction ordinal to the IR statement
// indices that produced it. The forward direction only: one instruction may
// own several statements (labels folded into the next real instruction) and
// one statement may own several instructions.
type InstructionTable struct {
	order      []uint64
	statements map[uint64][]uint64
}

// InstructionTableEntry is one (instruction ordinal, statement list) pair
// in wire form.
type InstructionTableEntry struct {
	Instruction uint64   `json:"instruction_index" msgpack:"instruction_index"`
	Statements  []uint64 `json:"statements" msgpack:"statements"`
}

// BuildInstructionTable inverts the generator's per-statement annotations.
// The annotation list is walked in its given order, and each statement
// index is appended to the list keyed by its owning instruction: ensure the
// key exists, then append, never overwrite. Per-instruction statement lists
// therefore preserve the annotation list's relative order.
func BuildInstructionTable(dbg flatcode.DebugInfo) *InstructionTable {
	table := &InstructionTable{
		statements: make(map[uint64][]uint64),
	}
	for statement, info := range dbg.StatementInfo {
		instruction := info.InstructionIdx
		if _, ok := table.statements[instruction]; !ok {
			table.statements[instruction] = nil
			table.order = append(table.order, instruction)
		}
		table.statements[instruction] = append(table.statements[instruction], uint64(statement)) // #nosec G115 -- statement ranges over a slice
	}
	return table
}

// Lookup returns the statement indices owned by an instruction ordinal.
func (t *InstructionTable) Lookup(instruction uint64) ([]uint64, bool) {
	statements, ok := t.statements[instruction]
	return statements, ok
}

// Len returns the number of distinct instruction ordinals in the table.
func (t *InstructionTable) Len() int {
	return len(t.order)
}

// Entries renders the table as an ordered list of pairs, in first-seen
// annotation order, for serialization.
func (t *InstructionTable) Entries() []InstructionTableEntry {
	entries := make([]InstructionTableEntry, 0, len(t.order))
	for _, instruction := range t.order {
		entries = append(entries, InstructionTableEntry{
			Instruction: instruction,
			Statements:  t.statements[instruction],
		})
	}
	return entries
}
