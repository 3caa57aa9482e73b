package tracemap

import (
	"fmt"

	"tracelift/internal/flatcode"
)

// EncodedWord is one machine word of the final instruction stream, tagged
// with the instruction it belongs to. Only the first word of an instruction
// carries the structural view; the decode for a continuation word is
// reachable through the first word of the same instruction_index.
type EncodedWord struct {
	Memory           string         `json:"memory" msgpack:"memory"`
	InstructionIndex uint64         `json:"instruction_index" msgpack:"instruction_index"`
	Structural       *flatcode.Repr `json:"structural_view,omitempty" msgpack:"structural_view,omitempty"`
}

// EncodeWords flattens the instruction list into its ordered word stream.
// Instruction count and order are untouched; an instruction with an
// immediate simply contributes two entries instead of one.
func EncodeWords(instructions []flatcode.Instruction) []EncodedWord {
	words := make([]EncodedWord, 0, len(instructions))
	for idx, in := range instructions {
		first := true
		for _, w := range in.Encode() {
			ew := EncodedWord{
				Memory:           fmt.Sprintf("0x%x", w),
				InstructionIndex: uint64(idx), // #nosec G115 -- idx ranges over a slice
			}
			if first {
				repr := in.Assemble()
				ew.Structural = &repr
				first = false
			}
			words = append(words, ew)
		}
	}
	return words
}
