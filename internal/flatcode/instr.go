// Package flatcode models the final flat instruction stream: a fixed
// instruction set, its machine-word encoding, and the generator that lowers
// an IR program into it while recording per-statement debug annotations.
package flatcode

import (
	"fmt"
	"strings"
)

// Opcode enumerates flat-code opcodes.
type Opcode uint8

const (
	// OpNop does nothing.
	OpNop Opcode = iota
	// OpConst loads the immediate word into Dst.
	OpConst
	// OpAdd stores A+B into Dst.
	OpAdd
	// OpSub stores A-B into Dst.
	OpSub
	// OpMul stores A*B into Dst.
	OpMul
	// OpJump jumps to Target.
	OpJump
	// OpJumpZ jumps to Target when register A is zero.
	OpJumpZ
	// OpSave pushes the return frame; emitted as the first half of a call.
	OpSave
	// OpRet pops the return frame.
	OpRet
	// OpHalt stops the machine.
	OpHalt
)

var opcodeNames = map[Opcode]string{
	OpNop:   "nop",
	OpConst: "const",
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpJump:  "jmp",
	OpJumpZ: "jz",
	OpSave:  "save",
	OpRet:   "ret",
	OpHalt:  "halt",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Instruction is one flat-code instruction. Target is an instruction
// ordinal for jump opcodes. Instructions carrying an immediate occupy two
// encoded words; all others occupy one.
type Instruction struct {
	Op     Opcode
	Dst    uint8
	A      uint8
	B      uint8
	Target uint32
	HasImm bool
	Imm    uint64
}

// Repr is the assembled structural view of an instruction, the shape that
// gets serialized next to the raw words.
type Repr struct {
	Opcode string  `json:"opcode" msgpack:"opcode"`
	Dst    uint8   `json:"dst" msgpack:"dst"`
	A      uint8   `json:"a" msgpack:"a"`
	B      uint8   `json:"b" msgpack:"b"`
	Target uint32  `json:"target" msgpack:"target"`
	Imm    *uint64 `json:"imm,omitempty" msgpack:"imm,omitempty"`
}

// Word layout: opcode in bits 0-7, dst 8-15, a 16-23, b 24-31, the
// immediate-present flag in bit 32, and the jump target in bits 33-63.
const (
	wordImmFlag     = uint64(1) << 32
	wordTargetShift = 33
)

// Assemble produces the structural view of the instruction.
func (in Instruction) Assemble() Repr {
	r := Repr{
		Opcode: in.Op.String(),
		Dst:    in.Dst,
		A:      in.A,
		B:      in.B,
		Target: in.Target,
	}
	if in.HasImm {
		imm := in.Imm
		r.Imm = &imm
	}
	return r
}

// Encode renders the instruction into its machine words: the packed
// operation word, followed by the raw immediate when one is present.
func (in Instruction) Encode() []uint64 {
	word := uint64(in.Op) |
		uint64(in.Dst)<<8 |
		uint64(in.A)<<16 |
		uint64(in.B)<<24 |
		uint64(in.Target)<<wordTargetShift
	if !in.HasImm {
		return []uint64{word}
	}
	return []uint64{word | wordImmFlag, in.Imm}
}

// WordCount reports how many encoded words the instruction occupies.
func (in Instruction) WordCount() int {
	if in.HasImm {
		return 2
	}
	return 1
}

// StatementDebug records, for one IR statement, the ordinal of the first
// flat-code instruction generated for it. Statements that emit nothing
// (labels) point at the instruction that follows them.
type StatementDebug struct {
	InstructionIdx uint64
}

// DebugInfo is the generator's own per-statement annotation list, indexed
// by IR statement ordinal.
type DebugInfo struct {
	StatementInfo []StatementDebug
}

// Program is the generated flat code together with its debug annotations.
type Program struct {
	Instructions []Instruction
	Debug        DebugInfo
}

// WordLen returns the total encoded word length of the instruction stream.
func (p *Program) WordLen() int {
	total := 0
	for _, in := range p.Instructions {
		total += in.WordCount()
	}
	return total
}

// Render produces a human-oriented listing of the instruction stream.
func (p *Program) Render() string {
	var b strings.Builder
	for i, in := range p.Instructions {
		fmt.Fprintf(&b, "%4d  %s", i, in.Op)
		switch in.Op {
		case OpConst:
			fmt.Fprintf(&b, " r%d %d", in.Dst, in.Imm)
		case OpAdd, OpSub, OpMul:
			fmt.Fprintf(&b, " r%d r%d r%d", in.Dst, in.A, in.B)
		case OpJump, OpSave:
			fmt.Fprintf(&b, " %d", in.Target)
		case OpJumpZ:
			fmt.Fprintf(&b, " r%d %d", in.A, in.Target)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
