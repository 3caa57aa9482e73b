package flatcode

import (
	"errors"
	"testing"

	"tracelift/internal/ir"
)

func TestGenerateLabelFoldsIntoNextInstruction(t *testing.T) {
	prog := &ir.Program{Statements: []ir.Statement{
		{Kind: ir.StmtLabel, Target: "main"}, // statement 0, no instruction
		{Kind: ir.StmtConst, Dst: 0, Imm: 7}, // statement 1 -> instruction 0
		{Kind: ir.StmtHalt},                  // statement 2 -> instruction 1
	}}
	flat, err := Generate(prog, Config{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(flat.Instructions) != 2 {
		t.Fatalf("Expected 2 instructions, got %d", len(flat.Instructions))
	}
	if len(flat.Debug.StatementInfo) != 3 {
		t.Fatalf("Expected 3 debug entries, got %d", len(flat.Debug.StatementInfo))
	}

	// Label and const share instruction 0; halt owns instruction 1.
	want := []uint64{0, 0, 1}
	for i, w := range want {
		if flat.Debug.StatementInfo[i].InstructionIdx != w {
			t.Errorf("statement %d: expected instruction %d, got %d",
				i, w, flat.Debug.StatementInfo[i].InstructionIdx)
		}
	}
}

func TestGenerateCallExpandsToTwoInstructions(t *testing.T) {
	prog := &ir.Program{Statements: []ir.Statement{
		{Kind: ir.StmtCall, Target: "fn"}, // statement 0 -> instructions 0,1
		{Kind: ir.StmtHalt},               // statement 1 -> instruction 2
		{Kind: ir.StmtLabel, Target: "fn"},
		{Kind: ir.StmtRet},
	}}
	flat, err := Generate(prog, Config{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(flat.Instructions) != 4 {
		t.Fatalf("Expected 4 instructions, got %d", len(flat.Instructions))
	}
	if flat.Instructions[0].Op != OpSave || flat.Instructions[1].Op != OpJump {
		t.Errorf("Expected save+jmp pair, got %s %s", flat.Instructions[0].Op, flat.Instructions[1].Op)
	}
	if flat.Instructions[0].Target != 2 {
		t.Errorf("Expected save to record resume ordinal 2, got %d", flat.Instructions[0].Target)
	}
	if flat.Instructions[1].Target != 3 {
		t.Errorf("Expected jmp target 3 (ret), got %d", flat.Instructions[1].Target)
	}
	if flat.Debug.StatementInfo[0].InstructionIdx != 0 {
		t.Errorf("Expected call statement to own instruction 0, got %d",
			flat.Debug.StatementInfo[0].InstructionIdx)
	}
	if flat.Debug.StatementInfo[1].InstructionIdx != 2 {
		t.Errorf("Expected halt statement to own instruction 2, got %d",
			flat.Debug.StatementInfo[1].InstructionIdx)
	}
}

func TestGenerateJumpTargetsResolveAcrossLabels(t *testing.T) {
	prog := &ir.Program{Statements: []ir.Statement{
		{Kind: ir.StmtJump, Target: "end"},
		{Kind: ir.StmtNop},
		{Kind: ir.StmtLabel, Target: "end"},
		{Kind: ir.StmtHalt},
	}}
	flat, err := Generate(prog, Config{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if flat.Instructions[0].Target != 2 {
		t.Errorf("Expected jump target 2, got %d", flat.Instructions[0].Target)
	}
}

func TestGenerateUnknownLabel(t *testing.T) {
	prog := &ir.Program{Statements: []ir.Statement{
		{Kind: ir.StmtJump, Target: "nowhere"},
	}}
	_, err := Generate(prog, Config{})
	if !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("Expected ErrUnknownLabel, got %v", err)
	}
}

func TestGenerateDuplicateLabel(t *testing.T) {
	prog := &ir.Program{Statements: []ir.Statement{
		{Kind: ir.StmtLabel, Target: "a"},
		{Kind: ir.StmtLabel, Target: "a"},
	}}
	if _, err := Generate(prog, Config{}); err == nil {
		t.Error("Expected duplicate label to fail generation")
	}
}

func TestGenerateInstructionLimit(t *testing.T) {
	prog := &ir.Program{Statements: []ir.Statement{
		{Kind: ir.StmtNop},
		{Kind: ir.StmtNop},
		{Kind: ir.StmtNop},
	}}
	_, err := Generate(prog, Config{MaxInstructions: 2})
	if !errors.Is(err, ErrCodeTooLarge) {
		t.Errorf("Expected ErrCodeTooLarge, got %v", err)
	}
}

func TestGenerateWordLimit(t *testing.T) {
	// Two const instructions occupy four words.
	prog := &ir.Program{Statements: []ir.Statement{
		{Kind: ir.StmtConst, Dst: 0, Imm: 1},
		{Kind: ir.StmtConst, Dst: 1, Imm: 2},
	}}
	_, err := Generate(prog, Config{MaxWords: 3})
	if !errors.Is(err, ErrCodeTooLarge) {
		t.Errorf("Expected ErrCodeTooLarge, got %v", err)
	}
	if _, err := Generate(prog, Config{MaxWords: 4}); err != nil {
		t.Errorf("Expected 4 words to fit, got %v", err)
	}
}

func TestEncodeWordCounts(t *testing.T) {
	withImm := Instruction{Op: OpConst, Dst: 1, HasImm: true, Imm: 42}
	if got := len(withImm.Encode()); got != 2 {
		t.Errorf("Expected 2 words for immediate instruction, got %d", got)
	}
	if withImm.WordCount() != 2 {
		t.Errorf("Expected WordCount 2, got %d", withImm.WordCount())
	}

	plain := Instruction{Op: OpAdd, Dst: 0, A: 1, B: 2}
	if got := len(plain.Encode()); got != 1 {
		t.Errorf("Expected 1 word for plain instruction, got %d", got)
	}
}

func TestEncodeRoundTripsFields(t *testing.T) {
	in := Instruction{Op: OpJumpZ, A: 3, Target: 77}
	words := in.Encode()
	if len(words) != 1 {
		t.Fatalf("Expected 1 word, got %d", len(words))
	}
	w := words[0]
	if Opcode(w&0xff) != OpJumpZ {
		t.Errorf("Expected opcode %d in low byte, got %d", OpJumpZ, w&0xff)
	}
	if uint8(w>>16) != 3 {
		t.Errorf("Expected register A=3, got %d", uint8(w>>16))
	}
	if uint32(w>>wordTargetShift) != 77 {
		t.Errorf("Expected target 77, got %d", uint32(w>>wordTargetShift))
	}
	if w&wordImmFlag != 0 {
		t.Error("Expected immediate flag to be clear")
	}

	imm := Instruction{Op: OpConst, Dst: 2, HasImm: true, Imm: 0xdeadbeef}
	words = imm.Encode()
	if words[0]&wordImmFlag == 0 {
		t.Error("Expected immediate flag to be set")
	}
	if words[1] != 0xdeadbeef {
		t.Errorf("Expected raw immediate word, got %#x", words[1])
	}
}

func TestAssembleStructuralView(t *testing.T) {
	in := Instruction{Op: OpConst, Dst: 1, HasImm: true, Imm: 9}
	r := in.Assemble()
	if r.Opcode != "const" {
		t.Errorf("Expected opcode 'const', got %q", r.Opcode)
	}
	if r.Imm == nil || *r.Imm != 9 {
		t.Errorf("Expected immediate 9, got %v", r.Imm)
	}

	plain := Instruction{Op: OpRet}.Assemble()
	if plain.Imm != nil {
		t.Error("Expected no immediate in structural view of ret")
	}
}
