// Package ir defines the statement-based intermediate representation that
// sits between the front end and the flat-code generator, together with the
// debug facts the front end attaches to it.
package ir

import (
	"fmt"
	"strings"
)

// StatementKind enumerates statement kinds in the IR.
type StatementKind uint8

const (
	// StmtNop is a no-op statement.
	StmtNop StatementKind = iota
	// StmtLabel declares a jump target; it emits no instruction of its own.
	StmtLabel
	// StmtConst loads an immediate into a register.
	StmtConst
	// StmtAdd adds two registers.
	StmtAdd
	// StmtSub subtracts two registers.
	StmtSub
	// StmtMul multiplies two registers.
	StmtMul
	// StmtJump transfers control to a label.
	StmtJump
	// StmtJumpZ transfers control to a label when a register is zero.
	StmtJumpZ
	// StmtCall invokes a function by label.
	StmtCall
	// StmtRet returns from the current function.
	StmtRet
	// StmtHalt stops execution.
	StmtHalt
)

var kindNames = map[StatementKind]string{
	StmtNop:   "nop",
	StmtLabel: "label",
	StmtConst: "const",
	StmtAdd:   "add",
	StmtSub:   "sub",
	StmtMul:   "mul",
	StmtJump:  "jmp",
	StmtJumpZ: "jz",
	StmtCall:  "call",
	StmtRet:   "ret",
	StmtHalt:  "halt",
}

func (k StatementKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Statement is a single IR statement. Which fields are meaningful depends
// on Kind: Target names a label for label/jump/call kinds, Imm carries the
// constant for StmtConst, and Dst/A/B are register numbers.
type Statement struct {
	Kind   StatementKind
	Target string
	Dst    uint8
	A      uint8
	B      uint8
	Imm    uint64
}

// Program is an ordered list of statements. A statement's index in the list
// is its stable identity; all debug facts are keyed by it.
type Program struct {
	Statements []Statement
}

// Render produces the canonical text form of the program, one statement per
// line. Parse accepts exactly this form back.
func (p *Program) Render() string {
	var b strings.Builder
	for _, st := range p.Statements {
		b.WriteString(renderStatement(st))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderStatement(st Statement) string {
	switch st.Kind {
	case StmtNop, StmtRet, StmtHalt:
		return st.Kind.String()
	case StmtLabel:
		return st.Target + ":"
	case StmtConst:
		return fmt.Sprintf("const r%d %d", st.Dst, st.Imm)
	case StmtAdd, StmtSub, StmtMul:
		return fmt.Sprintf("%s r%d r%d r%d", st.Kind, st.Dst, st.A, st.B)
	case StmtJump, StmtCall:
		return fmt.Sprintf("%s %s", st.Kind, st.Target)
	case StmtJumpZ:
		return fmt.Sprintf("jz r%d %s", st.A, st.Target)
	default:
		return st.Kind.String()
	}
}
