package flatcode

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"tracelift/internal/ir"
)

// Config bounds the generated code. Zero values mean unlimited.
type Config struct {
	GasCheck        bool
	MaxInstructions int
	MaxWords        int
}

var (
	// ErrCodeTooLarge indicates the generated stream exceeded a configured limit.
	ErrCodeTooLarge = errors.New("generated code exceeds configured limit")
	// ErrUnknownLabel indicates a jump or call to a label that was never declared.
	ErrUnknownLabel = errors.New("unknown label")
)

// Generate lowers an IR program into flat code.
//
// Every IR statement gets exactly one entry in Debug.StatementInfo: the
// ordinal of the first instruction it produced. Label statements produce no
// instruction and point at whatever instruction follows them, which is how
// several statements collapse onto one instruction. A call expands into two
// instructions (save + jmp), so one statement may also own several.
func Generate(prog *ir.Program, cfg Config) (*Program, error) {
	labels, err := collectLabels(prog)
	if err != nil {
		return nil, err
	}

	out := &Program{
		Debug: DebugInfo{
			StatementInfo: make([]StatementDebug, 0, len(prog.Statements)),
		},
	}

	for idx, st := range prog.Statements {
		lenInstrs, convErr := safecast.Conv[uint64](len(out.Instructions))
		if convErr != nil {
			return nil, fmt.Errorf("instruction count overflow: %w", convErr)
		}
		out.Debug.StatementInfo = append(out.Debug.StatementInfo, StatementDebug{
			InstructionIdx: lenInstrs,
		})

		emitted, emitErr := emitStatement(st, labels, lenInstrs)
		if emitErr != nil {
			return nil, fmt.Errorf("statement %d: %w", idx, emitErr)
		}
		out.Instructions = append(out.Instructions, emitted...)
	}

	if cfg.MaxInstructions > 0 && len(out.Instructions) > cfg.MaxInstructions {
		return nil, fmt.Errorf("%w: %d instructions (max %d)",
			ErrCodeTooLarge, len(out.Instructions), cfg.MaxInstructions)
	}
	if cfg.MaxWords > 0 && out.WordLen() > cfg.MaxWords {
		return nil, fmt.Errorf("%w: %d words (max %d)",
			ErrCodeTooLarge, out.WordLen(), cfg.MaxWords)
	}
	return out, nil
}

// collectLabels assigns every label the ordinal of the first instruction
// emitted after it.
func collectLabels(prog *ir.Program) (map[string]uint32, error) {
	labels := make(map[string]uint32)
	ordinal := uint32(0)
	for _, st := range prog.Statements {
		if st.Kind == ir.StmtLabel {
			if _, dup := labels[st.Target]; dup {
				return nil, fmt.Errorf("duplicate label %q", st.Target)
			}
			labels[st.Target] = ordinal
			continue
		}
		count, err := safecast.Conv[uint32](instructionCount(st.Kind))
		if err != nil {
			return nil, err
		}
		ordinal += count
	}
	return labels, nil
}

func instructionCount(kind ir.StatementKind) int {
	switch kind {
	case ir.StmtLabel:
		return 0
	case ir.StmtCall:
		return 2
	default:
		return 1
	}
}

func emitStatement(st ir.Statement, labels map[string]uint32, at uint64) ([]Instruction, error) {
	switch st.Kind {
	case ir.StmtLabel:
		return nil, nil
	case ir.StmtNop:
		return []Instruction{{Op: OpNop}}, nil
	case ir.StmtConst:
		return []Instruction{{Op: OpConst, Dst: st.Dst, HasImm: true, Imm: st.Imm}}, nil
	case ir.StmtAdd:
		return []Instruction{{Op: OpAdd, Dst: st.Dst, A: st.A, B: st.B}}, nil
	case ir.StmtSub:
		return []Instruction{{Op: OpSub, Dst: st.Dst, A: st.A, B: st.B}}, nil
	case ir.StmtMul:
		return []Instruction{{Op: OpMul, Dst: st.Dst, A: st.A, B: st.B}}, nil
	case ir.StmtJump:
		target, err := resolveLabel(labels, st.Target)
		if err != nil {
			return nil, err
		}
		return []Instruction{{Op: OpJump, Target: target}}, nil
	case ir.StmtJumpZ:
		target, err := resolveLabel(labels, st.Target)
		if err != nil {
			return nil, err
		}
		return []Instruction{{Op: OpJumpZ, A: st.A, Target: target}}, nil
	case ir.StmtCall:
		target, err := resolveLabel(labels, st.Target)
		if err != nil {
			return nil, err
		}
		resume, err := safecast.Conv[uint32](at + 2)
		if err != nil {
			return nil, fmt.Errorf("resume ordinal overflow: %w", err)
		}
		return []Instruction{
			{Op: OpSave, Target: resume},
			{Op: OpJump, Target: target},
		}, nil
	case ir.StmtRet:
		return []Instruction{{Op: OpRet}}, nil
	case ir.StmtHalt:
		return []Instruction{{Op: OpHalt}}, nil
	default:
		return nil, fmt.Errorf("unsupported statement kind %s", st.Kind)
	}
}

func resolveLabel(labels map[string]uint32, name string) (uint32, error) {
	target, ok := labels[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
	}
	return target, nil
}
