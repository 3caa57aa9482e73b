package ir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ErrMalformed reports intermediate text that does not parse. Errors
// wrapping it always carry the line number and the offending fragment.
var ErrMalformed = errors.New("malformed intermediate text")

// Parse reads the canonical text form produced by Program.Render.
// Blank lines and lines starting with ';' are skipped.
func Parse(text string) (*Program, error) {
	prog := &Program{}
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}
		st, err := parseStatement(trimmed)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %q", i+1, err, trimmed)
		}
		prog.Statements = append(prog.Statements, st)
	}
	return prog, nil
}

func parseStatement(line string) (Statement, error) {
	if target, ok := strings.CutSuffix(line, ":"); ok {
		if target == "" || strings.ContainsAny(target, " \t") {
			return Statement{}, fmt.Errorf("%w: bad label", ErrMalformed)
		}
		return Statement{Kind: StmtLabel, Target: target}, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "nop":
		return fixedArity(fields, 0, Statement{Kind: StmtNop})
	case "ret":
		return fixedArity(fields, 0, Statement{Kind: StmtRet})
	case "halt":
		return fixedArity(fields, 0, Statement{Kind: StmtHalt})
	case "const":
		if len(fields) != 3 {
			return Statement{}, arityError(fields[0])
		}
		dst, err := parseReg(fields[1])
		if err != nil {
			return Statement{}, err
		}
		imm, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return Statement{}, fmt.Errorf("%w: bad immediate", ErrMalformed)
		}
		return Statement{Kind: StmtConst, Dst: dst, Imm: imm}, nil
	case "add", "sub", "mul":
		if len(fields) != 4 {
			return Statement{}, arityError(fields[0])
		}
		kind := map[string]StatementKind{"add": StmtAdd, "sub": StmtSub, "mul": StmtMul}[fields[0]]
		dst, err := parseReg(fields[1])
		if err != nil {
			return Statement{}, err
		}
		a, err := parseReg(fields[2])
		if err != nil {
			return Statement{}, err
		}
		b, err := parseReg(fields[3])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Kind: kind, Dst: dst, A: a, B: b}, nil
	case "jmp", "call":
		if len(fields) != 2 {
			return Statement{}, arityError(fields[0])
		}
		kind := StmtJump
		if fields[0] == "call" {
			kind = StmtCall
		}
		return Statement{Kind: kind, Target: fields[1]}, nil
	case "jz":
		if len(fields) != 3 {
			return Statement{}, arityError(fields[0])
		}
		a, err := parseReg(fields[1])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Kind: StmtJumpZ, A: a, Target: fields[2]}, nil
	default:
		return Statement{}, fmt.Errorf("%w: unknown statement %q", ErrMalformed, fields[0])
	}
}

func fixedArity(fields []string, want int, st Statement) (Statement, error) {
	if len(fields)-1 != want {
		return Statement{}, arityError(fields[0])
	}
	return st, nil
}

func arityError(op string) error {
	return fmt.Errorf("%w: wrong operand count for %q", ErrMalformed, op)
}

func parseReg(s string) (uint8, error) {
	raw, ok := strings.CutPrefix(s, "r")
	if !ok {
		return 0, fmt.Errorf("%w: expected register, got %q", ErrMalformed, s)
	}
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: bad register %q", ErrMalformed, s)
	}
	reg, err := safecast.Conv[uint8](n)
	if err != nil {
		return 0, fmt.Errorf("%w: bad register %q", ErrMalformed, s)
	}
	return reg, nil
}
