// Package demo provides a deterministic reference front end. It does not
// implement a real language: every non-blank input line becomes one IR
// statement attributed to that line's span, which is enough to exercise the
// full compile-and-correlate pass from the CLI and the service.
package demo

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"tracelift/internal/ir"
	"tracelift/internal/source"
	"tracelift/internal/toolchain"
	"tracelift/internal/tracemap"
)

// Frontend is the reference toolchain.Frontend implementation.
type Frontend struct{}

// New returns a demo front end.
func New() *Frontend {
	return &Frontend{}
}

// Compile turns each non-blank, non-comment line of code into a const/add
// pair of IR statements inside a synthetic "main" function, bracketed by a
// label and a halt. Every generated statement carries a diagnostic location
// spanning its originating line; the prologue statements point into a
// synthesized contract wrapper file instead.
func (f *Frontend) Compile(ctx context.Context, fileName, code string) (*toolchain.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%s: empty input", fileName)
	}

	files := source.NewFileSet()
	fileID := files.Add(fileName, []byte(code), 0)

	wrapper := fmt.Sprintf("// synthesized wrapper for %s\nfn main() { dispatch() }\n", fileName)
	contractID := files.AddVirtual(tracemap.ContractFileName, []byte(wrapper))

	unit := &toolchain.Unit{
		Files:   files,
		Program: &ir.Program{},
		Debug: &ir.DebugInfo{
			StatementFunctions: make(map[uint64]string),
		},
	}

	emit := func(st ir.Statement, locs ...ir.DiagLocation) error {
		idx, err := safecast.Conv[uint64](len(unit.Program.Statements))
		if err != nil {
			return fmt.Errorf("statement index overflow: %w", err)
		}
		unit.Program.Statements = append(unit.Program.Statements, st)
		unit.Debug.StatementFunctions[idx] = "main"
		for _, loc := range locs {
			unit.Debug.StatementLocations = append(unit.Debug.StatementLocations, ir.StatementLocation{
				Statement: idx,
				Location:  loc,
			})
		}
		return nil
	}

	wrapperSpan := ir.DiagLocation{
		File: contractID,
		Span: source.Span{File: contractID, Start: 0, End: lenU32(wrapper)},
	}
	if err := emit(ir.Statement{Kind: ir.StmtLabel, Target: "main"}, wrapperSpan); err != nil {
		return nil, err
	}

	offset := uint32(0)
	reg := uint8(0)
	for _, line := range strings.Split(code, "\n") {
		lineLen := lenU32(line)
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "//") {
			lineSpan := ir.DiagLocation{
				File: fileID,
				Span: source.Span{File: fileID, Start: offset, End: offset + lineLen},
			}
			next := (reg + 1) % 4
			if err := emit(ir.Statement{Kind: ir.StmtConst, Dst: next, Imm: uint64(lineLen)}, lineSpan); err != nil {
				return nil, err
			}
			if err := emit(ir.Statement{Kind: ir.StmtAdd, Dst: 0, A: reg, B: next}, lineSpan); err != nil {
				return nil, err
			}
			reg = next
		}
		offset += lineLen + 1 // +1 for the newline
	}

	if err := emit(ir.Statement{Kind: ir.StmtHalt}, wrapperSpan); err != nil {
		return nil, err
	}
	return unit, nil
}

func lenU32(s string) uint32 {
	n, err := safecast.Conv[uint32](len(s))
	if err != nil {
		panic(fmt.Errorf("length overflow: %w", err))
	}
	return n
}
