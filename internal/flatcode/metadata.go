package flatcode

import (
	"errors"
	"fmt"
	"math"

	"tracelift/internal/ir"
)

// ErrGasMetadata indicates the per-statement cost table could not be computed.
var ErrGasMetadata = errors.New("gas metadata computation failed")

// Metadata holds the per-statement execution cost table.
type Metadata struct {
	StatementCosts []uint64
	TotalCost      uint64
}

var statementCosts = map[ir.StatementKind]uint64{
	ir.StmtNop:   0,
	ir.StmtLabel: 0,
	ir.StmtConst: 2,
	ir.StmtAdd:   1,
	ir.StmtSub:   1,
	ir.StmtMul:   3,
	ir.StmtJump:  1,
	ir.StmtJumpZ: 2,
	ir.StmtCall:  4,
	ir.StmtRet:   1,
	ir.StmtHalt:  0,
}

// CalcMetadata computes the cost table for a program. A statement kind with
// no known cost fails the whole computation.
func CalcMetadata(prog *ir.Program) (Metadata, error) {
	meta := Metadata{
		StatementCosts: make([]uint64, 0, len(prog.Statements)),
	}
	for idx, st := range prog.Statements {
		cost, ok := statementCosts[st.Kind]
		if !ok {
			return Metadata{}, fmt.Errorf("%w: statement %d has kind %s with no cost",
				ErrGasMetadata, idx, st.Kind)
		}
		if meta.TotalCost > math.MaxUint64-cost {
			return Metadata{}, fmt.Errorf("%w: total cost overflow at statement %d",
				ErrGasMetadata, idx)
		}
		meta.StatementCosts = append(meta.StatementCosts, cost)
		meta.TotalCost += cost
	}
	return meta, nil
}
