// Package toolchain declares the collaborator surface of the external
// compiler front end. The correlation core consumes whatever implements it;
// it never looks at source-language semantics itself.
package toolchain

import (
	"context"

	"tracelift/internal/ir"
	"tracelift/internal/source"
)

// Unit is one compiled intermediate-representation unit: the program, the
// debug facts the front end attached to it, and the file set the facts'
// spans resolve against.
type Unit struct {
	Files   *source.FileSet
	Program *ir.Program
	Debug   *ir.DebugInfo
}

// Frontend compiles source text into an IR unit. Implementations report
// front-end failures as errors; the pipeline wraps them with the stage name.
type Frontend interface {
	Compile(ctx context.Context, fileName, code string) (*Unit, error)
}
