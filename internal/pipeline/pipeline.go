// Package pipeline runs one compile-and-correlate pass: front end, IR text
// round-trip, flat-code generation, and table construction. A pass is a
// single synchronous sequence; it either completes with every table built
// or fails without publishing any partial result.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"tracelift/internal/flatcode"
	"tracelift/internal/ir"
	"tracelift/internal/toolchain"
	"tracelift/internal/tracemap"
)

// Request configures one pass.
type Request struct {
	FileName string
	Code     string
	Frontend toolchain.Frontend
	Config   flatcode.Config
}

// Result is one completed pass. Everything in it is immutable after Run
// returns; concurrent readers need no locking.
type Result struct {
	Unit           *toolchain.Unit
	Flat           *flatcode.Program
	Metadata       flatcode.Metadata
	IRText         string
	FlatText       string
	ContractSource string

	Source       *tracemap.SourceTable
	Instructions *tracemap.InstructionTable
	Words        []tracemap.EncodedWord
}

// Correlator returns the query surface over this pass's tables.
func (r *Result) Correlator() *tracemap.Correlator {
	return tracemap.NewCorrelator(r.Source, r.Instructions)
}

// Run executes the pass. Stage failures come back wrapped with the stage
// that failed. The rendered IR text is staged through a temporary file that
// is removed on every exit path.
func Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing pipeline request")
	}
	if req.Frontend == nil {
		return nil, fmt.Errorf("missing front end")
	}

	unit, err := req.Frontend.Compile(ctx, req.FileName, req.Code)
	if err != nil {
		return nil, fmt.Errorf("front end failed: %w", err)
	}
	return RunIR(ctx, unit, unit.Program.Render(), req.Config)
}

// RunIR executes the back half of the pass over already-rendered IR text,
// with debug facts supplied separately. Used when the front end ran out of
// process and only its artifacts are available.
func RunIR(ctx context.Context, unit *toolchain.Unit, irText string, cfg flatcode.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmt.Errorf("missing IR unit")
	}

	parsed, err := roundTripIR(irText)
	if err != nil {
		return nil, fmt.Errorf("intermediate text parsing failed: %w", err)
	}

	var meta flatcode.Metadata
	if cfg.GasCheck {
		meta, err = flatcode.CalcMetadata(parsed)
		if err != nil {
			return nil, fmt.Errorf("gas metadata calculation failed: %w", err)
		}
	}

	flat, err := flatcode.Generate(parsed, cfg)
	if err != nil {
		return nil, fmt.Errorf("flat code generation failed: %w", err)
	}

	facts := tracemap.CollectStatementFacts(unit.Debug)
	sourceTable, contractSource := tracemap.BuildSourceTable(unit.Files, len(parsed.Statements), facts)

	return &Result{
		Unit:           unit,
		Flat:           flat,
		Metadata:       meta,
		IRText:         irText,
		FlatText:       flat.Render(),
		ContractSource: contractSource,
		Source:         sourceTable,
		Instructions:   tracemap.BuildInstructionTable(flat.Debug),
		Words:          tracemap.EncodeWords(flat.Instructions),
	}, nil
}

// roundTripIR stages the rendered IR through a temporary file and parses it
// back, the same hand-off the real back end performs. The file is ephemeral
// and scoped to this call; it is removed even when parsing fails.
func roundTripIR(irText string) (*ir.Program, error) {
	tmp, err := os.CreateTemp("", "tracelift-*.ir")
	if err != nil {
		return nil, fmt.Errorf("staging intermediate text: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.WriteString(irText); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("staging intermediate text: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("staging intermediate text: %w", err)
	}

	staged, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("staging intermediate text: %w", err)
	}
	return ir.Parse(string(staged))
}
