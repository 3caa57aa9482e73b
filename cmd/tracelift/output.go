package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"tracelift/internal/pipeline"
	"tracelift/internal/tracemap"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	foundColor  = color.New(color.FgGreen)
	missColor   = color.New(color.FgRed)
	mutedColor  = color.New(color.Faint)
)

func renderSummary(out io.Writer, result *pipeline.Result) {
	fmt.Fprintln(out, headerStyle.Render("compilation"))
	fmt.Fprintf(out, "  statements:   %s\n", countStyle.Render(fmt.Sprint(result.Source.Len())))
	fmt.Fprintf(out, "  instructions: %s\n", countStyle.Render(fmt.Sprint(len(result.Flat.Instructions))))
	fmt.Fprintf(out, "  words:        %s\n", countStyle.Render(fmt.Sprint(len(result.Words))))
	if len(result.Metadata.StatementCosts) > 0 {
		fmt.Fprintf(out, "  gas:          %s\n", countStyle.Render(fmt.Sprint(result.Metadata.TotalCost)))
	}
}

func renderSourceTable(out io.Writer, result *pipeline.Result) {
	fmt.Fprintln(out, headerStyle.Render("statement table"))
	for _, entry := range result.Source.Entries() {
		name := "-"
		if entry.Record.FunctionName != nil {
			name = *entry.Record.FunctionName
		}
		fmt.Fprintf(out, "  %4d  %-12s %s\n", entry.Statement, name, formatSpans(entry.Record.Spans))
	}
}

func renderInstructionTable(out io.Writer, result *pipeline.Result) {
	fmt.Fprintln(out, headerStyle.Render("instruction table"))
	for _, entry := range result.Instructions.Entries() {
		stmts := make([]string, len(entry.Statements))
		for i, s := range entry.Statements {
			stmts[i] = fmt.Sprint(s)
		}
		fmt.Fprintf(out, "  %4d  <- statements [%s]\n", entry.Instruction, strings.Join(stmts, ", "))
	}
}

func renderWords(out io.Writer, words []tracemap.EncodedWord) {
	fmt.Fprintln(out, headerStyle.Render("encoded words"))
	for i, w := range words {
		decoded := ""
		if w.Structural != nil {
			decoded = w.Structural.Opcode
		} else {
			decoded = mutedColor.Sprint("(imm)")
		}
		fmt.Fprintf(out, "  %4d  %-20s instr=%d %s\n", i, w.Memory, w.InstructionIndex, decoded)
	}
}

func renderLocate(out io.Writer, pc int64, result tracemap.LocateResult) {
	if !result.Found {
		missColor.Fprintf(out, "pc %d: no instruction at this offset\n", pc)
		return
	}
	if len(result.Spans) == 0 {
		foundColor.Fprintf(out, "pc %d: matched, no source attribution\n", pc)
		return
	}
	foundColor.Fprintf(out, "pc %d:\n", pc)
	for _, span := range result.Spans {
		fmt.Fprintf(out, "  %s\n", formatSpan(span))
	}
}

func formatSpans(spans []tracemap.SourceSpan) string {
	if spans == nil {
		return mutedColor.Sprint("(no locations)")
	}
	parts := make([]string, len(spans))
	for i, span := range spans {
		parts[i] = formatSpan(span)
	}
	return strings.Join(parts, ", ")
}

func formatSpan(span tracemap.SourceSpan) string {
	return fmt.Sprintf("%s:%d:%d-%d:%d",
		span.FileName, span.Start.Line, span.Start.Col, span.End.Line, span.End.Col)
}
