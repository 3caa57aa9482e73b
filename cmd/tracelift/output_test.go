package main

import (
	"strings"
	"testing"

	"tracelift/internal/source"
	"tracelift/internal/tracemap"
)

func TestFormatSpan(t *testing.T) {
	got := formatSpan(tracemap.SourceSpan{
		FileName: "main.src",
		Start:    source.Pos{Line: 2, Col: 4},
		End:      source.Pos{Line: 2, Col: 9},
	})
	if got != "main.src:2:4-2:9" {
		t.Errorf("Expected 'main.src:2:4-2:9', got %q", got)
	}
}

func TestFormatSpansJoinsInOrder(t *testing.T) {
	spans := []tracemap.SourceSpan{
		{FileName: "a.src", End: source.Pos{Line: 0, Col: 1}},
		{FileName: "b.src", Start: source.Pos{Line: 3}, End: source.Pos{Line: 3, Col: 5}},
	}
	got := formatSpans(spans)
	if !strings.Contains(got, "a.src:0:0-0:1") || !strings.Contains(got, "b.src:3:0-3:5") {
		t.Errorf("Expected both spans formatted, got %q", got)
	}
	if strings.Index(got, "a.src") > strings.Index(got, "b.src") {
		t.Errorf("Expected spans in input order, got %q", got)
	}
}

func TestFormatSpansNil(t *testing.T) {
	got := formatSpans(nil)
	if !strings.Contains(got, "no locations") {
		t.Errorf("Expected placeholder for nil spans, got %q", got)
	}
}
