package tracemap

import (
	"tracelift/internal/ir"
	"tracelift/internal/source"
)

// ContractFileName names the designated virtual file whose full text is
// captured as the fallback rendering of generated code.
const ContractFileName = "contract"

// SourceTable maps every IR statement index in 0..N-1 to its record. The
// backing array is dense by construction: exactly N records, no holes.
type SourceTable struct {
	records []StatementRecord
}

// SourceTableEntry is one (statement index, record) pair in wire form.
type SourceTableEntry struct {
	Statement uint64          `json:"statement_index" msgpack:"statement_index"`
	Record    StatementRecord `json:"record" msgpack:"record"`
}

// BuildSourceTable folds sparse statement facts into a dense table of
// exactly n records. Statements with no facts get an empty record.
//
// Byte-offset spans are resolved against the owning file; a span that fails
// to resolve (offset outside the file, unknown file) degrades to positions
// {0,0} instead of failing the build. Spans are kept exactly as reported:
// never reordered, deduplicated, or clamped.
//
// The first time a location references the designated contract file, its
// full text is captured and returned alongside the table.
func BuildSourceTable(files *source.FileSet, n int, facts StatementFacts) (*SourceTable, string) {
	table := &SourceTable{
		records: make([]StatementRecord, n),
	}
	contractSource := ""

	for idx := range table.records {
		statement := uint64(idx) // #nosec G115 -- idx ranges over a slice
		rec := &table.records[idx]

		if name, ok := facts.Functions[statement]; ok {
			rec.FunctionName = &name
		}

		locations, ok := facts.Locations[statement]
		if !ok {
			continue
		}
		rec.Spans = make([]SourceSpan, 0, len(locations))
		for _, loc := range locations {
			fileName := ""
			if f, found := files.Get(loc.File); found {
				fileName = f.Name
				if contractSource == "" && fileName == ContractFileName && f.Flags&source.FileVirtual != 0 {
					contractSource = string(f.Content)
				}
			}
			rec.Spans = append(rec.Spans, SourceSpan{
				FileName: fileName,
				Start:    resolveOrZero(files, loc, loc.Span.Start),
				End:      resolveOrZero(files, loc, loc.Span.End),
			})
		}
	}
	return table, contractSource
}

// resolveOrZero degrades an unresolvable offset to position {0,0}.
// Precision is lost for that one span only; the rest of the pass continues.
func resolveOrZero(files *source.FileSet, loc ir.DiagLocation, off uint32) source.Pos {
	pos, ok := files.PosOf(loc.File, off)
	if !ok {
		return source.Pos{}
	}
	return pos
}

// Len returns the number of statement records (always the N the table was
// built with).
func (t *SourceTable) Len() int {
	return len(t.records)
}

// Record returns the record for a statement index.
func (t *SourceTable) Record(statement uint64) (StatementRecord, bool) {
	if statement >= uint64(len(t.records)) {
		return StatementRecord{}, false
	}
	return t.records[statement], true
}

// Entries renders the table as an ordered list of pairs, index 0..N-1.
// Serialization goes through this form so the order survives formats where
// integer map keys do not.
func (t *SourceTable) Entries() []SourceTableEntry {
	entries := make([]SourceTableEntry, len(t.records))
	for idx, rec := range t.records {
		entries[idx] = SourceTableEntry{
			Statement: uint64(idx), // #nosec G115 -- idx ranges over a slice
			Record:    rec,
		}
	}
	return entries
}
