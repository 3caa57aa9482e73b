package tracemap

// Correlator chains the instruction table and the source table to answer
// program-counter queries against one completed compilation. It holds no
// mutable state; concurrent Locate calls are safe.
type Correlator struct {
	source       *SourceTable
	instructions *InstructionTable
}

// LocateResult is the outcome of a program-counter query. Found reports
// whether the pc had an entry at all; a found pc whose statements carry no
// spans yields Found=true with an empty span list, which is a different
// answer than not-found.
type LocateResult struct {
	Found bool         `json:"found" msgpack:"found"`
	Spans []SourceSpan `json:"spans" msgpack:"spans"`
}

// NewCorrelator builds a correlator over the two tables of one compilation.
func NewCorrelator(src *SourceTable, instructions *InstructionTable) *Correlator {
	return &Correlator{
		source:       src,
		instructions: instructions,
	}
}

// Locate resolves a runtime program counter to the source spans of the
// statements that produced the instruction at that offset. Any pc is
// acceptable, including negative and out-of-range values; those simply
// report not-found.
func (c *Correlator) Locate(pc int64) LocateResult {
	if pc < 0 {
		return LocateResult{}
	}
	statements, ok := c.instructions.Lookup(uint64(pc))
	if !ok {
		return LocateResult{}
	}

	result := LocateResult{
		Found: true,
		Spans: []SourceSpan{},
	}
	for _, statement := range statements {
		record, ok := c.source.Record(statement)
		if !ok {
			// Cannot happen for tables built from one compilation; an
			// unknown statement contributes nothing rather than failing.
			continue
		}
		result.Spans = append(result.Spans, record.Spans...)
	}
	return result
}
