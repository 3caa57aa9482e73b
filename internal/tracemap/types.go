package tracemap

import "tracelift/internal/source"

// SourceSpan is a resolved source location: a file name plus zero-based
// start and end positions.
type SourceSpan struct {
	FileName string     `json:"file_name" msgpack:"file_name"`
	Start    source.Pos `json:"start" msgpack:"start"`
	End      source.Pos `json:"end" msgpack:"end"`
}

// StatementRecord is everything known about one IR statement: the display
// name of its enclosing function, if any, and the source spans attributed
// to it, in reporting order.
//
// FunctionName is nil when the statement sits outside any function body.
// Spans is nil when the statement was never attributed to a location; a
// non-nil empty list means it was attributed but nothing resolved, and the
// two are distinct on the wire (null vs []).
type StatementRecord struct {
	FunctionName *string      `json:"function_name" msgpack:"function_name"`
	Spans        []SourceSpan `json:"spans" msgpack:"spans"`
}
