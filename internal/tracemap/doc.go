// Package tracemap builds the debug-location correlation tables for one
// compilation: a dense statement-to-source table, an instruction-to-
// statement table inverted from the generator's annotations, a word-level
// view of the encoded instruction stream, and the correlator that chains
// the tables to answer "what source location caused the fault at this
// program counter".
//
// All tables are built once at the end of a compilation pass and are
// read-only afterwards; concurrent lookups against one completed result
// need no locking.
package tracemap
