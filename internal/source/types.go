package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (generated, test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Name    string
	Content []byte
	LineIdx []uint32
	Flags   FileFlags
}

// Pos is a zero-based position in a source file.
type Pos struct {
	Line uint32 `json:"line" msgpack:"line"`
	Col  uint32 `json:"col" msgpack:"col"`
}
