package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves byte offsets
// into line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID // name -> latest id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from normalized bytes, computes its line index, and
// returns a new FileID. A new FileID is issued even if a file with the same
// name already exists.
func (fs *FileSet) Add(name string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Name:    name,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	fs.index[name] = id
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (generated code, tests) with the
// FileVirtual flag.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for the given ID, or ok=false if the ID is unknown.
func (fs *FileSet) Get(id FileID) (*File, bool) {
	if int(id) >= len(fs.files) {
		return nil, false
	}
	return &fs.files[id], true
}

// GetByName returns the latest file registered under name.
func (fs *FileSet) GetByName(name string) (*File, bool) {
	if id, ok := fs.index[name]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Len returns the number of registered files.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// PosOf resolves a byte offset in a file to a zero-based position.
// ok is false when the file is unknown or the offset lies outside its
// content; callers decide how to degrade.
func (fs *FileSet) PosOf(id FileID, off uint32) (Pos, bool) {
	f, ok := fs.Get(id)
	if !ok {
		return Pos{}, false
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return Pos{}, false
	}
	if off > lenContent {
		return Pos{}, false
	}
	return toPos(f.LineIdx, off), true
}

// Resolve converts a span into start and end positions.
// ok is false when either endpoint fails to resolve.
func (fs *FileSet) Resolve(span Span) (start, end Pos, ok bool) {
	start, ok = fs.PosOf(span.File, span.Start)
	if !ok {
		return Pos{}, Pos{}, false
	}
	end, ok = fs.PosOf(span.File, span.End)
	if !ok {
		return Pos{}, Pos{}, false
	}
	return start, end, true
}
