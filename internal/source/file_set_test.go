package source

import (
	"os"
	"testing"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.src", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("other.src", []byte("x"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	f, ok := fs.Get(id1)
	if !ok {
		t.Fatal("Expected file 0 to exist")
	}
	if string(f.Content) != "hello world" {
		t.Errorf("Expected content 'hello world', got %q", string(f.Content))
	}
}

func TestGetUnknownID(t *testing.T) {
	fs := NewFileSet()
	if _, ok := fs.Get(5); ok {
		t.Error("Expected Get of unknown ID to report ok=false")
	}
}

func TestAddVirtualFlag(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("contract", []byte("generated"))
	f, ok := fs.Get(id)
	if !ok {
		t.Fatal("Expected virtual file to exist")
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	byName, ok := fs.GetByName("contract")
	if !ok || byName.ID != id {
		t.Errorf("Expected GetByName to return id %d, got %v ok=%v", id, byName, ok)
	}
}

func TestPosOfZeroBased(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.src", []byte("ab\ncd\n"))

	cases := []struct {
		off  uint32
		want Pos
	}{
		{0, Pos{Line: 0, Col: 0}},
		{1, Pos{Line: 0, Col: 1}},
		{2, Pos{Line: 0, Col: 2}}, // the newline itself
		{3, Pos{Line: 1, Col: 0}},
		{4, Pos{Line: 1, Col: 1}},
		{6, Pos{Line: 2, Col: 0}}, // end of content
	}
	for _, c := range cases {
		got, ok := fs.PosOf(id, c.off)
		if !ok {
			t.Errorf("PosOf(%d): expected ok", c.off)
			continue
		}
		if got != c.want {
			t.Errorf("PosOf(%d) = %+v, want %+v", c.off, got, c.want)
		}
	}
}

func TestPosOfOutOfRange(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.src", []byte("ab"))

	if _, ok := fs.PosOf(id, 3); ok {
		t.Error("Expected offset past content to report ok=false")
	}
	if _, ok := fs.PosOf(99, 0); ok {
		t.Error("Expected unknown file to report ok=false")
	}
}

func TestPosOfNoNewlines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("flat.src", []byte("hello"))

	got, ok := fs.PosOf(id, 4)
	if !ok {
		t.Fatal("Expected ok for in-range offset")
	}
	if got != (Pos{Line: 0, Col: 4}) {
		t.Errorf("Expected {0,4}, got %+v", got)
	}
}

func TestResolveSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.src", []byte("ab\ncd\n"))

	start, end, ok := fs.Resolve(Span{File: id, Start: 1, End: 4})
	if !ok {
		t.Fatal("Expected span to resolve")
	}
	if start != (Pos{Line: 0, Col: 1}) {
		t.Errorf("Expected start {0,1}, got %+v", start)
	}
	if end != (Pos{Line: 1, Col: 1}) {
		t.Errorf("Expected end {1,1}, got %+v", end)
	}

	if _, _, ok := fs.Resolve(Span{File: id, Start: 0, End: 100}); ok {
		t.Error("Expected span past content to fail resolution")
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	fs := NewFileSet()
	tempFile, err := os.CreateTemp("", "testdata")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err = tempFile.WriteString("\xEF\xBB\xBFa\r\nb\r\n"); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	if err = tempFile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	id, err := fs.Load(tempFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	f, _ := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("Expected normalized content 'a\\nb\\n', got %q", string(f.Content))
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
}

func TestNormalizeCRLFLeavesLoneCR(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\rb\r\nc"))
	if !changed {
		t.Error("Expected a replacement to be reported")
	}
	if string(out) != "a\rb\nc" {
		t.Errorf("Expected 'a\\rb\\nc', got %q", string(out))
	}
}
