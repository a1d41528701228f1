package source

import (
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("game.js", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("./game.js", []byte("hello universe"), FileHadBOM)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first file content to be 'hello world', got %q", got)
	}
	second := fs.Get(id2)
	if second.Path != "game.js" || second.Flags != FileHadBOM {
		t.Errorf("unexpected second version %+v", second)
	}
}

func TestAddLineIdx(t *testing.T) {
	fs := NewFileSet()

	file := fs.Get(fs.Add("a.js", []byte("a\nb\n"), 0))

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
}

func TestDecodeNormalizesAndEncodeRestores(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		content string
		flags   FileFlags
	}{
		{"plain", "a\nb\n", "a\nb\n", 0},
		{"crlf", "a\r\nb\r\n", "a\nb\n", FileNormalizedCRLF},
		{"bom", "\xEF\xBB\xBFx\n", "x\n", FileHadBOM},
		{"bom and crlf", "\xEF\xBB\xBFx\r\ny", "x\ny", FileHadBOM | FileNormalizedCRLF},
		{"lone cr kept", "a\rb\n", "a\rb\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			file := fs.Get(fs.Decode("f.js", []byte(tt.raw)))
			if string(file.Content) != tt.content {
				t.Fatalf("content = %q, want %q", file.Content, tt.content)
			}
			if file.Flags != tt.flags {
				t.Fatalf("flags = %b, want %b", file.Flags, tt.flags)
			}
			if got := string(file.Encode(file.Content)); got != tt.raw {
				t.Fatalf("Encode round trip = %q, want %q", got, tt.raw)
			}
		})
	}
}

func TestEncodeRestoresCRLFOnEditedContent(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.Decode("f.js", []byte("a();\r\nconsole.log(1);\r\nb();\r\n")))
	got := file.Encode([]byte("a();\nb();\n"))
	if string(got) != "a();\r\nb();\r\n" {
		t.Fatalf("Encode = %q", got)
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	file1 := fs.Get(fs.Add("empty.js", []byte{}, 0))
	if len(file1.LineIdx) != 0 || file1.LineCount() != 0 {
		t.Errorf("Expected no lines for empty file, got %v", file1.LineIdx)
	}

	file2 := fs.Get(fs.Add("no_newlines.js", []byte("hello"), 0))
	if len(file2.LineIdx) != 0 || file2.LineCount() != 1 {
		t.Errorf("Expected single unterminated line, got %v", file2.LineIdx)
	}

	file3 := fs.Get(fs.Add("only_newline.js", []byte("\n"), 0))
	if len(file3.LineIdx) != 1 || file3.LineIdx[0] != 0 || file3.LineCount() != 1 {
		t.Errorf("Expected LineIdx [0] for file with only newline, got %v", file3.LineIdx)
	}
}

func TestHashTracksContent(t *testing.T) {
	fs := NewFileSet()
	a := fs.Get(fs.Add("a.js", []byte("x"), 0))
	b := fs.Get(fs.Add("b.js", []byte("x"), 0))
	c := fs.Get(fs.Add("c.js", []byte("y"), 0))
	if a.HashHex() != b.HashHex() {
		t.Error("equal content must hash equally")
	}
	if a.HashHex() == c.HashHex() {
		t.Error("different content must hash differently")
	}
	if len(a.HashHex()) != 64 {
		t.Errorf("unexpected hex length %d", len(a.HashHex()))
	}
}

func TestNormalizePathKeepsURLs(t *testing.T) {
	if got := normalizePath("mem://localhost/a/../b.js"); got != "mem://localhost/a/../b.js" {
		t.Errorf("normalizePath(url) = %q", got)
	}
	if got := normalizePath("src/./b.js"); got != "src/b.js" {
		t.Errorf("normalizePath = %q", got)
	}
}
