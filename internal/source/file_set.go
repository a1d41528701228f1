package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files. It is safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{files: make([]*File, 0)}
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// Every call creates a new version; an edited text is added next to its original.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, &File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	return id
}

// Decode normalizes raw stored bytes (BOM, CRLF) and calls Add.
func (fileSet *FileSet) Decode(path string, raw []byte) FileID {
	content, hadBOM := removeBOM(raw)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return fileSet.files[id]
}

// LineCount returns the number of lines in the file. A trailing line without
// '\n' counts as a line; an empty file has zero lines.
func (f *File) LineCount() int {
	n := len(f.LineIdx)
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// Encode converts content back to the file's stored form: CRLF line breaks
// and the BOM are restored when the original bytes had them.
func (f *File) Encode(content []byte) []byte {
	if f.Flags&FileNormalizedCRLF != 0 {
		content = restoreCRLF(content)
	}
	if f.Flags&FileHadBOM != 0 {
		out := make([]byte, 0, len(content)+len(utf8BOM))
		out = append(out, utf8BOM...)
		content = append(out, content...)
	}
	return content
}

// HashHex returns the content hash as lowercase hex.
func (f *File) HashHex() string {
	return hex.EncodeToString(f.Hash[:])
}
