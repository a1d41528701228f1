package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileHadBOM indicates a UTF-8 BOM was stripped on decode.
	FileHadBOM FileFlags = 1 << iota
	// FileNormalizedCRLF indicates CRLF line breaks were rewritten to LF on decode.
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
// Content is always LF-terminated and BOM-free; Flags remember what the
// stored bytes looked like so Encode can restore them.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n' in Content
	Hash    [32]byte
	Flags   FileFlags
}
