// Package validation checks paths and file contents handed to the mdx
// tools: output paths, archive entry names, and the claimed type of a
// model source.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// Security limits to prevent DoS attacks (CWE-400).
const (
	// MaxFileSize is the largest model or archive entry read into memory (256 MB).
	MaxFileSize = 256 << 20
	// MaxFilenameLength is the maximum allowed filename length.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
)

// SanitizePath validates and sanitizes a user-supplied path to prevent path traversal attacks.
// It ensures the path does not escape the provided base directory.
// Returns the cleaned path relative to the base directory, or an error if invalid.
func SanitizePath(baseDir, userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}

	// Check path length
	if len(userPath) > MaxPathLength {
		return "", ErrPathTooLong
	}

	// Clean the path to remove redundant separators and resolve . and ..
	cleanPath := filepath.Clean(userPath)

	// Reject paths that try to escape the base directory
	if strings.Contains(cleanPath, "..") {
		return "", ErrPathTraversal
	}

	// Reject absolute paths (should be relative to baseDir)
	if filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("%w: absolute path not allowed", ErrPathTraversal)
	}

	// Build full path and verify it's within baseDir
	fullPath := filepath.Join(baseDir, cleanPath)
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	// Ensure the resolved path is within the base directory
	relPath, err := filepath.Rel(absBase, absPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", ErrPathTraversal
	}

	return cleanPath, nil
}

// ValidateFilename checks one path component of an output file or bundle
// member. Separators, control bytes, reserved names and a leading hyphen
// are rejected.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return ErrInvalidFilename
	case len(name) > MaxFilenameLength:
		return ErrFilenameTooLong
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidFilename, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a separator", ErrInvalidFilename, name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with a hyphen", ErrInvalidFilename, name)
	}
	if i := strings.IndexFunc(name, unicode.IsControl); i >= 0 {
		return fmt.Errorf("%w: control byte at %d", ErrInvalidFilename, i)
	}
	return nil
}

// ValidateMemberName checks a slash-separated tar member name. The name
// must stay inside the bundle and each component must pass ValidateFilename.
func ValidateMemberName(name string) error {
	if _, err := SanitizePath(".", name); err != nil {
		return err
	}
	for _, part := range strings.Split(path.Clean(name), "/") {
		if err := ValidateFilename(part); err != nil {
			return fmt.Errorf("member %s: %w", name, err)
		}
	}
	return nil
}

// ValidatePath performs comprehensive path validation without requiring a base directory.
// It checks for dangerous patterns, length limits, and invalid characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	// Check length
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	// Check for control characters
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// SanitizeFilename derives a filename from a model name. Separators become
// underscores; control bytes, surrounding space and leading hyphens are
// removed. Names with nothing usable left are rejected.
func SanitizeFilename(name string) (string, error) {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	name = strings.TrimLeft(strings.TrimSpace(name), "-")
	if err := ValidateFilename(name); err != nil {
		return "", err
	}
	return name, nil
}

// FileType represents a validated file type.
type FileType string

const (
	// Model formats
	FileTypeMDX FileType = "mdx"
	FileTypeMDL FileType = "mdl"

	// Archive and compression formats
	FileTypeTarXZ FileType = "tar.xz"
	FileTypeTarGZ FileType = "tar.gz"
	FileTypeTar   FileType = "tar"
	FileTypeGzip  FileType = "gzip"
	FileTypeXZ    FileType = "xz"

	// Catalog database
	FileTypeSQLite FileType = "sqlite"

	// Dump formats
	FileTypeJSON FileType = "json"
	FileTypeYAML FileType = "yaml"
	FileTypeCBOR FileType = "cbor"

	// Unknown
	FileTypeUnknown FileType = "unknown"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
	offset   int
}{
	{FileTypeMDX, []byte("MDLX"), 0},
	{FileTypeTar, []byte("ustar"), 257},
	{FileTypeGzip, []byte{0x1f, 0x8b}, 0},
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, 0},
	{FileTypeSQLite, []byte("SQLite format 3"), 0},
}

// ValidateFileType checks that the magic bytes of reader agree with the
// extension of filename and returns the type.
func ValidateFileType(reader io.Reader, filename string) (FileType, error) {
	// 512 bytes reach the ustar magic at offset 257
	buf := make([]byte, 512)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	detectedType := DetectFileType(buf)
	expectedType := detectFileTypeFromExtension(filename)

	// Compressed models and tarballs only show the compression magic.
	switch {
	case expectedType == FileTypeTarXZ && detectedType == FileTypeXZ:
		return FileTypeTarXZ, nil
	case expectedType == FileTypeTarGZ && detectedType == FileTypeGzip:
		return FileTypeTarGZ, nil
	case detectedType == expectedType:
		return detectedType, nil
	}

	// Text and CBOR dumps have no reliable magic.
	if detectedType == FileTypeUnknown {
		switch expectedType {
		case FileTypeMDL, FileTypeJSON, FileTypeYAML:
			if isLikelyText(buf) {
				return expectedType, nil
			}
			return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is binary", expectedType)
		case FileTypeCBOR:
			return FileTypeCBOR, nil
		}
	}

	if detectedType != FileTypeUnknown && expectedType != FileTypeUnknown {
		return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is %s", expectedType, detectedType)
	}
	if detectedType == FileTypeUnknown {
		return expectedType, nil
	}
	return detectedType, nil
}

// DetectFileType detects a file type from the leading bytes of its content.
func DetectFileType(buf []byte) FileType {
	for _, sig := range magicBytes {
		if sig.offset+len(sig.magic) <= len(buf) {
			if bytes.Equal(buf[sig.offset:sig.offset+len(sig.magic)], sig.magic) {
				return sig.fileType
			}
		}
	}
	return FileTypeUnknown
}

// FileTypeFromName returns the type the extension of filename implies.
func FileTypeFromName(filename string) FileType {
	return detectFileTypeFromExtension(filename)
}

// detectFileTypeFromExtension determines expected file type from filename extension.
func detectFileTypeFromExtension(filename string) FileType {
	lower := strings.ToLower(filename)

	// Multi-extension formats (check these first)
	if strings.HasSuffix(lower, ".tar.xz") || strings.HasSuffix(lower, ".txz") {
		return FileTypeTarXZ
	}
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return FileTypeTarGZ
	}

	switch filepath.Ext(lower) {
	case ".mdx":
		return FileTypeMDX
	case ".mdl":
		return FileTypeMDL
	case ".tar":
		return FileTypeTar
	case ".xz":
		return FileTypeXZ
	case ".gz":
		return FileTypeGzip
	case ".sqlite", ".db", ".sqlite3":
		return FileTypeSQLite
	case ".json":
		return FileTypeJSON
	case ".yaml", ".yml":
		return FileTypeYAML
	case ".cbor":
		return FileTypeCBOR
	default:
		return FileTypeUnknown
	}
}

// isLikelyText checks if the buffer contains likely text content.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	// Check for null bytes (strong indicator of binary content)
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// UTF-8 continuation bytes (0x80-0xBF) and start bytes (0xC0-0xFD) are neutral
	}

	// If more than 95% is printable, consider it text
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
