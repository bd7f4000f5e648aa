package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/internal/logging"
	"github.com/FocuswithJustin/mdxkit/internal/validation"
)

// MemberSep joins a bundle path and a member name, as in units.tar.xz!footman.mdx.
const MemberSep = "!"

var modelSuffixes = []string{".mdx.xz", ".mdx.gz", ".mdx"}

// Entry is one model found in a source.
type Entry struct {
	Source string // file or bundle on disk
	Member string // tar member name, empty for plain files
	Data   []byte // decompressed model bytes
}

// Path names the entry for display and catalog keys.
func (e Entry) Path() string {
	if e.Member == "" {
		return e.Source
	}
	return e.Source + MemberSep + e.Member
}

// IsModelName reports whether name looks like a model file.
func IsModelName(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range modelSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// IsBundleName reports whether name looks like a tar bundle.
func IsBundleName(name string) bool {
	return bundleCompression(name) != compressUnsupported
}

// ModelName returns the base name of a model path without its model
// suffixes, e.g. "Footman" for Units/Footman.mdx.xz.
func ModelName(path string) string {
	if i := strings.LastIndex(path, MemberSep); i >= 0 {
		path = path[i+1:]
	}
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, s := range modelSuffixes {
		if strings.HasSuffix(lower, s) {
			return base[:len(base)-len(s)]
		}
	}
	return base
}

// splitMember splits bundle!member. ok is false for plain paths.
func splitMember(path string) (bundle, member string, ok bool) {
	i := strings.LastIndex(path, MemberSep)
	if i <= 0 || !IsBundleName(path[:i]) {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

// readLimited reads at most validation.MaxFileSize bytes of one model.
func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, validation.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > validation.MaxFileSize {
		return nil, fmt.Errorf("read %s: larger than %d bytes", name, validation.MaxFileSize)
	}
	return data, nil
}

// memberCompression picks the wrapper of a single model by its name.
func memberCompression(name string) compression {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return compressGzip
	case strings.HasSuffix(lower, ".xz"):
		return compressXZ
	}
	return compressNone
}

func readModel(r io.Reader, name string, c compression) ([]byte, error) {
	dr, closer, err := decompress(r, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if closer != nil {
		defer closer.Close()
	}
	return readLimited(dr, name)
}

// ReadModelFile returns the bytes of one model: a plain or compressed
// model file, or a bundle member written as bundle!member.
func ReadModelFile(path string) ([]byte, error) {
	if bundle, member, ok := splitMember(path); ok {
		data, err := ReadFile(bundle, member)
		if err != nil {
			return nil, err
		}
		if c := memberCompression(member); c != compressNone {
			return readModel(bytes.NewReader(data), path, c)
		}
		return data, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	ft, err := validation.ValidateFileType(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.NewIO("seek", path, err)
	}

	switch ft {
	case validation.FileTypeMDX:
		return readLimited(f, path)
	case validation.FileTypeGzip:
		return readModel(f, path, compressGzip)
	case validation.FileTypeXZ:
		return readModel(f, path, compressXZ)
	}
	return nil, errors.NewUnsupported("model source", fmt.Sprintf("%s is %s", path, ft))
}

// Walk calls fn for every model under path. path may be a model file, a
// bundle, a bundle member, or a directory searched recursively. Bundle
// members whose names escape the bundle are skipped.
func Walk(path string, fn func(Entry) error) error {
	if _, _, ok := splitMember(path); ok {
		data, err := ReadModelFile(path)
		if err != nil {
			return err
		}
		bundle, member, _ := splitMember(path)
		return fn(Entry{Source: bundle, Member: member, Data: data})
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.NewIO("stat", path, err)
	}
	if !info.IsDir() {
		return walkFile(path, fn)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !(IsModelName(p) || IsBundleName(p)) {
			return nil
		}
		return walkFile(p, fn)
	})
}

func walkFile(path string, fn func(Entry) error) error {
	if !IsBundleName(path) {
		data, err := ReadModelFile(path)
		if err != nil {
			return err
		}
		return fn(Entry{Source: path, Data: data})
	}

	return IterateBundle(path, func(header *tar.Header, r io.Reader) (bool, error) {
		if !header.FileInfo().Mode().IsRegular() || !IsModelName(header.Name) {
			return false, nil
		}
		if err := validation.ValidateMemberName(header.Name); err != nil {
			logging.Warn("skipping bundle member", "bundle", path, "member", header.Name, "error", err)
			return false, nil
		}
		data, err := readModel(r, header.Name, memberCompression(header.Name))
		if err != nil {
			return true, err
		}
		return false, fn(Entry{Source: path, Member: header.Name, Data: data})
	})
}
