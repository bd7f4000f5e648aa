package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/mdxkit/internal/validation"
	"github.com/ulikunitz/xz"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// epoch is the modification time written into bundles so output is reproducible.
var epoch = time.Unix(0, 0).UTC()

// compressWriter wraps w for c.
func compressWriter(w io.Writer, c compression) (io.WriteCloser, error) {
	switch c {
	case compressGzip:
		return gzip.NewWriter(w), nil
	case compressXZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		return xw, nil
	}
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// WriteFile writes one model to path, compressed when path ends in .xz or
// .gz. The file is replaced atomically.
func WriteFile(path string, data []byte) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw, err := compressWriter(w, memberCompression(path))
		if err != nil {
			return err
		}
		if _, err := cw.Write(data); err != nil {
			cw.Close()
			return err
		}
		return cw.Close()
	})
}

// WriteBundle writes entries as a tar bundle, compressed by the suffix of
// path. Entries without a member name are stored under their model name.
// Member names that would escape the bundle are rejected.
func WriteBundle(path string, entries []Entry) error {
	c := bundleCompression(path)
	if c == compressUnsupported {
		return fmt.Errorf("unsupported archive format: %s", path)
	}
	return writeAtomic(path, func(w io.Writer) error {
		cw, err := compressWriter(w, c)
		if err != nil {
			return err
		}
		tw := tar.NewWriter(cw)
		for _, e := range entries {
			name, err := memberName(e)
			if err != nil {
				return err
			}
			data, err := encodeMember(name, e.Data)
			if err != nil {
				return err
			}
			if err := tw.WriteHeader(&tar.Header{
				Name:     name,
				Mode:     0644,
				Size:     int64(len(data)),
				ModTime:  epoch,
				Typeflag: tar.TypeReg,
			}); err != nil {
				return err
			}
			if _, err := tw.Write(data); err != nil {
				return err
			}
		}
		if err := tw.Close(); err != nil {
			return err
		}
		return cw.Close()
	})
}

// memberName returns the tar name for e. Plain files are stored under a
// sanitized form of their model name.
func memberName(e Entry) (string, error) {
	if e.Member == "" {
		name, err := validation.SanitizeFilename(ModelName(e.Source))
		if err != nil {
			return "", fmt.Errorf("no member name for %s: %w", e.Source, err)
		}
		return name + ".mdx", nil
	}
	name := filepath.ToSlash(e.Member)
	if err := validation.ValidateMemberName(name); err != nil {
		return "", err
	}
	return name, nil
}

// encodeMember compresses a member whose name ends in .gz or .xz.
func encodeMember(name string, data []byte) ([]byte, error) {
	c := memberCompression(name)
	if c == compressNone {
		return data, nil
	}
	var buf bytes.Buffer
	cw, err := compressWriter(&buf, c)
	if err != nil {
		return nil, err
	}
	if _, err := cw.Write(data); err != nil {
		return nil, err
	}
	if err := cw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic runs fill into a temp file next to path and renames it into place.
func writeAtomic(path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+strings.TrimPrefix(filepath.Base(path), ".")+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := fill(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := osRename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename output: %w", err)
	}
	return nil
}
