package cas

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/blake3"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

// TestPutAndGet tests that storing a blob returns its BLAKE3 hash and that
// retrieving by hash returns the exact same bytes.
func TestPutAndGet(t *testing.T) {
	store := newTestStore(t)
	testData := []byte("MDLX\x00\x01\x02")

	h := blake3.Sum256(testData)
	wantHash := hex.EncodeToString(h[:])

	hash, err := store.Put(testData)
	if err != nil {
		t.Fatalf("failed to store blob: %v", err)
	}
	if hash != wantHash {
		t.Errorf("hash mismatch: got %s, want %s", hash, wantHash)
	}

	got, err := store.Get(hash)
	if err != nil {
		t.Fatalf("failed to retrieve blob: %v", err)
	}
	if !bytes.Equal(got, testData) {
		t.Errorf("retrieved data mismatch: got %q, want %q", got, testData)
	}

	blobPath := filepath.Join(store.Root(), "blobs", "blake3", hash[:2], hash)
	if _, err := os.Stat(blobPath); err != nil {
		t.Errorf("blob should exist at %s: %v", blobPath, err)
	}
}

// TestPutDuplicate tests that identical content is stored once.
func TestPutDuplicate(t *testing.T) {
	store := newTestStore(t)
	data := []byte("duplicate model")

	hash1, err := store.Put(data)
	if err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	hash2, err := store.Put(data)
	if err != nil {
		t.Fatalf("second put failed: %v", err)
	}
	if hash1 != hash2 {
		t.Errorf("duplicate hashes differ: %s != %s", hash1, hash2)
	}

	entries, err := os.ReadDir(filepath.Dir(store.pathForHash(hash1)))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("prefix directory holds %d files, want 1", len(entries))
	}
}

func TestGetErrors(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name string
		hash string
		want error
	}{
		{"missing", strings.Repeat("0", 64), ErrBlobNotFound},
		{"short", "abc", ErrInvalidHash},
		{"uppercase", strings.Repeat("A", 64), ErrInvalidHash},
		{"traversal", "../../../../etc/passwd" + strings.Repeat("0", 42), ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Get(tt.hash); !errors.Is(err, tt.want) {
				t.Errorf("Get(%q) error = %v, want %v", tt.hash, err, tt.want)
			}
			if store.Has(tt.hash) {
				t.Errorf("Has(%q) = true", tt.hash)
			}
		})
	}
}

func TestGetCorrupt(t *testing.T) {
	store := newTestStore(t)
	hash, err := store.Put([]byte("original"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := os.WriteFile(store.pathForHash(hash), []byte("tampered"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := store.Get(hash); err == nil || !strings.Contains(err.Error(), "corrupt") {
		t.Errorf("Get() error = %v, want corruption", err)
	}
}

func TestPutEmpty(t *testing.T) {
	store := newTestStore(t)
	hash, err := store.Put(nil)
	if err != nil {
		t.Fatalf("Put(nil): %v", err)
	}
	if hash != Hash([]byte{}) {
		t.Errorf("empty hash = %s", hash)
	}
	got, err := store.Get(hash)
	if err != nil || len(got) != 0 {
		t.Errorf("Get() = %q, %v", got, err)
	}
	if !store.Has(hash) {
		t.Error("Has() = false after Put")
	}
}

func TestPutFailures(t *testing.T) {
	tests := []struct {
		name    string
		install func() func()
		want    string
	}{
		{
			name: "write",
			install: func() func() {
				orig := tempFileWrite
				tempFileWrite = func(*os.File, []byte) (int, error) { return 0, errors.New("disk full") }
				return func() { tempFileWrite = orig }
			},
			want: "failed to write blob",
		},
		{
			name: "close",
			install: func() func() {
				orig := tempFileClose
				tempFileClose = func(f io.Closer) error {
					f.Close()
					return errors.New("close failed")
				}
				return func() { tempFileClose = orig }
			},
			want: "failed to close temp file",
		},
		{
			name: "rename",
			install: func() func() {
				orig := osRename
				osRename = func(string, string) error { return errors.New("rename failed") }
				return func() { osRename = orig }
			},
			want: "failed to rename blob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			restore := tt.install()
			defer restore()

			_, err := store.Put([]byte("payload " + tt.name))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Put() error = %v, want %q", err, tt.want)
			}
			hash := Hash([]byte("payload " + tt.name))
			entries, _ := os.ReadDir(filepath.Dir(store.pathForHash(hash)))
			if len(entries) != 0 {
				t.Errorf("temp file left behind: %v", entries)
			}
		})
	}
}

func TestNewStoreError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(file); err == nil {
		t.Error("NewStore() over a regular file should fail")
	}
}

func TestHash(t *testing.T) {
	if got := Hash([]byte("MDLXVERS")); !isValidHash(got) {
		t.Errorf("Hash() = %q, not a valid hash", got)
	}
	if Hash(nil) == Hash([]byte{0}) {
		t.Error("empty and zero-byte inputs hash alike")
	}
}
