package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/mdxkit/core/mdx"
	"github.com/FocuswithJustin/mdxkit/core/mdx/mdxtest"
	"github.com/FocuswithJustin/mdxkit/core/wire"
	"github.com/FocuswithJustin/mdxkit/internal/archive"
	"github.com/FocuswithJustin/mdxkit/internal/catalog"
)

// Test helper functions

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func createTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// withUnknown is a full model with an unrecognized chunk in front.
func withUnknown() []byte {
	m := mdxtest.Model(900)
	m.Unknown = []mdx.RawChunk{{Tag: mdxtest.Unknown, Data: []byte("extra")}}
	m.Order = wire.Order{mdxtest.Unknown}
	return mdxtest.Encode(m)
}

func TestInfoCmd_Run(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "footman.mdx", withUnknown())
	out := captureOutput(t)

	if err := (&InfoCmd{Path: path}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"Version: 900", "Name: Footman", "GEOS", "Unknown chunks: 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := (&InfoCmd{Path: filepath.Join(dir, "missing.mdx")}).Run(); err == nil {
		t.Error("Run() on missing file should fail")
	}
}

func TestChunksCmd_Run(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "m.mdx", withUnknown())
	out := captureOutput(t)

	if err := (&ChunksCmd{Path: path}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 26 {
		t.Fatalf("got %d lines, want header + 25 chunks:\n%s", len(lines), out)
	}
	if f := strings.Fields(lines[1]); f[0] != "ZZZZ" || f[1] != "4" || f[3] != "unknown" {
		t.Errorf("first chunk line = %q", lines[1])
	}

	bad := createTestFile(t, dir, "bad.mdx", []byte("MDLXVERS\x10\x00\x00\x00"))
	if err := (&ChunksCmd{Path: bad}).Run(); err == nil {
		t.Error("Run() on overrunning chunk should fail")
	}
}

func TestVerifyCmd_Run(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, dir, "a.mdx", withUnknown())
	createTestFile(t, dir, "b.mdx", mdxtest.Encode(mdxtest.Minimal(800)))

	t.Run("all pass", func(t *testing.T) {
		out := captureOutput(t)
		if err := (&VerifyCmd{Paths: []string{dir}, Jobs: 2}).Run(); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !strings.Contains(out.String(), "2 passed, 0 failed") {
			t.Errorf("output = %s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out := captureOutput(t)
		if err := (&VerifyCmd{Paths: []string{dir}, JSON: true}).Run(); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		var report struct {
			Status string `json:"status"`
			Passed int    `json:"passed"`
		}
		if err := json.Unmarshal(out.Bytes(), &report); err != nil {
			t.Fatalf("invalid report: %v", err)
		}
		if report.Status != "pass" || report.Passed != 2 {
			t.Errorf("report = %+v", report)
		}
	})

	t.Run("failure", func(t *testing.T) {
		createTestFile(t, dir, "c.mdx", []byte("MDLXJUNK"))
		out := captureOutput(t)
		if err := (&VerifyCmd{Paths: []string{dir}}).Run(); err == nil {
			t.Error("Run() should fail when a model fails")
		}
		if !strings.Contains(out.String(), "FAIL "+filepath.Join(dir, "c.mdx")) {
			t.Errorf("output = %s", out)
		}
	})
}

func TestDumpAndBuild(t *testing.T) {
	dir := t.TempDir()
	data := withUnknown()
	src := createTestFile(t, dir, "m.mdx", data)
	captureOutput(t)

	for _, name := range []string{"m.json", "m.yaml", "m.cbor"} {
		t.Run(name, func(t *testing.T) {
			dumped := filepath.Join(dir, name)
			if err := (&DumpCmd{Path: src, Out: dumped}).Run(); err != nil {
				t.Fatalf("dump: %v", err)
			}
			built := filepath.Join(dir, name+".mdx.xz")
			if err := (&BuildCmd{Path: dumped, Out: built}).Run(); err != nil {
				t.Fatalf("build: %v", err)
			}
			got, err := archive.ReadModelFile(built)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("rebuilt model differs from source")
			}
		})
	}

	t.Run("stdout", func(t *testing.T) {
		out := captureOutput(t)
		if err := (&DumpCmd{Path: src, Format: "yaml"}).Run(); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "order: [ZZZZ, VERS") {
			t.Errorf("yaml dump = %s", out)
		}
	})

	t.Run("errors", func(t *testing.T) {
		if err := (&DumpCmd{Path: src, Format: "xml"}).Run(); err == nil {
			t.Error("dump with unknown format should fail")
		}
		if err := (&DumpCmd{Path: src, Out: filepath.Join(dir, "m.txt")}).Run(); err == nil {
			t.Error("dump to unknown extension should fail")
		}
		bad := createTestFile(t, dir, "bad.json", []byte(`{"version": "x"}`))
		if err := (&BuildCmd{Path: bad, Out: filepath.Join(dir, "bad.mdx")}).Run(); err == nil {
			t.Error("build from invalid dump should fail")
		}
	})
}

func TestRewriteCmd_Run(t *testing.T) {
	dir := t.TempDir()
	data := withUnknown()
	src := createTestFile(t, dir, "m.mdx", data)
	captureOutput(t)

	t.Run("identity", func(t *testing.T) {
		out := filepath.Join(dir, "same.mdx.gz")
		if err := (&RewriteCmd{Path: src, Out: out}).Run(); err != nil {
			t.Fatal(err)
		}
		got, err := archive.ReadModelFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, data) {
			t.Error("rewrite changed the model")
		}
	})

	t.Run("strip unknown", func(t *testing.T) {
		out := filepath.Join(dir, "stripped.mdx")
		if err := (&RewriteCmd{Path: src, Out: out, StripUnknown: true}).Run(); err != nil {
			t.Fatal(err)
		}
		got, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if want := mdxtest.Encode(mdxtest.Model(900)); !bytes.Equal(got, want) {
			t.Error("stripped model should equal the model without the unknown chunk")
		}
	})

	t.Run("bundle", func(t *testing.T) {
		bundle := filepath.Join(dir, "pack.tar.gz")
		entries := []archive.Entry{
			{Member: "units/a.mdx", Data: data},
			{Member: "units/b.mdx.xz", Data: mdxtest.Encode(mdxtest.Minimal(800))},
		}
		if err := archive.WriteBundle(bundle, entries); err != nil {
			t.Fatal(err)
		}
		out := filepath.Join(dir, "pack-clean.tar.xz")
		if err := (&RewriteCmd{Path: bundle, Out: out, StripUnknown: true}).Run(); err != nil {
			t.Fatal(err)
		}
		got, err := archive.ReadModelFile(out + archive.MemberSep + "units/a.mdx")
		if err != nil {
			t.Fatal(err)
		}
		if want := mdxtest.Encode(mdxtest.Model(900)); !bytes.Equal(got, want) {
			t.Error("bundle member was not stripped")
		}
		if _, err := archive.ReadModelFile(out + archive.MemberSep + "units/b.mdx.xz"); err != nil {
			t.Errorf("compressed member missing: %v", err)
		}
	})
}

func TestIndexAndCatalog(t *testing.T) {
	dir := t.TempDir()
	models := filepath.Join(dir, "models")
	if err := os.Mkdir(models, 0755); err != nil {
		t.Fatal(err)
	}
	createTestFile(t, models, "a.mdx", withUnknown())
	createTestFile(t, models, "b.mdx", mdxtest.Encode(mdxtest.Minimal(800)))
	createTestFile(t, models, "broken.mdx", []byte("MDLXJUNK"))
	db := filepath.Join(dir, "catalog.db")
	store := filepath.Join(dir, "store")

	out := captureOutput(t)
	if err := (&IndexCmd{Paths: []string{models}, DB: db, Store: store, Jobs: 2}).Run(); err != nil {
		t.Fatalf("index: %v", err)
	}
	if !strings.Contains(out.String(), "Indexed 3 models (1 failed round trip)") {
		t.Errorf("index output = %s", out)
	}

	t.Run("table", func(t *testing.T) {
		out := captureOutput(t)
		if err := (&CatalogCmd{DB: db}).Run(); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "3 models, 1 failed, 3 blobs, 1 scans") {
			t.Errorf("catalog output = %s", out)
		}
	})

	t.Run("failed json", func(t *testing.T) {
		out := captureOutput(t)
		if err := (&CatalogCmd{DB: db, Failed: true, JSON: true}).Run(); err != nil {
			t.Fatal(err)
		}
		var entries []catalog.Entry
		if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(entries) != 1 || filepath.Base(entries[0].Path) != "broken.mdx" {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("bad scan id", func(t *testing.T) {
		if err := (&CatalogCmd{DB: db, Scan: "nope"}).Run(); err == nil {
			t.Error("invalid scan id should fail")
		}
	})

	t.Run("reindex shares blobs", func(t *testing.T) {
		createTestFile(t, models, "copy.mdx", mdxtest.Encode(mdxtest.Minimal(800)))
		if err := (&IndexCmd{Paths: []string{models}, DB: db, Store: store, Jobs: 1}).Run(); err != nil {
			t.Fatalf("index: %v", err)
		}
		out := captureOutput(t)
		if err := (&CatalogCmd{DB: db}).Run(); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "4 models, 1 failed, 3 blobs, 2 scans") {
			t.Errorf("catalog output = %s", out)
		}
	})
}

func TestVersionCmd_Run(t *testing.T) {
	out := captureOutput(t)
	if err := (&VersionCmd{}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "mdx version "+version) {
		t.Errorf("output = %s", out)
	}
}

func TestParseFlags(t *testing.T) {
	t.Setenv("MDX_LOG_LEVEL", "debug")
	parser, err := kong.New(&CLI, kong.Name("mdx"), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	ctx, err := parser.Parse([]string{"verify", "-j", "3", "--json", "a.mdx", "b.mdx"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !strings.HasPrefix(ctx.Command(), "verify") {
		t.Errorf("Command() = %q", ctx.Command())
	}
	if CLI.Verify.Jobs != 3 || !CLI.Verify.JSON || len(CLI.Verify.Paths) != 2 {
		t.Errorf("verify flags = %+v", CLI.Verify)
	}
	if CLI.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug from environment", CLI.LogLevel)
	}
	if err := initLogging(CLI.LogLevel, CLI.LogFormat); err != nil {
		t.Errorf("initLogging() error = %v", err)
	}
	if err := initLogging("loud", "text"); err == nil {
		t.Error("initLogging() should reject an unknown level")
	}
	t.Cleanup(func() { initLogging("warn", "text") })
}
