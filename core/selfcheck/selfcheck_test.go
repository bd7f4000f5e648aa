package selfcheck

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FocuswithJustin/mdxkit/core/cas"
	"github.com/FocuswithJustin/mdxkit/core/mdx/mdxtest"
	"github.com/FocuswithJustin/mdxkit/internal/archive"
	"github.com/FocuswithJustin/mdxkit/internal/logging"
)

func writeModel(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// duplicate carries the version chunk twice; it parses but encodes shorter.
func duplicate() []byte {
	return mdxtest.Document(mdxtest.Version(800), mdxtest.Version(800))
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	valid := mdxtest.Encode(mdxtest.Model(900))

	tests := []struct {
		name         string
		data         []byte
		wantPass     bool
		wantMismatch int
		wantErr      string
	}{
		{"valid", valid, true, -1, ""},
		{"duplicate chunk", duplicate(), false, 16, "differ at offset 16"},
		{"truncated", valid[:20], false, -1, "failed to parse MDX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(ctx, tt.name+".mdx", tt.data)
			if res.Pass != tt.wantPass {
				t.Errorf("Pass = %v, want %v (%s)", res.Pass, tt.wantPass, res.Error)
			}
			if res.Mismatch != tt.wantMismatch {
				t.Errorf("Mismatch = %d, want %d", res.Mismatch, tt.wantMismatch)
			}
			if !strings.Contains(res.Error, tt.wantErr) {
				t.Errorf("Error = %q, want %q", res.Error, tt.wantErr)
			}
			if res.Expected.BLAKE3 != cas.Hash(tt.data) || res.Expected.Size != len(tt.data) {
				t.Errorf("Expected = %+v", res.Expected)
			}
		})
	}

	res := Check(ctx, "model.mdx", valid)
	if res.Version == nil || *res.Version != 900 {
		t.Errorf("Version = %v, want 900", res.Version)
	}
	if len(res.Chunks) != 24 || res.Chunks[0] != "VERS" {
		t.Errorf("Chunks = %v", res.Chunks)
	}
	if res.Actual == nil || res.Actual.BLAKE3 != res.Expected.BLAKE3 {
		t.Errorf("Actual = %+v, want match", res.Actual)
	}
}

func TestFirstDiff(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "abc", -1},
		{"abc", "abd", 2},
		{"abc", "ab", 2},
		{"", "x", 0},
		{"", "", -1},
	}
	for _, tt := range tests {
		if got := firstDiff([]byte(tt.a), []byte(tt.b)); got != tt.want {
			t.Errorf("firstDiff(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "a.mdx", mdxtest.Encode(mdxtest.Minimal(800)))
	writeModel(t, dir, "b.mdx", duplicate())
	writeModel(t, dir, "c.mdx", []byte("MDLXVERS"))
	writeModel(t, dir, "notes.txt", []byte("not a model"))
	sub := filepath.Join(dir, "units")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeModel(t, sub, "d.mdx", mdxtest.Encode(mdxtest.Model(1000)))

	for _, workers := range []int{1, 4} {
		e := NewExecutor(workers)
		e.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

		var seen int
		e.OnResult = func(entry archive.Entry, res CheckResult) error {
			seen++
			if entry.Path() != res.Path {
				t.Errorf("entry %s reported as %s", entry.Path(), res.Path)
			}
			return nil
		}

		report, err := e.Execute(context.Background(), dir)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if seen != 4 || len(report.Results) != 4 {
			t.Fatalf("visited %d, reported %d, want 4", seen, len(report.Results))
		}
		if report.Passed != 2 || report.Failed != 2 || report.Status != StatusFail {
			t.Errorf("report = %d passed, %d failed, %s", report.Passed, report.Failed, report.Status)
		}
		if report.CreatedAt != "2024-01-02T03:04:05Z" || report.Workers != workers {
			t.Errorf("report header = %s, %d workers", report.CreatedAt, report.Workers)
		}
		for i, want := range []string{"a.mdx", "b.mdx", "c.mdx", filepath.Join("units", "d.mdx")} {
			if got := report.Results[i].Path; got != filepath.Join(dir, want) {
				t.Errorf("result %d = %s, want %s", i, got, want)
			}
		}
	}
}

func TestExecuteStops(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mdx", "b.mdx", "c.mdx"} {
		writeModel(t, dir, name, mdxtest.Encode(mdxtest.Minimal(800)))
	}

	stop := errors.New("stop")
	e := NewExecutor(1)
	e.OnResult = func(archive.Entry, CheckResult) error { return stop }
	if _, err := e.Execute(context.Background(), dir); !errors.Is(err, stop) {
		t.Errorf("Execute() error = %v, want stop", err)
	}

	if _, err := NewExecutor(2).Execute(context.Background(), filepath.Join(dir, "missing.mdx")); err == nil {
		t.Error("Execute() on a missing path should fail")
	}
}

func TestReport(t *testing.T) {
	r := &Report{ReportVersion: ReportVersion}
	r.add(CheckResult{Path: "b.mdx", Pass: true})
	r.add(CheckResult{Path: "a.mdx", Pass: true})
	r.finish()

	if r.Status != StatusPass || r.Results[0].Path != "a.mdx" {
		t.Errorf("report = %+v", r)
	}
	data, err := r.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"status": "pass"`) {
		t.Errorf("ToJSON() = %s", data)
	}

	again := &Report{Results: r.Results, CreatedAt: "later"}
	if r.Hash() != again.Hash() {
		t.Error("Hash() should only depend on results")
	}
}

func TestExecuteDuplicates(t *testing.T) {
	dir := t.TempDir()
	data := mdxtest.Encode(mdxtest.Model(800))
	writeModel(t, dir, "a.mdx", data)
	writeModel(t, dir, "copy.mdx", data)

	e := NewExecutor(1)
	report, err := e.Execute(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if report.Passed != 2 {
		t.Fatalf("Passed = %d, want 2", report.Passed)
	}
	if report.Results[0].Path == report.Results[1].Path {
		t.Error("duplicate result kept the first path")
	}
	if hits := e.CacheStats().Hits; hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}
}

func TestExecuteLogs(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	logging.InitLogger(logging.LevelDebug, logging.FormatJSON)
	defer func() {
		logging.SetOutput(os.Stderr)
		logging.InitLogger(logging.LevelWarn, logging.FormatText)
	}()

	dir := t.TempDir()
	data := mdxtest.Document(mdxtest.Version(800), mdxtest.Chunk("ZZZZ", []byte{1}))
	writeModel(t, dir, "a.mdx", data)
	writeModel(t, dir, "b.mdx", data)

	e := NewExecutor(1)
	if _, err := e.Execute(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	e.OnResult = func(archive.Entry, CheckResult) error { return errors.New("disk full") }
	if _, err := e.Execute(context.Background(), dir); err == nil {
		t.Fatal("Execute() should fail when OnResult fails")
	}

	out := buf.String()
	for _, want := range []string{
		`"msg":"unknown chunks retained"`,
		`"msg":"duplicate model"`,
		`"msg":"result handler failed"`,
		`"msg":"run finished","passed":2,"failed":0`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
