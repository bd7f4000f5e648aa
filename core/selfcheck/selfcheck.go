// Package selfcheck verifies that models survive a decode and re-encode
// pass byte for byte, and reports the outcome per model.
package selfcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/FocuswithJustin/mdxkit/core/cache"
	"github.com/FocuswithJustin/mdxkit/core/cas"
	"github.com/FocuswithJustin/mdxkit/core/mdx"
	"github.com/FocuswithJustin/mdxkit/core/wire"
	"github.com/FocuswithJustin/mdxkit/internal/archive"
	"github.com/FocuswithJustin/mdxkit/internal/logging"
)

// ReportVersion is the report format version.
const ReportVersion = "1.0.0"

// Status values for reports.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Engine identifies the codec in reports.
const Engine = "mdxkit"

// HashInfo identifies a byte stream.
type HashInfo struct {
	BLAKE3 string `json:"blake3"`
	Size   int    `json:"size"`
}

func hashInfo(data []byte) *HashInfo {
	return &HashInfo{BLAKE3: cas.Hash(data), Size: len(data)}
}

// CheckResult is the outcome of verifying one model.
type CheckResult struct {
	Path     string    `json:"path"`
	Pass     bool      `json:"pass"`
	Expected *HashInfo `json:"expected"`
	Actual   *HashInfo `json:"actual,omitempty"`
	Version  *uint32   `json:"version,omitempty"`
	Name     string    `json:"name,omitempty"`
	Chunks   []string  `json:"chunks,omitempty"`
	Unknown  int       `json:"unknown,omitempty"`
	// Mismatch is the first differing offset, or -1 when the encodings agree.
	Mismatch int    `json:"mismatch"`
	Error    string `json:"error,omitempty"`
}

// Report collects the results of one verification run.
type Report struct {
	ReportVersion string        `json:"report_version"`
	CreatedAt     string        `json:"created_at"`
	Engine        string        `json:"engine"`
	Workers       int           `json:"workers"`
	Results       []CheckResult `json:"results"`
	Passed        int           `json:"passed"`
	Failed        int           `json:"failed"`
	Status        string        `json:"status"`
}

// ToJSON serializes the report.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Hash returns the BLAKE3 hash of the results, independent of timing.
func (r *Report) Hash() string {
	data, _ := json.Marshal(r.Results)
	return cas.Hash(data)
}

func (r *Report) add(res CheckResult) {
	r.Results = append(r.Results, res)
	if res.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

func (r *Report) finish() {
	sort.Slice(r.Results, func(i, j int) bool {
		return r.Results[i].Path < r.Results[j].Path
	})
	r.Status = StatusPass
	if r.Failed > 0 {
		r.Status = StatusFail
	}
}

// Check decodes data, encodes the result and compares the two encodings.
func Check(ctx context.Context, path string, data []byte) CheckResult {
	return check(ctx, path, data, hashInfo(data))
}

func check(ctx context.Context, path string, data []byte, expected *HashInfo) CheckResult {
	res := CheckResult{Path: path, Expected: expected, Mismatch: -1}
	ctx = logging.WithFile(ctx, path)

	m, err := mdx.Parse(data)
	if err != nil {
		res.Error = err.Error()
		logging.RoundTrip(ctx, false, len(data), "error", err)
		return res
	}
	res.Version = m.Version
	if m.Info != nil {
		res.Name = wire.TrimLiteral(m.Info.Name)
	}
	for _, tag := range m.Order {
		res.Chunks = append(res.Chunks, tag.String())
	}
	res.Unknown = len(m.Unknown)
	if res.Unknown > 0 {
		logging.DebugContext(ctx, "unknown chunks retained", "count", res.Unknown)
	}

	out, err := mdx.Encode(m)
	if err != nil {
		res.Error = err.Error()
		logging.RoundTrip(ctx, false, len(data), "error", err)
		return res
	}
	res.Actual = hashInfo(out)
	res.Pass = bytes.Equal(out, data)
	if !res.Pass {
		res.Mismatch = firstDiff(data, out)
		res.Error = fmt.Sprintf("re-encoded bytes differ at offset %d", res.Mismatch)
	}
	logging.RoundTrip(ctx, res.Pass, len(data), "version", m.FormatVersion(), "chunks", len(m.Order))
	return res
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// Visit receives each checked model with its bytes.
type Visit func(entry archive.Entry, res CheckResult) error

// resultCacheSize bounds the number of remembered results per executor.
const resultCacheSize = 4096

// Executor runs checks over model sources with a bounded number of workers.
// Models with identical bytes are checked once.
type Executor struct {
	Workers int
	// OnResult, if set, is called for every result from a single goroutine.
	// A returned error stops the run.
	OnResult Visit

	now     func() time.Time
	results *cache.LRU[string, CheckResult]
}

// NewExecutor creates an executor; workers <= 0 means one per CPU.
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Executor{
		Workers: workers,
		now:     time.Now,
		results: cache.New[string, CheckResult](resultCacheSize),
	}
}

// CacheStats reports how many checks were answered from earlier results.
func (e *Executor) CacheStats() cache.Stats {
	if e.results == nil {
		return cache.Stats{}
	}
	return e.results.Stats()
}

func (e *Executor) check(ctx context.Context, entry archive.Entry) CheckResult {
	expected := hashInfo(entry.Data)
	if e.results == nil {
		return check(ctx, entry.Path(), entry.Data, expected)
	}
	if res, ok := e.results.Get(expected.BLAKE3); ok {
		logging.DebugContext(logging.WithFile(ctx, entry.Path()), "duplicate model", "as", res.Path)
		res.Path = entry.Path()
		return res
	}
	res := check(ctx, entry.Path(), entry.Data, expected)
	e.results.Put(expected.BLAKE3, res)
	return res
}

type outcome struct {
	entry archive.Entry
	res   CheckResult
}

// Execute checks every model found under paths.
func (e *Executor) Execute(ctx context.Context, paths ...string) (*Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	now := e.now
	if now == nil {
		now = time.Now
	}
	workers := max(e.Workers, 1)
	report := &Report{
		ReportVersion: ReportVersion,
		CreatedAt:     now().UTC().Format(time.RFC3339),
		Engine:        Engine,
		Workers:       workers,
		Results:       make([]CheckResult, 0),
	}

	var (
		wg      sync.WaitGroup
		walkErr error
	)
	sem := make(chan struct{}, workers)
	results := make(chan outcome, workers)

	go func() {
		defer func() {
			wg.Wait()
			close(results)
		}()
		for _, path := range paths {
			err := archive.Walk(path, func(entry archive.Entry) error {
				select {
				case sem <- struct{}{}: // Acquire
				case <-ctx.Done():
					return ctx.Err()
				}
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer func() { <-sem }() // Release
					results <- outcome{entry: entry, res: e.check(ctx, entry)}
				}()
				return nil
			})
			if err != nil {
				logging.WarnContext(ctx, "walk stopped", "path", path, "error", err)
				walkErr = err
				return
			}
		}
	}()

	var visitErr error
	for o := range results {
		if visitErr != nil {
			continue
		}
		report.add(o.res)
		if e.OnResult != nil {
			if err := e.OnResult(o.entry, o.res); err != nil {
				logging.ErrorContext(logging.WithFile(ctx, o.res.Path), "result handler failed", "error", err)
				visitErr = err
				cancel()
			}
		}
	}
	report.finish()
	logging.InfoContext(ctx, "run finished", "passed", report.Passed, "failed", report.Failed)

	if visitErr != nil {
		return report, visitErr
	}
	if walkErr != nil {
		return report, walkErr
	}
	return report, nil
}
