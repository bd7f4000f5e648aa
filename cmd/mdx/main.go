// Command mdx inspects, verifies, dumps and rebuilds Warcraft III MDX models.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/mdxkit/core/cas"
	"github.com/FocuswithJustin/mdxkit/core/mdx"
	"github.com/FocuswithJustin/mdxkit/core/selfcheck"
	"github.com/FocuswithJustin/mdxkit/core/sqlite"
	"github.com/FocuswithJustin/mdxkit/core/wire"
	"github.com/FocuswithJustin/mdxkit/internal/archive"
	"github.com/FocuswithJustin/mdxkit/internal/catalog"
	"github.com/FocuswithJustin/mdxkit/internal/dump"
	"github.com/FocuswithJustin/mdxkit/internal/logging"
	"github.com/FocuswithJustin/mdxkit/internal/validation"
)

const version = "0.1.0"

// stdout receives command output.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for mdx.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" env:"MDX_LOG_LEVEL" default:"warn"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" env:"MDX_LOG_FORMAT" default:"text"`

	Info    InfoCmd    `cmd:"" help:"Summarize a model"`
	Chunks  ChunksCmd  `cmd:"" help:"List the top-level chunks of a model"`
	Verify  VerifyCmd  `cmd:"" help:"Check that models re-encode byte for byte"`
	Dump    DumpCmd    `cmd:"" help:"Write a model as JSON, YAML or CBOR"`
	Build   BuildCmd   `cmd:"" help:"Encode a dump back into a model"`
	Rewrite RewriteCmd `cmd:"" help:"Decode and re-encode a model or bundle"`
	Index   IndexCmd   `cmd:"" help:"Store models and record them in a catalog"`
	Catalog CatalogCmd `cmd:"" help:"Query a catalog"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func initLogging(level, format string) error {
	l, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	f, err := logging.ParseFormat(format)
	if err != nil {
		return err
	}
	logging.InitLogger(l, f)
	return nil
}

func loadModel(path string) (*mdx.Model, []byte, error) {
	data, err := archive.ReadModelFile(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := mdx.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, data, nil
}

// InfoCmd summarizes a model.
type InfoCmd struct {
	Path string `arg:"" help:"Model file or bundle!member"`
}

func (c *InfoCmd) Run() error {
	m, data, err := loadModel(c.Path)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Model: %s\n", c.Path)
	fmt.Fprintf(stdout, "  BLAKE3: %s\n", cas.Hash(data))
	fmt.Fprintf(stdout, "  Size: %d bytes\n", len(data))
	fmt.Fprintf(stdout, "  Version: %s\n", m.FormatVersion())
	if m.Info != nil {
		fmt.Fprintf(stdout, "  Name: %s\n", wire.TrimLiteral(m.Info.Name))
		if anim := wire.TrimLiteral(m.Info.AnimationFile); anim != "" {
			fmt.Fprintf(stdout, "  Animation file: %s\n", anim)
		}
		fmt.Fprintf(stdout, "  Bounds radius: %g\n", m.Info.Extent.BoundsRadius)
	}
	fmt.Fprintln(stdout, "  Chunks:")
	for _, k := range mdx.Kinds() {
		if m.Has(k) {
			fmt.Fprintf(stdout, "    %s %-20s %d\n", k.Tag(), k, m.Count(k))
		}
	}
	if n := m.Count(mdx.KindUnknown); n > 0 {
		fmt.Fprintf(stdout, "  Unknown chunks: %d\n", n)
	}
	return nil
}

// ChunksCmd lists the top-level chunks in stream order.
type ChunksCmd struct {
	Path string `arg:"" help:"Model file or bundle!member"`
}

func (c *ChunksCmd) Run() error {
	data, err := archive.ReadModelFile(c.Path)
	if err != nil {
		return err
	}
	r := wire.NewReader(data)
	if _, err := wire.ExpectTag(r, mdx.TagMDLX); err != nil {
		return fmt.Errorf("%s: %w", c.Path, err)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tOFFSET\tSIZE\tKIND")
	err = wire.ScanChunks(r, func(h wire.Header, chunk *wire.Reader) error {
		kind := "unknown"
		if k := mdx.KindOf(h.Tag); k != mdx.KindUnknown {
			kind = k.String()
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", h.Tag, chunk.Offset(), h.Size, kind)
		return chunk.Skip(chunk.Len())
	})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.Path, err)
	}
	return nil
}

// VerifyCmd round-trips models and reports mismatches.
type VerifyCmd struct {
	Paths []string `arg:"" help:"Model files, bundles or directories"`
	Jobs  int      `short:"j" help:"Number of parallel workers (default: number of CPUs)" default:"0"`
	JSON  bool     `help:"Print the full report as JSON"`
}

func (c *VerifyCmd) Run() error {
	e := selfcheck.NewExecutor(c.Jobs)
	report, err := e.Execute(context.Background(), c.Paths...)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := report.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n", data)
	} else {
		for _, res := range report.Results {
			if !res.Pass {
				fmt.Fprintf(stdout, "FAIL %s: %s\n", res.Path, res.Error)
			}
		}
		fmt.Fprintf(stdout, "Verified %d models: %d passed, %d failed\n", len(report.Results), report.Passed, report.Failed)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d models failed round trip", report.Failed, len(report.Results))
	}
	return nil
}

// DumpCmd writes a decoded model in an editable format.
type DumpCmd struct {
	Path   string `arg:"" help:"Model file or bundle!member"`
	Format string `short:"f" help:"Output format (json, yaml, cbor); inferred from --out when omitted"`
	Out    string `short:"o" help:"Output file (default: stdout)" type:"path"`
}

func (c *DumpCmd) format() (dump.Format, error) {
	if c.Format != "" {
		return dump.ParseFormat(c.Format)
	}
	if c.Out != "" {
		return dump.FormatFromPath(c.Out)
	}
	return dump.FormatJSON, nil
}

func (c *DumpCmd) Run() error {
	f, err := c.format()
	if err != nil {
		return err
	}
	m, _, err := loadModel(c.Path)
	if err != nil {
		return err
	}
	out, err := dump.Marshal(m, f)
	if err != nil {
		return err
	}

	if c.Out == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := os.WriteFile(c.Out, out, 0644); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	logging.Info("dump written", "path", c.Out, "format", f, "size", len(out))
	return nil
}

// BuildCmd encodes a dump into a model file.
type BuildCmd struct {
	Path   string `arg:"" help:"Dump file" type:"existingfile"`
	Format string `short:"f" help:"Input format (json, yaml, cbor); inferred from the file name when omitted"`
	Out    string `short:"o" required:"" help:"Output model (.mdx, .mdx.gz or .mdx.xz)" type:"path"`
}

func (c *BuildCmd) Run() error {
	var (
		f   dump.Format
		err error
	)
	if c.Format != "" {
		f, err = dump.ParseFormat(c.Format)
	} else {
		f, err = dump.FormatFromPath(c.Path)
	}
	if err != nil {
		return err
	}

	in, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}
	m, err := dump.Unmarshal(in, f)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Path, err)
	}
	data, err := mdx.Encode(m)
	if err != nil {
		return err
	}
	if err := archive.WriteFile(c.Out, data); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Built: %s (%d bytes)\n", c.Out, len(data))
	return nil
}

// RewriteCmd decodes and re-encodes models, optionally dropping unknown chunks.
type RewriteCmd struct {
	Path         string `arg:"" help:"Model file or bundle" type:"existingfile"`
	Out          string `short:"o" required:"" help:"Output model or bundle" type:"path"`
	StripUnknown bool   `name:"strip-unknown" help:"Drop chunks with unrecognized tags"`
}

func (c *RewriteCmd) rewrite(path string, data []byte) ([]byte, error) {
	m, err := mdx.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.StripUnknown {
		if n := m.StripUnknown(); n > 0 {
			logging.Info("stripped unknown chunks", "path", path, "count", n)
		}
	}
	return mdx.Encode(m)
}

func (c *RewriteCmd) Run() error {
	if !archive.IsBundleName(c.Path) {
		data, err := archive.ReadModelFile(c.Path)
		if err != nil {
			return err
		}
		out, err := c.rewrite(c.Path, data)
		if err != nil {
			return err
		}
		if err := archive.WriteFile(c.Out, out); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Rewrote: %s -> %s\n", c.Path, c.Out)
		return nil
	}

	var entries []archive.Entry
	err := archive.Walk(c.Path, func(e archive.Entry) error {
		out, err := c.rewrite(e.Path(), e.Data)
		if err != nil {
			return err
		}
		e.Data = out
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return err
	}
	if err := archive.WriteBundle(c.Out, entries); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Rewrote %d models: %s -> %s\n", len(entries), c.Path, c.Out)
	return nil
}

// IndexCmd stores models by BLAKE3 hash and records them in a catalog.
type IndexCmd struct {
	Paths []string `arg:"" help:"Model files, bundles or directories"`
	DB    string   `name:"db" help:"Catalog database" env:"MDX_CATALOG" default:"mdx-catalog.db" type:"path"`
	Store string   `help:"Blob store directory" env:"MDX_STORE" default:"mdx-store" type:"path"`
	Jobs  int      `short:"j" help:"Number of parallel workers (default: number of CPUs)" default:"0"`
}

func (c *IndexCmd) Run() error {
	ctx := context.Background()

	store, err := cas.NewStore(c.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	cat, err := catalog.Open(ctx, c.DB)
	if err != nil {
		return err
	}
	defer cat.Close()

	scan, err := cat.BeginScan(ctx, strings.Join(c.Paths, string(filepath.ListSeparator)))
	if err != nil {
		return err
	}

	e := selfcheck.NewExecutor(c.Jobs)
	e.OnResult = func(entry archive.Entry, res selfcheck.CheckResult) error {
		hash := res.Expected.BLAKE3
		if !store.Has(hash) {
			if _, err := store.Put(entry.Data); err != nil {
				return fmt.Errorf("failed to store %s: %w", res.Path, err)
			}
		}
		return cat.Record(ctx, catalog.Entry{
			Path:      res.Path,
			Hash:      hash,
			Version:   res.Version,
			Name:      res.Name,
			Size:      int64(len(entry.Data)),
			Chunks:    res.Chunks,
			RoundTrip: res.Pass,
			Err:       res.Error,
			ScanID:    scan,
		})
	}
	report, err := e.Execute(ctx, c.Paths...)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Indexed %d models (%d failed round trip)\n", len(report.Results), report.Failed)
	fmt.Fprintf(stdout, "  Scan: %s\n", scan)
	fmt.Fprintf(stdout, "  Catalog: %s\n", c.DB)
	fmt.Fprintf(stdout, "  Store: %s\n", store.Root())
	return nil
}

// CatalogCmd lists catalog entries.
type CatalogCmd struct {
	DB     string `name:"db" help:"Catalog database" env:"MDX_CATALOG" default:"mdx-catalog.db" type:"path"`
	Failed bool   `help:"Only list models that failed round trip"`
	Hash   string `help:"Only list models with this BLAKE3 hash"`
	Scan   string `help:"Only list models from this scan"`
	Limit  int    `help:"Maximum number of entries" default:"0"`
	JSON   bool   `help:"Print entries as JSON"`
}

func (c *CatalogCmd) Run() error {
	ctx := context.Background()
	filter := catalog.Filter{Failed: c.Failed, Hash: c.Hash, Limit: c.Limit}
	if c.Scan != "" {
		id, err := uuid.Parse(c.Scan)
		if err != nil {
			return fmt.Errorf("invalid scan id: %w", err)
		}
		filter.Scan = id
	}

	cat, err := catalog.OpenReadOnly(ctx, c.DB)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(ctx, filter)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []catalog.Entry{}
		}
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tVERSION\tHASH\tPATH")
	for _, e := range entries {
		status := "ok"
		if e.Failed() {
			status = "FAIL"
		}
		v := "-"
		if e.Version != nil {
			v = fmt.Sprint(*e.Version)
		}
		hash := e.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", status, v, hash, e.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stats, err := cat.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d models, %d failed, %d blobs, %d scans\n", stats.Models, stats.Failed, stats.Blobs, stats.Scans)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "mdx version %s\n", version)
	fmt.Fprintf(stdout, "  SQLite driver: %s (%s)\n", info.Package, info.DriverType)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("mdx"),
		kong.Description("MDX model codec with byte-exact round trip"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx.FatalIfErrorf(initLogging(CLI.LogLevel, CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
