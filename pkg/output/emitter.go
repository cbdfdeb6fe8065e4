// Package output writes assembled chunks to a stream or to numbered files.
package output

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"yek/pkg/chunk"
	yerr "yek/pkg/errors"
)

// Mode is the emission mode.
type Mode int

const (
	// ModeStream writes every chunk to one stream.
	ModeStream Mode = iota
	// ModeBatch writes one file per chunk.
	ModeBatch
)

func (m Mode) String() string {
	if m == ModeBatch {
		return "batch"
	}
	return "stream"
}

// TempDirPattern names the directory created when batch mode has no
// output directory.
const TempDirPattern = "yek-output-*"

// Entry is one file in JSON output.
type Entry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Options controls emission.
type Options struct {
	Template   *Template
	JSON       bool
	TreeHeader bool
	TreeOnly   bool
	OutputDir  string
	// OutputName prefixes chunk file names. A name with an extension,
	// such as "context.txt", names the output file itself.
	OutputName string
	// Stream forces a mode when set. Otherwise a terminal stdout, an
	// output directory or a named output file selects batch mode.
	Stream *bool
	Stdout io.Writer
	// IsTerminal overrides terminal detection on Stdout.
	IsTerminal func() bool
}

// Result reports what was written.
type Result struct {
	Mode    Mode
	Dir     string   // batch output directory
	Files   []string // batch files in chunk order
	Entries int
	Bytes   int64
}

// Emitter writes chunks in the order given.
type Emitter struct {
	opts   Options
	mode   Mode
	logger *zap.Logger
}

// NewEmitter resolves the mode and returns an Emitter.
func NewEmitter(opts Options, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.OutputName == "" {
		opts.OutputName = "chunk"
	}
	e := &Emitter{opts: opts, logger: logger}
	e.mode = e.detectMode()
	logger.Debug("Selected output mode", zap.Stringer("mode", e.mode))
	return e
}

// Mode returns the resolved mode.
func (e *Emitter) Mode() Mode {
	return e.mode
}

func (e *Emitter) detectMode() Mode {
	switch {
	case e.opts.Stream != nil:
		if *e.opts.Stream {
			return ModeStream
		}
		return ModeBatch
	case e.opts.OutputDir != "", e.namesFile():
		return ModeBatch
	case e.stdoutIsTerminal():
		return ModeBatch
	default:
		return ModeStream
	}
}

func (e *Emitter) stdoutIsTerminal() bool {
	if e.opts.IsTerminal != nil {
		return e.opts.IsTerminal()
	}
	if f, ok := e.opts.Stdout.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Emit writes chunks. Any failure concerns the destination and is fatal.
func (e *Emitter) Emit(ctx context.Context, chunks []chunk.Chunk) (Result, error) {
	if e.mode == ModeBatch {
		return e.emitBatch(ctx, chunks)
	}
	return e.emitStream(ctx, chunks)
}

func (e *Emitter) emitStream(ctx context.Context, chunks []chunk.Chunk) (Result, error) {
	res := Result{Mode: ModeStream}
	cw := &countingWriter{w: e.opts.Stdout}
	w := bufio.NewWriter(cw)

	var err error
	switch {
	case e.opts.TreeOnly:
		_, err = w.WriteString(RenderTree(allPaths(chunks)))
	case e.opts.JSON:
		var entries []Entry
		for _, c := range chunks {
			entries = append(entries, jsonEntries(c)...)
		}
		res.Entries = len(entries)
		err = writeJSON(w, entries)
	default:
		if e.opts.TreeHeader {
			if _, err = w.WriteString(RenderTree(allPaths(chunks))); err != nil {
				break
			}
		}
		first := true
		for _, c := range chunks {
			if err = ctx.Err(); err != nil {
				return res, err
			}
			for _, f := range c.Files {
				if !first {
					if err = w.WriteByte('\n'); err != nil {
						break
					}
				}
				first = false
				if _, err = w.WriteString(e.opts.Template.Render(f.NormalizedPath, f.Content)); err != nil {
					break
				}
				res.Entries++
			}
			if err != nil {
				break
			}
		}
		if err == nil && !first {
			err = w.WriteByte('\n')
		}
	}
	if err == nil {
		err = w.Flush()
	}
	res.Bytes = cw.n
	if err != nil {
		return res, yerr.Destinationf("stdout", err, "write stream")
	}
	e.logger.Debug("Streamed output", zap.Int("entries", res.Entries), zap.Int64("bytes", res.Bytes))
	return res, nil
}

func (e *Emitter) emitBatch(ctx context.Context, chunks []chunk.Chunk) (Result, error) {
	res := Result{Mode: ModeBatch}

	var bodies []func(io.Writer) (int, error)
	if e.opts.TreeOnly {
		if tree := RenderTree(allPaths(chunks)); tree != "" {
			bodies = append(bodies, func(w io.Writer) (int, error) {
				_, err := io.WriteString(w, tree)
				return 0, err
			})
		}
	} else {
		tree := ""
		if e.opts.TreeHeader && !e.opts.JSON {
			tree = RenderTree(allPaths(chunks))
		}
		for i, c := range chunks {
			header := ""
			if i == 0 {
				header = tree
			}
			bodies = append(bodies, func(w io.Writer) (int, error) {
				return e.writeChunk(w, header, c)
			})
		}
	}
	if len(bodies) == 0 {
		e.logger.Debug("Nothing to write")
		return res, nil
	}

	dir, err := e.batchDir()
	if err != nil {
		return res, err
	}
	res.Dir = dir

	for i, body := range bodies {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := filepath.Join(res.Dir, e.fileName(i, len(bodies)))
		n, written, err := writeFile(name, body)
		res.Bytes += written
		if err != nil {
			return res, yerr.Destinationf(name, err, "write chunk file")
		}
		res.Entries += n
		res.Files = append(res.Files, name)
		e.logger.Debug("Wrote chunk file", zap.String("file", name), zap.Int("entries", n), zap.Int64("bytes", written))
	}

	if _, err := fmt.Fprintln(e.opts.Stdout, strings.Join(res.Files, "\n")); err != nil {
		return res, yerr.Destinationf("stdout", err, "report output files")
	}
	return res, nil
}

// batchDir creates the directory chunk files go to. A named output file
// without an output directory lands in the working directory.
func (e *Emitter) batchDir() (string, error) {
	dir := e.opts.OutputDir
	if dir == "" && e.namesFile() {
		dir = "."
	}
	if dir == "" {
		tmp, err := os.MkdirTemp("", TempDirPattern)
		if err != nil {
			return "", yerr.Destinationf(os.TempDir(), err, "create temporary output directory")
		}
		return tmp, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", yerr.Destinationf(dir, err, "create output directory")
	}
	return dir, nil
}

// namesFile reports whether OutputName carries an extension and so names
// the output file itself rather than a prefix.
func (e *Emitter) namesFile() bool {
	return filepath.Ext(e.opts.OutputName) != ""
}

// fileName returns the name of chunk file i out of total. A named output
// file is used as is when there is a single chunk; otherwise the index is
// inserted before its extension.
func (e *Emitter) fileName(i, total int) string {
	name := e.opts.OutputName
	if e.namesFile() {
		if total == 1 {
			return name
		}
		ext := filepath.Ext(name)
		return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), i, ext)
	}
	ext := "txt"
	if e.opts.JSON {
		ext = "json"
	}
	return fmt.Sprintf("%s-%d.%s", name, i, ext)
}

// writeChunk writes one chunk body and returns the number of entries.
func (e *Emitter) writeChunk(w io.Writer, header string, c chunk.Chunk) (int, error) {
	if e.opts.JSON {
		entries := jsonEntries(c)
		return len(entries), writeJSON(w, entries)
	}
	if _, err := io.WriteString(w, header); err != nil {
		return 0, err
	}
	for i, f := range c.Files {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return i, err
			}
		}
		if _, err := io.WriteString(w, e.opts.Template.Render(f.NormalizedPath, f.Content)); err != nil {
			return i, err
		}
	}
	if len(c.Files) > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return len(c.Files), err
		}
	}
	return len(c.Files), nil
}

// writeFile creates name and writes body through a buffer.
func writeFile(name string, body func(io.Writer) (int, error)) (int, int64, error) {
	outFile, err := os.Create(name)
	if err != nil {
		return 0, 0, err
	}
	cw := &countingWriter{w: outFile}
	writer := bufio.NewWriter(cw)
	n, err := body(writer)
	if err == nil {
		err = writer.Flush()
	}
	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	return n, cw.n, err
}

func writeJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func jsonEntries(c chunk.Chunk) []Entry {
	entries := make([]Entry, 0, len(c.Files))
	for _, f := range c.Files {
		entries = append(entries, Entry{Path: f.NormalizedPath, Content: f.Content})
	}
	return entries
}

func allPaths(chunks []chunk.Chunk) []string {
	var paths []string
	for _, c := range chunks {
		paths = append(paths, c.Paths()...)
	}
	return paths
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
