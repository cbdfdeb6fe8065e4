// Package loader reads, classifies and measures ranked files in parallel.
//
// Each descriptor is handled end to end by one worker, which writes only
// that descriptor and its own result slot. Nothing is reordered: the slot
// index is the descriptor's position in the ranked sequence.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	yerr "yek/pkg/errors"
	"yek/pkg/priority"
)

// Options controls loading.
type Options struct {
	Threads          int             // 0 = runtime.NumCPU()
	MaxFileSize      int64           // per-file memory ceiling in bytes; 0 = unlimited
	BinaryExtensions map[string]bool // lowercase, without the dot
	LineNumbers      bool
	// CountTokens, when set, is called for every loaded file so the token
	// count is cached on the descriptor before assembly.
	CountTokens func(string) int64
}

// Issue is a per-file problem. None of them abort a run.
type Issue struct {
	Path string
	Kind yerr.Kind
	Err  error
}

// Report summarizes a Load. Issues are in sequence order.
type Report struct {
	Loaded  int
	Binary  int
	Skipped int
	Bytes   int64
	Issues  []Issue
}

// Loader runs the content worker pool.
type Loader struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Loader.
func New(opts Options, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", opts.Threads))
	}
	return &Loader{opts: opts, logger: logger}
}

// Load populates the content fields of every descriptor. It returns once
// all files are processed.
func (l *Loader) Load(files []*priority.FileDescriptor) Report {
	issues := make([][]Issue, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	workers := l.opts.Threads
	if workers > len(files) {
		workers = len(files)
	}
	l.logger.Debug("Initializing worker pool", zap.Int("workers", workers), zap.Int("files", len(files)))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go l.worker(w, jobs, files, issues, &wg)
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var r Report
	for i, f := range files {
		switch f.Status {
		case priority.StatusLoaded:
			r.Loaded++
			r.Bytes += f.ByteSize
		case priority.StatusBinary:
			r.Binary++
		default:
			r.Skipped++
		}
		r.Issues = append(r.Issues, issues[i]...)
	}
	l.logger.Debug("All files processed",
		zap.Int("loaded", r.Loaded),
		zap.Int("binary", r.Binary),
		zap.Int("skipped", r.Skipped),
		zap.Int("issues", len(r.Issues)))
	return r
}

// worker processes indices from jobs. It writes files[i] and issues[i] only.
func (l *Loader) worker(id int, jobs <-chan int, files []*priority.FileDescriptor, issues [][]Issue, wg *sync.WaitGroup) {
	defer wg.Done()
	logger := l.logger.With(zap.Int("workerID", id))

	for i := range jobs {
		f := files[i]
		issues[i] = l.process(f)
		for _, issue := range issues[i] {
			logger.Warn("File issue",
				zap.String("filePath", issue.Path),
				zap.Stringer("kind", issue.Kind),
				zap.Error(issue.Err))
		}
		logger.Debug("Worker processed file",
			zap.String("filePath", f.NormalizedPath),
			zap.Stringer("status", f.Status),
			zap.Int64("bytes", f.ByteSize))
	}
}

// process handles one file: classify, read, validate, measure.
func (l *Loader) process(f *priority.FileDescriptor) []Issue {
	fail := func(status priority.Status, err *yerr.Error) []Issue {
		f.Status = status
		f.Err = err
		return []Issue{{Path: f.NormalizedPath, Kind: err.Kind, Err: err}}
	}

	if l.opts.BinaryExtensions[extensionOf(f.NormalizedPath)] {
		f.Status = priority.StatusBinary
		f.Err = yerr.ErrBinary
		return nil
	}

	data, err := l.read(f.AbsPath)
	if err != nil {
		if errors.Is(err, yerr.ErrTooLarge) {
			return fail(priority.StatusTooLarge, yerr.New(yerr.Resource, "load", f.NormalizedPath, err))
		}
		return fail(priority.StatusUnreadable, yerr.New(yerr.IO, "read", f.NormalizedPath, err))
	}

	if looksBinary(data) {
		f.Status = priority.StatusBinary
		f.Err = yerr.ErrBinary
		return nil
	}

	var out []Issue
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, string(utf8.RuneError))
		e := yerr.New(yerr.Encoding, "decode", f.NormalizedPath, yerr.ErrInvalidUTF8)
		f.Warnings = append(f.Warnings, e.Error())
		out = append(out, Issue{Path: f.NormalizedPath, Kind: yerr.Encoding, Err: e})
	}
	if l.opts.LineNumbers {
		content = withLineNumbers(content)
	}

	f.Content = content
	f.ByteSize = int64(len(content))
	f.Status = priority.StatusLoaded
	if l.opts.CountTokens != nil {
		f.TokenCount(l.opts.CountTokens)
	}
	return out
}

// read loads a file while holding no more than MaxFileSize+1 bytes.
func (l *Loader) read(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limit := l.opts.MaxFileSize
	if limit <= 0 {
		return io.ReadAll(file)
	}
	if info, err := file.Stat(); err == nil && info.Size() > limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", yerr.ErrTooLarge, info.Size(), limit)
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", yerr.ErrTooLarge, limit)
	}
	return data, nil
}
