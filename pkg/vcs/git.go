// Package vcs reads commit history used for recency scoring.
package vcs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"yek/pkg/pathnorm"
)

// ErrNoHistory is returned when Dir is not inside a git work tree, the
// repository has no commits, or git is not installed.
var ErrNoHistory = errors.New("no git history")

// recordMarker prefixes the timestamp line of each commit in the log output.
const recordMarker = "\x00"

// Git reads history from the repository containing Dir.
type Git struct {
	Dir string
}

// CommitTimestamps returns, for every file touched by the last maxDepth
// commits reachable from HEAD, the committer time (unix seconds) of the most
// recent of those commits that touched it. Paths are relative to Dir in
// normalized form; files outside Dir are omitted.
func (g Git) CommitTimestamps(ctx context.Context, maxDepth int) (map[string]int64, error) {
	if maxDepth <= 0 {
		return map[string]int64{}, nil
	}
	if !g.isWorkTree(ctx) {
		return nil, ErrNoHistory
	}

	args := []string{
		"-c", "core.quotepath=off",
		"log",
		"-n", strconv.Itoa(maxDepth),
		"--format=%x00%ct",
		"--name-only",
		"--no-renames",
		"--relative",
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("git log cancelled: %w", ctx.Err())
		}
		// An unborn HEAD has no history to read.
		if strings.Contains(stderr.String(), "does not have any commits") {
			return nil, ErrNoHistory
		}
		return nil, fmt.Errorf("git log failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return parseLog(stdout.Bytes())
}

func (g Git) isWorkTree(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// parseLog reads newest-first log output. The first timestamp seen for a
// path is therefore its latest.
func parseLog(out []byte) (map[string]int64, error) {
	times := make(map[string]int64)
	var current int64
	haveCommit := false

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, recordMarker) {
			ts, err := strconv.ParseInt(strings.TrimPrefix(line, recordMarker), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse commit time %q: %w", line, err)
			}
			current = ts
			haveCommit = true
			continue
		}
		if !haveCommit {
			continue
		}
		p := pathnorm.Clean(line)
		if _, seen := times[p]; !seen {
			times[p] = current
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return times, nil
}
