package pipeline

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yek/pkg/config"
	yerr "yek/pkg/errors"
	"yek/pkg/output"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func streamConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.InputPaths = []string{dir}
	cfg.GitBoostMax = 0
	stream := true
	cfg.Stream = &stream
	return cfg
}

func run(t *testing.T, cfg *config.Config) (*Result, string) {
	t.Helper()
	pc, err := NewContext(cfg, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	pc.Stdout = &buf
	res, err := Run(context.Background(), pc)
	require.NoError(t, err)
	return res, buf.String()
}

func TestRunOrdersByPriority(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/main.go":   "package main",
		"docs/guide.md": "guide",
		"notes.txt":     "notes",
	})
	cfg := streamConfig(dir)
	cfg.PriorityRules = []config.PriorityRule{
		{Pattern: "^src/", Score: 50},
		{Pattern: "docs/**", Kind: "glob", Score: 10},
	}

	res, out := run(t, cfg)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 3, res.Output.Entries)

	notes := strings.Index(out, ">>>> notes.txt\n")
	guide := strings.Index(out, ">>>> docs/guide.md\n")
	main := strings.Index(out, ">>>> src/main.go\n")
	require.True(t, notes >= 0 && guide >= 0 && main >= 0, out)
	assert.True(t, notes < guide && guide < main, "lowest priority first, highest last:\n%s", out)

	require.Len(t, res.Chunks, 3, "each score starts a new chunk")
	assert.Equal(t, int64(1), res.Chunks[0].Score)
	assert.Equal(t, int64(10), res.Chunks[1].Score)
	assert.Equal(t, int64(50), res.Chunks[2].Score)
}

func TestRunExcludesBinaryFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"readme.md": "hello",
		"logo.png":  "fake png",
		"blob.raw":  "ab\x00cd",
	})

	res, out := run(t, streamConfig(dir))
	assert.Equal(t, 1, res.Report.Loaded)
	assert.Equal(t, 2, res.Report.Binary)
	assert.Equal(t, ">>>> readme.md\nhello\n", out)
}

func TestRunDeterministicAcrossThreads(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		files[filepath.ToSlash(filepath.Join("pkg", string(rune('a'+i%7)), strings.Repeat("f", i%5+1)+".go"))] = strings.Repeat("x", i*37)
	}
	writeTree(t, dir, files)

	outputFor := func(threads int) string {
		cfg := streamConfig(dir)
		cfg.Threads = threads
		cfg.MaxSize = "1KB"
		cfg.PriorityRules = []config.PriorityRule{{Pattern: "pkg/[ace]/", Score: 3}}
		_, out := run(t, cfg)
		return out
	}

	want := outputFor(1)
	assert.NotEmpty(t, want)
	assert.Equal(t, want, outputFor(4))
	assert.Equal(t, want, outputFor(16))
}

func TestRunTemplateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "one\ntwo\n"})
	cfg := streamConfig(dir)
	cfg.OutputTemplate = `== FILE_PATH ==\nFILE_CONTENT`

	_, out := run(t, cfg)
	tmpl, err := output.NewTemplate(cfg.OutputTemplate)
	require.NoError(t, err)
	p, content, err := tmpl.Parse(strings.TrimSuffix(out, "\n"))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", p)
	assert.Equal(t, "one\ntwo\n", content)
}

func TestRunBatchSplitsOnBudget(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeTree(t, dir, map[string]string{
		"a.txt": strings.Repeat("a", 600),
		"b.txt": strings.Repeat("b", 600),
		"c.txt": strings.Repeat("c", 3000),
	})
	cfg := config.DefaultConfig()
	cfg.InputPaths = []string{dir}
	cfg.GitBoostMax = 0
	cfg.MaxSize = "1KB"
	cfg.OutputDir = outDir

	res, stdout := run(t, cfg)
	assert.Equal(t, output.ModeBatch, res.Output.Mode)
	require.Len(t, res.Chunks, 3)
	assert.True(t, res.Chunks[2].Oversized)
	assert.Equal(t, []string{"a.txt"}, res.Chunks[0].Paths())
	assert.Equal(t, []string{"b.txt"}, res.Chunks[1].Paths())

	for i, name := range res.Output.Files {
		assert.Equal(t, filepath.Join(outDir, "chunk-"+string(rune('0'+i))+".txt"), name)
		assert.FileExists(t, name)
	}
	assert.Equal(t, strings.Join(res.Output.Files, "\n")+"\n", stdout)
}

func TestRunTokenMode(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt": "one two three",
		"b.txt": "four five",
		"c.txt": "six",
	})
	cfg := streamConfig(dir)
	cfg.Tokens = "5"

	res, _ := run(t, cfg)
	require.Len(t, res.Chunks, 2)
	assert.Equal(t, []string{"a.txt", "b.txt"}, res.Chunks[0].Paths())
	assert.Equal(t, int64(5), res.Chunks[0].Size, "a chunk may fill the budget exactly")
	assert.Equal(t, []string{"c.txt"}, res.Chunks[1].Paths())
	assert.Equal(t, int64(1), res.Chunks[1].Size)
}

func TestRunMissingInputIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})
	cfg := streamConfig(dir)
	cfg.InputPaths = append(cfg.InputPaths, filepath.Join(dir, "missing"))

	res, out := run(t, cfg)
	require.Error(t, res.Warnings)
	assert.False(t, yerr.IsFatal(res.Warnings))
	assert.Equal(t, ">>>> a.txt\na\n", out)
}

func TestRunSymlinkedInputDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"real/a.txt": "a"})
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), link))

	res, out := run(t, streamConfig(link))
	assert.Equal(t, 1, res.Candidates)
	assert.Equal(t, ">>>> a.txt\na\n", out)
}

func TestRunRecordsDiscoverySkips(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})
	require.NoError(t, os.Symlink("self", filepath.Join(dir, "self")))
	cfg := streamConfig(dir)
	cfg.FollowSymlinks = true

	res, out := run(t, cfg)
	assert.Equal(t, ">>>> a.txt\na\n", out)
	require.Error(t, res.Warnings)
	assert.ErrorIs(t, res.Warnings, yerr.ErrSymlinkLoop)
	assert.False(t, yerr.IsFatal(res.Warnings))
}

func TestNewContextRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxSize = "lots"
	cfg.TreeOnly = true
	cfg.JSON = true

	_, err := NewContext(cfg, nil)
	require.Error(t, err)
	assert.True(t, yerr.IsFatal(err))
	assert.True(t, yerr.IsKind(err, yerr.Configuration))
}

func TestRunRecencyBoost(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("Git not available")
	}
	dir := t.TempDir()
	gitRun := func(env []string, args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), env...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	gitRun(nil, "init", "-q")
	gitRun(nil, "config", "user.email", "test@example.com")
	gitRun(nil, "config", "user.name", "Test")
	gitRun(nil, "config", "commit.gpgsign", "false")
	commit := func(when, name string) {
		writeTree(t, dir, map[string]string{name: name})
		env := []string{"GIT_AUTHOR_DATE=" + when, "GIT_COMMITTER_DATE=" + when}
		gitRun(env, "add", name)
		gitRun(env, "commit", "-q", "-m", name)
	}
	commit("@1000 +0000", "z_old.txt")
	commit("@2000 +0000", "a_new.txt")
	writeTree(t, dir, map[string]string{"m_untracked.txt": "u"})

	cfg := streamConfig(dir)
	cfg.GitBoostMax = 100
	res, out := run(t, cfg)

	require.Len(t, res.Chunks, 2)
	assert.Equal(t, []string{"m_untracked.txt", "z_old.txt"}, res.Chunks[0].Paths(), "untracked and oldest share the base score")
	assert.Equal(t, []string{"a_new.txt"}, res.Chunks[1].Paths())
	assert.Equal(t, int64(101), res.Chunks[1].Score)
	assert.True(t, strings.HasSuffix(out, ">>>> a_new.txt\na_new.txt\n"), out)
}
