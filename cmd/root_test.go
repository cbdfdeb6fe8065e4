package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yerr "yek/pkg/errors"
)

func execute(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(in, &out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRootStreamsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello")
	writeFile(t, filepath.Join(dir, "src", "b.go"), "package b")

	out, err := execute(t, nil, dir, "--stream", "--git-boost-max", "0")
	require.NoError(t, err)
	assert.Equal(t, ">>>> a.txt\nhello\n>>>> src/b.go\npackage b\n", out)
}

func TestRootReadsPathListFromStdin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "picked.md"), "picked")
	writeFile(t, filepath.Join(dir, "other.md"), "other")

	out, err := execute(t, strings.NewReader(filepath.Join(dir, "picked.md")+"\n\n"), "--stream", "--git-boost-max", "0")
	require.NoError(t, err)
	assert.Equal(t, ">>>> picked.md\npicked\n", out)
}

func TestRootUsesProjectConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "yek.yaml"), "output_template: \"## FILE_PATH\\nFILE_CONTENT\"\ngit_boost_max: 0\n")
	writeFile(t, filepath.Join(dir, "main.go"), "package main")

	out, err := execute(t, nil, dir, "--stream")
	require.NoError(t, err)
	assert.Equal(t, "## main.go\npackage main\n", out)
}

func TestRootJSONAndTreeOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")

	out, err := execute(t, nil, dir, "--stream", "--json", "--git-boost-max", "0")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"path": "a.txt", "content": "a"}]`, out)

	out, err = execute(t, nil, dir, "--stream", "--tree-only", "--git-boost-max", "0")
	require.NoError(t, err)
	assert.Equal(t, "Directory structure:\n└── a.txt\n\n", out)
}

func TestRootRejectsConflictingFlags(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, nil, dir, "--tree-only", "--json")
	require.Error(t, err)
	assert.True(t, yerr.IsKind(err, yerr.Configuration))
	assert.ErrorIs(t, err, yerr.ErrConflictingFlags)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, nil, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, err = execute(t, nil, "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "yek version dev"), out)
}
