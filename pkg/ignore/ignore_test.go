package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yerr "yek/pkg/errors"
)

func TestMatcherPatterns(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		path    string
		ignored bool
	}{
		{"extension any depth", []string{"*.log"}, "a/b/debug.log", true},
		{"extension no match", []string{"*.log"}, "a/b/debug.txt", false},
		{"bare name any depth", []string{"LICENSE"}, "vendor/x/LICENSE", true},
		{"anchored", []string{"/build"}, "src/build", false},
		{"anchored root", []string{"/build"}, "build/out.o", true},
		{"double star dir", []string{"node_modules/**"}, "node_modules/pkg/index.js", true},
		{"double star leading", []string{"**/testdata"}, "pkg/x/testdata/f.txt", true},
		{"double star middle", []string{"a/**/z.txt"}, "a/b/c/z.txt", true},
		{"double star middle zero dirs", []string{"a/**/z.txt"}, "a/z.txt", true},
		{"dir only matches contents", []string{"tmp/"}, "x/tmp/file", true},
		{"dir only skips file", []string{"tmp/"}, "x/tmp", false},
		{"question mark", []string{"file?.txt"}, "file1.txt", true},
		{"question mark no slash", []string{"a?b"}, "a/b", false},
		{"char class", []string{"*.[oa]"}, "lib.a", true},
		{"negated char class", []string{"x[!0-9]"}, "x1", false},
		{"negation wins when later", []string{"*.log", "!keep.log"}, "keep.log", false},
		{"earlier negation loses", []string{"!keep.log", "*.log"}, "keep.log", true},
		{"comment ignored", []string{"# *.go"}, "main.go", false},
		{"escaped hash", []string{`\#notes`}, "#notes", true},
		{"dotfile glob", []string{".env*"}, ".env.local", true},
		{"regex metachar literal", []string{"a+b.txt"}, "a+b.txt", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(nil)
			require.NoError(t, m.CompileIgnoreLines(tt.lines...))
			assert.Equal(t, tt.ignored, m.IsIgnored(tt.path))
		})
	}
}

func TestMatcherDirectories(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.CompileIgnoreLines("temp/**", "!temp/keep/**", "dist/"))

	assert.True(t, m.IsIgnoredDir("dist"))
	assert.True(t, m.IsIgnoredDir("temp/other"))
	assert.False(t, m.IsIgnoredDir("temp/keep"))
	assert.False(t, m.IsIgnored("temp/keep/a.txt"))
	assert.True(t, m.IsIgnored("temp/drop.txt"))
	assert.False(t, m.IsIgnoredDir("temp"))
}

func TestMatcherInvalidPattern(t *testing.T) {
	m := New(nil)
	err := m.CompileIgnoreLines("*.go", "a[b-a]c")
	require.Error(t, err)
	assert.ErrorIs(t, err, yerr.ErrInvalidPattern)
	assert.True(t, yerr.IsFatal(err))
	assert.Equal(t, 1, m.Len())
}

func TestCompileIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(file, []byte("# build output\nbin/\n\n*.tmp\n"), 0o644))

	m := New(nil)
	require.NoError(t, m.CompileIgnoreFile(file))
	assert.Equal(t, 2, m.Len())

	matched, p := m.MatchesPathWithPattern("x.tmp")
	assert.True(t, matched)
	require.NotNil(t, p)
	assert.Equal(t, 4, p.LineNo)
	assert.Equal(t, file, p.Source)

	require.NoError(t, m.CompileIgnoreFile(filepath.Join(dir, "missing")))
}
