package knot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugCollapsesWhitespaceRuns(t *testing.T) {
	assert.Equal(t, "my-knot", Slug("My Knot"))
	assert.Equal(t, "a-b-c", Slug("A \t B\n\nC"))
	assert.Equal(t, "-padded-", Slug("  Padded  "))
	assert.Equal(t, "already-slugged", Slug("already-slugged"))
}

func TestFilenameUsesJSExtension(t *testing.T) {
	assert.Equal(t, "my-knot.js", Filename("My Knot"))
}

func TestValidateNameRejectsBlank(t *testing.T) {
	assert.ErrorIs(t, ValidateName("   "), ErrEmptyName)
	assert.NoError(t, ValidateName("ok"))
	assert.Error(t, Validate(Knot{Name: "x"}))
	assert.NoError(t, Validate(Knot{ID: "a", Name: "x"}))
}

func TestNextUntitledNameSkipsTakenNames(t *testing.T) {
	assert.Equal(t, "Untitled knot", NextUntitledName(nil))

	existing := []Knot{{Name: "Untitled knot"}, {Name: "untitled knot 2"}}
	assert.Equal(t, "Untitled knot 3", NextUntitledName(existing))
}

func TestContainsAndFind(t *testing.T) {
	knots := []Knot{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Beta"}}
	assert.True(t, Contains(knots, "b"))
	assert.False(t, Contains(knots, "c"))
	assert.False(t, Contains(knots, ""))

	k, ok := Find(knots, "a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", k.Name)
}

func TestExportWritesSlugNamedFile(t *testing.T) {
	dir := t.TempDir()

	out, err := Export(dir, Knot{ID: "k1", Name: "My Knot", Code: "x=1"})
	require.NoError(t, err)

	assert.Equal(t, "my-knot.js", out.Filename)
	assert.Equal(t, "text/javascript", out.ContentType)
	assert.Equal(t, filepath.Join(dir, "my-knot.js"), out.Path)
	assert.Equal(t, 3, out.Bytes)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "x=1", string(data))
}

func TestExportLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Export(dir, Knot{ID: "k1", Name: "One", Code: "1"})
	require.NoError(t, err)
	_, err = Export(dir, Knot{Name: "bad/name", Code: "2"})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "one.js", entries[0].Name())
}

func TestExportRejectsPathLikeNames(t *testing.T) {
	dir := t.TempDir()

	_, err := Export(dir, Knot{Name: "../escape", Code: "x"})
	assert.ErrorIs(t, err, ErrInvalidFilename)

	_, err = Export(dir, Knot{Name: "", Code: "x"})
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

func TestExportOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := Export(dir, Knot{Name: "Same", Code: "old"})
	require.NoError(t, err)
	out, err := Export(dir, Knot{Name: "Same", Code: "new"})
	require.NoError(t, err)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestExportCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	out, err := Export(dir, Knot{Name: "Deep", Code: "d"})
	require.NoError(t, err)
	assert.FileExists(t, out.Path)
}
