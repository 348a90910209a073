package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir string, name string, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadSourcesFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.c", "int b;")
	writeFile(t, dir, "a.h", "void a(void);")
	writeFile(t, dir, "README.md", "# not c")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.c"), 0o700))

	files, err := ReadSourcesFromDir(dir, DefaultExtensions)
	require.NoError(t, err)
	require.Len(t, files, 2)

	require.Equal(t, "a", files[0].Name)
	require.Equal(t, filepath.Join(dir, "a.h"), files[0].Path)
	require.Len(t, files[0].Tokens, 6)

	require.Equal(t, "b", files[1].Name)
	require.Equal(t, "int b;", files[1].Text)
	require.Equal(t, Tokenize("int b;"), files[1].Tokens)
}

func TestReadSourcesFromDirAllExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.c", "x")
	writeFile(t, dir, "two.txt", "y")

	files, err := ReadSourcesFromDir(dir, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)
}

func TestReadSourcesFromMissingDir(t *testing.T) {
	_, err := ReadSourcesFromDir(filepath.Join(t.TempDir(), "missing"), DefaultExtensions)
	require.Error(t, err)
}

func TestReadSourceFileDiagnostics(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.c", "char *s = \"open;\n/* open")

	f, err := ReadSourceFile(path)
	require.NoError(t, err)
	require.Len(t, f.Diagnostics, 2)
	require.Equal(t, DiagnosticUnterminatedString, f.Diagnostics[0].Kind)
	require.Equal(t, DiagnosticUnterminatedComment, f.Diagnostics[1].Kind)
	require.Equal(t, "line 2: block comment is not closed before end of input", f.Diagnostics[1].String())
}
