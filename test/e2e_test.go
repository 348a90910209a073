package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/graeme-hill/clex-go/lib"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *lib.TokenStore {
	driver, dsn := lib.DriverSQLite, filepath.Join(t.TempDir(), "tokens.db")
	if pg := os.Getenv("CLEX_POSTGRES_DSN"); pg != "" {
		driver, dsn = lib.DriverPostgres, pg
	}
	store, err := lib.OpenTokenStore(driver, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestAll(t *testing.T) {
	files, err := lib.ReadSourcesFromDir("./testdata", lib.DefaultExtensions)
	require.NoError(t, err)
	require.Len(t, files, 2)

	broken, hello := files[0], files[1]
	require.Equal(t, "broken", broken.Name)
	require.Equal(t, "hello", hello.Name)

	require.Empty(t, hello.Diagnostics)
	require.Len(t, broken.Diagnostics, 2)

	// the unterminated string swallows the rest of its line only
	require.Equal(t, lib.KindStringLiteral, broken.Tokens[4].Kind)
	require.Equal(t, `"never closed;`, broken.Tokens[4].Lexeme)
	require.Equal(t, "int", broken.Tokens[5].Lexeme)
	require.Equal(t, 2, broken.Tokens[5].Line)
	require.Len(t, broken.Tokens, 10)

	store := openStore(t)
	ctx := context.Background()
	require.NoError(t, store.RunMigrations(ctx))

	for _, f := range files {
		id, err := store.SaveRun(ctx, f.Path, f.Tokens)
		require.NoError(t, err)

		run, err := store.LoadRun(ctx, id)
		require.NoError(t, err)
		require.Equal(t, f.Tokens, run.Tokens)
	}

	summary, err := lib.SummaryFromReader(lib.Stream(hello.Text))
	require.NoError(t, err)
	require.Equal(t, 14, summary.Lines)
	require.Equal(t, 1, summary.Kinds[lib.KindStringLiteral])
	require.Equal(t, 2, summary.Identifiers["count"])
	require.Equal(t, 2, summary.Identifiers["greeting"])
}
