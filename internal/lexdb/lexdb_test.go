package lexdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cours-de-latin/metermeter"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "lex", "words.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestImportAndLookup(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	n, err := db.Import(ctx, metermeter.NewLexicon(map[string][]string{
		"record": {"SU", "US"},
		"summer": {"SU"},
		"the":    {"U"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := db.Patterns(ctx, "Record")
	require.NoError(t, err)
	assert.Equal(t, []string{"SU", "US"}, got)

	got, err = db.Patterns(ctx, "summer's")
	require.NoError(t, err)
	assert.Equal(t, []string{"SU"}, got, "possessive falls back to the base word")

	got, err = db.Patterns(ctx, "zorblat")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestImportReplaces(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	_, err := db.Import(ctx, metermeter.NewLexicon(map[string][]string{"present": {"SU", "US"}}))
	require.NoError(t, err)
	_, err = db.Import(ctx, metermeter.NewLexicon(map[string][]string{"present": {"US"}}))
	require.NoError(t, err)

	got, err := db.Patterns(ctx, "present")
	require.NoError(t, err)
	assert.Equal(t, []string{"US"}, got)
}

func TestImportLargeLexicon(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	lex := metermeter.BuiltinLexicon()
	n, err := db.Import(ctx, lex)
	require.NoError(t, err)
	assert.Equal(t, lex.Len(), n)

	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, lex.Len(), count)
}

func TestPronouncer(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	_, err := db.Import(ctx, metermeter.NewLexicon(map[string][]string{"compare": {"US"}}))
	require.NoError(t, err)

	pr := db.Pronounce("compare")
	assert.True(t, pr.Hit)
	require.Len(t, pr.Syllabifications, 1)
	assert.Equal(t, "US", pr.Syllabifications[0].Pattern())

	pr = db.Pronounce("flimbering")
	assert.False(t, pr.Hit)
	require.Len(t, pr.Syllabifications, 1)
	assert.Len(t, pr.Syllabifications[0], 3)

	var _ metermeter.Pronouncer = db
}

func TestEngineWithDatabase(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	_, err := db.Import(ctx, metermeter.BuiltinLexicon())
	require.NoError(t, err)

	e, err := metermeter.New(metermeter.WithPronouncer(db))
	require.NoError(t, err)

	a, err := e.Analyze("Shall I compare thee to a summer's day?", nil)
	require.NoError(t, err)
	assert.Equal(t, "iambic pentameter", a.Meter)
	assert.Empty(t, a.OOV)
}
