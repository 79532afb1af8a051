package cocafreq

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSessionBuilder_Build(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no inputs", func(t *testing.T) {
		t.Parallel()
		_, err := NewSessionBuilder().Build(ctx)
		assert.ErrorIs(t, err, ErrArgument)
	})

	t.Run("invalid sheet", func(t *testing.T) {
		t.Parallel()
		_, err := NewSessionBuilder().WithDataDir(testDataDir).AddSheet(SheetType(0)).Build(ctx)
		assert.ErrorIs(t, err, ErrArgument)
	})

	t.Run("missing derived file", func(t *testing.T) {
		t.Parallel()
		_, err := NewSessionBuilder().WithDataDir(t.TempDir()).AddSheet(SheetLemmas).Build(ctx)
		require.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "run `cocafreq convert` first")
	})

	t.Run("missing extra file", func(t *testing.T) {
		t.Parallel()
		_, err := NewSessionBuilder().AddFile("x", filepath.Join(t.TempDir(), "x.csv")).Build(ctx)
		assert.ErrorIs(t, err, ErrIO)
	})

	t.Run("open before build", func(t *testing.T) {
		t.Parallel()
		_, err := NewSessionBuilder().AddSheet(SheetLemmas).Open(ctx)
		assert.ErrorIs(t, err, ErrArgument)
	})

	t.Run("duplicate table", func(t *testing.T) {
		t.Parallel()
		_, err := NewSessionBuilder().
			WithDataDir(testDataDir).
			AddSheet(SheetLemmas).
			AddFile("LEMMAS", filepath.Join(testDataDir, "wordFrequencySecond.csv")).
			Build(ctx)
		assert.ErrorIs(t, err, ErrArgument)
	})
}

func TestResolveSheetFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zst := filepath.Join(dir, "wordFrequencyFirst.csv.zst")
	require.NoError(t, os.WriteFile(zst, nil, 0o600))

	got, err := ResolveSheetFile(dir, SheetLemmas)
	require.NoError(t, err)
	assert.Equal(t, zst, got)

	plain := filepath.Join(dir, "wordFrequencyFirst.csv")
	require.NoError(t, os.WriteFile(plain, nil, 0o600))
	got, err = ResolveSheetFile(dir, SheetLemmas)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestSession_Open(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	builder, err := NewSessionBuilder().
		WithDataDir(testDataDir).
		WithLogger(zap.New(core)).
		AddSheets(SheetForms, SheetLemmas, SheetForms).
		Build(context.Background())
	require.NoError(t, err)

	session, err := builder.Open(context.Background())
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, []string{"forms", "lemmas"}, session.Tables())
	assert.Equal(t, 2, logs.FilterMessage("loaded table").Len())

	frame, err := session.Table("FORMS")
	require.NoError(t, err)
	assert.Equal(t, []string{"rank", "word", "freq", "#texts", "%lowercase"}, frame.Schema().Names())

	_, err = session.Table("subgenres")
	assert.ErrorIs(t, err, ErrArgument)
	_, err = session.Sheet(SheetSubgenres)
	assert.ErrorIs(t, err, ErrArgument)
}

func TestSession_SQL(t *testing.T) {
	t.Parallel()

	session := openSession(t, SheetLemmas, SheetForms)
	ctx := context.Background()

	t.Run("join across sheets", func(t *testing.T) {
		t.Parallel()

		frame, err := session.SQL(ctx, `SELECT l.lemma, f."#texts" AS texts FROM lemmas l JOIN forms f ON l.lemma = f.word ORDER BY l.rank;`)
		require.NoError(t, err)
		assert.Equal(t, []string{"lemma", "texts"}, frame.Schema().Names())

		result, err := frame.Limit(0, 2).Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, [][]any{{"the", int64(497218)}, {"and", int64(491989)}}, result.Rows)
	})

	t.Run("paging over raw SQL", func(t *testing.T) {
		t.Parallel()

		frame, err := session.SQL(ctx, "SELECT lemma FROM lemmas")
		require.NoError(t, err)
		result, err := frame.Limit(10, 5).Collect(ctx)
		require.NoError(t, err)
		assert.Len(t, result.Rows, 5)
		assert.Equal(t, "understand", result.Rows[0][0])
	})

	t.Run("trailing line comment", func(t *testing.T) {
		t.Parallel()

		frame, err := session.SQL(ctx, "SELECT lemma FROM lemmas WHERE rank <= 3 -- top words")
		require.NoError(t, err)
		assert.Equal(t, []string{"lemma"}, frame.Schema().Names())

		result, err := frame.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, [][]any{{"the"}, {"be"}, {"and"}}, result.Rows)

		result, err = frame.Limit(1, 1).Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, [][]any{{"be"}}, result.Rows)
	})

	t.Run("invalid SQL", func(t *testing.T) {
		t.Parallel()

		_, err := session.SQL(ctx, "SELECT nope FROM lemmas")
		assert.ErrorIs(t, err, ErrQuery)
		_, err = session.SQL(ctx, "SELEC 1")
		assert.ErrorIs(t, err, ErrQuery)
	})

	t.Run("unregistered table", func(t *testing.T) {
		t.Parallel()

		_, err := session.SQL(ctx, "SELECT * FROM subgenres")
		assert.ErrorIs(t, err, ErrQuery)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		_, err := session.SQL(ctx, " ; ")
		assert.ErrorIs(t, err, ErrArgument)
	})
}

func TestSession_AddFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "extra.tsv")
	require.NoError(t, os.WriteFile(path, []byte("word\tnote\ndog\tanimal\n"), 0o600))

	builder, err := NewSessionBuilder().AddFile("", path).Build(context.Background())
	require.NoError(t, err)
	session, err := builder.Open(context.Background())
	require.NoError(t, err)
	defer session.Close()

	frame, err := session.Table("extra")
	require.NoError(t, err)
	result, err := frame.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"dog", "animal"}}, result.Rows)
}
