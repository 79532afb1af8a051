package cocafreq

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_SQL(t *testing.T) {
	t.Parallel()

	session := openSession(t, SheetLemmas)
	base, err := session.Sheet(SheetLemmas)
	require.NoError(t, err)

	t.Run("canonical order renders one select", func(t *testing.T) {
		t.Parallel()

		f := base.Filter(InList(Col("lemma"), Lit("dog"), Lit("cat")))
		f, err := f.Sort("freq")
		require.NoError(t, err)
		f, err = f.Limit(10, 5).Select("rank", "lemma", "freq")
		require.NoError(t, err)

		query, args := f.SQL()
		assert.Equal(t, `SELECT "rank", "lemma", "freq" FROM "lemmas" WHERE "lemma" IN (?, ?) ORDER BY "freq" DESC NULLS LAST LIMIT 5 OFFSET 10`, query)
		assert.Equal(t, []any{"dog", "cat"}, args)
	})

	t.Run("filter after limit wraps", func(t *testing.T) {
		t.Parallel()

		f := base.Limit(0, 3).Filter(Eq(Col("PoS"), Lit("v")))
		query, args := f.SQL()
		assert.Equal(t, `SELECT * FROM (SELECT * FROM "lemmas" LIMIT 3) WHERE ("PoS" = ?)`, query)
		assert.Equal(t, []any{"v"}, args)
	})

	t.Run("filter after sort merges", func(t *testing.T) {
		t.Parallel()

		f, err := base.Sort("freq")
		require.NoError(t, err)
		query, _ := f.Filter(Eq(Col("PoS"), Lit("n"))).SQL()
		assert.Equal(t, `SELECT * FROM "lemmas" WHERE ("PoS" = ?) ORDER BY "freq" DESC NULLS LAST`, query)
	})

	t.Run("skip without limit", func(t *testing.T) {
		t.Parallel()

		query, _ := base.Limit(10, -1).SQL()
		assert.Equal(t, `SELECT * FROM "lemmas" LIMIT -1 OFFSET 10`, query)
	})

	t.Run("sort after select wraps", func(t *testing.T) {
		t.Parallel()

		f, err := base.Select("lemma", "freq")
		require.NoError(t, err)
		f, err = f.Sort("freq")
		require.NoError(t, err)

		query, _ := f.SQL()
		assert.Equal(t, `SELECT * FROM (SELECT "lemma", "freq" FROM "lemmas") ORDER BY "freq" DESC NULLS LAST`, query)
	})

	t.Run("second limit wraps", func(t *testing.T) {
		t.Parallel()

		query, _ := base.Limit(2, 10).Limit(1, 3).SQL()
		assert.Equal(t, `SELECT * FROM (SELECT * FROM "lemmas" LIMIT 10 OFFSET 2) LIMIT 3 OFFSET 1`, query)
	})

	t.Run("frames are immutable", func(t *testing.T) {
		t.Parallel()

		_ = base.Filter(Eq(Col("PoS"), Lit("v"))).Limit(0, 1)
		query, args := base.SQL()
		assert.Equal(t, `SELECT * FROM "lemmas"`, query)
		assert.Empty(t, args)
	})
}

func TestFrame_Schema(t *testing.T) {
	t.Parallel()

	session := openSession(t, SheetLemmas)
	f, err := session.Sheet(SheetLemmas)
	require.NoError(t, err)

	want := Schema{
		{Name: "rank", Type: "INTEGER"},
		{Name: "lemma", Type: "TEXT"},
		{Name: "PoS", Type: "TEXT"},
		{Name: "freq", Type: "INTEGER"},
		{Name: "perMil", Type: "REAL"},
		{Name: "disp", Type: "REAL"},
	}
	if diff := cmp.Diff(want, f.Schema()); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}

	projected, err := f.Select("freq", "lemma")
	require.NoError(t, err)
	assert.Equal(t, []string{"freq", "lemma"}, projected.Schema().Names())

	assert.True(t, f.Schema().HasColumn("PoS"))
	assert.False(t, f.Schema().HasColumn("pos"))
	assert.False(t, projected.Schema().HasColumn("PoS"))

	_, err = f.Select("missing")
	assert.ErrorIs(t, err, ErrQuery)
	_, err = f.Sort("missing")
	assert.ErrorIs(t, err, ErrQuery)
}

func TestFrame_Collect(t *testing.T) {
	t.Parallel()

	session := openSession(t, SheetLemmas)
	ctx := context.Background()
	f, err := session.Sheet(SheetLemmas)
	require.NoError(t, err)

	t.Run("typed values", func(t *testing.T) {
		t.Parallel()

		g, err := f.Filter(Eq(Col("lemma"), Lit("the"))).Select("rank", "lemma", "perMil", "disp")
		require.NoError(t, err)

		result, err := g.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"rank", "lemma", "perMil", "disp"}, result.Columns)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, []any{int64(1), "the", 50033.61, 0.98}, result.Rows[0])
	})

	t.Run("nulls sort last", func(t *testing.T) {
		t.Parallel()

		g, err := f.Sort("disp")
		require.NoError(t, err)
		g, err = g.Select("rank", "disp")
		require.NoError(t, err)

		result, err := g.Collect(ctx)
		require.NoError(t, err)
		require.Len(t, result.Rows, 20)
		assert.Equal(t, int64(1), result.Rows[0][0])
		assert.Nil(t, result.Rows[18][1])
		assert.Nil(t, result.Rows[19][1])
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()

		result, err := f.Filter(Eq(Col("lemma"), Lit("zzz"))).Collect(ctx)
		require.NoError(t, err)
		assert.Empty(t, result.Rows)
		assert.Len(t, result.Columns, 6)
	})

	t.Run("prefix match is case sensitive", func(t *testing.T) {
		t.Parallel()

		result, err := f.Filter(StartsWith(Col("lemma"), "UN")).Collect(ctx)
		require.NoError(t, err)
		assert.Empty(t, result.Rows)
	})
}

func TestFrame_Show(t *testing.T) {
	t.Parallel()

	session := openSession(t, SheetLemmas)
	f, err := session.Sheet(SheetLemmas)
	require.NoError(t, err)
	f, err = f.Limit(0, 2).Select("rank", "lemma")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Show(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "LEMMA")
	assert.Contains(t, out, "| the")
	assert.Contains(t, out, "| be")
	assert.NotContains(t, out, "and")
}

func TestSchema_Render(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Schema{{Name: "rank", Type: "INTEGER"}}.Render(&buf))
	assert.Contains(t, buf.String(), "rank")
	assert.Contains(t, buf.String(), "INTEGER")
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"dog", "dog"},
		{[]byte("cat"), "cat"},
		{int64(42), "42"},
		{0.98, "0.98"},
		{float64(3), "3"},
		{true, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatValue(tt.in))
	}
}
