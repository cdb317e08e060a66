package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

type item struct {
	ID    string    `bson:"_id"`
	Name  string    `bson:"name"`
	Tags  []string  `bson:"tags"`
	Score int       `bson:"score"`
	At    time.Time `bson:"at"`
	Owner *string   `bson:"owner"`
}

func strPtr(s string) *string { return &s }

func seedItems(t *testing.T) store.Collection[item] {
	t.Helper()
	coll := store.For[item](store.NewMemoryBackend(), "items")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	items := []item{
		{ID: "a", Name: "alpha", Tags: []string{"x", "y"}, Score: 3, At: base, Owner: strPtr("u1")},
		{ID: "b", Name: "bravo", Tags: []string{"y"}, Score: 1, At: base.AddDate(0, 0, 5)},
		{ID: "c", Name: "charlie", Tags: []string{"z"}, Score: 2, At: base.AddDate(0, 0, 10), Owner: strPtr("u2")},
	}
	for _, it := range items {
		require.NoError(t, coll.Insert(context.Background(), it))
	}
	return coll
}

func ids(items []item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestMemoryCollection_GetAndNotFound(t *testing.T) {
	coll := seedItems(t)
	ctx := context.Background()

	got, err := coll.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
	assert.Equal(t, []string{"x", "y"}, got.Tags)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "u1", *got.Owner)

	_, err = coll.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryCollection_Insert(t *testing.T) {
	coll := seedItems(t)
	ctx := context.Background()

	err := coll.Insert(ctx, item{ID: "a", Name: "again"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	err = coll.Insert(ctx, item{Name: "no id"})
	assert.Error(t, err)
}

func TestMemoryCollection_Find(t *testing.T) {
	coll := seedItems(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		q    store.Query
		want []string
	}{
		{"all in insertion order", store.NewQuery(), []string{"a", "b", "c"}},
		{"equality", store.Where("name", "bravo"), []string{"b"}},
		{"array element equality", store.Where("tags", "y"), []string{"a", "b"}},
		{"null matches unset pointer", store.Where("owner", nil), []string{"b"}},
		{"in", store.NewQuery().In("owner", []string{"u1", "u2"}), []string{"a", "c"}},
		{"numeric range", store.NewQuery().Gte("score", 2), []string{"a", "c"}},
		{"date range inclusive", store.NewQuery().Between("at", base.AddDate(0, 0, 5), base.AddDate(0, 0, 10)), []string{"b", "c"}},
		{"order asc", store.NewQuery().OrderBy("score", false), []string{"b", "c", "a"}},
		{"order desc with limit", store.NewQuery().OrderBy("at", true).Limit(2), []string{"c", "b"}},
		{"skip", store.NewQuery().OrderBy("name", false).Skip(1), []string{"b", "c"}},
		{"no match", store.Where("name", "delta"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coll.Find(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMemoryCollection_Count(t *testing.T) {
	coll := seedItems(t)

	n, err := coll.Count(context.Background(), store.Where("tags", "y").Limit(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryCollection_Update(t *testing.T) {
	coll := seedItems(t)
	ctx := context.Background()

	require.NoError(t, coll.Update(ctx, "a", map[string]any{
		"tags":  []string{"y"},
		"owner": nil,
	}))

	got, err := coll.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, got.Tags)
	assert.Nil(t, got.Owner)
	assert.Equal(t, "alpha", got.Name)

	matched, err := coll.Find(ctx, store.Where("tags", "x"))
	require.NoError(t, err)
	assert.Empty(t, matched)

	assert.ErrorIs(t, coll.Update(ctx, "missing", map[string]any{"name": "x"}), store.ErrNotFound)
}

func TestMemoryCollection_ReplaceAndDelete(t *testing.T) {
	coll := seedItems(t)
	ctx := context.Background()

	require.NoError(t, coll.Replace(ctx, "b", item{ID: "b", Name: "beta", Score: 9}))
	got, err := coll.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "beta", got.Name)
	assert.Equal(t, 9, got.Score)

	assert.Error(t, coll.Replace(ctx, "b", item{ID: "other"}))
	assert.ErrorIs(t, coll.Replace(ctx, "zz", item{ID: "zz"}), store.ErrNotFound)

	require.NoError(t, coll.Delete(ctx, "b"))
	assert.ErrorIs(t, coll.Delete(ctx, "b"), store.ErrNotFound)

	rest, err := coll.Find(ctx, store.NewQuery())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(rest))
}

func TestMemoryCollection_CancelledContext(t *testing.T) {
	coll := seedItems(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := coll.Find(ctx, store.NewQuery())
	assert.ErrorIs(t, err, context.Canceled)
}
