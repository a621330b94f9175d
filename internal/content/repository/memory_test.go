package repository

import (
	"context"
	"testing"
	"time"

	"github.com/halcyonmedia/site-services/internal/content"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoUpsert(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	n, err := r.Upsert(ctx, []content.FeedItem{
		{ID: "a", Title: "A", Type: content.FeedArticle, Date: day},
		{ID: "b", Title: "B", Type: content.FeedVideo, Date: day.AddDate(0, 0, 1)},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = r.Upsert(ctx, []content.FeedItem{{ID: "a", Title: "A2", Type: content.FeedArticle, Date: day}})
	require.NoError(t, err)
	require.Zero(t, n)

	all, err := r.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "b", all[0].ID)

	articles, err := r.List(ctx, content.FeedArticle)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "A2", articles[0].Title)
}
