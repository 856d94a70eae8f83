package lmsclient

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagerServer(t *testing.T, total int, seen *[]string) *Client {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		*seen = append(*seen, r.URL.RequestURI())
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		pages := (total + perPage - 1) / perPage
		writeJSON(w, http.StatusOK, "success", map[string]interface{}{
			"units":        []map[string]interface{}{{"id": page, "title": "unit"}},
			"total":        total,
			"pages":        pages,
			"current_page": page,
			"has_next":     page < pages,
			"has_prev":     page > 1,
		})
	})
	return c
}

func TestPagerNavigation(t *testing.T) {
	var seen []string
	p := pagerServer(t, 25, &seen).Pager(10)
	ctx := context.Background()

	require.NoError(t, p.Load(ctx))
	assert.Equal(t, 3, p.TotalPages())
	assert.Equal(t, []int{1, 2, 3}, p.Pages())
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	require.NoError(t, p.Prev(ctx))
	assert.Len(t, seen, 1)

	require.NoError(t, p.Goto(ctx, 3))
	assert.Equal(t, 3, p.Page())
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())

	require.NoError(t, p.Next(ctx))
	assert.Len(t, seen, 2)

	assert.ErrorIs(t, p.Goto(ctx, 4), ErrPageOutOfRange)
	assert.ErrorIs(t, p.Goto(ctx, 0), ErrPageOutOfRange)
	assert.Len(t, seen, 2)
}

func TestPagerSortAndCategoryResetPage(t *testing.T) {
	var seen []string
	p := pagerServer(t, 40, &seen).Pager(10)
	ctx := context.Background()

	require.NoError(t, p.Load(ctx))
	require.NoError(t, p.Goto(ctx, 3))

	require.NoError(t, p.SetSort(ctx, SortByRating))
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, "/api/units?page=1&per_page=10&sort_by=rating", seen[len(seen)-1])

	require.NoError(t, p.Goto(ctx, 2))
	require.NoError(t, p.SetCategory(ctx, "Web Development"))
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, "/api/units/category/Web%20Development?page=1&per_page=10&sort_by=rating", seen[len(seen)-1])
}

func TestPagerSinglePage(t *testing.T) {
	var seen []string
	p := pagerServer(t, 5, &seen).Pager(0)
	require.NoError(t, p.Load(context.Background()))
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, []int{1}, p.Pages())
}
