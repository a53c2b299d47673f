package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 0, Offset(0, 10), "sub-1 pages clamp to the first")
}

func TestBuildEnvelope(t *testing.T) {
	page := Build([]string{"a", "b"}, 25, 2, 10, "/ApiV1/tickets", url.Values{"search": {"printer"}})

	assert.Equal(t, int64(25), page.TotalCount)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)

	require.NotNil(t, page.NextPage)
	next, err := url.Parse(*page.NextPage)
	require.NoError(t, err)
	assert.Equal(t, "/ApiV1/tickets", next.Path)
	assert.Equal(t, "3", next.Query().Get("page"))
	assert.Equal(t, "10", next.Query().Get("page_size"))
	assert.Equal(t, "printer", next.Query().Get("search"), "original params survive in links")

	require.NotNil(t, page.PreviousPage)
	prev, err := url.Parse(*page.PreviousPage)
	require.NoError(t, err)
	assert.Equal(t, "1", prev.Query().Get("page"))
}

func TestBuildLinkBoundaries(t *testing.T) {
	first := Build([]int{1}, 25, 1, 10, "/t", nil)
	assert.Nil(t, first.PreviousPage)
	assert.NotNil(t, first.NextPage)

	last := Build([]int{1}, 25, 3, 10, "/t", nil)
	assert.NotNil(t, last.PreviousPage)
	assert.Nil(t, last.NextPage)
}

func TestBuildOutOfRangePage(t *testing.T) {
	page := Build([]int(nil), 25, 9, 10, "/t", nil)
	assert.NotNil(t, page.Data, "data is an empty slice, never null")
	assert.Empty(t, page.Data)
	assert.Equal(t, 9, page.Page, "page number is reported as requested, not clamped")
	assert.Equal(t, 3, page.TotalPages)
	assert.Nil(t, page.NextPage)
	assert.Nil(t, page.PreviousPage, "previous link outside the range is omitted too")
}

func TestBuildEmptyResult(t *testing.T) {
	page := Build([]int{}, 0, 1, 10, "/t", nil)
	assert.Equal(t, 0, page.TotalPages)
	assert.Nil(t, page.NextPage)
	assert.Nil(t, page.PreviousPage)
}
