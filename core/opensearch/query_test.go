package opensearch_test

import (
	"testing"

	"github.com/goto/datahub/core/opensearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmittedQuery(t *testing.T) {
	q, err := opensearch.ParseSubmittedQuery("tags=b&q=flood+map&tags=a&empty=&flag")
	require.NoError(t, err)

	assert.Equal(t, []string{"tags", "q", "empty", "flag"}, q.Names())
	assert.Equal(t, []string{"b", "a"}, q.Values("tags"))
	assert.Equal(t, "flood map", q.Get("q"))
	assert.Equal(t, 2, q.Count("tags"))
	assert.True(t, q.Has("flag"))
	assert.Equal(t, "tags=b&q=flood+map&tags=a&empty=&flag=", q.Encode())

	_, err = opensearch.ParseSubmittedQuery("q=%zz")
	assert.Error(t, err)
}

func TestSubmittedQuery_Restrict(t *testing.T) {
	params, err := opensearch.NewParameters(opensearch.ParameterDefinition{Name: "q", MaxOccurrences: 1})
	require.NoError(t, err)

	known, unknown := query("q", "a", "x", "1").Restrict(params)
	assert.Equal(t, []opensearch.Pair{{Name: "q", Value: "a"}}, known.Pairs())
	assert.Equal(t, []string{"x"}, unknown)
}

func TestSubmittedQuery_WithoutAndWith(t *testing.T) {
	q := query("amp", "", "q", "a")

	assert.Equal(t, []string{"q"}, q.Without("amp").Names())
	assert.Equal(t, []string{"amp", "q", "collection_id"}, q.With("collection_id", "c").Names())
	assert.Equal(t, 2, q.Len(), "original query is unchanged")
}
