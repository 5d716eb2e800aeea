package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/goto/datahub/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:os="http://a9.com/-/spec/opensearch/1.1/">
  <title>Datahub search results</title>
  <os:totalResults>2</os:totalResults>
  <os:startIndex>1</os:startIndex>
  <os:itemsPerPage>20</os:itemsPerPage>
  <entry><id>https://data.example.org/dataset/a</id><title>A</title><updated>2023-03-01T10:00:00Z</updated></entry>
  <entry><id>https://data.example.org/dataset/b</id><title>B</title><updated>2023-03-02T10:00:00Z</updated></entry>
</feed>`

func TestClientSearch(t *testing.T) {
	var gotPath, gotQuery, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUser = r.Header.Get("Datahub-User-UUID")
		if r.URL.Query().Get("q") == "bad" {
			http.Error(w, `Invalid value for "q".`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	clnt, err := client.Create(client.Config{
		Host:                      srv.URL + "/",
		ServerHeaderKeyUserUUID:   "Datahub-User-UUID",
		ServerHeaderValueUserUUID: "8b7a4e0c-4d2b-4c4e-9f7d-1f6b0a3c2e11",
	})
	require.NoError(t, err)

	t.Run("should search datasets", func(t *testing.T) {
		data, err := clnt.Search(context.Background(), url.Values{"q": {"ice"}}, false)
		require.NoError(t, err)
		assert.Equal(t, "/opensearch/search.atom", gotPath)
		assert.Equal(t, "q=ice", gotQuery)
		assert.Equal(t, "8b7a4e0c-4d2b-4c4e-9f7d-1f6b0a3c2e11", gotUser)

		feed, err := client.ParseFeed(data)
		require.NoError(t, err)
		assert.Equal(t, 2, feed.TotalResults)
		assert.Equal(t, 20, feed.ItemsPerPage)
		require.Len(t, feed.Entries, 2)
		assert.Equal(t, "B", feed.Entries[1].Title)
	})

	t.Run("should search collections", func(t *testing.T) {
		_, err := clnt.Search(context.Background(), nil, true)
		require.NoError(t, err)
		assert.Equal(t, "/opensearch/collections", gotPath)
		assert.Empty(t, gotQuery)
	})

	t.Run("should describe a search type", func(t *testing.T) {
		_, err := clnt.Describe(context.Background(), "SENTINEL-2")
		require.NoError(t, err)
		assert.Equal(t, "/opensearch/description.xml", gotPath)
		assert.Equal(t, "osdd=SENTINEL-2", gotQuery)
	})

	t.Run("should surface gateway errors", func(t *testing.T) {
		_, err := clnt.Search(context.Background(), url.Values{"q": {"bad"}}, false)
		var statusErr client.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadRequest, statusErr.Status)
		assert.EqualError(t, err, `gateway responded 400: Invalid value for "q".`)
	})
}

func TestCreate(t *testing.T) {
	t.Run("should not dial the gateway", func(t *testing.T) {
		clnt, err := client.Create(client.Config{Host: "localhost:8080"})
		require.NoError(t, err)
		assert.NotNil(t, clnt)
	})

	t.Run("should reject a host that is not a URL", func(t *testing.T) {
		_, err := client.Create(client.Config{Host: "not a host"})
		assert.Error(t, err)
	})
}
