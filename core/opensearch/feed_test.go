package opensearch_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/goto/datahub/core/opensearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)

func testConfig() opensearch.Config {
	return opensearch.Config{
		ShortName: "Data Hub",
		SiteURL:   "http://hub.example",
		SiteID:    "default",
		SourceSystems: map[string]opensearch.SourceSystem{
			"copernicus": {URLTemplate: "https://sentinels.copernicus.eu/web/sentinel", ContentType: "text/html"},
		},
	}
}

func TestAssembler_AssembleDatasets(t *testing.T) {
	schema := newTestSchema(t)
	params, err := schema.Lookup(opensearch.SearchTypeDataset)
	require.NoError(t, err)

	a := opensearch.NewAssembler(testConfig(), schema, opensearch.WithClock(func() time.Time { return fixedNow }))

	doc := opensearch.Document{
		Fields: map[string]interface{}{
			"id":                "abc",
			"title":             "Flood extent",
			"notes":             "Flooded areas",
			"author":            "Jane",
			"author_email":      "jane@example.org",
			"metadata_modified": "2019-01-02T03:04:05",
			"metadata_created":  "2018-01-02T03:04:05",
			"organization":      map[string]interface{}{"title": "Space Agency"},
			"tags":              []interface{}{map[string]interface{}{"name": "flood"}, "water"},
			"resources": []interface{}{
				map[string]interface{}{"name": "Product", "url": "http://dl/p.zip", "size": float64(100)},
				map[string]interface{}{"name": "Thumbnail Download", "url": "http://dl/t.png", "mimetype": "image/png"},
				map[string]interface{}{"name": "Metadata Download (XML)", "url": "http://dl/m.xml"},
			},
		},
		Extras: map[string]string{
			"spatial": `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,0]]]}`,
		},
	}

	q := query("q", "flood", "tags", "a", "tags", "b", "ext_bbox", "0,0,10,10", "rows", "10")
	feed, err := a.Assemble(opensearch.FeedRequest{
		SearchType: opensearch.SearchTypeDataset,
		RequestURL: "http://hub.example/opensearch/search.atom?q=flood&amp=1",
		QueryURL:   "http://hub.example/opensearch/search.atom?q=flood",
		Query:      q,
		Params:     params,
		Page:       opensearch.Paginate(10, 0, 1, 25),
		Results:    opensearch.SearchResultSet{Count: 25, Documents: []opensearch.Document{doc}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Data Hub OpenSearch Search Results", feed.Title)
	assert.Equal(t, "25 results for your search", feed.Subtitle)
	assert.Equal(t, "No author information available", feed.AuthorName)
	assert.Equal(t, fixedNow, feed.Updated)
	assert.Equal(t, "0 0 10 10", feed.Box)
	assert.Equal(t, []opensearch.QueryAttr{
		{Name: "searchTerms", Value: "flood"},
		{Name: "dc:keyword", Value: "a b"},
		{Name: "geo:box", Value: "0,0,10,10"},
		{Name: "count", Value: "10"},
		{Name: "role", Value: "request"},
	}, feed.Query)

	var rels []string
	for _, l := range feed.Links {
		rels = append(rels, l.Rel)
	}
	assert.Equal(t, []string{"search", "self", "first", "next", "last"}, rels)
	assert.Equal(t, "http://hub.example/opensearch/description.xml", feed.Links[0].Href)

	require.Len(t, feed.Entries, 1)
	want := opensearch.Entry{
		Title:       "Flood extent",
		ID:          "http://hub.example/dataset/abc",
		Identifier:  "abc",
		AuthorName:  "Space Agency",
		AuthorEmail: "jane@example.org",
		Publisher:   "Space Agency",
		Updated:     "2019-01-02T03:04:05Z",
		Published:   "2018-01-02T03:04:05Z",
		Rights:      "No license information available",
		Summary:     "Flooded areas",
		Categories:  []string{"flood", "water"},
		Links: []opensearch.Link{
			{Rel: "alternate", Href: "http://hub.example/dataset/abc", Type: "text/html"},
			{Rel: "enclosure", Href: "http://dl/p.zip", Type: "application/octet-stream", Title: "Product", Length: "100"},
			{Rel: "icon", Href: "http://dl/t.png", Type: "image/png", Title: "Quicklook image"},
			{Rel: "via", Href: "http://dl/m.xml", Type: "application/octet-stream", Title: "Metadata Download (XML)"},
		},
		Polygon: "0 0 10 0 10 10 0 0",
	}
	if diff := cmp.Diff(want, feed.Entries[0]); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembler_AssembleDefaults(t *testing.T) {
	schema := newTestSchema(t)
	params, err := schema.Lookup(opensearch.SearchTypeDataset)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.EarthObservation = true
	a := opensearch.NewAssembler(cfg, schema)

	t.Run("should fill documented defaults", func(t *testing.T) {
		feed, err := a.Assemble(opensearch.FeedRequest{
			Params:  params,
			Query:   query("q", "x"),
			Results: opensearch.SearchResultSet{Count: 1, Documents: []opensearch.Document{{Fields: map[string]interface{}{"id": "x1"}}}},
		})
		require.NoError(t, err)
		require.Len(t, feed.Entries, 1)

		e := feed.Entries[0]
		assert.Equal(t, "Untitled", e.Title)
		assert.Equal(t, "No summary available.", e.Summary)
		assert.Equal(t, "No publisher info available", e.Publisher)
		assert.Equal(t, "-180.0 -90.0 180.0 90.0", feed.Box)
		require.NotNil(t, e.EarthObservation)
		assert.Equal(t, "x1", e.EarthObservation.ID)
	})

	t.Run("should reject documents without an identifier", func(t *testing.T) {
		_, err := a.Assemble(opensearch.FeedRequest{
			Params:  params,
			Results: opensearch.SearchResultSet{Count: 1, Documents: []opensearch.Document{{Fields: map[string]interface{}{"title": "t"}}}},
		})
		assert.ErrorAs(t, err, &opensearch.ContractError{})
	})

	t.Run("should link scoped entries to their collection", func(t *testing.T) {
		feed, err := a.Assemble(opensearch.FeedRequest{
			Params:       params,
			CollectionID: "SENTINEL-1",
			Results:      opensearch.SearchResultSet{Count: 1, Documents: []opensearch.Document{{Fields: map[string]interface{}{"id": "x1"}}}},
		})
		require.NoError(t, err)
		links := feed.Entries[0].Links
		up := links[len(links)-1]
		assert.Equal(t, opensearch.Link{
			Rel:   "up",
			Href:  "http://hub.example/opensearch/description.xml?osdd=SENTINEL-1",
			Type:  opensearch.MediaTypeOSDD,
			Title: "Sentinel 1",
		}, up)
	})
}

func TestAssembler_AssembleCollections(t *testing.T) {
	schema := newTestSchema(t)
	params, err := schema.Lookup(opensearch.SearchTypeCollection)
	require.NoError(t, err)

	a := opensearch.NewAssembler(testConfig(), schema)
	feed, err := a.Assemble(opensearch.FeedRequest{
		SearchType: opensearch.SearchTypeCollection,
		Params:     params,
		Query:      query("q", "x"),
		Results: opensearch.SearchResultSet{
			Grouped: true,
			Count:   2,
			Groups: []opensearch.Group{
				{Value: "Sentinel 1", Count: 12, Document: opensearch.Document{
					Fields: map[string]interface{}{"id": "a", "title": "S1 product", "notes": "Radar"},
					Extras: map[string]string{"collection_id": "SENTINEL-1", "collection_name": "Sentinel 1"},
				}},
				{Value: "Other", Count: 3, Document: opensearch.Document{
					Fields: map[string]interface{}{"id": "b", "title": "Other"},
				}},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, feed.Collections, 2)

	first := feed.Collections[0]
	assert.Equal(t, "SENTINEL-1", first.ID)
	assert.Equal(t, "Sentinel 1", first.Title)
	assert.Equal(t, "Radar (12 datasets)", first.Summary)
	assert.Equal(t, 12, first.Count)
	assert.True(t, first.TimestampsUnknown)
	assert.Equal(t, opensearch.PlaceholderPublished, first.Published)
	require.Len(t, first.Links, 2)
	assert.Equal(t, "via", first.Links[1].Rel)
	assert.Equal(t, "https://sentinels.copernicus.eu/web/sentinel", first.Links[1].Href)

	second := feed.Collections[1]
	assert.Equal(t, "Other", second.ID)
	assert.Equal(t, "No description", second.Summary)
	assert.Len(t, second.Links, 1, "no via link without a source system")
}
