package atom_test

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/internal/atom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_FeedDocument(t *testing.T) {
	r := atom.NewRenderer(nil)

	feed := opensearch.Feed{
		Title:        "Hub OpenSearch Search Results",
		Subtitle:     "1 results for your search",
		ID:           "http://hub/opensearch/search.atom?q=x",
		Generator:    opensearch.Generator{Version: "0.1", URI: "http://hub/opensearch/search.atom?q=x", Text: "Hub search results"},
		AuthorName:   "nobody",
		Updated:      time.Date(2020, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
		TotalResults: 1,
		StartIndex:   1,
		ItemsPerPage: 20,
		Query:        []opensearch.QueryAttr{{Name: "searchTerms", Value: "x"}, {Name: "role", Value: "request"}},
		Links:        []opensearch.Link{{Rel: "self", Href: "http://hub/opensearch/search.atom?q=x", Type: opensearch.MediaTypeAtom}},
		Entries: []opensearch.Entry{{
			Title:      "Flood",
			ID:         "http://hub/dataset/a",
			Identifier: "a",
			Categories: []string{"water"},
			Links: []opensearch.Link{
				{Rel: "alternate", Href: "http://hub/dataset/a", Type: "text/html"},
				{Rel: "enclosure", Href: "http://dl/a.zip", Type: "application/zip", Length: "10"},
			},
			Summary:          "about floods",
			Polygon:          "0 0 1 0 1 1 0 0",
			EarthObservation: &opensearch.EarthObservation{ID: "a", Platform: "Sentinel-1"},
		}},
	}

	doc := r.FeedDocument(feed)
	root := doc.Root

	assert.Equal(t, "atom:feed", root.Name)
	assert.Equal(t, "2020-05-01T10:00:00Z", root.Find("atom:updated").Text)
	assert.Equal(t, "1", root.Find("opensearch:totalResults").Text)

	q := root.Find("opensearch:Query")
	require.NotNil(t, q)
	role, _ := q.AttrValue("role")
	assert.Equal(t, "request", role)

	entry := root.Find("atom:entry")
	require.NotNil(t, entry)
	var names []string
	for _, c := range entry.Children {
		if !c.Empty() {
			names = append(names, c.Name)
		}
	}
	assert.Equal(t, []string{
		"atom:title", "atom:id", "dc:identifier", "atom:link", "atom:summary",
		"atom:category", "atom:link", "georss:polygon", "eop:EarthObservation",
	}, names)

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	out := buf.String()
	assert.Contains(t, out, `<feed xmlns="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, out, `<georss:polygon>0 0 1 0 1 1 0 0</georss:polygon>`)
	assert.Contains(t, out, `<eop:Platform><eop:shortName>Sentinel-1</eop:shortName></eop:Platform>`)
	assert.Contains(t, out, `<gml:TimePeriod gml:id="tp_a">`)
	assert.NotContains(t, out, "<georss:box>")
	assert.NotContains(t, out, "<eop:instrument>")

	require.NoError(t, xml.Unmarshal(buf.Bytes(), new(interface{})), "output must be well formed")
}

func TestRenderer_GroupedFeed(t *testing.T) {
	r := atom.NewRenderer(opensearch.NewNamespaces(nil))
	doc := r.FeedDocument(opensearch.Feed{
		Grouped: true,
		Entries: []opensearch.Entry{{Title: "ignored"}},
		Collections: []opensearch.CollectionEntry{{
			ID: "S1", Title: "Sentinel 1", Summary: "Radar (2 datasets)", Count: 2,
			Published: opensearch.PlaceholderPublished, Updated: opensearch.PlaceholderUpdated,
		}},
	})

	entries := doc.Root.FindAll("atom:entry")
	require.Len(t, entries, 1)
	assert.Equal(t, "S1", entries[0].Find("dc:identifier").Text)
	assert.Equal(t, "2", entries[0].Find("atom:count").Text)
}

func TestRenderer_DescriptionDocument(t *testing.T) {
	r := atom.NewRenderer(nil)
	doc := r.DescriptionDocument(opensearch.Description{
		ShortName:        "Hub",
		Description:      "Search all datasets.",
		SyndicationRight: "open",
		SelfURL:          "http://hub/opensearch/description.xml",
		Search: opensearch.SearchTemplate{
			Template:    "http://hub/opensearch/search.atom?q={opensearch:searchTerms?}",
			Rel:         "results",
			Type:        opensearch.MediaTypeAtom,
			PageOffset:  1,
			IndexOffset: 1,
			Parameters: []opensearch.DescribedParameter{{
				Name:    "q",
				Value:   "{opensearch:searchTerms}",
				Minimum: "0",
				Maximum: "1",
				Options: []opensearch.Option{{Value: "a", Label: "A"}},
				Profile: &opensearch.Link{Rel: "profile", Href: "http://lucene", Title: "Lucene"},
			}},
		},
		Examples: []opensearch.QueryAttr{{Name: "role", Value: "example"}, {Name: "searchTerms", Value: "flood"}},
	})

	out, err := doc.String()
	require.NoError(t, err)

	assert.Contains(t, out, `<OpenSearchDescription xmlns:atom="http://www.w3.org/2005/Atom" `)
	assert.Contains(t, out, `xmlns:om="http://www.opengis.net/om/2.0" xmlns="http://a9.com/-/spec/opensearch/1.1/" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/" xmlns:param=`)
	assert.Contains(t, out, `<Url rel="self" type="application/opensearchdescription+xml" template="http://hub/opensearch/description.xml"></Url>`)
	assert.Contains(t, out, `<Url pageOffset="1" indexOffset="1" rel="results" type="application/atom+xml"`)
	assert.Contains(t, out, `<param:Parameter name="q" value="{opensearch:searchTerms}" minimum="0" maximum="1"><param:Option value="a" label="A"></param:Option><atom:link rel="profile" href="http://lucene" title="Lucene"></atom:link></param:Parameter>`)
	assert.Contains(t, out, `<Query role="example" searchTerms="flood"></Query>`)
	assert.NotContains(t, out, "<Tags>")
}
