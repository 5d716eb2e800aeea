package elasticsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goto/datahub/core/opensearch"
	"github.com/olivere/elastic/v7"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

const (
	matchAll         = "*:*"
	scoreField       = "score"
	groupInnerHits   = "group"
	groupCardinality = "ngroups"
	facetAggPrefix   = "facet_"
	defaultTextField = "text"
)

var envelopePattern = regexp.MustCompile(`^ENVELOPE\(\s*([^,\s]+)\s*,\s*([^,\s]+)\s*,\s*([^,\s]+)\s*,\s*([^,\s)]+)\s*\)$`)

// geoShapeQuery matches documents whose shape field intersects shape.
// elastic/v7 has no builder for it.
type geoShapeQuery struct {
	field string
	shape interface{}
}

func (q geoShapeQuery) Source() (interface{}, error) {
	return map[string]interface{}{
		"geo_shape": map[string]interface{}{
			q.field: map[string]interface{}{
				"shape":    q.shape,
				"relation": "intersects",
			},
		},
	}, nil
}

func buildSearchBody(q opensearch.EngineQuery) (io.Reader, error) {
	filters, err := buildFilters(q.Filters)
	if err != nil {
		return nil, err
	}
	query := elastic.NewBoolQuery().
		Must(buildTextQuery(q)).
		Filter(filters...)

	sorters, err := buildSorters(q.Sort)
	if err != nil {
		return nil, err
	}

	src := elastic.NewSearchSource().
		Query(query).
		From(q.Start).
		Size(q.Rows).
		TrackTotalHits(true)
	if len(sorters) > 0 {
		src = src.SortBy(sorters...)
	}
	if len(q.Fields) > 0 {
		src = src.FetchSourceContext(elastic.NewFetchSourceContext(true).Include(q.Fields...))
	}

	if q.Facet != nil {
		for _, field := range q.Facet.Fields {
			agg := elastic.NewTermsAggregation().
				Field(keywordField(field)).
				MinDocCount(q.Facet.MinCount)
			if q.Facet.Limit > 0 {
				agg = agg.Size(q.Facet.Limit)
			}
			src = src.Aggregation(facetAggPrefix+field, agg)
		}
	}

	if q.Group != nil {
		field := keywordField(q.Group.Field)
		inner := elastic.NewInnerHit().Name(groupInnerHits).Size(q.Group.Limit)
		if len(q.Fields) > 0 {
			inner = inner.FetchSourceContext(elastic.NewFetchSourceContext(true).Include(q.Fields...))
		}
		src = src.Collapse(elastic.NewCollapseBuilder(field).InnerHit(inner))
		if q.Group.NGroups {
			src = src.Aggregation(groupCardinality, elastic.NewCardinalityAggregation().Field(field))
		}
	}

	body, err := src.Source()
	if err != nil {
		return nil, fmt.Errorf("build search source: %w", err)
	}

	payload := new(bytes.Buffer)
	if err := json.NewEncoder(payload).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search source: %w", err)
	}
	return payload, nil
}

// buildTextQuery picks a multi_match for dismax parsers and a query_string
// otherwise, so fielded Lucene syntax keeps working.
func buildTextQuery(q opensearch.EngineQuery) elastic.Query {
	if q.Text == "" || q.Text == matchAll {
		return elastic.NewMatchAllQuery()
	}

	switch q.Params[opensearch.EngineDefType] {
	case "dismax", "edismax":
		mq := elastic.NewMultiMatchQuery(q.Text).Type("best_fields")
		for _, f := range strings.Fields(q.Params[opensearch.EngineQF]) {
			name, boost, ok := strings.Cut(f, "^")
			if !ok {
				mq = mq.Field(name)
				continue
			}
			b, err := strconv.ParseFloat(boost, 64)
			if err != nil {
				mq = mq.Field(name)
				continue
			}
			mq = mq.FieldWithBoost(name, b)
		}
		if tie, err := strconv.ParseFloat(q.Params[opensearch.EngineTie], 64); err == nil {
			mq = mq.TieBreaker(tie)
		}
		if mm := q.Params[opensearch.EngineMM]; mm != "" {
			mq = mq.MinimumShouldMatch(mm)
		}
		return mq
	}

	qs := elastic.NewQueryStringQuery(q.Text).DefaultField(defaultTextField)
	if op := q.Params[opensearch.EngineQOp]; op != "" {
		qs = qs.DefaultOperator(op)
	}
	return qs
}

func buildFilters(clauses []opensearch.Clause) ([]elastic.Query, error) {
	filters := make([]elastic.Query, 0, len(clauses))
	for _, c := range clauses {
		switch c := c.(type) {
		case opensearch.EqualityClause:
			filters = append(filters, elastic.NewTermQuery(keywordField(c.Field), c.Value))
		case opensearch.AnyOfClause:
			values := make([]interface{}, len(c.Values))
			for i, v := range c.Values {
				values[i] = v
			}
			filters = append(filters, elastic.NewTermsQuery(keywordField(c.Field), values...))
		case opensearch.RangeClause:
			rq := elastic.NewRangeQuery(c.Field)
			if from := rangeBound(c.From, "*"); from != "" {
				rq = rq.Gte(from)
			}
			if to := rangeBound(c.To, "NOW"); to != "" {
				rq = rq.Lte(to)
			}
			filters = append(filters, rq)
		case opensearch.SpatialClause:
			shape, err := parseShape(c.Shape)
			if err != nil {
				return nil, fmt.Errorf("parse_exception: field %q: %w", c.Field, err)
			}
			filters = append(filters, geoShapeQuery{field: c.Field, shape: shape})
		default:
			return nil, fmt.Errorf("unsupported clause on %q", c.FieldName())
		}
	}
	return filters, nil
}

// rangeBound maps the open and current-time markers onto range syntax.
// An empty result leaves the side of the range open.
func rangeBound(v, empty string) string {
	if v == "" {
		v = empty
	}
	switch {
	case v == "*":
		return ""
	case strings.HasPrefix(v, "NOW"):
		return "now" + strings.TrimPrefix(v, "NOW")
	}
	return v
}

// parseShape reads an ENVELOPE(minX, maxX, maxY, minY) expression or a WKT
// geometry into a geo_shape body.
func parseShape(shape string) (interface{}, error) {
	if m := envelopePattern.FindStringSubmatch(shape); m != nil {
		var c [4]float64
		for i := range c {
			f, err := strconv.ParseFloat(m[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid envelope %q", shape)
			}
			c[i] = f
		}
		return map[string]interface{}{
			"type":        "envelope",
			"coordinates": [][2]float64{{c[0], c[2]}, {c[1], c[3]}},
		}, nil
	}

	g, err := wkt.Unmarshal(shape)
	if err != nil {
		return nil, fmt.Errorf("invalid geometry %q: %w", shape, err)
	}
	return geojson.NewGeometry(g), nil
}

func buildSorters(sort string) ([]elastic.Sorter, error) {
	if strings.TrimSpace(sort) == "" {
		return nil, nil
	}

	var sorters []elastic.Sorter
	for _, item := range strings.Split(sort, ",") {
		parts := strings.Fields(item)
		if len(parts) != 2 {
			return nil, fmt.Errorf("Can't determine a Sort Order (asc or desc) in sort spec %q", strings.TrimSpace(item))
		}
		var ascending bool
		switch strings.ToLower(parts[1]) {
		case "asc":
			ascending = true
		case "desc":
		default:
			return nil, fmt.Errorf("Can't determine a Sort Order (asc or desc) in sort spec %q", strings.TrimSpace(item))
		}

		if parts[0] == scoreField {
			sorters = append(sorters, elastic.NewScoreSort().Order(ascending))
			continue
		}
		sorters = append(sorters, elastic.NewFieldSort(keywordField(parts[0])).Order(ascending))
	}
	return sorters, nil
}

type searchHit struct {
	ID        string                       `json:"_id"`
	Source    map[string]interface{}       `json:"_source"`
	Fields    map[string][]interface{}     `json:"fields"`
	InnerHits map[string]innerHitsResponse `json:"inner_hits"`
}

type innerHitsResponse struct {
	Hits struct {
		Total elastic.TotalHits `json:"total"`
		Hits  []searchHit       `json:"hits"`
	} `json:"hits"`
}

type searchResponse struct {
	Hits struct {
		Total elastic.TotalHits `json:"total"`
		Hits  []searchHit       `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

type termsAggregation struct {
	Buckets []struct {
		Key      interface{} `json:"key"`
		DocCount int         `json:"doc_count"`
	} `json:"buckets"`
}

type cardinalityAggregation struct {
	Value int `json:"value"`
}

func toEngineResponse(q opensearch.EngineQuery, res searchResponse) (opensearch.EngineResponse, error) {
	out := opensearch.EngineResponse{NumFound: int(res.Hits.Total.Value)}

	if q.Facet != nil {
		out.Facets = make(map[string][]opensearch.FacetCount, len(q.Facet.Fields))
		for _, field := range q.Facet.Fields {
			raw, ok := res.Aggregations[facetAggPrefix+field]
			if !ok {
				continue
			}
			var agg termsAggregation
			if err := json.Unmarshal(raw, &agg); err != nil {
				return opensearch.EngineResponse{}, fmt.Errorf("decode facet %q: %w", field, err)
			}
			counts := make([]opensearch.FacetCount, 0, len(agg.Buckets))
			for _, b := range agg.Buckets {
				counts = append(counts, opensearch.FacetCount{Value: fmt.Sprint(b.Key), Count: b.DocCount})
			}
			out.Facets[field] = counts
		}
	}

	if q.Group == nil {
		out.Docs = make([]opensearch.EngineDocument, 0, len(res.Hits.Hits))
		for _, h := range res.Hits.Hits {
			out.Docs = append(out.Docs, toDocument(h))
		}
		return out, nil
	}

	grouped := &opensearch.EngineGroupedResponse{
		Matches: out.NumFound,
		Groups:  make([]opensearch.EngineGroup, 0, len(res.Hits.Hits)),
	}
	if raw, ok := res.Aggregations[groupCardinality]; ok {
		var agg cardinalityAggregation
		if err := json.Unmarshal(raw, &agg); err != nil {
			return opensearch.EngineResponse{}, fmt.Errorf("decode group count: %w", err)
		}
		grouped.NGroups = agg.Value
	}

	field := keywordField(q.Group.Field)
	for _, h := range res.Hits.Hits {
		g := opensearch.EngineGroup{}
		if values := h.Fields[field]; len(values) > 0 {
			g.Value = fmt.Sprint(values[0])
		}
		inner, ok := h.InnerHits[groupInnerHits]
		if !ok {
			g.NumFound = 1
			g.Docs = []opensearch.EngineDocument{toDocument(h)}
		} else {
			g.NumFound = int(inner.Hits.Total.Value)
			for _, ih := range inner.Hits.Hits {
				g.Docs = append(g.Docs, toDocument(ih))
			}
		}
		grouped.Groups = append(grouped.Groups, g)
	}
	out.Grouped = grouped
	return out, nil
}

func toDocument(h searchHit) opensearch.EngineDocument {
	doc := make(opensearch.EngineDocument, len(h.Source)+1)
	for k, v := range h.Source {
		doc[k] = v
	}
	if _, ok := doc["id"]; !ok && h.ID != "" {
		doc["id"] = h.ID
	}
	return doc
}
