package opensearch

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultRows            = 20
	DefaultMaxResultWindow = 10000
)

var reservedParams = map[string]struct{}{
	ParamQuery:        {},
	ParamPage:         {},
	ParamRows:         {},
	ParamSort:         {},
	ParamStartIndex:   {},
	ParamBegin:        {},
	ParamEnd:          {},
	ParamDateModified: {},
	ParamBBox:         {},
	ParamGeometry:     {},
}

// TranslatedQuery is the engine independent form of a validated query.
type TranslatedQuery struct {
	SearchType string
	Text       string
	Rows       int
	Start      int
	// Page is the page number the client asked for, zero when absent.
	Page    int
	Sort    string
	Filters []Clause
	BBox    *BBox
}

// FilterQuery renders all filters as one Lucene filter string.
func (t TranslatedQuery) FilterQuery() string {
	return RenderClauses(t.Filters)
}

type Translator struct {
	cfg    Config
	schema *Schema
}

func NewTranslator(cfg Config, schema *Schema) *Translator {
	return &Translator{cfg: cfg, schema: schema}
}

// Translate converts a validated query into typed filters and paging
// directives. It does not contact the engine.
func (t *Translator) Translate(q SubmittedQuery, searchType string) (TranslatedQuery, error) {
	params, err := t.schema.Lookup(searchType)
	if err != nil {
		return TranslatedQuery{}, err
	}

	tq := TranslatedQuery{
		SearchType: searchType,
		Text:       q.Get(ParamQuery),
		Rows:       DefaultRows,
		Sort:       t.cfg.defaultSort(),
	}

	if raw := q.Get(ParamRows); raw != "" {
		rows, err := strconv.Atoi(raw)
		if err != nil || rows < 0 {
			return TranslatedQuery{}, ValidationError{Parameter: ParamRows, Message: "rows must be a non-negative integer."}
		}
		tq.Rows = rows
	}

	window := t.cfg.maxResultWindow()
	if raw := q.Get(ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return TranslatedQuery{}, ValidationError{Parameter: ParamPage, Message: "page must be an integer."}
		}
		if page > 1 && tq.Rows > 0 && page-1 > window/tq.Rows {
			return TranslatedQuery{}, ValidationError{Parameter: ParamPage, Message: fmt.Sprintf("page must not reach past result %d.", window)}
		}
		tq.Page = page
		if page > 1 {
			tq.Start = (page - 1) * tq.Rows
		}
	}

	// An explicit start index wins over page; the reported page is then
	// derived from the offset.
	if raw := q.Get(ParamStartIndex); raw != "" {
		if idx, err := strconv.Atoi(raw); err == nil && idx > 1 {
			if idx-1 > window {
				return TranslatedQuery{}, ValidationError{Parameter: ParamStartIndex, Message: fmt.Sprintf("start_index must not reach past result %d.", window)}
			}
			tq.Start = idx - 1
			tq.Page = 0
		}
	}

	if sort := strings.TrimSpace(q.Get(ParamSort)); sort != "" {
		tq.Sort = sort
	}

	for _, p := range q.Pairs() {
		if !isFilterParam(p.Name) || p.Value == "" {
			continue
		}
		value := p.Value
		if def, ok := params.Get(p.Name); ok && len(def.Converters) > 0 {
			if value, err = Convert(value, def.Converters); err != nil {
				return TranslatedQuery{}, err
			}
		}
		tq.Filters = append(tq.Filters, clauseFor(t.cfg.fieldName(p.Name), value))
	}

	tq.Filters = append(tq.Filters, t.temporalClauses(q)...)

	if raw := q.Get(ParamDateModified); raw != "" {
		from, to := modifiedRange(raw)
		tq.Filters = append(tq.Filters, RangeClause{Field: t.cfg.modifiedField(), From: from, To: to})
	}

	if geometry := q.Get(ParamGeometry); geometry != "" {
		tq.Filters = append(tq.Filters, SpatialClause{Field: t.cfg.spatialField(), Shape: geometry})
	}

	if raw := q.Get(ParamBBox); raw != "" {
		if bbox, err := ParseBBox(raw); err == nil {
			tq.BBox = &bbox
			tq.Filters = append(tq.Filters, SpatialClause{Field: t.cfg.spatialField(), Shape: bbox.Envelope()})
		}
	}

	tq.Filters = append(tq.Filters, EqualityClause{Field: t.cfg.entityTypeField(), Value: SearchTypeDataset, Literal: true})

	return tq, nil
}

func (t *Translator) temporalClauses(q SubmittedQuery) []Clause {
	if t.cfg.TemporalStart == "" || t.cfg.TemporalEnd == "" {
		return nil
	}
	begin, end := q.Get(ParamBegin), q.Get(ParamEnd)
	if begin == "" && end == "" {
		return nil
	}
	if begin == "" {
		begin = "*"
	}
	if end == "" {
		end = "NOW"
	}
	return []Clause{
		RangeClause{Field: t.cfg.TemporalStart, From: begin, To: end},
		RangeClause{Field: t.cfg.TemporalEnd, From: begin, To: end},
	}
}

func isFilterParam(name string) bool {
	if _, ok := reservedParams[name]; ok {
		return false
	}
	return !strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "ext_")
}

// modifiedRange splits "[T1,T2]" into UTC bounds. Input that does not
// have that shape is cut at fixed positions and yields a degenerate range.
func modifiedRange(raw string) (string, string) {
	if from, to, ok := SplitDateRange(raw); ok {
		return withZone(from), withZone(to)
	}
	return clampSlice(raw, 1, 20) + "Z", clampSlice(raw, 21, len(raw)-1) + "Z"
}

func clampSlice(s string, from, to int) string {
	if to > len(s) {
		to = len(s)
	}
	if from > to {
		return ""
	}
	return s[from:to]
}
