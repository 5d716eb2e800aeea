package opensearch

//go:generate mockery --name=Engine -r --case underscore --with-expecter --structname Engine --filename engine.go --output=./mocks

import (
	"context"
	"sort"
	"strconv"
)

// Engine directives accepted by the search engine adapter.
const (
	EngineQ             = "q"
	EngineFQ            = "fq"
	EngineRows          = "rows"
	EngineStart         = "start"
	EngineSort          = "sort"
	EngineFacet         = "facet"
	EngineFacetField    = "facet.field"
	EngineFacetLimit    = "facet.limit"
	EngineFacetMinCount = "facet.mincount"
	EngineGroupOn       = "group"
	EngineGroupField    = "group.field"
	EngineGroupLimit    = "group.limit"
	EngineGroupNGroups  = "group.ngroups"
	EngineFL            = "fl"
	EngineWT            = "wt"
	EngineDefType       = "defType"
	EngineQF            = "qf"
	EngineTie           = "tie"
	EngineMM            = "mm"
	EngineQOp           = "q.op"
)

var engineAllowList = map[string]struct{}{
	EngineQ: {}, EngineFQ: {}, EngineRows: {}, EngineStart: {}, EngineSort: {},
	EngineFacet: {}, EngineFacetField: {}, EngineFacetLimit: {}, EngineFacetMinCount: {},
	EngineGroupOn: {}, EngineGroupField: {}, EngineGroupLimit: {}, EngineGroupNGroups: {},
	EngineFL: {}, EngineWT: {}, EngineDefType: {}, EngineQF: {}, EngineTie: {},
	EngineMM: {}, EngineQOp: {},
}

// CheckEngineParams returns InvalidEngineParametersError when any name
// is outside the allow-list.
func CheckEngineParams(names []string) error {
	var invalid []string
	for _, n := range names {
		if _, ok := engineAllowList[n]; !ok {
			invalid = append(invalid, n)
		}
	}
	if len(invalid) > 0 {
		return InvalidEngineParametersError{Names: invalid}
	}
	return nil
}

type FacetSpec struct {
	Fields   []string
	Limit    int
	MinCount int
}

type GroupSpec struct {
	Field   string
	Limit   int
	NGroups bool
	Facet   bool
}

// EngineQuery is the request handed to an Engine. Filters are required
// clauses; Params carries the remaining directives such as dismax tuning.
type EngineQuery struct {
	Text    string
	Filters []Clause
	Rows    int
	Start   int
	Sort    string
	Fields  []string
	Facet   *FacetSpec
	Group   *GroupSpec
	Params  map[string]string
}

// FilterQuery renders Filters as a Lucene filter string.
func (q EngineQuery) FilterQuery() string {
	return RenderClauses(q.Filters)
}

// ParamNames lists every directive the query will send.
func (q EngineQuery) ParamNames() []string {
	names := []string{EngineQ, EngineRows, EngineStart}
	if len(q.Filters) > 0 {
		names = append(names, EngineFQ)
	}
	if q.Sort != "" {
		names = append(names, EngineSort)
	}
	if len(q.Fields) > 0 {
		names = append(names, EngineFL)
	}
	if q.Facet != nil {
		names = append(names, EngineFacet, EngineFacetField, EngineFacetLimit, EngineFacetMinCount)
	}
	if q.Group != nil {
		names = append(names, EngineGroupOn, EngineGroupField, EngineGroupLimit, EngineGroupNGroups)
	}
	extra := make([]string, 0, len(q.Params))
	for k := range q.Params {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// IntParam returns a pass-through directive as an int, or def when absent.
func (q EngineQuery) IntParam(name string, def int) int {
	if v, ok := q.Params[name]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// EngineDocument is one stored document as returned by the engine.
type EngineDocument map[string]interface{}

type FacetCount struct {
	Value string
	Count int
}

type EngineGroup struct {
	Value    string
	NumFound int
	Docs     []EngineDocument
}

type EngineGroupedResponse struct {
	NGroups int
	Matches int
	Groups  []EngineGroup
}

type EngineResponse struct {
	Docs     []EngineDocument
	NumFound int
	// Grouped is set only when the query asked for grouping.
	Grouped *EngineGroupedResponse
	Facets  map[string][]FacetCount
}

// Engine runs queries against the search index.
type Engine interface {
	Search(ctx context.Context, q EngineQuery) (EngineResponse, error)
}
