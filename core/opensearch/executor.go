package opensearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	MaxRows = 1000

	matchAll      = "*:*"
	defaultQF     = "name^4 title^4 tags^2 groups^2 text"
	defaultTie    = "0.1"
	defaultMM     = "2<-1 5<80%"
	defaultFacets = 50

	labelsField   = "permission_labels"
	stateField    = "state"
	capacityField = "capacity"
	siteField     = "site_id"
	tagsField     = "tags"
)

var (
	sortErrorMarkers = []string{
		"Can't determine a Sort Order",
		"Can't determine Sort Order",
		"Unknown sort order",
		"No mapping found for",
		"in order to sort on",
		"failed to parse sort",
	}
	queryErrorMarkers = []string{
		"SyntaxError",
		"Failed to parse query",
		"failed to create query",
		"query_shard_exception",
		"parse_exception",
	}
	windowErrorMarkers = []string{
		"Result window is too large",
	}
)

// Access is the visibility granted to the caller of a search.
type Access struct {
	// Labels are the permission labels the caller may see. Ignored when
	// Unrestricted is set.
	Labels         []string
	Unrestricted   bool
	IncludeDrafts  bool
	IncludePrivate bool
}

// PublicAccess is what an anonymous caller gets.
func PublicAccess() Access {
	return Access{Labels: []string{"public"}}
}

//go:generate mockery --name=PermissionProvider -r --case underscore --with-expecter --structname PermissionProvider --filename permission_provider.go --output=./mocks

// PermissionProvider resolves the access of a caller. An empty user id is
// the anonymous caller.
type PermissionProvider interface {
	AccessFor(ctx context.Context, userID string) (Access, error)
}

// Executor turns translated queries into engine calls and normalizes the
// engine's answer.
type Executor struct {
	engine Engine
	cfg    Config
	hidden map[string]struct{}
}

func NewExecutor(engine Engine, cfg Config) (*Executor, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	hidden := make(map[string]struct{}, len(cfg.HiddenExtras))
	for _, k := range cfg.HiddenExtras {
		hidden[k] = struct{}{}
	}
	return &Executor{engine: engine, cfg: cfg, hidden: hidden}, nil
}

// Execute runs a dataset search, or a collection search grouped on the
// configured field when grouped is set.
func (e *Executor) Execute(ctx context.Context, tq TranslatedQuery, access Access, grouped bool) (SearchResultSet, error) {
	if !access.Unrestricted && len(access.Labels) == 0 {
		return SearchResultSet{Grouped: grouped}, nil
	}

	eq, rows, err := e.BuildQuery(tq, access, grouped)
	if err != nil {
		return SearchResultSet{}, err
	}

	resp, err := e.engine.Search(ctx, eq)
	if err != nil {
		return SearchResultSet{}, classifyEngineError(err)
	}

	if grouped {
		return e.groupedResult(resp, rows)
	}

	docs := resp.Docs
	if len(docs) > rows {
		docs = docs[:rows]
	}
	rs := SearchResultSet{
		Count:     resp.NumFound,
		Facets:    normalizeFacets(resp.Facets),
		Documents: make([]Document, 0, len(docs)),
	}
	for _, d := range docs {
		rs.Documents = append(rs.Documents, normalizeDocument(d, e.hidden))
	}
	return rs, nil
}

// BuildQuery assembles the engine query and returns it together with
// the number of rows the caller will receive.
func (e *Executor) BuildQuery(tq TranslatedQuery, access Access, grouped bool) (EngineQuery, int, error) {
	text := strings.TrimSpace(tq.Text)
	if text == "" || text == `""` || text == "''" {
		text = matchAll
	}

	rows := tq.Rows
	if rows > MaxRows {
		rows = MaxRows
	}
	if rows < 0 {
		rows = 0
	}
	queryRows := rows
	if rows > 0 {
		// one extra row, dropped after sorting
		queryRows = rows + 1
	}

	eq := EngineQuery{
		Text:    text,
		Rows:    queryRows,
		Start:   tq.Start,
		Sort:    tq.Sort,
		Fields:  []string{"id", fieldValidatedDataDict},
		Filters: append([]Clause(nil), tq.Filters...),
		Params:  make(map[string]string, len(e.cfg.EngineParams)+5),
	}
	for k, v := range e.cfg.EngineParams {
		eq.Params[k] = v
	}

	if e.cfg.SiteID != "" {
		eq.Filters = append(eq.Filters, EqualityClause{Field: siteField, Value: e.cfg.SiteID})
	}
	if !hasFilterOn(tq.Filters, stateField) {
		if access.IncludeDrafts {
			eq.Filters = append(eq.Filters, AnyOfClause{Field: stateField, Values: []string{"active", "draft"}})
		} else {
			eq.Filters = append(eq.Filters, EqualityClause{Field: stateField, Value: "active", Literal: true})
		}
	}
	if !access.IncludePrivate {
		eq.Filters = append(eq.Filters, EqualityClause{Field: capacityField, Value: "public", Literal: true})
	}
	if !access.Unrestricted {
		eq.Filters = append(eq.Filters, AnyOfClause{Field: labelsField, Values: access.Labels, Quoted: true})
	}

	defType := eq.Params[EngineDefType]
	if defType == "" {
		defType = "dismax"
	}
	if !strings.Contains(text, ":") || defType == "edismax" {
		setDefault(eq.Params, EngineDefType, defType)
		setDefault(eq.Params, EngineTie, defaultTie)
		setDefault(eq.Params, EngineMM, defaultMM)
		setDefault(eq.Params, EngineQF, defaultQF)
	}
	setDefault(eq.Params, EngineWT, "json")

	if grouped {
		eq.Facet = &FacetSpec{Fields: []string{tagsField}, Limit: defaultFacets, MinCount: 1}
		eq.Group = &GroupSpec{Field: e.cfg.groupField(), Limit: 1, NGroups: true}
	}

	if err := CheckEngineParams(eq.ParamNames()); err != nil {
		return EngineQuery{}, 0, err
	}
	return eq, rows, nil
}

func (e *Executor) groupedResult(resp EngineResponse, rows int) (SearchResultSet, error) {
	if resp.Grouped == nil {
		return SearchResultSet{}, ContractError{Reason: fmt.Sprintf("grouped response on %q is missing", e.cfg.groupField())}
	}
	groups := resp.Grouped.Groups
	if len(groups) > rows {
		groups = groups[:rows]
	}
	rs := SearchResultSet{
		Grouped: true,
		Count:   resp.Grouped.NGroups,
		Facets:  normalizeFacets(resp.Facets),
		Groups:  make([]Group, 0, len(groups)),
	}
	for _, g := range groups {
		if len(g.Docs) == 0 {
			return SearchResultSet{}, ContractError{Reason: fmt.Sprintf("group %q has no documents", g.Value)}
		}
		rs.Groups = append(rs.Groups, Group{
			Value:    g.Value,
			Count:    g.NumFound,
			Document: normalizeDocument(g.Docs[0], e.hidden),
		})
	}
	return rs, nil
}

func classifyEngineError(err error) error {
	var (
		queryErr    SearchQueryError
		contractErr ContractError
	)
	if errors.As(err, &queryErr) || errors.As(err, &contractErr) {
		return err
	}
	msg := err.Error()
	for _, m := range sortErrorMarkers {
		if strings.Contains(msg, m) {
			return SearchQueryError{Message: `Invalid "sort" parameter`, Err: err}
		}
	}
	for _, m := range windowErrorMarkers {
		if strings.Contains(msg, m) {
			return SearchQueryError{Message: `Invalid "page" parameter`, Err: err}
		}
	}
	for _, m := range queryErrorMarkers {
		if strings.Contains(msg, m) {
			return SearchQueryError{Message: "Invalid query parameter", Err: err}
		}
	}
	return SearchError{Op: "search", Err: err}
}

func hasFilterOn(clauses []Clause, field string) bool {
	for _, c := range clauses {
		if c.FieldName() == field {
			return true
		}
	}
	return false
}

func setDefault(m map[string]string, key, value string) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
