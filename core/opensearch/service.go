package opensearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Parameters that clients add for their own bookkeeping. They are
// dropped before validation.
var ignoredParams = []string{"amp", "client_id"}

// SearchRequest is one inbound search.
type SearchRequest struct {
	// SearchType is either SearchTypeDataset or SearchTypeCollection.
	SearchType string
	// CollectionID scopes a dataset search to a declared collection.
	CollectionID string
	RawQuery     string
	RequestURL   string
	UserID       string
}

type Service struct {
	cfg         Config
	schema      *Schema
	translator  *Translator
	executor    *Executor
	assembler   *Assembler
	describer   *DescriptionBuilder
	permissions PermissionProvider

	searchOpCounter metric.Int64Counter
}

type ServiceDeps struct {
	Config      Config
	Schema      *Schema
	Engine      Engine
	Permissions PermissionProvider
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Schema == nil {
		return nil, ErrEmptySchema
	}
	executor, err := NewExecutor(deps.Engine, deps.Config)
	if err != nil {
		return nil, err
	}

	var assemblerOpts []AssemblerOption
	if deps.Clock != nil {
		assemblerOpts = append(assemblerOpts, WithClock(deps.Clock))
	}

	searchOpCounter, err := otel.Meter("github.com/goto/datahub/core/opensearch").
		Int64Counter("datahub.search.operation")
	if err != nil {
		otel.Handle(err)
	}

	return &Service{
		cfg:         deps.Config,
		schema:      deps.Schema,
		translator:  NewTranslator(deps.Config, deps.Schema),
		executor:    executor,
		assembler:   NewAssembler(deps.Config, deps.Schema, assemblerOpts...),
		describer:   NewDescriptionBuilder(deps.Config, deps.Schema),
		permissions: deps.Permissions,

		searchOpCounter: searchOpCounter,
	}, nil
}

// Search runs validate, translate, execute, paginate and assemble for
// one request.
func (s *Service) Search(ctx context.Context, req SearchRequest) (feed Feed, err error) {
	defer func() {
		s.instrumentOp(ctx, "Search", req.SearchType, err)
	}()

	searchType := req.SearchType
	if req.CollectionID != "" {
		if !s.schema.IsCollection(req.CollectionID) {
			return Feed{}, InvalidSearchTypeError{SearchType: req.CollectionID}
		}
		searchType = req.CollectionID
	}
	params, err := s.schema.Lookup(searchType)
	if err != nil {
		return Feed{}, err
	}

	submitted, err := ParseSubmittedQuery(req.RawQuery)
	if err != nil {
		return Feed{}, ValidationErrors{{Message: "Malformed query string."}}
	}
	submitted = submitted.Without(append(ignoredParams, ParamCollectionID)...)
	if !s.cfg.StrictParameters {
		submitted, _ = submitted.Restrict(params)
	}

	if errs := Validate(submitted, params, AllowEmptyQuery(s.cfg.AllowEmptyQuery)); len(errs) > 0 {
		return Feed{}, errs
	}

	queryURL := buildQueryURL(req.RequestURL, req.CollectionID, submitted)
	if req.CollectionID != "" {
		submitted = submitted.With(ParamCollectionID, req.CollectionID)
	}

	tq, err := s.translator.Translate(submitted, searchType)
	if err != nil {
		return Feed{}, err
	}

	access, err := s.access(ctx, req.UserID)
	if err != nil {
		return Feed{}, fmt.Errorf("resolve permissions: %w", err)
	}

	results, err := s.executor.Execute(ctx, tq, access, searchType == SearchTypeCollection)
	if err != nil {
		return Feed{}, err
	}

	page := Paginate(tq.Rows, tq.Start, tq.Page, results.Count)

	return s.assembler.Assemble(FeedRequest{
		SearchType:   searchType,
		RequestURL:   req.RequestURL,
		QueryURL:     queryURL,
		Query:        submitted,
		Params:       params,
		Page:         page,
		Results:      results,
		CollectionID: req.CollectionID,
	})
}

// Describe builds the description document of a search type.
func (s *Service) Describe(ctx context.Context, searchType, selfURL string) (d Description, err error) {
	defer func() {
		s.instrumentOp(ctx, "Describe", searchType, err)
	}()
	return s.describer.Describe(searchType, selfURL)
}

// Collections lists the collections that can be searched on their own.
func (s *Service) Collections() []Collection {
	var out []Collection
	for _, t := range s.schema.SearchTypes() {
		if c, ok := s.schema.Collection(t); ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) CollectionsEnabled() bool {
	return s.schema.CollectionsEnabled()
}

func (s *Service) access(ctx context.Context, userID string) (Access, error) {
	if s.permissions == nil {
		return PublicAccess(), nil
	}
	return s.permissions.AccessFor(ctx, userID)
}

func (s *Service) instrumentOp(ctx context.Context, op, searchType string, err error) {
	if s.searchOpCounter == nil {
		return
	}
	s.searchOpCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("search.operation", op),
		attribute.String("search.type", searchType),
		attribute.Bool("search.client_error", err != nil && IsClientError(err)),
		attribute.Bool("operation.success", err == nil),
	))
}

// buildQueryURL reproduces the request with the recognised parameters
// only, scoped searches leading with their collection.
func buildQueryURL(requestURL, collectionID string, q SubmittedQuery) string {
	base, _, _ := strings.Cut(requestURL, "?")
	var parts []string
	if collectionID != "" {
		parts = append(parts, ParamCollectionID+"="+collectionID)
	}
	if encoded := q.Encode(); encoded != "" {
		parts = append(parts, encoded)
	}
	return base + "?" + strings.Join(parts, "&")
}
