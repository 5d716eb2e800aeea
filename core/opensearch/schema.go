package opensearch

import "sort"

const (
	SearchTypeDataset    = "dataset"
	SearchTypeCollection = "collection"
)

// Collection is a named collection that can be searched on its own.
type Collection struct {
	ID           string
	Title        string
	Description  string
	SourceSystem string
}

// Schema maps search types to their permitted parameters. It is built
// once at startup and only read afterwards.
type Schema struct {
	types       map[string]Parameters
	collections map[string]Collection
}

type SchemaOption func(*Schema)

func WithSearchType(searchType string, params Parameters) SchemaOption {
	return func(s *Schema) {
		s.types[searchType] = params
	}
}

func WithCollection(c Collection, params Parameters) SchemaOption {
	return func(s *Schema) {
		s.types[c.ID] = params
		s.collections[c.ID] = c
	}
}

func NewSchema(opts ...SchemaOption) (*Schema, error) {
	s := &Schema{
		types:       make(map[string]Parameters),
		collections: make(map[string]Collection),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.types) == 0 {
		return nil, ErrEmptySchema
	}
	return s, nil
}

// Lookup returns the parameters for a search type or an
// InvalidSearchTypeError.
func (s *Schema) Lookup(searchType string) (Parameters, error) {
	params, ok := s.types[searchType]
	if !ok {
		return Parameters{}, InvalidSearchTypeError{SearchType: searchType}
	}
	return params, nil
}

func (s *Schema) Collection(id string) (Collection, bool) {
	c, ok := s.collections[id]
	return c, ok
}

func (s *Schema) IsCollection(searchType string) bool {
	_, ok := s.collections[searchType]
	return ok
}

func (s *Schema) CollectionsEnabled() bool {
	_, ok := s.types[SearchTypeCollection]
	return ok
}

// SearchTypes lists every declared search type in lexical order.
func (s *Schema) SearchTypes() []string {
	types := make([]string, 0, len(s.types))
	for t := range s.types {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
