package opensearch

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	luceneProfileTitle = "This parameter follows the Lucene free text search implementations"
	luceneProfileHref  = "http://lucene.apache.org/core/2_9_4/queryparsersyntax.html"
)

// Description is the OpenSearch description document of one search type.
type Description struct {
	ShortName        string
	Description      string
	Tags             string
	SyndicationRight string
	SelfURL          string
	Search           SearchTemplate
	Examples         []QueryAttr
}

type SearchTemplate struct {
	Template    string
	Rel         string
	Type        string
	PageOffset  int
	IndexOffset int
	Parameters  []DescribedParameter
}

// DescribedParameter is a param:Parameter element. Empty attributes are
// not rendered.
type DescribedParameter struct {
	Name         string
	Value        string
	Title        string
	Minimum      string
	Maximum      string
	MinInclusive string
	MaxExclusive string
	Options      []Option
	Profile      *Link
}

type DescriptionBuilder struct {
	cfg    Config
	schema *Schema
}

func NewDescriptionBuilder(cfg Config, schema *Schema) *DescriptionBuilder {
	return &DescriptionBuilder{cfg: cfg, schema: schema}
}

// Describe builds the description document for searchType. selfURL is
// the URL the document was requested with.
func (b *DescriptionBuilder) Describe(searchType, selfURL string) (Description, error) {
	params, err := b.schema.Lookup(searchType)
	if err != nil {
		return Description{}, err
	}

	d := Description{
		ShortName:        b.cfg.ShortName,
		Description:      b.describe(searchType),
		Tags:             b.cfg.Tags,
		SyndicationRight: firstNonEmpty(b.cfg.SyndicationRight, "open"),
		SelfURL:          selfURL,
		Search: SearchTemplate{
			Template:    b.template(searchType, params),
			Rel:         "results",
			Type:        MediaTypeAtom,
			PageOffset:  1,
			IndexOffset: 1,
		},
	}
	if searchType == SearchTypeCollection {
		d.Search.Rel = "collection"
	}

	for _, def := range params.All() {
		d.Search.Parameters = append(d.Search.Parameters, describeParameter(def))
		if def.Example != "" {
			d.Examples = append(d.Examples, QueryAttr{Name: attributeName(def), Value: def.Example})
		}
	}
	d.Examples = append([]QueryAttr{{Name: "role", Value: "example"}}, d.Examples...)
	return d, nil
}

func (b *DescriptionBuilder) describe(searchType string) string {
	switch searchType {
	case SearchTypeCollection:
		return "Search collections of products."
	case SearchTypeDataset:
		return "Search all datasets."
	default:
		return fmt.Sprintf("Search products in the %s collection.", searchType)
	}
}

func (b *DescriptionBuilder) template(searchType string, params Parameters) string {
	path := "/opensearch/search.atom"
	if searchType == SearchTypeCollection {
		path = "/opensearch/collections"
	}

	var terms []string
	if b.schema.IsCollection(searchType) {
		terms = append(terms, ParamCollectionID+"="+searchType)
	}
	for _, def := range params.All() {
		value := def.Namespace() + ":" + def.ExternalName()
		if def.MinOccurrences == 0 {
			value += "?"
		}
		terms = append(terms, def.Name+"={"+value+"}")
	}
	return b.cfg.SiteURL + path + "?" + strings.Join(terms, "&")
}

func describeParameter(def ParameterDefinition) DescribedParameter {
	p := DescribedParameter{
		Name:    def.Name,
		Value:   "{" + def.QualifiedName() + "}",
		Title:   def.Title,
		Minimum: strconv.Itoa(def.MinOccurrences),
		Options: def.Options,
	}
	if !def.Unbounded() {
		p.Maximum = strconv.Itoa(def.MaxOccurrences)
	}
	if def.MinInclusive != nil {
		p.MinInclusive = strconv.Itoa(*def.MinInclusive)
	}
	if def.MaxExclusive != nil {
		p.MaxExclusive = strconv.Itoa(*def.MaxExclusive)
	}
	if def.Name == ParamQuery {
		p.Profile = &Link{Rel: "profile", Href: luceneProfileHref, Title: luceneProfileTitle}
	}
	return p
}
