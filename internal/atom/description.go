package atom

import (
	"strconv"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/pkg/xmltree"
)

// DescriptionDocument builds the OpenSearchDescription tree.
func (r *Renderer) DescriptionDocument(d opensearch.Description) xmltree.Document {
	root := xmltree.New("opensearch:OpenSearchDescription").
		Child("opensearch:ShortName", d.ShortName).
		Child("opensearch:Description", d.Description).
		Child("opensearch:Tags", d.Tags).
		Child("opensearch:SyndicationRight", d.SyndicationRight)

	root.Add(xmltree.New("opensearch:Url").
		Attr("rel", "self").
		Attr("type", opensearch.MediaTypeOSDD).
		Attr("template", d.SelfURL))

	search := xmltree.New("opensearch:Url").
		Attr("pageOffset", strconv.Itoa(d.Search.PageOffset)).
		Attr("indexOffset", strconv.Itoa(d.Search.IndexOffset)).
		Attr("rel", d.Search.Rel).
		Attr("type", d.Search.Type).
		Attr("template", d.Search.Template)
	for _, p := range d.Search.Parameters {
		search.Add(parameter(p))
	}
	root.Add(search)

	example := xmltree.New("opensearch:Query")
	for _, a := range d.Examples {
		example.Attr(a.Name, a.Value)
	}
	root.Add(example)

	return xmltree.Document{Root: root, Namespaces: r.ns, Default: "opensearch", BindDefault: true}
}

func parameter(p opensearch.DescribedParameter) *xmltree.Element {
	el := xmltree.New("param:Parameter").
		Attr("name", p.Name).
		Attr("value", p.Value).
		Attr("title", p.Title).
		Attr("minimum", p.Minimum).
		Attr("maximum", p.Maximum).
		Attr("minInclusive", p.MinInclusive).
		Attr("maxExclusive", p.MaxExclusive)

	for _, o := range p.Options {
		el.Add(xmltree.New("param:Option").
			Attr("value", o.Value).
			Attr("label", o.Label))
	}
	if p.Profile != nil {
		el.Add(link(*p.Profile))
	}
	return el
}
