package atom

import (
	"io"
	"strconv"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/pkg/xmltree"
)

const timeLayout = "2006-01-02T15:04:05Z"

// Renderer turns assembled search models into XML documents.
type Renderer struct {
	ns opensearch.Namespaces
}

func NewRenderer(ns opensearch.Namespaces) *Renderer {
	if ns == nil {
		ns = opensearch.NewNamespaces(nil)
	}
	return &Renderer{ns: ns}
}

func (r *Renderer) WriteFeed(w io.Writer, f opensearch.Feed) error {
	return r.FeedDocument(f).Write(w)
}

func (r *Renderer) WriteDescription(w io.Writer, d opensearch.Description) error {
	return r.DescriptionDocument(d).Write(w)
}

// FeedDocument builds the atom:feed tree of a search response.
func (r *Renderer) FeedDocument(f opensearch.Feed) xmltree.Document {
	feed := xmltree.New("atom:feed").
		Child("atom:title", f.Title).
		Child("atom:subtitle", f.Subtitle).
		Child("atom:id", f.ID)

	feed.Add(
		xmltree.New("atom:generator").
			Attr("version", f.Generator.Version).
			Attr("uri", f.Generator.URI).
			SetText(f.Generator.Text),
		xmltree.New("atom:author").Child("atom:name", f.AuthorName),
	)
	feed.Child("atom:updated", f.Updated.UTC().Format(timeLayout)).
		Child("opensearch:totalResults", strconv.Itoa(f.TotalResults)).
		Child("opensearch:startIndex", strconv.Itoa(f.StartIndex)).
		Child("opensearch:itemsPerPage", strconv.Itoa(f.ItemsPerPage))

	query := xmltree.New("opensearch:Query")
	for _, a := range f.Query {
		query.Attr(a.Name, a.Value)
	}
	feed.Add(query).Child("georss:box", f.Box)

	for _, l := range f.Links {
		feed.Add(link(l))
	}

	if f.Grouped {
		for _, c := range f.Collections {
			feed.Add(collectionEntry(c))
		}
	} else {
		for _, e := range f.Entries {
			feed.Add(entry(e))
		}
	}

	return xmltree.Document{Root: feed, Namespaces: r.ns, Default: "atom"}
}

func entry(e opensearch.Entry) *xmltree.Element {
	el := xmltree.New("atom:entry").
		Child("atom:title", e.Title).
		Child("atom:id", e.ID).
		Child("dc:identifier", e.Identifier)

	el.Add(xmltree.New("atom:author").
		Child("atom:name", e.AuthorName).
		Child("atom:email", e.AuthorEmail))

	el.Child("dc:publisher", e.Publisher).
		Child("atom:updated", e.Updated).
		Child("atom:published", e.Published).
		Child("atom:rights", e.Rights)

	// The dataset page comes before the summary, resources after the
	// categories.
	links := e.Links
	if len(links) > 0 && links[0].Rel == "alternate" {
		el.Add(link(links[0]))
		links = links[1:]
	}
	el.Child("atom:summary", e.Summary)
	for _, c := range e.Categories {
		el.Add(xmltree.New("atom:category").Attr("term", c).Attr("label", c))
	}
	for _, l := range links {
		el.Add(link(l))
	}

	el.Child("georss:polygon", e.Polygon).
		Child("georss:point", e.Point)

	if e.EarthObservation != nil {
		el.Add(earthObservation(*e.EarthObservation))
	}
	return el
}

func collectionEntry(c opensearch.CollectionEntry) *xmltree.Element {
	el := xmltree.New("atom:entry").
		Child("atom:title", c.Title).
		Child("atom:id", c.ID).
		Child("dc:identifier", c.ID).
		Child("atom:summary", c.Summary).
		Child("atom:count", strconv.Itoa(c.Count)).
		Child("atom:published", c.Published).
		Child("atom:updated", c.Updated)

	for _, l := range c.Links {
		el.Add(link(l))
	}
	return el
}

func earthObservation(eo opensearch.EarthObservation) *xmltree.Element {
	period := xmltree.New("gml:TimePeriod").
		Attr("gml:id", "tp_"+eo.ID).
		Child("gml:beginPosition", eo.BeginPosition).
		Child("gml:endPosition", eo.EndPosition)

	equipment := xmltree.New("eop:EarthObservationEquipment").Add(
		xmltree.New("eop:platform").Add(
			xmltree.New("eop:Platform").Child("eop:shortName", eo.Platform)),
		xmltree.New("eop:instrument").Add(
			xmltree.New("eop:Instrument").Child("eop:shortName", eo.Instrument)),
		xmltree.New("eop:sensor").Add(
			xmltree.New("eop:Sensor").Child("eop:sensorType", eo.SensorType)),
		xmltree.New("eop:acquisitionParameters").Add(
			xmltree.New("eop:Acquisition").
				Child("eop:orbitDirection", eo.OrbitDirection).
				Child("eop:orbitNumber", eo.OrbitNumber)),
	)

	metadata := xmltree.New("eop:EarthObservationMetadata").
		Child("eop:identifier", eo.ID).
		Child("eop:productType", eo.ProductType).
		Child("eop:acquisitionType", eo.AcquisitionType).
		Child("eop:status", eo.Status)

	return xmltree.New("eop:EarthObservation").Add(
		xmltree.New("om:phenomenonTime").Add(period),
		xmltree.New("om:procedure").Add(equipment),
		xmltree.New("eop:metaDataProperty").Add(metadata),
	)
}

func link(l opensearch.Link) *xmltree.Element {
	return xmltree.New("atom:link").
		Attr("rel", l.Rel).
		Attr("href", l.Href).
		Attr("type", l.Type).
		Attr("title", l.Title).
		Attr("length", l.Length)
}
