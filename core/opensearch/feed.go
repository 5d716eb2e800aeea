package opensearch

import (
	"fmt"
	"strings"
	"time"
)

const (
	MediaTypeAtom = "application/atom+xml"
	MediaTypeOSDD = "application/opensearchdescription+xml"

	defaultMimeType = "application/octet-stream"
	defaultFeedBox  = "-180.0 -90.0 180.0 90.0"
	generatorVer    = "0.1"

	// No authoritative timestamps exist for collections, so every
	// collection entry carries these fixed values.
	PlaceholderPublished = "2018-01-16T00:00:00Z"
	PlaceholderUpdated   = "2018-01-16T12:35:22Z"
)

type Link struct {
	Rel    string
	Href   string
	Type   string
	Title  string
	Length string
}

// QueryAttr is one attribute of the echoed opensearch:Query element.
type QueryAttr struct {
	Name  string
	Value string
}

type Generator struct {
	Version string
	URI     string
	Text    string
}

// Feed is an assembled search response ready for rendering. Exactly one
// of Entries and Collections is used, depending on Grouped.
type Feed struct {
	Title        string
	Subtitle     string
	ID           string
	Generator    Generator
	AuthorName   string
	Updated      time.Time
	TotalResults int
	StartIndex   int
	ItemsPerPage int
	Query        []QueryAttr
	Box          string
	Links        []Link
	Grouped      bool
	Entries      []Entry
	Collections  []CollectionEntry
}

type Entry struct {
	Title       string
	ID          string
	Identifier  string
	AuthorName  string
	AuthorEmail string
	Publisher   string
	Updated     string
	Published   string
	Rights      string
	Summary     string
	Categories  []string
	Links       []Link
	Polygon     string
	Point       string

	EarthObservation *EarthObservation
}

type CollectionEntry struct {
	ID        string
	Title     string
	Summary   string
	Count     int
	Published string
	Updated   string
	// TimestampsUnknown marks Published and Updated as placeholders.
	TimestampsUnknown bool
	Links             []Link
}

// FeedRequest carries everything the assembler needs about one search.
type FeedRequest struct {
	SearchType string
	// RequestURL is the URL exactly as requested.
	RequestURL string
	// QueryURL reproduces the search with only recognised parameters.
	QueryURL     string
	Query        SubmittedQuery
	Params       Parameters
	Page         PageContext
	Results      SearchResultSet
	CollectionID string
}

type AssemblerOption func(*Assembler)

// WithClock sets the time source of the feed's updated element.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

type Assembler struct {
	cfg    Config
	schema *Schema
	now    func() time.Time
}

func NewAssembler(cfg Config, schema *Schema, opts ...AssemblerOption) *Assembler {
	a := &Assembler{cfg: cfg, schema: schema, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) Assemble(req FeedRequest) (Feed, error) {
	shortName := a.cfg.ShortName
	query := echoQuery(req.Query, req.Params)

	f := Feed{
		Title:    shortName + " OpenSearch Search Results",
		Subtitle: fmt.Sprintf("%d results for your search", req.Results.Count),
		ID:       req.RequestURL,
		Generator: Generator{
			Version: generatorVer,
			URI:     req.RequestURL,
			Text:    shortName + " search results",
		},
		AuthorName:   a.author(),
		Updated:      a.now().UTC(),
		TotalResults: req.Results.Count,
		StartIndex:   req.Page.StartIndex,
		ItemsPerPage: req.Page.ItemsPerPage,
		Query:        query,
		Box:          feedBox(req.Query, req.Params),
		Grouped:      req.Results.Grouped,
	}

	f.Links = append(f.Links,
		Link{Rel: "search", Href: a.descriptionURL(""), Type: MediaTypeOSDD, Title: "Description document"},
		Link{Rel: "self", Href: req.QueryURL, Type: MediaTypeAtom, Title: "self"},
	)
	f.Links = append(f.Links, NavLinks(req.QueryURL, req.Page)...)

	if req.Results.Grouped {
		for _, g := range req.Results.Groups {
			f.Collections = append(f.Collections, a.collectionEntry(g))
		}
		return f, nil
	}

	for i, doc := range req.Results.Documents {
		entry, err := a.entry(doc, req.CollectionID)
		if err != nil {
			return Feed{}, fmt.Errorf("assemble entry %d: %w", i, err)
		}
		f.Entries = append(f.Entries, entry)
	}
	return f, nil
}

func (a *Assembler) entry(doc Document, collectionID string) (Entry, error) {
	id := doc.ID()
	if id == "" {
		return Entry{}, ContractError{Reason: ErrMissingIdentity.Error()}
	}
	datasetURL := a.cfg.SiteURL + "/dataset/" + id

	orgTitle := ""
	if org := doc.Map("organization"); org != nil {
		orgTitle, _ = org["title"].(string)
	}
	author := firstNonEmpty(orgTitle, doc.String("author"))

	e := Entry{
		Title:       firstNonEmpty(doc.String("title"), "Untitled"),
		ID:          datasetURL,
		Identifier:  id,
		AuthorName:  author,
		AuthorEmail: doc.String("author_email"),
		Publisher:   firstNonEmpty(author, "No publisher info available"),
		Updated:     utcStamp(doc.String("metadata_modified")),
		Published:   utcStamp(doc.String("metadata_created")),
		Rights:      firstNonEmpty(doc.String("license_title"), "No license information available"),
		Summary:     firstNonEmpty(doc.String("notes"), "No summary available."),
		Categories:  tagNames(doc.List("tags")),
	}

	e.Links = append(e.Links, Link{Rel: "alternate", Href: datasetURL, Type: "text/html"})
	for _, r := range doc.List("resources") {
		if res, ok := r.(map[string]interface{}); ok {
			e.Links = append(e.Links, resourceLink(res))
		}
	}

	if collectionID != "" {
		title := collectionID
		if c, ok := a.schema.Collection(collectionID); ok && c.Title != "" {
			title = c.Title
		}
		e.Links = append(e.Links, Link{Rel: "up", Href: a.descriptionURL(collectionID), Type: MediaTypeOSDD, Title: title})
	}

	e.Polygon, e.Point = spatialShape(doc.Extras["spatial"])

	if a.cfg.EarthObservation {
		e.EarthObservation = newEarthObservation(id, doc)
	}
	return e, nil
}

func (a *Assembler) collectionEntry(g Group) CollectionEntry {
	title := firstNonEmpty(g.Document.String("title"), "Untitled")
	c := CollectionEntry{
		ID:                g.Document.Extra(ParamCollectionID, title),
		Title:             g.Document.Extra("collection_name", title),
		Count:             g.Count,
		Published:         PlaceholderPublished,
		Updated:           PlaceholderUpdated,
		TimestampsUnknown: true,
	}
	if notes := g.Document.String("notes"); notes != "" {
		c.Summary = fmt.Sprintf("%s (%d datasets)", notes, g.Count)
	} else {
		c.Summary = "No description"
	}

	c.Links = append(c.Links, Link{Rel: "search", Href: a.descriptionURL(c.ID), Type: MediaTypeOSDD, Title: c.Title + " description document"})
	if via, ok := a.viaLink(c.ID); ok {
		c.Links = append(c.Links, via)
	}
	return c
}

// viaLink points at the upstream metadata of a collection, using the
// source system declared for it.
func (a *Assembler) viaLink(collectionID string) (Link, bool) {
	src := a.cfg.DefaultVia
	if c, ok := a.schema.Collection(collectionID); ok {
		if s, ok := a.cfg.SourceSystems[c.SourceSystem]; ok {
			src = s
		}
	}
	if src.URLTemplate == "" {
		return Link{}, false
	}
	return Link{
		Rel:  "via",
		Href: strings.ReplaceAll(src.URLTemplate, "{id}", collectionID),
		Type: firstNonEmpty(src.ContentType, "text/html"),
	}, true
}

func (a *Assembler) descriptionURL(searchType string) string {
	u := a.cfg.SiteURL + "/opensearch/description.xml"
	if searchType != "" {
		u += "?osdd=" + searchType
	}
	return u
}

func (a *Assembler) author() string {
	return firstNonEmpty(a.cfg.Author, "No author information available")
}

// echoQuery renders the submitted parameters as Query attributes. Values
// of repeated parameters are joined with a space.
func echoQuery(q SubmittedQuery, params Parameters) []QueryAttr {
	var attrs []QueryAttr
	index := make(map[string]int)
	for _, p := range q.Pairs() {
		if p.Name == ParamCollectionID {
			continue
		}
		def, ok := params.Get(p.Name)
		if !ok {
			continue
		}
		name := attributeName(def)
		if i, seen := index[name]; seen {
			attrs[i].Value += " " + p.Value
			continue
		}
		index[name] = len(attrs)
		attrs = append(attrs, QueryAttr{Name: name, Value: p.Value})
	}
	return append(attrs, QueryAttr{Name: "role", Value: "request"})
}

func attributeName(def ParameterDefinition) string {
	if def.Namespace() == DefaultNamespace {
		return def.ExternalName()
	}
	return def.QualifiedName()
}

func feedBox(q SubmittedQuery, params Parameters) string {
	for _, p := range q.Pairs() {
		if def, ok := params.Get(p.Name); ok && def.EffectiveKind() == KindBBox && p.Value != "" {
			return strings.ReplaceAll(p.Value, ",", " ")
		}
	}
	return defaultFeedBox
}

func resourceLink(res map[string]interface{}) Link {
	str := func(k string) string {
		switch v := res[k].(type) {
		case string:
			return v
		case nil:
			return ""
		default:
			return fmt.Sprint(v)
		}
	}
	name := firstNonEmpty(str("name"), "Untitled")
	l := Link{Href: str("url"), Title: name, Type: firstNonEmpty(str("mimetype"), defaultMimeType)}
	switch {
	case strings.HasPrefix(name, "Metadata Download"):
		l.Rel = "via"
	case strings.HasPrefix(name, "Thumbnail Download"):
		l.Rel = "icon"
		l.Title = "Quicklook image"
	default:
		l.Rel = "enclosure"
		l.Length = str("size")
	}
	return l
}

func tagNames(tags []interface{}) []string {
	var names []string
	for _, t := range tags {
		switch tag := t.(type) {
		case string:
			names = append(names, tag)
		case map[string]interface{}:
			if n, ok := tag["name"].(string); ok && n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}

func utcStamp(ts string) string {
	if ts == "" || strings.HasSuffix(ts, "Z") {
		return ts
	}
	return ts + "Z"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
