// Package xmltree builds namespaced XML documents as plain element trees and
// serializes them, leaving out elements that carry nothing.
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Attr is an element attribute. Name may be prefixed with a namespace
// alias, as in "gml:id".
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the tree. Name is "alias:local" or a bare local name.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

func New(name string) *Element {
	return &Element{Name: name}
}

// Attr appends an attribute. Empty values are skipped.
func (e *Element) Attr(name, value string) *Element {
	if value == "" {
		return e
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// Add appends children, ignoring nil ones.
func (e *Element) Add(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// Child appends a text-only child and returns the parent.
func (e *Element) Child(name, text string) *Element {
	return e.Add(&Element{Name: name, Text: text})
}

// Empty reports whether the element has no text, attributes or non-empty
// children.
func (e *Element) Empty() bool {
	if e.Text != "" || len(e.Attrs) > 0 {
		return false
	}
	for _, c := range e.Children {
		if !c.Empty() {
			return false
		}
	}
	return true
}

// Find returns the first direct child named name.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child named name.
func (e *Element) FindAll(name string) []*Element {
	var found []*Element
	for _, c := range e.Children {
		if c.Name == name {
			found = append(found, c)
		}
	}
	return found
}

// AttrValue returns the value of the named attribute.
func (e *Element) AttrValue(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Document is a root element together with the namespaces it declares.
// Elements in the Default namespace are written without a prefix.
// BindDefault also declares the Default alias as a prefix, for documents
// whose attribute values refer to qualified names of that namespace.
type Document struct {
	Root        *Element
	Namespaces  map[string]string
	Default     string
	BindDefault bool
}

// Write serializes the document with an XML declaration.
func (d Document) Write(w io.Writer) error {
	if d.Root == nil {
		return fmt.Errorf("xmltree: document has no root")
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	if err := d.encode(enc, d.Root, true); err != nil {
		return err
	}
	return enc.Flush()
}

func (d Document) String() (string, error) {
	var sb strings.Builder
	if err := d.Write(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (d Document) encode(enc *xml.Encoder, e *Element, root bool) error {
	if !root && e.Empty() {
		return nil
	}

	start := xml.StartElement{Name: xml.Name{Local: d.qualify(e.Name)}}
	if root {
		start.Attr = d.declarations()
	}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}

	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("xmltree: encode %s: %w", e.Name, err)
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return fmt.Errorf("xmltree: encode %s text: %w", e.Name, err)
		}
	}
	for _, c := range e.Children {
		if err := d.encode(enc, c, false); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// qualify strips the prefix of names in the default namespace.
func (d Document) qualify(name string) string {
	if d.Default == "" {
		return name
	}
	if local, ok := strings.CutPrefix(name, d.Default+":"); ok {
		return local
	}
	return name
}

func (d Document) declarations() []xml.Attr {
	aliases := make([]string, 0, len(d.Namespaces))
	for alias := range d.Namespaces {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	attrs := make([]xml.Attr, 0, len(aliases))
	for _, alias := range aliases {
		if alias == d.Default {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: d.Namespaces[alias]})
			if !d.BindDefault {
				continue
			}
		}
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "xmlns:" + alias}, Value: d.Namespaces[alias]})
	}
	return attrs
}
