package opensearch

import "sort"

var defaultNamespaces = map[string]string{
	"atom":          "http://www.w3.org/2005/Atom",
	"opensearch":    "http://a9.com/-/spec/opensearch/1.1/",
	"param":         "http://a9.com/-/spec/opensearch/extensions/parameters/1.0/",
	"geo":           "http://a9.com/-/opensearch/extensions/geo/1.0/",
	"time":          "http://a9.com/-/opensearch/extensions/time/1.0/",
	"eo":            "http://a9.com/-/opensearch/extensions/eo/1.0/",
	"dc":            "http://purl.org/dc/elements/1.1/",
	"georss":        "http://www.georss.org/georss",
	"esipdiscovery": "http://commons.esipfed.org/ns/discovery/1.2/",
	"eop":           "http://www.opengis.net/eop/2.1",
	"om":            "http://www.opengis.net/om/2.0",
	"gml":           "http://www.opengis.net/gml/3.2",
}

// Namespaces maps XML namespace aliases to URIs.
type Namespaces map[string]string

// NewNamespaces returns the built-in aliases with overrides applied.
func NewNamespaces(overrides map[string]string) Namespaces {
	ns := make(Namespaces, len(defaultNamespaces)+len(overrides))
	for k, v := range defaultNamespaces {
		ns[k] = v
	}
	for k, v := range overrides {
		ns[k] = v
	}
	return ns
}

func (n Namespaces) URI(alias string) (string, bool) {
	uri, ok := n[alias]
	return uri, ok
}

// Aliases returns the aliases in lexical order.
func (n Namespaces) Aliases() []string {
	aliases := make([]string, 0, len(n))
	for k := range n {
		aliases = append(aliases, k)
	}
	sort.Strings(aliases)
	return aliases
}
