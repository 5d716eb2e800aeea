package opensearch

import (
	"fmt"
	"net/url"
	"strings"
)

type Pair struct {
	Name  string
	Value string
}

// SubmittedQuery holds the parameters of one request in the order the
// client sent them.
type SubmittedQuery struct {
	pairs []Pair
}

func NewSubmittedQuery(pairs ...Pair) SubmittedQuery {
	return SubmittedQuery{pairs: append([]Pair(nil), pairs...)}
}

// ParseSubmittedQuery decodes a raw URL query string without losing the
// relative order of parameters.
func ParseSubmittedQuery(rawQuery string) (SubmittedQuery, error) {
	var q SubmittedQuery
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		name, err := url.QueryUnescape(key)
		if err != nil {
			return SubmittedQuery{}, fmt.Errorf("decode parameter name %q: %w", key, err)
		}
		val, err := url.QueryUnescape(value)
		if err != nil {
			return SubmittedQuery{}, fmt.Errorf("decode value of %q: %w", name, err)
		}
		q.pairs = append(q.pairs, Pair{Name: name, Value: val})
	}
	return q, nil
}

func (q SubmittedQuery) Len() int { return len(q.pairs) }

func (q SubmittedQuery) IsEmpty() bool { return len(q.pairs) == 0 }

func (q SubmittedQuery) Pairs() []Pair {
	return append([]Pair(nil), q.pairs...)
}

func (q SubmittedQuery) Has(name string) bool {
	return q.Count(name) > 0
}

func (q SubmittedQuery) Count(name string) int {
	n := 0
	for _, p := range q.pairs {
		if p.Name == name {
			n++
		}
	}
	return n
}

func (q SubmittedQuery) Values(name string) []string {
	var values []string
	for _, p := range q.pairs {
		if p.Name == name {
			values = append(values, p.Value)
		}
	}
	return values
}

// Get returns the first value submitted for name.
func (q SubmittedQuery) Get(name string) string {
	for _, p := range q.pairs {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// Names returns each distinct parameter name once, in first-seen order.
func (q SubmittedQuery) Names() []string {
	seen := make(map[string]struct{}, len(q.pairs))
	var names []string
	for _, p := range q.pairs {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return names
}

func (q SubmittedQuery) Without(names ...string) SubmittedQuery {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	var out SubmittedQuery
	for _, p := range q.pairs {
		if _, ok := drop[p.Name]; ok {
			continue
		}
		out.pairs = append(out.pairs, p)
	}
	return out
}

// With returns a copy of the query with the pair appended.
func (q SubmittedQuery) With(name, value string) SubmittedQuery {
	out := NewSubmittedQuery(q.pairs...)
	out.pairs = append(out.pairs, Pair{Name: name, Value: value})
	return out
}

// Restrict splits the query into pairs known by params and the names of
// unknown parameters.
func (q SubmittedQuery) Restrict(params Parameters) (SubmittedQuery, []string) {
	var (
		known   SubmittedQuery
		unknown []string
	)
	for _, p := range q.pairs {
		if params.Has(p.Name) {
			known.pairs = append(known.pairs, p)
			continue
		}
		unknown = append(unknown, p.Name)
	}
	return known, unknown
}

// Encode renders the query back to a URL query string in submission order.
func (q SubmittedQuery) Encode() string {
	parts := make([]string, len(q.pairs))
	for i, p := range q.pairs {
		parts[i] = url.QueryEscape(p.Name) + "=" + url.QueryEscape(p.Value)
	}
	return strings.Join(parts, "&")
}
