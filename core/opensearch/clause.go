package opensearch

import "strings"

// ClauseKind distinguishes the filter clause shapes an engine adapter has
// to translate.
type ClauseKind int

const (
	ClauseEquality ClauseKind = iota
	ClauseRange
	ClauseSpatial
	ClauseAnyOf
)

// Clause is one required filter over a single field.
type Clause interface {
	Kind() ClauseKind
	FieldName() string
	// Render returns the clause in Lucene query syntax.
	Render() string
}

// EqualityClause matches a field value exactly. Literal values are
// rendered without quotes and must be single engine terms.
type EqualityClause struct {
	Field   string
	Value   string
	Literal bool
}

func (c EqualityClause) Kind() ClauseKind  { return ClauseEquality }
func (c EqualityClause) FieldName() string { return c.Field }
func (c EqualityClause) Render() string {
	if c.Literal {
		return "+" + c.Field + ":" + c.Value
	}
	return "+" + c.Field + ":" + quote(c.Value)
}

// RangeClause is an inclusive range; "*" is open and "NOW" is the engine's
// current time.
type RangeClause struct {
	Field string
	From  string
	To    string
}

func (c RangeClause) Kind() ClauseKind  { return ClauseRange }
func (c RangeClause) FieldName() string { return c.Field }
func (c RangeClause) Render() string {
	return "+" + c.Field + ":" + engineRange(c.From, c.To)
}

// SpatialClause matches documents whose geometry intersects Shape, a WKT
// string or an ENVELOPE expression.
type SpatialClause struct {
	Field string
	Shape string
}

func (c SpatialClause) Kind() ClauseKind  { return ClauseSpatial }
func (c SpatialClause) FieldName() string { return c.Field }
func (c SpatialClause) Render() string {
	return "+" + c.Field + ":" + intersects(c.Shape)
}

// AnyOfClause requires at least one of Values to match.
type AnyOfClause struct {
	Field  string
	Values []string
	Quoted bool
}

func (c AnyOfClause) Kind() ClauseKind  { return ClauseAnyOf }
func (c AnyOfClause) FieldName() string { return c.Field }
func (c AnyOfClause) Render() string {
	terms := make([]string, len(c.Values))
	for i, v := range c.Values {
		if c.Quoted {
			v = quote(v)
		}
		terms[i] = v
	}
	return "+" + c.Field + ":(" + strings.Join(terms, " OR ") + ")"
}

// RenderClauses joins clauses into a single filter query string.
func RenderClauses(clauses []Clause) string {
	parts := make([]string, len(clauses))
	for i, c := range clauses {
		parts[i] = c.Render()
	}
	return strings.Join(parts, " ")
}

// clauseFor picks the clause shape from a converted value.
func clauseFor(field, value string) Clause {
	if m := enginePattern.FindStringSubmatch(value); m != nil {
		return RangeClause{Field: field, From: m[1], To: m[2]}
	}
	if m := intersectsPattern.FindStringSubmatch(value); m != nil {
		return SpatialClause{Field: field, Shape: m[1]}
	}
	return EqualityClause{Field: field, Value: value}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
