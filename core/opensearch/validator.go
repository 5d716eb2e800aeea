package opensearch

import (
	"fmt"
	"strconv"
)

// ValidateOption tunes validation policy.
type ValidateOption func(*validation)

type validation struct {
	allowEmpty bool
}

// AllowEmptyQuery treats a query without parameters as "match all".
func AllowEmptyQuery(allow bool) ValidateOption {
	return func(v *validation) {
		v.allowEmpty = allow
	}
}

// Validate checks a submitted query against the declared parameters and
// returns every problem found. A nil result means the query is valid.
func Validate(q SubmittedQuery, params Parameters, opts ...ValidateOption) ValidationErrors {
	v := validation{}
	for _, opt := range opts {
		opt(&v)
	}

	var errs ValidationErrors
	add := func(param, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Parameter: param, Message: fmt.Sprintf(format, args...)})
	}

	if q.IsEmpty() && !v.allowEmpty {
		add("", "You must specify at least one parameter.")
	}

	reported := make(map[string]struct{})
	for _, name := range q.Names() {
		if params.Has(name) {
			continue
		}
		if _, ok := reported[name]; ok {
			continue
		}
		reported[name] = struct{}{}
		add(name, "Invalid parameter: %s.", name)
	}

	for _, def := range params.All() {
		count := q.Count(def.Name)
		if def.MinOccurrences > 0 && count < def.MinOccurrences {
			add(def.Name, "You must have at least %d instances of %q.", def.MinOccurrences, def.QualifiedName())
		}
		if !def.Unbounded() && count > def.MaxOccurrences {
			add(def.Name, "You cannot have more than %d instances of %q.", def.MaxOccurrences, def.QualifiedName())
		}
		if count == 0 {
			continue
		}

		for _, value := range q.Values(def.Name) {
			if msg, ok := checkValue(def, value); !ok {
				add(def.Name, "%s", msg)
			}
		}
	}

	return errs
}

func checkValue(def ParameterDefinition, value string) (string, bool) {
	if def.HasNumericBounds() {
		if !inBounds(def, value) {
			lower, upper := def.boundsText()
			return fmt.Sprintf("%s must be an integer from %s to %s.", def.QualifiedName(), lower, upper), false
		}
	}

	switch def.EffectiveKind() {
	case KindBBox:
		if _, err := ParseBBox(value); err != nil {
			return fmt.Sprintf("%s must be in the form `west,south,east,north` or `minX,minY,maxX,maxY`: %s.",
				def.QualifiedName(), err), false
		}
	case KindGeometry:
		if _, err := ParseGeometry(value); err != nil {
			return fmt.Sprintf("%s must be a WKT geometry of type POINT, LINESTRING, POLYGON, MULTIPOINT, MULTILINESTRING or MULTIPOLYGON.",
				def.QualifiedName()), false
		}
	case KindDatetime:
		if !IsDatetime(value) {
			return fmt.Sprintf("%s must be in the form YYYY-MM-DDTHH:MM:SS.", def.QualifiedName()), false
		}
	case KindDateRange:
		if !IsDateRange(value) {
			return fmt.Sprintf("%s must be in the form [YYYY-MM-DDTHH:MM:SS,YYYY-MM-DDTHH:MM:SS].", def.QualifiedName()), false
		}
	}
	return "", true
}

func inBounds(def ParameterDefinition, value string) bool {
	n, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	if def.MinInclusive != nil && n < *def.MinInclusive {
		return false
	}
	if def.MaxExclusive != nil && n >= *def.MaxExclusive {
		return false
	}
	return true
}
