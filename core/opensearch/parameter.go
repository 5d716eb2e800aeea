package opensearch

import (
	"fmt"
	"strconv"
)

// Unbounded marks a parameter that may be repeated any number of times.
const Unbounded = -1

const DefaultNamespace = "opensearch"

type Kind string

const (
	KindText      Kind = ""
	KindDatetime  Kind = "datetime"
	KindDateRange Kind = "date_range"
	KindBBox      Kind = "bbox"
	KindGeometry  Kind = "geometry"
)

// Canonical names of the control parameters.
const (
	ParamQuery        = "q"
	ParamPage         = "page"
	ParamRows         = "rows"
	ParamSort         = "sort"
	ParamStartIndex   = "start_index"
	ParamBegin        = "begin"
	ParamEnd          = "end"
	ParamDateModified = "date_modified"
	ParamBBox         = "ext_bbox"
	ParamGeometry     = "ext_geometry"
	ParamCollectionID = "collection_id"
	ParamProductType  = "productType"
)

var impliedKinds = map[string]Kind{
	ParamBegin:        KindDatetime,
	ParamEnd:          KindDatetime,
	ParamDateModified: KindDateRange,
	ParamBBox:         KindBBox,
	ParamGeometry:     KindGeometry,
}

type Option struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// ParameterDefinition declares one permitted query parameter.
type ParameterDefinition struct {
	Name            string
	Title           string
	MinOccurrences  int
	MaxOccurrences  int
	MinInclusive    *int
	MaxExclusive    *int
	OutputName      string
	OutputNamespace string
	Kind            Kind
	Converters      []string
	Options         []Option
	Example         string
}

func (d ParameterDefinition) Unbounded() bool {
	return d.MaxOccurrences == Unbounded
}

func (d ParameterDefinition) HasNumericBounds() bool {
	return d.MinInclusive != nil || d.MaxExclusive != nil
}

// Namespace returns the output namespace alias, defaulting to opensearch.
func (d ParameterDefinition) Namespace() string {
	if d.OutputNamespace == "" {
		return DefaultNamespace
	}
	return d.OutputNamespace
}

func (d ParameterDefinition) ExternalName() string {
	if d.OutputName == "" {
		return d.Name
	}
	return d.OutputName
}

// QualifiedName is the namespaced name used in messages and templates,
// e.g. "geo:box".
func (d ParameterDefinition) QualifiedName() string {
	return d.Namespace() + ":" + d.ExternalName()
}

// EffectiveKind resolves the declared kind, falling back to the kind
// implied by well known canonical names.
func (d ParameterDefinition) EffectiveKind() Kind {
	if d.Kind != KindText {
		return d.Kind
	}
	return impliedKinds[d.Name]
}

func (d ParameterDefinition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("parameter name is empty")
	}
	if d.MinOccurrences < 0 {
		return fmt.Errorf("parameter %q: minimum occurrences cannot be negative", d.Name)
	}
	if !d.Unbounded() && d.MaxOccurrences < d.MinOccurrences {
		return fmt.Errorf("parameter %q: minimum occurrences %d exceed maximum %d",
			d.Name, d.MinOccurrences, d.MaxOccurrences)
	}
	if d.MinInclusive != nil && d.MaxExclusive != nil && *d.MinInclusive >= *d.MaxExclusive {
		return fmt.Errorf("parameter %q: empty numeric range [%d, %d)",
			d.Name, *d.MinInclusive, *d.MaxExclusive)
	}
	for _, name := range d.Converters {
		if _, ok := converters[name]; !ok {
			return fmt.Errorf("parameter %q: unknown converter %q", d.Name, name)
		}
	}
	return nil
}

func (d ParameterDefinition) boundsText() (string, string) {
	lower, upper := "*", "*"
	if d.MinInclusive != nil {
		lower = strconv.Itoa(*d.MinInclusive)
	}
	if d.MaxExclusive != nil {
		upper = strconv.Itoa(*d.MaxExclusive - 1)
	}
	return lower, upper
}

// Parameters is an ordered, immutable set of parameter definitions.
type Parameters struct {
	order []string
	defs  map[string]ParameterDefinition
}

func NewParameters(defs ...ParameterDefinition) (Parameters, error) {
	p := Parameters{
		order: make([]string, 0, len(defs)),
		defs:  make(map[string]ParameterDefinition, len(defs)),
	}
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return Parameters{}, err
		}
		if _, exists := p.defs[d.Name]; exists {
			return Parameters{}, fmt.Errorf("duplicate parameter %q", d.Name)
		}
		p.order = append(p.order, d.Name)
		p.defs[d.Name] = d
	}
	return p, nil
}

func (p Parameters) Get(name string) (ParameterDefinition, bool) {
	d, ok := p.defs[name]
	return d, ok
}

func (p Parameters) Has(name string) bool {
	_, ok := p.defs[name]
	return ok
}

func (p Parameters) Len() int { return len(p.order) }

// All returns the definitions in declaration order.
func (p Parameters) All() []ParameterDefinition {
	all := make([]ParameterDefinition, 0, len(p.order))
	for _, name := range p.order {
		all = append(all, p.defs[name])
	}
	return all
}

func IntPtr(v int) *int { return &v }
