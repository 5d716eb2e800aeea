package schema

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/goto/datahub/config"
	"github.com/goto/datahub/core/opensearch"
	"github.com/mitchellh/mapstructure"
	"github.com/peterbourgon/mergemap"
)

type Config struct {
	// Path of a JSON, YAML or TOML schema file. The embedded defaults are
	// used when empty.
	Path string `yaml:"path" mapstructure:"path" default:""`
	// EnableCollections exposes the grouped collection search type.
	EnableCollections bool `yaml:"enable_collections" mapstructure:"enable_collections" default:"true"`
}

// Load reads the configured schema file, or the embedded defaults, and
// builds the schema from it.
func Load(cfg Config) (*opensearch.Schema, error) {
	f, err := ReadFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	return Build(f, cfg.EnableCollections)
}

// ReadFile parses the schema file at path. An empty path yields the
// embedded defaults.
func ReadFile(path string) (File, error) {
	if path == "" {
		return Default()
	}
	format, err := FormatOf(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read schema file: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func Default() (File, error) {
	return Parse(config.Schema, FormatYAML)
}

// Build resolves every search type and collection of f. The collection
// search type is dropped unless collections are enabled.
func Build(f File, collectionsEnabled bool) (*opensearch.Schema, error) {
	library := make(map[string]ParameterSpec, len(f.Parameters))
	for _, p := range f.Parameters {
		if _, exists := library[p.Name]; exists {
			return nil, fmt.Errorf("parameter %q is declared twice", p.Name)
		}
		library[p.Name] = p
	}

	var opts []opensearch.SchemaOption

	types := make([]string, 0, len(f.SearchTypes))
	for t := range f.SearchTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		if t == opensearch.SearchTypeCollection && !collectionsEnabled {
			continue
		}
		params, err := resolve(library, f.SearchTypes[t], nil)
		if err != nil {
			return nil, fmt.Errorf("search type %q: %w", t, err)
		}
		opts = append(opts, opensearch.WithSearchType(t, params))
	}

	seen := make(map[string]struct{}, len(f.Collections))
	for _, c := range f.Collections {
		if _, exists := f.SearchTypes[c.ID]; exists {
			return nil, fmt.Errorf("collection %q shadows a search type", c.ID)
		}
		if _, exists := seen[c.ID]; exists {
			return nil, fmt.Errorf("collection %q is declared twice", c.ID)
		}
		seen[c.ID] = struct{}{}

		params, err := resolve(library, c.Parameters, c.Overrides)
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", c.ID, err)
		}
		opts = append(opts, opensearch.WithCollection(opensearch.Collection{
			ID:           c.ID,
			Title:        c.Title,
			Description:  c.Description,
			SourceSystem: c.SourceSystem,
		}, params))
	}

	s, err := opensearch.NewSchema(opts...)
	if err != nil {
		if errors.Is(err, opensearch.ErrEmptySchema) {
			return nil, fmt.Errorf("schema declares no search types: %w", err)
		}
		return nil, err
	}
	return s, nil
}

func resolve(library map[string]ParameterSpec, names []string, overrides map[string]map[string]interface{}) (opensearch.Parameters, error) {
	for name := range overrides {
		if !contains(names, name) {
			return opensearch.Parameters{}, fmt.Errorf("override of unlisted parameter %q", name)
		}
	}

	defs := make([]opensearch.ParameterDefinition, 0, len(names))
	for _, name := range names {
		spec, ok := library[name]
		if !ok {
			return opensearch.Parameters{}, fmt.Errorf("unknown parameter %q", name)
		}
		if override, ok := overrides[name]; ok {
			merged, err := applyOverride(spec, override)
			if err != nil {
				return opensearch.Parameters{}, fmt.Errorf("override %q: %w", name, err)
			}
			spec = merged
		}
		defs = append(defs, spec.Definition())
	}
	return opensearch.NewParameters(defs...)
}

// applyOverride merges override into the spec field by field.
func applyOverride(spec ParameterSpec, override map[string]interface{}) (ParameterSpec, error) {
	base := make(map[string]interface{})
	if err := mapstructure.Decode(spec, &base); err != nil {
		return spec, err
	}
	merged := mergemap.Merge(base, normalize(override).(map[string]interface{}))

	var out ParameterSpec
	if err := decode(merged, &out); err != nil {
		return spec, err
	}
	if out.Name != spec.Name {
		return spec, fmt.Errorf("cannot rename parameter to %q", out.Name)
	}
	return out, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
