package schema

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/core/validator"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf guesses the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported schema file type %q", filepath.Ext(path))
}

// File is the decoded content of a schema file.
type File struct {
	Parameters  []ParameterSpec     `mapstructure:"parameters" validate:"dive"`
	SearchTypes map[string][]string `mapstructure:"search_types"`
	Collections []CollectionSpec    `mapstructure:"collections" validate:"dive"`
}

type ParameterSpec struct {
	Name            string              `mapstructure:"name" validate:"required" diff:"name,identifier"`
	Title           string              `mapstructure:"title,omitempty"`
	MinOccurrences  int                 `mapstructure:"min_occurrences" validate:"gte=0"`
	MaxOccurrences  *int                `mapstructure:"max_occurrences,omitempty" validate:"omitempty,gte=-1"`
	MinInclusive    *int                `mapstructure:"min_inclusive,omitempty"`
	MaxExclusive    *int                `mapstructure:"max_exclusive,omitempty"`
	OutputName      string              `mapstructure:"output_name,omitempty"`
	OutputNamespace string              `mapstructure:"output_namespace,omitempty"`
	Kind            string              `mapstructure:"kind,omitempty" validate:"omitempty,oneof=datetime date_range bbox geometry"`
	Converters      []string            `mapstructure:"converters,omitempty"`
	Options         []opensearch.Option `mapstructure:"options,omitempty"`
	Example         string              `mapstructure:"example,omitempty"`
}

type CollectionSpec struct {
	ID           string                            `mapstructure:"id" validate:"required" diff:"id,identifier"`
	Title        string                            `mapstructure:"title"`
	Description  string                            `mapstructure:"description"`
	SourceSystem string                            `mapstructure:"source_system"`
	Parameters   []string                          `mapstructure:"parameters" validate:"required"`
	Overrides    map[string]map[string]interface{} `mapstructure:"overrides"`
}

// Definition converts the parameter spec, applying the documented defaults of at
// most one occurrence and no minimum.
func (p ParameterSpec) Definition() opensearch.ParameterDefinition {
	maxOccurrences := 1
	if p.MaxOccurrences != nil {
		maxOccurrences = *p.MaxOccurrences
	}
	return opensearch.ParameterDefinition{
		Name:            p.Name,
		Title:           p.Title,
		MinOccurrences:  p.MinOccurrences,
		MaxOccurrences:  maxOccurrences,
		MinInclusive:    p.MinInclusive,
		MaxExclusive:    p.MaxExclusive,
		OutputName:      p.OutputName,
		OutputNamespace: p.OutputNamespace,
		Kind:            opensearch.Kind(p.Kind),
		Converters:      p.Converters,
		Options:         p.Options,
		Example:         p.Example,
	}
}

// Parse decodes and validates a schema file.
func Parse(data []byte, format Format) (File, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return File{}, err
	}

	var f File
	if err := decode(raw, &f); err != nil {
		return File{}, fmt.Errorf("decode schema: %w", err)
	}
	if err := validator.ValidateStruct(f); err != nil {
		return File{}, fmt.Errorf("invalid schema: %w", err)
	}
	return f, nil
}

func decodeRaw(data []byte, format Format) (map[string]interface{}, error) {
	raw := make(map[string]interface{})
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	case FormatYAML:
		var doc map[interface{}]interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		raw = normalize(doc).(map[string]interface{})
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
	return raw, nil
}

// normalize rewrites the interface-keyed maps produced by yaml.v2 into
// string-keyed maps.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case map[string]interface{}:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	}
	return v
}

func decode(input interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(unboundedHook, mapstructure.StringToSliceHookFunc(",")),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// unboundedHook accepts "unbounded" wherever an occurrence count is
// expected.
func unboundedHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	if to.Kind() == reflect.Ptr {
		to = to.Elem()
	}
	if to.Kind() == reflect.Int && strings.EqualFold(strings.TrimSpace(data.(string)), "unbounded") {
		return opensearch.Unbounded, nil
	}
	return data, nil
}
