package opensearch

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	fieldValidatedDataDict = "validated_data_dict"
	fieldExtras            = "extras"
	extrasPrefix           = "extras_"
)

// Document is a normalized search hit. Fields holds the stored fields;
// Extras holds the dataset extras flattened to strings.
type Document struct {
	Fields map[string]interface{}
	Extras map[string]string
}

func (d Document) ID() string { return d.String("id") }

// String returns a field as a string, or "" when it is absent or not a
// scalar.
func (d Document) String(name string) string {
	switch v := d.Fields[name].(type) {
	case string:
		return v
	case nil:
		return ""
	case float64, int, int64, bool, json.Number:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// Map returns a nested object field.
func (d Document) Map(name string) map[string]interface{} {
	m, _ := d.Fields[name].(map[string]interface{})
	return m
}

// List returns an array field.
func (d Document) List(name string) []interface{} {
	l, _ := d.Fields[name].([]interface{})
	return l
}

// Extra returns an extra value or alt when it is missing.
func (d Document) Extra(key, alt string) string {
	if v, ok := d.Extras[key]; ok {
		return v
	}
	return alt
}

// Group is one collection in a grouped search.
type Group struct {
	Value    string
	Count    int
	Document Document
}

// SearchResultSet is the normalized outcome of one search.
type SearchResultSet struct {
	Documents []Document
	Count     int
	Facets    map[string]map[string]int
	Groups    []Group
	Grouped   bool
}

// normalizeDocument expands the stored dataset payload and flattens all
// supported extras encodings into one map.
func normalizeDocument(raw EngineDocument, hidden map[string]struct{}) Document {
	fields := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		fields[k] = v
	}

	if blob, ok := fields[fieldValidatedDataDict].(string); ok && blob != "" {
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(blob), &payload); err == nil {
			for k, v := range payload {
				if _, exists := fields[k]; !exists || k == fieldExtras {
					fields[k] = v
				}
			}
		}
		delete(fields, fieldValidatedDataDict)
	}

	extras := make(map[string]string)
	collectExtras(fields[fieldExtras], extras)
	delete(fields, fieldExtras)

	for k, v := range fields {
		if !strings.HasPrefix(k, extrasPrefix) {
			continue
		}
		extras[strings.TrimPrefix(k, extrasPrefix)] = stringify(v)
		delete(fields, k)
	}

	for k := range hidden {
		delete(extras, k)
	}

	return Document{Fields: fields, Extras: extras}
}

func collectExtras(v interface{}, out map[string]string) {
	switch extras := v.(type) {
	case string:
		var decoded interface{}
		if err := json.Unmarshal([]byte(extras), &decoded); err == nil {
			collectExtras(decoded, out)
		}
	case map[string]interface{}:
		for k, val := range extras {
			out[k] = stringify(val)
		}
	case []interface{}:
		for _, item := range extras {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if state, _ := entry["state"].(string); state == "deleted" {
				continue
			}
			key, _ := entry["key"].(string)
			value := entry["value"]
			// Legacy datasets store the whole extras list as a JSON string
			// inside a single entry.
			if s, ok := value.(string); ok && strings.HasPrefix(strings.TrimSpace(s), "[") {
				var nested []interface{}
				if err := json.Unmarshal([]byte(s), &nested); err == nil {
					collectExtras(nested, out)
					continue
				}
			}
			if key == "" {
				continue
			}
			out[key] = stringify(value)
		}
	}
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []interface{}:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = stringify(p)
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

func normalizeFacets(in map[string][]FacetCount) map[string]map[string]int {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]map[string]int, len(in))
	for field, counts := range in {
		m := make(map[string]int, len(counts))
		for _, c := range counts {
			m[c.Value] = c.Count
		}
		out[field] = m
	}
	return out
}

// SortedExtraKeys returns the extras keys in lexical order.
func (d Document) SortedExtraKeys() []string {
	keys := make([]string, 0, len(d.Extras))
	for k := range d.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
