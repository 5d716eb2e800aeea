package elasticsearch

import "fmt"

// used as body to create index requests
var indexSettingsTemplate = `{
	"mappings": %s,
	"settings": {
		"index.mapping.ignore_malformed": true,
		"analysis": {
			"analyzer": {
				"text_analyzer": {
					"type": "custom",
					"tokenizer": "standard",
					"filter": ["lowercase", "asciifolding", "english_stemmer"]
				}
			},
			"filter": {
				"english_stemmer": {
					"type": "stemmer",
					"name": "english"
				}
			}
		}
	}
}`

// Unlisted string fields, extras_* included, are indexed as keywords so
// that equality filters match them exactly.
var datasetIndexMapping = `{
	"dynamic_templates": [
		{
			"strings_as_keywords": {
				"match_mapping_type": "string",
				"mapping": {"type": "keyword", "ignore_above": 256}
			}
		}
	],
	"properties": {
		"id":                  {"type": "keyword"},
		"name":                {"type": "keyword"},
		"title": {
			"type": "text",
			"analyzer": "text_analyzer",
			"copy_to": "text",
			"fields": {"keyword": {"type": "keyword", "ignore_above": 256}}
		},
		"notes":               {"type": "text", "analyzer": "text_analyzer", "copy_to": "text"},
		"text":                {"type": "text", "analyzer": "text_analyzer"},
		"tags":                {"type": "keyword", "copy_to": "text"},
		"groups":              {"type": "keyword"},
		"organization":        {"type": "keyword"},
		"collection_id":       {"type": "keyword"},
		"type":                {"type": "keyword"},
		"state":               {"type": "keyword"},
		"capacity":            {"type": "keyword"},
		"site_id":             {"type": "keyword"},
		"permission_labels":   {"type": "keyword"},
		"metadata_created":    {"type": "date"},
		"metadata_modified":   {"type": "date"},
		"begin_time":          {"type": "date"},
		"end_time":            {"type": "date"},
		"spatial_geom":        {"type": "geo_shape"},
		"validated_data_dict": {"type": "keyword", "index": false, "doc_values": false}
	}
}`

// fields analysed as full text; exact matching, grouping and faceting use
// their keyword sub-field.
var textFields = map[string]struct{}{
	"title": {},
}

func keywordField(field string) string {
	if _, ok := textFields[field]; ok {
		return field + ".keyword"
	}
	return field
}

func buildIndexSettings() string {
	return fmt.Sprintf(indexSettingsTemplate, datasetIndexMapping)
}
