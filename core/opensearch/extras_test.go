package opensearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDocument(t *testing.T) {
	want := map[string]string{"platformname": "Sentinel-1", "orbitnumber": "42"}

	type testCase struct {
		Description string
		Raw         EngineDocument
	}

	var testCases = []testCase{
		{
			Description: "structured list",
			Raw: EngineDocument{"id": "1", "extras": []interface{}{
				map[string]interface{}{"key": "platformname", "value": "Sentinel-1"},
				map[string]interface{}{"key": "orbitnumber", "value": "42"},
			}},
		},
		{
			Description: "json string of key value pairs",
			Raw:         EngineDocument{"id": "1", "extras": `[{"key":"platformname","value":"Sentinel-1"},{"key":"orbitnumber","value":"42"}]`},
		},
		{
			Description: "legacy list nested in a single entry",
			Raw: EngineDocument{"id": "1", "extras": []interface{}{
				map[string]interface{}{"key": "extras", "value": `[{"key":"platformname","value":"Sentinel-1"},{"key":"orbitnumber","value":"42"}]`},
			}},
		},
		{
			Description: "flattened extras fields",
			Raw:         EngineDocument{"id": "1", "extras_platformname": "Sentinel-1", "extras_orbitnumber": "42"},
		},
		{
			Description: "stored dataset payload",
			Raw:         EngineDocument{"id": "1", "validated_data_dict": `{"title":"t","extras":[{"key":"platformname","value":"Sentinel-1"},{"key":"orbitnumber","value":"42"}]}`},
		},
		{
			Description: "deleted and hidden extras are dropped",
			Raw: EngineDocument{"id": "1", "extras": []interface{}{
				map[string]interface{}{"key": "platformname", "value": "Sentinel-1"},
				map[string]interface{}{"key": "orbitnumber", "value": "42"},
				map[string]interface{}{"key": "old", "value": "x", "state": "deleted"},
				map[string]interface{}{"key": "secret", "value": "y"},
			}},
		},
	}

	hidden := map[string]struct{}{"secret": {}}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			doc := normalizeDocument(tc.Raw, hidden)
			assert.Equal(t, want, doc.Extras)
			assert.Equal(t, "1", doc.ID())
			assert.NotContains(t, doc.Fields, "extras")
		})
	}
}

func TestNormalizeDocumentListValues(t *testing.T) {
	doc := normalizeDocument(EngineDocument{"id": "1", "extras": map[string]interface{}{
		"bands": []interface{}{"red", "green"},
	}}, nil)

	assert.Equal(t, "red, green", doc.Extras["bands"])
}

func TestNormalizeDocumentPayloadFields(t *testing.T) {
	doc := normalizeDocument(EngineDocument{
		"id":                  "1",
		"validated_data_dict": `{"id":"ignored","title":"Flood map","notes":"n"}`,
	}, nil)

	assert.Equal(t, "1", doc.ID())
	assert.Equal(t, "Flood map", doc.String("title"))
	assert.NotContains(t, doc.Fields, "validated_data_dict")
}
