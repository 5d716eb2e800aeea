package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSchema = `
parameters:
  - name: q
    output_name: searchTerms
  - name: rows
    output_name: count
    min_inclusive: 0
    max_exclusive: 1001
  - name: tags
    output_name: keyword
    output_namespace: dc
    max_occurrences: unbounded
  - name: orbitnumber
    output_name: orbitNumber
    output_namespace: eo
search_types:
  dataset: [q, rows, tags]
  collection: [q, rows]
collections:
  - id: S1
    title: Sentinel 1
    source_system: copernicus
    parameters: [q, orbitnumber]
    overrides:
      orbitnumber:
        converters: [range_array]
        min_occurrences: 1
`

const jsonSchema = `{
  "parameters": [{"name": "q", "output_name": "searchTerms"}],
  "search_types": {"dataset": ["q"]}
}`

const tomlSchema = `
[[parameters]]
name = "q"
output_name = "searchTerms"

[[parameters]]
name = "rows"
max_exclusive = 51

[search_types]
dataset = ["q", "rows"]
`

func TestParse(t *testing.T) {
	type testCase struct {
		Description string
		Data        string
		Format      schema.Format
		ErrString   string
		Check       func(*testing.T, schema.File)
	}

	var testCases = []testCase{
		{
			Description: "should read yaml with unbounded occurrences",
			Data:        yamlSchema,
			Format:      schema.FormatYAML,
			Check: func(t *testing.T, f schema.File) {
				require.Len(t, f.Parameters, 4)
				tags := f.Parameters[2].Definition()
				assert.Equal(t, opensearch.Unbounded, tags.MaxOccurrences)
				assert.Equal(t, 1, f.Parameters[0].Definition().MaxOccurrences, "defaults to a single occurrence")
				assert.Equal(t, []string{"q", "orbitnumber"}, f.Collections[0].Parameters)
			},
		},
		{
			Description: "should read json",
			Data:        jsonSchema,
			Format:      schema.FormatJSON,
			Check: func(t *testing.T, f schema.File) {
				assert.Equal(t, []string{"q"}, f.SearchTypes["dataset"])
			},
		},
		{
			Description: "should read toml",
			Data:        tomlSchema,
			Format:      schema.FormatTOML,
			Check: func(t *testing.T, f schema.File) {
				require.Len(t, f.Parameters, 2)
				require.NotNil(t, f.Parameters[1].MaxExclusive)
				assert.Equal(t, 51, *f.Parameters[1].MaxExclusive)
			},
		},
		{
			Description: "should reject unknown keys",
			Data:        `{"parameters": [{"name": "q", "colour": "red"}]}`,
			Format:      schema.FormatJSON,
			ErrString:   "decode schema",
		},
		{
			Description: "should reject a nameless parameter",
			Data:        `{"parameters": [{"title": "q"}]}`,
			Format:      schema.FormatJSON,
			ErrString:   "invalid schema: name is required",
		},
		{
			Description: "should reject unknown kinds",
			Data:        `{"parameters": [{"name": "q", "kind": "colour"}]}`,
			Format:      schema.FormatJSON,
			ErrString:   `invalid schema: error value "colour" for key "kind" not recognized, only support "datetime date_range bbox geometry"`,
		},
		{
			Description: "should reject malformed input",
			Data:        `{`,
			Format:      schema.FormatJSON,
			ErrString:   "invalid json",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			f, err := schema.Parse([]byte(tc.Data), tc.Format)
			if tc.ErrString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.ErrString)
				return
			}
			require.NoError(t, err)
			tc.Check(t, f)
		})
	}
}

func TestBuild(t *testing.T) {
	f, err := schema.Parse([]byte(yamlSchema), schema.FormatYAML)
	require.NoError(t, err)

	t.Run("should resolve search types and collections", func(t *testing.T) {
		s, err := schema.Build(f, true)
		require.NoError(t, err)

		assert.Equal(t, []string{"S1", "collection", "dataset"}, s.SearchTypes())
		assert.True(t, s.CollectionsEnabled())

		c, ok := s.Collection("S1")
		require.True(t, ok)
		assert.Equal(t, "copernicus", c.SourceSystem)

		params, err := s.Lookup("S1")
		require.NoError(t, err)
		orbit, ok := params.Get("orbitnumber")
		require.True(t, ok)
		assert.Equal(t, []string{opensearch.ConverterRangeArray}, orbit.Converters)
		assert.Equal(t, 1, orbit.MinOccurrences)
		assert.Equal(t, "eo", orbit.OutputNamespace, "fields without override are kept")

		dataset, err := s.Lookup(opensearch.SearchTypeDataset)
		require.NoError(t, err)
		assert.False(t, dataset.Has("orbitnumber"))
	})

	t.Run("should hide the collection search when disabled", func(t *testing.T) {
		s, err := schema.Build(f, false)
		require.NoError(t, err)
		assert.False(t, s.CollectionsEnabled())
		_, err = s.Lookup(opensearch.SearchTypeCollection)
		assert.ErrorAs(t, err, &opensearch.InvalidSearchTypeError{})
	})

	t.Run("should reject references to undeclared parameters", func(t *testing.T) {
		bad := schema.File{SearchTypes: map[string][]string{"dataset": {"nope"}}}
		_, err := schema.Build(bad, true)
		assert.EqualError(t, err, `search type "dataset": unknown parameter "nope"`)
	})

	t.Run("should reject overrides of unlisted parameters", func(t *testing.T) {
		bad := schema.File{
			Parameters: []schema.ParameterSpec{{Name: "q"}},
			Collections: []schema.CollectionSpec{{
				ID:         "C",
				Parameters: []string{"q"},
				Overrides:  map[string]map[string]interface{}{"rows": {"title": "x"}},
			}},
		}
		_, err := schema.Build(bad, true)
		assert.EqualError(t, err, `collection "C": override of unlisted parameter "rows"`)
	})

	t.Run("should reject an empty schema", func(t *testing.T) {
		_, err := schema.Build(schema.File{}, true)
		assert.ErrorIs(t, err, opensearch.ErrEmptySchema)
	})
}

func TestLoad(t *testing.T) {
	t.Run("should load the embedded defaults", func(t *testing.T) {
		s, err := schema.Load(schema.Config{EnableCollections: true})
		require.NoError(t, err)

		dataset, err := s.Lookup(opensearch.SearchTypeDataset)
		require.NoError(t, err)
		assert.True(t, dataset.Has("ext_bbox"))
		assert.True(t, s.IsCollection("SENTINEL-1"))
	})

	t.Run("should load a file by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.toml")
		require.NoError(t, os.WriteFile(path, []byte(tomlSchema), 0o600))

		s, err := schema.Load(schema.Config{Path: path})
		require.NoError(t, err)
		assert.Equal(t, []string{"dataset"}, s.SearchTypes())
	})

	t.Run("should reject unknown extensions", func(t *testing.T) {
		_, err := schema.Load(schema.Config{Path: "schema.ini"})
		assert.EqualError(t, err, `unsupported schema file type ".ini"`)
	})
}

func TestCompare(t *testing.T) {
	from, err := schema.Parse([]byte(tomlSchema), schema.FormatTOML)
	require.NoError(t, err)
	to, err := schema.Parse([]byte(tomlSchema), schema.FormatTOML)
	require.NoError(t, err)

	changes, err := schema.Compare(from, to)
	require.NoError(t, err)
	assert.Empty(t, changes)

	to.Parameters[0].Title = "Search terms"
	changes, err = schema.Compare(from, to)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "update", changes[0].Type)
	assert.Equal(t, "Search terms", changes[0].To)
}
