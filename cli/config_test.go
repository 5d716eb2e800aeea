package cli

import (
	"os"
	"path/filepath"
	"testing"

	datahubconfig "github.com/goto/datahub/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datahub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
opensearch:
  short_name: Polar Hub
  site_url: https://data.example.org
elasticsearch:
  brokers: http://es:9200
schema:
  enable_collections: false
`), 0o600))

	var cfg Config
	require.NoError(t, LoadConfigFromFlag(path, &cfg))

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Polar Hub", cfg.OpenSearch.ShortName)
	assert.Equal(t, "https://data.example.org", cfg.OpenSearch.SiteURL)
	assert.Equal(t, "http://es:9200", cfg.Elasticsearch.Brokers)
	assert.False(t, cfg.Schema.EnableCollections)
	assert.Equal(t, 8080, cfg.Service.Port)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	t.Run("should require a site url", func(t *testing.T) {
		cfg := Config{}
		cfg.OpenSearch.ShortName = "Hub"
		cfg.Elasticsearch.Brokers = "http://es:9200"
		assert.Error(t, cfg.Validate())
	})

	t.Run("should require elasticsearch brokers", func(t *testing.T) {
		cfg := Config{}
		cfg.OpenSearch.ShortName = "Hub"
		cfg.OpenSearch.SiteURL = "https://data.example.org"
		assert.EqualError(t, cfg.Validate(), "elasticsearch: brokers is required")
	})
}

func TestExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datahub.yaml")
	require.NoError(t, os.WriteFile(path, datahubconfig.Example, 0o600))

	var cfg Config
	require.NoError(t, LoadConfigFromFlag(path, &cfg))

	assert.Equal(t, "Datahub-User-UUID", cfg.Service.Identity.HeaderKeyUserUUID)
	assert.Equal(t, "datasets", cfg.Elasticsearch.Index)
	assert.True(t, cfg.OpenSearch.StrictParameters)
	assert.Equal(t, []string{"spatial_geom", "validated_data_dict"}, cfg.OpenSearch.HiddenExtras)
	assert.NoError(t, cfg.Validate())
}
