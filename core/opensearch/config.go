package opensearch

// Config holds the deployment settings shared by the search pipeline.
type Config struct {
	ShortName        string `yaml:"short_name" mapstructure:"short_name" default:"Data Hub" validate:"required,max=16"`
	SiteURL          string `yaml:"site_url" mapstructure:"site_url" default:"http://localhost:8080" validate:"required,url"`
	SiteTitle        string `yaml:"site_title" mapstructure:"site_title" default:"Data Hub"`
	SiteID           string `yaml:"site_id" mapstructure:"site_id" default:"default"`
	Author           string `yaml:"author" mapstructure:"author" default:"No author information available"`
	Tags             string `yaml:"tags" mapstructure:"tags" default:"open data CKAN opendata CEOS-OS-BP-V1.1"`
	SyndicationRight string `yaml:"syndication_right" mapstructure:"syndication_right" default:"open" validate:"omitempty,oneof=open limited private closed"`

	AllowEmptyQuery  bool `yaml:"allow_empty_query" mapstructure:"allow_empty_query" default:"false"`
	StrictParameters bool `yaml:"strict_parameters" mapstructure:"strict_parameters" default:"true"`
	EarthObservation bool `yaml:"earth_observation" mapstructure:"earth_observation" default:"false"`

	TemporalStart   string            `yaml:"temporal_start" mapstructure:"temporal_start" default:""`
	TemporalEnd     string            `yaml:"temporal_end" mapstructure:"temporal_end" default:""`
	ModifiedField   string            `yaml:"modified_field" mapstructure:"modified_field" default:"metadata_modified"`
	SpatialField    string            `yaml:"spatial_field" mapstructure:"spatial_field" default:"spatial_geom"`
	EntityTypeField string            `yaml:"entity_type_field" mapstructure:"entity_type_field" default:"type"`
	GroupField      string            `yaml:"group_on" mapstructure:"group_on" default:"title"`
	DefaultSort     string            `yaml:"default_sort" mapstructure:"default_sort" default:"score desc, metadata_modified desc"`
	MaxResultWindow int               `yaml:"max_result_window" mapstructure:"max_result_window" default:"10000" validate:"omitempty,min=1"`
	FieldMap        map[string]string `yaml:"field_map" mapstructure:"field_map"`
	HiddenExtras    []string          `yaml:"hidden_extras" mapstructure:"hidden_extras"`

	// EngineParams are extra engine directives sent with every search.
	// They are subject to the same allow-list as generated directives.
	EngineParams map[string]string `yaml:"engine_params" mapstructure:"engine_params"`

	SourceSystems map[string]SourceSystem `yaml:"source_systems" mapstructure:"source_systems"`
	DefaultVia    SourceSystem            `yaml:"default_via" mapstructure:"default_via"`

	// Namespaces adds or overrides XML namespace aliases.
	Namespaces map[string]string `yaml:"namespaces" mapstructure:"namespaces"`
}

// SourceSystem describes where collection metadata lives upstream.
// URLTemplate may reference the collection id with {id}.
type SourceSystem struct {
	URLTemplate string `yaml:"url_template" mapstructure:"url_template"`
	ContentType string `yaml:"content_type" mapstructure:"content_type" default:"text/html"`
}

func (c Config) fieldName(param string) string {
	if param == ParamProductType {
		return ParamCollectionID
	}
	if f, ok := c.FieldMap[param]; ok && f != "" {
		return f
	}
	return param
}

func (c Config) entityTypeField() string {
	if c.EntityTypeField == "" {
		return "type"
	}
	return c.EntityTypeField
}

func (c Config) modifiedField() string {
	if c.ModifiedField == "" {
		return "metadata_modified"
	}
	return c.ModifiedField
}

func (c Config) spatialField() string {
	if c.SpatialField == "" {
		return "spatial_geom"
	}
	return c.SpatialField
}

func (c Config) groupField() string {
	if c.GroupField == "" {
		return "title"
	}
	return c.GroupField
}

// maxResultWindow is the deepest offset the engine will page to.
func (c Config) maxResultWindow() int {
	if c.MaxResultWindow <= 0 {
		return DefaultMaxResultWindow
	}
	return c.MaxResultWindow
}

func (c Config) defaultSort() string {
	if c.DefaultSort == "" {
		return "score desc, metadata_modified desc"
	}
	return c.DefaultSort
}
