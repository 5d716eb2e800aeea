// Package config embeds the built-in defaults of the search gateway.
package config

import _ "embed"

// Schema is the default parameter schema, used when no schema file is
// configured.
//
//go:embed schema.yaml
var Schema []byte

// Example is a complete configuration file with every default spelled out.
//
//go:embed datahub.yaml
var Example []byte
