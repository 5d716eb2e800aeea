package cli

import "github.com/MakeNowJust/heredoc"

var envHelp = map[string]string{
	"short": "List of supported environment variables",
	"long": heredoc.Doc(`
		Every key of the configuration file can be set from the environment.
		Keys are upper cased, prefixed with DATAHUB_ and nested keys are
		joined with an underscore.

		DATAHUB_LOG_LEVEL: log level of the server, one of debug, info, warn, error.

		DATAHUB_SERVICE_PORT: port the OpenSearch endpoints listen on.

		DATAHUB_OPENSEARCH_SITE_URL: public root URL used in every link the gateway renders.

		DATAHUB_ELASTICSEARCH_BROKERS: comma separated Elasticsearch addresses.

		DATAHUB_DB_HOST, DATAHUB_DB_PORT, DATAHUB_DB_NAME: Postgres holding users and organizations.

		DATAHUB_SCHEMA_PATH: JSON, YAML or TOML parameter schema replacing the built-in one.

		DATAHUB_CLIENT_HOST: gateway address used by the search and describe commands.
	`),
}
