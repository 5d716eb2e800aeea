package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	datahubconfig "github.com/goto/datahub/config"
	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/core/validator"
	"github.com/goto/datahub/internal/client"
	"github.com/goto/datahub/internal/schema"
	"github.com/goto/datahub/internal/server"
	esStore "github.com/goto/datahub/internal/store/elasticsearch"
	"github.com/goto/datahub/internal/store/postgres"
	"github.com/goto/datahub/pkg/statsd"
	"github.com/goto/datahub/pkg/telemetry"
	"github.com/goto/salt/cmdx"
	"github.com/goto/salt/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const configFlag = "config"

func configCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage server and client configurations",
		Example: heredoc.Doc(`
			$ datahub config init
			$ datahub config list`),
	}

	cmd.AddCommand(configInitCommand())
	cmd.AddCommand(configListCommand(cfg))
	cmd.AddCommand(configExampleCommand())

	return cmd
}

func configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new server and client configuration",
		Example: heredoc.Doc(`
			$ datahub config init
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cmdx.SetConfig("datahub")

			if err := cfg.Init(&Config{}); err != nil {
				return err
			}

			fmt.Printf("config created: %v\n", cfg.File())
			return nil
		},
	}
}

func configListCommand(cfg *Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "list",
		Short: "List server and client configuration settings",
		Example: heredoc.Doc(`
			$ datahub config list
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = yaml.NewEncoder(os.Stdout).Encode(*cfg)
			return nil
		},
	}
	return cmd
}

func configExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print a configuration file with every default spelled out",
		Example: heredoc.Doc(`
			$ datahub config example > datahub.yaml
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := os.Stdout.Write(datahubconfig.Example)
			return err
		},
	}
}

type Config struct {
	// Log
	LogLevel string `yaml:"log_level" mapstructure:"log_level" default:"info"`

	// OpenSearch
	OpenSearch opensearch.Config `yaml:"opensearch" mapstructure:"opensearch"`

	// Parameter schema
	Schema schema.Config `yaml:"schema" mapstructure:"schema"`

	// StatsD
	StatsD statsd.Config `yaml:"statsd" mapstructure:"statsd"`

	// Telemetry
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`

	// Elasticsearch
	Elasticsearch esStore.Config `yaml:"elasticsearch" mapstructure:"elasticsearch"`

	// Database
	DB postgres.Config `yaml:"db" mapstructure:"db"`

	// Service
	Service server.Config `yaml:"service" mapstructure:"service"`

	// Client
	Client client.Config `yaml:"client" mapstructure:"client"`
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if err := validator.ValidateStruct(c.OpenSearch); err != nil {
		return fmt.Errorf("opensearch: %w", err)
	}
	if strings.TrimSpace(c.Elasticsearch.Brokers) == "" {
		return errors.New("elasticsearch: brokers is required")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := cmdx.SetConfig("datahub").Load(&cfg)
	if err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return LoadFromCurrentDir()
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadFromCurrentDir() (*Config, error) {
	var cfg Config
	var opts []config.LoaderOption

	opts = append(opts,
		config.WithPath("./"),
		config.WithName("datahub.yaml"),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("DATAHUB"),
	)

	if err := config.NewLoader(opts...).Load(&cfg); err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return &cfg, ErrConfigNotFound
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadConfigFromFlag(cfgFile string, cfg *Config) error {
	var opts []config.LoaderOption
	opts = append(opts,
		config.WithFile(cfgFile),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("DATAHUB"),
	)

	return config.NewLoader(opts...).Load(cfg)
}

// loadFlagConfig reloads cfg from the --config flag when it is set.
func loadFlagConfig(cmd *cobra.Command, cfg *Config) error {
	cfgFile, _ := cmd.Flags().GetString(configFlag)
	if cfgFile == "" {
		return nil
	}
	if err := LoadConfigFromFlag(cfgFile, cfg); err != nil {
		return fmt.Errorf("load config %s: %w", cfgFile, err)
	}
	return nil
}
