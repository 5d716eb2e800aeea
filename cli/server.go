package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/datahub/internal/atom"
	"github.com/goto/datahub/internal/schema"
	"github.com/goto/datahub/internal/server"
	esStore "github.com/goto/datahub/internal/store/elasticsearch"
	"github.com/goto/datahub/internal/store/postgres"
	"github.com/goto/datahub/pkg/statsd"
	"github.com/goto/datahub/pkg/telemetry"
	"github.com/goto/salt/log"
	"github.com/spf13/cobra"
)

func serverCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server <command>",
		Aliases: []string{"s"},
		Short:   "Run datahub server",
		Long:    "Server management commands.",
		Example: heredoc.Doc(`
			$ datahub server start
			$ datahub server start -c ./config.yaml
			$ datahub server migrate
			$ datahub server migrate -c ./config.yaml
		`),
	}

	cmd.AddCommand(
		serverStartCommand(cfg),
		serverMigrateCommand(cfg),
	)

	return cmd
}

func serverStartCommand(cfg *Config) *cobra.Command {
	c := &cobra.Command{
		Use:     "start",
		Short:   "Start server on default port 8080",
		Example: "datahub server start",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadFlagConfig(cmd, cfg); err != nil {
				return err
			}
			if err := runServer(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("run server: %w", err)
			}
			return nil
		},
	}

	return c
}

func serverMigrateCommand(cfg *Config) *cobra.Command {
	var down bool
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Run storage migration",
		Example: heredoc.Doc(`
			$ datahub server migrate
			$ datahub server migrate --down
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadFlagConfig(cmd, cfg); err != nil {
				return err
			}
			if down {
				return rollbackPostgres(cmd.Context(), initLogger(cfg.LogLevel), cfg)
			}
			return runMigrations(cmd.Context(), cfg)
		},
	}

	c.Flags().BoolVar(&down, "down", false, "roll back the last postgres migration")

	return c
}

func runServer(ctx context.Context, config *Config) error {
	logger := initLogger(config.LogLevel)
	logger.Info("datahub starting", "version", Version)

	if err := config.Validate(); err != nil {
		return err
	}

	config.Telemetry.AppVersion = Version
	nrApp, cleanUpTelemetry, err := telemetry.Init(ctx, config.Telemetry, logger)
	if err != nil {
		return err
	}
	defer cleanUpTelemetry()

	statsdReporter, err := statsd.Init(logger, config.StatsD)
	if err != nil {
		return err
	}
	defer func() {
		if err := statsdReporter.Close(); err != nil {
			logger.Error("close statsd reporter", "err", err)
		}
	}()

	esClient, err := initElasticsearch(logger, config.Elasticsearch)
	if err != nil {
		return err
	}

	pgClient, err := initPostgres(ctx, logger, config)
	if err != nil {
		return err
	}
	defer func() {
		if err := pgClient.Close(); err != nil {
			logger.Error("close postgres client", "err", err)
		}
	}()

	permissionRepository, err := postgres.NewPermissionRepository(pgClient)
	if err != nil {
		return fmt.Errorf("create new permission repository: %w", err)
	}

	sch, err := schema.Load(config.Schema)
	if err != nil {
		return fmt.Errorf("load parameter schema: %w", err)
	}

	svc, err := opensearch.NewService(opensearch.ServiceDeps{
		Config:      config.OpenSearch,
		Schema:      sch,
		Engine:      esStore.NewDatasetEngine(esClient, logger),
		Permissions: permissionRepository,
	})
	if err != nil {
		return fmt.Errorf("create opensearch service: %w", err)
	}

	return server.Serve(ctx, config.Service, server.Deps{
		Logger:   logger,
		NRApp:    nrApp,
		StatsD:   server.Reporter(statsdReporter),
		Service:  svc,
		Renderer: atom.NewRenderer(opensearch.Namespaces(config.OpenSearch.Namespaces)),
		SiteURL:  config.OpenSearch.SiteURL,
	})
}

func initLogger(logLevel string) *log.Logrus {
	logger := log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(os.Stdout),
	)
	return logger
}

func initElasticsearch(logger log.Logger, config esStore.Config) (*esStore.Client, error) {
	esClient, err := esStore.NewClient(logger, config)
	if err != nil {
		return nil, fmt.Errorf("create new elasticsearch client: %w", err)
	}
	got, err := esClient.Init()
	if err != nil {
		return nil, fmt.Errorf("establish connection to elasticsearch: %w", err)
	}
	logger.Info("connected to elasticsearch", "info", got)
	return esClient, nil
}

func initPostgres(ctx context.Context, logger log.Logger, config *Config) (*postgres.Client, error) {
	pgClient, err := postgres.NewClient(ctx, config.DB)
	if err != nil {
		return nil, fmt.Errorf("error creating postgres client: %w", err)
	}
	logger.Info("connected to postgres server", "host", config.DB.Host, "port", config.DB.Port)

	return pgClient, nil
}

func runMigrations(ctx context.Context, config *Config) error {
	fmt.Println("Preparing migration...")

	logger := initLogger(config.LogLevel)
	logger.Info("datahub is migrating", "version", Version)

	logger.Info("Migrating Postgres...")
	if err := migratePostgres(ctx, logger, config); err != nil {
		return err
	}
	logger.Info("Migration Postgres done.")

	logger.Info("Migrating Elasticsearch...")
	if err := migrateElasticsearch(ctx, logger, config); err != nil {
		return err
	}
	logger.Info("Migration Elasticsearch done.")

	return nil
}

func migratePostgres(ctx context.Context, logger log.Logger, config *Config) (err error) {
	logger.Info("Initiating Postgres client...")

	pgClient, err := postgres.NewClient(ctx, config.DB)
	if err != nil {
		logger.Error("failed to prepare migration", "error", err)
		return err
	}
	defer pgClient.Close()

	ver, err := pgClient.Migrate()
	if err != nil {
		return fmt.Errorf("problem with migration %w", err)
	}
	logger.Info("postgres schema is up to date", "version", ver)

	return nil
}

func rollbackPostgres(ctx context.Context, logger log.Logger, config *Config) error {
	pgClient, err := postgres.NewClient(ctx, config.DB)
	if err != nil {
		return fmt.Errorf("error creating postgres client: %w", err)
	}
	defer pgClient.Close()

	ver, err := pgClient.MigrateDown()
	if err != nil {
		return fmt.Errorf("problem with rollback %w", err)
	}
	logger.Info("postgres schema rolled back", "version", ver)
	return nil
}

func migrateElasticsearch(ctx context.Context, logger log.Logger, config *Config) error {
	esClient, err := initElasticsearch(logger, config.Elasticsearch)
	if err != nil {
		return err
	}
	if err := esClient.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate index %s: %w", esClient.Index(), err)
	}
	return nil
}
