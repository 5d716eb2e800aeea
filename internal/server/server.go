package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/goto/datahub/internal/atom"
	"github.com/goto/datahub/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/goto/salt/mux"
	"github.com/newrelic/go-agent/v3/newrelic"
)

type Config struct {
	Host string `yaml:"host" mapstructure:"host" default:"0.0.0.0"`
	Port int    `yaml:"port" mapstructure:"port" default:"8080"`

	// User Identity
	Identity IdentityConfig `yaml:"identity" mapstructure:"identity"`
}

func (cfg Config) addr() string { return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port) }

type IdentityConfig struct {
	// User Identity
	HeaderKeyUserUUID string `yaml:"headerkey_uuid" mapstructure:"headerkey_uuid" default:"Datahub-User-UUID"`
}

type Deps struct {
	Logger   log.Logger
	NRApp    *newrelic.Application
	StatsD   StatsDClient
	Service  OpenSearchService
	Renderer *atom.Renderer
	// SiteURL prefixes the self links of description documents.
	SiteURL string
}

func Serve(ctx context.Context, config Config, deps Deps) error {
	router := NewRouter(config, deps)

	deps.Logger.Info("Starting server", "http_port", config.addr())
	if err := mux.Serve(
		ctx,
		mux.WithHTTPTarget(config.addr(), &http.Server{
			Handler:      handlers.CompressHandler(router),
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		}),
		mux.WithGracePeriod(5*time.Second),
	); !errors.Is(err, context.Canceled) {
		deps.Logger.Error("mux serve error", "err", err)
	}

	deps.Logger.Info("server stopped")
	return nil
}

// Reporter adapts a statsd reporter, which may be nil, to StatsDClient.
func Reporter(r *statsd.Reporter) StatsDClient {
	if r == nil {
		return nil
	}
	return r
}
