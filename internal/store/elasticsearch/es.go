package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/integrations/nrelasticsearch-v7"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const supportedVersions = ">= 7.10.0, < 8.0.0"

type Config struct {
	Brokers        string        `yaml:"brokers" mapstructure:"brokers" default:"http://localhost:9200"`
	Index          string        `yaml:"index" mapstructure:"index" default:"datasets"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout" default:"10s"`
}

// extract error reason from an elasticsearch response
// returns the raw message in case it fails
func errorReasonFromResponse(res *esapi.Response) string {
	_, reason := errorCodeAndReason(res)
	return reason
}

func errorCodeAndReason(res *esapi.Response) (int, string) {
	var (
		response struct {
			Error struct {
				Type      string `json:"type"`
				Reason    string `json:"reason"`
				RootCause []struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"root_cause"`
			} `json:"error"`
		}
		copy bytes.Buffer
	)
	reader := io.TeeReader(res.Body, &copy)
	if err := json.NewDecoder(reader).Decode(&response); err != nil {
		return res.StatusCode, fmt.Sprintf("raw response = %s", copy.String())
	}

	e := response.Error
	parts := []string{e.Type + ": " + e.Reason}
	for _, rc := range e.RootCause {
		if rc.Reason != e.Reason {
			parts = append(parts, rc.Type+": "+rc.Reason)
		}
	}
	return res.StatusCode, strings.Join(parts, "; ")
}

// helper for decorating unsuccesful invocations of the es REST API
// (transport errors)
func elasticSearchError(err error) error {
	return fmt.Errorf("elasticsearch error: %w", err)
}

func drainBody(res *esapi.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}

type Client struct {
	client  *elasticsearch.Client
	logger  log.Logger
	index   string
	timeout time.Duration

	durationHist metric.Int64Histogram
}

func NewClient(logger log.Logger, config Config, opts ...ClientOption) (*Client, error) {
	c := &Client{
		logger:  logger,
		index:   config.Index,
		timeout: config.RequestTimeout,
	}
	if c.index == "" {
		c.index = "datasets"
	}

	durationHist, err := otel.Meter("github.com/goto/datahub/internal/store/elasticsearch").
		Int64Histogram("datahub.es.client.duration",
			metric.WithDescription("Duration of Elasticsearch requests"),
			metric.WithUnit("ms"))
	if err != nil {
		otel.Handle(err)
	}
	c.durationHist = durationHist

	for _, opt := range opts {
		opt(c)
	}

	if c.client != nil {
		return c, nil
	}

	brokers := strings.Split(config.Brokers, ",")
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: brokers,
		Transport: nrelasticsearch.NewRoundTripper(nil),
	})
	if err != nil {
		return nil, err
	}
	c.client = esClient

	return c, nil
}

func (c *Client) Index() string { return c.index }

// Init checks the cluster is reachable and runs a supported version.
func (c *Client) Init() (string, error) {
	res, err := c.client.Info()
	if err != nil {
		return "", elasticSearchError(err)
	}
	defer drainBody(res)
	if res.IsError() {
		return "", errors.New(res.Status())
	}
	var info = struct {
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	}{}

	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return "", err
	}

	if err := checkVersion(info.Version.Number); err != nil {
		return "", err
	}

	return fmt.Sprintf("%q (server version %s)", info.ClusterName, info.Version.Number), nil
}

func checkVersion(number string) error {
	v, err := semver.NewVersion(number)
	if err != nil {
		return fmt.Errorf("parse server version %q: %w", number, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s, want %s", ErrUnsupportedVersion, number, supportedVersions)
	}
	return nil
}

// Migrate creates the dataset index, or updates its mapping when it
// already exists.
func (c *Client) Migrate(ctx context.Context) error {
	idxExists, err := c.indexExists(ctx, c.index)
	if err != nil {
		return fmt.Errorf("error checking index existence: %w", err)
	}

	if idxExists {
		c.logger.Info("index already exist, updating it instead", "index", c.index)
		if err = c.updateIdx(ctx); err != nil {
			return fmt.Errorf("error updating index: %w", err)
		}
		return nil
	}

	c.logger.Info("creating index", "index", c.index)
	if err = c.createIdx(ctx); err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	return nil
}

func (c *Client) createIdx(ctx context.Context) error {
	res, err := c.client.Indices.Create(
		c.index,
		c.client.Indices.Create.WithBody(strings.NewReader(buildIndexSettings())),
		c.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return elasticSearchError(err)
	}
	defer drainBody(res)
	if res.IsError() {
		return fmt.Errorf("error creating index %q: %s", c.index, errorReasonFromResponse(res))
	}
	return nil
}

func (c *Client) updateIdx(ctx context.Context) error {
	res, err := c.client.Indices.PutMapping(
		strings.NewReader(datasetIndexMapping),
		c.client.Indices.PutMapping.WithIndex(c.index),
		c.client.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return elasticSearchError(err)
	}
	defer drainBody(res)
	if res.IsError() {
		return fmt.Errorf("error updating index %q: %s", c.index, errorReasonFromResponse(res))
	}
	return nil
}

// checks for the existence of an index
func (c *Client) indexExists(ctx context.Context, name string) (bool, error) {
	res, err := c.client.Indices.Exists(
		[]string{name},
		c.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("indexExists: %w", elasticSearchError(err))
	}
	defer drainBody(res)
	return res.StatusCode == 200, nil
}

type instrumentParams struct {
	op         string
	statusCode int
	start      time.Time
	err        error
}

func (c *Client) instrumentOp(ctx context.Context, p instrumentParams) {
	if c.durationHist == nil {
		return
	}
	c.durationHist.Record(ctx, time.Since(p.start).Milliseconds(), metric.WithAttributes(
		attribute.String("es.operation", p.op),
		attribute.String("es.index", c.index),
		attribute.Int("es.status_code", p.statusCode),
		attribute.Bool("es.success", p.err == nil),
	))
}
