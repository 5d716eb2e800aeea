package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	pathSearch           = "/opensearch/search.atom"
	pathCollectionSearch = "/opensearch/collections"
	pathDescription      = "/opensearch/description.xml"
)

type Config struct {
	Host                      string        `yaml:"host" mapstructure:"host" default:"http://localhost:8080"`
	Timeout                   time.Duration `yaml:"timeout" mapstructure:"timeout" default:"10s"`
	ServerHeaderKeyUserUUID   string        `yaml:"serverheaderkey_uuid" mapstructure:"serverheaderkey_uuid" default:"Datahub-User-UUID"`
	ServerHeaderValueUserUUID string        `yaml:"serverheadervalue_uuid" mapstructure:"serverheadervalue_uuid" default:""`
}

// Client talks to the OpenSearch endpoints of a running gateway.
type Client struct {
	cfg  Config
	http *http.Client
}

// StatusError is returned for every non-2xx answer of the gateway.
type StatusError struct {
	Status int
	Body   string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("gateway responded %d: %s", e.Status, strings.TrimSpace(e.Body))
}

func Create(cfg Config) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.Host); err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", cfg.Host, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Search runs a dataset search, or a collection search when collections
// is set, and returns the raw Atom document.
func (c *Client) Search(ctx context.Context, params url.Values, collections bool) ([]byte, error) {
	path := pathSearch
	if collections {
		path = pathCollectionSearch
	}
	return c.get(ctx, path, params)
}

// Describe returns the description document of a search type. An empty
// search type is the dataset search.
func (c *Client) Describe(ctx context.Context, searchType string) ([]byte, error) {
	params := url.Values{}
	if searchType != "" {
		params.Set("osdd", searchType)
	}
	return c.get(ctx, pathDescription, params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := strings.TrimSuffix(c.cfg.Host, "/") + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.cfg.ServerHeaderKeyUserUUID != "" && c.cfg.ServerHeaderValueUserUUID != "" {
		req.Header.Set(c.cfg.ServerHeaderKeyUserUUID, c.cfg.ServerHeaderValueUserUUID)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, StatusError{Status: res.StatusCode, Body: string(body)}
	}
	return body, nil
}

// FeedSummary is the part of a result feed shown on a terminal.
type FeedSummary struct {
	Title        string         `xml:"title"`
	TotalResults int            `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	StartIndex   int            `xml:"http://a9.com/-/spec/opensearch/1.1/ startIndex"`
	ItemsPerPage int            `xml:"http://a9.com/-/spec/opensearch/1.1/ itemsPerPage"`
	Entries      []EntrySummary `xml:"entry"`
}

type EntrySummary struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Updated string `xml:"updated"`
}

func ParseFeed(data []byte) (FeedSummary, error) {
	var f FeedSummary
	if err := xml.Unmarshal(data, &f); err != nil {
		return FeedSummary{}, fmt.Errorf("parse feed: %w", err)
	}
	return f, nil
}
