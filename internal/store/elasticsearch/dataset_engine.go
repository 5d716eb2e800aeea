package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goto/datahub/core/opensearch"
	"github.com/goto/salt/log"
)

// DatasetEngine runs opensearch engine queries against the dataset index.
type DatasetEngine struct {
	cli    *Client
	logger log.Logger
}

func NewDatasetEngine(cli *Client, logger log.Logger) *DatasetEngine {
	return &DatasetEngine{
		cli:    cli,
		logger: logger,
	}
}

func (e *DatasetEngine) Search(ctx context.Context, q opensearch.EngineQuery) (resp opensearch.EngineResponse, err error) {
	var statusCode int
	defer func(start time.Time) {
		e.cli.instrumentOp(ctx, instrumentParams{
			op:         "search",
			statusCode: statusCode,
			start:      start,
			err:        err,
		})
	}(time.Now())

	body, err := buildSearchBody(q)
	if err != nil {
		return opensearch.EngineResponse{}, SearchEngineError{Op: "Search", Err: fmt.Errorf("build query: %w", err)}
	}

	if e.cli.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cli.timeout)
		defer cancel()
	}

	search := e.cli.client.Search
	res, err := search(
		search.WithBody(body),
		search.WithIndex(e.cli.index),
		search.WithIgnoreUnavailable(true),
		search.WithContext(ctx),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return opensearch.EngineResponse{}, SearchEngineError{Op: "Search", Err: fmt.Errorf("search timed out: %w", err)}
		}
		return opensearch.EngineResponse{}, SearchEngineError{Op: "Search", Err: fmt.Errorf("execute search: %w", err)}
	}
	defer drainBody(res)

	statusCode = res.StatusCode
	if res.IsError() {
		code, reason := errorCodeAndReason(res)
		e.logger.Warn("search request failed", "status", code, "reason", reason)
		return opensearch.EngineResponse{}, SearchEngineError{
			Op:     "Search",
			ESCode: code,
			Err:    errors.New(reason),
		}
	}

	var response searchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return opensearch.EngineResponse{}, SearchEngineError{Op: "Search", Err: fmt.Errorf("decode search response: %w", err)}
	}

	resp, err = toEngineResponse(q, response)
	if err != nil {
		return opensearch.EngineResponse{}, SearchEngineError{Op: "Search", Err: err}
	}
	return resp, nil
}
