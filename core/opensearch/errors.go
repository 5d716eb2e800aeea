package opensearch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptySchema     = errors.New("parameter schema is empty")
	ErrNilEngine       = errors.New("search engine is nil")
	ErrMissingIdentity = errors.New("document has no identifier")
)

// InvalidSearchTypeError is returned when a search type or collection
// is not declared in the schema.
type InvalidSearchTypeError struct {
	SearchType string
}

func (err InvalidSearchTypeError) Error() string {
	if err.SearchType == "" {
		return "search type is required"
	}
	return fmt.Sprintf("invalid search type: %q", err.SearchType)
}

// ValidationError is a single rejected aspect of a submitted query.
type ValidationError struct {
	Parameter string
	Message   string
}

func (err ValidationError) Error() string {
	return err.Message
}

// ValidationErrors is the complete list of problems found in a query.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	return strings.Join(errs.Messages(), " ")
}

func (errs ValidationErrors) Messages() []string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}

// InvalidEngineParametersError reports outgoing engine directives that
// are not part of the allow-list.
type InvalidEngineParametersError struct {
	Names []string
}

func (err InvalidEngineParametersError) Error() string {
	names := append([]string(nil), err.Names...)
	sort.Strings(names)
	return fmt.Sprintf("Invalid search parameters: %s", strings.Join(names, ", "))
}

// SearchError is a fatal failure talking to the search engine.
type SearchError struct {
	Op  string
	Err error
}

func (err SearchError) Error() string {
	if err.Op == "" {
		return "search error: " + err.Err.Error()
	}
	return fmt.Sprintf("search error: %s: %s", err.Op, err.Err)
}

func (err SearchError) Unwrap() error { return err.Err }

// SearchQueryError is an engine rejection caused by the client's query.
type SearchQueryError struct {
	Message string
	Err     error
}

func (err SearchQueryError) Error() string {
	return err.Message
}

func (err SearchQueryError) Unwrap() error { return err.Err }

// ContractError signals that the engine response does not have the
// structure the request asked for.
type ContractError struct {
	Reason string
}

func (err ContractError) Error() string {
	return "search engine contract violation: " + err.Reason
}

// IsClientError reports whether err should be surfaced to the caller as
// a request problem rather than a server failure.
func IsClientError(err error) bool {
	var (
		typeErr   InvalidSearchTypeError
		valErrs   ValidationErrors
		valErr    ValidationError
		paramsErr InvalidEngineParametersError
		queryErr  SearchQueryError
	)
	return errors.As(err, &typeErr) ||
		errors.As(err, &valErrs) ||
		errors.As(err, &valErr) ||
		errors.As(err, &paramsErr) ||
		errors.As(err, &queryErr)
}
