package elasticsearch

import (
	"errors"
	"fmt"
)

var ErrUnsupportedVersion = errors.New("unsupported elasticsearch version")

// SearchEngineError is a failed request against the dataset index.
type SearchEngineError struct {
	Op     string
	ESCode int
	Err    error
}

func (err SearchEngineError) Error() string {
	if err.ESCode != 0 {
		return fmt.Sprintf("elasticsearch %s (status %d): %v", err.Op, err.ESCode, err.Err)
	}
	return fmt.Sprintf("elasticsearch %s: %v", err.Op, err.Err)
}

func (err SearchEngineError) Unwrap() error { return err.Err }
