package schema

import (
	"fmt"
	"strings"

	"github.com/r3labs/diff/v2"
)

// Change is one difference between two schema files.
type Change struct {
	Type string
	Path string
	From interface{}
	To   interface{}
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s: %v -> %v", c.Type, c.Path, c.From, c.To)
}

// Compare lists what changes between two schema files, keyed by parameter
// name and collection id rather than by position.
func Compare(from, to File) ([]Change, error) {
	changelog, err := diff.Diff(from, to, diff.SliceOrdering(false))
	if err != nil {
		return nil, fmt.Errorf("compare schemas: %w", err)
	}

	changes := make([]Change, 0, len(changelog))
	for _, c := range changelog {
		changes = append(changes, Change{
			Type: c.Type,
			Path: strings.Join(c.Path, "."),
			From: c.From,
			To:   c.To,
		})
	}
	return changes, nil
}
