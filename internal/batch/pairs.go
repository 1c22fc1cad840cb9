// Package batch runs an import: it validates the (file, institution) pairs,
// prepares the store and processes each file in turn. Per-file failures are
// recorded and never stop the run.
package batch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUsage is returned for an argument list that does not decompose into
// (file, institution-key) pairs.
var ErrUsage = errors.New("expected one or more <file> <institution> pairs")

// Pair is one file to import with the institution key describing it.
type Pair struct {
	Path string
	Key  string
}

// ParsePairs splits a flat argument list into pairs. Empty and odd-length
// lists are rejected with ErrUsage, as are blank elements.
func ParsePairs(args []string) ([]Pair, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no arguments given", ErrUsage)
	}
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d arguments", ErrUsage, len(args))
	}
	pairs := make([]Pair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		p := Pair{Path: strings.TrimSpace(args[i]), Key: strings.TrimSpace(args[i+1])}
		if p.Path == "" || p.Key == "" {
			return nil, fmt.Errorf("%w: blank value in pair %d", ErrUsage, i/2+1)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}
