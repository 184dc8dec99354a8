// Package ident parses free-form user input into order identifiers
// (tracking numbers, order IDs) for batch processing.
package ident

import (
	"errors"
	"strings"
)

// ErrEmpty is returned when the input contains no usable identifiers.
var ErrEmpty = errors.New("no identifiers provided")

// Parse splits raw on newlines, trims each line and drops blank ones.
// Input order is preserved and duplicates are kept.
func Parse(raw string) ([]string, error) {
	var ids []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}
	if len(ids) == 0 {
		return nil, ErrEmpty
	}
	return ids, nil
}

// Join renders identifiers back into the one-per-line form accepted by Parse.
func Join(ids []string) string {
	return strings.Join(ids, "\n")
}
