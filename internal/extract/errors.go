// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "fmt"

// ParseError reports a structured payload that could not be decoded and
// had no HTML to fall back on.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
