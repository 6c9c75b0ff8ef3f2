// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrSoftBlock marks a response rejected by an anti-automation defense.
	ErrSoftBlock = errors.New("soft block")

	// ErrRetriesExhausted is matched by the error returned when every
	// attempt of a fetch failed or was blocked.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrNotFound is returned for HTTP 404 responses. It is terminal.
	ErrNotFound = errors.New("page not found")
)

// Kind classifies a FetchError.
type Kind int

const (
	// KindNetwork is a retryable transport failure, timeout, or 5xx.
	KindNetwork Kind = iota
	// KindRequest is a transport failure that cannot succeed on retry,
	// such as an unsupported scheme or a bad certificate.
	KindRequest
	// KindStatus is an unexpected HTTP status.
	KindStatus
	// KindBlocked is a soft block.
	KindBlocked
	// KindExhausted means the attempt ceiling was reached.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	case KindStatus:
		return "status"
	case KindBlocked:
		return "blocked"
	case KindExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FetchError describes a failed fetch. For KindExhausted, Err holds the
// error of the last attempt.
type FetchError struct {
	Kind     Kind
	URL      string
	Status   int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindExhausted:
		return fmt.Sprintf("fetching %s: %d attempts exhausted: %v", e.URL, e.Attempts, e.Err)
	case KindStatus:
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Status)
	case KindBlocked:
		if e.Status != 0 {
			return fmt.Sprintf("fetching %s: soft block (HTTP %d)", e.URL, e.Status)
		}
		return fmt.Sprintf("fetching %s: soft block", e.URL)
	default:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinels without wrapping them into Err.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrRetriesExhausted:
		return e.Kind == KindExhausted
	case ErrSoftBlock:
		return e.Kind == KindBlocked
	}
	return false
}

// retryable reports whether another attempt may follow err.
func retryable(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Kind == KindNetwork || fe.Kind == KindBlocked
}
