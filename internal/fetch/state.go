// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

// State is a step of one logical fetch, reported in log fields.
type State int

const (
	StateIdle State = iota
	StateDelaying
	StateRequesting
	StateSuccess
	StateBlockedRetry
	StateFailedRetry
	StateExhausted
)

var stateNames = [...]string{
	StateIdle:         "idle",
	StateDelaying:     "delaying",
	StateRequesting:   "requesting",
	StateSuccess:      "success",
	StateBlockedRetry: "blocked_retry",
	StateFailedRetry:  "failed_retry",
	StateExhausted:    "exhausted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
