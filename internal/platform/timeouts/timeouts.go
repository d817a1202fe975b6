// Package timeouts defines shared timeout constants used across the server.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// APIRequest caps the time allowed for a single YNAB API call. Each remote
// call is bounded individually; multi-step operations are not bounded as a
// whole.
const APIRequest = 30 * time.Second

// Shutdown limits how long exit paths wait for cleanup work such as flushing
// pending trace spans.
const Shutdown = 5 * time.Second
