// Package timeouts defines shared timeout constants used by the web service.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// LoadingPoll is how long a loading placeholder waits before asking the
// server to render the page again.
const LoadingPoll = 250 * time.Millisecond
