// Package lifecycle holds shared constants for component start/stop handling.
package lifecycle

import "time"

// DefaultTimeout bounds startup probes and graceful shutdown of every
// managed component (HTTP server, database connections).
const DefaultTimeout = 10 * time.Second
