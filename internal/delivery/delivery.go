// Package delivery defines the contract every outward-facing transport
// implements, so the composition root can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport serving the application, such as an
// HTTP server. Serve blocks until the transport stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
