// Package delivery declares the transports the service is reachable through.
package delivery

import "context"

// Delivery is a long-running transport started once the fx graph is built.
type Delivery interface {
	Serve(ctx context.Context) error
}
