// Package delivery defines the contract every transport server fulfills.
package delivery

import "context"

// Delivery is a long-running transport (HTTP server) started by main.
type Delivery interface {
	Serve(ctx context.Context) error
}
