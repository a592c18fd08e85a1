// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
)

// ResolverService is the sole public entry point of the resolution core:
// binary path in, resolved debug-file path (or a typed not-found outcome)
// out. Calls are independent and safe to run concurrently.
type ResolverService interface {
	// Resolve locates the separate debug info for the binary at
	// binaryPath. I/O errors on the binary itself, unrecognized magic, and
	// malformed headers are returned as errors; "nothing found" outcomes
	// are expressed in the Resolution status, not as errors.
	Resolve(ctx context.Context, binaryPath string) (*entities.Resolution, error)

	// VerifyPair checks whether the file at debugPath carries the debug
	// identifier of the binary at binaryPath.
	VerifyPair(ctx context.Context, binaryPath, debugPath string) (bool, error)
}
