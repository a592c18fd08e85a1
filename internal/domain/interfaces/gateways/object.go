// Package gateways defines interfaces for object-file and filesystem
// adapters used by the resolution core.
package gateways

import (
	"context"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
)

// ObjectInspector identifies an object file's container format and extracts
// its debug identifier. Parsing is read-only; malformed input yields
// entities.ErrMalformedObject, unknown magic yields
// entities.ErrUnsupportedFormat.
type ObjectInspector interface {
	// Inspect identifies the format of the raw object bytes and extracts
	// the debug identifier embedded in them. A cleanly parsed object with
	// no identifying note, section, or load command returns the None
	// identifier and no error.
	Inspect(ctx context.Context, data []byte) (entities.ObjectFormat, entities.DebugIdentifier, error)

	// InspectFile reads the file at path and inspects its contents.
	// An I/O error opening the file is returned as-is.
	InspectFile(ctx context.Context, path string) (entities.ObjectFormat, entities.DebugIdentifier, error)
}
