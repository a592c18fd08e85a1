// Package spotlight looks up dSYM bundles by UUID through the macOS
// Spotlight metadata index. On other platforms the lookup is a no-op.
package spotlight

import (
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
)

// Index resolves dSYM bundle paths for a Mach-O UUID
type Index struct {
	logger interfaces.Logger
}

// NewIndex creates a new dSYM index
func NewIndex(logger interfaces.Logger) *Index {
	return &Index{logger: logger}
}
