//go:build !darwin

package spotlight

import "context"

// LookupUUID reports nothing: only macOS indexes dSYM bundles
func (i *Index) LookupUUID(_ context.Context, _ [16]byte) []string {
	return nil
}
