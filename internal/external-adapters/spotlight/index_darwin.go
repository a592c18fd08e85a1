//go:build darwin

package spotlight

import (
	"context"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
)

// LookupUUID queries Spotlight for dSYM bundles indexed under the UUID.
// Hosts without mdfind, a disabled index, or an empty result all yield
// nil; the caller simply continues with the remaining candidates.
func (i *Index) LookupUUID(ctx context.Context, id [16]byte) []string {
	if _, err := exec.LookPath("mdfind"); err != nil {
		return nil
	}

	query := "com_apple_xcode_dsym_uuids == " + strings.ToUpper(uuid.UUID(id).String())
	out, err := exec.CommandContext(ctx, "mdfind", query).Output()
	if err != nil {
		i.logger.Debug("mdfind query failed", interfaces.F("error", err))
		return nil
	}

	var bundles []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			bundles = append(bundles, line)
		}
	}
	return bundles
}
