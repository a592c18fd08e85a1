package gateways

import (
	"context"
	"iter"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
)

// CandidateProvider enumerates the filesystem locations that may hold the
// separate debug info for a binary. The sequence is finite, lazy, and
// deterministic for fixed inputs and configuration, ordered by decreasing
// plausibility so the matcher can stop at the first hit.
type CandidateProvider interface {
	Candidates(ctx context.Context, binaryPath string, id entities.DebugIdentifier) iter.Seq[entities.Candidate]
}

// CandidateMatcher probes candidates until one's embedded identifier
// matches the original. It returns the matched path, the number of
// candidates probed, and whether a match was found. Per-candidate I/O
// errors are treated as non-matches, never escalated.
type CandidateMatcher interface {
	Match(ctx context.Context, id entities.DebugIdentifier, candidates iter.Seq[entities.Candidate]) (string, int, bool)
}

// DSYMIndex looks up dSYM bundles by UUID through a host index such as
// Spotlight. Implementations return bundle paths, most relevant first, or
// nil when the host has no such index.
type DSYMIndex interface {
	LookupUUID(ctx context.Context, id [16]byte) []string
}
