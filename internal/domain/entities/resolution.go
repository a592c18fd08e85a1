package entities

// ResolutionStatus classifies the outcome of a resolution call
type ResolutionStatus int

// Resolution outcomes. The three not-found statuses are deliberately
// distinct: a caller with a symbol-server fallback typically only wants to
// go to the network when an identifier was present but nothing on disk
// matched it.
const (
	// StatusResolved means a candidate's embedded identifier matched
	StatusResolved ResolutionStatus = iota
	// StatusNoIdentifier means the binary carries no debug identifier;
	// no candidates were probed
	StatusNoIdentifier
	// StatusNoCandidates means an identifier was present but the path
	// conventions produced no locations to probe
	StatusNoCandidates
	// StatusNoMatch means candidates existed but none carried a matching
	// identifier
	StatusNoMatch
)

// String returns a human-readable name for the status
func (s ResolutionStatus) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusNoIdentifier:
		return "no debug identifier present"
	case StatusNoCandidates:
		return "no candidate locations"
	case StatusNoMatch:
		return "no candidate matched"
	default:
		return "invalid"
	}
}

// Resolution is the result of resolving a binary's separate debug info.
// Path is set only when Status is StatusResolved. Format and Identifier
// describe the original binary so callers can report what was searched for.
type Resolution struct {
	Status     ResolutionStatus
	Path       string
	Format     ObjectFormat
	Identifier DebugIdentifier

	// Probed counts how many candidates the matcher opened before the
	// search ended
	Probed int
}

// Found reports whether the resolution produced a debug file path
func (r *Resolution) Found() bool {
	return r.Status == StatusResolved
}
