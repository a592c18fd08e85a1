package entities

// CandidateKind tells the matcher what kind of file is expected at a
// candidate path
type CandidateKind int

// Candidate file kinds
const (
	// CandidateObject is an object file in the format recorded on the
	// candidate (a .debug ELF, a dSYM's inner Mach-O)
	CandidateObject CandidateKind = iota
	// CandidatePDB is a Microsoft program database file
	CandidatePDB
)

// Candidate is a filesystem location that may hold the separate debug info
// for a binary. Candidates are generated lazily by the path convention
// provider and consumed (opened) by the matcher; they are never persisted.
type Candidate struct {
	Path   string
	Format ObjectFormat
	Kind   CandidateKind
}
