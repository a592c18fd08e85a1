package entities

// Config carries the environment-derived facts the resolution core needs.
// It is constructed at the edge (CLI flags, YAML file, environment
// variables) and passed in explicitly so the core stays pure and testable
// with synthetic environments.
type Config struct {
	// DebugDirectories are the global split-debug cache roots probed for
	// build-id and debug-link candidates, most preferred first.
	DebugDirectories []string

	// SymbolPath lists directories searched for PDB candidates, in the
	// order given. Entries starting with "srv*" or "cache*" describe
	// symbol servers and are skipped.
	SymbolPath []string

	// Architecture selects the slice of a Mach-O fat binary to extract the
	// identifier from, using GOARCH names ("amd64", "arm64"). When empty
	// or unmatched, all slices are considered.
	Architecture string

	// KeyringPath optionally points at an armored PGP keyring used to
	// verify detached signatures of resolved debug files.
	KeyringPath string
}

// DefaultDebugDirectory is the standard split-debug cache root on
// GNU/Linux systems
const DefaultDebugDirectory = "/usr/lib/debug"

// DefaultConfig returns the conventional host configuration
func DefaultConfig() Config {
	return Config{
		DebugDirectories: []string{DefaultDebugDirectory},
	}
}
