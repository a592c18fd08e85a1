package gateways

import (
	"context"
	"encoding/hex"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
	domaingateways "github.com/ochairo/dwarflocate/internal/domain/interfaces/gateways"
)

const (
	buildIDDirName  = ".build-id"
	debugSubdirName = ".debug"
	debugFileSuffix = ".debug"

	dsymBundleSuffix = ".dSYM"
	dsymDWARFSubdir  = "Contents/Resources/DWARF"

	pdbFileSuffix = ".pdb"
)

// candidateProvider turns a debug identifier into the ordered sequence of
// filesystem locations that convention says may hold the matching debug
// file. Purely computes paths plus cheap directory listings; the matcher
// does the opening and checking.
type candidateProvider struct {
	config entities.Config
	index  domaingateways.DSYMIndex
	logger interfaces.Logger
}

// NewCandidateProvider creates a new path-convention candidate provider.
// index may be nil when the host has no dSYM lookup service.
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewCandidateProvider(config entities.Config, index domaingateways.DSYMIndex, logger interfaces.Logger) *candidateProvider {
	return &candidateProvider{config: config, index: index, logger: logger}
}

var _ domaingateways.CandidateProvider = (*candidateProvider)(nil)

// Candidates yields candidate locations for the identifier, most plausible
// first. Candidates near the binary always precede global caches so a
// project-local debug file wins over a stale system-wide one.
func (p *candidateProvider) Candidates(ctx context.Context, binaryPath string, id entities.DebugIdentifier) iter.Seq[entities.Candidate] {
	switch id.Kind {
	case entities.IdentifierBuildID:
		return p.buildIDCandidates(binaryPath, id.BuildID)
	case entities.IdentifierDebugLink:
		return p.debugLinkCandidates(binaryPath, id.Name)
	case entities.IdentifierUUID:
		return p.dsymCandidates(ctx, binaryPath, id.UUID)
	case entities.IdentifierCodeView:
		return p.pdbCandidates(binaryPath, id.PDBPath)
	default:
		return func(func(entities.Candidate) bool) {}
	}
}

// buildIDCandidates yields the .build-id cache layout:
// <root>/.build-id/<first byte hex>/<remaining hex>.debug, first under the
// binary's own directory, then under each configured debug root.
func (p *candidateProvider) buildIDCandidates(binaryPath string, buildID []byte) iter.Seq[entities.Candidate] {
	return func(yield func(entities.Candidate) bool) {
		if len(buildID) < 2 {
			return
		}
		leaf := filepath.Join(hex.EncodeToString(buildID[:1]), hex.EncodeToString(buildID[1:])+debugFileSuffix)

		roots := []string{filepath.Dir(absolute(binaryPath))}
		roots = append(roots, p.config.DebugDirectories...)
		for _, root := range roots {
			c := entities.Candidate{
				Path:   filepath.Join(root, buildIDDirName, leaf),
				Format: entities.FormatELF,
				Kind:   entities.CandidateObject,
			}
			if !yield(c) {
				return
			}
		}
	}
}

// debugLinkCandidates yields the GDB debug-link search order: next to the
// binary, in a .debug subdirectory, then the binary's directory mirrored
// under each debug root. The binary itself is skipped when the link names
// its own file.
func (p *candidateProvider) debugLinkCandidates(binaryPath, name string) iter.Seq[entities.Candidate] {
	return func(yield func(entities.Candidate) bool) {
		if name == "" || strings.ContainsRune(name, os.PathSeparator) {
			return
		}
		abs := absolute(binaryPath)
		dir := filepath.Dir(abs)

		paths := []string{
			filepath.Join(dir, name),
			filepath.Join(dir, debugSubdirName, name),
		}
		for _, root := range p.config.DebugDirectories {
			paths = append(paths, filepath.Join(root, strings.TrimPrefix(dir, string(os.PathSeparator)), name))
		}

		for _, path := range paths {
			if path == abs {
				continue
			}
			c := entities.Candidate{Path: path, Format: entities.FormatELF, Kind: entities.CandidateObject}
			if !yield(c) {
				return
			}
		}
	}
}

// dsymCandidates yields the DWARF files inside dSYM bundles: the bundle
// named after the binary, then every sibling bundle, then whatever the
// host dSYM index reports for the UUID. Directory listings happen only
// when iteration actually reaches them.
func (p *candidateProvider) dsymCandidates(ctx context.Context, binaryPath string, id [16]byte) iter.Seq[entities.Candidate] {
	return func(yield func(entities.Candidate) bool) {
		abs := absolute(binaryPath)
		base := filepath.Base(abs)
		primary := abs + dsymBundleSuffix

		c := entities.Candidate{
			Path:   filepath.Join(primary, dsymDWARFSubdir, base),
			Format: entities.FormatMachO,
			Kind:   entities.CandidateObject,
		}
		if !yield(c) {
			return
		}

		for _, bundle := range siblingBundles(filepath.Dir(abs), primary) {
			path, ok := soleDWARFFile(bundle)
			if !ok {
				continue
			}
			c := entities.Candidate{Path: path, Format: entities.FormatMachO, Kind: entities.CandidateObject}
			if !yield(c) {
				return
			}
		}

		if p.index == nil {
			return
		}
		for _, bundle := range p.index.LookupUUID(ctx, id) {
			path, ok := soleDWARFFile(bundle)
			if !ok {
				continue
			}
			c := entities.Candidate{Path: path, Format: entities.FormatMachO, Kind: entities.CandidateObject}
			if !yield(c) {
				return
			}
		}
	}
}

// pdbCandidates yields PDB locations: the path the linker embedded, the
// PDB next to the binary, then the flat, two-tier and symbol-server
// layouts under each symbol-path entry. Server and cache entries are
// skipped; only local directories are probed.
func (p *candidateProvider) pdbCandidates(binaryPath, embeddedPath string) iter.Seq[entities.Candidate] {
	return func(yield func(entities.Candidate) bool) {
		yieldPDB := func(path string) bool {
			return yield(entities.Candidate{Path: path, Format: entities.FormatPE, Kind: entities.CandidatePDB})
		}

		if embeddedPath != "" {
			if !yieldPDB(embeddedPath) {
				return
			}
		}

		abs := absolute(binaryPath)
		base := filepath.Base(abs)
		ext := strings.TrimPrefix(filepath.Ext(base), ".")
		pdbName := strings.TrimSuffix(base, filepath.Ext(base)) + pdbFileSuffix

		if !yieldPDB(filepath.Join(filepath.Dir(abs), pdbName)) {
			return
		}

		for _, entry := range p.config.SymbolPath {
			if strings.HasPrefix(entry, "srv*") || strings.HasPrefix(entry, "cache*") {
				continue
			}
			if !yieldPDB(filepath.Join(entry, pdbName)) {
				return
			}
			if ext == "" {
				continue
			}
			if !yieldPDB(filepath.Join(entry, ext, pdbName)) {
				return
			}
			if !yieldPDB(filepath.Join(entry, "symbols", ext, pdbName)) {
				return
			}
		}
	}
}

// siblingBundles lists the *.dSYM bundles in dir, excluding the primary
// bundle already probed. os.ReadDir sorts entries, keeping the scan order
// deterministic.
func siblingBundles(dir, exclude string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), dsymBundleSuffix) {
			continue
		}
		bundle := filepath.Join(dir, e.Name())
		if bundle == exclude {
			continue
		}
		out = append(out, bundle)
	}
	return out
}

// soleDWARFFile returns the single file in a bundle's DWARF directory.
// A bundle holding several DWARF files was produced for a different
// layout than a one-binary build and is skipped rather than guessed at.
func soleDWARFFile(bundle string) (string, bool) {
	dwarfDir := filepath.Join(bundle, dsymDWARFSubdir)
	entries, err := os.ReadDir(dwarfDir)
	if err != nil || len(entries) != 1 || entries[0].IsDir() {
		return "", false
	}
	return filepath.Join(dwarfDir, entries[0].Name()), true
}

// absolute resolves path against the working directory; on failure the
// path is used as given.
func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
