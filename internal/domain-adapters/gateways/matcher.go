package gateways

import (
	"context"
	"hash/crc32"
	"iter"
	"os"
	"path/filepath"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
	domaingateways "github.com/ochairo/dwarflocate/internal/domain/interfaces/gateways"
)

// candidateMatcher opens candidate files and checks their embedded
// identifier against the one extracted from the binary. Any per-candidate
// failure (missing file, unreadable, wrong format, parse error) is a
// non-match; the search simply moves on.
type candidateMatcher struct {
	detector *formatDetector
	elf      *elfExtractor
	macho    *machoExtractor
	pdb      *pdbReader
	logger   interfaces.Logger
}

// NewCandidateMatcher creates a new candidate matcher
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewCandidateMatcher(logger interfaces.Logger) *candidateMatcher {
	return &candidateMatcher{
		detector: NewFormatDetector(),
		elf:      NewELFExtractor(logger),
		macho:    NewMachOExtractor(logger),
		pdb:      NewPDBReader(),
		logger:   logger,
	}
}

var _ domaingateways.CandidateMatcher = (*candidateMatcher)(nil)

// Match probes candidates in order and returns the first whose embedded
// identifier matches, along with how many candidates were opened.
func (m *candidateMatcher) Match(_ context.Context, id entities.DebugIdentifier, candidates iter.Seq[entities.Candidate]) (string, int, bool) {
	probed := 0
	for c := range candidates {
		probed++
		if m.matches(id, c) {
			m.logger.Debug("candidate matched",
				interfaces.F("path", c.Path), interfaces.F("probed", probed))
			return c.Path, probed, true
		}
	}
	return "", probed, false
}

func (m *candidateMatcher) matches(id entities.DebugIdentifier, c entities.Candidate) bool {
	data, err := os.ReadFile(c.Path) //nolint:gosec // G304: candidate paths are derived from search conventions by design
	if err != nil {
		return false
	}

	switch id.Kind {
	case entities.IdentifierBuildID:
		return m.matchBuildID(id, c, data)
	case entities.IdentifierDebugLink:
		return matchDebugLink(id, c, data)
	case entities.IdentifierUUID:
		return m.matchUUID(id, c, data)
	case entities.IdentifierCodeView:
		return m.matchCodeView(id, data)
	default:
		return false
	}
}

func (m *candidateMatcher) matchBuildID(id entities.DebugIdentifier, c entities.Candidate, data []byte) bool {
	if !m.formatMatches(c, data) {
		return false
	}
	got, err := m.elf.Extract(data)
	if err != nil {
		return false
	}
	return got.Equal(id)
}

// matchDebugLink checks name and whole-file CRC32. A recorded CRC of zero
// means the producer wrote no checksum, so a name match alone is accepted.
func matchDebugLink(id entities.DebugIdentifier, c entities.Candidate, data []byte) bool {
	if filepath.Base(c.Path) != id.Name {
		return false
	}
	if id.CRC == 0 {
		return true
	}
	return crc32.ChecksumIEEE(data) == id.CRC
}

// matchUUID accepts a candidate carrying the wanted UUID in any of its
// slices: a fat debug companion matches a thin binary.
func (m *candidateMatcher) matchUUID(id entities.DebugIdentifier, c entities.Candidate, data []byte) bool {
	if !m.formatMatches(c, data) {
		return false
	}
	uuids, err := m.macho.UUIDs(data)
	if err != nil {
		return false
	}
	for _, u := range uuids {
		if u == id.UUID {
			return true
		}
	}
	return false
}

func (m *candidateMatcher) matchCodeView(id entities.DebugIdentifier, data []byte) bool {
	guid, age, err := m.pdb.ReadIdentity(data)
	if err != nil {
		return false
	}
	return guid == id.GUID && age == id.Age
}

func (m *candidateMatcher) formatMatches(c entities.Candidate, data []byte) bool {
	format, err := m.detector.DetectFormat(data)
	return err == nil && format == c.Format
}
