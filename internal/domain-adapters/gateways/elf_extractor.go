package gateways

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
)

// ELF note constants for the GNU build-id note
const (
	noteTypeGNUBuildID = 3 // NT_GNU_BUILD_ID
	noteNameGNU        = "GNU"

	sectionBuildID   = ".note.gnu.build-id"
	sectionDebugLink = ".gnu_debuglink"
)

// elfExtractor pulls the debug identifier out of ELF objects: the GNU
// build-id note when present, otherwise the .gnu_debuglink name+checksum.
type elfExtractor struct {
	logger interfaces.Logger
}

// NewELFExtractor creates a new ELF identifier extractor
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewELFExtractor(logger interfaces.Logger) *elfExtractor {
	return &elfExtractor{logger: logger}
}

// Extract returns the debug identifier embedded in the ELF bytes.
// Preference order follows the split-debug convention: a build-id note
// identifies the binary itself, the debug-link is only a fallback pointer.
// An ELF with neither yields the None identifier.
func (e *elfExtractor) Extract(data []byte) (entities.DebugIdentifier, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return entities.NoIdentifier(), fmt.Errorf("%w: %v", entities.ErrMalformedObject, err)
	}

	id, found, err := e.buildID(f)
	if err != nil {
		return entities.NoIdentifier(), err
	}
	if found {
		e.logger.Debug("extracted ELF build-id", interfaces.F("build_id", fmt.Sprintf("%x", id)))
		return entities.NewBuildID(id), nil
	}

	name, crc, found, err := e.debugLink(f)
	if err != nil {
		return entities.NoIdentifier(), err
	}
	if found {
		e.logger.Debug("extracted ELF debug-link",
			interfaces.F("name", name), interfaces.F("crc", fmt.Sprintf("%08x", crc)))
		return entities.NewDebugLink(name, crc), nil
	}

	return entities.NoIdentifier(), nil
}

// buildID locates the NT_GNU_BUILD_ID note. The .note.gnu.build-id section
// is checked first; stripped or sectionless binaries fall back to scanning
// PT_NOTE program segments.
func (e *elfExtractor) buildID(f *elf.File) ([]byte, bool, error) {
	if s := f.Section(sectionBuildID); s != nil {
		data, err := s.Data()
		if err != nil {
			return nil, false, fmt.Errorf("%w: reading %s: %v", entities.ErrMalformedObject, sectionBuildID, err)
		}
		id, found, err := findNote(data, f.ByteOrder, noteNameGNU, noteTypeGNUBuildID)
		if err != nil {
			return nil, false, err
		}
		if found {
			return id, true, nil
		}
	}

	for _, p := range f.Progs {
		if p.Type != elf.PT_NOTE {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(p.Open(), int64(p.Filesz)))
		if err != nil {
			return nil, false, fmt.Errorf("%w: reading PT_NOTE segment: %v", entities.ErrMalformedObject, err)
		}
		id, found, err := findNote(data, f.ByteOrder, noteNameGNU, noteTypeGNUBuildID)
		if err != nil {
			return nil, false, err
		}
		if found {
			return id, true, nil
		}
	}

	return nil, false, nil
}

// debugLink reads the .gnu_debuglink section: a NUL-terminated filename,
// padded to 4-byte alignment, followed by a little-endian CRC32 of the
// companion debug file.
func (e *elfExtractor) debugLink(f *elf.File) (string, uint32, bool, error) {
	s := f.Section(sectionDebugLink)
	if s == nil {
		return "", 0, false, nil
	}
	data, err := s.Data()
	if err != nil {
		return "", 0, false, fmt.Errorf("%w: reading %s: %v", entities.ErrMalformedObject, sectionDebugLink, err)
	}

	nul := bytes.IndexByte(data, 0)
	if nul <= 0 {
		return "", 0, false, fmt.Errorf("%w: %s has no filename", entities.ErrMalformedObject, sectionDebugLink)
	}
	crcOff := align4(nul + 1)
	if crcOff+4 > len(data) {
		return "", 0, false, fmt.Errorf("%w: %s truncated before checksum", entities.ErrMalformedObject, sectionDebugLink)
	}
	crc := binary.LittleEndian.Uint32(data[crcOff:])
	return string(data[:nul]), crc, true, nil
}

// findNote walks a chain of ELF note entries looking for one with the
// given owner name and type, returning its descriptor bytes verbatim.
// Note name and descriptor are each padded to 4-byte alignment; the
// descriptor length is whatever the header declares, never assumed.
func findNote(data []byte, bo binary.ByteOrder, wantName string, wantType uint32) ([]byte, bool, error) {
	off := 0
	for off+12 <= len(data) {
		namesz := int(bo.Uint32(data[off:]))
		descsz := int(bo.Uint32(data[off+4:]))
		ntype := bo.Uint32(data[off+8:])
		off += 12

		if namesz < 0 || descsz < 0 {
			return nil, false, fmt.Errorf("%w: negative note sizes", entities.ErrMalformedObject)
		}
		nameEnd := off + namesz
		descOff := align4(nameEnd)
		descEnd := descOff + descsz
		if nameEnd > len(data) || descEnd > len(data) || descEnd < descOff {
			return nil, false, fmt.Errorf("%w: note entry exceeds section bounds", entities.ErrMalformedObject)
		}

		name := string(bytes.TrimRight(data[off:nameEnd], "\x00"))
		if name == wantName && ntype == wantType {
			desc := make([]byte, descsz)
			copy(desc, data[descOff:descEnd])
			return desc, true, nil
		}

		off = align4(descEnd)
	}
	return nil, false, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}
