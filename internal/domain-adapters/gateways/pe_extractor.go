package gateways

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"fmt"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
)

const (
	debugDirectoryIndex = 6 // IMAGE_DIRECTORY_ENTRY_DEBUG
	debugEntrySize      = 28
	debugTypeCodeView   = 2 // IMAGE_DEBUG_TYPE_CODEVIEW

	codeViewHeaderSize = 24 // "RSDS" + GUID + age
)

var rsdsSignature = []byte("RSDS")

// peExtractor pulls the CodeView PDB reference (GUID, age, embedded PDB
// path) out of a PE image's debug directory.
type peExtractor struct {
	logger interfaces.Logger
}

// NewPEExtractor creates a new PE identifier extractor
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewPEExtractor(logger interfaces.Logger) *peExtractor {
	return &peExtractor{logger: logger}
}

// Extract returns the CodeView identifier of the PE image, or the None
// identifier when the image has no debug directory or no CodeView entry.
// The GUID is kept in its packed little-endian on-disk form so it can be
// compared byte-for-byte with the GUID in a PDB info stream.
func (e *peExtractor) Extract(data []byte) (entities.DebugIdentifier, error) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return entities.NoIdentifier(), fmt.Errorf("%w: %v", entities.ErrMalformedObject, err)
	}
	defer f.Close()

	dd, ok := debugDataDirectory(f)
	if !ok || dd.VirtualAddress == 0 || dd.Size == 0 {
		return entities.NoIdentifier(), nil
	}

	entryOff, ok := fileOffset(f, dd.VirtualAddress)
	if !ok {
		return entities.NoIdentifier(), fmt.Errorf("%w: debug directory RVA 0x%x maps to no section", entities.ErrMalformedObject, dd.VirtualAddress)
	}
	if entryOff+int(dd.Size) > len(data) {
		return entities.NoIdentifier(), fmt.Errorf("%w: debug directory exceeds file bounds", entities.ErrMalformedObject)
	}

	for n := 0; n+debugEntrySize <= int(dd.Size); n += debugEntrySize {
		entry := data[entryOff+n : entryOff+n+debugEntrySize]
		if binary.LittleEndian.Uint32(entry[12:]) != debugTypeCodeView {
			continue
		}
		size := binary.LittleEndian.Uint32(entry[16:])
		ptr := binary.LittleEndian.Uint32(entry[24:]) // PointerToRawData: file offset
		return e.parseCodeView(data, ptr, size)
	}
	return entities.NoIdentifier(), nil
}

// parseCodeView decodes an RSDS record: signature, packed GUID, age, and
// a NUL-terminated PDB path.
func (e *peExtractor) parseCodeView(data []byte, ptr, size uint32) (entities.DebugIdentifier, error) {
	end := uint64(ptr) + uint64(size)
	if size < codeViewHeaderSize || end > uint64(len(data)) {
		return entities.NoIdentifier(), fmt.Errorf("%w: CodeView record out of bounds", entities.ErrMalformedObject)
	}
	rec := data[ptr:end]
	if !bytes.Equal(rec[:4], rsdsSignature) {
		return entities.NoIdentifier(), fmt.Errorf("%w: CodeView record is not RSDS", entities.ErrMalformedObject)
	}

	var guid [16]byte
	copy(guid[:], rec[4:20])
	age := binary.LittleEndian.Uint32(rec[20:24])

	path := rec[codeViewHeaderSize:]
	if nul := bytes.IndexByte(path, 0); nul >= 0 {
		path = path[:nul]
	}

	id := entities.NewCodeView(guid, age, string(path))
	e.logger.Debug("extracted PE CodeView reference",
		interfaces.F("guid", entities.FormatGUID(guid)), interfaces.F("age", age))
	return id, nil
}

// debugDataDirectory returns data directory slot 6 from whichever
// optional header variant the image carries.
func debugDataDirectory(f *pe.File) (pe.DataDirectory, bool) {
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if oh.NumberOfRvaAndSizes > debugDirectoryIndex {
			return oh.DataDirectory[debugDirectoryIndex], true
		}
	case *pe.OptionalHeader64:
		if oh.NumberOfRvaAndSizes > debugDirectoryIndex {
			return oh.DataDirectory[debugDirectoryIndex], true
		}
	}
	return pe.DataDirectory{}, false
}

// fileOffset translates an RVA to a file offset via the section table
func fileOffset(f *pe.File, rva uint32) (int, bool) {
	for _, s := range f.Sections {
		limit := s.VirtualSize
		if limit == 0 {
			limit = s.Size
		}
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+limit {
			return int(s.Offset + (rva - s.VirtualAddress)), true
		}
	}
	return 0, false
}
