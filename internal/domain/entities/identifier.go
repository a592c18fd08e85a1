package entities

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// IdentifierKind distinguishes the variants of a debug identifier
type IdentifierKind int

// Debug identifier variants. The variant must agree with the object format
// it was extracted from: ELF carries BuildID or DebugLink, Mach-O carries
// UUID, PE carries CodeView. None means the object parsed cleanly but
// declares no separate debug info.
const (
	IdentifierNone IdentifierKind = iota
	IdentifierBuildID
	IdentifierDebugLink
	IdentifierUUID
	IdentifierCodeView
)

// String returns a human-readable name for the identifier kind
func (k IdentifierKind) String() string {
	switch k {
	case IdentifierBuildID:
		return "build-id"
	case IdentifierDebugLink:
		return "debug-link"
	case IdentifierUUID:
		return "uuid"
	case IdentifierCodeView:
		return "codeview"
	default:
		return "none"
	}
}

// DebugIdentifier is the format-specific identity of a binary's separate
// debug info. Exactly the fields belonging to Kind are populated.
type DebugIdentifier struct {
	Kind IdentifierKind

	// BuildID holds the raw .note.gnu.build-id descriptor bytes.
	// The length is whatever the note declares, typically 20.
	BuildID []byte

	// Name and CRC hold a GNU debug-link: the companion file's name and the
	// CRC32/IEEE checksum of its contents. A CRC of zero means the link
	// section recorded no usable checksum.
	Name string
	CRC  uint32

	// UUID holds the 16-byte LC_UUID payload of a Mach-O file
	UUID [16]byte

	// GUID, Age and PDBPath come from a PE CodeView (RSDS) debug record.
	// GUID is kept in the packed little-endian layout it is stored in;
	// PDBPath is the PDB location embedded at link time and is used for
	// candidate generation only, never for equality.
	GUID    [16]byte
	Age     uint32
	PDBPath string
}

// NoIdentifier returns the None identifier
func NoIdentifier() DebugIdentifier {
	return DebugIdentifier{Kind: IdentifierNone}
}

// NewBuildID creates a build-id identifier from raw note descriptor bytes
func NewBuildID(id []byte) DebugIdentifier {
	return DebugIdentifier{Kind: IdentifierBuildID, BuildID: id}
}

// NewDebugLink creates a GNU debug-link identifier
func NewDebugLink(name string, crc uint32) DebugIdentifier {
	return DebugIdentifier{Kind: IdentifierDebugLink, Name: name, CRC: crc}
}

// NewUUID creates a Mach-O UUID identifier from the LC_UUID payload
func NewUUID(id [16]byte) DebugIdentifier {
	return DebugIdentifier{Kind: IdentifierUUID, UUID: id}
}

// NewCodeView creates a PE CodeView identifier
func NewCodeView(guid [16]byte, age uint32, pdbPath string) DebugIdentifier {
	return DebugIdentifier{Kind: IdentifierCodeView, GUID: guid, Age: age, PDBPath: pdbPath}
}

// IsNone reports whether the identifier carries no debug identity
func (d DebugIdentifier) IsNone() bool {
	return d.Kind == IdentifierNone
}

// Equal reports whether two identifiers denote the same debug info.
// Identifiers of different kinds never match. BuildID and UUID compare
// byte-for-byte; DebugLink requires both name and checksum; CodeView
// requires both GUID and age. None never matches anything, including None.
func (d DebugIdentifier) Equal(other DebugIdentifier) bool {
	if d.Kind != other.Kind {
		return false
	}
	switch d.Kind {
	case IdentifierBuildID:
		return len(d.BuildID) > 0 && bytes.Equal(d.BuildID, other.BuildID)
	case IdentifierUUID:
		return d.UUID == other.UUID
	case IdentifierDebugLink:
		return d.Name == other.Name && d.CRC == other.CRC
	case IdentifierCodeView:
		return d.GUID == other.GUID && d.Age == other.Age
	default:
		return false
	}
}

// String renders the identifier for display
func (d DebugIdentifier) String() string {
	switch d.Kind {
	case IdentifierBuildID:
		return hex.EncodeToString(d.BuildID)
	case IdentifierUUID:
		return uuid.UUID(d.UUID).String()
	case IdentifierDebugLink:
		return fmt.Sprintf("%s (crc32 %08x)", d.Name, d.CRC)
	case IdentifierCodeView:
		return fmt.Sprintf("%s age %d", FormatGUID(d.GUID), d.Age)
	default:
		return "none"
	}
}

// FormatGUID renders a packed little-endian CodeView GUID in the canonical
// Windows display form. The first three GUID fields are stored
// little-endian on disk and must be byte-swapped for display.
func FormatGUID(guid [16]byte) string {
	var display [16]byte
	display[0], display[1], display[2], display[3] = guid[3], guid[2], guid[1], guid[0]
	display[4], display[5] = guid[5], guid[4]
	display[6], display[7] = guid[7], guid[6]
	copy(display[8:], guid[8:])
	return uuid.UUID(display).String()
}
