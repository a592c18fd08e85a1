// Package gateways provides adapter implementations for object-file parsing
// and debug-info candidate resolution.
package gateways

import (
	"encoding/binary"
	"fmt"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
)

// Object container magic numbers
const (
	machoMagic32    = 0xfeedface
	machoMagic64    = 0xfeedfacf
	machoCigam32    = 0xcefaedfe // byte-swapped thin magics
	machoCigam64    = 0xcffaedfe
	machoFatMagic   = 0xcafebabe
	machoFatMagic64 = 0xcafebabf
	machoFatCigam   = 0xbebafeca
	machoFatCigam64 = 0xbfbafeca

	peSignatureOffset = 0x3c
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// formatDetector identifies object container formats by magic-number
// sniffing. Read-only; all offset arithmetic is bounds-checked.
type formatDetector struct{}

// NewFormatDetector creates a new format detector
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewFormatDetector() *formatDetector {
	return &formatDetector{}
}

// DetectFormat identifies the container format of the raw object bytes.
// Unknown magic yields entities.ErrUnsupportedFormat; a recognized magic
// with a truncated or inconsistent header yields entities.ErrMalformedObject.
func (d *formatDetector) DetectFormat(data []byte) (entities.ObjectFormat, error) {
	if len(data) >= 2 && data[0] == 'M' && data[1] == 'Z' {
		return d.checkPE(data)
	}
	if len(data) < 4 {
		return entities.FormatUnknown, fmt.Errorf("%w: file too small (%d bytes)", entities.ErrUnsupportedFormat, len(data))
	}

	if data[0] == elfMagic[0] && data[1] == elfMagic[1] && data[2] == elfMagic[2] && data[3] == elfMagic[3] {
		return d.checkELF(data)
	}

	switch binary.BigEndian.Uint32(data[:4]) {
	case machoMagic32, machoMagic64, machoCigam32, machoCigam64,
		machoFatMagic, machoFatMagic64, machoFatCigam, machoFatCigam64:
		return entities.FormatMachO, nil
	}

	return entities.FormatUnknown, fmt.Errorf("%w: no known magic", entities.ErrUnsupportedFormat)
}

// checkELF validates the ELF identification bytes beyond the magic:
// class and data encoding determine the 32/64-bit header layout and byte
// order and must be well-formed for any later parsing to be meaningful.
func (d *formatDetector) checkELF(data []byte) (entities.ObjectFormat, error) {
	const elfIdentSize = 16
	if len(data) < elfIdentSize {
		return entities.FormatUnknown, fmt.Errorf("%w: truncated ELF identification", entities.ErrMalformedObject)
	}
	if class := data[4]; class != 1 && class != 2 {
		return entities.FormatUnknown, fmt.Errorf("%w: invalid ELF class %d", entities.ErrMalformedObject, class)
	}
	if encoding := data[5]; encoding != 1 && encoding != 2 {
		return entities.FormatUnknown, fmt.Errorf("%w: invalid ELF data encoding %d", entities.ErrMalformedObject, encoding)
	}
	return entities.FormatELF, nil
}

// checkPE validates the DOS stub and the "PE\0\0" signature at e_lfanew
func (d *formatDetector) checkPE(data []byte) (entities.ObjectFormat, error) {
	if len(data) < peSignatureOffset+4 {
		return entities.FormatUnknown, fmt.Errorf("%w: truncated DOS header", entities.ErrMalformedObject)
	}
	peOff := int64(binary.LittleEndian.Uint32(data[peSignatureOffset:]))
	if peOff < 0 || peOff+4 > int64(len(data)) {
		return entities.FormatUnknown, fmt.Errorf("%w: PE header offset 0x%x out of range", entities.ErrMalformedObject, peOff)
	}
	if data[peOff] != 'P' || data[peOff+1] != 'E' || data[peOff+2] != 0 || data[peOff+3] != 0 {
		return entities.FormatUnknown, fmt.Errorf("%w: missing PE signature at 0x%x", entities.ErrMalformedObject, peOff)
	}
	return entities.FormatPE, nil
}
