// Package entities defines the core domain model for debug-info resolution.
package entities

// ObjectFormat identifies the container format of an object file.
// It is determined from magic bytes only and never changes once detected.
type ObjectFormat int

// Supported object container formats
const (
	FormatUnknown ObjectFormat = iota
	FormatELF
	FormatMachO
	FormatPE
)

// String returns a human-readable name for the format
func (f ObjectFormat) String() string {
	switch f {
	case FormatELF:
		return "ELF"
	case FormatMachO:
		return "Mach-O"
	case FormatPE:
		return "PE"
	default:
		return "unknown"
	}
}
