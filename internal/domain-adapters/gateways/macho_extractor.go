package gateways

import (
	"bytes"
	"debug/macho"
	"encoding/binary"
	"fmt"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
)

const (
	lcUUID = 0x1b // LC_UUID; debug/macho exports no constant for it

	fatEntrySize   = 20
	fatEntrySize64 = 32
	maxFatSlices   = 64
)

// goArchToCPU maps GOARCH-style architecture names to Mach-O CPU types
// for fat-binary slice selection.
var goArchToCPU = map[string]macho.Cpu{
	"386":   macho.Cpu386,
	"amd64": macho.CpuAmd64,
	"arm":   macho.CpuArm,
	"arm64": macho.CpuArm64,
	"ppc64": macho.CpuPpc64,
}

// machoExtractor pulls LC_UUID identifiers out of thin and fat Mach-O
// images. Fat containers are unpacked manually so both 32- and 64-bit
// fat headers are handled.
type machoExtractor struct {
	logger interfaces.Logger
}

// NewMachOExtractor creates a new Mach-O identifier extractor
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewMachOExtractor(logger interfaces.Logger) *machoExtractor {
	return &machoExtractor{logger: logger}
}

// Extract returns the UUID identifier of the Mach-O image. For fat
// binaries the slice matching arch (GOARCH naming) is preferred; when
// arch is empty or absent from the container, the first slice carrying
// an LC_UUID wins. An image without LC_UUID yields the None identifier.
func (e *machoExtractor) Extract(data []byte, arch string) (entities.DebugIdentifier, error) {
	slices, err := e.slices(data)
	if err != nil {
		return entities.NoIdentifier(), err
	}

	if want, ok := goArchToCPU[arch]; ok {
		for _, s := range slices {
			if s.cpu != want {
				continue
			}
			u, found, err := sliceUUID(s.data)
			if err != nil {
				return entities.NoIdentifier(), err
			}
			if found {
				e.logger.Debug("extracted Mach-O UUID", interfaces.F("arch", arch))
				return entities.NewUUID(u), nil
			}
			return entities.NoIdentifier(), nil
		}
	}

	for _, s := range slices {
		u, found, err := sliceUUID(s.data)
		if err != nil {
			return entities.NoIdentifier(), err
		}
		if found {
			return entities.NewUUID(u), nil
		}
	}
	return entities.NoIdentifier(), nil
}

// UUIDs returns the LC_UUIDs of every slice in the image, in container
// order. Used when matching a candidate dSYM: a fat debug file matches
// if any of its slices carries the wanted UUID.
func (e *machoExtractor) UUIDs(data []byte) ([][16]byte, error) {
	slices, err := e.slices(data)
	if err != nil {
		return nil, err
	}
	var out [][16]byte
	for _, s := range slices {
		u, found, err := sliceUUID(s.data)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, u)
		}
	}
	return out, nil
}

type machoSlice struct {
	cpu  macho.Cpu
	data []byte
}

// slices splits a fat container into its member images, or wraps a thin
// image as a single slice.
func (e *machoExtractor) slices(data []byte) ([]machoSlice, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: Mach-O image too small", entities.ErrMalformedObject)
	}

	magic := binary.BigEndian.Uint32(data[:4])
	is64 := magic == machoFatMagic64
	if magic != machoFatMagic && !is64 {
		cpu, err := thinCPU(data)
		if err != nil {
			return nil, err
		}
		return []machoSlice{{cpu: cpu, data: data}}, nil
	}

	nfat := binary.BigEndian.Uint32(data[4:8])
	if nfat == 0 || nfat > maxFatSlices {
		return nil, fmt.Errorf("%w: implausible fat slice count %d", entities.ErrMalformedObject, nfat)
	}

	entSize := fatEntrySize
	if is64 {
		entSize = fatEntrySize64
	}
	out := make([]machoSlice, 0, nfat)
	for i := 0; i < int(nfat); i++ {
		off := 8 + i*entSize
		if off+entSize > len(data) {
			return nil, fmt.Errorf("%w: truncated fat arch table", entities.ErrMalformedObject)
		}
		cpu := macho.Cpu(binary.BigEndian.Uint32(data[off:]))
		var sliceOff, sliceSize uint64
		if is64 {
			sliceOff = binary.BigEndian.Uint64(data[off+8:])
			sliceSize = binary.BigEndian.Uint64(data[off+16:])
		} else {
			sliceOff = uint64(binary.BigEndian.Uint32(data[off+8:]))
			sliceSize = uint64(binary.BigEndian.Uint32(data[off+12:]))
		}
		end := sliceOff + sliceSize
		if end < sliceOff || end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: fat slice %d exceeds file bounds", entities.ErrMalformedObject, i)
		}
		out = append(out, machoSlice{cpu: cpu, data: data[sliceOff:end]})
	}
	return out, nil
}

// thinCPU reads the cputype field of a thin Mach-O header, honoring the
// byte order the magic implies.
func thinCPU(data []byte) (macho.Cpu, error) {
	magic := binary.BigEndian.Uint32(data[:4])
	switch magic {
	case machoMagic32, machoMagic64:
		return macho.Cpu(binary.BigEndian.Uint32(data[4:8])), nil
	case machoCigam32, machoCigam64:
		return macho.Cpu(binary.LittleEndian.Uint32(data[4:8])), nil
	}
	return 0, fmt.Errorf("%w: not a Mach-O image", entities.ErrMalformedObject)
}

// sliceUUID parses one thin image and scans its load commands for
// LC_UUID. debug/macho keeps commands it does not model as raw bytes,
// which is exactly what LC_UUID arrives as.
func sliceUUID(data []byte) ([16]byte, bool, error) {
	var u [16]byte
	f, err := macho.NewFile(bytes.NewReader(data))
	if err != nil {
		return u, false, fmt.Errorf("%w: %v", entities.ErrMalformedObject, err)
	}
	defer f.Close()

	for _, l := range f.Loads {
		raw := l.Raw()
		if len(raw) < 8 {
			continue
		}
		if f.ByteOrder.Uint32(raw[0:4]) != lcUUID {
			continue
		}
		if len(raw) < 24 {
			return u, false, fmt.Errorf("%w: LC_UUID command truncated", entities.ErrMalformedObject)
		}
		copy(u[:], raw[8:24])
		return u, true, nil
	}
	return u, false, nil
}
