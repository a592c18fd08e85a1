// Package objtest builds minimal but structurally valid object files
// (ELF, Mach-O, PE, PDB) in memory for tests. The images carry only what
// identifier extraction needs: headers, the identifying sections or load
// commands, and enough bookkeeping to satisfy the stdlib parsers.
package objtest

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
)

// Mach-O CPU types usable in thin headers and fat arch tables
const (
	CPUAmd64 uint32 = 0x01000007
	CPUArm64 uint32 = 0x0100000c
)

// ---------------------------------------------------------------------------
// ELF

type elfSection struct {
	name string
	typ  uint32
	data []byte
}

// ELFWithBuildID returns a 64-bit little-endian ELF whose
// .note.gnu.build-id section carries id.
func ELFWithBuildID(id []byte) []byte {
	return buildELF([]elfSection{
		{name: ".note.gnu.build-id", typ: 7, data: BuildIDNote(id)},
	})
}

// ELFWithDebugLink returns an ELF carrying only a .gnu_debuglink section
func ELFWithDebugLink(name string, crc uint32) []byte {
	return buildELF([]elfSection{
		{name: ".gnu_debuglink", typ: 1, data: DebugLinkSection(name, crc)},
	})
}

// ELFWithBuildIDAndDebugLink returns an ELF carrying both identifying
// sections, for precedence tests.
func ELFWithBuildIDAndDebugLink(id []byte, name string, crc uint32) []byte {
	return buildELF([]elfSection{
		{name: ".note.gnu.build-id", typ: 7, data: BuildIDNote(id)},
		{name: ".gnu_debuglink", typ: 1, data: DebugLinkSection(name, crc)},
	})
}

// ELFPlain returns a valid ELF with no identifying section
func ELFPlain() []byte {
	return buildELF(nil)
}

// ELFWithRawSection returns an ELF carrying an arbitrary section body,
// for malformed-input tests.
func ELFWithRawSection(name string, data []byte) []byte {
	return buildELF([]elfSection{{name: name, typ: 1, data: data}})
}

// ELFWithNoteSegment returns a sectionless ELF whose build-id note is
// reachable only through a PT_NOTE program header, the shape of a fully
// stripped binary or a core file.
func ELFWithNoteSegment(id []byte) []byte {
	note := BuildIDNote(id)

	var buf bytes.Buffer
	writeELFHeader(&buf, elfHeaderParams{phoff: 64, phnum: 1})

	// program header at 64, note contents right after it
	noteOff := uint64(64 + 56)
	le := binary.LittleEndian
	w := func(v any) { _ = binary.Write(&buf, le, v) }
	w(uint32(4)) // p_type PT_NOTE
	w(uint32(4)) // p_flags
	w(noteOff)   // p_offset
	w(uint64(0)) // p_vaddr
	w(uint64(0)) // p_paddr
	w(uint64(len(note)))
	w(uint64(len(note)))
	w(uint64(4)) // p_align
	buf.Write(note)
	return buf.Bytes()
}

// BuildIDNote encodes an NT_GNU_BUILD_ID note entry
func BuildIDNote(id []byte) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint32(4)) // namesz: "GNU\0"
	_ = binary.Write(&buf, le, uint32(len(id)))
	_ = binary.Write(&buf, le, uint32(3)) // NT_GNU_BUILD_ID
	buf.WriteString("GNU\x00")
	buf.Write(id)
	pad4(&buf)
	return buf.Bytes()
}

// DebugLinkSection encodes a .gnu_debuglink body: NUL-terminated name,
// 4-byte alignment, little-endian CRC32.
func DebugLinkSection(name string, crc uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString(name)
	buf.WriteByte(0)
	pad4(&buf)
	_ = binary.Write(&buf, binary.LittleEndian, crc)
	return buf.Bytes()
}

type elfHeaderParams struct {
	phoff    uint64
	phnum    uint16
	shoff    uint64
	shnum    uint16
	shstrndx uint16
}

func writeELFHeader(buf *bytes.Buffer, p elfHeaderParams) {
	ident := make([]byte, 16)
	copy(ident, "\x7fELF")
	ident[4] = 2 // ELFCLASS64
	ident[5] = 1 // ELFDATA2LSB
	ident[6] = 1 // EV_CURRENT
	buf.Write(ident)

	le := binary.LittleEndian
	w := func(v any) { _ = binary.Write(buf, le, v) }
	w(uint16(2))    // e_type ET_EXEC
	w(uint16(0x3e)) // e_machine EM_X86_64
	w(uint32(1))    // e_version
	w(uint64(0))    // e_entry
	w(p.phoff)
	w(p.shoff)
	w(uint32(0))  // e_flags
	w(uint16(64)) // e_ehsize
	w(uint16(56)) // e_phentsize
	w(p.phnum)
	w(uint16(64)) // e_shentsize
	w(p.shnum)
	w(p.shstrndx)
}

func buildELF(sections []elfSection) []byte {
	// String table: NUL, section names, ".shstrtab"
	var shstrtab bytes.Buffer
	shstrtab.WriteByte(0)
	nameOff := make([]uint32, len(sections))
	for i, s := range sections {
		nameOff[i] = uint32(shstrtab.Len())
		shstrtab.WriteString(s.name)
		shstrtab.WriteByte(0)
	}
	strtabNameOff := uint32(shstrtab.Len())
	shstrtab.WriteString(".shstrtab\x00")

	type rawSection struct {
		nameOff uint32
		typ     uint32
		off     uint64
		size    uint64
	}

	var content bytes.Buffer
	off := uint64(64)
	raws := make([]rawSection, 0, len(sections)+2)
	raws = append(raws, rawSection{}) // index 0: SHT_NULL
	for i, s := range sections {
		raws = append(raws, rawSection{nameOff: nameOff[i], typ: s.typ, off: off, size: uint64(len(s.data))})
		content.Write(s.data)
		off += uint64(len(s.data))
		for off%4 != 0 {
			content.WriteByte(0)
			off++
		}
	}
	raws = append(raws, rawSection{nameOff: strtabNameOff, typ: 3, off: off, size: uint64(shstrtab.Len())})
	content.Write(shstrtab.Bytes())
	off += uint64(shstrtab.Len())
	for off%8 != 0 {
		content.WriteByte(0)
		off++
	}

	var buf bytes.Buffer
	writeELFHeader(&buf, elfHeaderParams{
		shoff:    off,
		shnum:    uint16(len(raws)),
		shstrndx: uint16(len(raws) - 1),
	})
	buf.Write(content.Bytes())

	le := binary.LittleEndian
	w := func(v any) { _ = binary.Write(&buf, le, v) }
	for _, r := range raws {
		w(r.nameOff)
		w(r.typ)
		w(uint64(0)) // sh_flags
		w(uint64(0)) // sh_addr
		w(r.off)
		w(r.size)
		w(uint32(0)) // sh_link
		w(uint32(0)) // sh_info
		w(uint64(1)) // sh_addralign
		w(uint64(0)) // sh_entsize
	}
	return buf.Bytes()
}

func pad4(buf *bytes.Buffer) {
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
}

// ---------------------------------------------------------------------------
// Mach-O

// MachO returns a thin 64-bit little-endian Mach-O executable with the
// given CPU type and load commands.
func MachO(cpu uint32, loads ...[]byte) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	size := 0
	for _, l := range loads {
		size += len(l)
	}
	w := func(v any) { _ = binary.Write(&buf, le, v) }
	w(uint32(0xfeedfacf)) // MH_MAGIC_64
	w(cpu)
	w(uint32(3)) // cpusubtype
	w(uint32(2)) // MH_EXECUTE
	w(uint32(len(loads)))
	w(uint32(size))
	w(uint32(0)) // flags
	w(uint32(0)) // reserved
	for _, l := range loads {
		buf.Write(l)
	}
	return buf.Bytes()
}

// UUIDLoad encodes an LC_UUID load command
func UUIDLoad(u [16]byte) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint32(0x1b)) // LC_UUID
	_ = binary.Write(&buf, le, uint32(24))
	buf.Write(u[:])
	return buf.Bytes()
}

// PaddingLoad encodes a load command the stdlib parser keeps as raw
// bytes, for testing that LC_UUID is found past unrelated commands.
func PaddingLoad() []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint32(0x32)) // LC_BUILD_VERSION
	_ = binary.Write(&buf, le, uint32(16))
	buf.Write(make([]byte, 8))
	return buf.Bytes()
}

// FatSlice is one member of a fat Mach-O container
type FatSlice struct {
	CPU   uint32
	Image []byte
}

// FatMachO packs images into a 32-bit fat container
func FatMachO(slices ...FatSlice) []byte {
	var buf bytes.Buffer
	be := binary.BigEndian
	w := func(v any) { _ = binary.Write(&buf, be, v) }
	w(uint32(0xcafebabe))
	w(uint32(len(slices)))

	off := 8 + 20*len(slices)
	for _, s := range slices {
		w(s.CPU)
		w(uint32(3)) // cpusubtype
		w(uint32(off))
		w(uint32(len(s.Image)))
		w(uint32(0)) // align
		off += len(s.Image)
	}
	for _, s := range slices {
		buf.Write(s.Image)
	}
	return buf.Bytes()
}

// FatMachO64 packs images into a 64-bit fat container
func FatMachO64(slices ...FatSlice) []byte {
	var buf bytes.Buffer
	be := binary.BigEndian
	w := func(v any) { _ = binary.Write(&buf, be, v) }
	w(uint32(0xcafebabf))
	w(uint32(len(slices)))

	off := 8 + 32*len(slices)
	for _, s := range slices {
		w(s.CPU)
		w(uint32(3)) // cpusubtype
		w(uint64(off))
		w(uint64(len(s.Image)))
		w(uint32(0)) // align
		w(uint32(0)) // reserved
		off += len(s.Image)
	}
	for _, s := range slices {
		buf.Write(s.Image)
	}
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// PE

// PE returns a minimal PE32+ image whose debug directory carries an RSDS
// CodeView record with the given GUID, age and embedded PDB path.
func PE(guid [16]byte, age uint32, pdbPath string) []byte {
	// RSDS payload follows the single debug directory entry in .rdata
	var payload bytes.Buffer
	payload.WriteString("RSDS")
	payload.Write(guid[:])
	_ = binary.Write(&payload, binary.LittleEndian, age)
	payload.WriteString(pdbPath)
	payload.WriteByte(0)

	const (
		rdataRVA  = 0x1000
		rdataOff  = 0x200
		entrySize = 28
	)
	var rdata bytes.Buffer
	le := binary.LittleEndian
	w := func(v any) { _ = binary.Write(&rdata, le, v) }
	w(uint32(0)) // Characteristics
	w(uint32(0)) // TimeDateStamp
	w(uint16(0)) // MajorVersion
	w(uint16(0)) // MinorVersion
	w(uint32(2)) // IMAGE_DEBUG_TYPE_CODEVIEW
	w(uint32(payload.Len()))
	w(uint32(rdataRVA + entrySize)) // AddressOfRawData
	w(uint32(rdataOff + entrySize)) // PointerToRawData
	rdata.Write(payload.Bytes())

	return buildPE(rdata.Bytes(), pe.DataDirectory{VirtualAddress: rdataRVA, Size: entrySize})
}

// PEPlain returns a valid PE32+ image with an empty debug directory
func PEPlain() []byte {
	return buildPE([]byte{0}, pe.DataDirectory{})
}

func buildPE(rdata []byte, debugDir pe.DataDirectory) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian

	// DOS header: "MZ", e_lfanew = 0x40
	dos := make([]byte, 0x40)
	dos[0], dos[1] = 'M', 'Z'
	le.PutUint32(dos[0x3c:], 0x40)
	buf.Write(dos)

	buf.WriteString("PE\x00\x00")
	_ = binary.Write(&buf, le, pe.FileHeader{
		Machine:              0x8664, // IMAGE_FILE_MACHINE_AMD64
		NumberOfSections:     1,
		SizeOfOptionalHeader: 240,
		Characteristics:      0x0022,
	})

	opt := pe.OptionalHeader64{
		Magic:               0x20b,
		SectionAlignment:    0x1000,
		FileAlignment:       0x200,
		SizeOfImage:         0x2000,
		SizeOfHeaders:       0x200,
		NumberOfRvaAndSizes: 16,
	}
	opt.DataDirectory[6] = debugDir
	_ = binary.Write(&buf, le, opt)

	var name [8]uint8
	copy(name[:], ".rdata")
	_ = binary.Write(&buf, le, pe.SectionHeader32{
		Name:             name,
		VirtualSize:      uint32(len(rdata)),
		VirtualAddress:   0x1000,
		SizeOfRawData:    0x200,
		PointerToRawData: 0x200,
		Characteristics:  0x40000040,
	})

	// pad headers out to the raw data offset, then the section contents
	for buf.Len() < 0x200 {
		buf.WriteByte(0)
	}
	buf.Write(rdata)
	for buf.Len() < 0x400 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// PDB

// MSFPDB returns a minimal MSF 7.0 container whose PDB info stream
// carries the given GUID and age.
func MSFPDB(guid [16]byte, age uint32) []byte {
	const blockSize = 512
	data := make([]byte, 6*blockSize)
	le := binary.LittleEndian

	// block 0: superblock
	copy(data, "Microsoft C/C++ MSF 7.00\r\n\x1aDS\x00\x00\x00")
	le.PutUint32(data[32:], blockSize)
	le.PutUint32(data[36:], 1) // free block map
	le.PutUint32(data[40:], 6) // block count
	le.PutUint32(data[44:], 16)
	le.PutUint32(data[52:], 5) // block map lives in block 5

	// block 3: PDB info stream
	info := data[3*blockSize:]
	le.PutUint32(info, 20000404) // VC70
	le.PutUint32(info[4:], 0)    // signature
	le.PutUint32(info[8:], age)
	copy(info[12:], guid[:])

	// block 4: stream directory (2 streams, info stream in block 3)
	dir := data[4*blockSize:]
	le.PutUint32(dir, 2)
	le.PutUint32(dir[4:], 0)  // stream 0 size
	le.PutUint32(dir[8:], 28) // stream 1 size
	le.PutUint32(dir[12:], 3) // stream 1 block list

	// block 5: block map pointing at the directory
	le.PutUint32(data[5*blockSize:], 4)

	return data
}
