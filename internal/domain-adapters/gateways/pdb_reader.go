package gateways

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
)

// MSF 7.0 superblock layout
const (
	msfBlockSizeOffset   = 32
	msfNumDirBytesOffset = 44
	msfBlockMapOffset    = 52
	msfSuperblockSize    = 56

	pdbInfoStream     = 1
	pdbInfoStreamSize = 28 // version + signature + age + GUID
	pdbNilStreamSize  = 0xffffffff
)

var msfMagic = []byte("Microsoft C/C++ MSF 7.00\r\n\x1aDS\x00\x00\x00")

// pdbReader reads just enough of the multi-stream (MSF 7.0) container to
// reach the PDB info stream: block size and stream directory from the
// superblock, then GUID and age from stream 1. Nothing else of the PDB
// is touched.
type pdbReader struct{}

// NewPDBReader creates a new PDB identity reader
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewPDBReader() *pdbReader {
	return &pdbReader{}
}

// ReadIdentity returns the GUID (packed little-endian, as stored) and
// age from the PDB info stream.
func (r *pdbReader) ReadIdentity(data []byte) ([16]byte, uint32, error) {
	var guid [16]byte

	if len(data) < msfSuperblockSize || !bytes.Equal(data[:len(msfMagic)], msfMagic) {
		return guid, 0, fmt.Errorf("%w: not an MSF 7.0 container", entities.ErrMalformedObject)
	}

	blockSize := binary.LittleEndian.Uint32(data[msfBlockSizeOffset:])
	switch blockSize {
	case 512, 1024, 2048, 4096, 8192:
	default:
		return guid, 0, fmt.Errorf("%w: invalid MSF block size %d", entities.ErrMalformedObject, blockSize)
	}

	numDirBytes := binary.LittleEndian.Uint32(data[msfNumDirBytesOffset:])
	blockMapAddr := binary.LittleEndian.Uint32(data[msfBlockMapOffset:])

	dir, err := readDirectory(data, blockSize, numDirBytes, blockMapAddr)
	if err != nil {
		return guid, 0, err
	}

	info, err := readStream(data, dir, blockSize, pdbInfoStream)
	if err != nil {
		return guid, 0, err
	}
	if len(info) < pdbInfoStreamSize {
		return guid, 0, fmt.Errorf("%w: PDB info stream truncated (%d bytes)", entities.ErrMalformedObject, len(info))
	}

	age := binary.LittleEndian.Uint32(info[8:])
	copy(guid[:], info[12:28])
	return guid, age, nil
}

// readDirectory assembles the stream directory from the blocks listed in
// the block map.
func readDirectory(data []byte, blockSize, numDirBytes, blockMapAddr uint32) ([]byte, error) {
	mapOff := uint64(blockMapAddr) * uint64(blockSize)
	numDirBlocks := ceilDiv(numDirBytes, blockSize)
	if mapOff+uint64(numDirBlocks)*4 > uint64(len(data)) {
		return nil, fmt.Errorf("%w: MSF block map out of bounds", entities.ErrMalformedObject)
	}

	dir := make([]byte, 0, numDirBytes)
	for i := uint32(0); i < numDirBlocks; i++ {
		block := binary.LittleEndian.Uint32(data[mapOff+uint64(i)*4:])
		chunk, err := readBlock(data, blockSize, block)
		if err != nil {
			return nil, err
		}
		dir = append(dir, chunk...)
	}
	return dir[:numDirBytes], nil
}

// readStream reassembles stream idx from the directory: stream count,
// per-stream sizes, then per-stream block lists in order.
func readStream(data, dir []byte, blockSize uint32, idx int) ([]byte, error) {
	if len(dir) < 4 {
		return nil, fmt.Errorf("%w: MSF directory truncated", entities.ErrMalformedObject)
	}
	numStreams := int(binary.LittleEndian.Uint32(dir))
	if idx >= numStreams {
		return nil, fmt.Errorf("%w: MSF has no stream %d", entities.ErrMalformedObject, idx)
	}
	if 4+numStreams*4 > len(dir) {
		return nil, fmt.Errorf("%w: MSF stream size table truncated", entities.ErrMalformedObject)
	}

	sizes := make([]uint32, numStreams)
	for i := range sizes {
		sizes[i] = binary.LittleEndian.Uint32(dir[4+i*4:])
	}
	if sizes[idx] == pdbNilStreamSize {
		return nil, fmt.Errorf("%w: MSF stream %d is nil", entities.ErrMalformedObject, idx)
	}

	// Skip the block lists of the preceding streams.
	off := 4 + numStreams*4
	for i := 0; i < idx; i++ {
		if sizes[i] != pdbNilStreamSize {
			off += int(ceilDiv(sizes[i], blockSize)) * 4
		}
	}

	want := sizes[idx]
	numBlocks := int(ceilDiv(want, blockSize))
	if off+numBlocks*4 > len(dir) {
		return nil, fmt.Errorf("%w: MSF stream %d block list truncated", entities.ErrMalformedObject, idx)
	}

	out := make([]byte, 0, want)
	for i := 0; i < numBlocks; i++ {
		block := binary.LittleEndian.Uint32(dir[off+i*4:])
		chunk, err := readBlock(data, blockSize, block)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out[:want], nil
}

func readBlock(data []byte, blockSize, block uint32) ([]byte, error) {
	start := uint64(block) * uint64(blockSize)
	end := start + uint64(blockSize)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: MSF block %d out of bounds", entities.ErrMalformedObject, block)
	}
	return data[start:end], nil
}

func ceilDiv(n, d uint32) uint32 {
	return (n + d - 1) / d
}
