package gateways

import (
	"errors"
	"testing"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
	"github.com/ochairo/dwarflocate/internal/objtest"
)

// TestPEExtractCodeView tests RSDS record extraction from the debug
// directory
func TestPEExtractCodeView(t *testing.T) {
	guid := testUUID(0x80)
	const age = uint32(3)
	const pdbPath = `C:\build\app.pdb`

	e := NewPEExtractor(&interfaces.NoOpLogger{})
	id, err := e.Extract(objtest.PE(guid, age, pdbPath))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if id.Kind != entities.IdentifierCodeView {
		t.Fatalf("Extract() kind = %v, want codeview", id.Kind)
	}
	if id.GUID != guid {
		t.Errorf("Extract() guid = %x, want %x", id.GUID, guid)
	}
	if id.Age != age {
		t.Errorf("Extract() age = %d, want %d", id.Age, age)
	}
	if id.PDBPath != pdbPath {
		t.Errorf("Extract() pdb path = %q, want %q", id.PDBPath, pdbPath)
	}
}

// TestPEExtractNoDebugDirectory tests that an image without a debug
// directory yields None, not an error
func TestPEExtractNoDebugDirectory(t *testing.T) {
	e := NewPEExtractor(&interfaces.NoOpLogger{})
	id, err := e.Extract(objtest.PEPlain())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !id.IsNone() {
		t.Errorf("Extract() = %v, want none", id)
	}
}

// TestPEExtractMalformed tests error typing on corrupt images
func TestPEExtractMalformed(t *testing.T) {
	e := NewPEExtractor(&interfaces.NoOpLogger{})

	t.Run("truncated image", func(t *testing.T) {
		data := objtest.PE(testUUID(1), 1, "a.pdb")[:100]
		if _, err := e.Extract(data); !errors.Is(err, entities.ErrMalformedObject) {
			t.Errorf("Extract() error = %v, want ErrMalformedObject", err)
		}
	})

	t.Run("codeview record cut off", func(t *testing.T) {
		full := objtest.PE(testUUID(1), 1, "a.pdb")
		// Keep headers and the debug directory entry, drop the RSDS payload
		data := full[:0x200+28]
		if _, err := e.Extract(data); !errors.Is(err, entities.ErrMalformedObject) {
			t.Errorf("Extract() error = %v, want ErrMalformedObject", err)
		}
	})
}
