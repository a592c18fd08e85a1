package gateways

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
	"github.com/ochairo/dwarflocate/internal/objtest"
)

// TestObjectInspectorDispatch tests that each container format reaches
// its extractor
func TestObjectInspectorDispatch(t *testing.T) {
	o := NewObjectInspector(entities.DefaultConfig(), &interfaces.NoOpLogger{})
	ctx := context.Background()

	t.Run("ELF", func(t *testing.T) {
		format, id, err := o.Inspect(ctx, objtest.ELFWithBuildID([]byte{1, 2, 3, 4}))
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if format != entities.FormatELF || id.Kind != entities.IdentifierBuildID {
			t.Errorf("Inspect() = (%v, %v), want (elf, build-id)", format, id.Kind)
		}
	})

	t.Run("Mach-O", func(t *testing.T) {
		format, id, err := o.Inspect(ctx, objtest.MachO(objtest.CPUArm64, objtest.UUIDLoad(testUUID(1))))
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if format != entities.FormatMachO || id.Kind != entities.IdentifierUUID {
			t.Errorf("Inspect() = (%v, %v), want (macho, uuid)", format, id.Kind)
		}
	})

	t.Run("PE", func(t *testing.T) {
		format, id, err := o.Inspect(ctx, objtest.PE(testUUID(2), 1, "app.pdb"))
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if format != entities.FormatPE || id.Kind != entities.IdentifierCodeView {
			t.Errorf("Inspect() = (%v, %v), want (pe, codeview)", format, id.Kind)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, _, err := o.Inspect(ctx, []byte("plain text, not an object"))
		if !errors.Is(err, entities.ErrUnsupportedFormat) {
			t.Errorf("Inspect() error = %v, want ErrUnsupportedFormat", err)
		}
	})
}

// TestObjectInspectorArchSelection tests that the configured architecture
// picks the fat slice
func TestObjectInspectorArchSelection(t *testing.T) {
	arm64UUID := testUUID(0x44)
	fat := objtest.FatMachO(
		objtest.FatSlice{CPU: objtest.CPUAmd64, Image: objtest.MachO(objtest.CPUAmd64, objtest.UUIDLoad(testUUID(0x33)))},
		objtest.FatSlice{CPU: objtest.CPUArm64, Image: objtest.MachO(objtest.CPUArm64, objtest.UUIDLoad(arm64UUID))},
	)

	cfg := entities.DefaultConfig()
	cfg.Architecture = "arm64"
	o := NewObjectInspector(cfg, &interfaces.NoOpLogger{})

	_, id, err := o.Inspect(context.Background(), fat)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if id.UUID != arm64UUID {
		t.Errorf("Inspect() uuid = %x, want arm64 slice %x", id.UUID, arm64UUID)
	}
}

// TestInspectFile tests the file-reading entry point
func TestInspectFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "app")
	if err := os.WriteFile(path, objtest.ELFPlain(), 0600); err != nil {
		t.Fatal(err)
	}

	o := NewObjectInspector(entities.DefaultConfig(), &interfaces.NoOpLogger{})
	format, id, err := o.InspectFile(context.Background(), path)
	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}
	if format != entities.FormatELF || !id.IsNone() {
		t.Errorf("InspectFile() = (%v, %v), want (elf, none)", format, id.Kind)
	}

	if _, _, err := o.InspectFile(context.Background(), filepath.Join(tmpDir, "missing")); err == nil {
		t.Error("InspectFile() on missing file should return error")
	}
}
