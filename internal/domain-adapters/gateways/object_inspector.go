package gateways

import (
	"context"
	"fmt"
	"os"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
	domaingateways "github.com/ochairo/dwarflocate/internal/domain/interfaces/gateways"
)

// objectInspector combines the format detector with the per-format
// identifier extractors behind the ObjectInspector contract.
type objectInspector struct {
	config   entities.Config
	detector *formatDetector
	elf      *elfExtractor
	macho    *machoExtractor
	pe       *peExtractor
	logger   interfaces.Logger
}

// NewObjectInspector creates a new object inspector
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewObjectInspector(config entities.Config, logger interfaces.Logger) *objectInspector {
	return &objectInspector{
		config:   config,
		detector: NewFormatDetector(),
		elf:      NewELFExtractor(logger),
		macho:    NewMachOExtractor(logger),
		pe:       NewPEExtractor(logger),
		logger:   logger,
	}
}

var _ domaingateways.ObjectInspector = (*objectInspector)(nil)

// Inspect identifies the container format and extracts the debug identifier
func (o *objectInspector) Inspect(_ context.Context, data []byte) (entities.ObjectFormat, entities.DebugIdentifier, error) {
	format, err := o.detector.DetectFormat(data)
	if err != nil {
		return entities.FormatUnknown, entities.NoIdentifier(), err
	}

	var id entities.DebugIdentifier
	switch format {
	case entities.FormatELF:
		id, err = o.elf.Extract(data)
	case entities.FormatMachO:
		id, err = o.macho.Extract(data, o.config.Architecture)
	case entities.FormatPE:
		id, err = o.pe.Extract(data)
	default:
		return entities.FormatUnknown, entities.NoIdentifier(), entities.ErrUnsupportedFormat
	}
	if err != nil {
		return format, entities.NoIdentifier(), err
	}
	return format, id, nil
}

// InspectFile reads and inspects the object file at path
func (o *objectInspector) InspectFile(ctx context.Context, path string) (entities.ObjectFormat, entities.DebugIdentifier, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the caller by design
	if err != nil {
		return entities.FormatUnknown, entities.NoIdentifier(), fmt.Errorf("failed to read object file: %w", err)
	}
	return o.Inspect(ctx, data)
}
