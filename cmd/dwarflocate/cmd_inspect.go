package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	adapters "github.com/ochairo/dwarflocate/internal/domain-adapters/gateways"
	"github.com/ochairo/dwarflocate/internal/domain/entities"
)

func runInspect(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "YAML configuration file")
		arch       = fs.String("arch", "", "Fat Mach-O slice to use (amd64, arm64, ...)")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: dwarflocate inspect <binary> [options]

Show a binary's container format and the debug identifier embedded in
it, without searching for a debug file.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: binary path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	binaryPath := fs.Arg(0)

	logger := newLogger(*verbose)
	cfg, err := buildConfig(*configPath, "", "", *arch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	inspector := adapters.NewObjectInspector(cfg, logger)
	format, id, err := inspector.InspectFile(ctx, binaryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("format:     %s\n", format)
	fmt.Printf("identifier: %s\n", id.Kind)
	if !id.IsNone() {
		fmt.Printf("value:      %s\n", id)
	}
	if id.Kind == entities.IdentifierCodeView && id.PDBPath != "" {
		fmt.Printf("pdb path:   %s\n", id.PDBPath)
	}
}
