package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func runVerify(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "YAML configuration file")
		arch       = fs.String("arch", "", "Fat Mach-O slice to use (amd64, arm64, ...)")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: dwarflocate verify <binary> <debug-file> [options]

Check that a debug file carries the debug identifier of a binary, using
the same matching rules as locate: build-id bytes, debug-link name and
checksum, Mach-O UUID, or PDB GUID and age.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: binary and debug file paths are required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	binaryPath := fs.Arg(0)
	debugPath := fs.Arg(1)

	logger := newLogger(*verbose)
	cfg, err := buildConfig(*configPath, "", "", *arch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	matched, err := newResolver(cfg, logger).VerifyPair(ctx, binaryPath, debugPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !matched {
		fmt.Printf("❌ %s does not match %s\n", filepath.Base(debugPath), filepath.Base(binaryPath))
		os.Exit(1)
	}
	fmt.Printf("✅ %s matches %s\n", filepath.Base(debugPath), filepath.Base(binaryPath))
}
