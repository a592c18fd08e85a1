package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	orchestrators "github.com/ochairo/dwarflocate/internal/domain-orchestrators"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces/gateways"
	"github.com/ochairo/dwarflocate/internal/external-adapters/gpg"
)

func runLocate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("locate", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "YAML configuration file")
		debugDirs  = fs.String("debug-dir", "", "Comma-separated split-debug cache roots (overrides config)")
		symbolPath = fs.String("symbol-path", "", "Semicolon-separated PDB search directories")
		arch       = fs.String("arch", "", "Fat Mach-O slice to use (amd64, arm64, ...)")
		keyring    = fs.String("keyring", "", "PGP keyring for verifying detached debug-file signatures")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: dwarflocate locate <binary> [options]

Find the separate debug info file for a binary by its embedded debug
identifier: GNU build-id or debug-link for ELF, LC_UUID for Mach-O,
CodeView GUID+age for PE.

On success the debug file path is printed to stdout. The %s
environment variable overrides the default debug cache root.

Options:
`, debugDirEnvVar)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Resolve against the standard /usr/lib/debug cache
  dwarflocate locate /usr/bin/ls

  # Resolve against a project-local cache, verbosely
  dwarflocate locate ./build/app --debug-dir ./build/debug --verbose

  # Verify a detached signature of the resolved debug file
  dwarflocate locate ./app --keyring ./trusted-keys.asc
`)
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
	cfg, err := buildConfig(*configPath, *debugDirs, *symbolPath, *arch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *keyring != "" {
		cfg.KeyringPath = *keyring
	}

	var verifier gateways.SignatureVerifier
	if cfg.KeyringPath != "" {
		if !fileExists(cfg.KeyringPath) {
			fmt.Fprintf(os.Stderr, "Error: keyring file %s not found\n", cfg.KeyringPath)
			os.Exit(1)
		}
		gpgVerifier := gpg.NewVerifier()
		if err := gpgVerifier.LoadKeyringFile(cfg.KeyringPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		verifier = gpgVerifier
	}

	orch := orchestrators.NewLocateOrchestrator(newResolver(cfg, logger), verifier, logger)
	result, err := orch.Locate(ctx, binaryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res := result.Resolution
	if !res.Found() {
		fmt.Fprintf(os.Stderr, "❌ %s (probed %d candidates)\n", res.Status, res.Probed)
		os.Exit(1)
	}

	if result.SignatureChecked {
		if result.SignatureErr != nil {
			fmt.Fprintf(os.Stderr, "❌ Signature verification FAILED: %v\n", result.SignatureErr)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "✅ Signature verified (%s)\n", result.SignaturePath)
	}

	fmt.Println(res.Path)
}
