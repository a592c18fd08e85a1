package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	adapters "github.com/ochairo/dwarflocate/internal/domain-adapters/gateways"
	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
	domainservices "github.com/ochairo/dwarflocate/internal/domain/interfaces/services"
	"github.com/ochairo/dwarflocate/internal/domain/services"
	"github.com/ochairo/dwarflocate/internal/external-adapters/spotlight"
	"github.com/ochairo/dwarflocate/internal/external-adapters/yaml"
	zerologadapter "github.com/ochairo/dwarflocate/internal/external-adapters/zerolog"
)

// debugDirEnvVar overrides the default split-debug cache root
const debugDirEnvVar = "DWARFLOCATE_DEBUG_DIR"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "locate":
		runLocate(ctx, os.Args[2:])
	case "inspect":
		runInspect(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`dwarflocate - Locate separate debug info for native binaries

Usage:
  dwarflocate <command> [options]

Commands:
  locate   Find the separate debug file for a binary
  inspect  Show a binary's format and debug identifier
  verify   Check that a debug file belongs to a binary

Use "dwarflocate <command> --help" for more information about a command.`)
}

// newLogger creates the console logger shared by all subcommands
func newLogger(verbose bool) interfaces.Logger {
	return zerologadapter.New(os.Stderr, verbose)
}

// buildConfig assembles the effective configuration: conventional
// defaults, then the YAML file, then the environment, then flags.
func buildConfig(configPath, debugDirs, symbolPath, arch string) (entities.Config, error) {
	cfg := entities.DefaultConfig()

	if configPath != "" {
		parsed, err := yaml.NewConfigParser().ParseFile(configPath)
		if err != nil {
			return entities.Config{}, err
		}
		cfg = parsed
	}

	if env := os.Getenv(debugDirEnvVar); env != "" {
		cfg.DebugDirectories = filepath.SplitList(env)
	}
	if debugDirs != "" {
		cfg.DebugDirectories = strings.Split(debugDirs, ",")
	}
	if symbolPath != "" {
		cfg.SymbolPath = strings.Split(symbolPath, ";")
	}
	if arch != "" {
		cfg.Architecture = arch
	}

	return cfg, nil
}

// newResolver wires the resolution pipeline for the given configuration
func newResolver(cfg entities.Config, logger interfaces.Logger) domainservices.ResolverService {
	inspector := adapters.NewObjectInspector(cfg, logger)
	provider := adapters.NewCandidateProvider(cfg, spotlight.NewIndex(logger), logger)
	matcher := adapters.NewCandidateMatcher(logger)
	return services.NewResolverService(inspector, provider, matcher, logger)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
