// Package orchestrators coordinates resolution with signature verification
// into complete locate workflows.
package orchestrators

import (
	"context"
	"os"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces/gateways"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces/services"
)

// detached signature extensions, in probe order
var signatureSuffixes = []string{".asc", ".sig"}

// LocateOrchestrator runs the locate workflow: resolve the debug file,
// then, when a keyring is loaded and a detached signature sits next to
// the resolved file, authenticate it.
type LocateOrchestrator struct {
	resolver services.ResolverService
	verifier gateways.SignatureVerifier
	logger   interfaces.Logger
}

// NewLocateOrchestrator creates a new locate orchestrator. verifier may be
// nil when signature checking is not configured.
func NewLocateOrchestrator(resolver services.ResolverService, verifier gateways.SignatureVerifier, logger interfaces.Logger) *LocateOrchestrator {
	return &LocateOrchestrator{resolver: resolver, verifier: verifier, logger: logger}
}

// LocateResult contains the result of a locate workflow
type LocateResult struct {
	Resolution *entities.Resolution

	// SignaturePath is the detached signature found next to the resolved
	// debug file, when any
	SignaturePath string

	// SignatureChecked reports whether a verification was attempted;
	// SignatureErr holds its outcome
	SignatureChecked bool
	SignatureErr     error
}

// Locate executes the locate workflow for the binary at binaryPath
func (o *LocateOrchestrator) Locate(ctx context.Context, binaryPath string) (*LocateResult, error) {
	res, err := o.resolver.Resolve(ctx, binaryPath)
	if err != nil {
		return nil, err
	}
	result := &LocateResult{Resolution: res}

	if !res.Found() || o.verifier == nil || o.verifier.KeyringSize() == 0 {
		return result, nil
	}

	sigPath, ok := findSignature(res.Path)
	if !ok {
		o.logger.Debug("no detached signature next to debug file",
			interfaces.F("path", res.Path))
		return result, nil
	}

	result.SignaturePath = sigPath
	result.SignatureChecked = true
	result.SignatureErr = o.verifier.VerifyDetached(ctx, res.Path, sigPath)
	if result.SignatureErr != nil {
		o.logger.Warn("debug file signature verification failed",
			interfaces.F("path", res.Path), interfaces.F("error", result.SignatureErr))
	} else {
		o.logger.Info("debug file signature verified",
			interfaces.F("signature", sigPath))
	}
	return result, nil
}

// findSignature looks for a detached signature file next to path
func findSignature(path string) (string, bool) {
	for _, suffix := range signatureSuffixes {
		sigPath := path + suffix
		if info, err := os.Stat(sigPath); err == nil && !info.IsDir() {
			return sigPath, true
		}
	}
	return "", false
}
