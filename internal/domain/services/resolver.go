// Package services implements the domain services of the resolution core.
package services

import (
	"context"
	"fmt"
	"iter"
	"os"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces/gateways"
	domainservices "github.com/ochairo/dwarflocate/internal/domain/interfaces/services"
)

// resolverService wires inspection, candidate generation and matching
// into the resolve pipeline.
type resolverService struct {
	inspector gateways.ObjectInspector
	provider  gateways.CandidateProvider
	matcher   gateways.CandidateMatcher
	logger    interfaces.Logger
}

// NewResolverService creates a new resolver service
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewResolverService(
	inspector gateways.ObjectInspector,
	provider gateways.CandidateProvider,
	matcher gateways.CandidateMatcher,
	logger interfaces.Logger,
) *resolverService {
	return &resolverService{
		inspector: inspector,
		provider:  provider,
		matcher:   matcher,
		logger:    logger,
	}
}

var _ domainservices.ResolverService = (*resolverService)(nil)

// Resolve locates the separate debug info for the binary at binaryPath.
// Problems with the binary itself are errors; exhausting the search space
// without a hit is a typed status, not an error.
func (s *resolverService) Resolve(ctx context.Context, binaryPath string) (*entities.Resolution, error) {
	data, err := os.ReadFile(binaryPath) //nolint:gosec // G304: path comes from the caller by design
	if err != nil {
		return nil, fmt.Errorf("failed to read binary: %w", err)
	}

	format, id, err := s.inspector.Inspect(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", binaryPath, err)
	}

	res := &entities.Resolution{Format: format, Identifier: id}
	if id.IsNone() {
		res.Status = entities.StatusNoIdentifier
		s.logger.Debug("binary carries no debug identifier", interfaces.F("binary", binaryPath))
		return res, nil
	}

	s.logger.Info("resolving debug info",
		interfaces.F("binary", binaryPath),
		interfaces.F("kind", id.Kind.String()),
		interfaces.F("identifier", id.String()))

	path, probed, found := s.matcher.Match(ctx, id, s.provider.Candidates(ctx, binaryPath, id))
	res.Probed = probed
	switch {
	case found:
		res.Status = entities.StatusResolved
		res.Path = path
	case probed == 0:
		res.Status = entities.StatusNoCandidates
	default:
		res.Status = entities.StatusNoMatch
	}
	return res, nil
}

// VerifyPair checks whether the file at debugPath carries the debug
// identifier of the binary at binaryPath, using the same matching rules
// as resolution.
func (s *resolverService) VerifyPair(ctx context.Context, binaryPath, debugPath string) (bool, error) {
	_, id, err := s.inspector.InspectFile(ctx, binaryPath)
	if err != nil {
		return false, err
	}
	if id.IsNone() {
		return false, fmt.Errorf("%s carries no debug identifier", binaryPath)
	}

	_, _, found := s.matcher.Match(ctx, id, singleCandidate(debugPath, id))
	return found, nil
}

// singleCandidate wraps an explicit debug path as a one-element candidate
// sequence, typed for the identifier being verified.
func singleCandidate(debugPath string, id entities.DebugIdentifier) iter.Seq[entities.Candidate] {
	c := entities.Candidate{Path: debugPath, Kind: entities.CandidateObject}
	switch id.Kind {
	case entities.IdentifierBuildID, entities.IdentifierDebugLink:
		c.Format = entities.FormatELF
	case entities.IdentifierUUID:
		c.Format = entities.FormatMachO
	case entities.IdentifierCodeView:
		c.Format = entities.FormatPE
		c.Kind = entities.CandidatePDB
	}
	return func(yield func(entities.Candidate) bool) {
		yield(c)
	}
}
