package gateways

import "context"

// SignatureVerifier checks a detached PGP signature over a file against a
// pre-loaded keyring. Used to optionally authenticate resolved debug
// artifacts before they are handed to a DWARF consumer.
type SignatureVerifier interface {
	// KeyringSize reports how many keys are loaded
	KeyringSize() int

	// VerifyDetached verifies sigPath as a detached signature of filePath
	VerifyDetached(ctx context.Context, filePath, sigPath string) error
}
