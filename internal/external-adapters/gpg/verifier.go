// Package gpg provides detached-signature verification for resolved debug
// artifacts using ProtonMail's go-crypto, the maintained fork of
// golang.org/x/crypto/openpgp. Lives in external-adapters to isolate the
// external dependency.
package gpg

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

const armorPrefix = "-----BEGIN PGP SIGNATURE---"

// Verifier checks detached PGP signatures against a locally loaded keyring
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a new signature verifier with an empty keyring
func NewVerifier() *Verifier {
	return &Verifier{keyring: make(openpgp.EntityList, 0)}
}

// LoadKeyringFile loads keys from a local keyring file, armored or binary
func (v *Verifier) LoadKeyringFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is user-provided for keyring loading
	f, err := os.Open(keyPath)
	if err != nil {
		return fmt.Errorf("failed to open keyring file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as binary
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return fmt.Errorf("failed to reset keyring file: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return fmt.Errorf("failed to read keyring: %w", err)
		}
	}

	if len(entities) == 0 {
		return fmt.Errorf("no keys found in keyring file")
	}

	v.keyring = append(v.keyring, entities...)
	return nil
}

// KeyringSize returns the number of keys in the keyring
func (v *Verifier) KeyringSize() int {
	return len(v.keyring)
}

// ClearKeyring clears all loaded keys
func (v *Verifier) ClearKeyring() {
	v.keyring = make(openpgp.EntityList, 0)
}

// VerifyDetached verifies sigPath as a detached signature of filePath
func (v *Verifier) VerifyDetached(_ context.Context, filePath, sigPath string) error {
	if len(v.keyring) == 0 {
		return fmt.Errorf("no keys loaded, call LoadKeyringFile first")
	}

	// Open signature file
	//nolint:gosec // G304: sigPath is user-provided for signature verification
	sigFile, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("failed to open signature file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer sigFile.Close()

	// Open data file
	//nolint:gosec // G304: filePath is user-provided for signature verification
	dataFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer dataFile.Close()

	// Peek at signature file to determine if it's armored
	peekBuf := make([]byte, len(armorPrefix))
	n, _ := io.ReadFull(sigFile, peekBuf)
	isArmored := n == len(armorPrefix) && string(peekBuf) == armorPrefix

	// Reset signature file to beginning
	if _, seekErr := sigFile.Seek(0, 0); seekErr != nil {
		return fmt.Errorf("failed to reset signature file: %w", seekErr)
	}

	// Verify signature using the appropriate method
	var verifyErr error
	if isArmored {
		_, verifyErr = openpgp.CheckArmoredDetachedSignature(v.keyring, dataFile, sigFile, nil)
	} else {
		_, verifyErr = openpgp.CheckDetachedSignature(v.keyring, dataFile, sigFile, nil)
	}

	if verifyErr != nil {
		return fmt.Errorf("signature verification failed: %w", verifyErr)
	}

	return nil
}
