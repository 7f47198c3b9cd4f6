package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Suffix is the file extension of journal identifiers.
const Suffix = ".DAT"

// DefaultPrefix is the identifier prefix used when none is configured.
const DefaultPrefix = "j1"

// fingerprintDomain separates journal fingerprints from any other hash of a
// path.
const fingerprintDomain = "linejournal/path/v1"

// fingerprintLen is the number of hex characters kept from the path hash.
const fingerprintLen = 6

// ErrInvalidID is returned for identifiers that cannot name a journal.
var ErrInvalidID = errors.New("invalid journal id")

// Identify returns the journal identifier for filePath.
//
// The fingerprint is derived from the absolute, cleaned path, so the same
// file maps to the same journal across restarts and same-named files in
// different directories map to different journals.
func Identify(prefix, filePath string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filepath.Clean(filePath)
	}
	return fmt.Sprintf("%s_%s_%s%s", prefix, filepath.Base(abs), fingerprint(abs), Suffix)
}

// fingerprint computes SHA256(domain + 0x00 + path) and keeps a short hex
// prefix.
func fingerprint(path string) string {
	h := sha256.New()
	h.Write([]byte(fingerprintDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(path))
	return hex.EncodeToString(h.Sum(nil))[:fingerprintLen]
}

// ValidateID rejects identifiers that would escape the journal directory or
// do not carry the journal suffix.
func ValidateID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty", ErrInvalidID)
	case strings.ContainsAny(id, `/\`) || id == "." || id == "..":
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidID, id)
	case !strings.HasSuffix(id, Suffix):
		return fmt.Errorf("%w: %q does not end in %s", ErrInvalidID, id, Suffix)
	}
	return nil
}
