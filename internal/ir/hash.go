package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content checksums.
// Version suffix enables future algorithm migration.
const (
	DomainInterface = "bindgen/interface/v1"
	DomainOutput    = "bindgen/output/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InterfaceChecksum identifies an interface model independently of how it
// was written down: two models with the same canonical form share a checksum.
func InterfaceChecksum(ci *ComponentInterface) (string, error) {
	canonical, err := MarshalCanonical(ci)
	if err != nil {
		return "", fmt.Errorf("InterfaceChecksum: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInterface, canonical), nil
}

// MustInterfaceChecksum is like InterfaceChecksum but panics on error.
// Use only in tests or when the model is known to be valid.
func MustInterfaceChecksum(ci *ComponentInterface) string {
	sum, err := InterfaceChecksum(ci)
	if err != nil {
		panic(err)
	}
	return sum
}

// OutputChecksum identifies a generated source file.
func OutputChecksum(source []byte) string {
	return hashWithDomain(DomainOutput, source)
}
