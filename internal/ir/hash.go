package ir

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainDocument = "uibridge/document/v1"
	DomainSource   = "uibridge/source/v1"
	DomainManifest = "uibridge/manifest/v1"
)

// hashWithDomain computes a BLAKE3-256 digest with domain separation.
// Format: BLAKE3(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := blake3.New()
	_, _ = h.Write([]byte(domain))
	_, _ = h.Write([]byte{0x00})
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentDigest identifies the content of an IR tree. Two documents with the
// same digest serialize to the same bytes.
func DocumentDigest(doc *Document) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("DocumentDigest: %w", err)
	}
	return hashWithDomain(DomainDocument, canonical), nil
}

// SourceDigest identifies the raw bytes of a source asset. The batch driver
// compares it with the ledger to skip unchanged assets.
func SourceDigest(data []byte) string {
	return hashWithDomain(DomainSource, data)
}

// ManifestDigest identifies a resource list independent of key order.
func ManifestDigest(resources []Resource) (string, error) {
	if resources == nil {
		resources = []Resource{}
	}
	canonical, err := MarshalCanonical(resources)
	if err != nil {
		return "", fmt.Errorf("ManifestDigest: %w", err)
	}
	return hashWithDomain(DomainManifest, canonical), nil
}

// MustDocumentDigest is like DocumentDigest but panics on error.
// Use only in tests or when the document is known to be valid.
func MustDocumentDigest(doc *Document) string {
	d, err := DocumentDigest(doc)
	if err != nil {
		panic(err)
	}
	return d
}
