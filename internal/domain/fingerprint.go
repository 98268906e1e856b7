package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizePolicy controls how prompt text is canonicalized before hashing.
//
// The default is strict byte equality: two prompts differing only in trailing
// whitespace produce distinct fingerprints. Trim and fold trade strictness for
// a higher hit rate.
type NormalizePolicy string

const (
	// NormalizeNone hashes the prompt exactly as given.
	NormalizeNone NormalizePolicy = "none"
	// NormalizeTrim strips leading and trailing whitespace.
	NormalizeTrim NormalizePolicy = "trim"
	// NormalizeFold trims and lowercases the prompt.
	NormalizeFold NormalizePolicy = "fold"
)

// KnownNormalizePolicies lists the accepted config values.
var KnownNormalizePolicies = []NormalizePolicy{NormalizeNone, NormalizeTrim, NormalizeFold}

// Fingerprint derives the deterministic cache key for a (prompt, model) pair.
// Equal pairs always produce equal keys; the model ID is separated from the
// prompt by a NUL byte so concatenation cannot alias across the boundary.
func Fingerprint(prompt, modelID string, policy NormalizePolicy) string {
	switch policy {
	case NormalizeTrim:
		prompt = strings.TrimSpace(prompt)
	case NormalizeFold:
		prompt = strings.ToLower(strings.TrimSpace(prompt))
	}
	h := sha256.New()
	h.Write([]byte(modelID))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
