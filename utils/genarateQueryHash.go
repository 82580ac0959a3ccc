package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// GenerateHash builds a stable "<resourceType>:<sha256>" key from a set of parameters.
func GenerateHash(resourceType string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := fmt.Sprintf("resource=%s", resourceType)
	for _, k := range keys {
		query += fmt.Sprintf("&%s=%s", k, params[k])
	}

	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s:%s", resourceType, hex.EncodeToString(sum[:]))
}

// HashBytes fingerprints a request body.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
