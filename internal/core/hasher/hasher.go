// Package hasher computes the content hashes recorded in the lockfile.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SumSHA256 computes the SHA256 hash of fetched content and returns it in
// the format "sha256:<hex_hash>".
func SumSHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("sha256:%s", hex.EncodeToString(sum[:]))
}
