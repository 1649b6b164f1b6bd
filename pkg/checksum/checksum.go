// Package checksum computes content-integrity digests for downloaded
// payloads.  Digests are BLAKE3, hex-encoded.
package checksum

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// Sum returns the hex-encoded BLAKE3 digest of data.
func Sum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SumReader returns the hex-encoded BLAKE3 digest of everything read from
// reader.
func SumReader(reader io.Reader) (string, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, reader); err != nil {
		return "", fmt.Errorf("error hashing data: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
