package project

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"fortio.org/safecast"
)

// Digest: 256-битный хеш, совместим с source.File.Hash.
type Digest [32]byte

// Combine folds dependency digests into a crate key: H(content || dep1 || dep2 ...).
// Callers pass deps in manifest order so the key is stable across runs.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashNames digests an ordered list of names, e.g. registered macro processors.
// Each name is length-prefixed: ["ab", "c"] and ["a", "bc"] differ.
func HashNames(names ...string) Digest {
	h := sha256.New()
	var n [4]byte
	for _, s := range names {
		size, err := safecast.Conv[uint32](len(s))
		if err != nil {
			panic(fmt.Errorf("name too long to hash: %w", err))
		}
		binary.LittleEndian.PutUint32(n[:], size)
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(s))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Short is the first 12 hex digits, enough for traces and cache file names in logs.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:6])
}
