package poi

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// digestSeparator sits between the text and nonce bytes in the solution
// digest preimage, so neither can masquerade as the other.
var digestSeparator = []byte("||")

// CheckDifficulty reports whether the first difficulty bits of digest,
// most-significant first, are all zero. Difficulty 0 always passes; 256 and
// above never do.
func CheckDifficulty(digest [32]byte, difficulty uint64) bool {
	if difficulty == 0 {
		return true
	}
	if difficulty >= 256 {
		return false
	}
	fullBytes := int(difficulty / 8)
	remainingBits := uint(difficulty % 8)

	for i := 0; i < fullBytes; i++ {
		if digest[i] != 0 {
			return false
		}
	}
	if remainingBits > 0 && fullBytes < len(digest) {
		mask := byte(0xFF << (8 - remainingBits))
		if digest[fullBytes]&mask != 0 {
			return false
		}
	}
	return true
}

// SolutionDigest computes the proof-of-work digest for a submission:
// Keccak-256(seed || miner || text || "||" || nonce little-endian).
func SolutionDigest(seed [32]byte, miner [32]byte, text []byte, nonce uint64) [32]byte {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)

	h := sha3.NewLegacyKeccak256()
	h.Write(seed[:])
	h.Write(miner[:])
	h.Write(text)
	h.Write(digestSeparator)
	h.Write(nonceBytes[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
