package poi

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// NextSeed derives the challenge seed for the next epoch:
// Keccak-256(prev || timestamp LE || epoch LE || counter LE). The counter is a
// monotonic value outside the miners' control (the rotation clock's nanosecond
// reading on this node), so satisfying texts cannot be precomputed before the
// rotation lands.
func NextSeed(prev [32]byte, timestampUnix int64, epochNumber uint64, counter uint64) [32]byte {
	var buf [8]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(prev[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(timestampUnix))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], epochNumber)
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], counter)
	h.Write(buf[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// GenesisSeed derives the first epoch's challenge seed from the launch time
// and fresh entropy.
func GenesisSeed(timestampUnix int64, counter uint64, entropy [32]byte) [32]byte {
	var buf [8]byte
	h := sha3.NewLegacyKeccak256()
	binary.LittleEndian.PutUint64(buf[:], uint64(counter))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(timestampUnix))
	h.Write(buf[:])
	h.Write(entropy[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
