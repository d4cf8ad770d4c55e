package poi

import "encoding/binary"

const (
	// MaxRequiredWords bounds the required-word set for any difficulty.
	MaxRequiredWords = 8
	maxWordLen       = 8
)

// RequiredWords is the ordered, duplicate-free word set derived from a
// challenge seed. Fixed-capacity by design; copy freely.
type RequiredWords struct {
	words [MaxRequiredWords][maxWordLen]byte
	lens  [MaxRequiredWords]int
	count int
}

// Count reports how many required words were derived.
func (rw *RequiredWords) Count() int { return rw.count }

// Word returns the i-th required word. Valid for 0 <= i < Count.
func (rw *RequiredWords) Word(i int) []byte { return rw.words[i][:rw.lens[i]] }

// Words returns the required words in protocol order.
func (rw *RequiredWords) Words() [][]byte {
	out := make([][]byte, rw.count)
	for i := range out {
		out[i] = rw.Word(i)
	}
	return out
}

// Strings returns the required words as strings, for display and transport.
func (rw *RequiredWords) Strings() []string {
	out := make([]string, rw.count)
	for i := range out {
		out[i] = string(rw.Word(i))
	}
	return out
}

// DeriveWords deterministically selects the required words for a
// (seed, difficulty) pair. Word i comes from seed bytes [2i, 2i+1] read as a
// big-endian 16-bit value reduced modulo the lexicon size; collisions with
// earlier picks probe linearly forward with wrap-around. If probing ever
// exhausts the lexicon the result is truncated to the words derived so far.
func DeriveWords(seed [32]byte, difficulty uint64) RequiredWords {
	count := wordCountForDifficulty(difficulty)

	var rw RequiredWords
	rw.count = count

	var used [LexiconSize]bool
	for i := 0; i < count; i++ {
		raw := binary.BigEndian.Uint16(seed[i*2 : i*2+2])
		idx := int(raw) % LexiconSize

		tries := 0
		for used[idx] && tries < LexiconSize {
			idx = (idx + 1) % LexiconSize
			tries++
		}
		if tries >= LexiconSize {
			rw.count = i
			break
		}

		used[idx] = true
		word := lexicon[idx]
		n := len(word)
		if n > maxWordLen {
			n = maxWordLen
		}
		copy(rw.words[i][:], word[:n])
		rw.lens[i] = n
	}
	return rw
}
