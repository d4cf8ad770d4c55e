package poi

import "math/bits"

// Text constraint verification: one O(n) pass over the candidate text, fixed
// auxiliary state only. Checks length, character set, byte diversity,
// vowel/space ratios, consonant clustering, bigram frequency, sentence
// structure and dedup, and ordered required-word matching.
//
// All failures collapse into a single false result; callers never learn which
// rule rejected.

const (
	minTextLen = 256
	maxTextLen = 800

	minSentenceWords = 5
	maxSentenceWords = 35
	shortSentenceCap = 10
	longSentenceMin  = 20

	minBigramCount   = 2
	minByteDiversity = 28

	// requiredWordGap is the minimum distance in bytes between the end of one
	// matched required word and the start of the next.
	requiredWordGap = 40

	// maxFingerprints bounds the sentence dedup table. Sentences past the 50th
	// are not fingerprinted; the capacity limit is protocol behavior, not an
	// optimization to lift.
	maxFingerprints = 50
)

// fingerprint is a 128-bit sentence identity: two FNV-1a style running hashes
// with distinct seeds over the same bytes.
type fingerprint struct {
	h1, h2 uint64
}

func sentenceFingerprint(data []byte) fingerprint {
	const (
		seed1 = 0xcbf29ce484222325
		seed2 = 0x6c62272e07bb0142
		prime = 0x100000001b3
	)
	fp := fingerprint{h1: seed1, h2: seed2}
	for _, b := range data {
		fp.h1 ^= uint64(b)
		fp.h1 *= prime
		fp.h2 ^= uint64(b)
		fp.h2 *= prime
	}
	return fp
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}

func isVowelLower(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isTextSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// VerifyText reports whether text satisfies every structural constraint and
// contains the required words in order, as whole words, at least
// requiredWordGap bytes apart. Matching is case-insensitive. required must be
// the output order of DeriveWords.
func VerifyText(text []byte, required [][]byte) bool {
	n := len(text)

	if n < minTextLen || n > maxTextLen {
		return false
	}

	var (
		letterCount uint32
		vowelCount  uint32
		spaceCount  uint32

		// byte diversity presence bitmap, 256 bits
		bmap [4]uint64

		prevLower                             byte
		bgTH, bgHE, bgIN, bgER, bgAN          uint32
		consRun, consMax, consTotal, consRuns uint32

		wordsInSent uint32
		inWord      bool
		sentCount   uint32
		hasQuestion bool
		hasShort    bool
		hasLong     bool
		sentStart   int
		sentStarted bool

		sentHashes [maxFingerprints]fingerprint
		hashCount  int

		rwIdx        int
		rwMatch      int
		rwMatchStart int
		lastRWEnd    int
		hasRWMatch   bool
	)
	rwTotal := len(required)

	for i := 0; i < n; i++ {
		b := text[i]
		if b > 127 {
			return false
		}
		lower := toLower(b)
		alpha := isAlpha(b)
		vowel := alpha && isVowelLower(lower)
		ws := isTextSpace(b)
		sentEnd := isSentenceEnd(b)

		bmap[b>>6] |= 1 << (b & 63)

		if alpha {
			letterCount++
			if vowel {
				vowelCount++
			}
		}
		if b == ' ' {
			spaceCount++
		}

		// consonant run tracking; a run flushes on the first non-consonant
		if alpha && !vowel {
			consRun++
		} else if consRun > 0 {
			if consRun > consMax {
				consMax = consRun
			}
			consTotal += consRun
			consRuns++
			consRun = 0
		}

		if i > 0 {
			switch {
			case prevLower == 't' && lower == 'h':
				bgTH++
			case prevLower == 'h' && lower == 'e':
				bgHE++
			case prevLower == 'i' && lower == 'n':
				bgIN++
			case prevLower == 'e' && lower == 'r':
				bgER++
			case prevLower == 'a' && lower == 'n':
				bgAN++
			}
		}
		prevLower = lower

		if ws || sentEnd {
			inWord = false
		} else if !inWord {
			inWord = true
			wordsInSent++
		}

		// a sentence starts at its first non-whitespace, non-terminator byte
		if !sentStarted && !ws && !sentEnd {
			sentStart = i
			sentStarted = true
		}

		// Required-word matcher: incremental, case-insensitive, with word
		// boundary and minimum-gap checks. On completion or mismatch the same
		// byte re-seeds a fresh attempt so overlapping starts are not lost.
		if rwIdx < rwTotal {
			rw := required[rwIdx]
			if len(rw) > 0 && lower == toLower(rw[rwMatch]) {
				if rwMatch == 0 {
					rwMatchStart = i
				}
				rwMatch++
				if rwMatch == len(rw) {
					beforeOK := rwMatchStart == 0 || !isAlpha(text[rwMatchStart-1])
					afterOK := i+1 >= n || !isAlpha(text[i+1])

					if beforeOK && afterOK {
						if hasRWMatch && rwMatchStart < lastRWEnd+requiredWordGap {
							// gap too small: occurrence ignored, keep pursuing
							// the same word
						} else {
							lastRWEnd = i + 1
							hasRWMatch = true
							rwIdx++
						}
					}
					rwMatch = 0
					if rwIdx < rwTotal {
						next := required[rwIdx]
						if len(next) > 0 && lower == toLower(next[0]) {
							rwMatchStart = i
							rwMatch = 1
						}
					}
				}
			} else if rwMatch > 0 {
				rwMatch = 0
				if len(rw) > 0 && lower == toLower(rw[0]) {
					rwMatchStart = i
					rwMatch = 1
				}
			}
		}

		if sentEnd && wordsInSent > 0 && sentStarted {
			if wordsInSent < minSentenceWords || wordsInSent > maxSentenceWords {
				return false
			}
			if b == '?' {
				hasQuestion = true
			}
			if wordsInSent <= shortSentenceCap {
				hasShort = true
			}
			if wordsInSent >= longSentenceMin {
				hasLong = true
			}

			if hashCount < maxFingerprints {
				fp := sentenceFingerprint(text[sentStart : i+1])
				for j := 0; j < hashCount; j++ {
					if sentHashes[j] == fp {
						return false
					}
				}
				sentHashes[hashCount] = fp
				hashCount++
			}
			sentCount++

			wordsInSent = 0
			inWord = false
			sentStarted = false
		}
	}

	// flush the consonant run in progress at end of text
	if consRun > 0 {
		if consRun > consMax {
			consMax = consRun
		}
		consTotal += consRun
		consRuns++
	}

	if rwIdx < rwTotal {
		return false
	}

	if sentCount < 2 || !hasQuestion || !hasShort || !hasLong {
		return false
	}

	// vowel ratio 30-48% of letters, cross-multiplied to stay in integers
	if letterCount == 0 {
		return false
	}
	vc, lc := uint64(vowelCount), uint64(letterCount)
	if vc*100 < 30*lc || vc*100 > 48*lc {
		return false
	}

	// space ratio 12-22% of total bytes
	sc, total := uint64(spaceCount), uint64(n)
	if sc*100 < 12*total || sc*100 > 22*total {
		return false
	}

	// consonant clustering: longest run <= 5, average run < 2.5
	if consMax > 5 {
		return false
	}
	if consRuns > 0 && consTotal*10 >= 25*consRuns {
		return false
	}

	if bgTH < minBigramCount || bgHE < minBigramCount || bgIN < minBigramCount ||
		bgER < minBigramCount || bgAN < minBigramCount {
		return false
	}

	unique := 0
	for _, w := range bmap {
		unique += bits.OnesCount64(w)
	}
	return unique >= minByteDiversity
}
