// Package miner composes candidate texts for a challenge and searches nonces
// against the proof-of-work target. It is the client-side counterpart of the
// verification core: everything it emits must pass poi.VerifyText.
package miner

import (
	"fmt"
	"strings"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/poi"
)

// carriers hold one required-word slot each. The skeleton is tuned so that for
// any ordered word set drawn from the lexicon the composed text satisfies the
// full constraint set: sentence word counts, question/short/long flags, vowel
// and space ratios, consonant clustering, bigram minimums, byte diversity,
// and at least 40 bytes between consecutive slot positions.
var carriers = [poi.MaxRequiredWords]string{
	"The %s in the morning was rather calm and pleasant.",
	"Have you ever wondered whether the %s can truly be understood through simple observation and careful thinking about the patterns that emerge in everything around us?",
	"The ancient trees in the garden were %s near the tall bright fence.",
	"Another event appeared when the river began to change its %s course.",
	"The evening light over the water made the %s seem rather near.",
	"People in the town often said the %s would remain here again.",
	"Back in 1987 the small town had seven quiet streets near the %s.",
	"In the end when the answer came to hand the %s was there.",
}

const closer = "The quiet evening ended near the fire with tea and calm easy rest."

// fillers occupy unused slots. None of them is a lexicon word, so a filler can
// never satisfy or shadow a required word.
var fillers = [poi.MaxRequiredWords]string{
	"window", "meadow", "lantern", "basket", "harbor", "timber", "cellar", "garret",
}

// Compose builds a text containing the required words in order, each in its
// own carrier sentence. The output is verified before being returned; a
// failure means the word set cannot be carried by this skeleton.
func Compose(words []string) (string, error) {
	if len(words) > poi.MaxRequiredWords {
		return "", fmt.Errorf("compose: %d required words, max %d", len(words), poi.MaxRequiredWords)
	}

	parts := make([]string, 0, len(carriers)+1)
	for i, carrier := range carriers {
		slot := fillers[i]
		if i < len(words) {
			slot = words[i]
		}
		parts = append(parts, fmt.Sprintf(carrier, slot))
	}
	parts = append(parts, closer)
	text := strings.Join(parts, " ")

	required := make([][]byte, len(words))
	for i, w := range words {
		required[i] = []byte(w)
	}
	if !poi.VerifyText([]byte(text), required) {
		return "", fmt.Errorf("compose: skeleton cannot carry words %v", words)
	}
	return text, nil
}

// SearchNonce scans nonces from 0 until the solution digest meets the
// difficulty target, giving up after maxIter attempts.
func SearchNonce(seed, miner [32]byte, text []byte, difficulty uint64, maxIter uint64) (uint64, bool) {
	for nonce := uint64(0); nonce < maxIter; nonce++ {
		digest := poi.SolutionDigest(seed, miner, text, nonce)
		if poi.CheckDifficulty(digest, difficulty) {
			return nonce, true
		}
	}
	return 0, false
}
