package miner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/poi"
)

func seedFromByte(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b*13 + byte(i)*31
	}
	return s
}

func TestCompose_CarriesDerivedWordSets(t *testing.T) {
	t.Parallel()

	for b := 0; b < 32; b++ {
		for _, diff := range []uint64{4, 12, 18, 25, 35, 50} {
			seed := seedFromByte(byte(b))
			rw := poi.DeriveWords(seed, diff)
			words := rw.Strings()

			text, err := Compose(words)
			require.NoError(t, err, "seed %d difficulty %d words %v", b, diff, words)
			require.True(t, poi.VerifyText([]byte(text), rw.Words()),
				"seed %d difficulty %d words %v", b, diff, words)
		}
	}
}

func TestCompose_WordsInOrder(t *testing.T) {
	t.Parallel()

	words := []string{"ocean", "gentle", "wander"}
	text, err := Compose(words)
	require.NoError(t, err)

	pos := -1
	for _, w := range words {
		next := strings.Index(text[pos+1:], w)
		require.GreaterOrEqual(t, next, 0, "word %q missing", w)
		pos += 1 + next
	}
}

func TestCompose_TooManyWords(t *testing.T) {
	t.Parallel()

	_, err := Compose(make([]string, poi.MaxRequiredWords+1))
	assert.Error(t, err)
}

func TestSearchNonce(t *testing.T) {
	t.Parallel()

	seed := seedFromByte(5)
	id := seedFromByte(6)
	text := []byte("candidate text for the search")

	nonce, ok := SearchNonce(seed, id, text, 0, 1)
	require.True(t, ok)
	assert.Equal(t, uint64(0), nonce)

	// 8 leading zero bits: expected ~256 attempts
	nonce, ok = SearchNonce(seed, id, text, 8, 1<<20)
	require.True(t, ok)
	digest := poi.SolutionDigest(seed, id, text, nonce)
	assert.True(t, poi.CheckDifficulty(digest, 8))

	_, ok = SearchNonce(seed, id, text, 256, 10)
	assert.False(t, ok)
}
