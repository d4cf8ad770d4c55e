package poi

// LexiconSize is the number of candidate vocabulary words.
const LexiconSize = 200

// lexicon is the fixed catalog required words are drawn from: 200 common
// English words, 4-8 lowercase ASCII letters each. Order is part of the
// protocol; never reorder or mutate.
var lexicon = [LexiconSize]string{
	// nouns
	"time", "life", "world", "place", "water", "light", "house", "music", "power", "dream",
	"heart", "earth", "ocean", "river", "cloud", "stone", "flame", "voice", "night", "field",
	"space", "brain", "truth", "peace", "storm", "tower", "plant", "metal", "glass", "wheel",
	"bridge", "forest", "garden", "market", "island", "desert", "silver", "shadow", "spirit", "nature",
	"energy", "future", "memory", "moment", "season", "winter", "summer", "signal", "system", "design",
	"method", "reason", "answer", "letter", "person", "animal", "flower", "morning", "evening", "journey",
	"history", "culture", "balance", "freedom", "pattern", "shelter", "surface", "chapter", "element", "silence",
	// verbs
	"think", "learn", "build", "write", "speak", "dance", "climb", "watch", "shine", "carry",
	"drive", "paint", "teach", "reach", "solve", "share", "trust", "guide", "shape", "craft",
	"chase", "drift", "weave", "bloom", "grasp", "shift", "sweep", "trace", "wander", "gather",
	"create", "follow", "listen", "notice", "wonder", "happen", "become", "remain", "travel", "return",
	"search", "reveal", "explore", "imagine", "connect", "protect", "reflect", "develop", "consider", "discover",
	// adjectives
	"bright", "quiet", "gentle", "strong", "simple", "hidden", "golden", "silent", "frozen", "bitter",
	"tender", "vivid", "subtle", "fierce", "humble", "steady", "clever", "honest", "broken", "sacred",
	"unique", "global", "active", "native", "smooth", "narrow", "liquid", "mental", "social", "visual",
	"formal", "casual", "proper", "remote", "secure", "stable", "cosmic", "ancient", "modern", "natural",
	"digital", "central", "special", "private", "perfect", "strange", "careful", "curious", "distant", "endless",
	// adverbs
	"often", "never", "always", "slowly", "deeply", "gently", "simply", "nearly", "barely", "mostly",
	"partly", "surely", "truly", "fully", "quite", "still", "maybe", "hence", "twice", "ahead",
	"apart", "aside", "along", "after", "again", "early", "later", "since", "almost", "around",
}

// wordCountForDifficulty maps difficulty to the number of required words.
// Non-decreasing, capped at MaxRequiredWords.
func wordCountForDifficulty(difficulty uint64) int {
	switch {
	case difficulty <= 10:
		return 3
	case difficulty <= 15:
		return 4
	case difficulty <= 20:
		return 5
	case difficulty <= 30:
		return 6
	case difficulty <= 40:
		return 7
	default:
		return 8
	}
}
