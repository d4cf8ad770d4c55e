package entity

// Challenge is the line the server sends on connect: everything a miner needs
// to compose a text and search a nonce for the current epoch.
type Challenge struct {
	Epoch      uint64   `json:"epoch"`
	SeedHex    string   `json:"seed"`
	Difficulty uint64   `json:"difficulty"`
	Words      []string `json:"words"`
	Expires    int64    `json:"expires"`
}

// Submission is the line a miner sends back: identity, candidate text and the
// nonce matched against the proof-of-work target.
type Submission struct {
	MinerHex string `json:"miner"`
	Text     string `json:"text"`
	Nonce    uint64 `json:"nonce"`
}
