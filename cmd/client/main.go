package main

import (
	"bufio"
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/entity"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/miner"
	"github.com/dayanaadylkhanova/proof-of-inference/pkg/logger"
)

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func minerID(log *zap.Logger) [32]byte {
	var id [32]byte
	if s := os.Getenv("MINER_KEY"); s != "" {
		raw, err := hex.DecodeString(s)
		if err != nil || len(raw) != len(id) {
			log.Fatal("MINER_KEY must be 32 hex-encoded bytes")
		}
		copy(id[:], raw)
		return id
	}
	_, _ = crand.Read(id[:])
	return id
}

func main() {
	log, err := logger.New(getenv("LOG_LEVEL", "info"))
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	addr := getenv("SERVER_ADDR", "localhost:8080")
	id := minerID(log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		log.Fatal("dial failed", zap.Error(err))
	}
	defer conn.Close()

	br := bufio.NewReader(conn)
	bw := bufio.NewWriter(conn)

	line, err := br.ReadString('\n')
	if err != nil {
		log.Fatal("read challenge failed", zap.Error(err))
	}
	var ch entity.Challenge
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &ch); err != nil {
		log.Fatal("unmarshal challenge failed", zap.Error(err))
	}
	log.Info("challenge received",
		zap.Uint64("epoch", ch.Epoch),
		zap.Uint64("difficulty", ch.Difficulty),
		zap.Strings("words", ch.Words),
	)

	var seed [32]byte
	rawSeed, err := hex.DecodeString(ch.SeedHex)
	if err != nil || len(rawSeed) != len(seed) {
		log.Fatal("bad challenge seed", zap.Error(err))
	}
	copy(seed[:], rawSeed)

	text, err := miner.Compose(ch.Words)
	if err != nil {
		log.Fatal("compose failed", zap.Error(err))
	}

	start := time.Now()
	nonce, ok := miner.SearchNonce(seed, id, []byte(text), ch.Difficulty, 1<<40)
	if !ok {
		log.Fatal("nonce search exhausted")
	}
	log.Info("nonce found", zap.Uint64("nonce", nonce), zap.Duration("took", time.Since(start)))

	out, _ := json.Marshal(entity.Submission{
		MinerHex: hex.EncodeToString(id[:]),
		Text:     text,
		Nonce:    nonce,
	})
	if _, err := bw.Write(append(out, '\n')); err != nil {
		log.Fatal("write submission failed", zap.Error(err))
	}
	if err := bw.Flush(); err != nil {
		log.Fatal("flush failed", zap.Error(err))
	}

	reply, err := br.ReadString('\n')
	if err != nil {
		log.Fatal("read reply failed", zap.Error(err))
	}
	fmt.Println(strings.TrimSpace(reply))
}
