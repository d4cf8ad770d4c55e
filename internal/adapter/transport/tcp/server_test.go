package tcp

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/entity"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/ledger"
)

func testChallenge() entity.Challenge {
	return entity.Challenge{
		Epoch:      3,
		SeedHex:    strings.Repeat("ab", 32),
		Difficulty: 8,
		Words:      []string{"time", "life", "world"},
		Expires:    time.Now().Add(time.Minute).Unix(),
	}
}

func mustPipe(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	c1, c2 := net.Pipe()
	// deadlines so a failing test cannot hang
	_ = c1.SetDeadline(time.Now().Add(2 * time.Second))
	_ = c2.SetDeadline(time.Now().Add(2 * time.Second))
	return c1, c2
}

const validSubLine = `{"miner":"` +
	"00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff" +
	`","text":"some text","nonce":42}` + "\n"

func TestHandle_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := NewMockLedger(ctrl)
	mockLedger.EXPECT().Challenge(gomock.Any()).Return(testChallenge(), nil)
	mockLedger.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(entity.SubmissionRecord{ID: "id-1", Epoch: 3, Nonce: 42}, nil)

	srv := NewServer(zap.NewNop(), "ignored:0", time.Minute, 200*time.Millisecond, mockLedger)

	cli, srvSide := mustPipe(t)
	defer cli.Close()
	defer srvSide.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.handle(context.Background(), srvSide)
	}()

	br := bufio.NewReader(cli)
	bw := bufio.NewWriter(cli)

	line, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read challenge: %v", err)
	}
	var gotCh entity.Challenge
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &gotCh); err != nil {
		t.Fatalf("unmarshal challenge: %v", err)
	}
	if gotCh.Epoch != 3 || len(gotCh.Words) != 3 {
		t.Fatalf("challenge = %+v", gotCh)
	}

	if _, err := bw.WriteString(validSubLine); err != nil {
		t.Fatalf("write submission: %v", err)
	}
	_ = bw.Flush()

	reply, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if want := "accepted\n"; reply != want {
		t.Fatalf("reply = %q; want %q", reply, want)
	}

	<-done
}

func TestHandle_Rejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := NewMockLedger(ctrl)
	mockLedger.EXPECT().Challenge(gomock.Any()).Return(testChallenge(), nil)
	mockLedger.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(entity.SubmissionRecord{}, ledger.ErrInvalidText)

	srv := NewServer(zap.NewNop(), "ignored:0", time.Minute, 200*time.Millisecond, mockLedger)

	cli, srvSide := mustPipe(t)
	defer cli.Close()
	defer srvSide.Close()

	go srv.handle(context.Background(), srvSide)

	br := bufio.NewReader(cli)
	bw := bufio.NewWriter(cli)

	if _, err := br.ReadString('\n'); err != nil {
		t.Fatalf("read challenge: %v", err)
	}
	if _, err := bw.WriteString(validSubLine); err != nil {
		t.Fatalf("write submission: %v", err)
	}
	_ = bw.Flush()

	reply, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if want := "rejected\n"; reply != want {
		t.Fatalf("reply = %q; want %q", reply, want)
	}
}

func TestHandle_InvalidJSON(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := NewMockLedger(ctrl)
	mockLedger.EXPECT().Challenge(gomock.Any()).Return(testChallenge(), nil)
	// Submit must not be called

	srv := NewServer(zap.NewNop(), "ignored:0", time.Minute, 200*time.Millisecond, mockLedger)

	cli, srvSide := mustPipe(t)
	defer cli.Close()
	defer srvSide.Close()

	go srv.handle(context.Background(), srvSide)

	br := bufio.NewReader(cli)
	bw := bufio.NewWriter(cli)

	if _, err := br.ReadString('\n'); err != nil {
		t.Fatalf("read challenge: %v", err)
	}
	if _, err := bw.WriteString("not a json\n"); err != nil {
		t.Fatalf("write bad json: %v", err)
	}
	_ = bw.Flush()

	reply, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read error reply: %v", err)
	}
	if want := "invalid submission json\n"; reply != want {
		t.Fatalf("reply = %q; want %q", reply, want)
	}
}

func TestHandle_MissingFields(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := NewMockLedger(ctrl)
	mockLedger.EXPECT().Challenge(gomock.Any()).Return(testChallenge(), nil)

	srv := NewServer(zap.NewNop(), "ignored:0", time.Minute, 200*time.Millisecond, mockLedger)

	cli, srvSide := mustPipe(t)
	defer cli.Close()
	defer srvSide.Close()

	go srv.handle(context.Background(), srvSide)

	br := bufio.NewReader(cli)
	bw := bufio.NewWriter(cli)

	if _, err := br.ReadString('\n'); err != nil {
		t.Fatalf("read challenge: %v", err)
	}
	// well-formed JSON with an empty text still counts as invalid
	if _, err := bw.WriteString(`{"miner":"ab","text":"","nonce":1}` + "\n"); err != nil {
		t.Fatalf("write submission: %v", err)
	}
	_ = bw.Flush()

	reply, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read error reply: %v", err)
	}
	if want := "invalid submission json\n"; reply != want {
		t.Fatalf("reply = %q; want %q", reply, want)
	}
}

func TestHandle_ParallelMany(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const N = 10

	mockLedger := NewMockLedger(ctrl)
	mockLedger.EXPECT().Challenge(gomock.Any()).Times(N).Return(testChallenge(), nil)
	mockLedger.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(N).
		Return(entity.SubmissionRecord{ID: "id", Epoch: 3}, nil)

	srv := NewServer(zap.NewNop(), "ignored:0", time.Minute, 200*time.Millisecond, mockLedger)

	var wg sync.WaitGroup
	wg.Add(N)

	for i := 0; i < N; i++ {
		cli, srvSide := mustPipe(t)

		go func(c1, c2 net.Conn) {
			defer wg.Done()
			defer c1.Close()
			defer c2.Close()

			go srv.handle(context.Background(), c2)

			br := bufio.NewReader(c1)
			bw := bufio.NewWriter(c1)

			if _, err := br.ReadString('\n'); err != nil {
				t.Errorf("read challenge: %v", err)
				return
			}
			if _, err := bw.WriteString(validSubLine); err != nil {
				t.Errorf("write submission: %v", err)
				return
			}
			_ = bw.Flush()

			if reply, err := br.ReadString('\n'); err != nil {
				t.Errorf("read reply: %v", err)
			} else if reply != "accepted\n" {
				t.Errorf("reply = %q; want %q", reply, "accepted\n")
			}
		}(cli, srvSide)
	}

	wg.Wait()
}

func TestRun_GracefulShutdown(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := NewMockLedger(ctrl)
	mockLedger.EXPECT().Challenge(gomock.Any()).AnyTimes().Return(testChallenge(), nil)
	mockLedger.EXPECT().Submit(gomock.Any(), gomock.Any()).AnyTimes().
		Return(entity.SubmissionRecord{ID: "id", Epoch: 3}, nil)

	addr := freeTCPAddr(t)
	srv := NewServer(zap.NewNop(), addr, 500*time.Millisecond, 200*time.Millisecond, mockLedger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	// wait for the port to start listening
	deadline := time.Now().Add(2 * time.Second)
	var conn net.Conn
	var err error
	for time.Now().Before(deadline) {
		conn, err = net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not start listening on %s: %v", addr, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

	br := bufio.NewReader(conn)
	if _, err := br.ReadString('\n'); err != nil {
		t.Fatalf("read challenge: %v", err)
	}
	_ = conn.(*net.TCPConn).CloseWrite()

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned error on shutdown: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func freeTCPAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen temp: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}
