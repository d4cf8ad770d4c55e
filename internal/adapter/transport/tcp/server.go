package tcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/entity"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/ledger"
)

// Server speaks a line-oriented JSON protocol: it sends the current epoch's
// challenge, reads one submission, and answers accepted/rejected. Submitters
// get no rule-level detail on rejection.
type Server struct {
	log       *zap.Logger
	addr      string
	timeout   time.Duration
	ledger    Ledger
	ln        net.Listener
	wg        sync.WaitGroup
	connsMu   sync.Mutex
	active    map[net.Conn]struct{}
	shutdownT time.Duration
}

func NewServer(log *zap.Logger, addr string, timeout, shutdown time.Duration, l Ledger) *Server {
	return &Server{
		log:       log,
		addr:      addr,
		timeout:   timeout,
		shutdownT: shutdown,
		ledger:    l,
		active:    make(map[net.Conn]struct{}),
	}
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.ln = ln
	s.log.Info("server started", zap.String("addr", s.addr), zap.Duration("timeout", s.timeout))

	errCh := make(chan error, 1)
	go func() { errCh <- s.acceptLoop(ctx) }()

	select {
	case <-ctx.Done():
		s.log.Info("shutdown: closing listener")
		_ = s.ln.Close()

		s.connsMu.Lock()
		for c := range s.active {
			_ = c.SetDeadline(time.Now().Add(200 * time.Millisecond))
			if tc, ok := c.(*net.TCPConn); ok {
				_ = tc.CloseWrite()
			}
		}
		s.connsMu.Unlock()

		done := make(chan struct{})
		go func() { s.wg.Wait(); close(done) }()
		select {
		case <-done:
			s.log.Info("shutdown: all connections drained")
		case <-time.After(s.shutdownT):
			s.log.Warn("shutdown: force-close remaining connections")
			s.connsMu.Lock()
			for c := range s.active {
				_ = c.Close()
			}
			s.connsMu.Unlock()
		}
		return nil

	case err := <-errCh:
		return err
	}
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn("transient accept error", zap.Error(err))
				time.Sleep(50 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.track(conn, true)
		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer s.track(c, false)
			s.handle(ctx, c)
		}(conn)
	}
}

func (s *Server) track(c net.Conn, add bool) {
	s.connsMu.Lock()
	if add {
		s.active[c] = struct{}{}
	} else {
		delete(s.active, c)
	}
	s.connsMu.Unlock()
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(s.timeout))

	ch, err := s.ledger.Challenge(ctx)
	if err != nil {
		s.log.Error("challenge build failed", zap.Error(err))
		return
	}
	bw := bufio.NewWriter(conn)
	br := bufio.NewReader(conn)

	payload, err := json.Marshal(ch)
	if err != nil {
		s.log.Error("challenge marshal failed", zap.Error(err))
		return
	}
	_, _ = bw.Write(append(payload, '\n'))
	_ = bw.Flush()
	s.log.Debug("challenge issued",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Uint64("epoch", ch.Epoch),
		zap.Uint64("difficulty", ch.Difficulty),
	)

	line, err := br.ReadString('\n')
	if err != nil {
		s.log.Debug("read submission failed", zap.Error(err))
		return
	}
	line = strings.TrimSpace(line)
	var sub entity.Submission
	if err := json.Unmarshal([]byte(line), &sub); err != nil || sub.MinerHex == "" || sub.Text == "" {
		_, _ = bw.WriteString("invalid submission json\n")
		_ = bw.Flush()
		s.log.Debug("bad submission", zap.Error(err))
		return
	}

	rec, err := s.ledger.Submit(ctx, sub)
	if err != nil {
		_, _ = bw.WriteString("rejected\n")
		_ = bw.Flush()
		s.log.Debug("submission rejected",
			zap.String("remote", conn.RemoteAddr().String()),
			zap.String("reason", reason(err)),
		)
		return
	}

	_, _ = bw.WriteString("accepted\n")
	_ = bw.Flush()
	s.log.Info("submission accepted",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Uint64("epoch", rec.Epoch),
	)
}

// reason classifies a rejection for the server's own logs. The wire reply
// stays an undifferentiated "rejected".
func reason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrEpochEnded):
		return "epoch_ended"
	case errors.Is(err, ledger.ErrMaxSupply):
		return "max_supply"
	case errors.Is(err, ledger.ErrInvalidText):
		return "invalid_text"
	case errors.Is(err, ledger.ErrInsufficientDifficulty):
		return "insufficient_difficulty"
	case errors.Is(err, ledger.ErrDuplicateSubmission):
		return "duplicate"
	default:
		return "other"
	}
}
