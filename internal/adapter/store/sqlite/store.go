// Package sqlite provides a SQLite-backed Store for durable nodes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/dayanaadylkhanova/proof-of-inference/internal/entity"
	"github.com/dayanaadylkhanova/proof-of-inference/internal/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS mine_state (
  id                 INTEGER PRIMARY KEY CHECK (id = 1),
  total_mined        INTEGER NOT NULL,
  difficulty         INTEGER NOT NULL,
  challenge_seed     BLOB    NOT NULL,
  epoch_number       INTEGER NOT NULL,
  epoch_start_time   INTEGER NOT NULL,
  epoch_end_time     INTEGER NOT NULL,
  solutions_in_epoch INTEGER NOT NULL,
  total_supply       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS submissions (
  id     TEXT    NOT NULL,
  miner  BLOB    NOT NULL,
  epoch  INTEGER NOT NULL,
  nonce  INTEGER NOT NULL,
  digest BLOB    NOT NULL,
  PRIMARY KEY (miner, epoch)
);
CREATE INDEX IF NOT EXISTS submissions_epoch ON submissions (epoch);
`

// Store persists mine state and submissions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path, creating the schema as needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) LoadState(ctx context.Context) (entity.MineState, bool, error) {
	var st entity.MineState
	var seed []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT total_mined, difficulty, challenge_seed, epoch_number,
		        epoch_start_time, epoch_end_time, solutions_in_epoch, total_supply
		 FROM mine_state WHERE id = 1`,
	).Scan(&st.TotalMined, &st.Difficulty, &seed, &st.EpochNumber,
		&st.EpochStartTime, &st.EpochEndTime, &st.SolutionsInEpoch, &st.TotalSupply)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.MineState{}, false, nil
	}
	if err != nil {
		return entity.MineState{}, false, fmt.Errorf("load state: %w", err)
	}
	if len(seed) != len(st.ChallengeSeed) {
		return entity.MineState{}, false, fmt.Errorf("load state: seed is %d bytes", len(seed))
	}
	copy(st.ChallengeSeed[:], seed)
	return st, true, nil
}

func (s *Store) SaveState(ctx context.Context, st entity.MineState) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO mine_state (
		   id, total_mined, difficulty, challenge_seed, epoch_number,
		   epoch_start_time, epoch_end_time, solutions_in_epoch, total_supply
		 ) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   total_mined        = excluded.total_mined,
		   difficulty         = excluded.difficulty,
		   challenge_seed     = excluded.challenge_seed,
		   epoch_number       = excluded.epoch_number,
		   epoch_start_time   = excluded.epoch_start_time,
		   epoch_end_time     = excluded.epoch_end_time,
		   solutions_in_epoch = excluded.solutions_in_epoch,
		   total_supply       = excluded.total_supply`,
		st.TotalMined, st.Difficulty, st.ChallengeSeed[:], st.EpochNumber,
		st.EpochStartTime, st.EpochEndTime, st.SolutionsInEpoch, st.TotalSupply,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *Store) InsertSubmission(ctx context.Context, rec entity.SubmissionRecord) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO submissions (id, miner, epoch, nonce, digest) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Miner[:], rec.Epoch, rec.Nonce, rec.Digest[:],
	)
	if err != nil {
		if isConstraintErr(err) {
			return ledger.ErrDuplicateSubmission
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *Store) GetSubmission(ctx context.Context, miner [32]byte, epoch uint64) (entity.SubmissionRecord, error) {
	rec := entity.SubmissionRecord{Epoch: epoch}
	var minerRaw, digest []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, miner, nonce, digest FROM submissions WHERE miner = ? AND epoch = ?`,
		miner[:], epoch,
	).Scan(&rec.ID, &minerRaw, &rec.Nonce, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.SubmissionRecord{}, ledger.ErrNoSubmission
	}
	if err != nil {
		return entity.SubmissionRecord{}, fmt.Errorf("get submission: %w", err)
	}
	copy(rec.Miner[:], minerRaw)
	copy(rec.Digest[:], digest)
	return rec, nil
}

func (s *Store) DeleteSubmission(ctx context.Context, miner [32]byte, epoch uint64) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM submissions WHERE miner = ? AND epoch = ?`, miner[:], epoch,
	)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNoSubmission
	}
	return nil
}

func (s *Store) CountSubmissions(ctx context.Context, epoch uint64) (uint64, error) {
	var n uint64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE epoch = ?`, epoch,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

func isConstraintErr(err error) bool {
	var serr *msqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT,
		sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY,
		sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
