package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/san-kum/ksim/internal/kuramoto"

	_ "modernc.org/sqlite"
)

// StudyRow is one simulated grid point of a sweep or search.
type StudyRow struct {
	N     int
	K     float64
	Seed  uint64
	RMean float64
	RStd  float64
	Score float64
	Skip  bool
}

// Study groups the rows of one sweep or search with the parameters they
// were derived from.
type Study struct {
	ID      string
	Kind    string
	Created time.Time
	Base    kuramoto.Params
	Rows    []StudyRow
}

// StudyStore persists studies in a SQLite database.
type StudyStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewStudyStore(path string) *StudyStore {
	return &StudyStore{path: path}
}

func (s *StudyStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// NewStudyID names a study after its kind and creation time.
func NewStudyID(kind string, created time.Time) string {
	return fmt.Sprintf("%s_%d", kind, created.UnixNano())
}

func (s *StudyStore) SaveStudy(ctx context.Context, study Study) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	base, err := json.Marshal(study.Base)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO studies (id, kind, created_at, base_params)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			created_at = excluded.created_at,
			base_params = excluded.base_params
	`, study.ID, study.Kind, study.Created.UTC().Format(time.RFC3339Nano), base); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM study_rows WHERE study_id = ?`, study.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO study_rows (study_id, idx, n, k, seed, r_mean, r_std, score, skip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range study.Rows {
		// Seeds are stored bit-for-bit; database/sql rejects uint64 with the high bit set.
		if _, err := stmt.ExecContext(ctx, study.ID, i, row.N, row.K, int64(row.Seed), row.RMean, row.RStd, row.Score, row.Skip); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *StudyStore) GetStudy(ctx context.Context, id string) (Study, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Study{}, false, err
	}

	study := Study{ID: id}
	var (
		created string
		base    []byte
	)
	err = db.QueryRowContext(ctx, `SELECT kind, created_at, base_params FROM studies WHERE id = ?`, id).
		Scan(&study.Kind, &created, &base)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Study{}, false, nil
		}
		return Study{}, false, err
	}
	if study.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Study{}, false, fmt.Errorf("decode study %s: %w", id, err)
	}
	if err := json.Unmarshal(base, &study.Base); err != nil {
		return Study{}, false, fmt.Errorf("decode study %s: %w", id, err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT n, k, seed, r_mean, r_std, score, skip FROM study_rows
		WHERE study_id = ? ORDER BY idx
	`, id)
	if err != nil {
		return Study{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row                StudyRow
			seed               int64
			rMean, rStd, score sql.NullFloat64
		)
		if err := rows.Scan(&row.N, &row.K, &seed, &rMean, &rStd, &score, &row.Skip); err != nil {
			return Study{}, false, err
		}
		row.Seed = uint64(seed)
		row.RMean, row.RStd, row.Score = orNaN(rMean), orNaN(rStd), orNaN(score)
		study.Rows = append(study.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Study{}, false, err
	}
	return study, true, nil
}

// ListStudies returns study headers, newest first, without their rows.
func (s *StudyStore) ListStudies(ctx context.Context) ([]Study, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, kind, created_at FROM studies ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	studies := make([]Study, 0)
	for rows.Next() {
		var (
			study   Study
			created string
		)
		if err := rows.Scan(&study.ID, &study.Kind, &created); err != nil {
			return nil, err
		}
		if study.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("decode study %s: %w", study.ID, err)
		}
		studies = append(studies, study)
	}
	return studies, rows.Err()
}

func (s *StudyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *StudyStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

// SQLite stores NaN as NULL, so a diverged row reads back as NaN.
func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS studies (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			created_at TEXT NOT NULL,
			base_params BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS study_rows (
			study_id TEXT NOT NULL REFERENCES studies(id),
			idx INTEGER NOT NULL,
			n INTEGER NOT NULL,
			k REAL NOT NULL,
			seed INTEGER NOT NULL,
			r_mean REAL,
			r_std REAL,
			score REAL,
			skip INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (study_id, idx)
		);
	`)
	if err != nil {
		return err
	}

	// Databases written before the skip column existed.
	var hasSkip int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pragma_table_info('study_rows') WHERE name = 'skip'`).Scan(&hasSkip); err != nil {
		return err
	}
	if hasSkip == 0 {
		_, err = db.ExecContext(ctx, `ALTER TABLE study_rows ADD COLUMN skip INTEGER NOT NULL DEFAULT 0`)
	}
	return err
}
