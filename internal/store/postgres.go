package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore. pgxmock pools
// satisfy it as well.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	Close()
}

var recordColumns = []string{"id", "seq", "doc", "inserted_at"}

// PostgresStore implements Store on a PostgreSQL table with one JSONB
// document per record.
type PostgresStore struct {
	pool  Pool
	table string
	now   func() time.Time
}

// NewPostgres creates a PostgresStore with a small connection pool and makes
// sure the target table exists.
func NewPostgres(ctx context.Context, connString, table string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, &ConnectionError{Driver: "postgres", Err: eris.Wrap(err, "parse config")}
	}
	pgxCfg.MaxConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, &ConnectionError{Driver: "postgres", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &ConnectionError{Driver: "postgres", Err: err}
	}

	s := &PostgresStore{pool: pool, table: table, now: time.Now}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, &ConnectionError{Driver: "postgres", Err: err}
	}
	return s, nil
}

// Migrate creates the record table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id          TEXT PRIMARY KEY,
	seq         INTEGER NOT NULL,
	doc         JSONB NOT NULL,
	inserted_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, pgx.Identifier{s.table}.Sanitize())
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return eris.Wrapf(err, "postgres: create table %s", s.table)
	}
	return nil
}

// InsertMany writes all records through a single COPY.
func (s *PostgresStore) InsertMany(ctx context.Context, _ []string, records []model.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	now := s.now().UTC()
	ids := make([]string, len(records))
	rows := make([][]any, len(records))
	for i, r := range records {
		doc, err := json.Marshal(r)
		if err != nil {
			return nil, &WriteError{Driver: "postgres", Count: len(records), Err: eris.Wrap(err, "marshal record")}
		}
		ids[i] = uuid.New().String()
		rows[i] = []any{ids[i], int32(i), doc, now}
	}

	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{s.table}, recordColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return nil, &WriteError{Driver: "postgres", Count: len(records), Err: eris.Wrapf(err, "COPY INTO %s", s.table)}
	}
	if n != int64(len(records)) {
		return nil, &WriteError{Driver: "postgres", Count: len(records), Err: eris.Errorf("copied %d of %d rows", n, len(records))}
	}
	return ids, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
