package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

type dialect struct {
	driver string
	ddl    func(table string) string
	insert func(table string) string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	ddl: func(table string) string {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id          TEXT PRIMARY KEY,
	seq         INTEGER NOT NULL,
	doc         TEXT NOT NULL,
	inserted_at DATETIME NOT NULL
)`, table)
	},
	insert: func(table string) string {
		return fmt.Sprintf(`INSERT INTO %s (id, seq, doc, inserted_at) VALUES (?, ?, ?, ?)`, table)
	},
}

var sqlServerDialect = dialect{
	driver: "sqlserver",
	ddl: func(table string) string {
		return fmt.Sprintf(`IF OBJECT_ID(N'%[1]s', N'U') IS NULL
CREATE TABLE %[1]s (
	id          NVARCHAR(36) PRIMARY KEY,
	seq         INT NOT NULL,
	doc         NVARCHAR(MAX) NOT NULL,
	inserted_at DATETIME2 NOT NULL
)`, table)
	},
	insert: func(table string) string {
		return fmt.Sprintf(`INSERT INTO %s (id, seq, doc, inserted_at) VALUES (@p1, @p2, @p3, @p4)`, table)
	},
}

// SQLStore implements Store on a database/sql driver. Documents are stored as
// JSON text.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	table   string
	now     func() time.Time
}

// NewSQLite opens (or creates) a SQLite database at dsn.
func NewSQLite(ctx context.Context, dsn, table string) (*SQLStore, error) {
	s, err := openSQL(ctx, sqliteDialect, dsn, table)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		s.db.Close() //nolint:errcheck
		return nil, &ConnectionError{Driver: "sqlite", Err: err}
	}
	return s, nil
}

// NewSQLServer connects to a SQL Server instance at dsn.
func NewSQLServer(ctx context.Context, dsn, table string) (*SQLStore, error) {
	return openSQL(ctx, sqlServerDialect, dsn, table)
}

func openSQL(ctx context.Context, d dialect, dsn, table string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, &ConnectionError{Driver: d.driver, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, &ConnectionError{Driver: d.driver, Err: err}
	}
	s := &SQLStore{db: db, dialect: d, table: table, now: time.Now}
	if err := s.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, &ConnectionError{Driver: d.driver, Err: err}
	}
	return s, nil
}

// Migrate creates the record table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.ddl(s.table)); err != nil {
		return eris.Wrapf(err, "%s: create table %s", s.dialect.driver, s.table)
	}
	return nil
}

// InsertMany writes all records in one transaction. Either every record is
// committed or none is.
func (s *SQLStore) InsertMany(ctx context.Context, _ []string, records []model.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	fail := func(err error) ([]string, error) {
		return nil, &WriteError{Driver: s.dialect.driver, Count: len(records), Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(eris.Wrap(err, "begin"))
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, s.dialect.insert(s.table))
	if err != nil {
		return fail(eris.Wrap(err, "prepare insert"))
	}
	defer stmt.Close() //nolint:errcheck

	now := s.now().UTC()
	ids := make([]string, len(records))
	for i, r := range records {
		doc, err := json.Marshal(r)
		if err != nil {
			return fail(eris.Wrap(err, "marshal record"))
		}
		ids[i] = uuid.New().String()
		if _, err := stmt.ExecContext(ctx, ids[i], i, string(doc), now); err != nil {
			return fail(eris.Wrapf(err, "insert record %d", i))
		}
	}
	if err := tx.Commit(); err != nil {
		return fail(eris.Wrap(err, "commit"))
	}
	return ids, nil
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
