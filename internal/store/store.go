// Package store persists batches of extracted records into a document store.
package store

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

// Store writes record batches. A Store is opened for one batch write and
// closed right after.
type Store interface {
	// InsertMany writes all records in one batch and returns their generated
	// identifiers in input order. fields is the preferred key order for
	// stores that keep it; keys missing from fields follow in sorted order.
	InsertMany(ctx context.Context, fields []string, records []model.Record) ([]string, error)

	// Close releases the connection.
	Close() error
}

// Opener connects to a store.
type Opener func(ctx context.Context) (Store, error)

// Config selects and addresses a store.
type Config struct {
	Driver     string `yaml:"driver" mapstructure:"driver"`
	URL        string `yaml:"url" mapstructure:"url"`
	Database   string `yaml:"database" mapstructure:"database"`
	Collection string `yaml:"collection" mapstructure:"collection"`
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that the driver is known and, for the SQL drivers, that the
// collection name is usable as a table name.
func (c Config) Validate() error {
	switch c.Driver {
	case "mongo", "postgres", "sqlite", "sqlserver":
	default:
		return eris.Errorf("store: unsupported driver %q (valid: mongo, postgres, sqlite, sqlserver)", c.Driver)
	}
	if c.URL == "" {
		return eris.Errorf("store: url is required for driver %s", c.Driver)
	}
	if c.Driver == "mongo" {
		if c.Collection == "" {
			return eris.New("store: collection is required for driver mongo")
		}
		if c.Database == "" {
			return eris.New("store: database is required for driver mongo")
		}
		return nil
	}
	if !identRe.MatchString(c.Collection) {
		return eris.Errorf("store: invalid collection name %q", c.Collection)
	}
	return nil
}

// orderedKeys returns the keys of r: those named in fields first, in that
// order, then the rest sorted.
func orderedKeys(fields []string, r model.Record) []string {
	keys := make([]string, 0, len(r))
	seen := make(map[string]bool, len(r))
	for _, f := range fields {
		if _, ok := r[f]; ok && !seen[f] {
			keys = append(keys, f)
			seen[f] = true
		}
	}
	var rest []string
	for k := range r {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Open connects to the store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case "mongo":
		return NewMongo(ctx, cfg.URL, cfg.Database, cfg.Collection)
	case "postgres":
		return NewPostgres(ctx, cfg.URL, cfg.Collection)
	case "sqlite":
		return NewSQLite(ctx, cfg.URL, cfg.Collection)
	default:
		return NewSQLServer(ctx, cfg.URL, cfg.Collection)
	}
}

// OpenerFor returns an Opener bound to cfg.
func OpenerFor(cfg Config) Opener {
	return func(ctx context.Context) (Store, error) {
		return Open(ctx, cfg)
	}
}

// ConnectionError reports that the store could not be reached or prepared.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store: connect %s: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// WriteError reports that the store rejected a batch.
type WriteError struct {
	Driver string
	Count  int
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store: write %d records to %s: %v", e.Count, e.Driver, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
