package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"mongo ok", Config{Driver: "mongo", URL: "mongodb://localhost:27017", Database: "valorant", Collection: "player_stats"}, ""},
		{"sqlite ok", Config{Driver: "sqlite", URL: "stats.db", Collection: "player_stats"}, ""},
		{"unknown driver", Config{Driver: "redis", URL: "x", Collection: "c"}, "unsupported driver"},
		{"missing url", Config{Driver: "postgres", Collection: "c"}, "url is required"},
		{"bad collection", Config{Driver: "postgres", URL: "x", Collection: "player stats; drop"}, "invalid collection"},
		{"leading digit", Config{Driver: "sqlite", URL: "x", Collection: "1stats"}, "invalid collection"},
		{"mongo without database", Config{Driver: "mongo", URL: "mongodb://x", Collection: "c"}, "database is required"},
		{"mongo hyphenated collection", Config{Driver: "mongo", URL: "mongodb://x", Database: "valorant", Collection: "player-stats"}, ""},
		{"mongo dotted collection", Config{Driver: "mongo", URL: "mongodb://x", Database: "valorant", Collection: "stats.players"}, ""},
		{"mongo without collection", Config{Driver: "mongo", URL: "mongodb://x", Database: "valorant"}, "collection is required"},
		{"sqlserver hyphenated collection", Config{Driver: "sqlserver", URL: "x", Collection: "player-stats"}, "invalid collection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "cassandra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestOpenerFor_SQLite(t *testing.T) {
	cfg := Config{Driver: "sqlite", URL: t.TempDir() + "/stats.db", Collection: "player_stats"}
	st, err := OpenerFor(cfg)(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, st)
	assert.NoError(t, st.Close())
}

func TestErrorTypes_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")

	connErr := &ConnectionError{Driver: "mongo", Err: cause}
	assert.ErrorIs(t, connErr, cause)
	assert.Equal(t, "store: connect mongo: connection refused", connErr.Error())

	writeErr := &WriteError{Driver: "postgres", Count: 3, Err: cause}
	assert.ErrorIs(t, writeErr, cause)
	assert.Equal(t, "store: write 3 records to postgres: connection refused", writeErr.Error())

	var target *WriteError
	assert.True(t, errors.As(error(writeErr), &target))
}

func TestDiscard(t *testing.T) {
	st, err := DiscardOpener()(context.Background())
	require.NoError(t, err)

	ids, err := st.InsertMany(context.Background(), nil, make([]model.Record, 3))
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, st.Close())
}

func TestOrderedKeys(t *testing.T) {
	r := model.Record{"K": "1", "Player": "Less", "Event": "Masters", "zeta": "z", "alpha": "a"}

	assert.Equal(t, []string{"Event", "Player", "K", "alpha", "zeta"},
		orderedKeys([]string{"Event", "Player", "K"}, r))
	assert.Equal(t, []string{"Event", "K", "Player", "alpha", "zeta"}, orderedKeys(nil, r))
	assert.Equal(t, []string{"Player", "Event", "K", "alpha", "zeta"},
		orderedKeys([]string{"Player", "Missing", "Player", "Event"}, r))
}
