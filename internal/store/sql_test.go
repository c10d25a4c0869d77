package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(context.Background(), dbPath, "player_stats")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}

func TestSQLite_InsertMany_PreservesOrderAndContent(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []model.Record{
		{"Event": "Masters Tokyo", "Player": "Derke", "K": "210"},
		{"Event": "Masters Tokyo", "Player": "Alfajer", "K": "N/A"},
		{"Event": "Champions 2023", "Player": "Demon1", "K": "300"},
	}
	ids, err := st.InsertMany(ctx, nil, records)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	rows, err := st.db.QueryContext(ctx, `SELECT id, doc FROM player_stats ORDER BY seq`)
	require.NoError(t, err)
	defer rows.Close() //nolint:errcheck

	var got []model.Record
	var gotIDs []string
	for rows.Next() {
		var id, doc string
		require.NoError(t, rows.Scan(&id, &doc))
		var r model.Record
		require.NoError(t, json.Unmarshal([]byte(doc), &r))
		got = append(got, r)
		gotIDs = append(gotIDs, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, records, got)
	assert.Equal(t, ids, gotIDs)
}

func TestSQLite_InsertMany_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	ids, err := st.InsertMany(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestSQLite_InsertMany_Appends(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.InsertMany(ctx, nil, []model.Record{{"Event": "a"}})
	require.NoError(t, err)
	_, err = st.InsertMany(ctx, nil, []model.Record{{"Event": "a"}})
	require.NoError(t, err)

	var n int
	require.NoError(t, st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM player_stats`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestSQLite_InsertMany_ClosedDB(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.db.Close())

	_, err := st.InsertMany(context.Background(), nil, []model.Record{{"Event": "a"}})
	require.Error(t, err)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "sqlite", we.Driver)
	assert.Equal(t, 1, we.Count)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Migrate(context.Background()))
}

func TestSQLServerDialect_Statements(t *testing.T) {
	assert.Contains(t, sqlServerDialect.ddl("player_stats"), "IF OBJECT_ID(N'player_stats', N'U') IS NULL")
	assert.Equal(t,
		"INSERT INTO player_stats (id, seq, doc, inserted_at) VALUES (@p1, @p2, @p3, @p4)",
		sqlServerDialect.insert("player_stats"))
}
