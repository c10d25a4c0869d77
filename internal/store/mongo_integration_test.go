//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

func startMongo(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Fatal(err)
		}
	})

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "27017")
	require.NoError(t, err)
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

func TestMongoStore_Integration(t *testing.T) {
	uri := startMongo(t)
	ctx := context.Background()

	st, err := Open(ctx, Config{Driver: "mongo", URL: uri, Database: "valorant", Collection: "player_stats"})
	require.NoError(t, err)
	ms := st.(*MongoStore)
	defer ms.Close() //nolint:errcheck

	records := []model.Record{
		{"Event": "Masters Madrid", "Player": "Demon1", "K": "180"},
		{"Event": "Masters Madrid", "Player": "Less", "K": "N/A"},
	}
	ids, err := ms.InsertMany(ctx, []string{"Event", "Player", "K"}, records)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	n, err := ms.coll.CountDocuments(ctx, bson.M{"Event": "Masters Madrid"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var doc bson.M
	require.NoError(t, ms.coll.FindOne(ctx, bson.M{"Player": "Less"}).Decode(&doc))
	assert.Equal(t, "N/A", doc["K"])

	var ordered bson.D
	require.NoError(t, ms.coll.FindOne(ctx, bson.M{"Player": "Demon1"}, options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&ordered))
	keys := make([]string, len(ordered))
	for i, e := range ordered {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"Event", "Player", "K"}, keys)
}
