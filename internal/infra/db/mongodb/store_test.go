package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name                   string
		uri, database, options string
		expected               string
	}{
		{name: "uri simple", uri: "mongodb://localhost:27017", database: "ledger", expected: "mongodb://localhost:27017/ledger"},
		{name: "barra final", uri: "mongodb://localhost:27017/", database: "ledger", expected: "mongodb://localhost:27017/ledger"},
		{name: "con opciones", uri: "mongodb+srv://user:pw@cluster.example.net", database: "ledger", options: "retryWrites=true&w=majority", expected: "mongodb+srv://user:pw@cluster.example.net/ledger?retryWrites=true&w=majority"},
		{name: "opciones con interrogación", uri: "mongodb://localhost", database: "ledger", options: "?authSource=admin", expected: "mongodb://localhost/ledger?authSource=admin"},
		{name: "la uri ya trae base de datos", uri: "mongodb://localhost/other", database: "ledger", expected: "mongodb://localhost/other"},
		{name: "la uri ya trae parámetros", uri: "mongodb://localhost/other?ssl=true", database: "ledger", options: "w=1", expected: "mongodb://localhost/other?ssl=true&w=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildURI(tt.uri, tt.database, tt.options))
		})
	}
}

func TestWithTimestamps(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)

	fresh := withTimestamps(bson.M{"reference": "a"}, now)
	assert.Equal(t, now, fresh[createdAtField])
	assert.Equal(t, now, fresh[updatedAtField])

	original := bson.M{"reference": "b", createdAtField: earlier}
	kept := withTimestamps(original, now)
	assert.Equal(t, earlier, kept[createdAtField])
	assert.Equal(t, now, kept[updatedAtField])
	assert.NotContains(t, original, updatedAtField, "el documento original no se modifica")
}

func TestUpsertUpdate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	update := upsertUpdate(bson.M{"status": "completed"}, now)
	assert.Equal(t, bson.M{
		"$set":         bson.M{"status": "completed", updatedAtField: now},
		"$setOnInsert": bson.M{createdAtField: now},
	}, update)

	// Si el llamante fija createdAt no se duplica en $setOnInsert
	withCreated := upsertUpdate(bson.M{createdAtField: now.Add(-time.Hour)}, now)
	assert.NotContains(t, withCreated, "$setOnInsert")
}

func TestStore_WritesAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert many", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))
		store := NewStore(mt.Client, "test")

		res, err := store.InsertMany(context.Background(), "transactions", []bson.M{
			{"_id": "a", "reference": "a"},
			{"_id": "b", "reference": "b"},
		})

		require.NoError(mt, err)
		assert.Len(mt, res.InsertedIDs, 2)
	})

	mt.Run("insert many vacío no llama al servidor", func(mt *mtest.T) {
		store := NewStore(mt.Client, "test")

		res, err := store.InsertMany(context.Background(), "transactions", nil)

		require.NoError(mt, err)
		assert.Empty(mt, res.InsertedIDs)
	})

	mt.Run("upsert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "ref-1"}}}},
		))
		store := NewStore(mt.Client, "test")

		res, err := store.UpsertOne(context.Background(), "transactions", bson.M{"reference": "ref-1"}, bson.M{"status": "pending"})

		require.NoError(mt, err)
		assert.Equal(mt, int64(1), res.UpsertedCount)
	})

	mt.Run("find", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.transactions", mtest.FirstBatch,
			bson.D{{Key: "reference", Value: "ref-1"}},
			bson.D{{Key: "reference", Value: "ref-2"}},
		))
		store := NewStore(mt.Client, "test")

		var out []bson.M
		err := store.Find(context.Background(), "transactions", bson.M{"status": "pending"}, &out)

		require.NoError(mt, err)
		require.Len(mt, out, 2)
		assert.Equal(mt, "ref-2", out[1]["reference"])
	})

	mt.Run("error de comando", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"}))
		store := NewStore(mt.Client, "test")

		var out []bson.M
		err := store.Aggregate(context.Background(), "transactions", mongo.Pipeline{}, &out)

		assert.Error(mt, err)
	})
}

// Test de integración: requiere un MongoDB real.
func TestConnect_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI no está configurada, saltando test de integración con MongoDB")
	}

	store, err := Connect(context.Background(), Options{URI: uri, Database: "hexatransactions_test", ConnectTimeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close(context.Background())

	assert.Equal(t, "transactions", store.Collection("transactions").Name())
}

func TestConnect_FailsFastOnUnreachableServer(t *testing.T) {
	if testing.Short() {
		t.Skip("necesita esperar al timeout de selección de servidor")
	}

	_, err := Connect(context.Background(), Options{
		URI:            "mongodb://127.0.0.1:1",
		Database:       "ledger",
		URIOptions:     "serverSelectionTimeoutMS=200&connectTimeoutMS=200",
		ConnectTimeout: 2 * time.Second,
	}, zap.NewNop())

	assert.Error(t, err)
}

func TestConnect_RetriesPing(t *testing.T) {
	if testing.Short() {
		t.Skip("necesita esperar al timeout de selección de servidor")
	}
	core, logs := observer.New(zapcore.WarnLevel)

	_, err := Connect(context.Background(), Options{
		URI:            "mongodb://127.0.0.1:1",
		Database:       "ledger",
		URIOptions:     "serverSelectionTimeoutMS=200&connectTimeoutMS=200",
		ConnectTimeout: time.Second,
		PingAttempts:   2,
		RetryDelay:     10 * time.Millisecond,
	}, zap.New(core))

	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("⚠️ MongoDB no responde, reintentando").Len())
}
