package persistence

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/interest-ledger/internal/config"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoDB_Database(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	// mongo.Connect does not dial, so a client without a server is enough here
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	assert.NoError(t, err)
	database := client.Database("interest_ledger")

	mdb := &MongoDB{
		logger:   logger,
		client:   client,
		database: database,
	}
	assert.Equal(t, database, mdb.Database())
	assert.NoError(t, mdb.Close(context.Background()))
}

func TestNewMongoDB_InvalidURI(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	_, err := NewMongoDB(context.Background(), logger, &config.MongoDBConfig{
		URI:      "not-a-mongo-uri",
		Database: "interest_ledger",
		Timeout:  time.Second,
	})
	assert.ErrorContains(t, err, "failed to connect to MongoDB")
}
