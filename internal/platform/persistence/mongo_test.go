package persistence

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoDB_Snapshots(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// mongo.Connect does not dial until the first operation
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	database := client.Database("ledger")

	mdb := &MongoDB{
		logger:    logger,
		client:    client,
		database:  database,
		snapshots: "ledger_snapshots",
	}
	assert.Equal(t, "ledger_snapshots", mdb.Snapshots().Name())
	assert.Equal(t, "ledger", mdb.Snapshots().Database().Name())
}
