package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestConnect_InvalidURI(t *testing.T) {
	client, err := Connect(context.Background(), "postgres://localhost:5432", time.Second)

	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestPinger(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reachable", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(t, NewPinger(mt.Client).Ping(context.Background()))
	})

	mt.Run("unreachable", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "not authorized"}))

		assert.Error(t, NewPinger(mt.Client).Ping(context.Background()))
	})
}
