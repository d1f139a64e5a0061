package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client for uri and verifies the primary is reachable within timeout.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mongo client")
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "failed to ping mongo")
	}

	return client, nil
}

// Pinger reports whether the store is reachable. It backs the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type clientPinger struct {
	client *mongo.Client
}

func NewPinger(client *mongo.Client) Pinger {
	return &clientPinger{client: client}
}

func (p *clientPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}
