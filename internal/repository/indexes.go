package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureTeamIndexes creates the unique indexes that arbitrate concurrent registrations.
func EnsureTeamIndexes(ctx context.Context, coll *mongo.Collection) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "teamName", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("teamName_1"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
		{
			Keys:    bson.D{{Key: "confirmationToken", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("confirmationToken_1"),
		},
		{
			Keys:    bson.D{{Key: "registrationDate", Value: -1}},
			Options: options.Index().SetName("registrationDate_-1"),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return errors.Wrap(err, "creating team indexes")
	}

	return nil
}
