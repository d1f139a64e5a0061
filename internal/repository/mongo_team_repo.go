package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const TeamCollection = "teams"

// Fields that can be grouped on by CountBy.
const (
	GroupByTrack      = "track"
	GroupByExperience = "experience"
)

type Team struct {
	ID                primitive.ObjectID `bson:"_id"`
	TeamName          string             `bson:"teamName"`
	TeamLeader        string             `bson:"teamLeader"`
	Email             string             `bson:"email"`
	Phone             string             `bson:"phone"`
	College           string             `bson:"college"`
	Members           []string           `bson:"members"`
	Experience        string             `bson:"experience"`
	Track             string             `bson:"track"`
	Idea              string             `bson:"idea"`
	RegistrationDate  time.Time          `bson:"registrationDate"`
	Status            string             `bson:"status"`
	ConfirmationToken string             `bson:"confirmationToken,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// TeamFilter narrows Count and List. Zero fields are ignored.
type TeamFilter struct {
	Track           string
	Experience      string
	RegisteredSince time.Time
}

func (f TeamFilter) bson() bson.D {
	d := bson.D{}
	if f.Track != "" {
		d = append(d, bson.E{Key: "track", Value: f.Track})
	}
	if f.Experience != "" {
		d = append(d, bson.E{Key: "experience", Value: f.Experience})
	}
	if !f.RegisteredSince.IsZero() {
		d = append(d, bson.E{Key: "registrationDate", Value: bson.D{{Key: "$gte", Value: f.RegisteredSince}}})
	}
	return d
}

type GroupCount struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	FindByNameOrEmail(ctx context.Context, teamName, email string) (*Team, error)
	Count(ctx context.Context, filter TeamFilter) (int64, error)
	List(ctx context.Context, filter TeamFilter, skip, limit int64) ([]*Team, error)
	Get(ctx context.Context, id string) (*Team, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) (*Team, error)
	Delete(ctx context.Context, id string) error
	CountBy(ctx context.Context, field string) ([]*GroupCount, error)
}

// The confirmation token never leaves the store.
var publicProjection = bson.D{{Key: "confirmationToken", Value: 0}}

type mongoTeamRepository struct {
	coll *mongo.Collection
}

func NewMongoTeamRepository(coll *mongo.Collection) TeamRepository {
	return &mongoTeamRepository{coll: coll}
}

func (m *mongoTeamRepository) Create(ctx context.Context, team *Team) error {
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}

	_, err := m.coll.InsertOne(ctx, team)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	}

	return errors.Wrap(err, "inserting team")
}

// FindByNameOrEmail prefers the team holding teamName over a different team holding email.
func (m *mongoTeamRepository) FindByNameOrEmail(ctx context.Context, teamName, email string) (*Team, error) {
	team, err := m.findOne(ctx, bson.D{{Key: "teamName", Value: teamName}})
	if !errors.Is(err, ErrNotFound) {
		return team, err
	}

	return m.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (m *mongoTeamRepository) Count(ctx context.Context, filter TeamFilter) (int64, error) {
	n, err := m.coll.CountDocuments(ctx, filter.bson())
	if err != nil {
		return 0, errors.Wrap(err, "counting teams")
	}
	return n, nil
}

func (m *mongoTeamRepository) List(ctx context.Context, filter TeamFilter, skip, limit int64) ([]*Team, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "registrationDate", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(publicProjection)

	cur, err := m.coll.Find(ctx, filter.bson(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "listing teams")
	}

	teams := make([]*Team, 0)
	if err = cur.All(ctx, &teams); err != nil {
		return nil, errors.Wrap(err, "decoding teams")
	}

	return teams, nil
}

func (m *mongoTeamRepository) Get(ctx context.Context, id string) (*Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	return m.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (m *mongoTeamRepository) UpdateStatus(ctx context.Context, id, status string, at time.Time) (*Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "updatedAt", Value: at},
	}}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)

	team := &Team{}
	err = m.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(team)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating team status")
	}

	return team, nil
}

func (m *mongoTeamRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := m.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return errors.Wrap(err, "deleting team")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// CountBy groups all teams by field, largest group first.
func (m *mongoTeamRepository) CountBy(ctx context.Context, field string) ([]*GroupCount, error) {
	if field != GroupByTrack && field != GroupByExperience {
		return nil, errors.Errorf("cannot group teams by %q", field)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "aggregating teams by %s", field)
	}

	counts := make([]*GroupCount, 0)
	if err = cur.All(ctx, &counts); err != nil {
		return nil, errors.Wrap(err, "decoding team counts")
	}

	return counts, nil
}

func (m *mongoTeamRepository) findOne(ctx context.Context, filter bson.D) (*Team, error) {
	team := &Team{}
	err := m.coll.FindOne(ctx, filter, options.FindOne().SetProjection(publicProjection)).Decode(team)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding team")
	}
	return team, nil
}
