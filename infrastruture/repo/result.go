package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/trapmaze/domain"
	"github.com/beka-birhanu/trapmaze/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepo handles the persistence of run results.
type ResultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a ResultRepo on the given database and collection.
func NewResultRepo(client *mongo.Client, dbName, collectionName string) *ResultRepo {
	return &ResultRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// Save inserts or replaces the result with the same id.
func (r *ResultRepo) Save(ctx context.Context, res *dmn.Result) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	filter := bson.M{"_id": res.ID.String()}
	update := bson.M{
		"$set": bson.M{
			"mazeFile":   res.MazeFile,
			"solved":     res.Solved,
			"rounds":     res.Rounds,
			"commands":   res.Commands,
			"xrayUsed":   res.XrayUsed,
			"startedAt":  res.StartedAt,
			"finishedAt": res.FinishedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("saving result %s: %w", res.ID, err)
	}
	return nil
}

// ByID retrieves the result of a run.
func (r *ResultRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var doc resultDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, i.ErrResultNotFound
		}
		return nil, fmt.Errorf("loading result %s: %w", id, err)
	}
	return doc.toDomain(id), nil
}

// resultDoc is the stored shape. The id is kept as its string form so the
// documents stay readable from the mongo shell.
type resultDoc struct {
	ID         string    `bson:"_id"`
	MazeFile   string    `bson:"mazeFile"`
	Solved     bool      `bson:"solved"`
	Rounds     int       `bson:"rounds"`
	Commands   int       `bson:"commands"`
	XrayUsed   int       `bson:"xrayUsed"`
	StartedAt  time.Time `bson:"startedAt"`
	FinishedAt time.Time `bson:"finishedAt"`
}

func (d resultDoc) toDomain(id uuid.UUID) *dmn.Result {
	return &dmn.Result{
		ID:         id,
		MazeFile:   d.MazeFile,
		Solved:     d.Solved,
		Rounds:     d.Rounds,
		Commands:   d.Commands,
		XrayUsed:   d.XrayUsed,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
	}
}
