package mongo

import (
	"context"
	"errors"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "workout_progress"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new progress repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// GetOrCreate resolves creation races with a single upsert under the unique
// (userId, workoutId) index: the fresh record goes in via $setOnInsert, so a
// concurrent creator simply reads back whichever document won the insert.
// Never check-then-insert here; that is exactly the duplicate-record race.
func (r *mongoProgressRepository) GetOrCreate(ctx context.Context, fresh *domain.ProgressRecord) (*domain.ProgressRecord, error) {
	if fresh.UserID == primitive.NilObjectID || fresh.WorkoutID == primitive.NilObjectID {
		return nil, errors.New("progress record requires userId and workoutId")
	}
	if fresh.ID == primitive.NilObjectID {
		fresh.ID = primitive.NewObjectID()
	}

	filter := bson.M{"userId": fresh.UserID, "workoutId": fresh.WorkoutID}
	update := bson.M{"$setOnInsert": fresh}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var rec domain.ProgressRecord
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get retrieves the record for one (user, workout) pair.
func (r *mongoProgressRepository) Get(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.ProgressRecord, error) {
	filter := bson.M{"userId": userID, "workoutId": workoutID}
	var rec domain.ProgressRecord
	err := r.collection.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Save replaces the full snapshot conditional on the version the caller read.
// The whole document (log + every derived field) lands in one write, so a
// reader can never observe a fresh completedDays next to a stale streak.
func (r *mongoProgressRepository) Save(ctx context.Context, rec *domain.ProgressRecord) error {
	if rec.ID == primitive.NilObjectID {
		return errors.New("progress record ID is required for save")
	}

	readVersion := rec.Version
	rec.Version = readVersion + 1

	filter := bson.M{"_id": rec.ID, "version": readVersion}
	result, err := r.collection.ReplaceOne(ctx, filter, rec)
	if err != nil {
		rec.Version = readVersion
		return err
	}
	if result.MatchedCount == 0 {
		// The document exists (we hold its _id) but its version moved on:
		// another device's write landed first.
		rec.Version = readVersion
		return repository.ErrConflict
	}
	return nil
}

// TouchLastAccessed bumps the access timestamp outside the version guard;
// last write wins is acceptable for lastAccessedAt.
func (r *mongoProgressRepository) TouchLastAccessed(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	filter := bson.M{"userId": userID, "workoutId": workoutID}
	update := bson.M{"$set": bson.M{"lastAccessedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByUser returns all of the user's records, most recently accessed first.
func (r *mongoProgressRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressRecord, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "lastAccessedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.ProgressRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AggregateRating computes the catalog rollup over every user's rating of one
// workout.
func (r *mongoProgressRepository) AggregateRating(ctx context.Context, workoutID primitive.ObjectID) (repository.WorkoutRatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"workoutId":  workoutID,
			"userRating": bson.M{"$exists": true, "$ne": nil},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$userRating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return repository.WorkoutRatingSummary{}, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return repository.WorkoutRatingSummary{}, err
	}
	if len(results) == 0 {
		return repository.WorkoutRatingSummary{}, nil
	}
	return repository.WorkoutRatingSummary{
		Average: results[0].Average,
		Count:   results[0].Count,
	}, nil
}

// EnsureProgressIndexes creates necessary indexes. Call during startup.
// The unique (userId, workoutId) index is what makes GetOrCreate race-safe.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "workoutId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Overview endpoint: per-user scan sorted by recency.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "lastAccessedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Rating rollup: per-workout scan of rated records.
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "userRating", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
