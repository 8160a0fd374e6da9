package mongo

import (
	"context"
	"errors"
	"fmt"

	"clipmark/internal/logger"
	"clipmark/internal/services/annotations"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AnnotationsRepo implements the annotations.Repository interface for MongoDB.
// All mutations are single-document operations, so Mongo serializes a
// concurrent publish and delete of the same annotation for us.
type AnnotationsRepo struct {
	collection *mongo.Collection
}

func repoCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return WithRepoTimeout(parent, OpTimeout)
}

// NewAnnotationsRepo creates a new annotations repository
func NewAnnotationsRepo(parentCtx context.Context, db *mongo.Database) (*AnnotationsRepo, error) {
	collection := db.Collection("annotations")

	// Compound index for per-video listing in insertion order
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "video_id", Value: 1},
			{Key: "_id", Value: 1},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.L().Debug("index already exists, continuing", "collection", "annotations")
		} else {
			logger.L().Error("failed to create index", "collection", "annotations", "error", err)
			return nil, fmt.Errorf("failed to create annotations collection index: %w", err)
		}
	}

	return &AnnotationsRepo{
		collection: collection,
	}, nil
}

// Create stores a new annotation
func (r *AnnotationsRepo) Create(ctx context.Context, a *annotations.Annotation) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, a)
	return err
}

// Get returns the annotation with the given id
func (r *AnnotationsRepo) Get(ctx context.Context, id bson.ObjectID) (*annotations.Annotation, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var annotation annotations.Annotation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&annotation)
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &annotation, nil
}

// ListByVideo returns every annotation of the video in insertion order
func (r *AnnotationsRepo) ListByVideo(ctx context.Context, videoID bson.ObjectID) ([]*annotations.Annotation, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"video_id": videoID}, opts)
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	var list []*annotations.Annotation
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	return list, nil
}

// UpdatePosition overwrites the annotation's position and returns the
// updated record. Republishing just rewrites the field; no history.
func (r *AnnotationsRepo) UpdatePosition(ctx context.Context, id bson.ObjectID, position float64) (*annotations.Annotation, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"position": position}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated annotations.Annotation
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &updated, nil
}

// Delete removes the annotation permanently
func (r *AnnotationsRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return annotations.ErrAnnotationNotFound
	}

	return nil
}

// translateNotFound maps the driver ErrNoDocuments to the domain-level ErrAnnotationNotFound.
func translateNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return annotations.ErrAnnotationNotFound
	}
	return err
}
