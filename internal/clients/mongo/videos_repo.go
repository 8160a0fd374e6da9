package mongo

import (
	"context"
	"errors"
	"fmt"

	"clipmark/internal/logger"
	"clipmark/internal/services/videos"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// VideosRepo implements the videos.Repository interface for MongoDB
type VideosRepo struct {
	collection *mongo.Collection
}

// NewVideosRepo creates a new videos repository.
//
// The public_id index is deliberately NOT unique: registration is
// append-only and lookups resolve the latest record for a public id.
func NewVideosRepo(parentCtx context.Context, db *mongo.Database) (*VideosRepo, error) {
	collection := db.Collection("videos")

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "public_id", Value: 1},
			{Key: "_id", Value: -1},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.L().Debug("index already exists, continuing", "collection", "videos")
		} else {
			logger.L().Error("failed to create index", "collection", "videos", "error", err)
			return nil, fmt.Errorf("failed to create videos collection index: %w", err)
		}
	}

	return &VideosRepo{
		collection: collection,
	}, nil
}

// Insert stores a new video registration
func (r *VideosRepo) Insert(ctx context.Context, v *videos.Video) error {
	ctx, cancel := WithRepoTimeout(ctx, OpTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, v)
	return err
}

// FindLatestByPublicID returns the most recently registered video for publicID
func (r *VideosRepo) FindLatestByPublicID(ctx context.Context, publicID string) (*videos.Video, error) {
	ctx, cancel := WithRepoTimeout(ctx, OpTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var video videos.Video
	err := r.collection.FindOne(ctx, bson.M{"public_id": publicID}, opts).Decode(&video)
	if err != nil {
		return nil, translateVideoNotFound(err)
	}

	return &video, nil
}

// FindByID returns the video with the given internal id
func (r *VideosRepo) FindByID(ctx context.Context, id bson.ObjectID) (*videos.Video, error) {
	ctx, cancel := WithRepoTimeout(ctx, OpTimeout)
	defer cancel()

	var video videos.Video
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if err != nil {
		return nil, translateVideoNotFound(err)
	}

	return &video, nil
}

// translateVideoNotFound maps the driver ErrNoDocuments to the domain-level ErrVideoNotFound.
func translateVideoNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return videos.ErrVideoNotFound
	}
	return err
}
