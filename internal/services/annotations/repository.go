package annotations

import (
	"context"

	"clipmark/internal/services/videos"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for annotation repository operations.
// Each mutation is atomic per record; a concurrent publish and delete of
// the same annotation never produce a partial state.
type Repository interface {
	Create(ctx context.Context, a *Annotation) error
	Get(ctx context.Context, id bson.ObjectID) (*Annotation, error)
	ListByVideo(ctx context.Context, videoID bson.ObjectID) ([]*Annotation, error)
	// UpdatePosition overwrites the position (last write wins) and
	// returns the updated record.
	UpdatePosition(ctx context.Context, id bson.ObjectID, position float64) (*Annotation, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// Bus defines the interface for fanning out publish events to live
// viewers. Delivery is fire-and-forget: no error, no retry, nothing
// kept for viewers who are not connected at push time.
type Bus interface {
	Publish(ctx context.Context, channel string, ev PublishEvent)
}

// VideoDirectory resolves video identifiers to their records. Satisfied
// by the videos service.
type VideoDirectory interface {
	Resolve(ctx context.Context, publicID string) (*videos.Video, error)
	Get(ctx context.Context, id bson.ObjectID) (*videos.Video, error)
}
