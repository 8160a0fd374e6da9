package videos

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for video repository operations.
//
// Registration is append-only: the same public id may be inserted more
// than once, and FindLatestByPublicID resolves to the most recent record.
type Repository interface {
	Insert(ctx context.Context, v *Video) error
	FindLatestByPublicID(ctx context.Context, publicID string) (*Video, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*Video, error)
}
