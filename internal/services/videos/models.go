package videos

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Video lifecycle states.
const (
	StatusUpcoming  = "upcoming"
	StatusStreaming = "streaming"
	StatusStreamed  = "streamed"
)

// Video represents a registered video. The public id is the identifier
// viewers know (e.g. the platform video id); the owner is whoever
// registered it.
type Video struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"-"`
	PublicID  string        `bson:"public_id" json:"public_id" example:"xyz"`
	OwnerID   bson.ObjectID `bson:"owner_id" json:"-"`
	Status    string        `bson:"status" json:"status" example:"upcoming"`
	CreatedAt time.Time     `bson:"created_at" json:"-"`
}
