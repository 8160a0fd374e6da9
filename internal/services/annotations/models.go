package annotations

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Annotation represents a time-synchronized note attached to a video.
// Payload is an opaque document supplied by the caller and is stored and
// re-emitted verbatim. A nil Position means the annotation is still a
// draft; publishing assigns a playback position. The pointer keeps
// position 0 distinguishable from "not published".
type Annotation struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoID   bson.ObjectID `bson:"video_id" json:"-"`
	Payload   any           `bson:"payload" json:"payload"`
	Position  *float64      `bson:"position,omitempty" json:"position"`
	CreatedAt time.Time     `bson:"created_at" json:"-"`
}

// Published reports whether the annotation has a playback position.
func (a *Annotation) Published() bool {
	return a.Position != nil
}

// View is the caller-facing projection of an annotation. The owner sees
// the id; everyone else gets the redacted shape with the id left empty
// (and therefore omitted from the JSON encoding).
type View struct {
	ID       string   `json:"id,omitempty"`
	Payload  any      `json:"payload"`
	Position *float64 `json:"position"`
}

// OwnerView projects an annotation for its video's owner.
func OwnerView(a *Annotation) View {
	return View{
		ID:       a.ID.Hex(),
		Payload:  a.Payload,
		Position: a.Position,
	}
}

// ViewerView projects an annotation for a viewer who is not the owner.
// The id is owner-private and is deliberately not included.
func ViewerView(a *Annotation) View {
	return View{
		Payload:  a.Payload,
		Position: a.Position,
	}
}

// PublishEvent is the exact message fanned out to live viewers of a
// video when an annotation is published.
type PublishEvent struct {
	Position float64 `json:"position"`
	Payload  any     `json:"payload"`
}
