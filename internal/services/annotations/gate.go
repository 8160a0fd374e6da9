package annotations

import "go.mongodb.org/mongo-driver/v2/bson"

// Access decisions. Caller identity is optional: nil means anonymous.
// Reads never fail on identity, they only narrow the result; mutations
// are rejected outright for anyone but the owner.

// CanViewAll reports whether caller may see every annotation of a video
// owned by ownerID, drafts and ids included. Anyone else falls back to
// the published-only, redacted view.
func CanViewAll(caller *bson.ObjectID, ownerID bson.ObjectID) bool {
	return caller != nil && *caller == ownerID
}

// CanMutate reports whether caller may publish or delete annotations of
// a video owned by ownerID.
func CanMutate(caller *bson.ObjectID, ownerID bson.ObjectID) bool {
	return caller != nil && *caller == ownerID
}
