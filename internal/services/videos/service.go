package videos

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles video registration and lookup
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new videos service
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Register records publicID as owned by ownerID. Registration inserts a
// new record on every call; Resolve always returns the latest one, so
// re-registering a public id reassigns its effective owner.
func (s *Service) Register(ctx context.Context, ownerID bson.ObjectID, publicID string) (*Video, error) {
	video := &Video{
		ID:        bson.NewObjectID(),
		PublicID:  publicID,
		OwnerID:   ownerID,
		Status:    StatusUpcoming,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Insert(ctx, video); err != nil {
		s.log.Error(ErrRegisterVideo.Error(), "error", err, "owner_id", ownerID.Hex(), "public_id", publicID)
		return nil, ErrRegisterVideo
	}

	return video, nil
}

// Resolve returns the most recently registered video for publicID.
func (s *Service) Resolve(ctx context.Context, publicID string) (*Video, error) {
	video, err := s.repo.FindLatestByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		s.log.Error(ErrResolveVideo.Error(), "error", err, "public_id", publicID)
		return nil, ErrResolveVideo
	}
	return video, nil
}

// Exists reports whether publicID resolves to a registered video.
func (s *Service) Exists(ctx context.Context, publicID string) (bool, error) {
	_, err := s.Resolve(ctx, publicID)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get returns the video with the given internal id.
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*Video, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		s.log.Error(ErrResolveVideo.Error(), "error", err, "video_id", id.Hex())
		return nil, ErrResolveVideo
	}
	return video, nil
}
