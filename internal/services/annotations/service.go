package annotations

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service orchestrates the annotation lifecycle: drafts are added by any
// signed-in caller, the video owner publishes them to a playback
// position (broadcast to live viewers) or deletes them.
type Service struct {
	repo   Repository
	videos VideoDirectory
	bus    Bus
	log    *slog.Logger
}

// NewService creates a new annotations service
func NewService(repo Repository, videos VideoDirectory, bus Bus, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		videos: videos,
		bus:    bus,
		log:    log,
	}
}

// AddAnnotationRequest represents an annotation creation request.
// Payload is an arbitrary document and is never reinterpreted.
type AddAnnotationRequest struct {
	Payload any `json:"payload" validate:"required"`
}

// PublishAnnotationRequest represents a publish request. Position is a
// pointer so 0 validates as present.
type PublishAnnotationRequest struct {
	Position *float64 `json:"position" validate:"required" example:"10"`
}

// Add creates a draft annotation on the video known by videoPublicID.
// Any signed-in caller may add a draft to any video; ownership gates
// publish and delete, not add.
func (s *Service) Add(ctx context.Context, caller *bson.ObjectID, videoPublicID string, payload any) (*Annotation, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	video, err := s.videos.Resolve(ctx, videoPublicID)
	if err != nil {
		return nil, err
	}

	annotation := &Annotation{
		ID:        bson.NewObjectID(),
		VideoID:   video.ID,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, annotation); err != nil {
		s.log.Error(ErrCreateAnnotation.Error(), "error", err, "caller_id", caller.Hex(), "video", videoPublicID)
		return nil, ErrCreateAnnotation
	}

	return annotation, nil
}

// List returns the annotations of the video known by videoPublicID,
// projected for the caller: the owner gets everything including drafts
// and ids, anyone else (anonymous included) gets published annotations
// with the id redacted. Non-owners never get an error, just less.
func (s *Service) List(ctx context.Context, caller *bson.ObjectID, videoPublicID string) ([]View, error) {
	video, err := s.videos.Resolve(ctx, videoPublicID)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListByVideo(ctx, video.ID)
	if err != nil {
		s.log.Error(ErrListAnnotations.Error(), "error", err, "video", videoPublicID)
		return nil, ErrListAnnotations
	}

	if CanViewAll(caller, video.OwnerID) {
		views := make([]View, 0, len(all))
		for _, a := range all {
			views = append(views, OwnerView(a))
		}
		return views, nil
	}

	views := make([]View, 0, len(all))
	for _, a := range all {
		if !a.Published() {
			continue
		}
		views = append(views, ViewerView(a))
	}
	return views, nil
}

// Publish assigns a playback position to the annotation, making it
// visible to viewers. Republishing simply overwrites the position. On
// success the event is pushed to live viewers of the video; the push is
// best-effort and never fails the call.
func (s *Service) Publish(ctx context.Context, caller *bson.ObjectID, annotationID bson.ObjectID, position float64) (*Annotation, error) {
	annotation, err := s.repo.Get(ctx, annotationID)
	if err != nil {
		if errors.Is(err, ErrAnnotationNotFound) {
			return nil, ErrAnnotationNotFound
		}
		s.log.Error(ErrPublishAnnotation.Error(), "error", err, "annotation_id", annotationID.Hex())
		return nil, ErrPublishAnnotation
	}

	video, err := s.videos.Get(ctx, annotation.VideoID)
	if err != nil {
		s.log.Error(ErrPublishAnnotation.Error(), "error", err, "annotation_id", annotationID.Hex())
		return nil, ErrPublishAnnotation
	}

	if caller == nil {
		return nil, ErrUnauthorized
	}
	if !CanMutate(caller, video.OwnerID) {
		s.log.Info("publish denied", "caller_id", caller.Hex(), "annotation_id", annotationID.Hex())
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdatePosition(ctx, annotationID, position)
	if err != nil {
		if errors.Is(err, ErrAnnotationNotFound) {
			return nil, ErrAnnotationNotFound
		}
		s.log.Error(ErrPublishAnnotation.Error(), "error", err, "annotation_id", annotationID.Hex())
		return nil, ErrPublishAnnotation
	}

	// The store commit is authoritative; the fan-out happens after it
	// and its outcome does not affect the result.
	s.bus.Publish(ctx, video.PublicID, PublishEvent{
		Position: position,
		Payload:  updated.Payload,
	})

	return updated, nil
}

// Delete permanently removes the annotation. Owner-only; drafts and
// published annotations alike. No broadcast.
func (s *Service) Delete(ctx context.Context, caller *bson.ObjectID, annotationID bson.ObjectID) error {
	annotation, err := s.repo.Get(ctx, annotationID)
	if err != nil {
		if errors.Is(err, ErrAnnotationNotFound) {
			return ErrAnnotationNotFound
		}
		s.log.Error(ErrDeleteAnnotation.Error(), "error", err, "annotation_id", annotationID.Hex())
		return ErrDeleteAnnotation
	}

	video, err := s.videos.Get(ctx, annotation.VideoID)
	if err != nil {
		s.log.Error(ErrDeleteAnnotation.Error(), "error", err, "annotation_id", annotationID.Hex())
		return ErrDeleteAnnotation
	}

	if caller == nil {
		return ErrUnauthorized
	}
	if !CanMutate(caller, video.OwnerID) {
		s.log.Info("delete denied", "caller_id", caller.Hex(), "annotation_id", annotationID.Hex())
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, annotationID); err != nil {
		if errors.Is(err, ErrAnnotationNotFound) {
			return ErrAnnotationNotFound
		}
		s.log.Error(ErrDeleteAnnotation.Error(), "error", err, "annotation_id", annotationID.Hex())
		return ErrDeleteAnnotation
	}

	return nil
}
