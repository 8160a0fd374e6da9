package annotations

import (
	"context"

	"clipmark/cmd/server/handlers/handlerutil"
	"clipmark/internal/services/annotations"
	"clipmark/internal/services/videos"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for the annotations service
type Service interface {
	Add(ctx context.Context, caller *bson.ObjectID, videoPublicID string, payload any) (*annotations.Annotation, error)
	List(ctx context.Context, caller *bson.ObjectID, videoPublicID string) ([]annotations.View, error)
	Publish(ctx context.Context, caller *bson.ObjectID, annotationID bson.ObjectID, position float64) (*annotations.Annotation, error)
	Delete(ctx context.Context, caller *bson.ObjectID, annotationID bson.ObjectID) error
}

// Handlers contains the annotations HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new annotations handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Add handles draft annotation creation
// @Summary Add a draft annotation to a video
// @Tags annotations
// @Accept json
// @Produce json
// @Security Bearer
// @Param public_id path string true "Video public ID"
// @Param request body annotations.AddAnnotationRequest true "Add annotation request"
// @Success 201 {object} annotations.View
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /videos/{public_id}/annotations [post]
func (h *Handlers) Add(c *fiber.Ctx) error {
	caller, err := handlerutil.RequireCaller(c)
	if err != nil {
		return err
	}

	var req annotations.AddAnnotationRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Add"); err != nil {
		return err
	}

	created, err := h.service.Add(c.Context(), &caller, c.Params("public_id"), req.Payload)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Add", videos.ErrVideoNotFound)
	}

	return c.Status(201).JSON(annotations.OwnerView(created))
}

// List handles annotation listing.
//
// The response shape depends on who asks: the video owner gets every
// annotation with ids, anyone else gets published annotations without
// ids. The projection is decided in the service, not by serialization.
//
// @Summary List annotations of a video
// @Tags annotations
// @Accept json
// @Produce json
// @Param public_id path string true "Video public ID"
// @Success 200 {array} annotations.View
// @Failure 404 {object} httperr.E
// @Router /videos/{public_id}/annotations [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	caller := handlerutil.OptionalCaller(c)

	views, err := h.service.List(c.Context(), caller, c.Params("public_id"))
	if err != nil {
		return handlerutil.HandleServiceError(err, "List", videos.ErrVideoNotFound)
	}

	return c.JSON(views)
}

// Publish handles assigning a playback position to an annotation
// @Summary Publish an annotation at a playback position
// @Tags annotations
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Annotation ID"
// @Param request body annotations.PublishAnnotationRequest true "Publish request"
// @Success 200 {object} annotations.View
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /annotations/{id}/publish [post]
func (h *Handlers) Publish(c *fiber.Ctx) error {
	caller, err := handlerutil.RequireCaller(c)
	if err != nil {
		return err
	}

	annotationID, err := handlerutil.ExtractAnnotationID(c, "Publish")
	if err != nil {
		return err
	}

	var req annotations.PublishAnnotationRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Publish"); err != nil {
		return err
	}

	updated, err := h.service.Publish(c.Context(), &caller, annotationID, *req.Position)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Publish", annotations.ErrAnnotationNotFound)
	}

	return c.JSON(annotations.OwnerView(updated))
}

// Delete handles annotation deletion
// @Summary Delete an annotation
// @Tags annotations
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Annotation ID"
// @Success 204
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /annotations/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	caller, err := handlerutil.RequireCaller(c)
	if err != nil {
		return err
	}

	annotationID, err := handlerutil.ExtractAnnotationID(c, "Delete")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), &caller, annotationID); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", annotations.ErrAnnotationNotFound)
	}

	return c.SendStatus(204)
}
