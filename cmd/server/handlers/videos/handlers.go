package videos

import (
	"context"

	"clipmark/cmd/server/handlers/handlerutil"
	"clipmark/internal/logger"
	"clipmark/internal/services/videos"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for the videos service
type Service interface {
	Register(ctx context.Context, ownerID bson.ObjectID, publicID string) (*videos.Video, error)
}

// Handlers contains the videos HTTP handlers
type Handlers struct {
	service Service
}

// NewHandlers creates new videos handlers
func NewHandlers(service Service) *Handlers {
	return &Handlers{
		service: service,
	}
}

// Register handles video registration
// @Summary Register a video to the calling user
// @Tags videos
// @Accept json
// @Produce json
// @Security Bearer
// @Param public_id path string true "Video public ID"
// @Success 201 {object} videos.Video
// @Failure 401 {object} httperr.E
// @Router /videos/{public_id} [put]
func (h *Handlers) Register(c *fiber.Ctx) error {
	ownerID, err := handlerutil.RequireCaller(c)
	if err != nil {
		return err
	}

	publicID := c.Params("public_id")

	video, err := h.service.Register(c.Context(), ownerID, publicID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Register")
	}

	logger.L().Info("video registered", "public_id", video.PublicID, "owner_id", ownerID.Hex())
	return c.Status(201).JSON(video)
}
