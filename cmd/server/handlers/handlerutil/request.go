package handlerutil

import (
	"errors"

	"clipmark/cmd/server/ctxkeys"
	"clipmark/cmd/server/handlers/httperr"
	"clipmark/internal/logger"
	"clipmark/internal/services/annotations"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// NotFoundError wraps a domain not-found error in a 404 response.
func NotFoundError(err error) error {
	return httperr.Fail(httperr.E{
		Status:  404,
		Message: err.Error(),
	})
}

// RequireCaller extracts the authenticated caller id from the fiber
// context. It is only valid behind the JWT middleware.
func RequireCaller(c *fiber.Ctx) (bson.ObjectID, error) {
	userIDStr, ok := c.Locals(ctxkeys.UserIDKey).(string)
	if !ok {
		logger.L().Error("user ID not found in context", "handler", "RequireCaller", "path", c.Path())
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}

	userID, err := bson.ObjectIDFromHex(userIDStr)
	if err != nil {
		logger.L().Error("invalid user ID", "handler", "RequireCaller", "userIDStr", userIDStr, "path", c.Path(), "error", err)
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}

	return userID, nil
}

// OptionalCaller returns the caller id when the request was
// authenticated, or nil for anonymous requests. It never fails.
func OptionalCaller(c *fiber.Ctx) *bson.ObjectID {
	userIDStr, ok := c.Locals(ctxkeys.UserIDKey).(string)
	if !ok {
		return nil
	}

	userID, err := bson.ObjectIDFromHex(userIDStr)
	if err != nil {
		logger.L().Warn("invalid user ID for optional caller", "userIDStr", userIDStr, "path", c.Path(), "error", err)
		return nil
	}

	return &userID
}

// ParseAndValidateBody parses request body and validates it
func ParseAndValidateBody(c *fiber.Ctx, req any, validator *validator.Validate, handlerName string) error {
	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "path", c.Path(), "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := validator.Struct(req); err != nil {
		logger.L().Warn("request validation failed", "handler", handlerName, "path", c.Path(), "error", err)
		return httperr.InvalidInput(err)
	}

	return nil
}

// ExtractAnnotationID extracts and validates the annotation id from the
// URL parameter. A missing or malformed id is indistinguishable from a
// nonexistent annotation, so both map to 404.
func ExtractAnnotationID(c *fiber.Ctx, handlerName string) (bson.ObjectID, error) {
	idStr := c.Params("id")
	if idStr == "" {
		logger.L().Warn("missing annotation ID parameter", "handler", handlerName, "path", c.Path())
		return bson.ObjectID{}, NotFoundError(annotations.ErrAnnotationNotFound)
	}

	id, err := bson.ObjectIDFromHex(idStr)
	if err != nil {
		logger.L().Warn("invalid annotation ID parameter", "handler", handlerName, "idStr", idStr, "error", err)
		return bson.ObjectID{}, NotFoundError(annotations.ErrAnnotationNotFound)
	}

	return id, nil
}

// HandleServiceError maps service errors onto the HTTP taxonomy:
// unauthorized -> 401, forbidden -> 403, the supplied not-found
// sentinels -> 404, everything else -> 500.
func HandleServiceError(err error, handlerName string, notFoundErrs ...error) error {
	logFields := []any{"handler", handlerName, "error", err}

	if errors.Is(err, annotations.ErrUnauthorized) {
		logger.L().Info("unauthenticated request", logFields...)
		return httperr.Fail(httperr.ErrUnauthorized)
	}
	if errors.Is(err, annotations.ErrForbidden) {
		logger.L().Info("forbidden request", logFields...)
		return httperr.Fail(httperr.ErrForbidden)
	}
	for _, notFound := range notFoundErrs {
		if errors.Is(err, notFound) {
			logger.L().Info("resource not found", logFields...)
			return NotFoundError(notFound)
		}
	}

	logger.L().Error("service operation failed", logFields...)
	return httperr.Fail(httperr.E{
		Status:  500,
		Message: err.Error(),
	})
}
