// Package ctxkeys centralizes the fiber.Ctx.Locals keys shared between
// middlewares and handlers.
package ctxkeys

const (
	// UserIDKey holds the authenticated caller's id (hex string).
	// Absent on anonymous requests.
	UserIDKey = "userID"

	// UserEmailKey holds the authenticated caller's email.
	UserEmailKey = "userEmail"

	// ChannelKey holds the video public id a WebSocket viewer subscribes to.
	ChannelKey = "wsChannel"

	// ParentCtxKey carries the request-bound context into the WebSocket handler.
	ParentCtxKey = "parentCtx"
)
