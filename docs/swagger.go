// Package docs ClipMark API
//
// @title  ClipMark API
// @version 0.1.0
// @description Video annotations with live publish events.
// @host      localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package docs

import (
	_ "clipmark/cmd/server/handlers/httperr"
	_ "clipmark/internal/services/annotations"
	_ "clipmark/internal/services/auth"
	_ "clipmark/internal/services/videos"
)
