package middlewares

import (
	"clipmark/cmd/server/ctxkeys"
	"clipmark/cmd/server/handlers/httperr"
	"clipmark/internal/config"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWT returns a configured Fiber middleware that:
//
//   - validates the Bearer token signature using cfg.JWTSecret
//   - makes sure the token carries "user_id" and "email" claims
//   - stores those values in ctx.Locals so downstream handlers can
//     trust them.
//
// On any problem it bubbles up a 401 via the global httperr handler.
func JWT(cfg config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		SuccessHandler: storeClaims,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return httperr.Fail(httperr.ErrUnauthorized)
		},
	})
}

// OptionalJWT behaves like JWT when the request carries an Authorization
// header, and lets the request through anonymously (no Locals set) when
// it does not. Read endpoints use it: anonymous viewers get the
// published-only projection instead of a 401.
func OptionalJWT(cfg config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		SuccessHandler: storeClaims,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return httperr.Fail(httperr.ErrUnauthorized)
		},
		Filter: func(c *fiber.Ctx) bool {
			// Skip validation entirely for anonymous requests.
			return c.Get(fiber.HeaderAuthorization) == ""
		},
	})
}

// storeClaims copies the verified token claims into the request Locals.
func storeClaims(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims, _ := token.Claims.(jwt.MapClaims)

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return httperr.Fail(httperr.ErrUnauthorized)
	}

	userEmail, ok := claims["email"].(string)
	if !ok || userEmail == "" {
		return httperr.Fail(httperr.ErrUnauthorized)
	}

	c.Locals(ctxkeys.UserIDKey, userID)
	c.Locals(ctxkeys.UserEmailKey, userEmail)
	return c.Next()
}
