package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/token"
)

const userIDKey = "userID"

// JWTAuth resolves the session user once at the boundary, from the session
// cookie or an Authorization bearer header, and stores the id in Locals.
func JWTAuth(tokens *token.Manager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(cookieName)
		if raw == "" {
			auth := c.Get("Authorization")
			if parts := strings.SplitN(auth, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				raw = parts[1]
			}
		}
		if raw == "" {
			return unauthorized(c, "Please login to access this resource")
		}

		uid, err := tokens.Verify(raw)
		if err != nil {
			return unauthorized(c, "Invalid or expired session")
		}
		oid, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			return unauthorized(c, "Invalid or expired session")
		}

		c.Locals(userIDKey, oid)
		return c.Next()
	}
}

// UserID returns the authenticated user id stored by JWTAuth. Zero value when
// the route is not behind the middleware.
func UserID(c *fiber.Ctx) primitive.ObjectID {
	if oid, ok := c.Locals(userIDKey).(primitive.ObjectID); ok {
		return oid
	}
	return primitive.NilObjectID
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}
