package session

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// claims pulls the verified JWT claims the auth middleware stored on the
// request context.
func claims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return mc
}

// UserID returns the authenticated account id from the access token.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	mc := claims(c)
	if mc == nil {
		return uuid.Nil, false
	}
	sub, _ := mc["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Email returns the authenticated account email from the access token.
func Email(c *fiber.Ctx) (string, bool) {
	mc := claims(c)
	if mc == nil {
		return "", false
	}
	email, _ := mc["email"].(string)
	return email, email != ""
}
