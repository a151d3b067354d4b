package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// OwnerKey is the fiber Locals key holding the authenticated owner id.
const OwnerKey = "ownerID"

// SessionValidator checks a session cookie for roles.
type SessionValidator func(cookie string, roles []string) (*services.Session, error)

// AuthUser validates that the request has user role authorization. The
// Authorizer client is created on the first authenticated request.
func AuthUser(cfg *config.Config) fiber.Handler {
	validate := AuthWith(services.ValidateSession, []string{"user"}, "forms.authorization.user")
	return func(c *fiber.Ctx) error {
		if !services.IsAuthorizerInitialized() {
			if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
				return &types.CustomError{
					Code:    fiber.StatusServiceUnavailable,
					Message: err.Error(),
					Type:    "forms.authorization.unavailable",
				}
			}
		}
		return validate(c)
	}
}

// AuthWith builds an authorization handler around validate.
func AuthWith(validate SessionValidator, roles []string, errorType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies("cookie_session")
		if cookie == "" {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Authorizer cookie \"cookie_session\" not found",
				Type:    errorType,
			}
		}

		session, err := validate(cookie, roles)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: fmt.Sprintf("Invalid session: %v", err),
				Type:    errorType,
			}
		}

		c.Locals(OwnerKey, session.UserID)
		return c.Next()
	}
}

// Owner returns the owner id stored by the auth handler.
func Owner(c *fiber.Ctx) string {
	owner, _ := c.Locals(OwnerKey).(string)
	return owner
}
