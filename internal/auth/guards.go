package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/flowbit/flowbit-api/internal/domain"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// RequireAdmin ensures the already-authenticated caller holds the Admin
// role. It must be sequenced after Middleware.Handle.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("access token required")
		}
		if claims.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}

// WebhookSecretHeader carries the shared secret on callback requests.
const WebhookSecretHeader = "X-Webhook-Secret"

// RequireWebhookSecret guards the callback endpoint with a static shared
// secret. The comparison is constant-time; a mismatch short-circuits before
// any storage access.
func RequireWebhookSecret(secret string) fiber.Handler {
	expected := []byte(secret)
	return func(c *fiber.Ctx) error {
		provided := []byte(c.Get(WebhookSecretHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(expected, provided) != 1 {
			return apperrors.NewForbidden("invalid webhook secret")
		}
		return c.Next()
	}
}
