package serverutils

import (
	"buildhub-state/internal/slice/auth"

	"github.com/gofiber/fiber/v2"
)

// BearerToken reads the session token from the Authorization header, or
// from the "token" query parameter browsers use for websocket upgrades.
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

// JwtMiddleware rejects requests without a valid session token and stores
// the user_id and role claims in locals.
func JwtMiddleware(tokens *auth.TokenIssuer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    401,
				"message": "Missing token",
			})
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    401,
				"message": "Invalid token",
			})
		}

		ctx.Locals("user_id", claims["user_id"])
		ctx.Locals("role", claims["role"])
		return ctx.Next()
	}
}
