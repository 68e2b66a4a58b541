package middlewares

import (
	t_token "nexus_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenUserID get user form token, set c.locals name
	TokenUserID = "UserID"
	//TokenRole get role form token, set c.locals name
	TokenRole = "role"
)

// JWTMiddleware validates JWT from query, cookie or Authorization header
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Query(QueryToken)

		// 查詢參數中沒有 token，則嘗試從 Cookie 中獲取
		if tokenStr == "" {
			tokenStr = c.Cookies(CookieToken)
		}

		// 最後嘗試 Authorization: Bearer
		if tokenStr == "" {
			tokenStr, _ = t_token.BearerToken(c.Get(fiber.HeaderAuthorization))
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		claims, err := t_token.ParseJWT(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(TokenUserID, claims.UserID)
		c.Locals(TokenRole, claims.Role)

		return c.Next()
	}
}

// UserID 從 fiber context 取出已驗證的 user id
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(TokenUserID).(string)
	return id
}
